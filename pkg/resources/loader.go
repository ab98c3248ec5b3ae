package resources

import (
	"io/fs"
	"strings"

	"github.com/ferrost/appkit/pkg/contracts"
)

// Loader resolves location expressions to resources. Supported forms:
//
//	file:conf/app.yaml   explicit file path
//	conf/app.yaml        bare paths are file paths
//	fs:mount/app.yaml    path inside a registered fs.FS mount
//
// Mounts make embedded or in-memory trees addressable, the same way a
// classpath prefix would in a JVM container.
type Loader struct {
	mounts map[string]fs.FS
}

var _ contracts.ResourcePatternResolver = (*Loader)(nil)

type Option func(*Loader)

// WithMount registers an fs.FS under a mount name for fs: locations.
func WithMount(name string, fsys fs.FS) Option {
	return func(l *Loader) {
		l.mounts[name] = fsys
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{mounts: make(map[string]fs.FS)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Resource(location string) contracts.Resource {
	switch {
	case strings.HasPrefix(location, "fs:"):
		mount, rest, ok := splitMountPath(strings.TrimPrefix(location, "fs:"))
		if !ok {
			return &missingResource{location: location}
		}
		fsys, found := l.mounts[mount]
		if !found {
			return &missingResource{location: location}
		}
		return &fsResource{fsys: fsys, mount: mount, path: rest}
	case strings.HasPrefix(location, "file:"):
		return &fileResource{path: strings.TrimPrefix(location, "file:")}
	default:
		return &fileResource{path: location}
	}
}

func splitMountPath(s string) (mount, rest string, ok bool) {
	idx := strings.IndexByte(s, '/')
	if idx <= 0 || idx == len(s)-1 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}
