package resources

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/ferrost/appkit/pkg/contracts"
)

type fileResource struct {
	path string
}

var _ contracts.Resource = (*fileResource)(nil)

func (r *fileResource) Name() string {
	return filepath.Base(r.path)
}

func (r *fileResource) Location() string {
	return "file:" + filepath.ToSlash(r.path)
}

func (r *fileResource) Exists() bool {
	info, err := os.Stat(r.path)
	return err == nil && !info.IsDir()
}

func (r *fileResource) Open() (io.ReadCloser, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, ErrOpenResource.
			WithDetail("location", r.Location()).
			WithCause(err)
	}
	return f, nil
}

func (r *fileResource) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, ErrOpenResource.
			WithDetail("location", r.Location()).
			WithCause(err)
	}
	return data, nil
}

type fsResource struct {
	fsys  fs.FS
	mount string
	path  string
}

var _ contracts.Resource = (*fsResource)(nil)

func (r *fsResource) Name() string {
	return path.Base(r.path)
}

func (r *fsResource) Location() string {
	return "fs:" + r.mount + "/" + r.path
}

func (r *fsResource) Exists() bool {
	info, err := fs.Stat(r.fsys, r.path)
	return err == nil && !info.IsDir()
}

func (r *fsResource) Open() (io.ReadCloser, error) {
	f, err := r.fsys.Open(r.path)
	if err != nil {
		return nil, ErrOpenResource.
			WithDetail("location", r.Location()).
			WithCause(err)
	}
	return f, nil
}

func (r *fsResource) ReadAll() ([]byte, error) {
	data, err := fs.ReadFile(r.fsys, r.path)
	if err != nil {
		return nil, ErrOpenResource.
			WithDetail("location", r.Location()).
			WithCause(err)
	}
	return data, nil
}

// missingResource stands in for locations that cannot be resolved at all,
// such as an fs: location naming an unregistered mount. The handle itself is
// valid; only access fails.
type missingResource struct {
	location string
}

var _ contracts.Resource = (*missingResource)(nil)

func (r *missingResource) Name() string     { return path.Base(r.location) }
func (r *missingResource) Location() string { return r.location }
func (r *missingResource) Exists() bool     { return false }

func (r *missingResource) Open() (io.ReadCloser, error) {
	return nil, ErrOpenResource.WithDetail("location", r.location)
}

func (r *missingResource) ReadAll() ([]byte, error) {
	return nil, ErrOpenResource.WithDetail("location", r.location)
}
