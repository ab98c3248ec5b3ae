package contracts

import "io"

// Resource is a handle to external content. A handle may point at a location
// with nothing behind it; Exists distinguishes the two.
type Resource interface {
	Name() string
	Location() string
	Exists() bool
	Open() (io.ReadCloser, error)
	ReadAll() ([]byte, error)
}

// ResourceLoader resolves a location expression to a single resource handle.
// Supported forms are "file:path", a bare path, and "fs:mount/path" served
// from a registered fs.FS mount.
type ResourceLoader interface {
	Resource(location string) Resource
}

// ResourcePatternResolver expands a glob pattern, including "**", into the
// matching resources. A pattern that matches nothing yields an empty slice,
// not an error.
type ResourcePatternResolver interface {
	ResourceLoader
	Resources(pattern string) ([]Resource, error)
}
