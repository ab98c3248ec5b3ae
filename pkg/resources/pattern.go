package resources

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ferrost/appkit/pkg/contracts"
)

// Resources expands a glob pattern into matching resources. "*" and "?"
// match within a path segment, "**" matches any number of segments. A
// pattern without meta characters degrades to a single-resource lookup.
// Patterns that match nothing return an empty slice.
func (l *Loader) Resources(pattern string) ([]contracts.Resource, error) {
	if !hasMeta(pattern) {
		r := l.Resource(pattern)
		if !r.Exists() {
			return nil, nil
		}
		return []contracts.Resource{r}, nil
	}

	if strings.HasPrefix(pattern, "fs:") {
		return l.fsResources(strings.TrimPrefix(pattern, "fs:"))
	}
	return l.fileResources(strings.TrimPrefix(pattern, "file:"))
}

func (l *Loader) fsResources(pattern string) ([]contracts.Resource, error) {
	mount, rest, ok := splitMountPath(pattern)
	if !ok {
		return nil, ErrBadPattern.WithDetail("pattern", "fs:"+pattern)
	}
	fsys, found := l.mounts[mount]
	if !found {
		return nil, ErrUnknownMount.WithDetail("mount", mount)
	}

	var out []contracts.Resource
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		match, merr := matchGlob(rest, p)
		if merr != nil {
			return merr
		}
		if match {
			out = append(out, &fsResource{fsys: fsys, mount: mount, path: p})
		}
		return nil
	})
	if err != nil {
		return nil, ErrBadPattern.WithDetail("pattern", "fs:"+pattern).WithCause(err)
	}
	sortResources(out)
	return out, nil
}

func (l *Loader) fileResources(pattern string) ([]contracts.Resource, error) {
	pattern = filepath.ToSlash(pattern)
	root := staticPrefix(pattern)
	rel := strings.TrimPrefix(strings.TrimPrefix(pattern, root), "/")
	if root == "" {
		root = "."
	}

	if _, err := os.Stat(root); err != nil {
		return nil, nil
	}

	var out []contracts.Resource
	err := fs.WalkDir(os.DirFS(root), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		match, merr := matchGlob(rel, p)
		if merr != nil {
			return merr
		}
		if match {
			out = append(out, &fileResource{path: filepath.Join(root, filepath.FromSlash(p))})
		}
		return nil
	})
	if err != nil {
		return nil, ErrBadPattern.WithDetail("pattern", pattern).WithCause(err)
	}
	sortResources(out)
	return out, nil
}

// staticPrefix returns the leading directory part of a pattern that carries
// no meta characters, used as the walk root.
func staticPrefix(pattern string) string {
	segments := strings.Split(pattern, "/")
	var static []string
	for _, seg := range segments[:len(segments)-1] {
		if hasMeta(seg) {
			break
		}
		static = append(static, seg)
	}
	return strings.Join(static, "/")
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// matchGlob matches slash-separated paths against a pattern where "**"
// spans segment boundaries and every other segment uses path.Match rules.
func matchGlob(pattern, name string) (bool, error) {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pattern, name []string) (bool, error) {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			// Collapse and try every possible expansion of the globstar.
			rest := pattern[1:]
			for skip := 0; skip <= len(name); skip++ {
				ok, err := matchSegments(rest, name[skip:])
				if err != nil || ok {
					return ok, err
				}
			}
			return false, nil
		}
		if len(name) == 0 {
			return false, nil
		}
		ok, err := path.Match(pattern[0], name[0])
		if err != nil {
			return false, ErrBadPattern.WithDetail("pattern", pattern[0]).WithCause(err)
		}
		if !ok {
			return false, nil
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0, nil
}

func sortResources(rs []contracts.Resource) {
	sort.Slice(rs, func(i, j int) bool {
		return rs[i].Location() < rs[j].Location()
	})
}
