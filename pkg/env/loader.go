package env

import (
	"encoding/json"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ferrost/appkit/pkg/contracts"
)

// Loader produces one layer of raw configuration values.
type Loader interface {
	Load() (map[string]any, error)
}

// LoadSource runs a loader and wraps the result in a named MapSource.
func LoadSource(name string, loader Loader) (contracts.PropertySource, error) {
	values, err := loader.Load()
	if err != nil {
		return nil, err
	}
	return NewMapSource(name, values), nil
}

type yamlLoader struct {
	paths []string
}

// NewYAMLLoader loads the first readable path of the given candidates.
func NewYAMLLoader(paths ...string) Loader {
	return &yamlLoader{paths: paths}
}

func (l *yamlLoader) Load() (map[string]any, error) {
	for _, path := range l.paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var values map[string]any
		if err = yaml.UnmarshalWithOptions(data, &values, yaml.UseJSONUnmarshaler()); err != nil {
			return nil, ErrParseYAML.
				WithDetail("path", path).
				WithDetail("reason", err.Error()).
				WithCause(err)
		}
		return values, nil
	}
	return nil, ErrNoSource.WithDetail("loader", "yaml")
}

type jsonLoader struct {
	paths []string
}

func NewJSONLoader(paths ...string) Loader {
	return &jsonLoader{paths: paths}
}

func (l *jsonLoader) Load() (map[string]any, error) {
	for _, path := range l.paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var values map[string]any
		if err = json.Unmarshal(data, &values); err != nil {
			return nil, ErrParseJSON.
				WithDetail("path", path).
				WithDetail("reason", err.Error()).
				WithCause(err)
		}
		return values, nil
	}
	return nil, ErrNoSource.WithDetail("loader", "json")
}

type chainLoader struct {
	loaders []Loader
}

// NewChainLoader merges all loaders in order; later layers win on conflict,
// nested maps merge key by key. Loaders that fail are skipped; the chain
// fails only when no layer produced values at all.
func NewChainLoader(loaders ...Loader) Loader {
	return &chainLoader{loaders: loaders}
}

func (c *chainLoader) Load() (map[string]any, error) {
	final := make(map[string]any)
	var lastErr error
	loaded := false

	for _, loader := range c.loaders {
		values, err := loader.Load()
		if err != nil {
			lastErr = err
			continue
		}
		mergeMaps(final, values)
		loaded = true
	}

	if !loaded {
		return nil, ErrNoSource.WithDetail("loader", "chain").WithCause(lastErr)
	}
	return final, nil
}

func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		if srcMap, ok := v.(map[string]any); ok {
			if dstMap, ok := dst[k].(map[string]any); ok {
				mergeMaps(dstMap, srcMap)
				continue
			}
		}
		dst[k] = v
	}
}
