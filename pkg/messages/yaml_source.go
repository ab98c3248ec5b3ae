package messages

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ferrost/appkit/pkg/contracts"
)

// YAMLSource loads translation bundles from YAML resources resolved through
// a resource pattern, e.g. "fs:bundled/messages/*.yaml". Each file holds one
// locale, named by its base name ("en.yaml", "de-AT.yaml"). Nested keys
// flatten to dotted message codes.
type YAMLSource struct {
	resolver contracts.ResourcePatternResolver
	pattern  string
}

var _ Source = (*YAMLSource)(nil)

func NewYAMLSource(resolver contracts.ResourcePatternResolver, pattern string) *YAMLSource {
	return &YAMLSource{resolver: resolver, pattern: pattern}
}

func (s *YAMLSource) Load() (map[string]map[string]string, error) {
	found, err := s.resolver.Resources(s.pattern)
	if err != nil {
		return nil, ErrLoadBundle.
			WithDetail("location", s.pattern).
			WithCause(err)
	}

	bundles := make(map[string]map[string]string)
	for _, resource := range found {
		data, err := resource.ReadAll()
		if err != nil {
			return nil, ErrLoadBundle.
				WithDetail("location", resource.Location()).
				WithCause(err)
		}

		var raw map[string]any
		if err = yaml.UnmarshalWithOptions(data, &raw, yaml.UseJSONUnmarshaler()); err != nil {
			return nil, ErrLoadBundle.
				WithDetail("location", resource.Location()).
				WithCause(err)
		}

		locale := localeFromName(resource.Name())
		bundle, ok := bundles[locale]
		if !ok {
			bundle = make(map[string]string)
			bundles[locale] = bundle
		}
		flatten("", raw, bundle)
	}
	return bundles, nil
}

func localeFromName(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx > 0 {
		return name[:idx]
	}
	return name
}

func flatten(prefix string, raw map[string]any, out map[string]string) {
	for k, v := range raw {
		code := k
		if prefix != "" {
			code = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(code, val, out)
		case string:
			out[code] = val
		default:
			out[code] = fmt.Sprintf("%v", val)
		}
	}
}
