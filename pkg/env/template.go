package env

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/ferrost/appkit/pkg/contracts"
)

// renderPlaceholders expands template expressions inside a property value.
// Available helpers: {{ env "VAR" }}, {{ prop "other.key" }},
// {{ "fallback" | default (env "VAR") }}, upper, lower.
func renderPlaceholders(input string, environment contracts.Environment) (string, error) {
	funcs := template.FuncMap{
		"default": func(def, val any) string {
			s, ok := val.(string)
			if !ok || s == "" {
				if d, ok := def.(string); ok {
					return d
				}
				return ""
			}
			return s
		},
		"env": os.Getenv,
		"prop": func(key string) string {
			v := environment.Get(key)
			if v == nil {
				return ""
			}
			if s, ok := v.(string); ok {
				return s
			}
			return fmt.Sprintf("%v", v)
		},
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
	}

	tmpl, err := template.New("property").Funcs(funcs).Parse(input)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, nil); err != nil {
		return "", err
	}
	return buf.String(), nil
}
