package env

import (
	"os"
	"strconv"
	"strings"

	"github.com/ferrost/appkit/pkg/contracts"
)

// OSSource exposes process environment variables carrying the given prefix.
// "APP_SERVER__PORT=8080" with prefix "APP_" becomes "server.port" with the
// value parsed to its narrowest type.
type OSSource struct {
	name   string
	prefix string
	values map[string]any
}

var _ contracts.PropertySource = (*OSSource)(nil)

func NewOSSource(prefix string) *OSSource {
	s := &OSSource{
		name:   "os:" + prefix,
		prefix: prefix,
		values: make(map[string]any),
	}
	s.Reload()
	return s
}

func (s *OSSource) Name() string {
	return s.name
}

func (s *OSSource) Lookup(key string) (any, bool) {
	return findPath(s.values, key)
}

// Reload re-reads the process environment. Variables removed since the last
// load disappear from the source.
func (s *OSSource) Reload() {
	values := make(map[string]any)
	for _, entry := range os.Environ() {
		if !strings.HasPrefix(entry, s.prefix) {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], s.prefix))
		key = strings.ReplaceAll(key, "__", ".")
		setPath(values, key, parseScalar(parts[1]))
	}
	s.values = values
}

func parseScalar(value string) any {
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}
