package env

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/ferrost/appkit/pkg/contracts"
)

const (
	// ProfilesProperty names the property holding comma-separated active
	// profiles, checked when no profiles were set programmatically.
	ProfilesProperty = "profiles.active"

	reservedDefaultProfile = "default"
)

type environment struct {
	mu              sync.RWMutex
	sources         []contracts.PropertySource
	activeProfiles  []string
	defaultProfiles []string
}

var _ contracts.MutableEnvironment = (*environment)(nil)

// New returns an empty mutable environment with the reserved "default"
// profile as its default set.
func New(sources ...contracts.PropertySource) contracts.MutableEnvironment {
	return &environment{
		sources:         sources,
		defaultProfiles: []string{reservedDefaultProfile},
	}
}

func (e *environment) Sources() []contracts.PropertySource {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]contracts.PropertySource, len(e.sources))
	copy(out, e.sources)
	return out
}

func (e *environment) AddFirst(source contracts.PropertySource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(source.Name())
	e.sources = append([]contracts.PropertySource{source}, e.sources...)
}

func (e *environment) AddLast(source contracts.PropertySource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(source.Name())
	e.sources = append(e.sources, source)
}

func (e *environment) Remove(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeLocked(name)
}

func (e *environment) removeLocked(name string) bool {
	for i, s := range e.sources {
		if s.Name() == name {
			e.sources = append(e.sources[:i], e.sources[i+1:]...)
			return true
		}
	}
	return false
}

func (e *environment) Merge(parent contracts.Environment) {
	if parent == nil {
		return
	}
	parentSources := parent.Sources()
	parentActive := parent.ActiveProfiles()
	parentDefault := parent.DefaultProfiles()

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range parentSources {
		if e.hasSourceLocked(s.Name()) {
			continue
		}
		e.sources = append(e.sources, s)
	}
	e.activeProfiles = unionProfiles(e.activeProfiles, parentActive)
	e.defaultProfiles = unionProfiles(e.defaultProfiles, parentDefault)
}

func (e *environment) hasSourceLocked(name string) bool {
	for _, s := range e.sources {
		if s.Name() == name {
			return true
		}
	}
	return false
}

func unionProfiles(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, p := range a {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range b {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func (e *environment) find(key string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, s := range e.sources {
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return nil, false
}

func (e *environment) Has(key string) bool {
	_, ok := e.find(key)
	return ok
}

func (e *environment) Get(key string) any {
	v, _ := e.find(key)
	return v
}

func (e *environment) GetString(key string, defaultVal ...string) string {
	v, ok := e.find(key)
	if !ok {
		return getFirst(defaultVal)
	}
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprintf("%v", v)
	}
	if strings.Contains(s, "{{") && strings.Contains(s, "}}") {
		if rendered, err := renderPlaceholders(s, e); err == nil {
			return rendered
		}
	}
	return s
}

func (e *environment) GetInt(key string, defaultVal ...int) int {
	v, ok := e.find(key)
	if !ok {
		return getFirst(defaultVal)
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		if val < int64(math.MinInt) || val > int64(math.MaxInt) {
			return getFirst(defaultVal)
		}
		return int(val)
	case uint64:
		if val > uint64(math.MaxInt) {
			return getFirst(defaultVal)
		}
		return int(val)
	case float64:
		if val < float64(math.MinInt) || val > float64(math.MaxInt) {
			return getFirst(defaultVal)
		}
		return int(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return getFirst(defaultVal)
}

func (e *environment) GetInt64(key string, defaultVal ...int64) int64 {
	v, ok := e.find(key)
	if !ok {
		return getFirst(defaultVal)
	}
	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case uint64:
		if val > math.MaxInt64 {
			return getFirst(defaultVal)
		}
		return int64(val)
	case float64:
		if val < float64(math.MinInt64) || val > float64(math.MaxInt64) {
			return getFirst(defaultVal)
		}
		return int64(val)
	case string:
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return getFirst(defaultVal)
}

func (e *environment) GetFloat64(key string, defaultVal ...float64) float64 {
	v, ok := e.find(key)
	if !ok {
		return getFirst(defaultVal)
	}
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return getFirst(defaultVal)
}

func (e *environment) GetBool(key string, defaultVal ...bool) bool {
	v, ok := e.find(key)
	if !ok {
		return getFirst(defaultVal)
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(val) {
		case "true", "1", "on", "yes", "y":
			return true
		case "false", "0", "off", "no", "n":
			return false
		}
	case float64:
		return val != 0
	case int:
		return val != 0
	}
	return getFirst(defaultVal)
}

func (e *environment) GetStringSlice(key string, separator ...string) []string {
	v, ok := e.find(key)
	if !ok || v == nil {
		return nil
	}

	sep := ","
	if len(separator) > 0 {
		sep = separator[0]
	}

	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			out[i] = fmt.Sprintf("%v", item)
		}
		return out
	case string:
		parts := strings.Split(val, sep)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}

func (e *environment) ActiveProfiles() []string {
	e.mu.RLock()
	active := make([]string, len(e.activeProfiles))
	copy(active, e.activeProfiles)
	e.mu.RUnlock()

	if len(active) > 0 {
		return active
	}
	// Fall back to the profiles.active property, matching how externally
	// supplied configuration activates profiles.
	if raw := e.GetString(ProfilesProperty); raw != "" {
		return e.GetStringSlice(ProfilesProperty)
	}
	return nil
}

func (e *environment) DefaultProfiles() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.defaultProfiles))
	copy(out, e.defaultProfiles)
	return out
}

func (e *environment) SetActiveProfiles(profiles ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.activeProfiles = append([]string(nil), profiles...)
}

func (e *environment) SetDefaultProfiles(profiles ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defaultProfiles = append([]string(nil), profiles...)
}

func (e *environment) Accepts(profiles ...string) bool {
	current := e.ActiveProfiles()
	if len(current) == 0 {
		current = e.DefaultProfiles()
	}
	active := make(map[string]bool, len(current))
	for _, p := range current {
		active[p] = true
	}

	for _, expr := range profiles {
		if expr == "" {
			continue
		}
		if strings.HasPrefix(expr, "!") {
			if !active[expr[1:]] {
				return true
			}
			continue
		}
		if active[expr] {
			return true
		}
	}
	return false
}

func getFirst[T any](values []T) T {
	var zero T
	if len(values) > 0 {
		return values[0]
	}
	return zero
}
