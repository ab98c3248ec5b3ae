package contracts

// PropertySource is a single named source of key/value configuration.
// Keys use dotted paths ("server.http.port").
type PropertySource interface {
	Name() string
	Lookup(key string) (any, bool)
}

// Environment is the read-only configuration view attached to a context:
// an ordered collection of property sources plus active and default profile
// names. Source order is resolution precedence, first match wins.
type Environment interface {
	Sources() []PropertySource

	Has(key string) bool
	Get(key string) any
	GetString(key string, defaultVal ...string) string
	GetInt(key string, defaultVal ...int) int
	GetInt64(key string, defaultVal ...int64) int64
	GetFloat64(key string, defaultVal ...float64) float64
	GetBool(key string, defaultVal ...bool) bool
	GetStringSlice(key string, separator ...string) []string

	ActiveProfiles() []string
	DefaultProfiles() []string

	// Accepts reports whether any of the given profile expressions matches
	// the active profiles (or the default profiles when none are active).
	// A leading "!" negates an expression.
	Accepts(profiles ...string) bool
}

// MutableEnvironment is the configurable variant handed to the code that
// assembles a context. Once the context is refreshed, callers only see the
// read-only Environment view.
type MutableEnvironment interface {
	Environment

	AddFirst(source PropertySource)
	AddLast(source PropertySource)
	Remove(name string) bool

	SetActiveProfiles(profiles ...string)
	SetDefaultProfiles(profiles ...string)

	// Merge appends the parent's property sources after this environment's
	// own and unions profile names, so child definitions keep precedence.
	Merge(parent Environment)
}

// EnvironmentCapable marks a component that exposes its configuration view.
// The returned environment is never nil; before initialization it may be
// empty.
type EnvironmentCapable interface {
	Environment() Environment
}
