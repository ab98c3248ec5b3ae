package contracts

import (
	stdcontext "context"
	"time"
)

// Context is the central facade a container implements. It aggregates the
// configuration view, bean lookup, resource loading, event publication and
// message resolution behind one handle, and is itself a lifecycle-capable
// component: Start and Stop propagate to every contained bean and module
// that implements Lifecycle.
//
// A context becomes usable after Refresh and unusable after Close. Bean
// operations on a closed context report an error instead of returning
// partial results.
type Context interface {
	EnvironmentCapable
	Lifecycle
	ResourcePatternResolver
	EventPublisher
	MessageResolver

	// ID is non-empty, unique and stable for the context's lifetime.
	ID() string

	// ApplicationName is the logical application grouping; the empty string
	// is a valid default.
	ApplicationName() string

	// DisplayName is a human-readable label, never empty.
	DisplayName() string

	// StartupTime is the instant the context first completed Refresh. It is
	// the zero time before that and fixed afterwards.
	StartupTime() time.Time

	// Parent returns the enclosing context, or false for a hierarchy root.
	// The parent is independently owned: no operation on this context may
	// mutate or close it.
	Parent() (Context, bool)

	// Registry exposes the bean lookup facility. It reports an error when
	// the context has not been refreshed or has been closed.
	Registry() (BeanRegistry, error)

	// Provisioner exposes the advanced bean-creation facility for objects
	// managed outside normal lookup. It fails with a single invalid-state
	// error kind when the context does not support provisioning, has never
	// been refreshed, or has already been closed.
	Provisioner() (Provisioner, error)

	// Refresh performs the initialization phase: loads the environment,
	// registers modules and makes bean operations valid.
	Refresh(ctx stdcontext.Context) error

	// Close stops the context if running and releases its facilities.
	// Closing an already-closed context is a no-op.
	Close() error
}

// Module is a deployable unit a context drives through its lifetime:
// Register contributes beans during Refresh, Start and Stop follow the
// context's own lifecycle transitions.
type Module interface {
	Name() string
	Register(registry BeanRegistry) error
	Start(ctx Context) error
	Stop(ctx Context) error
}
