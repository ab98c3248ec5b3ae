package contracts

import "context"

// Lifecycle is the start/stop capability shared by individual components and
// by containers. Containers propagate a hard start/stop signal to every
// contained component that implements Lifecycle.
//
// Start must be a no-op when already running and Stop must be a no-op when
// already stopped; neither may report an error for a redundant call. Stop is
// synchronous: the component is fully stopped when the call returns. A stop
// signal is not guaranteed to precede teardown, so implementations must not
// treat stop-then-close ordering as an invariant.
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsRunning() bool
}
