package lifecycle

import (
	"context"
	"sync"

	"github.com/ferrost/appkit/pkg/contracts"
	"github.com/ferrost/appkit/pkg/errors"
)

// Group drives a set of lifecycle-capable members as one unit. Start is a
// hard signal: it propagates to every member in registration order no matter
// what auto-start policy a member might have of its own. Stop propagates in
// reverse registration order and keeps going past member failures, joining
// their errors. IsRunning is true only when the group was started and every
// member currently reports running.
type Group struct {
	mu      sync.RWMutex
	members []contracts.Lifecycle
	started bool
	logger  contracts.Logger
}

var _ contracts.Lifecycle = (*Group)(nil)

func NewGroup(members ...contracts.Lifecycle) *Group {
	return &Group{members: members}
}

// WithLogger attaches a logger used for per-member transition logging.
func (g *Group) WithLogger(logger contracts.Logger) *Group {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.logger = logger
	return g
}

// Add registers another member. Members added while the group is running
// receive the start signal immediately.
func (g *Group) Add(ctx context.Context, member contracts.Lifecycle) error {
	g.mu.Lock()
	g.members = append(g.members, member)
	started := g.started
	g.mu.Unlock()

	if started {
		return member.Start(ctx)
	}
	return nil
}

func (g *Group) Members() []contracts.Lifecycle {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]contracts.Lifecycle, len(g.members))
	copy(out, g.members)
	return out
}

func (g *Group) Start(ctx context.Context) error {
	g.mu.Lock()
	if g.started {
		g.mu.Unlock()
		return nil
	}
	g.started = true
	members := make([]contracts.Lifecycle, len(g.members))
	copy(members, g.members)
	logger := g.logger
	g.mu.Unlock()

	started := 0
	for _, member := range members {
		if err := member.Start(ctx); err != nil {
			g.rollback(ctx, members[:started])
			g.mu.Lock()
			g.started = false
			g.mu.Unlock()
			return ErrMemberStart.WithCause(err)
		}
		started++
	}
	if logger != nil {
		logger.Debug("lifecycle group started", "members", len(members))
	}
	return nil
}

func (g *Group) rollback(ctx context.Context, started []contracts.Lifecycle) {
	for i := len(started) - 1; i >= 0; i-- {
		_ = started[i].Stop(ctx)
	}
}

func (g *Group) Stop(ctx context.Context) error {
	g.mu.Lock()
	if !g.started {
		g.mu.Unlock()
		return nil
	}
	g.started = false
	members := make([]contracts.Lifecycle, len(g.members))
	copy(members, g.members)
	logger := g.logger
	g.mu.Unlock()

	var errs []error
	for i := len(members) - 1; i >= 0; i-- {
		if err := members[i].Stop(ctx); err != nil {
			errs = append(errs, ErrMemberStop.WithCause(err))
		}
	}
	if logger != nil {
		logger.Debug("lifecycle group stopped", "members", len(members), "failures", len(errs))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (g *Group) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.started {
		return false
	}
	for _, member := range g.members {
		if !member.IsRunning() {
			return false
		}
	}
	return true
}
