package app

import (
	"context"

	"github.com/ferrost/appkit/pkg/contracts"
	"github.com/ferrost/appkit/pkg/lifecycle"
)

// moduleMember adapts a Module to the Lifecycle shape so the context can
// drive modules and lifecycle beans through one group.
type moduleMember struct {
	module contracts.Module
	appCtx contracts.Context
	state  lifecycle.State
}

var _ contracts.Lifecycle = (*moduleMember)(nil)

func (m *moduleMember) Start(_ context.Context) error {
	if !m.state.TryStart() {
		return nil
	}
	if err := m.module.Start(m.appCtx); err != nil {
		m.state.TryStop()
		return ErrModuleStart.WithDetail("module", m.module.Name()).WithCause(err)
	}
	return nil
}

func (m *moduleMember) Stop(_ context.Context) error {
	if !m.state.TryStop() {
		return nil
	}
	if err := m.module.Stop(m.appCtx); err != nil {
		return ErrModuleStop.WithDetail("module", m.module.Name()).WithCause(err)
	}
	return nil
}

func (m *moduleMember) IsRunning() bool {
	return m.state.IsRunning()
}
