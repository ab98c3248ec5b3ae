package app

import (
	stdcontext "context"
	"reflect"
	"sync"
	"time"

	"github.com/ferrost/appkit/pkg/beans"
	"github.com/ferrost/appkit/pkg/contracts"
	"github.com/ferrost/appkit/pkg/errors"
	"github.com/ferrost/appkit/pkg/lifecycle"
)

type contextState int

const (
	stateNew contextState = iota
	stateActive
	stateClosed
)

var (
	environmentType = reflect.TypeOf((*contracts.Environment)(nil)).Elem()
	loggerType      = reflect.TypeOf((*contracts.Logger)(nil)).Elem()
	eventBusType    = reflect.TypeOf((*contracts.EventBus)(nil)).Elem()
	messagesType    = reflect.TypeOf((*contracts.MessageResolver)(nil)).Elem()
	resourcesType   = reflect.TypeOf((*contracts.ResourcePatternResolver)(nil)).Elem()
	contextType     = reflect.TypeOf((*contracts.Context)(nil)).Elem()
	lifecycleType   = reflect.TypeOf((*contracts.Lifecycle)(nil)).Elem()
)

type appContext struct {
	id              string
	applicationName string
	displayName     string

	parent       contracts.Context
	env          contracts.MutableEnvironment
	logger       contracts.Logger
	bus          contracts.EventBus
	messages     contracts.MessageResolver
	resources    contracts.ResourcePatternResolver
	modules      []contracts.Module
	provisioning bool

	mu          sync.RWMutex
	state       contextState
	startupTime time.Time
	registry    contracts.BeanRegistry
	provisioner contracts.Provisioner
	group       *lifecycle.Group
}

var _ contracts.Context = (*appContext)(nil)

func (c *appContext) ID() string              { return c.id }
func (c *appContext) ApplicationName() string { return c.applicationName }
func (c *appContext) DisplayName() string     { return c.displayName }

func (c *appContext) StartupTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.startupTime
}

func (c *appContext) Parent() (contracts.Context, bool) {
	if c.parent == nil {
		return nil, false
	}
	return c.parent, true
}

func (c *appContext) Environment() contracts.Environment {
	return c.env
}

func (c *appContext) Resource(location string) contracts.Resource {
	return c.resources.Resource(location)
}

func (c *appContext) Resources(pattern string) ([]contracts.Resource, error) {
	return c.resources.Resources(pattern)
}

func (c *appContext) Publish(ctx stdcontext.Context, event any) error {
	return c.bus.Publish(ctx, event)
}

func (c *appContext) Resolve(code string, args map[string]any, locale string) (string, error) {
	return c.messages.Resolve(code, args, locale)
}

func (c *appContext) ResolveDefault(code string, args map[string]any, locale string, fallback string) string {
	return c.messages.ResolveDefault(code, args, locale, fallback)
}

func (c *appContext) Registry() (contracts.BeanRegistry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch c.state {
	case stateNew:
		return nil, ErrContextNotReady.WithDetail("reason", "context has not been refreshed")
	case stateClosed:
		return nil, ErrContextNotReady.WithDetail("reason", "context is closed")
	}
	return c.registry, nil
}

func (c *appContext) Provisioner() (contracts.Provisioner, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.provisioning {
		return nil, ErrContextNotReady.WithDetail("reason", "context does not support provisioning")
	}
	switch c.state {
	case stateNew:
		return nil, ErrContextNotReady.WithDetail("reason", "context has not been refreshed")
	case stateClosed:
		return nil, ErrContextNotReady.WithDetail("reason", "context is closed")
	}
	return c.provisioner, nil
}

// Refresh assembles the bean registry, merges the parent environment,
// registers the built-in facilities and every module, and records the
// startup instant. A context refreshes exactly once.
func (c *appContext) Refresh(_ stdcontext.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case stateClosed:
		return ErrContextClosed
	case stateActive:
		return ErrAlreadyRefreshed
	}

	if c.parent != nil {
		c.env.Merge(c.parent.Environment())
	}

	registry := c.newRegistry()
	if err := c.registerFacilities(registry); err != nil {
		return err
	}
	for _, module := range c.modules {
		if err := module.Register(registry); err != nil {
			return ErrModuleRegister.WithDetail("module", module.Name()).WithCause(err)
		}
	}

	group := lifecycle.NewGroup().WithLogger(c.logger)
	if member, ok := c.bus.(contracts.Lifecycle); ok {
		_ = group.Add(stdcontext.Background(), member)
	}
	if err := c.addLifecycleBeans(group, registry); err != nil {
		return err
	}
	for _, module := range c.modules {
		_ = group.Add(stdcontext.Background(), &moduleMember{module: module, appCtx: c})
	}

	c.registry = registry
	c.provisioner = beans.NewProvisioner(registry)
	c.group = group
	if c.startupTime.IsZero() {
		c.startupTime = time.Now()
	}
	c.state = stateActive

	c.logger.Debug("context refreshed",
		"id", c.id,
		"displayName", c.displayName,
		"modules", len(c.modules),
	)
	return nil
}

// newRegistry chains the bean registry under the parent's when the parent is
// already refreshed; an unready parent leaves the child standalone.
func (c *appContext) newRegistry() contracts.BeanRegistry {
	if c.parent != nil {
		if parentRegistry, err := c.parent.Registry(); err == nil {
			return beans.NewChildRegistry(parentRegistry)
		}
	}
	return beans.NewRegistry()
}

func (c *appContext) registerFacilities(registry contracts.BeanRegistry) error {
	pairs := []struct {
		abstract reflect.Type
		concrete any
	}{
		{environmentType, contracts.Environment(c.env)},
		{loggerType, c.logger},
		{eventBusType, c.bus},
		{messagesType, c.messages},
		{resourcesType, c.resources},
		{contextType, contracts.Context(c)},
	}
	for _, p := range pairs {
		if err := registry.Instance(p.abstract, p.concrete); err != nil {
			return err
		}
	}
	return nil
}

// addLifecycleBeans pulls every locally registered lifecycle-capable bean
// into the group. Inherited beans stay under the parent's control, and the
// context itself and the event bus are already driven directly.
func (c *appContext) addLifecycleBeans(group *lifecycle.Group, registry contracts.BeanRegistry) error {
	all, err := beans.ResolveAllLocal(registry, lifecycleType)
	if err != nil {
		return err
	}
	for _, bean := range all {
		if bean == any(c) || bean == any(c.bus) {
			continue
		}
		member, ok := bean.(contracts.Lifecycle)
		if !ok {
			continue
		}
		if addErr := group.Add(stdcontext.Background(), member); addErr != nil {
			return addErr
		}
	}
	return nil
}

func (c *appContext) Start(ctx stdcontext.Context) error {
	c.mu.RLock()
	state := c.state
	group := c.group
	c.mu.RUnlock()

	switch state {
	case stateNew:
		return ErrContextNotReady.WithDetail("reason", "context has not been refreshed")
	case stateClosed:
		return ErrContextClosed
	}

	if err := group.Start(ctx); err != nil {
		return err
	}
	c.logger.Info("context started", "id", c.id, "displayName", c.displayName)
	return nil
}

func (c *appContext) Stop(ctx stdcontext.Context) error {
	c.mu.RLock()
	state := c.state
	group := c.group
	c.mu.RUnlock()

	if state != stateActive {
		return nil
	}
	if err := group.Stop(ctx); err != nil {
		return err
	}
	c.logger.Info("context stopped", "id", c.id, "displayName", c.displayName)
	return nil
}

func (c *appContext) IsRunning() bool {
	c.mu.RLock()
	state := c.state
	group := c.group
	c.mu.RUnlock()
	return state == stateActive && group.IsRunning()
}

// Close stops the context when running, shuts the event bus down and marks
// the context closed. The parent, when present, is left untouched. Closing
// again is a no-op.
func (c *appContext) Close() error {
	c.mu.Lock()
	if c.state == stateClosed {
		c.mu.Unlock()
		return nil
	}
	state := c.state
	group := c.group
	c.state = stateClosed
	c.mu.Unlock()

	var errs []error
	if state == stateActive {
		if err := group.Stop(stdcontext.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.bus.Close(); err != nil {
		errs = append(errs, err)
	}

	c.logger.Info("context closed", "id", c.id, "displayName", c.displayName)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
