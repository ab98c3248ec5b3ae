package app

import (
	"github.com/google/uuid"

	"github.com/ferrost/appkit/pkg/contracts"
	"github.com/ferrost/appkit/pkg/env"
	"github.com/ferrost/appkit/pkg/events"
	"github.com/ferrost/appkit/pkg/logger"
	"github.com/ferrost/appkit/pkg/messages"
	"github.com/ferrost/appkit/pkg/resources"
)

type Option func(*appContext)

// WithParent links the context under an existing one. The parent contributes
// its property sources and bean definitions; it stays independently owned.
func WithParent(parent contracts.Context) Option {
	return func(c *appContext) {
		c.parent = parent
	}
}

func WithApplicationName(name string) Option {
	return func(c *appContext) {
		c.applicationName = name
	}
}

func WithDisplayName(name string) Option {
	return func(c *appContext) {
		c.displayName = name
	}
}

func WithEnvironment(e contracts.MutableEnvironment) Option {
	return func(c *appContext) {
		c.env = e
	}
}

func WithLogger(l contracts.Logger) Option {
	return func(c *appContext) {
		c.logger = l
	}
}

func WithEventBus(bus contracts.EventBus) Option {
	return func(c *appContext) {
		c.bus = bus
	}
}

func WithMessageResolver(r contracts.MessageResolver) Option {
	return func(c *appContext) {
		c.messages = r
	}
}

func WithResourceLoader(l contracts.ResourcePatternResolver) Option {
	return func(c *appContext) {
		c.resources = l
	}
}

func WithModule(modules ...contracts.Module) Option {
	return func(c *appContext) {
		c.modules = append(c.modules, modules...)
	}
}

// WithoutProvisioner builds a context whose Provisioner accessor always
// reports the invalid-state error, for deployments that forbid field
// injection.
func WithoutProvisioner() Option {
	return func(c *appContext) {
		c.provisioning = false
	}
}

// New assembles a context from options. Every facility has a working
// default, so New() alone yields a usable standalone context; call Refresh
// before any bean operation.
func New(opts ...Option) contracts.Context {
	c := &appContext{
		id:           uuid.NewString(),
		provisioning: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.displayName == "" {
		c.displayName = c.id
	}
	if c.env == nil {
		c.env = env.New()
	}
	if c.logger == nil {
		c.logger = logger.New()
	}
	if c.bus == nil {
		c.bus = events.New(
			events.WithPanicHandler(events.NewDefaultPanicHandler(c.logger)),
			events.WithErrorHandler(events.NewDefaultErrorHandler(c.logger)),
		)
	}
	if c.messages == nil {
		c.messages = messages.New()
	}
	if c.resources == nil {
		c.resources = resources.NewLoader()
	}
	return c
}
