package contracts

import "context"

// EventPublisher delivers an event object to all currently subscribed
// listeners. Delivery order across listeners follows subscription order;
// publishing an event nobody listens to is a no-op.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// EventBus is the full publish/subscribe facility. Subscribe takes a typed
// nil pointer marker, e.g. (*UserCreated)(nil), and a listener that is either
// func(context.Context, T) error or a value with a matching Handle method.
type EventBus interface {
	EventPublisher
	Subscribe(eventType any, listener any) error
	Close() error
}
