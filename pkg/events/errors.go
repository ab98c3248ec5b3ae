package events

import "github.com/ferrost/appkit/pkg/errors"

var newEventsCode = errors.WithPrefix("EVENTS")

var (
	ErrInvalidListener       = newEventsCode().New("listener must be func(context.Context, T) error or carry a matching Handle method")
	ErrInvalidListenerFunc   = newEventsCode().New("listener function must have signature func(context.Context, T) error")
	ErrInvalidListenerMethod = newEventsCode().New("Handle method must have signature Handle(context.Context, T) error")
	ErrInvalidEventType      = newEventsCode().New("invalid event type")
	ErrBusClosed             = newEventsCode().New("event bus is closed")
	ErrPublishOnClosedBus    = newEventsCode().New("cannot publish: event bus is closed")
	ErrQueueSaturated        = newEventsCode().New("event queue is saturated, delivery timed out")
)
