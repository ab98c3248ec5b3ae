package events

import (
	"context"
	"reflect"
)

// listenerAdapter normalizes the two accepted listener shapes,
// func(context.Context, T) error and a value with a matching Handle method,
// into one callable checked against the subscribed event type.
type listenerAdapter struct {
	dispatch  func(ctx context.Context, event any) error
	eventType reflect.Type
}

func (l *listenerAdapter) handleEvent(ctx context.Context, event any) error {
	if !reflect.TypeOf(event).AssignableTo(l.eventType) {
		return ErrInvalidEventType.
			WithDetail("reason", "event not assignable").
			WithDetail("expected", l.eventType.String()).
			WithDetail("got", reflect.TypeOf(event).String())
	}
	return l.dispatch(ctx, event)
}

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

func newListenerAdapter(listener any) (*listenerAdapter, error) {
	value := reflect.ValueOf(listener)
	if !value.IsValid() {
		return nil, ErrInvalidListener
	}

	if value.Kind() == reflect.Func {
		return adapterFromFunc(value)
	}
	if method, ok := value.Type().MethodByName("Handle"); ok {
		return adapterFromMethod(value, method)
	}
	return nil, ErrInvalidListener
}

func adapterFromFunc(fn reflect.Value) (*listenerAdapter, error) {
	fnType := fn.Type()
	if fnType.NumIn() != 2 || fnType.NumOut() != 1 {
		return nil, ErrInvalidListenerFunc.WithDetail("signature", fnType.String())
	}
	if !fnType.In(0).Implements(contextType) {
		return nil, ErrInvalidListenerFunc.WithDetail("reason", "first argument must be context.Context")
	}
	if fnType.Out(0) != errorType {
		return nil, ErrInvalidListenerFunc.WithDetail("reason", "return type must be error")
	}

	return &listenerAdapter{
		eventType: fnType.In(1),
		dispatch: func(ctx context.Context, event any) error {
			out := fn.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(event)})
			if err := out[0].Interface(); err != nil {
				return err.(error)
			}
			return nil
		},
	}, nil
}

func adapterFromMethod(receiver reflect.Value, method reflect.Method) (*listenerAdapter, error) {
	fnType := method.Type
	if fnType.NumIn() != 3 || fnType.NumOut() != 1 {
		return nil, ErrInvalidListenerMethod.WithDetail("signature", fnType.String())
	}
	if !fnType.In(1).Implements(contextType) {
		return nil, ErrInvalidListenerMethod.WithDetail("reason", "first argument must be context.Context")
	}
	if fnType.Out(0) != errorType {
		return nil, ErrInvalidListenerMethod.WithDetail("reason", "must return error")
	}

	return &listenerAdapter{
		eventType: fnType.In(2),
		dispatch: func(ctx context.Context, event any) error {
			out := method.Func.Call([]reflect.Value{receiver, reflect.ValueOf(ctx), reflect.ValueOf(event)})
			if err := out[0].Interface(); err != nil {
				return err.(error)
			}
			return nil
		},
	}, nil
}
