package events

import (
	"fmt"

	"github.com/ferrost/appkit/pkg/contracts"
)

type defaultPanicHandler struct {
	logger contracts.Logger
}

// NewDefaultPanicHandler logs recovered listener panics; with a nil logger
// it re-panics, refusing to swallow the failure silently.
func NewDefaultPanicHandler(logger contracts.Logger) PanicHandler {
	return &defaultPanicHandler{logger: logger}
}

func (d *defaultPanicHandler) Handle(event any, listener any, panicValue any, stack []byte) {
	if d.logger == nil {
		panic(fmt.Sprintf("event listener panic: event=%v, panic=%v, stack=%s",
			event, panicValue, string(stack)))
	}
	d.logger.Critical("event listener panic",
		"event", fmt.Sprintf("%T", event),
		"panic_value", panicValue,
		"stack", string(stack))
}

type defaultErrorHandler struct {
	logger contracts.Logger
}

// NewDefaultErrorHandler logs listener errors; with a nil logger errors are
// only propagated to the publisher, not reported out of band.
func NewDefaultErrorHandler(logger contracts.Logger) ErrorHandler {
	return &defaultErrorHandler{logger: logger}
}

func (d *defaultErrorHandler) Handle(event any, listener any, err error) {
	if d.logger == nil {
		return
	}
	d.logger.Error("event listener failed",
		"event", fmt.Sprintf("%T", event),
		"error", err)
}
