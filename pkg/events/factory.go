package events

import (
	"reflect"
	"time"

	"github.com/ferrost/appkit/pkg/contracts"
)

// New builds a bus. Without options it delivers synchronously and is usable
// immediately; with WithAsyncWorkers it must be started before events flow
// through the pool.
func New(opts ...Option) contracts.EventBus {
	cfg := &busConfig{
		workerCount: 1,
		enqueueWait: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.panicHandler == nil {
		cfg.panicHandler = NewDefaultPanicHandler(nil)
	}
	if cfg.errorHandler == nil {
		cfg.errorHandler = NewDefaultErrorHandler(nil)
	}

	return &bus{
		listeners:    make(map[reflect.Type][]*listenerAdapter),
		panicHandler: cfg.panicHandler,
		errorHandler: cfg.errorHandler,
		asyncMode:    cfg.asyncMode,
		workerCount:  cfg.workerCount,
		enqueueWait:  cfg.enqueueWait,
	}
}
