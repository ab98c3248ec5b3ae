package events

import "time"

// PanicHandler receives panics recovered from listeners.
type PanicHandler interface {
	Handle(event any, listener any, panicValue any, stack []byte)
}

// ErrorHandler receives errors returned by listeners.
type ErrorHandler interface {
	Handle(event any, listener any, err error)
}

type busConfig struct {
	panicHandler PanicHandler
	errorHandler ErrorHandler
	asyncMode    bool
	workerCount  int
	enqueueWait  time.Duration
}

type Option func(*busConfig)

func WithPanicHandler(h PanicHandler) Option {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(c *busConfig) {
		c.errorHandler = h
	}
}

// WithAsyncWorkers switches the bus to async delivery through a pool of the
// given size. The pool starts on Start and drains on Stop.
func WithAsyncWorkers(count int) Option {
	return func(c *busConfig) {
		if count < 1 {
			count = 1
		}
		c.asyncMode = true
		c.workerCount = count
	}
}

// WithEnqueueWait bounds how long an async Publish blocks on a saturated
// queue before giving up.
func WithEnqueueWait(d time.Duration) Option {
	return func(c *busConfig) {
		if d > 0 {
			c.enqueueWait = d
		}
	}
}
