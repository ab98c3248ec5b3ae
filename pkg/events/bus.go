package events

import (
	"context"
	"reflect"
	"runtime/debug"
	"sync"
	"time"

	"github.com/ferrost/appkit/pkg/contracts"
)

type task struct {
	ctx     context.Context
	event   any
	adapter *listenerAdapter
}

// bus is an in-process publish/subscribe dispatcher. In async mode a worker
// pool owns delivery; the pool is tied to the Lifecycle contract so a
// context that starts and stops its beans drives the workers too. In sync
// mode Publish delivers inline and Start/Stop only track state.
type bus struct {
	mu           sync.RWMutex
	listeners    map[reflect.Type][]*listenerAdapter
	closed       bool
	running      bool
	wg           sync.WaitGroup
	tasks        chan task
	workerCount  int
	asyncMode    bool
	enqueueWait  time.Duration
	panicHandler PanicHandler
	errorHandler ErrorHandler
}

var (
	_ contracts.EventBus  = (*bus)(nil)
	_ contracts.Lifecycle = (*bus)(nil)
)

func (b *bus) Subscribe(eventTypeArg any, listener any) error {
	marker := reflect.TypeOf(eventTypeArg)
	if marker == nil {
		return ErrInvalidEventType.WithDetail("reason", "eventType is nil")
	}
	if marker.Kind() != reflect.Ptr || marker.Elem().Kind() != reflect.Struct {
		return ErrInvalidEventType.WithDetail("reason", "eventType must be a pointer to struct")
	}
	eventType := marker.Elem()

	adapter, err := newListenerAdapter(listener)
	if err != nil {
		return err
	}
	if adapter.eventType != eventType {
		return ErrInvalidListener.
			WithDetail("expected_type", eventType.String()).
			WithDetail("actual_type", adapter.eventType.String())
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	b.listeners[eventType] = append(b.listeners[eventType], adapter)
	return nil
}

func (b *bus) Publish(ctx context.Context, event any) error {
	if event == nil {
		return nil
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrPublishOnClosedBus
	}
	adapters := b.listeners[reflect.TypeOf(event)]
	async := b.asyncMode && b.running

	if len(adapters) == 0 {
		b.mu.RUnlock()
		return nil
	}

	if async {
		// The read lock is held across the enqueue so Stop cannot close the
		// task channel under an in-flight send. Workers drain without taking
		// the lock, so a full queue still makes progress.
		defer b.mu.RUnlock()
		for _, adapter := range adapters {
			select {
			case b.tasks <- task{ctx: ctx, event: event, adapter: adapter}:
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.enqueueWait):
				return ErrQueueSaturated
			}
		}
		return nil
	}
	b.mu.RUnlock()

	for _, adapter := range adapters {
		if err := b.deliverSync(ctx, event, adapter); err != nil {
			return err
		}
	}
	return nil
}

// Start brings up the worker pool in async mode. Starting a running bus is a
// no-op; starting a closed bus is a genuine fault.
func (b *bus) Start(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	if b.running {
		return nil
	}
	b.running = true
	if b.asyncMode {
		b.tasks = make(chan task, b.workerCount*10)
		for i := 0; i < b.workerCount; i++ {
			b.wg.Add(1)
			go b.worker(b.tasks)
		}
	}
	return nil
}

// Stop drains the worker pool synchronously: queued events are delivered
// before the call returns. Stopping a stopped bus is a no-op. The bus may be
// started again afterwards.
func (b *bus) Stop(_ context.Context) error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return nil
	}
	b.running = false
	tasks := b.tasks
	b.tasks = nil
	b.mu.Unlock()

	if tasks != nil {
		close(tasks)
	}
	b.wg.Wait()
	return nil
}

func (b *bus) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.running
}

// Close stops the bus and rejects all further subscribe and publish calls.
// Closing twice is a no-op.
func (b *bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	return b.Stop(context.Background())
}

func (b *bus) worker(tasks <-chan task) {
	defer b.wg.Done()
	for t := range tasks {
		b.deliver(t)
	}
}

func (b *bus) deliver(t task) {
	defer func() {
		if r := recover(); r != nil {
			b.panicHandler.Handle(t.event, t.adapter, r, debug.Stack())
		}
	}()

	if err := t.adapter.handleEvent(t.ctx, t.event); err != nil {
		b.errorHandler.Handle(t.event, t.adapter, err)
	}
}

func (b *bus) deliverSync(ctx context.Context, event any, adapter *listenerAdapter) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.panicHandler.Handle(event, adapter, r, debug.Stack())
			err = nil
		}
	}()

	if err = adapter.handleEvent(ctx, event); err != nil {
		b.errorHandler.Handle(event, adapter, err)
		return err
	}
	return nil
}
