package events

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ferrost/appkit/pkg/errors"
)

type orderPlaced struct {
	ID int
}

type invoiceIssued struct {
	Number string
}

type recordingListener struct {
	mu     sync.Mutex
	events []orderPlaced
}

func (l *recordingListener) Handle(_ context.Context, e orderPlaced) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *recordingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

func TestBus_SyncPublishToFuncListener(t *testing.T) {
	b := New()
	var got atomic.Int64

	err := b.Subscribe((*orderPlaced)(nil), func(_ context.Context, e orderPlaced) error {
		got.Store(int64(e.ID))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := b.Publish(context.Background(), orderPlaced{ID: 42}); err != nil {
		t.Fatal(err)
	}
	if got.Load() != 42 {
		t.Errorf("listener not invoked, got %d", got.Load())
	}
}

func TestBus_HandleMethodListener(t *testing.T) {
	b := New()
	l := &recordingListener{}

	if err := b.Subscribe((*orderPlaced)(nil), l); err != nil {
		t.Fatal(err)
	}
	if err := b.Publish(context.Background(), orderPlaced{ID: 1}); err != nil {
		t.Fatal(err)
	}
	if l.count() != 1 {
		t.Errorf("Handle method listener not invoked")
	}
}

func TestBus_PublishWithoutListeners(t *testing.T) {
	b := New()
	if err := b.Publish(context.Background(), invoiceIssued{Number: "X"}); err != nil {
		t.Errorf("publishing with no listeners must be a no-op, got %v", err)
	}
}

func TestBus_SubscriptionValidation(t *testing.T) {
	b := New()

	if err := b.Subscribe(nil, func(context.Context, orderPlaced) error { return nil }); !errors.Is(err, ErrInvalidEventType) {
		t.Errorf("nil marker: got %v", err)
	}
	if err := b.Subscribe(orderPlaced{}, func(context.Context, orderPlaced) error { return nil }); !errors.Is(err, ErrInvalidEventType) {
		t.Errorf("non-pointer marker: got %v", err)
	}
	if err := b.Subscribe((*orderPlaced)(nil), 42); !errors.Is(err, ErrInvalidListener) {
		t.Errorf("non-callable listener: got %v", err)
	}
	if err := b.Subscribe((*orderPlaced)(nil), func(orderPlaced) error { return nil }); !errors.Is(err, ErrInvalidListenerFunc) {
		t.Errorf("bad signature: got %v", err)
	}
	err := b.Subscribe((*orderPlaced)(nil), func(context.Context, invoiceIssued) error { return nil })
	if !errors.Is(err, ErrInvalidListener) {
		t.Errorf("type mismatch between marker and listener: got %v", err)
	}
}

func TestBus_LifecycleIdempotence(t *testing.T) {
	ctx := context.Background()
	b := New(WithAsyncWorkers(2)).(*bus)

	if err := b.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := b.Start(ctx); err != nil {
		t.Fatalf("double start must not fail: %v", err)
	}
	if !b.IsRunning() {
		t.Error("bus should report running")
	}
	if err := b.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if err := b.Stop(ctx); err != nil {
		t.Fatalf("double stop must not fail: %v", err)
	}
	if b.IsRunning() {
		t.Error("bus must not report running after stop")
	}
}

func TestBus_AsyncDeliveryAndDrain(t *testing.T) {
	ctx := context.Background()
	b := New(WithAsyncWorkers(2))
	l := &recordingListener{}

	if err := b.Subscribe((*orderPlaced)(nil), l); err != nil {
		t.Fatal(err)
	}

	lc := b.(interface {
		Start(context.Context) error
		Stop(context.Context) error
	})
	if err := lc.Start(ctx); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		if err := b.Publish(ctx, orderPlaced{ID: i}); err != nil {
			t.Fatal(err)
		}
	}
	// Stop drains the queue synchronously.
	if err := lc.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if l.count() != 20 {
		t.Errorf("expected all 20 events delivered before Stop returned, got %d", l.count())
	}
}

func TestBus_RestartAfterStop(t *testing.T) {
	ctx := context.Background()
	b := New(WithAsyncWorkers(1))
	l := &recordingListener{}
	_ = b.Subscribe((*orderPlaced)(nil), l)

	lc := b.(interface {
		Start(context.Context) error
		Stop(context.Context) error
	})
	if err := lc.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := lc.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if err := lc.Start(ctx); err != nil {
		t.Fatalf("restart after stop should work: %v", err)
	}
	if err := b.Publish(ctx, orderPlaced{ID: 7}); err != nil {
		t.Fatal(err)
	}
	if err := lc.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if l.count() != 1 {
		t.Errorf("restarted bus should deliver, got %d", l.count())
	}
}

func TestBus_ClosedBusRejectsEverything(t *testing.T) {
	b := New()
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("double close must be a no-op: %v", err)
	}

	if err := b.Subscribe((*orderPlaced)(nil), &recordingListener{}); !errors.Is(err, ErrBusClosed) {
		t.Errorf("expected ErrBusClosed, got %v", err)
	}
	if err := b.Publish(context.Background(), orderPlaced{}); !errors.Is(err, ErrPublishOnClosedBus) {
		t.Errorf("expected ErrPublishOnClosedBus, got %v", err)
	}

	lc := b.(interface{ Start(context.Context) error })
	if err := lc.Start(context.Background()); !errors.Is(err, ErrBusClosed) {
		t.Errorf("starting a closed bus is a genuine fault, got %v", err)
	}
}

type countingErrorHandler struct {
	calls atomic.Int64
}

func (h *countingErrorHandler) Handle(any, any, error) {
	h.calls.Add(1)
}

func TestBus_ListenerErrorReachesHandler(t *testing.T) {
	h := &countingErrorHandler{}
	b := New(WithErrorHandler(h))

	_ = b.Subscribe((*orderPlaced)(nil), func(context.Context, orderPlaced) error {
		return ErrQueueSaturated
	})

	err := b.Publish(context.Background(), orderPlaced{})
	if err == nil {
		t.Error("sync publish should surface the listener error")
	}
	if h.calls.Load() != 1 {
		t.Error("error handler should have been invoked")
	}
}

type countingPanicHandler struct {
	calls atomic.Int64
}

func (h *countingPanicHandler) Handle(any, any, any, []byte) {
	h.calls.Add(1)
}

func TestBus_ListenerPanicIsRecovered(t *testing.T) {
	h := &countingPanicHandler{}
	b := New(WithPanicHandler(h))

	_ = b.Subscribe((*orderPlaced)(nil), func(context.Context, orderPlaced) error {
		panic("listener exploded")
	})

	if err := b.Publish(context.Background(), orderPlaced{}); err != nil {
		t.Errorf("recovered panic must not fail the publish: %v", err)
	}
	if h.calls.Load() != 1 {
		t.Error("panic handler should have been invoked")
	}

	// The bus keeps working afterwards.
	if err := b.Publish(context.Background(), orderPlaced{}); err != nil {
		t.Fatal(err)
	}
	if h.calls.Load() != 2 {
		t.Error("bus should keep delivering after a panic")
	}
}

func TestBus_AsyncPublishBeforeStartFallsBackToSync(t *testing.T) {
	b := New(WithAsyncWorkers(2), WithEnqueueWait(time.Second))
	l := &recordingListener{}
	_ = b.Subscribe((*orderPlaced)(nil), l)

	if err := b.Publish(context.Background(), orderPlaced{ID: 1}); err != nil {
		t.Fatal(err)
	}
	if l.count() != 1 {
		t.Error("publish before Start should deliver inline")
	}
}
