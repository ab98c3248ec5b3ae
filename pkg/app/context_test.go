package app

import (
	"context"
	"io"
	"reflect"
	"sync"
	"testing"

	"github.com/ferrost/appkit/pkg/contracts"
	"github.com/ferrost/appkit/pkg/env"
	"github.com/ferrost/appkit/pkg/errors"
	"github.com/ferrost/appkit/pkg/events"
	"github.com/ferrost/appkit/pkg/logger"
)

func quietLogger() contracts.Logger {
	return logger.New(logger.WithWriter(io.Discard))
}

type callRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *callRecorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *callRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type testModule struct {
	name        string
	recorder    *callRecorder
	registerErr error
	startErr    error
	stopErr     error
}

func (m *testModule) Name() string { return m.name }

func (m *testModule) Register(_ contracts.BeanRegistry) error {
	m.recorder.add(m.name + ".register")
	return m.registerErr
}

func (m *testModule) Start(_ contracts.Context) error {
	m.recorder.add(m.name + ".start")
	return m.startErr
}

func (m *testModule) Stop(_ contracts.Context) error {
	m.recorder.add(m.name + ".stop")
	return m.stopErr
}

func TestContext_Identity(t *testing.T) {
	c := New(WithLogger(quietLogger()))

	if c.ID() == "" {
		t.Error("ID must be non-empty")
	}
	if c.DisplayName() != c.ID() {
		t.Errorf("display name should fall back to the ID, got %q", c.DisplayName())
	}
	if c.ApplicationName() != "" {
		t.Errorf("application name defaults to empty, got %q", c.ApplicationName())
	}

	other := New(WithLogger(quietLogger()))
	if other.ID() == c.ID() {
		t.Error("two contexts must not share an ID")
	}

	named := New(WithLogger(quietLogger()), WithApplicationName("billing"), WithDisplayName("billing-root"))
	if named.ApplicationName() != "billing" || named.DisplayName() != "billing-root" {
		t.Errorf("options not applied: %q / %q", named.ApplicationName(), named.DisplayName())
	}
}

func TestContext_BeanAccessBeforeRefresh(t *testing.T) {
	c := New(WithLogger(quietLogger()))

	if _, err := c.Registry(); !errors.Is(err, ErrContextNotReady) {
		t.Errorf("Registry before refresh: got %v", err)
	}
	if _, err := c.Provisioner(); !errors.Is(err, ErrContextNotReady) {
		t.Errorf("Provisioner before refresh: got %v", err)
	}
}

func TestContext_BeanAccessAfterClose(t *testing.T) {
	c := New(WithLogger(quietLogger()))
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Registry(); !errors.Is(err, ErrContextNotReady) {
		t.Errorf("Registry after close: got %v", err)
	}
	if _, err := c.Provisioner(); !errors.Is(err, ErrContextNotReady) {
		t.Errorf("Provisioner after close: got %v", err)
	}
}

func TestContext_ProvisioningDisabled(t *testing.T) {
	c := New(WithLogger(quietLogger()), WithoutProvisioner())
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	// The same error kind covers all three invalid-state causes.
	if _, err := c.Provisioner(); !errors.Is(err, ErrContextNotReady) {
		t.Errorf("disabled provisioning: got %v", err)
	}
	if _, err := c.Registry(); err != nil {
		t.Errorf("registry access should be unaffected: %v", err)
	}
}

func TestContext_RefreshIsSingleShot(t *testing.T) {
	c := New(WithLogger(quietLogger()))

	if !c.StartupTime().IsZero() {
		t.Error("startup time must be zero before refresh")
	}
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := c.StartupTime()
	if first.IsZero() {
		t.Error("startup time must be set by refresh")
	}

	if err := c.Refresh(context.Background()); !errors.Is(err, ErrAlreadyRefreshed) {
		t.Errorf("second refresh: got %v", err)
	}
	if c.StartupTime() != first {
		t.Error("startup time must stay fixed")
	}

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Refresh(context.Background()); !errors.Is(err, ErrContextClosed) {
		t.Errorf("refresh after close: got %v", err)
	}
}

func TestContext_LifecyclePropagation(t *testing.T) {
	recorder := &callRecorder{}
	c := New(
		WithLogger(quietLogger()),
		WithModule(
			&testModule{name: "alpha", recorder: recorder},
			&testModule{name: "beta", recorder: recorder},
		),
	)
	ctx := context.Background()

	if err := c.Start(ctx); !errors.Is(err, ErrContextNotReady) {
		t.Fatalf("start before refresh: got %v", err)
	}
	if err := c.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if c.IsRunning() {
		t.Error("refresh alone must not start the context")
	}

	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if !c.IsRunning() {
		t.Error("context should report running")
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("redundant start must be a no-op: %v", err)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if c.IsRunning() {
		t.Error("context must not report running after stop")
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("redundant stop must be a no-op: %v", err)
	}

	want := []string{
		"alpha.register", "beta.register",
		"alpha.start", "beta.start",
		"beta.stop", "alpha.stop",
	}
	if got := recorder.snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("call order mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestContext_ModuleStartFailureRollsBack(t *testing.T) {
	recorder := &callRecorder{}
	c := New(
		WithLogger(quietLogger()),
		WithModule(
			&testModule{name: "alpha", recorder: recorder},
			&testModule{name: "broken", recorder: recorder, startErr: io.ErrUnexpectedEOF},
		),
	)
	ctx := context.Background()
	if err := c.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	if err := c.Start(ctx); err == nil {
		t.Fatal("start should fail when a module fails")
	}
	if c.IsRunning() {
		t.Error("failed start must leave the context stopped")
	}

	calls := recorder.snapshot()
	last := calls[len(calls)-1]
	if last != "alpha.stop" {
		t.Errorf("started modules should be rolled back, trailing call %q", last)
	}
}

func TestContext_ModuleRegisterFailure(t *testing.T) {
	recorder := &callRecorder{}
	c := New(
		WithLogger(quietLogger()),
		WithModule(&testModule{name: "broken", recorder: recorder, registerErr: ErrModuleRegister}),
	)

	err := c.Refresh(context.Background())
	if !errors.Is(err, ErrModuleRegister) {
		t.Fatalf("expected ErrModuleRegister, got %v", err)
	}
	if _, regErr := c.Registry(); regErr == nil {
		t.Error("failed refresh must leave bean access invalid")
	}
}

func TestContext_FacilitiesAreBeans(t *testing.T) {
	c := New(WithLogger(quietLogger()))
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	registry, err := c.Registry()
	if err != nil {
		t.Fatal(err)
	}

	for _, abstract := range []reflect.Type{
		environmentType, loggerType, eventBusType, messagesType, resourcesType, contextType,
	} {
		if _, resolveErr := registry.Resolve(abstract); resolveErr != nil {
			t.Errorf("facility %v not resolvable: %v", abstract, resolveErr)
		}
	}

	resolved, err := registry.Resolve(contextType)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.(contracts.Context).ID() != c.ID() {
		t.Error("resolved context must be the context itself")
	}
}

func TestContext_ParentChildHierarchy(t *testing.T) {
	parentEnv := env.New(env.NewMapSource("parent", map[string]any{
		"shared":   "from-parent",
		"override": "parent-value",
	}))
	parent := New(WithLogger(quietLogger()), WithEnvironment(parentEnv), WithDisplayName("parent"))
	ctx := context.Background()
	if err := parent.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	parentRegistry, err := parent.Registry()
	if err != nil {
		t.Fatal(err)
	}
	if err := parentRegistry.InstanceNamed("dsn", "postgres://parent"); err != nil {
		t.Fatal(err)
	}

	childEnv := env.New(env.NewMapSource("child", map[string]any{
		"override": "child-value",
	}))
	child := New(
		WithLogger(quietLogger()),
		WithEnvironment(childEnv),
		WithParent(parent),
		WithDisplayName("child"),
	)

	if _, ok := parent.Parent(); ok {
		t.Error("root context must report no parent")
	}
	got, ok := child.Parent()
	if !ok || got.ID() != parent.ID() {
		t.Error("child must report its parent by identity")
	}

	if err := child.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	if v := child.Environment().GetString("shared"); v != "from-parent" {
		t.Errorf("parent property not visible in child, got %q", v)
	}
	if v := child.Environment().GetString("override"); v != "child-value" {
		t.Errorf("child definition must shadow the parent, got %q", v)
	}

	childRegistry, err := child.Registry()
	if err != nil {
		t.Fatal(err)
	}
	dsn, err := childRegistry.ResolveNamed("dsn")
	if err != nil {
		t.Fatal(err)
	}
	if dsn != "postgres://parent" {
		t.Errorf("bean lookup must fall through to the parent, got %v", dsn)
	}

	// Closing the child leaves the parent untouched.
	if err := parent.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := child.Close(); err != nil {
		t.Fatal(err)
	}
	if !parent.IsRunning() {
		t.Error("closing a child must not stop the parent")
	}
	if _, err := parent.Registry(); err != nil {
		t.Errorf("closing a child must not invalidate the parent: %v", err)
	}
}

type pingEvent struct {
	N int
}

func TestContext_PublishDelegatesToBus(t *testing.T) {
	bus := events.New()
	var got int
	if err := bus.Subscribe((*pingEvent)(nil), func(_ context.Context, e pingEvent) error {
		got = e.N
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	c := New(WithLogger(quietLogger()), WithEventBus(bus))
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.Publish(context.Background(), pingEvent{N: 3}); err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("event not delivered through the context, got %d", got)
	}
}

type lifecycleBean struct {
	started bool
	stopped bool
}

func (b *lifecycleBean) Start(_ context.Context) error { b.started = true; return nil }
func (b *lifecycleBean) Stop(_ context.Context) error  { b.stopped = true; return nil }
func (b *lifecycleBean) IsRunning() bool               { return b.started && !b.stopped }

type beanModule struct {
	bean *lifecycleBean
}

func (m *beanModule) Name() string { return "bean-module" }
func (m *beanModule) Register(r contracts.BeanRegistry) error {
	return r.InstanceNamed("worker", m.bean)
}
func (m *beanModule) Start(_ contracts.Context) error { return nil }
func (m *beanModule) Stop(_ contracts.Context) error  { return nil }

func TestContext_LifecycleBeansFollowContext(t *testing.T) {
	bean := &lifecycleBean{}
	c := New(WithLogger(quietLogger()), WithModule(&beanModule{bean: bean}))
	ctx := context.Background()

	if err := c.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if !bean.started {
		t.Error("lifecycle bean should receive the start signal")
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if !bean.stopped {
		t.Error("lifecycle bean should receive the stop signal")
	}
}

func TestContext_CloseStopsRunningContext(t *testing.T) {
	recorder := &callRecorder{}
	c := New(WithLogger(quietLogger()), WithModule(&testModule{name: "m", recorder: recorder}))
	ctx := context.Background()

	if err := c.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if c.IsRunning() {
		t.Error("closed context must not report running")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("double close must be a no-op: %v", err)
	}

	calls := recorder.snapshot()
	if calls[len(calls)-1] != "m.stop" {
		t.Errorf("close should stop running modules, calls %v", calls)
	}
}

type serviceDeps struct {
	Env contracts.Environment `inject:""`
	DSN string                `inject:"dsn"`
}

func TestContext_ProvisionerWiresFields(t *testing.T) {
	c := New(WithLogger(quietLogger()))
	ctx := context.Background()
	if err := c.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	registry, err := c.Registry()
	if err != nil {
		t.Fatal(err)
	}
	if err := registry.InstanceNamed("dsn", "sqlite://memory"); err != nil {
		t.Fatal(err)
	}

	provisioner, err := c.Provisioner()
	if err != nil {
		t.Fatal(err)
	}
	var deps serviceDeps
	if err := provisioner.Provision(&deps); err != nil {
		t.Fatal(err)
	}
	if deps.Env == nil {
		t.Error("typed field not provisioned")
	}
	if deps.DSN != "sqlite://memory" {
		t.Errorf("named field not provisioned, got %q", deps.DSN)
	}
}
