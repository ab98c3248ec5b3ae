package beans

import (
	"reflect"
	"sync"

	"github.com/ferrost/appkit/pkg/contracts"
)

type factoryFunc = func(r contracts.BeanRegistry) (any, error)

// registry is the hierarchical bean store. Entries are keyed by type or by
// name; factories resolve lazily and memoize. Lookups that miss locally
// delegate to the parent, so child definitions always shadow the parent's.
type registry struct {
	mu             sync.RWMutex
	parent         contracts.BeanRegistry
	typedInstances map[reflect.Type]any
	typedFactories map[reflect.Type]factoryFunc
	namedInstances map[string]any
	namedFactories map[string]factoryFunc
	order          []string
}

var _ contracts.BeanRegistry = (*registry)(nil)

// NewRegistry creates a root registry.
func NewRegistry() contracts.BeanRegistry {
	return newRegistry(nil)
}

// NewChildRegistry creates a registry that delegates unmet lookups to parent.
func NewChildRegistry(parent contracts.BeanRegistry) contracts.BeanRegistry {
	return newRegistry(parent)
}

func newRegistry(parent contracts.BeanRegistry) *registry {
	return &registry{
		parent:         parent,
		typedInstances: make(map[reflect.Type]any),
		typedFactories: make(map[reflect.Type]factoryFunc),
		namedInstances: make(map[string]any),
		namedFactories: make(map[string]factoryFunc),
	}
}

func (r *registry) Parent() (contracts.BeanRegistry, bool) {
	return r.parent, r.parent != nil
}

func (r *registry) Has(abstract reflect.Type) bool {
	r.mu.RLock()
	_, hasInstance := r.typedInstances[abstract]
	_, hasFactory := r.typedFactories[abstract]
	r.mu.RUnlock()
	if hasInstance || hasFactory {
		return true
	}
	if r.parent != nil {
		return r.parent.Has(abstract)
	}
	return false
}

func (r *registry) HasNamed(name string) bool {
	r.mu.RLock()
	_, hasInstance := r.namedInstances[name]
	_, hasFactory := r.namedFactories[name]
	r.mu.RUnlock()
	if hasInstance || hasFactory {
		return true
	}
	if r.parent != nil {
		return r.parent.HasNamed(name)
	}
	return false
}

func (r *registry) Instance(abstract reflect.Type, concrete any) error {
	if abstract == nil {
		return ErrNilType
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.typedInstances[abstract]; exists {
		return ErrDuplicateInstance.WithDetail("key", abstract.String())
	}
	r.typedInstances[abstract] = concrete
	r.order = append(r.order, abstract.String())
	return nil
}

func (r *registry) InstanceNamed(name string, concrete any) error {
	if name == "" {
		return ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.namedInstances[name]; exists {
		return ErrDuplicateInstance.WithDetail("key", name)
	}
	r.namedInstances[name] = concrete
	r.order = append(r.order, name)
	return nil
}

func (r *registry) Factory(abstract reflect.Type, factory factoryFunc) error {
	if abstract == nil {
		return ErrNilType
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.typedFactories[abstract]; exists {
		return ErrDuplicateFactory.WithDetail("key", abstract.String())
	}
	r.typedFactories[abstract] = factory
	r.order = append(r.order, abstract.String())
	return nil
}

func (r *registry) FactoryNamed(name string, factory factoryFunc) error {
	if name == "" {
		return ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.namedFactories[name]; exists {
		return ErrDuplicateFactory.WithDetail("key", name)
	}
	r.namedFactories[name] = factory
	r.order = append(r.order, name)
	return nil
}

func (r *registry) Resolve(abstract reflect.Type) (any, error) {
	return r.resolveTyped(abstract, make(map[any]bool))
}

func (r *registry) ResolveNamed(name string) (any, error) {
	return r.resolveNamed(name, make(map[any]bool))
}

func (r *registry) resolveTyped(abstract reflect.Type, resolving map[any]bool) (any, error) {
	r.mu.RLock()
	if instance, ok := r.typedInstances[abstract]; ok {
		r.mu.RUnlock()
		return instance, nil
	}
	factory, ok := r.typedFactories[abstract]
	r.mu.RUnlock()

	if !ok {
		if r.parent != nil {
			return r.parent.Resolve(abstract)
		}
		return nil, ErrNotFound.WithDetail("key", abstract.String())
	}

	instance, err := r.runFactory(abstract, factory, resolving)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.typedInstances[abstract]; ok {
		return existing, nil
	}
	r.typedInstances[abstract] = instance
	return instance, nil
}

func (r *registry) resolveNamed(name string, resolving map[any]bool) (any, error) {
	r.mu.RLock()
	if instance, ok := r.namedInstances[name]; ok {
		r.mu.RUnlock()
		return instance, nil
	}
	factory, ok := r.namedFactories[name]
	r.mu.RUnlock()

	if !ok {
		if r.parent != nil {
			return r.parent.ResolveNamed(name)
		}
		return nil, ErrNotFound.WithDetail("key", name)
	}

	instance, err := r.runFactory(name, factory, resolving)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.namedInstances[name]; ok {
		return existing, nil
	}
	r.namedInstances[name] = instance
	return instance, nil
}

func (r *registry) runFactory(key any, factory factoryFunc, resolving map[any]bool) (any, error) {
	if resolving[key] {
		return nil, ErrCircularDependency.WithDetail("key", keyString(key))
	}
	resolving[key] = true
	defer delete(resolving, key)

	// The proxy threads the resolving stack through nested Resolve calls so
	// factory chains detect their own cycles.
	return factory(&registryProxy{registry: r, resolving: resolving})
}

func keyString(key any) string {
	if t, ok := key.(reflect.Type); ok {
		return t.String()
	}
	if s, ok := key.(string); ok {
		return s
	}
	return reflect.TypeOf(key).String()
}

func (r *registry) ResolveAll(abstract reflect.Type) ([]any, error) {
	return r.resolveAll(abstract, true)
}

// ResolveAllLocal resolves the beans assignable to abstract from r's own
// definitions, ignoring inherited ones. Registries from other packages fall
// back to the full ResolveAll.
func ResolveAllLocal(r contracts.BeanRegistry, abstract reflect.Type) ([]any, error) {
	switch impl := r.(type) {
	case *registry:
		return impl.resolveAll(abstract, false)
	case *registryProxy:
		return impl.registry.resolveAll(abstract, false)
	default:
		return r.ResolveAll(abstract)
	}
}

func (r *registry) resolveAll(abstract reflect.Type, includeParent bool) ([]any, error) {
	if abstract == nil {
		return nil, ErrNilType
	}

	r.mu.RLock()
	typedKeys := make([]reflect.Type, 0)
	for t := range r.typedInstances {
		if t.AssignableTo(abstract) || assignableConcrete(r.typedInstances[t], abstract) {
			typedKeys = append(typedKeys, t)
		}
	}
	for t := range r.typedFactories {
		if _, done := r.typedInstances[t]; done {
			continue
		}
		if t.AssignableTo(abstract) {
			typedKeys = append(typedKeys, t)
		}
	}
	namedKeys := make([]string, 0, len(r.namedInstances)+len(r.namedFactories))
	for name := range r.namedInstances {
		namedKeys = append(namedKeys, name)
	}
	for name := range r.namedFactories {
		if _, done := r.namedInstances[name]; !done {
			namedKeys = append(namedKeys, name)
		}
	}
	r.mu.RUnlock()

	var out []any
	for _, t := range typedKeys {
		v, err := r.Resolve(t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	for _, name := range namedKeys {
		v, err := r.ResolveNamed(name)
		if err != nil {
			return nil, err
		}
		if assignableConcrete(v, abstract) {
			out = append(out, v)
		}
	}

	if includeParent && r.parent != nil {
		inherited, err := r.parent.ResolveAll(abstract)
		if err != nil {
			return nil, err
		}
		out = append(out, inherited...)
	}
	return out, nil
}

func assignableConcrete(v any, abstract reflect.Type) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).AssignableTo(abstract)
}

func (r *registry) Names() []string {
	r.mu.RLock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	r.mu.RUnlock()

	if r.parent != nil {
		names = append(names, r.parent.Names()...)
	}
	return names
}

// registryProxy carries the resolving stack into nested factory calls.
type registryProxy struct {
	registry  *registry
	resolving map[any]bool
}

var _ contracts.BeanRegistry = (*registryProxy)(nil)

func (p *registryProxy) Has(abstract reflect.Type) bool  { return p.registry.Has(abstract) }
func (p *registryProxy) HasNamed(name string) bool       { return p.registry.HasNamed(name) }
func (p *registryProxy) Names() []string                 { return p.registry.Names() }
func (p *registryProxy) Parent() (contracts.BeanRegistry, bool) {
	return p.registry.Parent()
}

func (p *registryProxy) Instance(abstract reflect.Type, concrete any) error {
	return p.registry.Instance(abstract, concrete)
}

func (p *registryProxy) InstanceNamed(name string, concrete any) error {
	return p.registry.InstanceNamed(name, concrete)
}

func (p *registryProxy) Factory(abstract reflect.Type, factory factoryFunc) error {
	return p.registry.Factory(abstract, factory)
}

func (p *registryProxy) FactoryNamed(name string, factory factoryFunc) error {
	return p.registry.FactoryNamed(name, factory)
}

func (p *registryProxy) Resolve(abstract reflect.Type) (any, error) {
	return p.registry.resolveTyped(abstract, p.resolving)
}

func (p *registryProxy) ResolveNamed(name string) (any, error) {
	return p.registry.resolveNamed(name, p.resolving)
}

func (p *registryProxy) ResolveAll(abstract reflect.Type) ([]any, error) {
	return p.registry.ResolveAll(abstract)
}
