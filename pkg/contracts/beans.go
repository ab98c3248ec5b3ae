package contracts

import "reflect"

// BeanRegistry is the hierarchical, enumerable lookup facility. Lookups that
// miss locally fall through to the parent registry; definitions in a child
// always shadow the parent's.
type BeanRegistry interface {
	Has(abstract reflect.Type) bool
	HasNamed(name string) bool

	Instance(abstract reflect.Type, concrete any) error
	InstanceNamed(name string, concrete any) error
	Factory(abstract reflect.Type, factory func(r BeanRegistry) (any, error)) error
	FactoryNamed(name string, factory func(r BeanRegistry) (any, error)) error

	Resolve(abstract reflect.Type) (any, error)
	ResolveNamed(name string) (any, error)

	// ResolveAll returns every registered value assignable to abstract,
	// child entries first, then the parent's.
	ResolveAll(abstract reflect.Type) ([]any, error)

	// Names lists local and inherited registration names, local first.
	Names() []string

	Parent() (BeanRegistry, bool)
}

// Provisioner applies container-managed wiring to objects that live outside
// normal registry lookup. Provision populates exported fields of a struct
// pointer that carry an `inject` tag: `inject:"name"` resolves by name, an
// empty tag value resolves by the field's type.
type Provisioner interface {
	Provision(target any) error
	Registry() BeanRegistry
}
