package beans

import (
	"reflect"
	"strings"

	"github.com/ferrost/appkit/pkg/contracts"
)

// TagName marks struct fields for injection: `inject:"beanName"` resolves by
// name, `inject:""` resolves by the field's type. Appending ",optional"
// leaves the field zero-valued when no bean matches instead of failing.
const TagName = "inject"

type provisioner struct {
	registry contracts.BeanRegistry
}

var _ contracts.Provisioner = (*provisioner)(nil)

// NewProvisioner wraps a registry with the advanced wiring facility used for
// objects that live outside normal container lookup.
func NewProvisioner(registry contracts.BeanRegistry) contracts.Provisioner {
	return &provisioner{registry: registry}
}

func (p *provisioner) Registry() contracts.BeanRegistry {
	return p.registry
}

func (p *provisioner) Provision(target any) error {
	if target == nil {
		return ErrProvisionTarget.WithDetail("reason", "target is nil")
	}
	value := reflect.ValueOf(target)
	if value.Kind() != reflect.Ptr || value.IsNil() || value.Elem().Kind() != reflect.Struct {
		return ErrProvisionTarget.WithDetail("reason", "target must be a non-nil pointer to struct")
	}

	elem := value.Elem()
	structType := elem.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		tag, tagged := field.Tag.Lookup(TagName)
		if !tagged {
			continue
		}
		if !field.IsExported() {
			return ErrUnexportedField.
				WithDetail("struct", structType.String()).
				WithDetail("field", field.Name)
		}

		name, optional := parseTag(tag)

		var (
			bean any
			err  error
		)
		if name != "" {
			bean, err = p.registry.ResolveNamed(name)
		} else {
			bean, err = p.registry.Resolve(field.Type)
		}
		if err != nil {
			if optional {
				continue
			}
			return ErrProvisionField.
				WithDetail("struct", structType.String()).
				WithDetail("field", field.Name).
				WithCause(err)
		}

		beanValue := reflect.ValueOf(bean)
		if !beanValue.IsValid() || !beanValue.Type().AssignableTo(field.Type) {
			return ErrFieldTypeMismatch.
				WithDetail("struct", structType.String()).
				WithDetail("field", field.Name).
				WithDetail("have", typeName(bean)).
				WithDetail("want", field.Type.String())
		}
		elem.Field(i).Set(beanValue)
	}
	return nil
}

func parseTag(tag string) (name string, optional bool) {
	parts := strings.Split(tag, ",")
	name = strings.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		if strings.TrimSpace(p) == "optional" {
			optional = true
		}
	}
	return name, optional
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
