package beans

import "github.com/ferrost/appkit/pkg/errors"

var newBeansCode = errors.WithPrefix("BEANS")

var (
	ErrNilType            = newBeansCode().New("registration type must not be nil")
	ErrEmptyName          = newBeansCode().New("registration name must not be empty")
	ErrDuplicateInstance  = newBeansCode().New("instance already exists for {{.key}}")
	ErrDuplicateFactory   = newBeansCode().New("factory already registered for {{.key}}")
	ErrNotFound           = newBeansCode().New("no bean registered for {{.key}}")
	ErrCircularDependency = newBeansCode().New("circular dependency detected for {{.key}}")
	ErrProvisionTarget    = newBeansCode().New("cannot provision target: {{.reason}}")
	ErrProvisionField     = newBeansCode().New("cannot provision field {{.field}} of {{.struct}}")
	ErrUnexportedField    = newBeansCode().New("inject tag on unexported field {{.field}} of {{.struct}}")
	ErrFieldTypeMismatch  = newBeansCode().New("bean type {{.have}} is not assignable to field {{.field}} ({{.want}}) of {{.struct}}")
)
