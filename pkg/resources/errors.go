package resources

import "github.com/ferrost/appkit/pkg/errors"

var newResourcesCode = errors.WithPrefix("RESOURCES")

var (
	ErrOpenResource = newResourcesCode().New("cannot open resource {{.location}}")
	ErrBadPattern   = newResourcesCode().New("malformed resource pattern {{.pattern}}")
	ErrUnknownMount = newResourcesCode().New("no filesystem mounted as {{.mount}}")
)
