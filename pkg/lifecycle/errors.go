package lifecycle

import "github.com/ferrost/appkit/pkg/errors"

var newLifecycleCode = errors.WithPrefix("LIFECYCLE")

var (
	ErrMemberStart = newLifecycleCode().New("failed to start lifecycle member")
	ErrMemberStop  = newLifecycleCode().New("failed to stop lifecycle member")
)
