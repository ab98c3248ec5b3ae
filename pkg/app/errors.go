package app

import "github.com/ferrost/appkit/pkg/errors"

var newAppCode = errors.WithPrefix("APP")

var (
	// ErrContextNotReady is the single invalid-state error for bean
	// operations: it covers a context that does not support provisioning,
	// one that was never refreshed, and one that is already closed. The
	// reason detail tells the causes apart.
	ErrContextNotReady = newAppCode().New("context is not ready: {{.reason}}")

	ErrContextClosed    = newAppCode().New("context is closed")
	ErrAlreadyRefreshed = newAppCode().New("context has already been refreshed")
	ErrModuleRegister   = newAppCode().New("failed to register module {{.module}}")
	ErrModuleStart      = newAppCode().New("failed to start module {{.module}}")
	ErrModuleStop       = newAppCode().New("failed to stop module {{.module}}")
	ErrStopTimeout      = newAppCode().New("graceful shutdown timed out after {{.timeout}}")
)
