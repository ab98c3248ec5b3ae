package errors

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"
	"time"
)

// Code identifies an error condition. Codes are stable across releases and
// safe to match on with Is.
type Code string

func (c Code) New(msg string) *Error {
	return &Error{
		code:      c,
		message:   msg,
		timestamp: time.Now(),
	}
}

// WithPrefix returns a generator producing sequential codes such as
// ENV_0001, ENV_0002 for a package-local sentinel block.
func WithPrefix(prefix string) func() Code {
	counter := 0
	return func() Code {
		counter++
		return Code(fmt.Sprintf("%s_%04d", prefix, counter))
	}
}

// Error is a coded error whose message may reference details with
// text/template syntax, e.g. "value not found for type {{.type}}".
// WithDetail and WithCause return copies, so package-level sentinels
// stay immutable and remain valid Is targets.
type Error struct {
	code      Code
	message   string
	details   map[string]any
	cause     error
	timestamp time.Time
}

func (e *Error) Code() Code           { return e.code }
func (e *Error) Message() string      { return e.message }
func (e *Error) Timestamp() time.Time { return e.timestamp }

func (e *Error) Detail(key string) (any, bool) {
	v, ok := e.details[key]
	return v, ok
}

func (e *Error) WithDetail(key string, value any) *Error {
	clone := e.clone()
	clone.details[key] = value
	return clone
}

func (e *Error) WithCause(err error) *Error {
	clone := e.clone()
	clone.cause = err
	return clone
}

func (e *Error) clone() *Error {
	details := make(map[string]any, len(e.details)+1)
	for k, v := range e.details {
		details[k] = v
	}
	return &Error{
		code:      e.code,
		message:   e.message,
		details:   details,
		cause:     e.cause,
		timestamp: time.Now(),
	}
}

func (e *Error) Error() string {
	msg := e.render()
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.code, msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, msg)
}

func (e *Error) render() string {
	t, err := template.New("error").Parse(e.message)
	if err != nil {
		return e.message
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, e.details); err != nil {
		return e.message
	}
	return buf.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches by code, so a detailed copy produced by WithDetail still
// satisfies errors.Is(err, Sentinel).
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.code == other.code
	}
	return false
}
