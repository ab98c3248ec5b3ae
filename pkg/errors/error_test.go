package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestWithPrefix_SequentialCodes(t *testing.T) {
	next := WithPrefix("TEST")
	if c := next(); c != "TEST_0001" {
		t.Errorf("expected TEST_0001, got %s", c)
	}
	if c := next(); c != "TEST_0002" {
		t.Errorf("expected TEST_0002, got %s", c)
	}
}

func TestError_TemplateRendering(t *testing.T) {
	base := Code("T_0001").New("value not found for type {{.type}}")
	err := base.WithDetail("type", "contracts.Logger")

	msg := err.Error()
	if !strings.Contains(msg, "contracts.Logger") {
		t.Errorf("detail not rendered into message: %s", msg)
	}
	if !strings.HasPrefix(msg, "T_0001: ") {
		t.Errorf("code prefix missing: %s", msg)
	}
}

func TestError_SentinelNotMutated(t *testing.T) {
	sentinel := Code("T_0002").New("boom {{.reason}}")
	_ = sentinel.WithDetail("reason", "a")

	if _, ok := sentinel.Detail("reason"); ok {
		t.Error("WithDetail mutated the sentinel")
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	sentinel := Code("T_0003").New("original")
	detailed := sentinel.WithDetail("k", "v").WithCause(errors.New("inner"))

	if !Is(detailed, sentinel) {
		t.Error("detailed copy should match sentinel via Is")
	}
	other := Code("T_0004").New("other")
	if Is(detailed, other) {
		t.Error("different codes must not match")
	}
}

func TestError_UnwrapCause(t *testing.T) {
	inner := errors.New("disk full")
	err := Code("T_0005").New("save failed").WithCause(inner)

	if !Is(err, inner) {
		t.Error("cause should be reachable through Unwrap")
	}
	if Unwrap(err) != inner {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_BadTemplateFallsBack(t *testing.T) {
	err := Code("T_0006").New("broken {{.unclosed")
	if !strings.Contains(err.Error(), "broken {{.unclosed") {
		t.Errorf("unparsable template should fall back to raw message, got %s", err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	err := Code("T_0007").New("x")
	if CodeOf(err) != "T_0007" {
		t.Errorf("unexpected code %s", CodeOf(err))
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Error("plain errors have no code")
	}
}
