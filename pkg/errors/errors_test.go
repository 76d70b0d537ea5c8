package errors

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeLockUnavailable, cause, "measure callback panicked")

	if err.Code != ErrCodeLockUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeLockUnavailable)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

type codedError struct{ code Code }

func (e *codedError) Error() string { return string(e.code) }
func (e *codedError) Code() Code    { return e.code }

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidChildNode,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInternal, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
		{
			name:     "coder type",
			err:      &codedError{code: ErrCodeChildIndexOutOfBounds},
			code:     ErrCodeChildIndexOutOfBounds,
			expected: true,
		},
		{
			name:     "coder behind fmt wrap",
			err:      fmt.Errorf("insert: %w", &codedError{code: ErrCodeInvalidParentNode}),
			code:     ErrCodeInvalidParentNode,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidFormat, "test"),
			expected: ErrCodeInvalidFormat,
		},
		{
			name:     "coder type",
			err:      &codedError{code: ErrCodeInvalidInputNode},
			expected: ErrCodeInvalidInputNode,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidateFinite(t *testing.T) {
	if err := ValidateFinite("flex grow", 1.5); err != nil {
		t.Errorf("ValidateFinite(1.5) = %v, want nil", err)
	}
	for _, v := range []float32{float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))} {
		if err := ValidateFinite("flex grow", v); !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateFinite(%v) = %v, want INVALID_INPUT", v, err)
		}
	}
}

func TestValidateNonNegative(t *testing.T) {
	if err := ValidateNonNegative("flex shrink", 0); err != nil {
		t.Errorf("ValidateNonNegative(0) = %v, want nil", err)
	}
	if err := ValidateNonNegative("flex shrink", -1); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateNonNegative(-1) = %v, want INVALID_INPUT", err)
	}
}

func TestValidateDocumentPath(t *testing.T) {
	tests := []struct {
		path string
		code Code
	}{
		{"tree.toml", ""},
		{"dir/tree.YAML", ""},
		{"tree.yml", ""},
		{"tree.json", ""},
		{"", ErrCodeInvalidPath},
		{"tree\x00.toml", ErrCodeInvalidPath},
		{"tree.xml", ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		err := ValidateDocumentPath(tt.path)
		if got := GetCode(err); got != tt.code {
			t.Errorf("ValidateDocumentPath(%q) code = %q, want %q", tt.path, got, tt.code)
		}
	}
}
