package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
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
	err := Wrap(ErrCodeInvalidGraph, cause, "decode graph")

	if err.Code != ErrCodeInvalidGraph {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidGraph)
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

	expected := "INVALID_GRAPH: decode graph: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidDirection, "test"), ErrCodeInvalidDirection, true},
		{"non-matching code", New(ErrCodeInvalidDirection, "test"), ErrCodeInvalidAlignment, false},
		{"wrapped error", Wrap(ErrCodeTimeout, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeTimeout, true},
		{"non-Error type", errors.New("plain error"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
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
		{"Error type", New(ErrCodeInvalidOptions, "test"), ErrCodeInvalidOptions},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
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
	if got := UserMessage(New(ErrCodeFileNotFound, "missing %s", "g.json")); got != "missing g.json" {
		t.Errorf("UserMessage() = %q, want %q", got, "missing g.json")
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidGraph, "x"), http.StatusBadRequest},
		{New(ErrCodeInvalidDirection, "x"), http.StatusBadRequest},
		{New(ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{New(ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{New(ErrCodeCanceled, "x"), 499},
		{New(ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(GetCode(tt.err)), func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	plain := errors.New("boom")
	tests := []struct {
		name string
		err  error
		code Code
		is   error
	}{
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout, context.DeadlineExceeded},
		{"canceled", context.Canceled, ErrCodeCanceled, context.Canceled},
		{"wrapped canceled", fmt.Errorf("step: %w", context.Canceled), ErrCodeCanceled, context.Canceled},
		{"other", plain, "", plain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromContext(tt.err)
			if GetCode(got) != tt.code {
				t.Errorf("GetCode() = %q, want %q", GetCode(got), tt.code)
			}
			if !errors.Is(got, tt.is) {
				t.Errorf("errors.Is(%v, %v) = false", got, tt.is)
			}
		})
	}
}

func TestCodeStatus(t *testing.T) {
	if got := ErrCodeInvalidPath.Status(); got != http.StatusBadRequest {
		t.Errorf("INVALID_PATH.Status() = %d, want 400", got)
	}
	if got := Code("SOMETHING_NEW").Status(); got != http.StatusInternalServerError {
		t.Errorf("unknown Status() = %d, want 500", got)
	}
	if Is(errors.New("x"), "") {
		t.Error(`Is(plain, "") = true, want false`)
	}
}
