package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeInvalidField, "unknown field %q", "Colour"), `INVALID_FIELD: unknown field "Colour"`},
		{Wrap(ErrCodeInvalidArtifact, errors.New("unexpected EOF"), "decode %s", "Cargo.toml"), "INVALID_ARTIFACT: decode Cargo.toml: unexpected EOF"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("no such file")
	err := Wrap(ErrCodeFileNotFound, cause, "read debian/watch")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	guess := New(ErrCodeInvalidGuess, "empty value")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"same code", guess, ErrCodeInvalidGuess, true},
		{"other code", guess, ErrCodeInvalidField, false},
		{"outermost code wins", Wrap(ErrCodeInvalidInput, guess, "request"), ErrCodeInvalidInput, true},
		{"through fmt wrapping", fmt.Errorf("reconcile: %w", guess), ErrCodeInvalidGuess, true},
		{"plain error", errors.New("boom"), ErrCodeInvalidGuess, false},
		{"nil", nil, ErrCodeInvalidGuess, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode Code
		wantMsg  string
	}{
		{"coded", New(ErrCodeInvalidCertainty, "unknown certainty %q", "sure"), ErrCodeInvalidCertainty, `unknown certainty "sure"`},
		{"wrapped", fmt.Errorf("load: %w", New(ErrCodeInvalidConfig, "ttl must be positive")), ErrCodeInvalidConfig, "ttl must be positive"},
		{"plain", errors.New("disk full"), "", "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
			if got := UserMessage(tt.err); got != tt.wantMsg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %q, want empty", got)
	}
}
