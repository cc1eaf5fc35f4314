package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAs(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := fmt.Errorf("saving plan: %w", Persistence(cause))

	e, ok := As(wrapped)
	if !ok {
		t.Fatal("As did not find the *Error")
	}
	if e.Status != http.StatusServiceUnavailable || e.Code != CodePersistence {
		t.Errorf("got %d %s", e.Status, e.Code)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("cause not reachable through Unwrap")
	}

	if _, ok := As(cause); ok {
		t.Error("plain error classified as *Error")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
		code   string
	}{
		{Validation("bad", nil), 400, CodeValidation},
		{Unauthorized("no"), 401, CodeUnauthorized},
		{Forbidden("no"), 403, CodeForbidden},
		{NotFound("gone"), 404, CodeNotFound},
		{AITimeout(nil), 408, CodeAITimeout},
		{Conflict("dup"), 409, CodeConflict},
		{RateLimited("slow"), 429, CodeRateLimited},
		{Internal(nil), 500, CodeInternal},
		{AIService(nil), 503, CodeAIService},
	}
	for _, tt := range tests {
		if tt.err.Status != tt.status || tt.err.Code != tt.code {
			t.Errorf("%s: got %d, want %d %s", tt.err.Code, tt.err.Status, tt.status, tt.code)
		}
	}
}
