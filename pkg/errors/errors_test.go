package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "booking not found"},
			expected: "NOT_FOUND: booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "store failure",
				Err:     errors.New("connection refused"),
			},
			expected: "INTERNAL_ERROR: store failure (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if !errors.Is(appErr, originalErr) {
		t.Errorf("errors.Is should find the original error")
	}
}

func TestAppError_StatusCodeDefaultsTo500(t *testing.T) {
	err := &AppError{Code: CodeInternal, Message: "no status"}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("StatusCode() = %d, want %d", err.StatusCode(), http.StatusInternalServerError)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFoundWithID("Vehicle", "v-1"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad booking", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad period"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("vehicle is not available"), CodeConflict, http.StatusConflict},
		{"internal", Internal("store failure", errors.New("boom")), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("too slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("store"), CodeUnavailable, http.StatusServiceUnavailable},
		{"rate limited", RateLimited("slow down"), CodeRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Booking", "b-42")

	if err.Message != "Booking not found" {
		t.Errorf("expected message 'Booking not found', got %s", err.Message)
	}
	if err.Details["id"] != "b-42" {
		t.Errorf("expected id 'b-42', got %v", err.Details["id"])
	}
}

func TestAsAppError(t *testing.T) {
	conflict := Conflict("taken")
	wrapped := fmt.Errorf("create booking: %w", conflict)

	if got := AsAppError(wrapped); got != conflict {
		t.Errorf("AsAppError should unwrap to the original AppError")
	}
	if !HasCode(wrapped, CodeConflict) {
		t.Errorf("HasCode should report CONFLICT through wrapping")
	}

	plain := errors.New("plain")
	got := AsAppError(plain)
	if got.Code != CodeInternal || !errors.Is(got, plain) {
		t.Errorf("plain errors should become INTERNAL_ERROR wrapping the cause, got %v", got)
	}
	if IsAppError(plain) {
		t.Errorf("IsAppError(plain) = true, want false")
	}
}
