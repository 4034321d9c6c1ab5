package httpx

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without internal err",
			err:  NewAppError(http.StatusBadRequest, CodeParamMissing, "param missing", nil),
			want: "code=2001, message=param missing",
		},
		{
			name: "error with internal err",
			err:  NewAppError(http.StatusBadGateway, CodeExternalError, "provider failed", errors.New("connection refused")),
			want: "code=5003, message=provider failed, err=connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrParamMissing(t *testing.T) {
	err := ErrParamMissing("guid parameter is missing")
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
	if err.Code != CodeParamMissing {
		t.Errorf("Expected code %d, got %d", CodeParamMissing, err.Code)
	}
	if err.Message != "guid parameter is missing" {
		t.Errorf("Expected custom message, got '%s'", err.Message)
	}
}

func TestErrNotFound(t *testing.T) {
	err := ErrNotFound("record not found")
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Code != CodeNotFound {
		t.Errorf("Expected code %d, got %d", CodeNotFound, err.Code)
	}
}

func TestErrRateLimited(t *testing.T) {
	err := ErrRateLimited("")
	if err.HTTPStatus != http.StatusTooManyRequests {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusTooManyRequests, err.HTTPStatus)
	}
	if err.Message != "too many requests" {
		t.Errorf("Expected default message, got '%s'", err.Message)
	}
}

func TestErrExternalError(t *testing.T) {
	internalErr := errors.New("cloudflare API error")
	err := ErrExternalError("dns provider request failed", internalErr)

	if err.HTTPStatus != http.StatusBadGateway {
		t.Errorf("Expected HTTP status %d, got %d", http.StatusBadGateway, err.HTTPStatus)
	}
	if err.Code != CodeExternalError {
		t.Errorf("Expected code %d, got %d", CodeExternalError, err.Code)
	}
	if err.Err != internalErr {
		t.Errorf("Expected internal error to be preserved")
	}
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		code int
		min  int
		max  int
	}{
		{"CodeSuccess", CodeSuccess, 0, 0},
		{"CodeParamMissing", CodeParamMissing, 2000, 2099},
		{"CodeParamInvalid", CodeParamInvalid, 2000, 2099},
		{"CodeNotFound", CodeNotFound, 3000, 3999},
		{"CodeRateLimited", CodeRateLimited, 3000, 3999},
		{"CodeInternalError", CodeInternalError, 5000, 5999},
		{"CodeExternalError", CodeExternalError, 5000, 5999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code < tt.min || tt.code > tt.max {
				t.Errorf("%s = %d, expected to be in range [%d, %d]", tt.name, tt.code, tt.min, tt.max)
			}
		})
	}
}
