package adapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/MKhiriev/pilvi-pass/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "ok", status: http.StatusOK, body: `{}`},
		{name: "email exists", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"EMAIL_EXISTS"}}`, want: ErrEmailExists},
		{name: "invalid credentials", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS"}}`, want: ErrInvalidLoginCredentials},
		{name: "email not found", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"EMAIL_NOT_FOUND"}}`, want: ErrInvalidLoginCredentials},
		{name: "weak password with detail", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"WEAK_PASSWORD : Password should be at least 6 characters"}}`, want: ErrWeakPassword},
		{name: "invalid email", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"INVALID_EMAIL"}}`, want: ErrInvalidEmail},
		{name: "user disabled", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"USER_DISABLED"}}`, want: ErrUserDisabled},
		{name: "throttled by code", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"TOO_MANY_ATTEMPTS_TRY_LATER"}}`, want: ErrTooManyRequests},
		{name: "plain bad request", status: http.StatusBadRequest, body: `oops`, want: ErrBadRequest},
		{name: "unauthorized", status: http.StatusUnauthorized, body: ``, want: ErrUnauthorized},
		{name: "refresh token expired", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"TOKEN_EXPIRED"}}`, want: ErrUnauthorized},
		{name: "refresh token invalid", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"INVALID_REFRESH_TOKEN"}}`, want: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":{"code":403,"message":"Missing or insufficient permissions.","status":"PERMISSION_DENIED"}}`, want: ErrForbidden},
		{name: "not found", status: http.StatusNotFound, body: `{"error":{"code":404,"message":"Document not found"}}`, want: ErrNotFound},
		{name: "too many requests", status: http.StatusTooManyRequests, want: ErrTooManyRequests},
		{name: "server error", status: http.StatusServiceUnavailable, want: ErrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newBackend(t, func(r chi.Router) {
				r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(tt.body))
				})
			})

			resp, err := utils.NewHTTPClient(srv.URL, 0).R().Get("/")
			require.NoError(t, err)

			got := mapHTTPError(resp)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapHTTPError_UnmappedStatus(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	})

	resp, err := utils.NewHTTPClient(srv.URL, 0).R().Get("/")
	require.NoError(t, err)

	got := mapHTTPError(resp)
	require.Error(t, got)
	assert.Contains(t, got.Error(), "http 418")
}

func TestRetryClassification(t *testing.T) {
	assert.True(t, IsRetryable(mapTransportError("list", errors.New("connection refused"))))
	assert.True(t, IsRetryable(ErrServerError))
	assert.False(t, IsRetryable(ErrUnauthorized))
	assert.False(t, IsRetryable(ErrNotFound))
	assert.True(t, IsRateLimited(ErrTooManyRequests))
	assert.False(t, IsRateLimited(ErrServerError))
}

func TestMapRequestError(t *testing.T) {
	var decodeErr error = &json.SyntaxError{Offset: 1}
	got := mapRequestError("list", decodeErr)
	assert.False(t, IsRetryable(got))
	assert.ErrorIs(t, got, decodeErr)

	got = mapRequestError("list", errors.New("connection refused"))
	assert.ErrorIs(t, got, ErrNetwork)
}
