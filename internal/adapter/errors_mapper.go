package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// backendError is the error envelope of the hosted REST APIs:
//
//	{"error": {"code": 400, "message": "EMAIL_EXISTS", "status": "INVALID_ARGUMENT"}}
type backendError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

var identityErrorCodes = map[string]error{
	"EMAIL_EXISTS":                ErrEmailExists,
	"EMAIL_NOT_FOUND":             ErrInvalidLoginCredentials,
	"INVALID_PASSWORD":            ErrInvalidLoginCredentials,
	"INVALID_LOGIN_CREDENTIALS":   ErrInvalidLoginCredentials,
	"USER_DISABLED":               ErrUserDisabled,
	"WEAK_PASSWORD":               ErrWeakPassword,
	"INVALID_EMAIL":               ErrInvalidEmail,
	"MISSING_PASSWORD":            ErrInvalidLoginCredentials,
	"TOO_MANY_ATTEMPTS_TRY_LATER": ErrTooManyRequests,
	"TOKEN_EXPIRED":               ErrUnauthorized,
	"INVALID_REFRESH_TOKEN":       ErrUnauthorized,
	"MISSING_REFRESH_TOKEN":       ErrUnauthorized,
	"USER_NOT_FOUND":              ErrUnauthorized,
}

// mapRequestError classifies the error returned together with a resty
// response. A result body that fails to decode means the server answered, so
// it is not reported as [ErrNetwork].
func mapRequestError(op string, err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%s decode response: %w", op, err)
	}
	return mapTransportError(op, err)
}

// mapTransportError wraps a resty transport failure (DNS, refused
// connection, timeout) as [ErrNetwork].
func mapTransportError(op string, err error) error {
	return fmt.Errorf("%s request: %w: %w", op, ErrNetwork, err)
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	code := backendErrorCode(resp.Body())

	if sentinel, ok := identityErrorCodes[code]; ok {
		return fmt.Errorf("%w: %s", sentinel, code)
	}

	if code != "" {
		body = code
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrTooManyRequests, body)
	}

	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("%w: http %d: %s", ErrServerError, resp.StatusCode(), body)
	}

	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}

// backendErrorCode returns the leading code of the backend error message.
// Messages may carry a human-readable suffix, as in
// "WEAK_PASSWORD : Password should be at least 6 characters".
func backendErrorCode(body []byte) string {
	var envelope backendError
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	msg := strings.TrimSpace(envelope.Error.Message)
	if i := strings.Index(msg, " "); i >= 0 {
		msg = msg[:i]
	}
	return msg
}

// IsRetryable reports whether err is a transient transport failure that an
// idempotent read may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServerError)
}

// IsRateLimited reports whether the backend asked the client to slow down.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrTooManyRequests)
}
