package adapter

import "errors"

// Transport errors mapped from HTTP status codes.
var (
	ErrNetwork         = errors.New("network unavailable")
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthorized    = errors.New("client unauthorized")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrTooManyRequests = errors.New("too many requests")
	ErrServerError     = errors.New("server error")
)

// Identity provider errors mapped from backend error codes.
var (
	ErrEmailExists             = errors.New("email already registered")
	ErrInvalidLoginCredentials = errors.New("invalid login credentials")
	ErrWeakPassword            = errors.New("password too weak")
	ErrInvalidEmail            = errors.New("invalid email")
	ErrUserDisabled            = errors.New("user disabled")
)

// ErrGeneratorUnavailable is returned when the password generator answers
// with an unusable payload or its circuit breaker is open.
var ErrGeneratorUnavailable = errors.New("password generator unavailable")
