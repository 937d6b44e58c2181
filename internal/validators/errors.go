package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyServiceName   = errors.New("service name is required")
	ErrInvalidServiceName = errors.New("service name must not contain '/' or surrounding spaces")
	ErrEmptyUsername      = errors.New("username is required")
	ErrEmptyPassword      = errors.New("password is required")
	ErrEmptyEmail         = errors.New("email is required")
	ErrInvalidLength      = errors.New("password length is out of range")
	ErrNoCharacterClass   = errors.New("at least one character class must be selected")
)
