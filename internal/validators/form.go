package validators

import (
	"context"
	"strings"

	"github.com/MKhiriev/pilvi-pass/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldServiceName = "service_name"
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldEmail       = "email"
	FieldLength      = "length"
	FieldClasses     = "classes"
)

// FormValidator implements [Validator] for the client forms:
// models.CredentialInput, models.SignInForm and models.GeneratorOptions.
// Both value and pointer forms are accepted.
type FormValidator struct {
}

func NewFormValidator() Validator {
	return &FormValidator{}
}

// Validate dispatches on the dynamic type of obj and returns the first
// violation found, or ErrUnsupportedType for unknown types.
func (v *FormValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CredentialInput:
		return v.validateCredentialInput(ctx, value, fields...)
	case *models.CredentialInput:
		return v.validateCredentialInput(ctx, *value, fields...)

	case models.SignInForm:
		return v.validateSignInForm(ctx, value, fields...)
	case *models.SignInForm:
		return v.validateSignInForm(ctx, *value, fields...)

	case models.GeneratorOptions:
		return v.validateGeneratorOptions(ctx, value, fields...)
	case *models.GeneratorOptions:
		return v.validateGeneratorOptions(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *FormValidator) validateCredentialInput(_ context.Context, input models.CredentialInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldServiceName, FieldUsername, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldServiceName:
			if input.ServiceName == "" {
				return ErrEmptyServiceName
			}
			// the service name is also the document ID
			if strings.Contains(input.ServiceName, "/") || strings.TrimSpace(input.ServiceName) != input.ServiceName {
				return ErrInvalidServiceName
			}
		case FieldUsername:
			if strings.TrimSpace(input.Username) == "" {
				return ErrEmptyUsername
			}
		case FieldPassword:
			if input.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *FormValidator) validateSignInForm(_ context.Context, form models.SignInForm, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if strings.TrimSpace(form.Email) == "" {
				return ErrEmptyEmail
			}
		case FieldPassword:
			if form.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *FormValidator) validateGeneratorOptions(_ context.Context, opts models.GeneratorOptions, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLength, FieldClasses}
	}

	for _, f := range fields {
		switch f {
		case FieldLength:
			if opts.Length < models.MinGeneratedPasswordLength || opts.Length > models.MaxGeneratedPasswordLength {
				return ErrInvalidLength
			}
		case FieldClasses:
			if !opts.AnyClass() {
				return ErrNoCharacterClass
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
