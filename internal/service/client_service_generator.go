package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/pilvi-pass/internal/adapter"
	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/internal/validators"
	"github.com/MKhiriev/pilvi-pass/models"
)

type clientGeneratorService struct {
	generator adapter.PasswordGenerator
	validator validators.Validator
	logger    *logger.Logger
}

func NewClientGeneratorService(generator adapter.PasswordGenerator, validator validators.Validator, logger *logger.Logger) ClientGeneratorService {
	return &clientGeneratorService{generator: generator, validator: validator, logger: logger}
}

// Generate validates opts and asks the remote generator for a password.
func (g *clientGeneratorService) Generate(ctx context.Context, opts models.GeneratorOptions) (string, error) {
	if err := g.validator.Validate(ctx, opts); err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}

	password, err := g.generator.Generate(ctx, opts)
	if err != nil {
		g.logger.Err(err).Int("length", opts.Length).Msg("password generation failed")
		return "", fmt.Errorf("%w: %w", ErrGeneratorFailed, err)
	}

	return password, nil
}
