package adapter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/pilvi-pass/internal/config"
	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/internal/utils"
	"github.com/MKhiriev/pilvi-pass/models"
	"github.com/sony/gobreaker"
)

const generatorPath = "/api/"

type generatedPassword struct {
	Password string `json:"password"`
}

type httpPasswordGenerator struct {
	client  *utils.HTTPClient
	breaker *gobreaker.CircuitBreaker

	logger *logger.Logger
}

// NewHTTPPasswordGenerator constructs the REST implementation of
// [PasswordGenerator]. Calls go through a circuit breaker that opens after
// three consecutive transport or server failures and probes again after
// thirty seconds.
func NewHTTPPasswordGenerator(adapterCfg config.ClientAdapter, logger *logger.Logger) (PasswordGenerator, error) {
	client, err := newClient(adapterCfg.GeneratorAddress, adapterCfg.RequestTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid generator address: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "password-generator",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !IsRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &httpPasswordGenerator{client: client, breaker: breaker, logger: logger}, nil
}

// Generate implements [PasswordGenerator] via
// GET /api/?length=N&special=on|off&numbers=on|off&lower=on|off&upper=on|off.
func (h *httpPasswordGenerator) Generate(ctx context.Context, opts models.GeneratorOptions) (string, error) {
	result, err := h.breaker.Execute(func() (interface{}, error) {
		return h.generate(ctx, opts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %w", ErrGeneratorUnavailable, err)
		}
		return "", err
	}

	return result.(string), nil
}

func (h *httpPasswordGenerator) generate(ctx context.Context, opts models.GeneratorOptions) (string, error) {
	var passwords []generatedPassword

	// the service labels its JSON answer as text/html
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"length":  strconv.Itoa(opts.Length),
			"special": onOff(opts.UseSpecial),
			"numbers": onOff(opts.UseNumbers),
			"lower":   onOff(opts.UseLower),
			"upper":   onOff(opts.UseUpper),
		}).
		ForceContentType("application/json").
		SetResult(&passwords).
		Get(generatorPath)
	if err != nil {
		if err = mapRequestError("generate password", err); IsRetryable(err) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrGeneratorUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	if len(passwords) == 0 || passwords[0].Password == "" {
		return "", fmt.Errorf("%w: empty response", ErrGeneratorUnavailable)
	}

	return passwords[0].Password, nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
