package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/pilvi-pass/internal/adapter"
	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/internal/validators"
	"github.com/MKhiriev/pilvi-pass/models"
)

type clientAuthService struct {
	identity   adapter.IdentityProvider
	session    ClientSessionService
	validator  validators.Validator
	refreshJob ClientRefreshJob
	logger     *logger.Logger
}

// NewClientAuthService creates a ClientAuthService. refreshJob may be nil;
// when set it is stopped on SignOut.
func NewClientAuthService(identity adapter.IdentityProvider, session ClientSessionService, validator validators.Validator, refreshJob ClientRefreshJob, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		identity:   identity,
		session:    session,
		validator:  validator,
		refreshJob: refreshJob,
		logger:     logger,
	}
}

// SignUp creates an account and signs it in. The identity provider returns a
// ready session for new accounts, so no second round trip is needed.
func (a *clientAuthService) SignUp(ctx context.Context, form models.SignInForm) (models.User, error) {
	return a.authenticate(ctx, "sign up", form, a.identity.SignUp)
}

func (a *clientAuthService) SignIn(ctx context.Context, form models.SignInForm) (models.User, error) {
	return a.authenticate(ctx, "sign in", form, a.identity.SignIn)
}

func (a *clientAuthService) authenticate(ctx context.Context, op string, form models.SignInForm,
	call func(context.Context, models.SignInForm) (models.User, error)) (models.User, error) {
	if err := a.validator.Validate(ctx, form); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	user, err := call(ctx, form)
	if err != nil {
		a.logger.Err(err).Str("op", op).Msg("identity provider rejected request")
		return models.User{}, mapAdapterError(err)
	}

	a.session.Begin(user)
	a.logger.Info().Str("op", op).Msg("session started")

	return user, nil
}

// SignOut stops the refresh job and forgets the signed-in user.
func (a *clientAuthService) SignOut(_ context.Context) {
	if a.refreshJob != nil {
		a.refreshJob.Stop()
	}
	a.session.End()
	a.logger.Info().Msg("session ended")
}
