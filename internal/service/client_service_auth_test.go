package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/pilvi-pass/internal/adapter"
	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/internal/mock"
	"github.com/MKhiriev/pilvi-pass/internal/validators"
	"github.com/MKhiriev/pilvi-pass/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type stopCounter struct {
	stops int
}

func (s *stopCounter) Start(context.Context, time.Duration) {}
func (s *stopCounter) Stop()                                { s.stops++ }

func newAuthFixture(t *testing.T) (*mock.MockIdentityProvider, ClientSessionService, *stopCounter, ClientAuthService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	identity := mock.NewMockIdentityProvider(ctrl)
	session := NewClientSessionService(clockwork.NewFakeClockAt(testNow))
	job := &stopCounter{}

	svc := NewClientAuthService(identity, session, validators.NewFormValidator(), job, logger.Nop())
	return identity, session, job, svc
}

func TestAuthService_SignIn(t *testing.T) {
	identity, session, _, svc := newAuthFixture(t)
	form := models.SignInForm{Email: "alice@example.com", Password: "correct horse"}
	user := testUser("uid-42", "alice@example.com")

	identity.EXPECT().SignIn(gomock.Any(), form).Return(user, nil)

	got, err := svc.SignIn(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	id, err := session.Current()
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", id.Email())
}

func TestAuthService_SignUpBeginsSession(t *testing.T) {
	identity, session, _, svc := newAuthFixture(t)
	form := models.SignInForm{Email: "new@example.com", Password: "secret1"}

	identity.EXPECT().SignUp(gomock.Any(), form).Return(testUser("uid-9", "new@example.com"), nil)

	_, err := svc.SignUp(context.Background(), form)
	require.NoError(t, err)

	uid, ok := session.CurrentUserID()
	require.True(t, ok)
	assert.Equal(t, []byte("uid-9"), uid)
}

func TestAuthService_ValidationBeforeNetwork(t *testing.T) {
	tests := []struct {
		name string
		form models.SignInForm
		want error
	}{
		{name: "empty email", form: models.SignInForm{Password: "pw"}, want: validators.ErrEmptyEmail},
		{name: "blank email", form: models.SignInForm{Email: "   ", Password: "pw"}, want: validators.ErrEmptyEmail},
		{name: "empty password", form: models.SignInForm{Email: "alice@example.com"}, want: validators.ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, session, _, svc := newAuthFixture(t)

			_, err := svc.SignIn(context.Background(), tt.form)
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, tt.want)

			_, err = svc.SignUp(context.Background(), tt.form)
			assert.ErrorIs(t, err, ErrValidation)

			_, err = session.Current()
			assert.ErrorIs(t, err, ErrUserNotAuthenticated)
		})
	}
}

func TestAuthService_ProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "invalid credentials", err: adapter.ErrInvalidLoginCredentials, want: ErrInvalidLoginCredentials},
		{name: "disabled", err: adapter.ErrUserDisabled, want: ErrUserDisabled},
		{name: "network", err: adapter.ErrNetwork, want: ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, session, _, svc := newAuthFixture(t)
			identity.EXPECT().SignIn(gomock.Any(), gomock.Any()).Return(models.User{}, tt.err)

			_, err := svc.SignIn(context.Background(), models.SignInForm{Email: "alice@example.com", Password: "pw"})
			assert.ErrorIs(t, err, tt.want)

			_, err = session.Current()
			assert.ErrorIs(t, err, ErrUserNotAuthenticated)
		})
	}
}

func TestAuthService_SignUpEmailExists(t *testing.T) {
	identity, _, _, svc := newAuthFixture(t)
	identity.EXPECT().SignUp(gomock.Any(), gomock.Any()).Return(models.User{}, adapter.ErrEmailExists)

	_, err := svc.SignUp(context.Background(), models.SignInForm{Email: "alice@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_SignOut(t *testing.T) {
	identity, session, job, svc := newAuthFixture(t)
	identity.EXPECT().SignIn(gomock.Any(), gomock.Any()).Return(testUser("uid-42", "alice@example.com"), nil)

	_, err := svc.SignIn(context.Background(), models.SignInForm{Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	id, err := session.Current()
	require.NoError(t, err)

	svc.SignOut(context.Background())

	assert.Equal(t, 1, job.stops)
	_, err = session.Current()
	assert.ErrorIs(t, err, ErrUserNotAuthenticated)
	assert.ErrorIs(t, session.Check(id), ErrIdentityChanged)
}

func TestAuthService_SignOutWithoutJob(t *testing.T) {
	session := NewClientSessionService(nil)
	svc := NewClientAuthService(nil, session, validators.NewFormValidator(), nil, logger.Nop())

	assert.NotPanics(t, func() { svc.SignOut(context.Background()) })
}
