package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/pilvi-pass/internal/config"
	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/models"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func newTestIdentityProvider(t *testing.T, url string, clock clockwork.Clock) IdentityProvider {
	t.Helper()
	p, err := NewHTTPIdentityProvider(testAdapterConfig(url), config.ClientApp{APIKey: testAPIKey}, clock, logger.Nop())
	require.NoError(t, err)
	return p
}

func idToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("provider-key"))
	require.NoError(t, err)
	return s
}

func TestNewHTTPIdentityProvider_Validation(t *testing.T) {
	_, err := NewHTTPIdentityProvider(testAdapterConfig("http://localhost"), config.ClientApp{}, clockwork.NewFakeClock(), logger.Nop())
	assert.Error(t, err)

	_, err = NewHTTPIdentityProvider(testAdapterConfig(""), config.ClientApp{APIKey: "k"}, clockwork.NewFakeClock(), logger.Nop())
	assert.Error(t, err)
}

func TestSignIn_Success(t *testing.T) {
	exp := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	token := idToken(t, jwt.MapClaims{"user_id": "uid-42", "email": "alice@example.com", "exp": exp.Unix()})

	srv := newBackend(t, func(r chi.Router) {
		r.Post("/accounts:signInWithPassword", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, testAPIKey, r.URL.Query().Get("key"))
			assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

			var body identityRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "alice@example.com", body.Email)
			assert.Equal(t, "pw", body.Password)
			assert.True(t, body.ReturnSecureToken)

			writeJSON(t, w, http.StatusOK, identityResponse{
				IDToken:      token,
				Email:        "alice@example.com",
				RefreshToken: "refresh",
				ExpiresIn:    "3600",
				LocalID:      "uid-42",
			})
		})
	})

	p := newTestIdentityProvider(t, srv.URL, clockwork.NewFakeClock())
	user, err := p.SignIn(context.Background(), models.SignInForm{Email: "alice@example.com", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "uid-42", user.UID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, token, user.IDToken)
	assert.Equal(t, "refresh", user.RefreshToken)
	assert.True(t, exp.Equal(user.ExpiresAt))
}

func TestSignUp_OpaqueTokenUsesExpiresIn(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	srv := newBackend(t, func(r chi.Router) {
		r.Post("/accounts:signUp", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, identityResponse{
				IDToken:   "opaque-token",
				Email:     "bob@example.com",
				ExpiresIn: "60",
				LocalID:   "uid-bob",
			})
		})
	})

	p := newTestIdentityProvider(t, srv.URL, clock)
	user, err := p.SignUp(context.Background(), models.SignInForm{Email: "bob@example.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, "uid-bob", user.UID)
	assert.Equal(t, clock.Now().Add(time.Minute), user.ExpiresAt)
}

func TestSignUp_EmailExists(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Post("/accounts:signUp", func(w http.ResponseWriter, _ *http.Request) {
			writeBackendError(t, w, http.StatusBadRequest, "EMAIL_EXISTS")
		})
	})

	p := newTestIdentityProvider(t, srv.URL, clockwork.NewFakeClock())
	_, err := p.SignUp(context.Background(), models.SignInForm{Email: "a@b.c", Password: "secret1"})

	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Post("/accounts:signInWithPassword", func(w http.ResponseWriter, _ *http.Request) {
			writeBackendError(t, w, http.StatusBadRequest, "INVALID_LOGIN_CREDENTIALS")
		})
	})

	p := newTestIdentityProvider(t, srv.URL, clockwork.NewFakeClock())
	_, err := p.SignIn(context.Background(), models.SignInForm{Email: "a@b.c", Password: "nope"})

	assert.ErrorIs(t, err, ErrInvalidLoginCredentials)
}

func TestSignIn_MismatchedTokenSubject(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Post("/accounts:signInWithPassword", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, identityResponse{
				IDToken: idToken(t, jwt.MapClaims{"user_id": "someone-else"}),
				Email:   "a@b.c",
				LocalID: "uid-42",
			})
		})
	})

	p := newTestIdentityProvider(t, srv.URL, clockwork.NewFakeClock())
	_, err := p.SignIn(context.Background(), models.SignInForm{Email: "a@b.c", Password: "pw"})

	assert.Error(t, err)
}

func TestSignIn_MissingAccountID(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Post("/accounts:signInWithPassword", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, identityResponse{IDToken: "opaque", Email: "a@b.c"})
		})
	})

	p := newTestIdentityProvider(t, srv.URL, clockwork.NewFakeClock())
	_, err := p.SignIn(context.Background(), models.SignInForm{Email: "a@b.c", Password: "pw"})

	assert.Error(t, err)
}

func TestSignIn_NetworkFailure(t *testing.T) {
	srv := newBackend(t, func(chi.Router) {})
	url := srv.URL
	srv.Close()

	p := newTestIdentityProvider(t, url, clockwork.NewFakeClock())
	_, err := p.SignIn(context.Background(), models.SignInForm{Email: "a@b.c", Password: "pw"})

	assert.ErrorIs(t, err, ErrNetwork)
	assert.True(t, IsRetryable(err))
	assert.False(t, errors.Is(err, ErrInvalidLoginCredentials))
}

func TestRefresh_ExchangesRefreshToken(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	exp := clock.Now().Add(time.Hour)
	token := idToken(t, jwt.MapClaims{"user_id": "uid-42", "exp": exp.Unix()})

	srv := newBackend(t, func(r chi.Router) {
		r.Post("/token", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, testAPIKey, r.URL.Query().Get("key"))
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "refresh-1", r.PostForm.Get("refresh_token"))

			writeJSON(t, w, http.StatusOK, refreshResponse{
				IDToken:      token,
				RefreshToken: "refresh-2",
				ExpiresIn:    "3600",
				UserID:       "uid-42",
			})
		})
	})

	p := newTestIdentityProvider(t, srv.URL, clock)
	stale := models.User{UID: "uid-42", Email: "alice@example.com", IDToken: "old", RefreshToken: "refresh-1", ExpiresAt: clock.Now()}

	got, err := p.Refresh(context.Background(), stale)
	require.NoError(t, err)
	assert.Equal(t, "uid-42", got.UID)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, token, got.IDToken)
	assert.Equal(t, "refresh-2", got.RefreshToken)
	assert.True(t, exp.Equal(got.ExpiresAt))
}

func TestRefresh_KeepsRefreshTokenWhenNotRotated(t *testing.T) {
	srv := newBackend(t, func(r chi.Router) {
		r.Post("/token", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, http.StatusOK, refreshResponse{IDToken: "opaque", ExpiresIn: "60", UserID: "uid-42"})
		})
	})

	p := newTestIdentityProvider(t, srv.URL, clockwork.NewFakeClock())
	got, err := p.Refresh(context.Background(), models.User{UID: "uid-42", Email: "alice@example.com", RefreshToken: "r"})

	require.NoError(t, err)
	assert.Equal(t, "r", got.RefreshToken)
	assert.Equal(t, "opaque", got.IDToken)
}

func TestRefresh_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		user    models.User
		want    error
	}{
		{
			name: "expired refresh token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeBackendError(t, w, http.StatusBadRequest, "TOKEN_EXPIRED")
			},
			user: models.User{UID: "uid-42", Email: "a@b.c", RefreshToken: "r"},
			want: ErrUnauthorized,
		},
		{
			name: "disabled account",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeBackendError(t, w, http.StatusBadRequest, "USER_DISABLED")
			},
			user: models.User{UID: "uid-42", Email: "a@b.c", RefreshToken: "r"},
			want: ErrUserDisabled,
		},
		{
			name: "token of another account",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, http.StatusOK, refreshResponse{IDToken: "opaque", UserID: "uid-7"})
			},
			user: models.User{UID: "uid-42", Email: "a@b.c", RefreshToken: "r"},
			want: ErrUnauthorized,
		},
		{
			name: "no refresh token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				t.Error("token service must not be called")
			},
			user: models.User{UID: "uid-42", Email: "a@b.c"},
			want: ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newBackend(t, func(r chi.Router) {
				r.Post("/token", tt.handler)
			})

			p := newTestIdentityProvider(t, srv.URL, clockwork.NewFakeClock())
			_, err := p.Refresh(context.Background(), tt.user)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
