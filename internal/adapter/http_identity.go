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
	"github.com/jonboulle/clockwork"
)

const (
	signUpPath  = "/accounts:signUp"
	signInPath  = "/accounts:signInWithPassword"
	refreshPath = "/token"
)

type identityRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type identityResponse struct {
	IDToken      string `json:"idToken"`
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
}

// refreshResponse is the token service answer; it uses snake_case keys.
type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UserID       string `json:"user_id"`
}

type httpIdentityProvider struct {
	client *utils.HTTPClient
	tokens *utils.HTTPClient
	apiKey string
	clock  clockwork.Clock

	logger *logger.Logger
}

// NewHTTPIdentityProvider constructs the REST implementation of
// [IdentityProvider] for an Identity Toolkit compatible backend.
//
// Returns an error if the identity or token address cannot be parsed or the
// API key is empty.
func NewHTTPIdentityProvider(adapterCfg config.ClientAdapter, appCfg config.ClientApp, clock clockwork.Clock, logger *logger.Logger) (IdentityProvider, error) {
	if appCfg.APIKey == "" {
		return nil, errors.New("empty api key")
	}

	client, err := newClient(adapterCfg.IdentityAddress, adapterCfg.RequestTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid identity address: %w", err)
	}

	tokens, err := newClient(adapterCfg.TokenAddress, adapterCfg.RequestTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid token address: %w", err)
	}

	return &httpIdentityProvider{
		client: client,
		tokens: tokens,
		apiKey: appCfg.APIKey,
		clock:  clock,
		logger: logger,
	}, nil
}

// SignUp implements [IdentityProvider] via POST /accounts:signUp.
func (h *httpIdentityProvider) SignUp(ctx context.Context, form models.SignInForm) (models.User, error) {
	return h.authenticate(ctx, "sign up", signUpPath, form)
}

// SignIn implements [IdentityProvider] via POST /accounts:signInWithPassword.
func (h *httpIdentityProvider) SignIn(ctx context.Context, form models.SignInForm) (models.User, error) {
	return h.authenticate(ctx, "sign in", signInPath, form)
}

// Refresh implements [IdentityProvider] via POST /token with the
// refresh_token grant.
func (h *httpIdentityProvider) Refresh(ctx context.Context, user models.User) (models.User, error) {
	if user.RefreshToken == "" {
		return models.User{}, fmt.Errorf("%w: no refresh token", ErrUnauthorized)
	}

	var result refreshResponse

	resp, err := h.tokens.R().
		SetContext(ctx).
		SetQueryParam("key", h.apiKey).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": user.RefreshToken,
		}).
		SetResult(&result).
		Post(refreshPath)
	if err != nil {
		return models.User{}, mapRequestError("refresh token", err)
	}
	if err = mapHTTPError(resp); err != nil {
		h.logger.Debug().Str("func", "httpIdentityProvider.Refresh").Err(err).Msg("refresh rejected")
		return models.User{}, err
	}

	refreshed, err := h.userFromResponse(identityResponse{
		IDToken:      result.IDToken,
		Email:        user.Email,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
		LocalID:      result.UserID,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("refresh token decode response: %w", err)
	}
	if refreshed.UID != user.UID {
		return models.User{}, fmt.Errorf("%w: refreshed token belongs to another account", ErrUnauthorized)
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = user.RefreshToken
	}

	return refreshed, nil
}

func (h *httpIdentityProvider) authenticate(ctx context.Context, op, path string, form models.SignInForm) (models.User, error) {
	var result identityResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("key", h.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(identityRequest{Email: form.Email, Password: form.Password, ReturnSecureToken: true}).
		SetResult(&result).
		Post(path)
	if err != nil {
		return models.User{}, mapRequestError(op, err)
	}
	if err = mapHTTPError(resp); err != nil {
		h.logger.Debug().Str("func", "httpIdentityProvider.authenticate").Err(err).Msg(op + " rejected")
		return models.User{}, err
	}

	user, err := h.userFromResponse(result)
	if err != nil {
		return models.User{}, fmt.Errorf("%s decode response: %w", op, err)
	}

	return user, nil
}

// userFromResponse builds the session user. Claims of the ID token take
// precedence; localId and expiresIn are used when the token carries none.
func (h *httpIdentityProvider) userFromResponse(r identityResponse) (models.User, error) {
	if r.IDToken == "" {
		return models.User{}, errors.New("empty id token")
	}

	user := models.User{
		UID:          r.LocalID,
		Email:        r.Email,
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
	}

	if claims, err := utils.ParseTokenClaims(r.IDToken); err == nil {
		if user.UID != "" && claims.UserID != user.UID {
			return models.User{}, errors.New("id token subject does not match account id")
		}
		user.UID = claims.UserID
		user.ExpiresAt = claims.ExpiresAt
		if user.Email == "" {
			user.Email = claims.Email
		}
	}

	if user.UID == "" {
		return models.User{}, errors.New("empty account id")
	}
	if user.Email == "" {
		return models.User{}, errors.New("empty account email")
	}

	if user.ExpiresAt.IsZero() && r.ExpiresIn != "" {
		seconds, err := strconv.Atoi(r.ExpiresIn)
		if err != nil {
			return models.User{}, fmt.Errorf("invalid expiresIn %q: %w", r.ExpiresIn, err)
		}
		user.ExpiresAt = h.clock.Now().Add(time.Duration(seconds) * time.Second)
	}

	return user, nil
}
