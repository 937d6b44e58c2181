package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/pilvi-pass/internal/adapter"
	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/models"
)

type clientTokenRenewer struct {
	session  ClientSessionService
	identity adapter.IdentityProvider
	logger   *logger.Logger

	// mu serialises exchanges so concurrent callers share one renewal.
	mu sync.Mutex
}

// NewClientTokenRenewer creates a ClientTokenRenewer that exchanges refresh
// tokens through identity.
func NewClientTokenRenewer(session ClientSessionService, identity adapter.IdentityProvider, logger *logger.Logger) ClientTokenRenewer {
	return &clientTokenRenewer{
		session:  session,
		identity: identity,
		logger:   logger,
	}
}

func (r *clientTokenRenewer) Current(ctx context.Context) (Identity, error) {
	id, err := r.session.Current()
	if !errors.Is(err, ErrSessionExpired) {
		return id, err
	}

	stale, err := r.session.Snapshot()
	if err != nil {
		return Identity{}, err
	}
	return r.Renew(ctx, stale)
}

// Renew returns ErrNetwork when the token service is unreachable, so callers
// may still serve cached data, and ErrSessionExpired when it refuses the
// refresh token.
func (r *clientTokenRenewer) Renew(ctx context.Context, id Identity) (Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.session.Snapshot()
	if err != nil {
		return Identity{}, err
	}
	if current.generation != id.generation {
		return Identity{}, ErrIdentityChanged
	}
	if current.user.IDToken != id.user.IDToken {
		// renewed by another caller
		return current, nil
	}

	user, err := r.identity.Refresh(ctx, current.User())
	if err != nil {
		r.logger.Err(err).Msg("renewing id token failed")
		if adapter.IsRetryable(err) || adapter.IsRateLimited(err) {
			return Identity{}, mapAdapterError(err)
		}
		return Identity{}, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	renewed, err := r.session.Renew(current, user)
	if err != nil {
		return Identity{}, err
	}
	r.logger.Info().Msg("id token renewed")

	return renewed, nil
}

// callWithRenewal runs call for the user behind *id. When the document store
// rejects the ID token, the token is renewed once and call runs again with
// *id replaced by the renewed snapshot.
func callWithRenewal[T any](ctx context.Context, renewer ClientTokenRenewer, id *Identity, call func(user models.User) (T, error)) (T, error) {
	result, err := call(id.User())
	if !errors.Is(err, adapter.ErrUnauthorized) {
		return result, err
	}

	renewed, renewErr := renewer.Renew(ctx, *id)
	if renewErr != nil {
		var zero T
		return zero, renewErr
	}
	*id = renewed

	return call(id.User())
}
