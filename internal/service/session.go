// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"

	"github.com/MKhiriev/pilvi-pass/models"
	"github.com/jonboulle/clockwork"
)

// Identity is a snapshot of the signed-in user taken at the start of an
// operation. Operations pass it to [ClientSessionService.Check] before they
// act on their result.
type Identity struct {
	user       models.User
	generation uint64
}

// User returns the user captured by the snapshot.
func (i Identity) User() models.User {
	return i.user
}

// Email returns the account email, the owner of the user's credentials.
func (i Identity) Email() string {
	return i.user.Email
}

// keyMaterial returns a fresh copy of the uid bytes. Callers wipe it.
func (i Identity) keyMaterial() []byte {
	return []byte(i.user.UID)
}

type clientSessionService struct {
	clock clockwork.Clock

	mu         sync.RWMutex
	user       *models.User
	generation uint64
}

// NewClientSessionService creates an empty session. clock decides when the
// identity token has expired.
func NewClientSessionService(clock clockwork.Clock) ClientSessionService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &clientSessionService{clock: clock}
}

func (s *clientSessionService) Begin(user models.User) Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.user = &user
	return Identity{user: user, generation: s.generation}
}

func (s *clientSessionService) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.user = nil
}

func (s *clientSessionService) Current() (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return Identity{}, ErrUserNotAuthenticated
	}
	if s.user.Expired(s.clock.Now()) {
		return Identity{}, ErrSessionExpired
	}
	return Identity{user: *s.user, generation: s.generation}, nil
}

func (s *clientSessionService) Snapshot() (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return Identity{}, ErrUserNotAuthenticated
	}
	return Identity{user: *s.user, generation: s.generation}, nil
}

// Renew swaps in the refreshed tokens of the same account without starting a
// new generation, so snapshots taken before the renewal stay valid.
func (s *clientSessionService) Renew(id Identity, user models.User) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil || s.generation != id.generation || s.user.UID != user.UID {
		return Identity{}, ErrIdentityChanged
	}
	s.user = &user
	return Identity{user: user, generation: s.generation}, nil
}

// CurrentUserID ignores token expiry: the key material of a signed-in user
// does not change when the ID token is renewed.
func (s *clientSessionService) CurrentUserID() ([]byte, bool) {
	id, err := s.Snapshot()
	if err != nil {
		return nil, false
	}
	return id.keyMaterial(), true
}

func (s *clientSessionService) Check(id Identity) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil || s.generation != id.generation {
		return ErrIdentityChanged
	}
	return nil
}
