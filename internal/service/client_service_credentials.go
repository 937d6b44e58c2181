// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/pilvi-pass/internal/adapter"
	"github.com/MKhiriev/pilvi-pass/internal/crypto"
	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/internal/store"
	"github.com/MKhiriev/pilvi-pass/internal/utils"
	"github.com/MKhiriev/pilvi-pass/internal/validators"
	"github.com/MKhiriev/pilvi-pass/models"
	"github.com/jonboulle/clockwork"
)

type clientCredentialService struct {
	session   ClientSessionService
	renewer   ClientTokenRenewer
	documents adapter.DocumentStore
	cache     store.LocalCredentialRepository
	cipher    crypto.CredentialCipher
	validator validators.Validator
	readRetry utils.RetryPolicy
	clock     clockwork.Clock
	logger    *logger.Logger
}

// NewClientCredentialService creates a ClientCredentialService. readRetry
// applies to list and get requests only; writes and deletes are sent once.
// A request rejected for an expired ID token is repeated once after renewer
// renewed the token.
func NewClientCredentialService(
	session ClientSessionService,
	renewer ClientTokenRenewer,
	documents adapter.DocumentStore,
	cache store.LocalCredentialRepository,
	cipher crypto.CredentialCipher,
	validator validators.Validator,
	readRetry utils.RetryPolicy,
	clock clockwork.Clock,
	logger *logger.Logger,
) ClientCredentialService {
	return &clientCredentialService{
		session:   session,
		renewer:   renewer,
		documents: documents,
		cache:     cache,
		cipher:    cipher,
		validator: validator,
		readRetry: readRetry,
		clock:     clock,
		logger:    logger,
	}
}

// Save encrypts input.Password with the key of the signed-in user and writes
// the record to the document store, replacing any record with the same
// service name. The local cache is updated on a best-effort basis.
func (s *clientCredentialService) Save(ctx context.Context, input models.CredentialInput) (models.Credential, error) {
	id, err := s.renewer.Current(ctx)
	if err != nil {
		return models.Credential{}, err
	}

	if err = s.validator.Validate(ctx, input); err != nil {
		return models.Credential{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	key, err := s.deriveKey(id)
	if err != nil {
		return models.Credential{}, err
	}
	record, err := s.cipher.Encrypt(input.Password, key)
	clear(key)
	if err != nil {
		s.logger.Err(err).Str("service_name", input.ServiceName).Msg("encrypting credential failed")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	credential := models.Credential{
		Owner:       id.Email(),
		ServiceName: input.ServiceName,
		Username:    input.Username,
		Password:    record,
		CreatedAt:   s.clock.Now().UTC(),
	}

	if err = s.session.Check(id); err != nil {
		return models.Credential{}, err
	}

	_, err = callWithRenewal(ctx, s.renewer, &id, func(user models.User) (struct{}, error) {
		return struct{}{}, s.documents.SetCredential(ctx, user, credential)
	})
	if err != nil {
		s.logger.Err(err).Str("service_name", credential.ServiceName).Msg("saving credential failed")
		return models.Credential{}, mapAdapterError(err)
	}

	if err = s.cache.Upsert(ctx, credential); err != nil {
		s.logger.Warn().Err(err).Str("service_name", credential.ServiceName).Msg("caching saved credential failed")
	}

	return credential, nil
}

// List returns the credentials of the signed-in user sorted by service name.
// When the document store cannot be reached the cached copy is returned with
// Offline set.
func (s *clientCredentialService) List(ctx context.Context) (models.CredentialList, error) {
	id, err := s.renewer.Current(ctx)
	if err != nil {
		if !errors.Is(err, ErrNetwork) {
			return models.CredentialList{}, err
		}
		// the token service is unreachable; the cache needs no token
		stale, snapErr := s.session.Snapshot()
		if snapErr != nil {
			return models.CredentialList{}, snapErr
		}
		return s.listOffline(ctx, stale, err)
	}

	items, err := callWithRenewal(ctx, s.renewer, &id, func(user models.User) ([]models.Credential, error) {
		return utils.Retry(ctx, s.retryPolicy("list credentials"), classifyAdapterError, func() ([]models.Credential, error) {
			return s.documents.ListCredentials(ctx, user)
		})
	})
	if err != nil {
		s.logger.Err(err).Msg("listing credentials failed")
		if !adapter.IsRetryable(err) && !adapter.IsRateLimited(err) {
			return models.CredentialList{}, mapAdapterError(err)
		}
		return s.listOffline(ctx, id, err)
	}

	sortCredentials(items)

	if err = s.session.Check(id); err != nil {
		return models.CredentialList{}, err
	}

	if err = s.cache.ReplaceAll(ctx, id.Email(), items); err != nil {
		s.logger.Warn().Err(err).Msg("refreshing credential cache failed")
	}

	return models.CredentialList{Items: items}, nil
}

func (s *clientCredentialService) listOffline(ctx context.Context, id Identity, remoteErr error) (models.CredentialList, error) {
	cached, err := s.cache.List(ctx, id.Email())
	if err != nil {
		s.logger.Err(err).Msg("reading credential cache failed")
		return models.CredentialList{}, mapAdapterError(remoteErr)
	}

	sortCredentials(cached)

	if err = s.session.Check(id); err != nil {
		return models.CredentialList{}, err
	}

	return models.CredentialList{Items: cached, Offline: true}, nil
}

// Reveal decrypts a listed credential with the key of the signed-in user.
// The plaintext is discarded if the signed-in user changes before decryption
// completes. Decryption is local, so an expired ID token does not matter.
func (s *clientCredentialService) Reveal(ctx context.Context, credential models.Credential) (string, error) {
	id, err := s.session.Snapshot()
	if err != nil {
		return "", err
	}
	return s.reveal(ctx, id, credential)
}

// RevealByService reads one credential from the document store and reveals it.
func (s *clientCredentialService) RevealByService(ctx context.Context, serviceName string) (string, error) {
	id, err := s.renewer.Current(ctx)
	if err != nil {
		return "", err
	}

	if err = s.validator.Validate(ctx, models.CredentialInput{ServiceName: serviceName}, validators.FieldServiceName); err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}

	credential, err := callWithRenewal(ctx, s.renewer, &id, func(user models.User) (models.Credential, error) {
		return utils.Retry(ctx, s.retryPolicy("get credential"), classifyAdapterError, func() (models.Credential, error) {
			return s.documents.GetCredential(ctx, user, serviceName)
		})
	})
	if err != nil {
		s.logger.Err(err).Str("service_name", serviceName).Msg("reading credential failed")
		if !adapter.IsRetryable(err) && !adapter.IsRateLimited(err) {
			return "", mapAdapterError(err)
		}

		cached, cacheErr := s.cache.Get(ctx, id.Email(), serviceName)
		if cacheErr != nil {
			if !errors.Is(cacheErr, store.ErrCredentialNotFound) {
				s.logger.Err(cacheErr).Str("service_name", serviceName).Msg("reading cached credential failed")
			}
			return "", mapAdapterError(err)
		}
		credential = cached
	}

	return s.reveal(ctx, id, credential)
}

func (s *clientCredentialService) reveal(_ context.Context, id Identity, credential models.Credential) (string, error) {
	if credential.Owner != "" && credential.Owner != id.Email() {
		return "", ErrIdentityChanged
	}

	key, err := s.deriveKey(id)
	if err != nil {
		return "", err
	}
	plaintext, err := s.cipher.Decrypt(credential.Password, key)
	clear(key)
	if err != nil {
		s.logger.Err(err).Str("service_name", credential.ServiceName).Msg("decrypting credential failed")
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	if err = s.session.Check(id); err != nil {
		return "", err
	}

	return plaintext, nil
}

// Delete removes a credential from the document store and the cache.
func (s *clientCredentialService) Delete(ctx context.Context, serviceName string) error {
	id, err := s.renewer.Current(ctx)
	if err != nil {
		return err
	}

	if err = s.validator.Validate(ctx, models.CredentialInput{ServiceName: serviceName}, validators.FieldServiceName); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	_, err = callWithRenewal(ctx, s.renewer, &id, func(user models.User) (struct{}, error) {
		return struct{}{}, s.documents.DeleteCredential(ctx, user, serviceName)
	})
	if err != nil {
		s.logger.Err(err).Str("service_name", serviceName).Msg("deleting credential failed")
		return mapAdapterError(err)
	}

	if err = s.cache.Delete(ctx, id.Email(), serviceName); err != nil {
		s.logger.Warn().Err(err).Str("service_name", serviceName).Msg("removing cached credential failed")
	}

	return nil
}

// Refresh re-reads the vault into the local cache. Serving the list from the
// cache counts as a failure.
func (s *clientCredentialService) Refresh(ctx context.Context) error {
	list, err := s.List(ctx)
	if err != nil {
		return err
	}
	if list.Offline {
		return fmt.Errorf("%w: cache not refreshed", ErrNetwork)
	}
	return nil
}

// deriveKey derives the key of the user behind id from the key material the
// session reports. The material is read before Check so it belongs to id.
func (s *clientCredentialService) deriveKey(id Identity) ([]byte, error) {
	material, ok := s.session.CurrentUserID()
	if !ok {
		return nil, ErrUserNotAuthenticated
	}
	defer clear(material)

	if err := s.session.Check(id); err != nil {
		return nil, err
	}
	return s.cipher.DeriveKey(material), nil
}

func (s *clientCredentialService) retryPolicy(op string) utils.RetryPolicy {
	p := s.readRetry
	p.OnRetry = func(attempt int, err error, backoff time.Duration) {
		s.logger.Warn().Err(err).
			Str("op", op).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("retrying read")
	}
	return p
}

func sortCredentials(items []models.Credential) {
	slices.SortFunc(items, func(a, b models.Credential) int {
		return strings.Compare(a.ServiceName, b.ServiceName)
	})
}
