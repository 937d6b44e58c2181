package service

import (
	"github.com/MKhiriev/pilvi-pass/internal/adapter"
	"github.com/MKhiriev/pilvi-pass/internal/config"
	"github.com/MKhiriev/pilvi-pass/internal/crypto"
	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/internal/store"
	"github.com/MKhiriev/pilvi-pass/internal/utils"
	"github.com/MKhiriev/pilvi-pass/internal/validators"
	"github.com/jonboulle/clockwork"
)

type ClientServices struct {
	SessionService    ClientSessionService
	AuthService       ClientAuthService
	CredentialService ClientCredentialService
	GeneratorService  ClientGeneratorService
	RefreshJob        ClientRefreshJob
}

// ClientAdapters groups the remote collaborators of the service layer.
type ClientAdapters struct {
	Identity  adapter.IdentityProvider
	Documents adapter.DocumentStore
	Generator adapter.PasswordGenerator
}

func NewClientServices(adapters ClientAdapters, storages *store.ClientStorages, cfg config.ClientAdapter, clock clockwork.Clock, logger *logger.Logger) *ClientServices {
	validator := validators.NewFormValidator()
	sessionSvc := NewClientSessionService(clock)
	renewer := NewClientTokenRenewer(sessionSvc, adapters.Identity, logger)
	credentialSvc := NewClientCredentialService(
		sessionSvc,
		renewer,
		adapters.Documents,
		storages.CredentialRepository,
		crypto.NewCredentialCipher(),
		validator,
		utils.RetryPolicy{
			MaxAttempts:    cfg.ReadRetry.Attempts,
			InitialBackoff: cfg.ReadRetry.Backoff,
		},
		clock,
		logger,
	)
	refreshJob := NewClientRefreshJob(credentialSvc, sessionSvc, clock, logger)

	return &ClientServices{
		SessionService:    sessionSvc,
		AuthService:       NewClientAuthService(adapters.Identity, sessionSvc, validator, refreshJob, logger),
		CredentialService: credentialSvc,
		GeneratorService:  NewClientGeneratorService(adapters.Generator, validator, logger),
		RefreshJob:        refreshJob,
	}
}
