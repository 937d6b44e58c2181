// Package service implements the client business logic of pilvi-pass: the
// in-memory session, authentication against the identity provider, the
// encrypted credential vault, the password generator and the background
// cache refresh.
//
// Services never return plaintext to storage layers. The key derived from the
// signed-in account is created per operation and wiped when the operation
// ends.
package service

import (
	"context"
	"time"

	"github.com/MKhiriev/pilvi-pass/models"
)

// ClientSessionService holds the signed-in user in memory.
type ClientSessionService interface {
	// Begin starts a session for user, replacing any previous one.
	Begin(user models.User) Identity
	// End forgets the signed-in user.
	End()
	// Current returns a snapshot of the signed-in user or
	// ErrUserNotAuthenticated. An expired ID token yields ErrSessionExpired.
	Current() (Identity, error)
	// Snapshot is Current without the token expiry check.
	Snapshot() (Identity, error)
	// Renew stores the refreshed tokens of the user behind id. It fails with
	// ErrIdentityChanged if the session moved on or user is another account.
	Renew(id Identity, user models.User) (Identity, error)
	// CurrentUserID returns the key material of the signed-in user, if any.
	// Credential keys are derived from it.
	CurrentUserID() ([]byte, bool)
	// Check returns ErrIdentityChanged if the session moved on since id was
	// taken.
	Check(id Identity) error
}

// ClientTokenRenewer keeps the ID token of the signed-in user usable.
type ClientTokenRenewer interface {
	// Current returns a snapshot of the signed-in user, renewing an expired
	// ID token first.
	Current(ctx context.Context) (Identity, error)
	// Renew exchanges the refresh token behind id for a new ID token.
	Renew(ctx context.Context, id Identity) (Identity, error)
}

// ClientAuthService signs users in and out.
type ClientAuthService interface {
	SignUp(ctx context.Context, form models.SignInForm) (models.User, error)
	SignIn(ctx context.Context, form models.SignInForm) (models.User, error)
	SignOut(ctx context.Context)
}

// ClientCredentialService manages the encrypted credentials of the signed-in
// user.
type ClientCredentialService interface {
	Save(ctx context.Context, input models.CredentialInput) (models.Credential, error)
	List(ctx context.Context) (models.CredentialList, error)
	Reveal(ctx context.Context, credential models.Credential) (string, error)
	RevealByService(ctx context.Context, serviceName string) (string, error)
	Delete(ctx context.Context, serviceName string) error
	Refresh(ctx context.Context) error
}

// ClientGeneratorService produces random passwords.
type ClientGeneratorService interface {
	Generate(ctx context.Context, opts models.GeneratorOptions) (string, error)
}

// ClientRefreshJob periodically refreshes the local credential cache.
type ClientRefreshJob interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
}
