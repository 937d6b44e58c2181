package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/internal/utils"
	"github.com/MKhiriev/pilvi-pass/models"
	sq "github.com/Masterminds/squirrel"
	"github.com/jonboulle/clockwork"
)

const credentialsTable = "credentials"

var (
	credentialColumns = []string{"owner", "service_name", "username", "password", "created_at"}
	insertColumns     = []string{"owner", "service_name", "username", "password", "created_at", "cached_at"}
)

const upsertCredentialSuffix = `ON CONFLICT (owner, service_name) DO UPDATE SET
		username = excluded.username,
		password = excluded.password,
		created_at = excluded.created_at,
		cached_at = excluded.cached_at`

var readRetryPolicy = utils.RetryPolicy{
	MaxAttempts:    3,
	InitialBackoff: 50 * time.Millisecond,
}

type localCredentialRepository struct {
	*DB
	clock  clockwork.Clock
	logger *logger.Logger
}

// NewLocalCredentialRepository returns the SQL implementation of
// [LocalCredentialRepository]. clock stamps cached_at on every write.
func NewLocalCredentialRepository(db *DB, clock clockwork.Clock, logger *logger.Logger) LocalCredentialRepository {
	return &localCredentialRepository{
		DB:     db,
		clock:  clock,
		logger: logger,
	}
}

func (l *localCredentialRepository) Upsert(ctx context.Context, credential models.Credential) error {
	log := logger.FromContext(ctx)

	query, args, err := l.insertBuilder(credential).Suffix(upsertCredentialSuffix).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = l.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "localCredentialRepository.Upsert").
			Str("service_name", credential.ServiceName).
			Msg("failed to upsert cached credential")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (l *localCredentialRepository) ReplaceAll(ctx context.Context, owner string, credentials []models.Credential) error {
	log := logger.FromContext(ctx)

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "localCredentialRepository.ReplaceAll").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := l.builder().Delete(credentialsTable).Where(sq.Eq{"owner": owner}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "localCredentialRepository.ReplaceAll").Msg("failed to clear cached credentials")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if len(credentials) > 0 {
		insert := l.builder().Insert(credentialsTable).Columns(insertColumns...)
		cachedAt := l.clock.Now().UTC()
		for _, c := range credentials {
			if c.Owner != owner {
				return fmt.Errorf("credential %q belongs to another owner", c.ServiceName)
			}
			insert = insert.Values(c.Owner, c.ServiceName, c.Username, c.Password.String(), c.CreatedAt.UTC(), cachedAt)
		}

		if query, args, err = insert.ToSql(); err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "localCredentialRepository.ReplaceAll").
				Int("count", len(credentials)).
				Msg("failed to insert cached credentials")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "localCredentialRepository.ReplaceAll").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (l *localCredentialRepository) List(ctx context.Context, owner string) ([]models.Credential, error) {
	query, args, err := l.builder().
		Select(credentialColumns...).
		From(credentialsTable).
		Where(sq.Eq{"owner": owner}).
		OrderBy("service_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return utils.Retry(ctx, l.retryPolicy(ctx, "localCredentialRepository.List"), l.classify, func() ([]models.Credential, error) {
		return l.queryCredentials(ctx, query, args)
	})
}

func (l *localCredentialRepository) Get(ctx context.Context, owner, serviceName string) (models.Credential, error) {
	query, args, err := l.builder().
		Select(credentialColumns...).
		From(credentialsTable).
		Where(sq.Eq{"owner": owner, "service_name": serviceName}).
		ToSql()
	if err != nil {
		return models.Credential{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	items, err := utils.Retry(ctx, l.retryPolicy(ctx, "localCredentialRepository.Get"), l.classify, func() ([]models.Credential, error) {
		return l.queryCredentials(ctx, query, args)
	})
	if err != nil {
		return models.Credential{}, err
	}
	if len(items) == 0 {
		return models.Credential{}, ErrCredentialNotFound
	}

	return items[0], nil
}

func (l *localCredentialRepository) Delete(ctx context.Context, owner, serviceName string) error {
	query, args, err := l.builder().
		Delete(credentialsTable).
		Where(sq.Eq{"owner": owner, "service_name": serviceName}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = l.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localCredentialRepository.Delete").
			Str("service_name", serviceName).
			Msg("failed to delete cached credential")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (l *localCredentialRepository) insertBuilder(c models.Credential) sq.InsertBuilder {
	return l.builder().
		Insert(credentialsTable).
		Columns(insertColumns...).
		Values(c.Owner, c.ServiceName, c.Username, c.Password.String(), c.CreatedAt.UTC(), l.clock.Now().UTC())
}

func (l *localCredentialRepository) queryCredentials(ctx context.Context, query string, args []any) ([]models.Credential, error) {
	rows, err := l.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var items []models.Credential
	for rows.Next() {
		var (
			c        models.Credential
			password string
		)
		if err = rows.Scan(&c.Owner, &c.ServiceName, &c.Username, &password, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		c.Password = models.EncryptedRecord(password)
		items = append(items, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return items, nil
}

func (l *localCredentialRepository) classify(err error) utils.RetryAction {
	if errors.Is(err, sql.ErrConnDone) {
		return utils.RetryStop
	}
	if l.errorClassificator != nil && l.errorClassificator.Classify(err) == Retryable {
		return utils.RetryAgain
	}
	return utils.RetryStop
}

func (l *localCredentialRepository) retryPolicy(ctx context.Context, fn string) utils.RetryPolicy {
	p := readRetryPolicy
	p.OnRetry = func(attempt int, err error, backoff time.Duration) {
		logger.FromContext(ctx).Warn().
			Str("func", fn).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Err(err).
			Msg("retrying cache read")
	}
	return p
}
