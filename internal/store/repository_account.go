// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/models"
)

// maxCreateAttempts bounds retries of CreateAccount on retryable driver errors.
const maxCreateAttempts = 3

// accountRepository is the SQL-backed implementation of [AccountRepository].
// The same code serves PostgreSQL and SQLite; the [DB] supplies the
// placeholder format and the error classifier.
//
// All methods obtain a context-scoped logger via [logger.FromContext].
type accountRepository struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewAccountRepository constructs an [AccountRepository] backed by db.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// CreateAccount implements [AccountRepository].
//
// Inside one transaction the repository first looks for identities holding
// the email or the username, so both collisions can be reported, and then
// inserts. Concurrent signups that pass the lookup together are stopped by
// the unique constraints; the classifier maps that violation to the same
// errors.
func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	account = account.Normalized()
	account.CreatedAt = r.now().UTC().Truncate(time.Microsecond)

	var (
		created models.Account
		err     error
	)
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		created, err = r.createAccount(ctx, account)
		if err == nil || r.db.errorClassificator.Classify(err) != Retryable {
			break
		}
		log.Warn().Err(err).
			Str("func", "*accountRepository.CreateAccount").
			Int("attempt", attempt).
			Msg("retryable database error")
	}

	return created, err
}

func (r *accountRepository) createAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.createAccount").Msg("failed to begin transaction")
		return models.Account{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	emailTaken, usernameTaken, err := r.findIdentityConflicts(ctx, tx, account)
	if err != nil {
		return models.Account{}, err
	}
	if dup := duplicateIdentityError(emailTaken, usernameTaken); dup != nil {
		log.Debug().
			Str("func", "*accountRepository.createAccount").
			Bool("email_taken", emailTaken).
			Bool("username_taken", usernameTaken).
			Msg("identity already registered")
		return models.Account{}, dup
	}

	query, args, err := buildInsertAccountQuery(r.db.builder, account)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = tx.QueryRowContext(ctx, query, args...).Scan(&account.AccountID); err != nil {
		if dup := r.db.errorClassificator.DuplicateIdentity(err); dup != nil {
			log.Debug().Err(err).Str("func", "*accountRepository.createAccount").Msg("unique constraint violated")
			return models.Account{}, dup
		}
		log.Err(err).
			Str("func", "*accountRepository.createAccount").
			Str("sqlstate", postgresError(err)).
			Msg("failed to insert account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		if dup := r.db.errorClassificator.DuplicateIdentity(err); dup != nil {
			return models.Account{}, dup
		}
		log.Err(err).Str("func", "*accountRepository.createAccount").Msg("failed to commit transaction")
		return models.Account{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return account, nil
}

func (r *accountRepository) findIdentityConflicts(ctx context.Context, tx *sql.Tx, account models.Account) (emailTaken, usernameTaken bool, err error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindIdentityConflictsQuery(r.db.builder, account.Email, account.Username)
	if err != nil {
		return false, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.findIdentityConflicts").Msg("failed to query identity conflicts")
		return false, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var email, username string
		if err = rows.Scan(&email, &username); err != nil {
			return false, false, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		emailTaken = emailTaken || email == account.Email
		usernameTaken = usernameTaken || username == account.Username
	}
	if err = rows.Err(); err != nil {
		return false, false, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return emailTaken, usernameTaken, nil
}

// FindAccountByEmail implements [AccountRepository].
func (r *accountRepository) FindAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	return r.findAccount(ctx, sq.Eq{"email": models.NormalizeEmail(email)})
}

// FindAccountByID implements [AccountRepository].
func (r *accountRepository) FindAccountByID(ctx context.Context, accountID int64) (models.Account, error) {
	return r.findAccount(ctx, sq.Eq{"account_id": accountID})
}

func (r *accountRepository) findAccount(ctx context.Context, where sq.Eq) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectAccountQuery(r.db.builder, where)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var found models.Account
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&found.AccountID,
		&found.Username,
		&found.Email,
		&found.PasswordHash,
		&found.CreatedAt,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Account{}, ErrAccountNotFound
	case err != nil:
		log.Err(err).Str("func", "*accountRepository.findAccount").Msg("failed to find account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}
