// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/migrations"
	"github.com/MKhiriev/go-kaya/models"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAccountRepo(t *testing.T) (*accountRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	l := logger.Nop()
	return &accountRepository{
		db:     newDB(conn, migrations.Postgres, l),
		logger: l,
		now:    func() time.Time { return testNow },
	}, mock
}

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

const (
	conflictsQuery = `SELECT email, username FROM accounts WHERE \(email = \$1 OR username = \$2\)`
	insertQuery    = `INSERT INTO accounts \(username,email,password_hash,created_at\) VALUES \(\$1,\$2,\$3,\$4\) RETURNING account_id`
	selectQuery    = `SELECT account_id, username, email, password_hash, created_at FROM accounts WHERE`
)

// ─── CreateAccount ────────────────────────────────────────────────────────────

func TestCreateAccount_Success(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(conflictsQuery).
		WithArgs("ana@x.com", "ana").
		WillReturnRows(sqlmock.NewRows([]string{"email", "username"}))
	mock.ExpectQuery(insertQuery).
		WithArgs("ana", "ana@x.com", "digest", testNow).
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(7))
	mock.ExpectCommit()

	created, err := repo.CreateAccount(context.Background(), models.Account{
		Username:     " ana ",
		Email:        "Ana@X.com ",
		PasswordHash: "digest",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), created.AccountID)
	assert.Equal(t, "ana", created.Username)
	assert.Equal(t, "ana@x.com", created.Email)
	assert.Equal(t, testNow, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_DuplicateFromLookup(t *testing.T) {
	tests := []struct {
		name         string
		rows         *sqlmock.Rows
		wantEmail    bool
		wantUsername bool
	}{
		{
			name:      "email only",
			rows:      sqlmock.NewRows([]string{"email", "username"}).AddRow("ana@x.com", "other"),
			wantEmail: true,
		},
		{
			name:         "username only",
			rows:         sqlmock.NewRows([]string{"email", "username"}).AddRow("other@x.com", "ana"),
			wantUsername: true,
		},
		{
			name: "both on different accounts",
			rows: sqlmock.NewRows([]string{"email", "username"}).
				AddRow("ana@x.com", "someone").
				AddRow("someone@x.com", "ana"),
			wantEmail:    true,
			wantUsername: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestAccountRepo(t)

			mock.ExpectBegin()
			mock.ExpectQuery(conflictsQuery).WillReturnRows(tt.rows)
			mock.ExpectRollback()

			_, err := repo.CreateAccount(context.Background(), models.Account{Username: "ana", Email: "ana@x.com"})
			require.ErrorIs(t, err, ErrDuplicateIdentity)
			assert.Equal(t, tt.wantEmail, errors.Is(err, ErrEmailAlreadyExists))
			assert.Equal(t, tt.wantUsername, errors.Is(err, ErrUsernameAlreadyExists))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateAccount_UniqueViolationOnInsert(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(conflictsQuery).WillReturnRows(sqlmock.NewRows([]string{"email", "username"}))
	mock.ExpectQuery(insertQuery).
		WillReturnError(pgError(pgerrcode.UniqueViolation, accountsEmailConstraint))
	mock.ExpectRollback()

	_, err := repo.CreateAccount(context.Background(), models.Account{Username: "ana", Email: "ana@x.com"})
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.NotErrorIs(t, err, ErrUsernameAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_RetriesSerializationFailure(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(conflictsQuery).WillReturnRows(sqlmock.NewRows([]string{"email", "username"}))
	mock.ExpectQuery(insertQuery).WillReturnError(pgError(pgerrcode.SerializationFailure, ""))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery(conflictsQuery).WillReturnRows(sqlmock.NewRows([]string{"email", "username"}))
	mock.ExpectQuery(insertQuery).WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(1))
	mock.ExpectCommit()

	created, err := repo.CreateAccount(context.Background(), models.Account{Username: "ana", Email: "ana@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.AccountID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_UnexpectedInsertError(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(conflictsQuery).WillReturnRows(sqlmock.NewRows([]string{"email", "username"}))
	mock.ExpectQuery(insertQuery).WillReturnError(errors.New("db network error"))
	mock.ExpectRollback()

	_, err := repo.CreateAccount(context.Background(), models.Account{Username: "ana", Email: "ana@x.com"})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NotErrorIs(t, err, ErrDuplicateIdentity)
}

func TestCreateAccount_BeginError(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	_, err := repo.CreateAccount(context.Background(), models.Account{Username: "ana", Email: "ana@x.com"})
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

func TestCreateAccount_CommitError(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(conflictsQuery).WillReturnRows(sqlmock.NewRows([]string{"email", "username"}))
	mock.ExpectQuery(insertQuery).WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(1))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	_, err := repo.CreateAccount(context.Background(), models.Account{Username: "ana", Email: "ana@x.com"})
	assert.ErrorIs(t, err, ErrCommitingTransaction)
}

func TestCreateAccount_LookupError(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(conflictsQuery).WillReturnError(errors.New("db failure"))
	mock.ExpectRollback()

	_, err := repo.CreateAccount(context.Background(), models.Account{Username: "ana", Email: "ana@x.com"})
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

// ─── Find ─────────────────────────────────────────────────────────────────────

func TestFindAccountByEmail_Success(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery(selectQuery + ` email = \$1 LIMIT 1`).
		WithArgs("ana@x.com").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(3, "ana", "ana@x.com", "digest", testNow))

	found, err := repo.FindAccountByEmail(context.Background(), "  ANA@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.Account{
		AccountID:    3,
		Username:     "ana",
		Email:        "ana@x.com",
		PasswordHash: "digest",
		CreatedAt:    testNow,
	}, found)
}

func TestFindAccountByID_NotFound(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery(selectQuery + ` account_id = \$1 LIMIT 1`).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindAccountByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestFindAccountByID_UnexpectedError(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery(selectQuery).WillReturnError(errors.New("db failure"))

	_, err := repo.FindAccountByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrScanningRow)
	assert.NotErrorIs(t, err, ErrAccountNotFound)
}

func TestFindAccountByID_ScanError(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery(selectQuery).
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(1)) // intentionally wrong shape

	_, err := repo.FindAccountByID(context.Background(), 1)
	assert.Error(t, err)
}
