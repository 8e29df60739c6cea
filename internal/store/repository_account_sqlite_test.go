package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-kaya/internal/config"
	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/models"
)

func newSQLiteAccountRepo(t *testing.T) (AccountRepository, *DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "kaya.db")
	db, err := NewConnectDB(context.Background(), config.DB{DSN: dsn}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewAccountRepository(db, logger.Nop()), db
}

func TestSQLiteAccountRepository_RoundTrip(t *testing.T) {
	repo, _ := newSQLiteAccountRepo(t)
	ctx := context.Background()

	created, err := repo.CreateAccount(ctx, models.Account{Username: "ana", Email: "Ana@X.com ", PasswordHash: "digest"})
	require.NoError(t, err)
	assert.NotZero(t, created.AccountID)
	assert.Equal(t, "ana@x.com", created.Email)

	byEmail, err := repo.FindAccountByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.AccountID, byEmail.AccountID)
	assert.Equal(t, "digest", byEmail.PasswordHash)
	assert.True(t, created.CreatedAt.Equal(byEmail.CreatedAt))

	byID, err := repo.FindAccountByID(ctx, created.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "ana", byID.Username)

	_, err = repo.FindAccountByID(ctx, created.AccountID+100)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSQLiteAccountRepository_DuplicateNormalizedEmail(t *testing.T) {
	repo, _ := newSQLiteAccountRepo(t)
	ctx := context.Background()

	_, err := repo.CreateAccount(ctx, models.Account{Username: "ana", Email: "ana@x.com", PasswordHash: "d"})
	require.NoError(t, err)

	for _, email := range []string{"ana@x.com", "ANA@X.COM", "  Ana@x.com\t"} {
		_, err = repo.CreateAccount(ctx, models.Account{Username: "other-" + email, Email: email, PasswordHash: "d"})
		assert.ErrorIs(t, err, ErrDuplicateIdentity, email)
		assert.ErrorIs(t, err, ErrEmailAlreadyExists, email)
		assert.NotErrorIs(t, err, ErrUsernameAlreadyExists, email)
	}

	_, err = repo.CreateAccount(ctx, models.Account{Username: " ana ", Email: "new@x.com", PasswordHash: "d"})
	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
}

func TestSQLiteAccountRepository_ConcurrentSignups(t *testing.T) {
	repo, _ := newSQLiteAccountRepo(t)
	ctx := context.Background()

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateAccount(ctx, models.Account{Username: "ana", Email: "ana@x.com", PasswordHash: "d"})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, ErrDuplicateIdentity), "unexpected error: %v", err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestSQLiteErrorClassifier_DuplicateIdentity(t *testing.T) {
	_, db := newSQLiteAccountRepo(t)

	_, err := db.Exec(`INSERT INTO accounts (username, email, password_hash) VALUES ('ana', 'ana@x.com', 'd')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO accounts (username, email, password_hash) VALUES ('bob', 'ana@x.com', 'd')`)
	require.Error(t, err)
	dup := db.errorClassificator.DuplicateIdentity(err)
	assert.ErrorIs(t, dup, ErrEmailAlreadyExists)

	_, err = db.Exec(`INSERT INTO accounts (username, email, password_hash) VALUES ('ana', 'bob@x.com', 'd')`)
	require.Error(t, err)
	dup = db.errorClassificator.DuplicateIdentity(err)
	assert.ErrorIs(t, dup, ErrUsernameAlreadyExists)

	assert.Nil(t, db.errorClassificator.DuplicateIdentity(errors.New("other")))
	assert.Equal(t, NonRetryable, db.errorClassificator.Classify(err))
}
