package store

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-kaya/models"
)

// memoryAccountRepository keeps accounts in process memory. It is used when
// no database DSN is configured and in tests. Uniqueness checks and the
// insert happen under one lock.
type memoryAccountRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]models.Account
	byEmail    map[string]int64
	byUsername map[string]int64
	now        func() time.Time
}

func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{
		byID:       make(map[int64]models.Account),
		byEmail:    make(map[string]int64),
		byUsername: make(map[string]int64),
		now:        time.Now,
	}
}

func (m *memoryAccountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, err
	}

	account = account.Normalized()

	m.mu.Lock()
	defer m.mu.Unlock()

	_, emailTaken := m.byEmail[account.Email]
	_, usernameTaken := m.byUsername[account.Username]
	if dup := duplicateIdentityError(emailTaken, usernameTaken); dup != nil {
		return models.Account{}, dup
	}

	m.nextID++
	account.AccountID = m.nextID
	account.CreatedAt = m.now().UTC()

	m.byID[account.AccountID] = account
	m.byEmail[account.Email] = account.AccountID
	m.byUsername[account.Username] = account.AccountID

	return account, nil
}

func (m *memoryAccountRepository) FindAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return models.Account{}, ErrAccountNotFound
	}
	return m.byID[id], nil
}

func (m *memoryAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.byID[accountID]
	if !ok {
		return models.Account{}, ErrAccountNotFound
	}
	return account, nil
}
