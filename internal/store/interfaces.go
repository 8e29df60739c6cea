package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-kaya/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// AccountRepository persists registered identities. Emails and usernames are
// normalized by the repository before any comparison or write.
type AccountRepository interface {
	// CreateAccount stores account and returns it with AccountID and
	// CreatedAt set. A taken email or username yields an error wrapping
	// [ErrDuplicateIdentity] together with [ErrEmailAlreadyExists] and/or
	// [ErrUsernameAlreadyExists].
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	// FindAccountByEmail returns [ErrAccountNotFound] when nothing matches.
	FindAccountByEmail(ctx context.Context, email string) (models.Account, error)
	// FindAccountByID returns [ErrAccountNotFound] when nothing matches.
	FindAccountByID(ctx context.Context, accountID int64) (models.Account, error)
}

// SessionStore holds conversation state. Every mutation of one key is
// linearizable; different keys never block each other. Returned sessions
// are snapshots.
type SessionStore interface {
	// GetOrCreate returns the session of key, creating an empty one if needed.
	GetOrCreate(ctx context.Context, key models.SessionKey) (models.Session, error)
	// SetArtifacts replaces the artifact list wholesale. Anything but exactly
	// [models.ArtifactsPerAnalysis] artifacts fails with
	// [ErrInvalidArtifactCount] and leaves the session untouched.
	SetArtifacts(ctx context.Context, key models.SessionKey, artifacts []models.Artifact) (models.Session, error)
	// AppendExchange appends one completed exchange to the history.
	AppendExchange(ctx context.Context, key models.SessionKey, exchange models.Exchange) (models.Session, error)
	// Evict drops the session. Evicting a missing key is not an error.
	Evict(ctx context.Context, key models.SessionKey) error
	// EvictIdle drops every session untouched for at least idleFor and
	// reports how many were dropped.
	EvictIdle(ctx context.Context, idleFor time.Duration) (int, error)
}
