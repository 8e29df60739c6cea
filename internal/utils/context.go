// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// HTTP response writing, HTTP client initialization, JWT token generation
// and validation, and identifier generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-kaya/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// AccountIDCtxKey is the key the auth middleware stores the authenticated
// account identifier under.
//
//	ctx := context.WithValue(ctx, utils.AccountIDCtxKey, int64(42))
var AccountIDCtxKey = contextKey("accountID")

// SessionKeyCtxKey is the key the session middleware stores the resolved
// [models.SessionKey] under.
var SessionKeyCtxKey = contextKey("sessionKey")

// GetAccountIDFromContext retrieves the authenticated account identifier.
// ok is false when the value is missing or has an unexpected type.
func GetAccountIDFromContext(ctx context.Context) (int64, bool) {
	accountID, ok := ctx.Value(AccountIDCtxKey).(int64)
	return accountID, ok
}

// WithAccountID returns a copy of ctx carrying accountID.
func WithAccountID(ctx context.Context, accountID int64) context.Context {
	return context.WithValue(ctx, AccountIDCtxKey, accountID)
}

// GetSessionKeyFromContext retrieves the session key of the current request.
func GetSessionKeyFromContext(ctx context.Context) (models.SessionKey, bool) {
	key, ok := ctx.Value(SessionKeyCtxKey).(models.SessionKey)
	return key, ok && key != ""
}

// WithSessionKey returns a copy of ctx carrying key.
func WithSessionKey(ctx context.Context, key models.SessionKey) context.Context {
	return context.WithValue(ctx, SessionKeyCtxKey, key)
}

// AccountCtxKey is the key the auth middleware stores the resolved
// [models.Account] under.
var AccountCtxKey = contextKey("account")

// WithAccount returns a copy of ctx carrying account and its id.
func WithAccount(ctx context.Context, account models.Account) context.Context {
	ctx = context.WithValue(ctx, AccountCtxKey, account)
	return WithAccountID(ctx, account.AccountID)
}

// GetAccountFromContext retrieves the authenticated account.
func GetAccountFromContext(ctx context.Context) (models.Account, bool) {
	account, ok := ctx.Value(AccountCtxKey).(models.Account)
	return account, ok
}
