// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strings"
	"time"
)

// Account represents a registered user identity.
// Sensitive fields must never be exposed outside trusted boundaries.
type Account struct {
	// AccountID is the server-assigned unique identifier of the account.
	AccountID int64 `json:"accountId"`

	// Username is unique across all accounts. Stored trimmed.
	Username string `json:"username"`

	// Email is unique across all accounts. Stored trimmed and lower-cased,
	// see [NormalizeEmail].
	Email string `json:"email"`

	// PasswordHash is the salted one-way digest of the account password.
	// It is never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}

// Normalized returns a copy of a with username and email normalized.
func (a Account) Normalized() Account {
	a.Username = NormalizeUsername(a.Username)
	a.Email = NormalizeEmail(a.Email)
	return a
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
// Every comparison and every write of an email goes through this function.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername trims surrounding whitespace. Case is preserved.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
