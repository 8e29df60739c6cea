// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/MKhiriev/go-kaya/internal/crypto"
	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/store"
	"github.com/MKhiriev/go-kaya/internal/utils"
	"github.com/MKhiriev/go-kaya/models"
)

// authService is the concrete implementation of AuthService.
// It handles signup, credential verification and resolution of bearer
// tokens to live accounts.
type authService struct {
	// accounts is the credential store.
	accounts store.AccountRepository

	// hasher produces and checks password digests.
	hasher crypto.PasswordHasher

	// tokens issues and verifies bearer tokens.
	tokens TokenService

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService. The returned service is safe
// for concurrent use; all state is read-only after construction.
func NewAuthService(accounts store.AccountRepository, hasher crypto.PasswordHasher, tokens TokenService, logger *logger.Logger) AuthService {
	return &authService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new account.
//
// Username and email are normalized first. Returns the persisted account or:
//   - ErrInvalidDataProvided if a field is missing, the email is malformed or
//     the password is too long to hash.
//   - A wrapped store.ErrDuplicateIdentity when the email or username is taken.
func (a *authService) Register(ctx context.Context, req models.SignupRequest) (models.Account, error) {
	log := logger.FromContext(ctx)

	username := models.NormalizeUsername(req.Username)
	email := models.NormalizeEmail(req.Email)
	if username == "" || email == "" || req.Password == "" {
		log.Warn().Str("username", username).Str("email", email).Msg("signup with missing fields")
		return models.Account{}, ErrInvalidDataProvided
	}
	// only a bare addr-spec is accepted; display names and comments would
	// let the same mailbox register twice
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		log.Warn().Str("email", email).Msg("signup with malformed email")
		return models.Account{}, fmt.Errorf("%w: malformed email", ErrInvalidDataProvided)
	}

	hash, err := a.hasher.Hash(req.Password)
	if errors.Is(err, crypto.ErrPasswordTooLong) {
		return models.Account{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.Account{}, fmt.Errorf("password hashing failed: %w", err)
	}

	account, err := a.accounts.CreateAccount(ctx, models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		log.Err(err).Str("username", username).Str("email", email).Msg("account creation ended with error")
		return models.Account{}, fmt.Errorf("account creation ended with error: %w", err)
	}

	log.Info().Int64("account_id", account.AccountID).Msg("account registered")
	return account, nil
}

// Login checks the credentials and issues a token.
//
// An unknown email and a wrong password both yield ErrInvalidCredentials,
// and both pay for one password comparison.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	email := models.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return models.Token{}, ErrInvalidDataProvided
	}

	account, err := a.accounts.FindAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrAccountNotFound) {
		a.hasher.Verify(req.Password, "")
		log.Info().Str("email", email).Msg("login for unknown email")
		return models.Token{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Str("email", email).Msg("account search by email failed")
		return models.Token{}, fmt.Errorf("account search by email failed: %w", err)
	}

	if !a.hasher.Verify(req.Password, account.PasswordHash) {
		log.Info().Int64("account_id", account.AccountID).Msg("wrong password")
		return models.Token{}, ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(ctx, account.AccountID)
	if err != nil {
		log.Err(err).Int64("account_id", account.AccountID).Msg("token issue failed")
		return models.Token{}, err
	}

	return token, nil
}

// Authenticate resolves an Authorization header to its account.
//
// Errors wrap ErrUnauthenticated (bad header, stale token), ErrTokenIsExpired
// or ErrTokenIsInvalid.
func (a *authService) Authenticate(ctx context.Context, authorizationHeader string) (models.Account, error) {
	raw, err := utils.ParseBearerToken(authorizationHeader)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	accountID, err := a.tokens.Verify(ctx, raw)
	if err != nil {
		return models.Account{}, err
	}

	account, err := a.accounts.FindAccountByID(ctx, accountID)
	if errors.Is(err, store.ErrAccountNotFound) {
		return models.Account{}, fmt.Errorf("%w: account %d no longer exists", ErrUnauthenticated, accountID)
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("account search by id failed: %w", err)
	}

	return account, nil
}
