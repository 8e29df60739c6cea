package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-kaya/internal/config"
	"github.com/MKhiriev/go-kaya/internal/utils"
	"github.com/MKhiriev/go-kaya/models"
	"github.com/golang-jwt/jwt/v5"
)

// tokenService signs HS256 tokens with one process-wide secret.
type tokenService struct {
	signKey  string
	issuer   string
	duration time.Duration
	now      func() time.Time
}

func NewTokenService(cfg config.App) TokenService {
	return newTokenService(cfg, time.Now)
}

func newTokenService(cfg config.App, now func() time.Time) *tokenService {
	return &tokenService{
		signKey:  cfg.TokenSignKey,
		issuer:   cfg.TokenIssuer,
		duration: cfg.TokenDuration,
		now:      now,
	}
}

func (t *tokenService) Issue(ctx context.Context, accountID int64) (models.Token, error) {
	token, err := utils.GenerateJWTToken(t.issuer, accountID, t.now(), t.duration, t.signKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

func (t *tokenService) Verify(ctx context.Context, tokenString string) (int64, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, t.signKey, t.issuer, t.now)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return 0, fmt.Errorf("%w: %w", ErrTokenIsExpired, err)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTokenIsInvalid, err)
	}

	return token.AccountID, nil
}
