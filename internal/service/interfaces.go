package service

import (
	"context"

	"github.com/MKhiriev/go-kaya/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(ctx context.Context, accountID int64) (models.Token, error)
	// Verify returns the account id the token was issued to, or an error
	// wrapping [ErrTokenIsExpired] or [ErrTokenIsInvalid].
	Verify(ctx context.Context, tokenString string) (int64, error)
}

type AuthService interface {
	Register(ctx context.Context, req models.SignupRequest) (models.Account, error)
	Login(ctx context.Context, req models.LoginRequest) (models.Token, error)
	// Authenticate resolves an Authorization header value to a live account.
	Authenticate(ctx context.Context, authorizationHeader string) (models.Account, error)
}

// ConversationService keeps the uploaded images and question history of a
// session and talks to the advice engine on its behalf.
type ConversationService interface {
	// Upload stores exactly three images and makes them the session's
	// artifact set. On any failure the session is left as it was.
	Upload(ctx context.Context, key models.SessionKey, uploads []models.Upload) (models.Session, error)
	// PrepareRequest builds the advice engine input without calling it.
	PrepareRequest(ctx context.Context, key models.SessionKey, question string) (models.AdviceRequest, error)
	// RecordAnswer appends a completed exchange to the history.
	RecordAnswer(ctx context.Context, key models.SessionKey, question, answer string) (models.Session, error)
	// Ask runs PrepareRequest, the engine call and RecordAnswer. The answer is
	// recorded only when the engine succeeds.
	Ask(ctx context.Context, key models.SessionKey, question string) (models.AnalyzeResponse, error)
	Reset(ctx context.Context, key models.SessionKey) error
	Session(ctx context.Context, key models.SessionKey) (models.Session, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.VersionResponse
}
