package service

import (
	"fmt"

	"github.com/MKhiriev/go-kaya/internal/adapter"
	"github.com/MKhiriev/go-kaya/internal/config"
	"github.com/MKhiriev/go-kaya/internal/crypto"
	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/store"
	"github.com/MKhiriev/go-kaya/models"
)

type Services struct {
	TokenService        TokenService
	AuthService         AuthService
	ConversationService ConversationService
	AppInfoService      AppInfoService
}

func NewServices(
	storages *store.Storages,
	adapters *adapter.Adapters,
	cfg config.StructuredConfig,
	buildInfo models.AppBuildInfo,
	logger *logger.Logger,
) (*Services, error) {
	hasher, err := crypto.NewPasswordHasher(cfg.App.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("error creating password hasher: %w", err)
	}

	appInfo, err := NewAppInfoService(cfg.App, buildInfo, logger)
	if err != nil {
		return nil, err
	}

	tokens := NewTokenService(cfg.App)
	conversations := NewConversationValidationService().Wrap(
		NewConversationService(storages.SessionStore, adapters.BlobStore, adapters.AdviceEngine, cfg, logger),
	)

	return &Services{
		TokenService:        tokens,
		AuthService:         NewAuthService(storages.AccountRepository, hasher, tokens, logger),
		ConversationService: conversations,
		AppInfoService:      appInfo,
	}, nil
}
