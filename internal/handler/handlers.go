package handler

import (
	"github.com/MKhiriev/go-kaya/internal/config"
	"github.com/MKhiriev/go-kaya/internal/handler/http"
	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the transport handlers enabled by cfg. Locally stored
// blobs are served from blobDir when it is non-empty.
func NewHandlers(services *service.Services, cfg config.Server, blobDir string, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg, blobDir, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
