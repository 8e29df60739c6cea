package http

import (
	"github.com/MKhiriev/go-kaya/internal/config"
	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/service"
)

type Handler struct {
	services *service.Services
	cfg      config.Server

	// blobDir is served under /blobs/ when non-empty.
	blobDir string

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, blobDir string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		cfg:      cfg,
		blobDir:  blobDir,
		logger:   logger,
	}
}
