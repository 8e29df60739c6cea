package adapter

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/go-kaya/internal/config"
	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/utils"
)

// Adapters bundles the external collaborators selected by configuration.
type Adapters struct {
	BlobStore    BlobStore
	AdviceEngine AdviceEngine

	// LocalBlobs is non-nil when images are kept on local disk; the HTTP
	// server then serves its directory.
	LocalBlobs *LocalBlobStore
}

// NewAdapters picks the S3 blob store when a bucket is configured and the
// local directory store otherwise.
func NewAdapters(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*Adapters, error) {
	if cfg == nil {
		return nil, errors.New("nil config was passed")
	}

	// downloads share the deadline of the analysis request that triggers them
	fetcher := NewHTTPImageFetcher(utils.NewHTTPClient(0))
	a := &Adapters{}

	if cfg.Adapter.Blob.Bucket != "" {
		blobs, err := NewS3BlobStore(ctx, cfg.Adapter.Blob, log)
		if err != nil {
			return nil, err
		}
		a.BlobStore = blobs
	} else {
		local, err := NewLocalBlobStore(cfg.Storage.Files.BlobDir, localPublicBaseURL(cfg), fetcher, log)
		if err != nil {
			return nil, err
		}
		a.BlobStore = local
		a.LocalBlobs = local
		fetcher = local
	}

	engine, err := NewGeminiEngine(ctx, cfg.Adapter.Engine, fetcher, log)
	if err != nil {
		return nil, err
	}
	a.AdviceEngine = engine

	return a, nil
}

// localPublicBaseURL falls back to the server's own /blobs/ route.
func localPublicBaseURL(cfg *config.StructuredConfig) string {
	if cfg.Storage.Files.PublicBaseURL != "" {
		return cfg.Storage.Files.PublicBaseURL
	}

	addr := cfg.Server.HTTPAddress
	if strings.HasPrefix(addr, "0.0.0.0:") || strings.HasPrefix(addr, ":") {
		addr = "localhost:" + addr[strings.LastIndex(addr, ":")+1:]
	}
	return "http://" + addr + "/blobs"
}
