package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/utils"
	"github.com/MKhiriev/go-kaya/models"
)

// LocalBlobStore writes images to a directory that the HTTP server exposes
// under baseURL. It also acts as an [ImageFetcher] that reads its own
// objects from disk and delegates other URLs to fallback.
type LocalBlobStore struct {
	dir      string
	baseURL  string
	fallback ImageFetcher
	ids      *utils.UUIDGenerator
	now      func() time.Time
	logger   *logger.Logger
}

func NewLocalBlobStore(dir, baseURL string, fallback ImageFetcher, log *logger.Logger) (*LocalBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}

	return &LocalBlobStore{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		fallback: fallback,
		ids:      utils.NewUUIDGenerator(),
		now:      time.Now,
		logger:   log,
	}, nil
}

func (l *LocalBlobStore) Store(ctx context.Context, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrBlobStoreUnavailable, err)
	}

	name := objectName(l.ids.Generate(), mimeType, l.now().UTC())
	path := filepath.Join(l.dir, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrBlobStoreUnavailable, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		l.logger.Err(err).Str("func", "LocalBlobStore.Store").Str("path", path).Msg("write failed")
		return "", fmt.Errorf("%w: %w", ErrBlobStoreUnavailable, err)
	}

	return joinURL(l.baseURL, name), nil
}

func (l *LocalBlobStore) Fetch(ctx context.Context, artifact models.Artifact) ([]byte, error) {
	name, ok := strings.CutPrefix(artifact.URL, l.baseURL+"/")
	if !ok {
		if l.fallback == nil {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, artifact.URL)
		}
		return l.fallback.Fetch(ctx, artifact)
	}

	path := filepath.Join(l.dir, filepath.FromSlash(name))
	if !strings.HasPrefix(path, filepath.Clean(l.dir)+string(os.PathSeparator)) {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, artifact.URL)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, artifact.URL)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFetch, err)
	}

	return data, nil
}

// Dir is the directory served under the public base URL.
func (l *LocalBlobStore) Dir() string {
	return l.dir
}
