package adapter

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-kaya/internal/utils"
	"github.com/MKhiriev/go-kaya/models"
)

// httpImageFetcher downloads artifacts from their public URL.
type httpImageFetcher struct {
	client *utils.HTTPClient
}

func NewHTTPImageFetcher(client *utils.HTTPClient) ImageFetcher {
	return &httpImageFetcher{client: client}
}

func (f *httpImageFetcher) Fetch(ctx context.Context, artifact models.Artifact) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "image/*").
		Get(artifact.URL)
	if err != nil {
		return nil, fmt.Errorf("image request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}
