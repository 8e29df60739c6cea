package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-kaya/internal/utils"
	"github.com/MKhiriev/go-kaya/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPImageFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("image-bytes"))
		case "/gone.jpg":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	fetcher := NewHTTPImageFetcher(utils.NewHTTPClient(5 * time.Second))

	tests := []struct {
		name    string
		path    string
		want    []byte
		wantErr error
	}{
		{name: "ok", path: "/ok.jpg", want: []byte("image-bytes")},
		{name: "not found", path: "/gone.jpg", wantErr: ErrImageNotFound},
		{name: "forbidden", path: "/private.jpg", wantErr: ErrImageFetch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := fetcher.Fetch(context.Background(), models.Artifact{URL: srv.URL + tt.path})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, data)
		})
	}
}

func TestHTTPImageFetcher_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	fetcher := NewHTTPImageFetcher(utils.NewHTTPClient(time.Second))

	_, err := fetcher.Fetch(context.Background(), models.Artifact{URL: url + "/a.jpg"})
	assert.Error(t, err)
}
