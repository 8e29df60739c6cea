package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/mock"
	"github.com/MKhiriev/go-kaya/internal/service"
	"github.com/MKhiriev/go-kaya/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newRoutedHandler returns a router whose auth always rejects, so protected
// routes answer 401 without touching the conversation service.
func newRoutedHandler(t *testing.T, blobDir string) http.Handler {
	t.Helper()
	ctrl := gomock.NewController(t)

	auth := mock.NewMockAuthService(ctrl)
	auth.EXPECT().Authenticate(gomock.Any(), gomock.Any()).
		Return(models.Account{}, service.ErrUnauthenticated).AnyTimes()

	appInfo := mock.NewMockAppInfoService(ctrl)
	appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("test").AnyTimes()
	appInfo.EXPECT().GetBuildInfo(gomock.Any()).Return(models.VersionResponse{Version: "test"}).AnyTimes()

	svcs := &service.Services{
		AuthService:         auth,
		ConversationService: mock.NewMockConversationService(ctrl),
		AppInfoService:      appInfo,
	}

	return NewHandler(svcs, testServerConfig, blobDir, logger.Nop()).Init()
}

func TestInit_PublicRoutes(t *testing.T) {
	router := newRoutedHandler(t, "")

	for _, path := range []string{"/", "/api/version"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestInit_ProtectedRoutesRequireAuth(t *testing.T) {
	router := newRoutedHandler(t, "")

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/analysis/upload"},
		{http.MethodPost, "/api/analysis/analyze"},
		{http.MethodPost, "/api/analysis/clear-session"},
		{http.MethodGet, "/api/analysis/session"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(rt.method, rt.path, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Authentication required", decodeError(t, rec))
		})
	}
}

func TestInit_Fallbacks(t *testing.T) {
	router := newRoutedHandler(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blobs/a.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "blobs are not served without a blob dir")
}

func TestInit_TraceIDEchoed(t *testing.T) {
	router := newRoutedHandler(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set(traceIDHeader, "trace-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get(traceIDHeader))
}

func TestInit_CORSPreflight(t *testing.T) {
	router := newRoutedHandler(t, "")

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/analysis/analyze", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Authorization, X-Conversation-ID")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/analysis/analyze", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestInit_ServesBlobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "2026", "10", "16"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2026", "10", "16", "x.png"), pngMagic, 0o644))

	router := newRoutedHandler(t, dir)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blobs/2026/10/16/x.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngMagic, rec.Body.Bytes())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blobs/2026/10/16/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "directory listings are hidden")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blobs/2026/10/16/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
