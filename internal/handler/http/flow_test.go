package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-kaya/internal/adapter"
	"github.com/MKhiriev/go-kaya/internal/config"
	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/mock"
	"github.com/MKhiriev/go-kaya/internal/service"
	"github.com/MKhiriev/go-kaya/internal/store"
	"github.com/MKhiriev/go-kaya/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type flowFixture struct {
	server *httptest.Server
	blobs  *mock.MockBlobStore
	engine *mock.MockAdviceEngine
}

func newFlowFixture(t *testing.T) *flowFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	cfg := config.StructuredConfig{
		App: config.App{
			TokenSignKey:     "flow-test-key",
			TokenIssuer:      "go-kaya",
			TokenDuration:    15 * 24 * time.Hour,
			PasswordHashCost: 4,
			PromptHistory:    5,
			Version:          "flow",
		},
		Server:  testServerConfig,
		Adapter: config.Adapter{Engine: config.Engine{Timeout: 5 * time.Second}},
	}

	storages := &store.Storages{
		AccountRepository: store.NewMemoryAccountRepository(),
		SessionStore:      store.NewMemorySessionStore(time.Hour),
	}
	f := &flowFixture{
		blobs:  mock.NewMockBlobStore(ctrl),
		engine: mock.NewMockAdviceEngine(ctrl),
	}
	adapters := &adapter.Adapters{BlobStore: f.blobs, AdviceEngine: f.engine}

	svcs, err := service.NewServices(storages, adapters, cfg, models.NewAppBuildInfo("flow", "", ""), logger.Nop())
	require.NoError(t, err)

	f.server = httptest.NewServer(NewHandler(svcs, cfg.Server, "", logger.Nop()).Init())
	t.Cleanup(f.server.Close)

	return f
}

func (f *flowFixture) do(t *testing.T, method, path, token, contentType string, body *bytes.Buffer) *http.Response {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, f.server.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (f *flowFixture) postJSON(t *testing.T, path, token string, payload any) *http.Response {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return f.do(t, http.MethodPost, path, token, "application/json", bytes.NewBuffer(b))
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestFlow_SignupLoginUploadAnalyze(t *testing.T) {
	f := newFlowFixture(t)

	resp := f.postJSON(t, "/api/auth/signup", "", models.SignupRequest{Username: "ana", Email: "Ana@X.com", Password: "p4ss"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	signup := decodeBody[models.SignupResponse](t, resp)
	assert.Equal(t, "ana@x.com", signup.Email)

	resp = f.postJSON(t, "/api/auth/signup", "", models.SignupRequest{Username: "other", Email: "ana@x.com", Password: "p4ss"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already exists", decodeBody[models.ErrorResponse](t, resp).Error)

	resp = f.postJSON(t, "/api/auth/login", "", models.LoginRequest{Email: "ana@x.com", Password: "wrong"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", decodeBody[models.ErrorResponse](t, resp).Error)

	resp = f.postJSON(t, "/api/auth/login", "", models.LoginRequest{Email: "ana@x.com", Password: "p4ss"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeBody[models.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, signup.AccountID, login.AccountID)
	token := login.Token

	var stored atomic.Int32
	f.blobs.EXPECT().Store(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ []byte, mimeType string) (string, error) {
			return fmt.Sprintf("https://cdn.example.com/%d", stored.Add(1)), nil
		}).Times(3)

	body, contentType := multipartBody(t,
		imagePart("face.png", pngMagic),
		imagePart("tongue.jpg", jpegMagic),
		imagePart("hands.png", pngMagic),
	)
	resp = f.do(t, http.MethodPost, "/api/analysis/upload", token, contentType, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, decodeBody[models.UploadResponse](t, resp).ImageCount)

	f.engine.EXPECT().Infer(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string, images []models.Artifact) (string, error) {
			assert.Len(t, images, 3)
			assert.True(t, strings.HasSuffix(prompt, "User question: What is my dosha?"))
			return "Your dosha looks Vata dominant.", nil
		})

	resp = f.postJSON(t, "/api/analysis/analyze", token, models.AnalyzeRequest{Question: "What is my dosha?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	answer := decodeBody[models.AnalyzeResponse](t, resp)
	assert.Equal(t, "Your dosha looks Vata dominant.", answer.AnswerText)
	assert.Equal(t, 3, answer.AnalyzedImages)

	f.engine.EXPECT().Infer(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string, _ []models.Artifact) (string, error) {
			assert.Contains(t, prompt, "Advisor: Your dosha looks Vata dominant.")
			return "Favor warm cooked food.", nil
		})

	resp = f.postJSON(t, "/api/analysis/analyze", token, models.AnalyzeRequest{Question: "What should I eat?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/analysis/session", token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decodeBody[models.Session](t, resp)
	assert.Len(t, session.Artifacts, 3)
	require.Len(t, session.Exchanges, 2)
	assert.Equal(t, "What should I eat?", session.Exchanges[1].Question)

	resp = f.do(t, http.MethodPost, "/api/analysis/clear-session", token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/analysis/session", token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session = decodeBody[models.Session](t, resp)
	assert.Empty(t, session.Artifacts)
	assert.Empty(t, session.Exchanges)
}

func TestFlow_EngineFailureKeepsHistory(t *testing.T) {
	f := newFlowFixture(t)

	require.Equal(t, http.StatusCreated, f.postJSON(t, "/api/auth/signup", "", models.SignupRequest{Username: "bo", Email: "bo@x.com", Password: "pw"}).StatusCode)
	resp := f.postJSON(t, "/api/auth/login", "", models.LoginRequest{Email: "bo@x.com", Password: "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := decodeBody[models.LoginResponse](t, resp).Token

	f.engine.EXPECT().Infer(gomock.Any(), gomock.Any(), gomock.Len(0)).
		Return("", fmt.Errorf("%w: quota", adapter.ErrEngineUnavailable))

	resp = f.postJSON(t, "/api/analysis/analyze", token, models.AnalyzeRequest{Question: "Any tips?"})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Advice engine is unavailable, please retry", decodeBody[models.ErrorResponse](t, resp).Error)

	resp = f.do(t, http.MethodGet, "/api/analysis/session", token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[models.Session](t, resp).Exchanges)
}

func TestFlow_ConversationsAreIsolatedPerAccount(t *testing.T) {
	f := newFlowFixture(t)

	tokens := make([]string, 0, 2)
	for _, name := range []string{"alpha", "beta"} {
		email := name + "@x.com"
		require.Equal(t, http.StatusCreated, f.postJSON(t, "/api/auth/signup", "", models.SignupRequest{Username: name, Email: email, Password: "pw"}).StatusCode)
		resp := f.postJSON(t, "/api/auth/login", "", models.LoginRequest{Email: email, Password: "pw"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		tokens = append(tokens, decodeBody[models.LoginResponse](t, resp).Token)
	}

	f.engine.EXPECT().Infer(gomock.Any(), gomock.Any(), gomock.Any()).Return("answer for a", nil)
	require.Equal(t, http.StatusOK, f.postJSON(t, "/api/analysis/analyze", tokens[0], models.AnalyzeRequest{Question: "q"}).StatusCode)

	resp := f.do(t, http.MethodGet, "/api/analysis/session", tokens[1], "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[models.Session](t, resp).Exchanges)
}

func TestFlow_RejectsBadTokens(t *testing.T) {
	f := newFlowFixture(t)

	resp := f.do(t, http.MethodGet, "/api/analysis/session", "not-a-jwt", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication failed", decodeBody[models.ErrorResponse](t, resp).Error)

	resp = f.do(t, http.MethodGet, "/api/analysis/session", "", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication required", decodeBody[models.ErrorResponse](t, resp).Error)
}
