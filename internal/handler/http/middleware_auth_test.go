package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-kaya/internal/service"
	"github.com/MKhiriev/go-kaya/internal/store"
	"github.com/MKhiriev/go-kaya/internal/utils"
	"github.com/MKhiriev/go-kaya/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		err       error
		wantError string
	}{
		{
			name:      "missing header",
			header:    "",
			err:       fmt.Errorf("%w: authorization header is missing", service.ErrUnauthenticated),
			wantError: "Authentication required",
		},
		{
			name:      "expired token",
			header:    "Bearer expired",
			err:       service.ErrTokenIsExpired,
			wantError: "Session expired, please log in again",
		},
		{
			name:      "forged token",
			header:    "Bearer forged",
			err:       service.ErrTokenIsInvalid,
			wantError: "Authentication failed",
		},
		{
			name:      "account deleted",
			header:    "Bearer orphan",
			err:       fmt.Errorf("%w: %w", service.ErrUnauthenticated, store.ErrAccountNotFound),
			wantError: "Authentication required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newMockedHandler(t)
			m.auth.EXPECT().Authenticate(gomock.Any(), tt.header).Return(models.Account{}, tt.err)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { nextCalled = true })

			req := httptest.NewRequest(http.MethodGet, "/api/analysis/session", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.auth(next).ServeHTTP(rec, req)

			assert.False(t, nextCalled)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rec))
		})
	}
}

func TestAuthMiddleware_StoresAccount(t *testing.T) {
	h, m := newMockedHandler(t)
	account := models.Account{AccountID: 42, Username: "ana", Email: "ana@x.com"}
	m.auth.EXPECT().Authenticate(gomock.Any(), "Bearer good").Return(account, nil)

	var (
		gotAccount models.Account
		gotID      int64
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		gotAccount, ok = utils.GetAccountFromContext(r.Context())
		require.True(t, ok)
		gotID, ok = utils.GetAccountIDFromContext(r.Context())
		require.True(t, ok)
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/session", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, account, gotAccount)
	assert.Equal(t, int64(42), gotID)
}
