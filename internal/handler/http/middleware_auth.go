package http

import (
	"net/http"

	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/utils"
	"github.com/rs/zerolog"
)

// auth is an HTTP middleware that admits only requests carrying a valid
// bearer token of an existing account.
//
// The header is resolved by [service.AuthService.Authenticate]. A missing or
// malformed header, an expired or invalid token and a token of a deleted
// account are all rejected with 401, each with its own message. On success
// the account is stored in the request context ([utils.WithAccount]) and the
// request logger gains an account_id field.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		account, err := h.services.AuthService.Authenticate(ctx, r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		l := logger.FromRequest(r).GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Int64("account_id", account.AccountID)
		})

		ctx = utils.WithAccount(l.WithContext(ctx), account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
