package http

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/MKhiriev/go-kaya/internal/service"
	"github.com/MKhiriev/go-kaya/internal/utils"
	"github.com/MKhiriev/go-kaya/models"
)

const conversationIDHeader = "X-Conversation-ID"

var conversationIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// withSessionKey derives the session key from the authenticated account and
// the optional X-Conversation-ID header. Must run after auth.
func (h *Handler) withSessionKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := utils.GetAccountIDFromContext(r.Context())
		if !ok {
			writeError(w, r, service.ErrUnauthenticated)
			return
		}

		conversationID := r.Header.Get(conversationIDHeader)
		if conversationID != "" && !conversationIDPattern.MatchString(conversationID) {
			writeError(w, r, fmt.Errorf("%w: %q", ErrInvalidConversationID, conversationID))
			return
		}

		key := models.NewSessionKey(accountID, conversationID)
		next.ServeHTTP(w, r.WithContext(utils.WithSessionKey(r.Context(), key)))
	})
}
