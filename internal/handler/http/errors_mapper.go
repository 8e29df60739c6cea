package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-kaya/internal/adapter"
	"github.com/MKhiriev/go-kaya/internal/app"
	"github.com/MKhiriev/go-kaya/internal/service"
	"github.com/MKhiriev/go-kaya/internal/store"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// errorMappings is checked in order; more specific errors come first.
var errorMappings = []errorMapping{
	{ErrInvalidJSON, http.StatusBadRequest, app.MsgInvalidJSON},
	{ErrInvalidMultipart, http.StatusBadRequest, app.MsgInvalidMultipart},
	{ErrImageTooLarge, http.StatusBadRequest, app.MsgImageTooLarge},
	{ErrInvalidConversationID, http.StatusBadRequest, app.MsgInvalidConversationID},

	{service.ErrInvalidDataProvided, http.StatusBadRequest, app.MsgAllFieldsRequired},
	{service.ErrInvalidCredentials, http.StatusBadRequest, app.MsgInvalidCredentials},
	{service.ErrMissingQuestion, http.StatusBadRequest, app.MsgQuestionRequired},
	{service.ErrQuestionTooLong, http.StatusBadRequest, app.MsgQuestionTooLong},
	{service.ErrUnsupportedImageType, http.StatusBadRequest, app.MsgOnlyImagesAllowed},
	{service.ErrEmptyImage, http.StatusBadRequest, app.MsgImageIsEmpty},

	{service.ErrTokenIsExpired, http.StatusUnauthorized, app.MsgTokenIsExpired},
	{service.ErrTokenIsInvalid, http.StatusUnauthorized, app.MsgAuthenticationFailed},
	{service.ErrUnauthenticated, http.StatusUnauthorized, app.MsgAuthenticationNeeded},
	{service.ErrNoSessionKey, http.StatusUnauthorized, app.MsgAuthenticationNeeded},

	{store.ErrInvalidArtifactCount, http.StatusBadRequest, app.MsgExactlyThreeImages},

	{adapter.ErrEngineUnavailable, http.StatusBadGateway, app.MsgAdviceEngineDown},
	{adapter.ErrBlobStoreUnavailable, http.StatusBadGateway, app.MsgImageStorageDown},
}

// responseFromError picks the status code and the client-facing message for
// err. Unknown errors become a generic 500.
func responseFromError(err error) (int, string) {
	if errors.Is(err, store.ErrDuplicateIdentity) {
		return http.StatusBadRequest, duplicateIdentityMessage(err)
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.message
		}
	}

	return http.StatusInternalServerError, app.MsgInternalServerError
}

func duplicateIdentityMessage(err error) string {
	emailTaken := errors.Is(err, store.ErrEmailAlreadyExists)
	usernameTaken := errors.Is(err, store.ErrUsernameAlreadyExists)

	switch {
	case emailTaken && usernameTaken:
		return app.MsgEmailAlreadyExists + ", " + app.MsgUsernameAlreadyTaken
	case emailTaken:
		return app.MsgEmailAlreadyExists
	case usernameTaken:
		return app.MsgUsernameAlreadyTaken
	default:
		return app.MsgAccountAlreadyExists
	}
}
