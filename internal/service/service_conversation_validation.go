package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-kaya/internal/store"
	"github.com/MKhiriev/go-kaya/models"
)

// MaxQuestionLength is the longest accepted question, in runes.
const MaxQuestionLength = 2000

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
	"image/heic": {},
	"image/heif": {},
}

// ConversationValidationService rejects malformed input before it reaches
// the wrapped service, so invalid requests never touch the session store.
type ConversationValidationService struct {
	inner ConversationService
}

func NewConversationValidationService() ConversationServiceWrapper {
	return &ConversationValidationService{}
}

func (v *ConversationValidationService) Upload(ctx context.Context, key models.SessionKey, uploads []models.Upload) (models.Session, error) {
	if key == "" {
		return models.Session{}, ErrNoSessionKey
	}
	if len(uploads) != models.ArtifactsPerAnalysis {
		return models.Session{}, fmt.Errorf("%w: got %d images, want %d",
			store.ErrInvalidArtifactCount, len(uploads), models.ArtifactsPerAnalysis)
	}

	for i, upload := range uploads {
		if len(upload.Data) == 0 {
			return models.Session{}, fmt.Errorf("%w: image %d", ErrEmptyImage, i+1)
		}
		if _, ok := allowedImageTypes[strings.ToLower(upload.MimeType)]; !ok {
			return models.Session{}, fmt.Errorf("%w: image %d is %q", ErrUnsupportedImageType, i+1, upload.MimeType)
		}
	}

	return v.inner.Upload(ctx, key, uploads)
}

func (v *ConversationValidationService) PrepareRequest(ctx context.Context, key models.SessionKey, question string) (models.AdviceRequest, error) {
	if err := validateQuestion(key, question); err != nil {
		return models.AdviceRequest{}, err
	}

	return v.inner.PrepareRequest(ctx, key, question)
}

func (v *ConversationValidationService) RecordAnswer(ctx context.Context, key models.SessionKey, question, answer string) (models.Session, error) {
	if err := validateQuestion(key, question); err != nil {
		return models.Session{}, err
	}

	return v.inner.RecordAnswer(ctx, key, question, answer)
}

func (v *ConversationValidationService) Ask(ctx context.Context, key models.SessionKey, question string) (models.AnalyzeResponse, error) {
	if err := validateQuestion(key, question); err != nil {
		return models.AnalyzeResponse{}, err
	}

	return v.inner.Ask(ctx, key, question)
}

func (v *ConversationValidationService) Reset(ctx context.Context, key models.SessionKey) error {
	if key == "" {
		return ErrNoSessionKey
	}

	return v.inner.Reset(ctx, key)
}

func (v *ConversationValidationService) Session(ctx context.Context, key models.SessionKey) (models.Session, error) {
	if key == "" {
		return models.Session{}, ErrNoSessionKey
	}

	return v.inner.Session(ctx, key)
}

func (v *ConversationValidationService) Wrap(inner ConversationService) ConversationService {
	v.inner = inner
	return v
}

func validateQuestion(key models.SessionKey, question string) error {
	if key == "" {
		return ErrNoSessionKey
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return ErrMissingQuestion
	}
	if utf8.RuneCountInString(question) > MaxQuestionLength {
		return fmt.Errorf("%w: at most %d characters", ErrQuestionTooLong, MaxQuestionLength)
	}

	return nil
}
