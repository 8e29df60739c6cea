package service

import (
	"context"
	"strings"
	"testing"

	"github.com/MKhiriev/go-kaya/internal/mock"
	"github.com/MKhiriev/go-kaya/internal/store"
	"github.com/MKhiriev/go-kaya/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newValidatedConversation(t *testing.T) (ConversationService, *mock.MockConversationService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	inner := mock.NewMockConversationService(ctrl)
	return NewConversationValidationService().Wrap(inner), inner
}

func TestConversationValidation_Upload(t *testing.T) {
	tests := []struct {
		name    string
		key     models.SessionKey
		uploads func() []models.Upload
		wantErr error
	}{
		{name: "no key", key: "", uploads: threeUploads, wantErr: ErrNoSessionKey},
		{name: "two images", key: testKey, uploads: func() []models.Upload { return threeUploads()[:2] }, wantErr: store.ErrInvalidArtifactCount},
		{name: "four images", key: testKey, uploads: func() []models.Upload { return append(threeUploads(), threeUploads()[0]) }, wantErr: store.ErrInvalidArtifactCount},
		{
			name: "empty image",
			key:  testKey,
			uploads: func() []models.Upload {
				u := threeUploads()
				u[1].Data = nil
				return u
			},
			wantErr: ErrEmptyImage,
		},
		{
			name: "not an image",
			key:  testKey,
			uploads: func() []models.Upload {
				u := threeUploads()
				u[2].MimeType = "application/pdf"
				return u
			},
			wantErr: ErrUnsupportedImageType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newValidatedConversation(t)

			_, err := svc.Upload(context.Background(), tt.key, tt.uploads())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConversationValidation_UploadPassesThrough(t *testing.T) {
	svc, inner := newValidatedConversation(t)
	uploads := threeUploads()
	uploads[0].MimeType = "IMAGE/JPEG"

	inner.EXPECT().Upload(gomock.Any(), testKey, uploads).Return(models.Session{Key: testKey}, nil)

	session, err := svc.Upload(context.Background(), testKey, uploads)
	require.NoError(t, err)
	assert.Equal(t, testKey, session.Key)
}

func TestConversationValidation_Question(t *testing.T) {
	tests := []struct {
		name     string
		key      models.SessionKey
		question string
		wantErr  error
	}{
		{name: "no key", key: "", question: "q", wantErr: ErrNoSessionKey},
		{name: "empty", key: testKey, question: "", wantErr: ErrMissingQuestion},
		{name: "blank", key: testKey, question: " \n\t", wantErr: ErrMissingQuestion},
		{name: "too long", key: testKey, question: strings.Repeat("я", MaxQuestionLength+1), wantErr: ErrQuestionTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newValidatedConversation(t)

			_, err := svc.Ask(context.Background(), tt.key, tt.question)
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = svc.PrepareRequest(context.Background(), tt.key, tt.question)
			assert.ErrorIs(t, err, tt.wantErr)

			_, err = svc.RecordAnswer(context.Background(), tt.key, tt.question, "a")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConversationValidation_PassThrough(t *testing.T) {
	svc, inner := newValidatedConversation(t)
	ctx := context.Background()
	longest := strings.Repeat("я", MaxQuestionLength)

	inner.EXPECT().Ask(ctx, testKey, longest).Return(models.AnalyzeResponse{AnswerText: "a"}, nil)
	inner.EXPECT().PrepareRequest(ctx, testKey, "q").Return(models.AdviceRequest{Prompt: "p"}, nil)
	inner.EXPECT().RecordAnswer(ctx, testKey, "q", "a").Return(models.Session{}, nil)
	inner.EXPECT().Reset(ctx, testKey).Return(nil)
	inner.EXPECT().Session(ctx, testKey).Return(models.Session{Key: testKey}, nil)

	resp, err := svc.Ask(ctx, testKey, longest)
	require.NoError(t, err)
	assert.Equal(t, "a", resp.AnswerText)

	req, err := svc.PrepareRequest(ctx, testKey, "q")
	require.NoError(t, err)
	assert.Equal(t, "p", req.Prompt)

	_, err = svc.RecordAnswer(ctx, testKey, "q", "a")
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, testKey))

	_, err = svc.Session(ctx, testKey)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Reset(ctx, ""), ErrNoSessionKey)
	_, err = svc.Session(ctx, "")
	assert.ErrorIs(t, err, ErrNoSessionKey)
}
