// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-kaya/internal/app"
	"github.com/MKhiriev/go-kaya/internal/service"
	"github.com/MKhiriev/go-kaya/internal/store"
	"github.com/MKhiriev/go-kaya/internal/utils"
	"github.com/MKhiriev/go-kaya/models"
)

const (
	uploadFieldName = "images"

	// multipartMemory is how much of a multipart body is kept in memory
	// before spilling to temporary files.
	multipartMemory = 8 << 20
)

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key, ok := utils.GetSessionKeyFromContext(ctx)
	if !ok {
		writeError(w, r, service.ErrNoSessionKey)
		return
	}

	// room for three images plus multipart framing
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize*models.ArtifactsPerAnalysis+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, fmt.Errorf("%w: %w", ErrImageTooLarge, err))
			return
		}
		writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidMultipart, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File[uploadFieldName]
	if len(files) != models.ArtifactsPerAnalysis {
		writeError(w, r, fmt.Errorf("%w: got %d images", store.ErrInvalidArtifactCount, len(files)))
		return
	}

	uploads := make([]models.Upload, 0, len(files))
	for _, fh := range files {
		upload, err := h.readUpload(fh)
		if err != nil {
			writeError(w, r, err)
			return
		}
		uploads = append(uploads, upload)
	}

	session, err := h.services.ConversationService.Upload(ctx, key, uploads)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, models.UploadResponse{ImageCount: len(session.Artifacts)}, http.StatusOK)
}

// readUpload loads one part into memory. The content type is sniffed from
// the bytes and falls back to the declared part header only when sniffing
// does not recognize an image format.
func (h *Handler) readUpload(fh *multipart.FileHeader) (models.Upload, error) {
	if fh.Size > h.cfg.MaxUploadSize {
		return models.Upload{}, fmt.Errorf("%w: %s is %d bytes", ErrImageTooLarge, fh.Filename, fh.Size)
	}

	f, err := fh.Open()
	if err != nil {
		return models.Upload{}, fmt.Errorf("%w: %w", ErrInvalidMultipart, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.cfg.MaxUploadSize+1))
	if err != nil {
		return models.Upload{}, fmt.Errorf("%w: %w", ErrInvalidMultipart, err)
	}
	if int64(len(data)) > h.cfg.MaxUploadSize {
		return models.Upload{}, fmt.Errorf("%w: %s", ErrImageTooLarge, fh.Filename)
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = fh.Header.Get("Content-Type")
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}

	return models.Upload{
		Filename: fh.Filename,
		MimeType: strings.TrimSpace(mimeType),
		Data:     data,
	}, nil
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key, ok := utils.GetSessionKeyFromContext(ctx)
	if !ok {
		writeError(w, r, service.ErrNoSessionKey)
		return
	}

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	resp, err := h.services.ConversationService.Ask(ctx, key, req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, resp, http.StatusOK)
}

func (h *Handler) clearSession(w http.ResponseWriter, r *http.Request) {
	key, ok := utils.GetSessionKeyFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrNoSessionKey)
		return
	}

	if err := h.services.ConversationService.Reset(r.Context(), key); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, models.MessageResponse{Message: app.MsgSessionCleared}, http.StatusOK)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	key, ok := utils.GetSessionKeyFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrNoSessionKey)
		return
	}

	session, err := h.services.ConversationService.Session(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, session, http.StatusOK)
}
