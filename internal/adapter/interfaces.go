// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the external collaborators of the server: the
// blob store that keeps uploaded images and the advice engine that answers
// questions about them.
//
// Failures of either collaborator are reported as [ErrBlobStoreUnavailable]
// or [ErrEngineUnavailable] (wrapped), so callers can use [errors.Is] without
// knowing which backend is configured.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-kaya/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// BlobStore keeps uploaded images and hands out their public URL.
type BlobStore interface {
	// Store saves data under a fresh object name and returns the URL it can
	// be fetched from.
	Store(ctx context.Context, data []byte, mimeType string) (string, error)
}

// AdviceEngine turns a prompt and up to three images into answer text.
type AdviceEngine interface {
	Infer(ctx context.Context, prompt string, images []models.Artifact) (string, error)
}

// ImageFetcher loads the bytes behind an artifact reference.
type ImageFetcher interface {
	Fetch(ctx context.Context, artifact models.Artifact) ([]byte, error)
}
