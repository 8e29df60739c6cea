// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-kaya/internal/config"
	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/models"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

const defaultImageMime = "image/jpeg"

// contentGenerator is the subset of *genai.Models used by the engine.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiEngine struct {
	models  contentGenerator
	fetcher ImageFetcher
	model   string
	logger  *logger.Logger
}

// NewGeminiEngine creates an advice engine backed by the Gemini API.
// Images are downloaded through fetcher and sent inline with the prompt.
func NewGeminiEngine(ctx context.Context, cfg config.Engine, fetcher ImageFetcher, log *logger.Logger) (AdviceEngine, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGeminiEngine(client.Models, fetcher, cfg.Model, log), nil
}

func newGeminiEngine(models contentGenerator, fetcher ImageFetcher, model string, log *logger.Logger) *geminiEngine {
	return &geminiEngine{
		models:  models,
		fetcher: fetcher,
		model:   model,
		logger:  log,
	}
}

// Infer is bounded by the deadline on ctx, which covers both the image
// downloads and the model call.
func (g *geminiEngine) Infer(ctx context.Context, prompt string, images []models.Artifact) (string, error) {
	imageParts, err := g.imageParts(ctx, images)
	if err != nil {
		g.logger.Err(err).Str("func", "geminiEngine.Infer").Int("images", len(images)).Msg("fetching images failed")
		return "", fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	}

	parts := append([]*genai.Part{genai.NewPartFromText(prompt)}, imageParts...)
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.4),
	})
	if err != nil {
		g.logger.Err(err).Str("func", "geminiEngine.Infer").Str("model", g.model).Msg("generate content failed")
		return "", fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", fmt.Errorf("%w: %w", ErrEngineUnavailable, ErrEmptyAnswer)
	}

	g.logger.Debug().
		Str("model", g.model).
		Int("images", len(images)).
		Dur("took", time.Since(start)).
		Msg("advice generated")

	return answer, nil
}

// imageParts downloads every artifact concurrently, keeping upload order.
func (g *geminiEngine) imageParts(ctx context.Context, images []models.Artifact) ([]*genai.Part, error) {
	parts := make([]*genai.Part, len(images))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, artifact := range images {
		eg.Go(func() error {
			data, err := g.fetcher.Fetch(egCtx, artifact)
			if err != nil {
				return fmt.Errorf("image %d: %w", i+1, err)
			}

			mimeType := artifact.MimeType
			if mimeType == "" {
				mimeType = defaultImageMime
			}
			parts[i] = genai.NewPartFromBytes(data, mimeType)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return parts, nil
}
