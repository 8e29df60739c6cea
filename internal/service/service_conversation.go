// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-kaya/internal/adapter"
	"github.com/MKhiriev/go-kaya/internal/config"
	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/store"
	"github.com/MKhiriev/go-kaya/models"
	"golang.org/x/sync/errgroup"
)

// conversationService orchestrates the session store, the blob store and the
// advice engine. It holds no per-session state of its own; every read and
// write goes through the session store, and the engine is always called
// with no store operation in flight.
type conversationService struct {
	sessions store.SessionStore
	blobs    adapter.BlobStore
	engine   adapter.AdviceEngine

	buildPrompt   PromptBuilder
	historySize   int
	engineTimeout time.Duration
	now           func() time.Time

	logger *logger.Logger
}

func NewConversationService(
	sessions store.SessionStore,
	blobs adapter.BlobStore,
	engine adapter.AdviceEngine,
	cfg config.StructuredConfig,
	logger *logger.Logger,
) ConversationService {
	return &conversationService{
		sessions:      sessions,
		blobs:         blobs,
		engine:        engine,
		buildPrompt:   DefaultPromptBuilder,
		historySize:   cfg.App.PromptHistory,
		engineTimeout: cfg.Adapter.Engine.Timeout,
		now:           time.Now,
		logger:        logger,
	}
}

// Upload stores the images concurrently and only then swaps the session's
// artifact set. A blob failure leaves the session untouched; objects that
// were already written stay orphaned in the blob store.
func (c *conversationService) Upload(ctx context.Context, key models.SessionKey, uploads []models.Upload) (models.Session, error) {
	log := logger.FromContext(ctx)

	if len(uploads) != models.ArtifactsPerAnalysis {
		return models.Session{}, fmt.Errorf("%w: got %d images, want %d",
			store.ErrInvalidArtifactCount, len(uploads), models.ArtifactsPerAnalysis)
	}

	artifacts := make([]models.Artifact, len(uploads))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, upload := range uploads {
		eg.Go(func() error {
			url, err := c.blobs.Store(egCtx, upload.Data, upload.MimeType)
			if err != nil {
				return fmt.Errorf("image %d (%s): %w", i+1, upload.Filename, err)
			}
			artifacts[i] = models.Artifact{URL: url, MimeType: upload.MimeType}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		log.Err(err).Str("session", key.String()).Msg("storing uploaded images failed")
		if !errors.Is(err, adapter.ErrBlobStoreUnavailable) {
			err = fmt.Errorf("%w: %w", adapter.ErrBlobStoreUnavailable, err)
		}
		return models.Session{}, err
	}

	session, err := c.sessions.SetArtifacts(ctx, key, artifacts)
	if err != nil {
		log.Err(err).Str("session", key.String()).Msg("saving artifacts failed")
		return models.Session{}, fmt.Errorf("saving artifacts failed: %w", err)
	}

	log.Info().Str("session", key.String()).Int("images", len(session.Artifacts)).Msg("images uploaded")
	return session, nil
}

func (c *conversationService) PrepareRequest(ctx context.Context, key models.SessionKey, question string) (models.AdviceRequest, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return models.AdviceRequest{}, ErrMissingQuestion
	}

	session, err := c.sessions.GetOrCreate(ctx, key)
	if err != nil {
		return models.AdviceRequest{}, fmt.Errorf("loading session failed: %w", err)
	}

	var images []models.Artifact
	if session.HasImages() {
		images = append(images, session.Artifacts...)
	}

	prompt := c.buildPrompt(PromptInput{
		Question:   question,
		ImageCount: len(images),
		History:    session.RecentExchanges(c.historySize),
	})

	return models.AdviceRequest{Prompt: prompt, Images: images}, nil
}

func (c *conversationService) RecordAnswer(ctx context.Context, key models.SessionKey, question, answer string) (models.Session, error) {
	session, err := c.sessions.AppendExchange(ctx, key, models.Exchange{
		Question:  strings.TrimSpace(question),
		Answer:    answer,
		CreatedAt: c.now().UTC(),
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("recording answer failed: %w", err)
	}

	return session, nil
}

func (c *conversationService) Ask(ctx context.Context, key models.SessionKey, question string) (models.AnalyzeResponse, error) {
	log := logger.FromContext(ctx)

	req, err := c.PrepareRequest(ctx, key, question)
	if err != nil {
		return models.AnalyzeResponse{}, err
	}

	engineCtx := ctx
	if c.engineTimeout > 0 {
		var cancel context.CancelFunc
		engineCtx, cancel = context.WithTimeout(ctx, c.engineTimeout)
		defer cancel()
	}

	answer, err := c.engine.Infer(engineCtx, req.Prompt, req.Images)
	if err != nil {
		log.Err(err).Str("session", key.String()).Int("images", len(req.Images)).Msg("advice engine call failed")
		if !errors.Is(err, adapter.ErrEngineUnavailable) {
			err = fmt.Errorf("%w: %w", adapter.ErrEngineUnavailable, err)
		}
		return models.AnalyzeResponse{}, err
	}

	// the exchange is complete; keep it even if the client has gone away
	if _, err = c.RecordAnswer(context.WithoutCancel(ctx), key, question, answer); err != nil {
		log.Err(err).Str("session", key.String()).Msg("recording answer failed")
		return models.AnalyzeResponse{}, err
	}

	return models.AnalyzeResponse{AnswerText: answer, AnalyzedImages: len(req.Images)}, nil
}

func (c *conversationService) Reset(ctx context.Context, key models.SessionKey) error {
	if err := c.sessions.Evict(ctx, key); err != nil {
		return fmt.Errorf("clearing session failed: %w", err)
	}

	logger.FromContext(ctx).Info().Str("session", key.String()).Msg("session cleared")
	return nil
}

func (c *conversationService) Session(ctx context.Context, key models.SessionKey) (models.Session, error) {
	session, err := c.sessions.GetOrCreate(ctx, key)
	if err != nil {
		return models.Session{}, fmt.Errorf("loading session failed: %w", err)
	}

	return session, nil
}
