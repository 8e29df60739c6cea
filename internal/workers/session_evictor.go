// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/store"
)

// SessionEvictor periodically drops sessions that have been idle for longer
// than the configured TTL.
type SessionEvictor struct {
	sessions store.SessionStore
	interval time.Duration
	idleFor  time.Duration
	logger   *logger.Logger
}

func NewSessionEvictor(sessions store.SessionStore, interval, idleFor time.Duration, logger *logger.Logger) *SessionEvictor {
	return &SessionEvictor{
		sessions: sessions,
		interval: interval,
		idleFor:  idleFor,
		logger:   logger,
	}
}

func (e *SessionEvictor) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.logger.Info().
		Dur("interval", e.interval).
		Dur("idle_for", e.idleFor).
		Msg("session evictor started")

	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("session evictor stopped")
			return
		case <-ticker.C:
			e.sweep(ctx)
		}
	}
}

func (e *SessionEvictor) sweep(ctx context.Context) {
	evicted, err := e.sessions.EvictIdle(ctx, e.idleFor)
	if err != nil {
		e.logger.Err(err).Msg("evicting idle sessions failed")
		return
	}
	if evicted > 0 {
		e.logger.Debug().Int("evicted", evicted).Msg("idle sessions evicted")
	}
}
