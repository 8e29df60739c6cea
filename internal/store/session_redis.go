// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/models"
)

const (
	redisKeyPrefix   = "kaya:session:"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
	defaultRedisTTL  = 24 * time.Hour
	redisPingTimeout = 5 * time.Second
)

// redisSessionStore keeps sessions in Redis so several server processes
// share them. One session is three keys: a meta hash, an artifact list and
// an exchange list. Every operation is a single MULTI/EXEC transaction, which
// makes it atomic per key; idle eviction is Redis key expiry.
type redisSessionStore struct {
	client  redis.UniversalClient
	idleTTL time.Duration
	now     func() time.Time
	logger  *logger.Logger
}

// NewRedis parses url, connects and pings.
func NewRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

func NewRedisSessionStore(client redis.UniversalClient, idleTTL time.Duration, log *logger.Logger) SessionStore {
	if idleTTL <= 0 {
		idleTTL = defaultRedisTTL
	}

	log.Debug().Dur("idle_ttl", idleTTL).Msg("creating redis session store")
	return &redisSessionStore{
		client:  client,
		idleTTL: idleTTL,
		now:     time.Now,
		logger:  log,
	}
}

type sessionKeys struct {
	meta, artifacts, exchanges string
}

func redisKeys(key models.SessionKey) sessionKeys {
	base := redisKeyPrefix + key.String()
	return sessionKeys{
		meta:      base + ":meta",
		artifacts: base + ":artifacts",
		exchanges: base + ":exchanges",
	}
}

// sessionReads holds the queued read commands of a transaction.
type sessionReads struct {
	meta      *redis.MapStringStringCmd
	artifacts *redis.StringSliceCmd
	exchanges *redis.StringSliceCmd
}

// touch queues the bookkeeping every operation shares: creation time on
// first use, last activity, expiry of all three keys and the reads that
// produce the returned snapshot.
func (s *redisSessionStore) touch(ctx context.Context, pipe redis.Pipeliner, keys sessionKeys) sessionReads {
	now := strconv.FormatInt(s.now().UnixNano(), 10)

	pipe.HSetNX(ctx, keys.meta, fieldCreatedAt, now)
	pipe.HSet(ctx, keys.meta, fieldUpdatedAt, now)
	pipe.Expire(ctx, keys.meta, s.idleTTL)
	pipe.Expire(ctx, keys.artifacts, s.idleTTL)
	pipe.Expire(ctx, keys.exchanges, s.idleTTL)

	return sessionReads{
		meta:      pipe.HGetAll(ctx, keys.meta),
		artifacts: pipe.LRange(ctx, keys.artifacts, 0, -1),
		exchanges: pipe.LRange(ctx, keys.exchanges, 0, -1),
	}
}

func (s *redisSessionStore) exec(ctx context.Context, key models.SessionKey, queue func(pipe redis.Pipeliner, keys sessionKeys) error) (models.Session, error) {
	log := logger.FromContext(ctx)
	keys := redisKeys(key)

	var reads sessionReads
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if err := queue(pipe, keys); err != nil {
			return err
		}
		reads = s.touch(ctx, pipe, keys)
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*redisSessionStore.exec").Str("session_key", key.String()).Msg("redis transaction failed")
		return models.Session{}, fmt.Errorf("%w: %w", ErrSessionBackend, err)
	}

	return decodeSession(key, reads)
}

func decodeSession(key models.SessionKey, reads sessionReads) (models.Session, error) {
	session := models.Session{Key: key}

	meta := reads.meta.Val()
	createdAt, err := parseUnixNano(meta[fieldCreatedAt])
	if err != nil {
		return models.Session{}, err
	}
	updatedAt, err := parseUnixNano(meta[fieldUpdatedAt])
	if err != nil {
		return models.Session{}, err
	}
	session.CreatedAt, session.UpdatedAt = createdAt, updatedAt

	for _, raw := range reads.artifacts.Val() {
		var artifact models.Artifact
		if err := json.Unmarshal([]byte(raw), &artifact); err != nil {
			return models.Session{}, fmt.Errorf("%w: %w", ErrCorruptSession, err)
		}
		session.Artifacts = append(session.Artifacts, artifact)
	}

	for _, raw := range reads.exchanges.Val() {
		var exchange models.Exchange
		if err := json.Unmarshal([]byte(raw), &exchange); err != nil {
			return models.Session{}, fmt.Errorf("%w: %w", ErrCorruptSession, err)
		}
		session.Exchanges = append(session.Exchanges, exchange)
	}

	return session, nil
}

func parseUnixNano(v string) (time.Time, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrCorruptSession, err)
	}
	return time.Unix(0, n), nil
}

func (s *redisSessionStore) GetOrCreate(ctx context.Context, key models.SessionKey) (models.Session, error) {
	return s.exec(ctx, key, func(redis.Pipeliner, sessionKeys) error { return nil })
}

func (s *redisSessionStore) SetArtifacts(ctx context.Context, key models.SessionKey, artifacts []models.Artifact) (models.Session, error) {
	if len(artifacts) != models.ArtifactsPerAnalysis {
		return models.Session{}, ErrInvalidArtifactCount
	}

	encoded := make([]any, 0, len(artifacts))
	for _, artifact := range artifacts {
		raw, err := json.Marshal(artifact)
		if err != nil {
			return models.Session{}, err
		}
		encoded = append(encoded, raw)
	}

	return s.exec(ctx, key, func(pipe redis.Pipeliner, keys sessionKeys) error {
		pipe.Del(ctx, keys.artifacts)
		pipe.RPush(ctx, keys.artifacts, encoded...)
		return nil
	})
}

func (s *redisSessionStore) AppendExchange(ctx context.Context, key models.SessionKey, exchange models.Exchange) (models.Session, error) {
	raw, err := json.Marshal(exchange)
	if err != nil {
		return models.Session{}, err
	}

	return s.exec(ctx, key, func(pipe redis.Pipeliner, keys sessionKeys) error {
		pipe.RPush(ctx, keys.exchanges, raw)
		return nil
	})
}

func (s *redisSessionStore) Evict(ctx context.Context, key models.SessionKey) error {
	keys := redisKeys(key)
	if err := s.client.Del(ctx, keys.meta, keys.artifacts, keys.exchanges).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionBackend, err)
	}
	return nil
}

// EvictIdle implements [SessionStore]. Redis expires idle keys by itself, so
// there is nothing to sweep.
func (s *redisSessionStore) EvictIdle(context.Context, time.Duration) (int, error) {
	return 0, nil
}
