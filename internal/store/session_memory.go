// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-kaya/models"
)

// memorySessionStore is the in-process [SessionStore].
//
// The map is guarded by mu and only ever held briefly to find or insert an
// entry. Each entry carries its own mutex, so operations on one key are
// serialized while different keys proceed independently. Lock order is
// entry before map; no path takes an entry lock while holding mu.
type memorySessionStore struct {
	mu      sync.RWMutex
	entries map[models.SessionKey]*sessionEntry
	idleTTL time.Duration
	now     func() time.Time
}

type sessionEntry struct {
	mu      sync.Mutex
	session models.Session
	// removed is set once the entry left the map; holders of a stale
	// pointer must look the key up again.
	removed bool
}

// NewMemorySessionStore returns an empty store. Sessions untouched for
// idleTTL are treated as gone even before a sweep removes them; a zero
// idleTTL keeps sessions until evicted explicitly.
func NewMemorySessionStore(idleTTL time.Duration) SessionStore {
	return &memorySessionStore{
		entries: make(map[models.SessionKey]*sessionEntry),
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// withEntry runs fn with the entry of key locked, creating the entry if
// needed, and returns a snapshot of the session afterwards.
func (m *memorySessionStore) withEntry(ctx context.Context, key models.SessionKey, fn func(s *models.Session) error) (models.Session, error) {
	for {
		if err := ctx.Err(); err != nil {
			return models.Session{}, err
		}

		entry := m.lookupOrInsert(key)

		entry.mu.Lock()
		if entry.removed {
			entry.mu.Unlock()
			continue
		}

		now := m.now()
		if m.expired(entry, now) {
			entry.session = newSession(key, now)
		}

		// fn works on a copy so a failed mutation leaves the entry untouched
		next := entry.session.Clone()
		if err := fn(&next); err != nil {
			entry.mu.Unlock()
			return models.Session{}, err
		}
		entry.session = next

		out := entry.session.Clone()
		entry.mu.Unlock()
		return out, nil
	}
}

func (m *memorySessionStore) lookupOrInsert(key models.SessionKey) *sessionEntry {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if ok {
		return entry
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok = m.entries[key]; ok {
		return entry
	}

	entry = &sessionEntry{session: newSession(key, m.now())}
	m.entries[key] = entry
	return entry
}

func (m *memorySessionStore) expired(entry *sessionEntry, now time.Time) bool {
	return m.idleTTL > 0 && now.Sub(entry.session.UpdatedAt) >= m.idleTTL
}

func newSession(key models.SessionKey, now time.Time) models.Session {
	return models.Session{
		Key:       key,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (m *memorySessionStore) GetOrCreate(ctx context.Context, key models.SessionKey) (models.Session, error) {
	return m.withEntry(ctx, key, func(s *models.Session) error {
		s.UpdatedAt = m.now()
		return nil
	})
}

func (m *memorySessionStore) SetArtifacts(ctx context.Context, key models.SessionKey, artifacts []models.Artifact) (models.Session, error) {
	if len(artifacts) != models.ArtifactsPerAnalysis {
		return models.Session{}, ErrInvalidArtifactCount
	}

	replacement := append([]models.Artifact(nil), artifacts...)
	return m.withEntry(ctx, key, func(s *models.Session) error {
		s.Artifacts = replacement
		s.UpdatedAt = m.now()
		return nil
	})
}

func (m *memorySessionStore) AppendExchange(ctx context.Context, key models.SessionKey, exchange models.Exchange) (models.Session, error) {
	return m.withEntry(ctx, key, func(s *models.Session) error {
		s.Exchanges = append(s.Exchanges, exchange)
		s.UpdatedAt = m.now()
		return nil
	})
}

func (m *memorySessionStore) Evict(ctx context.Context, key models.SessionKey) error {
	m.mu.Lock()
	entry, ok := m.entries[key]
	delete(m.entries, key)
	m.mu.Unlock()

	if ok {
		entry.mu.Lock()
		entry.removed = true
		entry.mu.Unlock()
	}

	return nil
}

func (m *memorySessionStore) EvictIdle(ctx context.Context, idleFor time.Duration) (int, error) {
	m.mu.RLock()
	candidates := make(map[models.SessionKey]*sessionEntry, len(m.entries))
	for key, entry := range m.entries {
		candidates[key] = entry
	}
	m.mu.RUnlock()

	evicted := 0
	now := m.now()
	for key, entry := range candidates {
		if err := ctx.Err(); err != nil {
			return evicted, err
		}

		entry.mu.Lock()
		if !entry.removed && now.Sub(entry.session.UpdatedAt) >= idleFor {
			m.mu.Lock()
			if m.entries[key] == entry {
				delete(m.entries, key)
			}
			m.mu.Unlock()

			entry.removed = true
			evicted++
		}
		entry.mu.Unlock()
	}

	return evicted, nil
}
