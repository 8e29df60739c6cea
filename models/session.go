// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strconv"
	"strings"
	"time"
)

// ArtifactsPerAnalysis is the exact number of images one upload must carry.
const ArtifactsPerAnalysis = 3

// SessionKey identifies one conversation. It is always derived from the
// authenticated account, optionally narrowed by a client-supplied
// conversation id, so a conversation id alone never resolves to another
// account's state.
type SessionKey string

// NewSessionKey builds the canonical key for accountID. An empty
// conversationID selects the account's default conversation.
func NewSessionKey(accountID int64, conversationID string) SessionKey {
	var b strings.Builder
	b.WriteString("acct:")
	b.WriteString(strconv.FormatInt(accountID, 10))

	if conversationID = strings.TrimSpace(conversationID); conversationID != "" {
		b.WriteString("/conv:")
		b.WriteString(conversationID)
	}

	return SessionKey(b.String())
}

// String implements [fmt.Stringer].
func (k SessionKey) String() string {
	return string(k)
}

// Artifact is a reference to an uploaded image held by the blob store.
type Artifact struct {
	// URL is the public retrieval URL returned by the blob store.
	URL string `json:"url"`

	// MimeType is the content type the image was uploaded with.
	MimeType string `json:"mimeType"`
}

// Exchange is one completed question/answer pair. Immutable once appended.
type Exchange struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is a point-in-time snapshot of conversation state.
//
// Stores hand out copies: mutating a Session value never changes stored state.
type Session struct {
	Key SessionKey `json:"-"`

	// Artifacts holds either no references or exactly [ArtifactsPerAnalysis].
	Artifacts []Artifact `json:"artifacts"`

	// Exchanges is the append-only conversation history, oldest first.
	Exchanges []Exchange `json:"exchanges"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasImages reports whether the session holds a complete artifact set.
func (s Session) HasImages() bool {
	return len(s.Artifacts) == ArtifactsPerAnalysis
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	out := s
	if s.Artifacts != nil {
		out.Artifacts = append([]Artifact(nil), s.Artifacts...)
	}
	if s.Exchanges != nil {
		out.Exchanges = append([]Exchange(nil), s.Exchanges...)
	}
	return out
}

// RecentExchanges returns at most n of the latest exchanges, oldest first.
func (s Session) RecentExchanges(n int) []Exchange {
	if n <= 0 || len(s.Exchanges) == 0 {
		return nil
	}
	if len(s.Exchanges) <= n {
		return s.Exchanges
	}
	return s.Exchanges[len(s.Exchanges)-n:]
}

// Upload is one image received from the client, before it reaches the blob store.
type Upload struct {
	Filename string
	MimeType string
	Data     []byte
}

// AdviceRequest is the exact input handed to the advice engine.
type AdviceRequest struct {
	Prompt string
	Images []Artifact
}
