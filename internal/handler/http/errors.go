// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Request-level errors produced by handlers before the service layer is
// reached. Callers can match against them with [errors.Is].
var (
	// ErrInvalidJSON is returned when the request body is not the expected JSON.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrInvalidMultipart is returned when an upload is not a readable
	// multipart/form-data body.
	ErrInvalidMultipart = errors.New("invalid multipart form")

	// ErrImageTooLarge is returned when one image exceeds the upload limit.
	ErrImageTooLarge = errors.New("image exceeds size limit")

	// ErrInvalidConversationID is returned when X-Conversation-ID contains
	// characters outside [A-Za-z0-9_-] or is too long.
	ErrInvalidConversationID = errors.New("invalid conversation id")
)
