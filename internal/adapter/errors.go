package adapter

import "errors"

var (
	// ErrBlobStoreUnavailable wraps every failure to store an image.
	ErrBlobStoreUnavailable = errors.New("blob store unavailable")
	// ErrEngineUnavailable wraps every failure to obtain an answer,
	// timeouts included.
	ErrEngineUnavailable = errors.New("advice engine unavailable")

	// ErrEmptyAnswer is returned (wrapped in ErrEngineUnavailable) when the
	// engine answers with no text.
	ErrEmptyAnswer = errors.New("advice engine returned an empty answer")
	// ErrImageNotFound is returned when an artifact URL answers 404.
	ErrImageNotFound = errors.New("image not found")
	// ErrImageFetch is returned for any other non-2xx answer.
	ErrImageFetch = errors.New("image fetch failed")
)
