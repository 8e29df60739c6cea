package service

import "errors"

var (
	ErrInvalidDataProvided   = errors.New("invalid data provided")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrTokenCreationFailed = errors.New("token creation failed")
	ErrTokenIsExpired      = errors.New("token is expired")
	ErrTokenIsInvalid      = errors.New("token is invalid")

	// ErrInvalidCredentials is returned by Login for an unknown email and for
	// a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated covers a missing or malformed Authorization header
	// and a token whose account no longer exists.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrMissingQuestion      = errors.New("question is required")
	ErrQuestionTooLong      = errors.New("question is too long")
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrEmptyImage           = errors.New("empty image")
	ErrNoSessionKey         = errors.New("no session key")
)
