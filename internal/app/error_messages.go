// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// go-kaya HTTP handlers and middleware.
//
// All Msg* constants are client-facing strings written into JSON error
// bodies. The detailed cause of a failure goes to the log only.
package app

const (
	// MsgInvalidJSON is returned when a request body cannot be decoded.
	MsgInvalidJSON = "Invalid JSON was passed"

	// MsgInvalidMultipart is returned when an upload is not a multipart form
	// carrying the "images" field.
	MsgInvalidMultipart = "Images must be sent as multipart form field \"images\""

	// MsgImageTooLarge is returned when one image exceeds the upload limit.
	MsgImageTooLarge = "Image exceeds size limit"

	// MsgInvalidConversationID is returned for a malformed X-Conversation-ID.
	MsgInvalidConversationID = "Invalid conversation id"

	// MsgAllFieldsRequired is returned when signup or login data is missing
	// or malformed.
	MsgAllFieldsRequired = "All fields are required"

	// MsgInvalidCredentials covers both an unknown email and a wrong
	// password.
	MsgInvalidCredentials = "Invalid credentials"

	MsgEmailAlreadyExists   = "Email already exists"
	MsgUsernameAlreadyTaken = "Username already taken"
	MsgAccountAlreadyExists = "Account already exists"
	MsgQuestionRequired     = "Question is required"
	MsgQuestionTooLong      = "Question is too long"
	MsgOnlyImagesAllowed    = "Only image files are allowed"
	MsgImageIsEmpty         = "Image is empty"
	MsgExactlyThreeImages   = "Exactly 3 images are required"
	MsgAuthenticationNeeded = "Authentication required"
	MsgAuthenticationFailed = "Authentication failed"
	MsgNotFound             = "Not found"
	MsgMethodNotAllowed     = "Method not allowed"
	MsgSessionCleared       = "Session cleared"
	MsgInternalServerError  = "Internal server error"
	MsgAdviceEngineDown     = "Advice engine is unavailable, please retry"
	MsgImageStorageDown     = "Image storage is unavailable, please retry"

	// MsgTokenIsExpired is returned when a bearer token is well formed and
	// correctly signed but its expiry time has passed.
	MsgTokenIsExpired = "Session expired, please log in again"
)
