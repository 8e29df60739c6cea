// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse is returned with 201 Created after a successful signup.
type SignupResponse struct {
	AccountID int64  `json:"accountId"`
	Email     string `json:"email"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string `json:"token"`
	AccountID int64  `json:"accountId"`
}

// UploadResponse reports how many images the session now references.
type UploadResponse struct {
	ImageCount int `json:"imageCount"`
}

// AnalyzeRequest is the body of POST /api/analysis/analyze.
type AnalyzeRequest struct {
	Question string `json:"question"`
}

// AnalyzeResponse carries the advice engine answer.
type AnalyzeResponse struct {
	AnswerText     string `json:"answerText"`
	AnalyzedImages int    `json:"analyzedImages"`
}

// ErrorResponse is the body of every non-2xx JSON response.
// Message is terse and never carries credentials or internal detail.
type ErrorResponse struct {
	Error string `json:"error"`
}

// VersionResponse is returned by GET /api/version.
type VersionResponse struct {
	Version     string `json:"version"`
	BuildDate   string `json:"buildDate"`
	BuildCommit string `json:"buildCommit"`
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
