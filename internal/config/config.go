// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-kaya server. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, an optional
// JSON/YAML file and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token, password hashing, prompt and versioning settings.
	App App `envPrefix:"APP_"`

	// Storage holds the credential database, the session store and the
	// local blob directory.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the HTTP listener settings.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the external collaborators: blob store and advice engine.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds background worker settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// FilePath is the optional path to a JSON or YAML configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	FilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control security,
// token lifecycle, prompt assembly and versioning.
type App struct {
	// TokenSignKey is the process-wide secret used to sign and verify
	// bearer tokens. Must be kept confidential.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the token lifetime. Defaults to 15 days.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// PasswordHashCost is the bcrypt cost factor.
	// Env: APP_PASSWORD_HASH_COST
	PasswordHashCost int `env:"PASSWORD_HASH_COST"`

	// PromptHistory is the number of most recent exchanges included in the
	// prompt of a follow-up question.
	// Env: APP_PROMPT_HISTORY
	PromptHistory int `env:"PROMPT_HISTORY"`

	// Version is exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel is the minimum zerolog level ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	DB       DB       `envPrefix:"DB_"`
	Sessions Sessions `envPrefix:"SESSIONS_"`
	Files    Files    `envPrefix:"FILES_"`
}

// DB holds connection settings for the credential store.
type DB struct {
	// DSN selects the backend: a postgres:// URL for PostgreSQL, a file: URL
	// or a *.db path for SQLite, or empty for the in-memory store.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Sessions holds session store settings.
type Sessions struct {
	// RedisURL switches the session store to Redis when non-empty
	// (e.g. "redis://localhost:6379/0").
	// Env: STORAGE_SESSIONS_REDIS_URL
	RedisURL string `env:"REDIS_URL"`

	// IdleTTL is how long an untouched session survives. Defaults to 24h.
	// Env: STORAGE_SESSIONS_IDLE_TTL
	IdleTTL time.Duration `env:"IDLE_TTL"`
}

// Files holds settings of the local-directory blob store.
type Files struct {
	// BlobDir is the directory uploaded images are written to. When set,
	// the server also serves that directory under /blobs/.
	// Env: STORAGE_FILES_BLOB_DIR
	BlobDir string `env:"BLOB_DIR"`

	// PublicBaseURL is the externally reachable prefix of /blobs/
	// (e.g. "https://api.example.com/blobs").
	// Env: STORAGE_FILES_PUBLIC_BASE_URL
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

// Server holds network and timeout settings for the HTTP listener.
type Server struct {
	// HTTPAddress is the TCP address in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// AllowedOrigins is the CORS allow-list.
	// Env: SERVER_ALLOWED_ORIGINS (comma separated)
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// MaxUploadSize is the per-image size limit in bytes.
	// Env: SERVER_MAX_UPLOAD_SIZE
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE"`
}

// Adapter holds configuration of external collaborators.
type Adapter struct {
	Blob   Blob   `envPrefix:"BLOB_"`
	Engine Engine `envPrefix:"ENGINE_"`
}

// Blob holds S3-compatible object storage settings. The S3 blob store is
// used whenever Bucket is set.
type Blob struct {
	Bucket        string `env:"BUCKET"`
	Region        string `env:"REGION"`
	Endpoint      string `env:"ENDPOINT"`
	AccessKey     string `env:"ACCESS_KEY"`
	SecretKey     string `env:"SECRET_KEY"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

// Engine holds advice engine settings.
type Engine struct {
	// APIKey is the Gemini API credential.
	// Env: ADAPTER_ENGINE_API_KEY
	APIKey string `env:"API_KEY"`

	// Model is the generative model name.
	// Env: ADAPTER_ENGINE_MODEL
	Model string `env:"MODEL"`

	// Timeout bounds one inference call, image download included.
	// Env: ADAPTER_ENGINE_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// EvictionInterval is how often idle sessions are swept.
	// Env: WORKERS_EVICTION_INTERVAL
	EvictionInterval time.Duration `env:"EVICTION_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the server configuration.
// For every field the first source that sets it wins, in this order:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON or YAML file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withFile().
		withDefaults().
		build()
}
