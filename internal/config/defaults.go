package config

import "time"

const (
	defaultTokenIssuer      = "go-kaya"
	defaultTokenDuration    = 15 * 24 * time.Hour
	defaultPasswordHashCost = 10
	defaultPromptHistory    = 5
	defaultVersion          = "dev"
	defaultLogLevel         = "debug"

	defaultHTTPAddress    = "0.0.0.0:5000"
	defaultRequestTimeout = 90 * time.Second
	defaultMaxUploadSize  = 5 << 20

	defaultSessionIdleTTL   = 24 * time.Hour
	defaultEvictionInterval = 10 * time.Minute

	defaultBlobRegion    = "us-east-1"
	defaultEngineModel   = "gemini-1.5-flash"
	defaultEngineTimeout = 60 * time.Second
)

var defaultAllowedOrigins = []string{"http://localhost:5173"}

// defaultConfig returns the lowest-priority source. Secrets have no default.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:      defaultTokenIssuer,
			TokenDuration:    defaultTokenDuration,
			PasswordHashCost: defaultPasswordHashCost,
			PromptHistory:    defaultPromptHistory,
			Version:          defaultVersion,
			LogLevel:         defaultLogLevel,
		},
		Storage: Storage{
			Sessions: Sessions{
				IdleTTL: defaultSessionIdleTTL,
			},
		},
		Server: Server{
			HTTPAddress:    defaultHTTPAddress,
			RequestTimeout: defaultRequestTimeout,
			AllowedOrigins: append([]string(nil), defaultAllowedOrigins...),
			MaxUploadSize:  defaultMaxUploadSize,
		},
		Adapter: Adapter{
			Blob: Blob{
				Region: defaultBlobRegion,
			},
			Engine: Engine{
				Model:   defaultEngineModel,
				Timeout: defaultEngineTimeout,
			},
		},
		Workers: Workers{
			EvictionInterval: defaultEvictionInterval,
		},
	}
}
