// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

const (
	minPasswordHashCost = 4
	maxPasswordHashCost = 31
)

// validate checks that the final merged [StructuredConfig] satisfies all
// startup invariants.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}
	if cfg.App.TokenDuration <= 0 {
		return fmt.Errorf("%w: token duration must be positive", ErrInvalidAppConfigs)
	}
	if cfg.App.PasswordHashCost < minPasswordHashCost || cfg.App.PasswordHashCost > maxPasswordHashCost {
		return fmt.Errorf("%w: password hash cost must be in [%d, %d]", ErrInvalidAppConfigs, minPasswordHashCost, maxPasswordHashCost)
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: http address is required", ErrInvalidServerConfigs)
	}
	if cfg.Server.MaxUploadSize <= 0 {
		return fmt.Errorf("%w: max upload size must be positive", ErrInvalidServerConfigs)
	}

	if cfg.Adapter.Blob.Bucket == "" && cfg.Storage.Files.BlobDir == "" {
		return fmt.Errorf("%w: either a blob bucket or a blob directory is required", ErrInvalidStorageConfigs)
	}
	if cfg.Storage.Sessions.IdleTTL <= 0 {
		return fmt.Errorf("%w: session idle ttl must be positive", ErrInvalidStorageConfigs)
	}

	if cfg.Adapter.Engine.APIKey == "" {
		return fmt.Errorf("%w: advice engine api key is required", ErrInvalidAdapterConfigs)
	}
	if cfg.Adapter.Engine.Timeout <= 0 {
		return fmt.Errorf("%w: advice engine timeout must be positive", ErrInvalidAdapterConfigs)
	}
	// the request deadline has to outlive the engine call so a 502 is never
	// followed by the router's 504
	if cfg.Server.RequestTimeout > 0 && cfg.Server.RequestTimeout <= cfg.Adapter.Engine.Timeout {
		return fmt.Errorf("%w: request timeout must exceed advice engine timeout", ErrInvalidServerConfigs)
	}

	if cfg.Workers.EvictionInterval <= 0 {
		return fmt.Errorf("%w: eviction interval must be positive", ErrInvalidWorkerConfigs)
	}

	return nil
}
