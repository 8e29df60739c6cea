package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of the configuration. The same struct is
// decoded from JSON and from YAML.
type fileConfig struct {
	App struct {
		TokenSignKey     string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer      string   `json:"token_issuer" yaml:"token_issuer"`
		TokenDuration    Duration `json:"token_duration" yaml:"token_duration"`
		PasswordHashCost int      `json:"password_hash_cost" yaml:"password_hash_cost"`
		PromptHistory    int      `json:"prompt_history" yaml:"prompt_history"`
		Version          string   `json:"version" yaml:"version"`
		LogLevel         string   `json:"log_level" yaml:"log_level"`
	} `json:"app" yaml:"app"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db" yaml:"db"`

		Sessions struct {
			RedisURL string   `json:"redis_url" yaml:"redis_url"`
			IdleTTL  Duration `json:"idle_ttl" yaml:"idle_ttl"`
		} `json:"sessions" yaml:"sessions"`

		Files struct {
			BlobDir       string `json:"blob_dir" yaml:"blob_dir"`
			PublicBaseURL string `json:"public_base_url" yaml:"public_base_url"`
		} `json:"files" yaml:"files"`
	} `json:"storage" yaml:"storage"`

	Server struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
		MaxUploadSize  int64    `json:"max_upload_size" yaml:"max_upload_size"`
	} `json:"server" yaml:"server"`

	Adapter struct {
		Blob struct {
			Bucket        string `json:"bucket" yaml:"bucket"`
			Region        string `json:"region" yaml:"region"`
			Endpoint      string `json:"endpoint" yaml:"endpoint"`
			AccessKey     string `json:"access_key" yaml:"access_key"`
			SecretKey     string `json:"secret_key" yaml:"secret_key"`
			PublicBaseURL string `json:"public_base_url" yaml:"public_base_url"`
		} `json:"blob" yaml:"blob"`

		Engine struct {
			APIKey  string   `json:"api_key" yaml:"api_key"`
			Model   string   `json:"model" yaml:"model"`
			Timeout Duration `json:"timeout" yaml:"timeout"`
		} `json:"engine" yaml:"engine"`
	} `json:"adapter" yaml:"adapter"`

	Workers struct {
		EvictionInterval Duration `json:"eviction_interval" yaml:"eviction_interval"`
	} `json:"workers" yaml:"workers"`
}

// parseFile reads a JSON or YAML file (chosen by extension; JSON otherwise).
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	return fc.toStructured(), nil
}

func (fc *fileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenSignKey:     fc.App.TokenSignKey,
			TokenIssuer:      fc.App.TokenIssuer,
			TokenDuration:    time.Duration(fc.App.TokenDuration),
			PasswordHashCost: fc.App.PasswordHashCost,
			PromptHistory:    fc.App.PromptHistory,
			Version:          fc.App.Version,
			LogLevel:         fc.App.LogLevel,
		},
		Storage: Storage{
			DB: DB{DSN: fc.Storage.DB.DSN},
			Sessions: Sessions{
				RedisURL: fc.Storage.Sessions.RedisURL,
				IdleTTL:  time.Duration(fc.Storage.Sessions.IdleTTL),
			},
			Files: Files{
				BlobDir:       fc.Storage.Files.BlobDir,
				PublicBaseURL: fc.Storage.Files.PublicBaseURL,
			},
		},
		Server: Server{
			HTTPAddress:    fc.Server.HTTPAddress,
			RequestTimeout: time.Duration(fc.Server.RequestTimeout),
			AllowedOrigins: fc.Server.AllowedOrigins,
			MaxUploadSize:  fc.Server.MaxUploadSize,
		},
		Adapter: Adapter{
			Blob: Blob{
				Bucket:        fc.Adapter.Blob.Bucket,
				Region:        fc.Adapter.Blob.Region,
				Endpoint:      fc.Adapter.Blob.Endpoint,
				AccessKey:     fc.Adapter.Blob.AccessKey,
				SecretKey:     fc.Adapter.Blob.SecretKey,
				PublicBaseURL: fc.Adapter.Blob.PublicBaseURL,
			},
			Engine: Engine{
				APIKey:  fc.Adapter.Engine.APIKey,
				Model:   fc.Adapter.Engine.Model,
				Timeout: time.Duration(fc.Adapter.Engine.Timeout),
			},
		},
		Workers: Workers{
			EvictionInterval: time.Duration(fc.Workers.EvictionInterval),
		},
	}
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "1h" or "30s" as well as from integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		return d.set(value)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var n int64
	if err := node.Decode(&n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}

	return d.set(node.Value)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) set(s string) error {
	tmp, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}
