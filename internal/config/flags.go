package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses all configuration flags from args.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d credential store DSN
//	-c/-config json or yaml file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token lifetime (e.g. "360h")
//	-request-timeout request timeout (e.g. "30s", "1m")
//	-allowed-origins comma separated CORS origins
//	-redis-url session store redis URL
//	-session-idle-ttl idle session lifetime
//	-blob-dir local blob directory
//	-blob-bucket S3 bucket
//	-engine-api-key advice engine API key
//	-engine-model advice engine model
//	-engine-timeout advice engine call timeout
//	-log-level minimum log level
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("kaya-server", flag.ContinueOnError)

	var serverAddress NetAddress
	var databaseDSN, jsonConfigPath string
	var tokenSignKey, tokenIssuer string
	var tokenDuration, requestTimeout, idleTTL, engineTimeout time.Duration
	var allowedOrigins, redisURL, blobDir, blobBucket string
	var engineAPIKey, engineModel, logLevel string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Credential store DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "Config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "Config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token lifetime (e.g., 360h)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&allowedOrigins, "allowed-origins", "", "Comma separated CORS origins")
	fs.StringVar(&redisURL, "redis-url", "", "Session store redis URL")
	fs.DurationVar(&idleTTL, "session-idle-ttl", 0, "Idle session lifetime (e.g., 24h)")
	fs.StringVar(&blobDir, "blob-dir", "", "Local blob directory")
	fs.StringVar(&blobBucket, "blob-bucket", "", "S3 bucket for uploaded images")
	fs.StringVar(&engineAPIKey, "engine-api-key", "", "Advice engine API key")
	fs.StringVar(&engineModel, "engine-model", "", "Advice engine model")
	fs.DurationVar(&engineTimeout, "engine-timeout", 0, "Advice engine call timeout")
	fs.StringVar(&logLevel, "log-level", "", "Minimum log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			LogLevel:      logLevel,
		},
		Storage: Storage{
			DB:       DB{DSN: databaseDSN},
			Sessions: Sessions{RedisURL: redisURL, IdleTTL: idleTTL},
			Files:    Files{BlobDir: blobDir},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			AllowedOrigins: splitList(allowedOrigins),
		},
		Adapter: Adapter{
			Blob: Blob{Bucket: blobBucket},
			Engine: Engine{
				APIKey:  engineAPIKey,
				Model:   engineModel,
				Timeout: engineTimeout,
			},
		},
		FilePath: jsonConfigPath,
	}, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host means all interfaces; any other host must be "localhost" or
// a valid IP address.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
