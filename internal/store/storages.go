package store

import (
	"context"
	"errors"
	"io"

	"github.com/MKhiriev/go-kaya/internal/config"
	"github.com/MKhiriev/go-kaya/internal/logger"
)

// Storages bundles the credential store and the session store selected by
// configuration.
type Storages struct {
	AccountRepository AccountRepository
	SessionStore      SessionStore

	closers []io.Closer
}

// NewStorages builds the storages described by cfg:
//   - an empty DSN keeps accounts in memory, otherwise PostgreSQL or SQLite;
//   - an empty Redis URL keeps sessions in memory, otherwise Redis.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	s := &Storages{}

	if cfg.DB.DSN == "" {
		log.Warn().Msg("no database DSN configured, accounts are kept in memory")
		s.AccountRepository = NewMemoryAccountRepository()
	} else {
		db, err := NewConnectDB(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db)
		s.AccountRepository = NewAccountRepository(db, log)
	}

	if cfg.Sessions.RedisURL == "" {
		s.SessionStore = NewMemorySessionStore(cfg.Sessions.IdleTTL)
	} else {
		client, err := NewRedis(ctx, cfg.Sessions.RedisURL)
		if err != nil {
			log.Err(err).Str("func", "NewStorages").Msg("error connecting redis")
			return nil, errors.Join(err, s.Close())
		}
		s.closers = append(s.closers, client)
		s.SessionStore = NewRedisSessionStore(client, cfg.Sessions.IdleTTL, log)
	}

	return s, nil
}

// Close releases database and Redis connections.
func (s *Storages) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	s.closers = nil
	return errors.Join(errs...)
}
