package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-kaya/internal/config"
	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the background workers required by cfg.
func NewWorkers(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			NewSessionEvictor(storages.SessionStore, cfg.Workers.EvictionInterval, cfg.Storage.Sessions.IdleTTL, logger),
		},
	}
}

// Run starts every worker and blocks until all of them return.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Go(func() {
			worker.Run(ctx)
		})
	}
	wg.Wait()
}
