package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MKhiriev/go-kaya/internal/adapter"
	"github.com/MKhiriev/go-kaya/internal/config"
	"github.com/MKhiriev/go-kaya/internal/handler"
	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/server"
	"github.com/MKhiriev/go-kaya/internal/service"
	"github.com/MKhiriev/go-kaya/internal/store"
	"github.com/MKhiriev/go-kaya/internal/workers"
	"github.com/MKhiriev/go-kaya/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("kaya-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	logger.SetLevel(cfg.App.LogLevel)

	log.Debug().
		Str("http_address", cfg.Server.HTTPAddress).
		Bool("database", cfg.Storage.DB.DSN != "").
		Bool("redis", cfg.Storage.Sessions.RedisURL != "").
		Str("blob_bucket", cfg.Adapter.Blob.Bucket).
		Str("blob_dir", cfg.Storage.Files.BlobDir).
		Str("engine_model", cfg.Adapter.Engine.Model).
		Msg("received configs")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	adapters, err := adapter.NewAdapters(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating adapters")
	}

	services, err := service.NewServices(storages, adapters, *cfg, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	blobDir := ""
	if adapters.LocalBlobs != nil {
		blobDir = adapters.LocalBlobs.Dir()
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, blobDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	var wg sync.WaitGroup
	wg.Go(func() {
		workers.NewWorkers(storages, *cfg, log).Run(ctx)
	})

	if err := srv.RunServer(ctx); err != nil {
		log.Err(err).Msg("error running server")
		stop()
	}

	wg.Wait()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
