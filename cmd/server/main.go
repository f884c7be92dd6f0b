package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/breedadventure/migrations"
	"github.com/cbodonnell/breedadventure/pkg/api"
	"github.com/cbodonnell/breedadventure/pkg/challenges"
	"github.com/cbodonnell/breedadventure/pkg/config"
	"github.com/cbodonnell/breedadventure/pkg/game"
	"github.com/cbodonnell/breedadventure/pkg/game/types"
	"github.com/cbodonnell/breedadventure/pkg/images"
	"github.com/cbodonnell/breedadventure/pkg/log"
	"github.com/cbodonnell/breedadventure/pkg/messages"
	"github.com/cbodonnell/breedadventure/pkg/network"
	"github.com/cbodonnell/breedadventure/pkg/queue"
	"github.com/cbodonnell/breedadventure/pkg/repositories"
	"github.com/cbodonnell/breedadventure/pkg/resilience"
	"github.com/cbodonnell/breedadventure/pkg/telemetry"
	"github.com/cbodonnell/breedadventure/pkg/version"
	"github.com/cbodonnell/breedadventure/pkg/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	port := flag.Int("port", cfg.Port, "port to listen on")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level")
	databaseURL := flag.String("database-url", cfg.DatabaseURL, "sqlite://, postgresql://, gdata:// or memory:// url")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting breed adventure server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, "breedadventure", cfg.OTelEndpoint)
	if err != nil {
		panic(fmt.Sprintf("Failed to set up telemetry: %v", err))
	}

	repository, err := newRepository(ctx, *databaseURL)
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}

	var catalog *challenges.Catalog
	if cfg.CatalogPath != "" {
		catalog, err = challenges.LoadCatalog(cfg.CatalogPath, nil)
	} else {
		catalog, err = challenges.DefaultCatalog(nil)
	}
	if err != nil {
		panic(fmt.Sprintf("Failed to load catalog: %v", err))
	}

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load tuning: %v", err))
	}

	imageCache, err := images.NewCache(images.NewCacheOptions{
		Size:    cfg.ImageCacheSize,
		Fetcher: images.NewHTTPFetcher(cfg.ImageTimeout),
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create image cache: %v", err))
	}

	sink := resilience.NewLogSink(nil)

	saveResultWorker := workers.NewSaveResultWorker(workers.NewSaveResultWorkerOptions{
		Repository: repository,
		Sink:       sink,
		Timeout:    10 * time.Second,
	})
	go saveResultWorker.Start(ctx)

	clientManager := network.NewClientManager()
	clientMessageQueue := queue.NewInMemoryQueue[*messages.Message](10000)
	networkManager := network.NewNetworkManager(network.NewNetworkManagerOptions{
		ClientManager: clientManager,
		MessageQueue:  clientMessageQueue,
		WriteTimeout:  cfg.WriteTimeout,
	})

	broadcastWorker := workers.NewBroadcastMessageWorker(workers.NewBroadcastMessageWorkerOptions{
		Sender: networkManager,
	})
	go broadcastWorker.Start(ctx)

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		Template: game.NewSessionOptions{
			Generator: catalog,
			Images:    imageCache,
			Scores:    repository,
			History:   saveResultWorker,
			Sink:      sink,
			Tuning:    &tuning,
			Initializers: []game.Initializer{
				game.NewInitializer("catalog", func(ctx context.Context) error {
					ok, err := catalog.HasAvailable(ctx, types.PhaseBeginner, types.LabelSet{})
					if err != nil {
						return err
					}
					if !ok {
						return challenges.ErrInsufficientContent
					}
					return nil
				}),
			},
		},
		Broadcaster:        broadcastWorker,
		ClientMessageQueue: clientMessageQueue,
		GameLoopInterval:   cfg.GameLoopInterval,
		MaxSessions:        cfg.MaxSessions,
	})

	connectionEventWorker := workers.NewConnectionEventWorker(workers.NewConnectionEventWorkerOptions{
		ClientEventChan: clientManager.GetClientEventChan(),
		Snapshots:       gameManager,
		Sender:          networkManager,
	})
	go connectionEventWorker.Start(ctx)

	apiServerOpts := api.NewAPIServerOptions{
		Port:          *port,
		Games:         gameManager,
		History:       repository,
		Feed:          networkManager,
		AllowedOrigin: cfg.AllowedOrigin,
	}
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		apiServerOpts.TLS = &api.TLSConfig{
			CertFile: cfg.TLSCertFile,
			KeyFile:  cfg.TLSKeyFile,
		}
	}
	server := api.NewAPIServer(apiServerOpts)
	go server.Start()

	log.Info("Starting game manager")
	if err := gameManager.Start(ctx); err != nil && ctx.Err() == nil {
		log.Error("Game manager stopped: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop server: %v", err)
	}
	if err := repository.Close(shutdownCtx); err != nil {
		log.Error("Failed to close repository: %v", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Error("Failed to shut down telemetry: %v", err)
	}
}

func newRepository(ctx context.Context, databaseURL string) (repositories.Repository, error) {
	database, err := config.ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}
	switch database.Kind {
	case config.DatabaseSQLite:
		return repositories.NewSQLiteRepository(ctx, database.Location, migrations.SQLite)
	case config.DatabasePostgres:
		return repositories.NewPostgresRepository(ctx, database.Location, migrations.Postgres)
	case config.DatabaseGData:
		return repositories.NewGDataRepository(database.Location)
	default:
		return repositories.NewInMemoryRepository(), nil
	}
}
