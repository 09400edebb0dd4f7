package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/kotrzina/meteoam/pkg/config"
	"github.com/kotrzina/meteoam/pkg/crawler"
	"github.com/kotrzina/meteoam/pkg/forecast"
	"github.com/kotrzina/meteoam/pkg/hook"
	"github.com/kotrzina/meteoam/pkg/meteoam"
	"github.com/kotrzina/meteoam/pkg/prometheus"
	"github.com/kotrzina/meteoam/pkg/store"
)

func main() {
	// for development purposes
	// we don't care about errors here
	_ = godotenv.Load(".env")
	conf := config.NewConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := createLogger(conf.Debug)
	mon := prometheus.New()

	storage := createStorage(ctx, conf, logger)
	registry := createRegistry(ctx, conf, logger)

	client := meteoam.NewClient(conf, mon, logger)
	service := forecast.New(client, storage, registry, conf.CacheTTL, mon, logger)
	crawl := crawler.New(conf, client, storage, registry, hook.New(conf.DiscordHookURL), mon, logger)

	StartServer(NewRouter(&HandlerRepository{
		forecast: service,
		crawler:  crawl,
		config:   conf,
		monitor:  mon,
		logger:   logger,
		ctx:      ctx,
	}), conf.Port, logger, cancel)

	crawl.Wait()
}

func createLogger(debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}

func createStorage(ctx context.Context, conf *config.Config, logger *logrus.Logger) store.Storage {
	if conf.RedisAddr == "" {
		logger.Info("Using in-memory forecast cache")
		return store.NewMemoryStore(conf.CacheTTL)
	}

	return store.NewRedisStore(ctx, conf)
}

func createRegistry(ctx context.Context, conf *config.Config, logger *logrus.Logger) store.Registry {
	if conf.DBString == "" {
		logger.Info("Using in-memory location registry")
		return store.NewMemoryRegistry()
	}

	registry, err := store.NewPostgresRegistry(ctx, conf.DBString)
	if err != nil {
		logger.Fatalf("could not create location registry: %v", err)
	}

	return registry
}
