package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"car_monitor/internal/config"
	"car_monitor/internal/domain/service/listing"
	"car_monitor/internal/infrastructure/fetch"
	"car_monitor/internal/infrastructure/notifier"
	"car_monitor/internal/infrastructure/persistence"
	"car_monitor/internal/infrastructure/sources"
	"car_monitor/internal/transport/bot"
	"car_monitor/internal/worker"
	"car_monitor/pkg/application/connectors"
	"car_monitor/pkg/application/modules"
	"car_monitor/pkg/httpx"
	"car_monitor/pkg/logx"
)

func Run(ctx context.Context, log *slog.Logger) error {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	// 2. Database
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)

	defer pg.Close(ctx)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	rd := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := rd.Client(ctx)

	defer rd.Close(ctx)

	// 3. Repositories
	filterRepo := persistence.NewFilterRepository(db)
	foundRepo := persistence.NewFoundListingRepository(db)
	seenCache := persistence.NewSeenCache(redisClient, cfg.Redis.SeenTTL)

	// 4. Fetchers
	loggingRT := httpx.NewLoggingRoundTripper(
		http.DefaultTransport,
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLogFieldMaxLen(cfg.Fetch.LogBodyMaxLen),
	)

	httpFetcher := fetch.NewFetcher(fetch.NewHTTPTransport(cfg.Fetch.Timeout, loggingRT), cfg.Fetch.Delay)
	chromeFetcher := fetch.NewFetcher(fetch.NewChromeTransport(cfg.Fetch.Timeout), cfg.Fetch.Delay)

	retrier := fetch.Retrier{
		Attempts:    cfg.Fetch.Retries,
		BackoffBase: cfg.Fetch.BackoffBase,
	}

	registry := sources.NewRegistryFromConfig(cfg.Sources, httpFetcher, chromeFetcher, retrier)

	// 5. Notifier
	sink, err := notifier.NewTelegramBot(cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("notifier bot: %w", err)
	}

	// 6. Scanner
	scanner := worker.NewScanner(
		filterRepo,
		foundRepo,
		seenCache,
		sink,
		registry,
		listing.NewNormalizer(cfg.Monitor.ExchangeRate),
		cfg.Monitor,
	)

	// 7. Front bot
	front, err := bot.New(cfg, filterRepo, foundRepo, scanner)
	if err != nil {
		return fmt.Errorf("bot create: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.App.ProbeAddress,
	}.Run(gCtx, g)

	modules.MetricServer{
		ListenAddress: cfg.App.MetricsAddress,
	}.Run(gCtx, g)

	if err := scanner.Start(gCtx); err != nil {
		return fmt.Errorf("scanner start: %w", err)
	}

	defer scanner.Stop()

	g.Go(func() error {
		if err := front.Run(gCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("bot run: %w", err)
		}

		return nil
	})

	log.Info("application started", slog.String("app", cfg.App.Name), slog.String("version", cfg.App.Version))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("application stopping...")

	return nil
}
