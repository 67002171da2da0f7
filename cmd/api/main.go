package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"videostudio/internal/domain"
	"videostudio/internal/history"
	"videostudio/internal/http/handlers"
	httpapi "videostudio/internal/http/httpapi"
	"videostudio/internal/infra"
	"videostudio/internal/infra/credentials"
	"videostudio/internal/infra/geoip"
	"videostudio/internal/middleware"
	"videostudio/internal/videogen"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	// Postgres backs both history and the credential fallback.
	var runner *infra.SQLRunner
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		closers = append(closers, pool.Close)
		runner = infra.NewSQLRunner(pool, logger)
	}

	apiKey, customerID := cfg.VideoAPIKey, cfg.VideoAPICustomerID
	if apiKey == "" && runner != nil {
		cred, err := credentials.NewStore(runner).VideoCredential(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to load video credential from database")
		}
		apiKey = cred.Token
		if customerID == "" {
			customerID = cred.CustomerID
		}
	}
	if apiKey == "" {
		logger.Warn().Msg("no video API key configured, generation requests will fail")
	}

	store, err := newHistoryStore(ctx, cfg, runner, logger, &closers)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.HistoryBackend).Msg("failed to initialise history store")
	}
	if sw, ok := store.(history.Sweeper); ok && cfg.HistoryTTL > 0 {
		go history.RunSweeper(ctx, sw, cfg.HistoryTTL, 0, logger)
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		closers = append(closers, func() { _ = resolver.Close() })
		lookup = resolver.CountryCode
	}

	rules := domain.PromptRules{MinLength: cfg.PromptMinLength, MaxLength: cfg.PromptMaxLength}
	client := videogen.NewClient(videogen.Options{
		Endpoint:   cfg.VideoAPIURL,
		APIKey:     apiKey,
		CustomerID: customerID,
		Model:      cfg.VideoModel,
		Timeout:    cfg.VideoAPITimeout,
	})
	svc := videogen.NewService(videogen.ServiceOptions{
		Completer: client,
		Rules:     rules,
		Strict:    cfg.VideoURLStrict,
		Model:     client.Model(),
		Logger:    logger.With().Str("component", "videogen").Logger(),
	})

	app := handlers.NewApp(svc, store, rules, logger)
	app.HistoryLimit = cfg.HistoryLimit

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:            logger,
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		RateLimitPerMin:   cfg.RateLimitPerMin,
		CountryLookup:     lookup,
		SessionTTL:        cfg.HistoryTTL,
		SecureCookies:     cfg.AppEnv == "production",
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})

	server := infra.NewHTTPServer(cfg, router)
	logger.Info().Str("addr", server.Addr()).Str("history", cfg.HistoryBackend).Str("model", client.Model()).Msg("API listening")

	// Run until SIGINT/SIGTERM, then drain.
	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	if err := server.Run(sigCtx); err != nil {
		logger.Error().Err(err).Msg("http server failed")
	}
	stopBackground()
	logger.Info().Msg("server stopped")
}

func newHistoryStore(ctx context.Context, cfg *infra.Config, runner *infra.SQLRunner, logger zerolog.Logger, closers *[]func()) (history.Store, error) {
	switch cfg.HistoryBackend {
	case infra.HistoryBackendPostgres:
		store := history.NewPostgres(runner, cfg.HistoryLimit)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case infra.HistoryBackendRedis:
		client, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func() { _ = client.Close() })
		return history.NewRedis(client, cfg.HistoryLimit, cfg.HistoryTTL), nil
	case infra.HistoryBackendSQLite:
		db, err := infra.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func() { _ = db.Close() })
		store := history.NewSQLite(db, cfg.HistoryLimit, logger)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return history.NewMemory(cfg.HistoryLimit, cfg.HistoryTTL), nil
	}
}
