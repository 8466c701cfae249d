package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tradelink-app/tradelink/internal/app"
	"github.com/tradelink-app/tradelink/internal/auth"
	"github.com/tradelink-app/tradelink/internal/catalog"
	"github.com/tradelink-app/tradelink/internal/clients"
	"github.com/tradelink-app/tradelink/internal/identity"
	"github.com/tradelink-app/tradelink/internal/media"
	"github.com/tradelink-app/tradelink/internal/platform/cache"
	"github.com/tradelink-app/tradelink/internal/platform/db"
	"github.com/tradelink-app/tradelink/internal/proforma"
	"github.com/tradelink-app/tradelink/internal/sales"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Error("ensure schema", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	mediaStore := media.NewStore(cfg.MediaDir)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	limiter := auth.NewLoginLimiter(redisClient, cfg.LoginMaxAttempts, cfg.LoginWindow)
	authmw := auth.NewMiddleware(tokens)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokens, limiter, mediaStore)
	authHandler := auth.NewHandler(logger, authService)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService, authmw)

	salesRepo := sales.NewRepository(pool)
	salesService := sales.NewService(salesRepo)
	salesHandler := sales.NewHandler(logger, salesService, authmw)

	clientsRepo := clients.NewRepository(pool)
	clientsService := clients.NewService(clientsRepo)
	clientsHandler := clients.NewHandler(logger, clientsService, authmw)

	proformaRepo := proforma.NewRepository(pool)
	proformaService := proforma.NewService(proformaRepo, clientsService, catalogService)
	proformaHandler := proforma.NewHandler(logger, proformaService, authmw)

	identityRepo := identity.NewRepository(pool)
	identityService := identity.NewService(identityRepo, mediaStore)
	identityHandler := identity.NewHandler(logger, identityService, authmw)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Pool:            pool,
		MediaDir:        mediaStore.Dir(),
		AuthHandler:     authHandler,
		CatalogHandler:  catalogHandler,
		SalesHandler:    salesHandler,
		ClientsHandler:  clientsHandler,
		ProformaHandler: proformaHandler,
		IdentityHandler: identityHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
