package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"tickerbot/internal/bot"
	"tickerbot/internal/cache"
	"tickerbot/internal/config"
	"tickerbot/internal/db"
	"tickerbot/internal/gateway"
	"tickerbot/internal/handler"
	"tickerbot/internal/repository"
	"tickerbot/internal/robinhood"
	"tickerbot/internal/service"
	"tickerbot/internal/signing"
	"tickerbot/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	signerFromConfigFunc   = signing.FromConfig
	newWatchlistRepoFunc   = repository.NewWatchlistRepository
	newMarketClientFunc    = robinhood.New
	newMarketServiceFunc   = service.NewMarketService
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Request signing is optional. Without credentials the client still
	// serves public quotes and mock orders.
	signer, err := signerFromConfigFunc(cfg)
	if err != nil {
		log.Printf("Warning: request signing disabled: %v", err)
		signer = nil
	}

	// Create the upstream client: one signed gateway for the trading API,
	// one unsigned for the public quote feed.
	tradingGateway := gateway.New(cfg.CryptoBaseURL, tracer)
	quoteGateway := gateway.New(cfg.QuoteAPIURL, tracer)
	marketClient := newMarketClientFunc(cfg, signer, tradingGateway, quoteGateway, tracer)

	// Create repository and run migrations
	var watchlist service.WatchlistRepository
	if db.Pool != nil {
		repo := newWatchlistRepoFunc(db.Pool, tracer)
		if err := repo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		watchlist = repo
	}

	var prefs service.PreferenceStore
	if cache.Client != nil {
		prefs = cache.NewPreferenceStore(cache.Client)
	}

	marketService := newMarketServiceFunc(tracer, marketClient, watchlist, prefs)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(marketService, marketService)

	// Create handlers and routes
	h := newHandlerFunc(tracer, marketService)

	r := newRouterFunc()
	r.Use(cors.Default())
	r.Use(otelgin.Middleware("tickerbot"))

	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
