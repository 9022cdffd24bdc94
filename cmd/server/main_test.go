package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"tickerbot/internal/bot"
	"tickerbot/internal/config"
	"tickerbot/internal/gateway"
	"tickerbot/internal/handler"
	"tickerbot/internal/repository"
	"tickerbot/internal/robinhood"
	"tickerbot/internal/service"
	"tickerbot/internal/signing"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tele "gopkg.in/telebot.v3"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitPostgres := initPostgresFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origSignerFromConfig := signerFromConfigFunc
	origNewWatchlistRepo := newWatchlistRepoFunc
	origNewMarketClient := newMarketClientFunc
	origNewMarketService := newMarketServiceFunc
	origStartTelegram := startTelegramBotFunc
	origNewHandler := newHandlerFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			RedisURL:      "",
			DatabaseURL:   "",
			HTTPPort:      8080,
			SigningMode:   config.SigningModeEd25519,
			MockOrders:    config.MockOrdersSynthetic,
			CryptoBaseURL: "https://trading.example.test",
			QuoteAPIURL:   "https://quotes.example.test",
		}
	}
	initPostgresFunc = func(context.Context) {}
	initRedisFunc = func(context.Context) {}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	signerFromConfigFunc = func(*config.Config) (signing.Signer, error) { return nil, nil }
	newWatchlistRepoFunc = func(repository.PgxPool, trace.Tracer) *repository.WatchlistRepository {
		return nil
	}
	newMarketClientFunc = func(*config.Config, signing.Signer, *gateway.Gateway, *gateway.Gateway, trace.Tracer) *robinhood.Client {
		return nil
	}
	newMarketServiceFunc = func(trace.Tracer, service.MarketData, service.WatchlistRepository, service.PreferenceStore) *service.MarketService {
		return nil
	}
	startTelegramBotFunc = func(bot.MarketQuerier, bot.WatchlistKeeper) *tele.Bot { return nil }
	newHandlerFunc = func(trace.Tracer, *service.MarketService) *handler.Handler {
		return handler.New(trace.NewNoopTracerProvider().Tracer("test"), nil)
	}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initPostgresFunc = origInitPostgres
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		signerFromConfigFunc = origSignerFromConfig
		newWatchlistRepoFunc = origNewWatchlistRepo
		newMarketClientFunc = origNewMarketClient
		newMarketServiceFunc = origNewMarketService
		startTelegramBotFunc = origStartTelegram
		newHandlerFunc = origNewHandler
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}
