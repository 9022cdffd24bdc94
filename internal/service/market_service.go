package service

import (
	"context"
	"fmt"
	"strings"

	"tickerbot/internal/domain"
	"tickerbot/internal/render"

	"go.opentelemetry.io/otel/trace"
)

const defaultCounterCurrency = "USD"

// MarketData is the slice of the upstream client this service consumes.
type MarketData interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
	GetCryptoQuote(ctx context.Context, base, counter string) (*domain.Quote, error)
	GetCryptoOrderBook(ctx context.Context, symbol string) (*domain.OrderBook, error)
	GetOptionsChain(ctx context.Context, ticker string, optType domain.OptionType, isoExpiry string) (*domain.Quote, []domain.OptionContract, error)
	ListOrders(ctx context.Context, limit int) ([]domain.Order, error)
}

type WatchlistRepository interface {
	AddSymbol(ctx context.Context, chatID int64, symbol string) (bool, error)
	RemoveSymbol(ctx context.Context, chatID int64, symbol string) (bool, error)
	ListSymbols(ctx context.Context, chatID int64) ([]string, error)
}

type PreferenceStore interface {
	CounterCurrency(ctx context.Context, chatID int64) (string, error)
	SetCounterCurrency(ctx context.Context, chatID int64, currency string) error
}

// MarketService sits between the chat/REST surfaces and the market-data
// client. It resolves per-chat preferences, runs the presentation
// algorithms, and otherwise passes client errors through untouched.
type MarketService struct {
	tracer    trace.Tracer
	market    MarketData
	watchlist WatchlistRepository
	prefs     PreferenceStore
}

func NewMarketService(tracer trace.Tracer, market MarketData, watchlist WatchlistRepository, prefs PreferenceStore) *MarketService {
	return &MarketService{
		tracer:    tracer,
		market:    market,
		watchlist: watchlist,
		prefs:     prefs,
	}
}

func (s *MarketService) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.quote")
	defer span.End()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, &domain.ValidationError{Reason: "symbol is required"}
	}
	return s.market.GetQuote(ctx, symbol)
}

// CryptoQuote resolves the counter currency from the chat's stored
// preference when the caller did not name one.
func (s *MarketService) CryptoQuote(ctx context.Context, chatID int64, base, counter string) (*domain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.crypto-quote")
	defer span.End()

	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		return nil, &domain.ValidationError{Reason: "base symbol is required"}
	}
	counter = strings.ToUpper(strings.TrimSpace(counter))
	if counter == "" {
		counter = s.counterFor(ctx, chatID)
	}
	return s.market.GetCryptoQuote(ctx, base, counter)
}

func (s *MarketService) DepthChart(ctx context.Context, symbol string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.depth-chart")
	defer span.End()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", &domain.ValidationError{Reason: "symbol is required"}
	}
	book, err := s.market.GetCryptoOrderBook(ctx, symbol)
	if err != nil {
		return "", err
	}
	return render.DepthChart(book, render.DefaultDepthWidth), nil
}

// OptionsSlice parses the chat-style expiry, fetches the chain and renders
// the strike window around the underlying price.
func (s *MarketService) OptionsSlice(ctx context.Context, ticker, optType, expiry string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.options-slice")
	defer span.End()

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "", &domain.ValidationError{Reason: "ticker is required"}
	}
	kind := domain.OptionType(strings.ToLower(strings.TrimSpace(optType)))
	if !kind.IsValid() {
		return "", &domain.ValidationError{Reason: fmt.Sprintf("option type must be call or put, got %q", optType)}
	}
	isoExpiry, err := render.ParseExpiry(expiry)
	if err != nil {
		return "", err
	}

	underlying, contracts, err := s.market.GetOptionsChain(ctx, ticker, kind, isoExpiry)
	if err != nil {
		return "", err
	}
	if underlying.Price == nil {
		return "", &domain.DataError{Reason: fmt.Sprintf("no underlying price for %s, cannot pick a strike window", ticker)}
	}

	slice := render.OptionsSlice(contracts, *underlying.Price)
	return render.OptionsTable(ticker, kind, isoExpiry, *underlying.Price, slice), nil
}

func (s *MarketService) Orders(ctx context.Context, limit int) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.orders")
	defer span.End()

	return s.market.ListOrders(ctx, limit)
}

func (s *MarketService) Watch(ctx context.Context, chatID int64, symbol string) (bool, error) {
	if s.watchlist == nil {
		return false, &domain.ConfigError{Reason: "watchlists are not configured"}
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return false, &domain.ValidationError{Reason: "symbol is required"}
	}
	return s.watchlist.AddSymbol(ctx, chatID, symbol)
}

func (s *MarketService) Unwatch(ctx context.Context, chatID int64, symbol string) (bool, error) {
	if s.watchlist == nil {
		return false, &domain.ConfigError{Reason: "watchlists are not configured"}
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return false, &domain.ValidationError{Reason: "symbol is required"}
	}
	return s.watchlist.RemoveSymbol(ctx, chatID, symbol)
}

func (s *MarketService) Watchlist(ctx context.Context, chatID int64) ([]string, error) {
	if s.watchlist == nil {
		return nil, &domain.ConfigError{Reason: "watchlists are not configured"}
	}
	return s.watchlist.ListSymbols(ctx, chatID)
}

func (s *MarketService) SetCounterCurrency(ctx context.Context, chatID int64, currency string) error {
	if s.prefs == nil {
		return &domain.ConfigError{Reason: "preferences are not configured"}
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) < 3 || len(currency) > 5 {
		return &domain.ValidationError{Reason: fmt.Sprintf("counter currency %q looks malformed", currency)}
	}
	return s.prefs.SetCounterCurrency(ctx, chatID, currency)
}

func (s *MarketService) counterFor(ctx context.Context, chatID int64) string {
	if s.prefs == nil || chatID == 0 {
		return defaultCounterCurrency
	}
	counter, err := s.prefs.CounterCurrency(ctx, chatID)
	if err != nil || counter == "" {
		return defaultCounterCurrency
	}
	return counter
}
