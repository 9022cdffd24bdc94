package robinhood

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tickerbot/internal/config"
	"tickerbot/internal/domain"
	"tickerbot/internal/gateway"
	"tickerbot/internal/signing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	pathTradingPairs = "/api/v1/crypto/trading/trading_pairs/"
	pathBestBidAsk   = "/api/v1/crypto/marketdata/best_bid_ask/"
	pathOrderBook    = "/api/v1/crypto/marketdata/order_book/"
	pathOrders       = "/api/v1/crypto/trading/orders/"

	pathQuotes       = "/v1/markets/quotes"
	pathOptionChains = "/v1/markets/options/chains"
)

// Client is the authenticated market-data/trading client. Each call is one
// request/response unit: fresh signature, no shared mutable state, no retry.
// Concurrent use is safe because the only shared piece is the read-only
// config.
type Client struct {
	cfg     *config.Config
	signer  signing.Signer
	trading *gateway.Gateway
	quotes  *gateway.Gateway
	tracer  trace.Tracer
	now     func() time.Time
}

// New wires the client. signer may be nil when only unsigned operations are
// needed; signed calls then fail with a ConfigError instead of panicking.
func New(cfg *config.Config, signer signing.Signer, trading, quotes *gateway.Gateway, tracer trace.Tracer) *Client {
	return &Client{
		cfg:     cfg,
		signer:  signer,
		trading: trading,
		quotes:  quotes,
		tracer:  tracer,
		now:     time.Now,
	}
}

// GetQuote fetches one symbol from the public (unsigned) quote feed.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	ctx, span := c.tracer.Start(ctx, "robinhood.get-quote")
	defer span.End()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	span.SetAttributes(attribute.String("symbol", symbol))

	path := pathQuotes + "?symbols=" + url.QueryEscape(symbol)
	resp, err := c.quotes.Do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}

	var decoded quotesResponse
	if err := decodeJSON(resp, &decoded); err != nil {
		return nil, err
	}
	rows := decoded.rows()
	if len(rows) == 0 {
		return nil, &domain.DataError{Reason: fmt.Sprintf("no quote result for %s", symbol)}
	}

	row := rows[0]
	return &domain.Quote{
		Symbol:        symbol,
		Price:         row.Last,
		Change:        row.Change,
		ChangePercent: row.ChangePercentage,
		Bid:           row.Bid,
		Ask:           row.Ask,
		High:          row.High,
		Low:           row.Low,
		ObservedAt:    millisToTime(row.TradeDate),
	}, nil
}

// GetCryptoQuote validates that the trading pair exists, then maps the best
// bid/ask row for it. high/low may be absent and stay nil.
func (c *Client) GetCryptoQuote(ctx context.Context, base, counter string) (*domain.Quote, error) {
	ctx, span := c.tracer.Start(ctx, "robinhood.get-crypto-quote")
	defer span.End()

	if counter == "" {
		counter = "USD"
	}
	pair := strings.ToUpper(strings.TrimSpace(base)) + "-" + strings.ToUpper(strings.TrimSpace(counter))
	span.SetAttributes(attribute.String("pair", pair))

	pairsResp, err := c.signedGet(ctx, pathTradingPairs+"?symbol="+url.QueryEscape(pair))
	if err != nil {
		return nil, err
	}
	var pairs tradingPairsResponse
	if err := decodeJSON(pairsResp, &pairs); err != nil {
		return nil, err
	}
	if len(pairs.Results) == 0 {
		return nil, &domain.ValidationError{Reason: fmt.Sprintf("trading pair %s not found", pair)}
	}

	quoteResp, err := c.signedGet(ctx, pathBestBidAsk+"?symbol="+url.QueryEscape(pair))
	if err != nil {
		return nil, err
	}
	var decoded bestBidAskResponse
	if err := decodeJSON(quoteResp, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Results) == 0 {
		return nil, &domain.DataError{Reason: fmt.Sprintf("no best bid/ask row for %s", pair)}
	}

	row := decoded.Results[0]
	return &domain.Quote{
		Symbol:        pair,
		Price:         parseDecimal(row.Price),
		Change:        parseDecimal(row.Change24h),
		ChangePercent: parseDecimal(row.ChangePercent24h),
		Bid:           parseDecimal(row.BidPrice),
		Ask:           parseDecimal(row.AskPrice),
		High:          parseDecimal(row.High24h),
		Low:           parseDecimal(row.Low24h),
		ObservedAt:    parseTimestamp(row.Timestamp),
	}, nil
}

// GetCryptoOrderBook returns the raw book for one pair. Levels keep exactly
// the order the upstream sent: bids descending, asks ascending. The depth
// renderer relies on that and does not re-sort.
func (c *Client) GetCryptoOrderBook(ctx context.Context, symbol string) (*domain.OrderBook, error) {
	ctx, span := c.tracer.Start(ctx, "robinhood.get-crypto-order-book")
	defer span.End()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	span.SetAttributes(attribute.String("symbol", symbol))

	resp, err := c.signedGet(ctx, pathOrderBook+"?symbol="+url.QueryEscape(symbol))
	if err != nil {
		return nil, err
	}
	var decoded orderBookResponse
	if err := decodeJSON(resp, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Results) == 0 {
		return nil, &domain.DataError{Reason: fmt.Sprintf("no order book for %s", symbol)}
	}

	row := decoded.Results[0]
	return &domain.OrderBook{
		Symbol: symbol,
		Bids:   mapLevels(row.Bids),
		Asks:   mapLevels(row.Asks),
		Mid:    parseDecimal(row.Mid),
	}, nil
}

// GetOptionsChain fetches the underlying quote plus the contract chain for
// one resolved ISO expiry, filtered to the requested type. Both calls hit the
// unsigned public feed.
func (c *Client) GetOptionsChain(ctx context.Context, ticker string, optType domain.OptionType, isoExpiry string) (*domain.Quote, []domain.OptionContract, error) {
	ctx, span := c.tracer.Start(ctx, "robinhood.get-options-chain")
	defer span.End()

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	span.SetAttributes(
		attribute.String("ticker", ticker),
		attribute.String("option_type", string(optType)),
		attribute.String("expiry", isoExpiry),
	)

	underlying, err := c.GetQuote(ctx, ticker)
	if err != nil {
		return nil, nil, err
	}

	path := fmt.Sprintf("%s?symbol=%s&expiration=%s", pathOptionChains, url.QueryEscape(ticker), url.QueryEscape(isoExpiry))
	resp, err := c.quotes.Do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, nil, err
	}
	var decoded optionChainResponse
	if err := decodeJSON(resp, &decoded); err != nil {
		return nil, nil, err
	}
	if len(decoded.Options.Option) == 0 {
		return nil, nil, &domain.DataError{Reason: fmt.Sprintf("no option chain for %s expiring %s", ticker, isoExpiry)}
	}

	contracts := make([]domain.OptionContract, 0, len(decoded.Options.Option))
	for _, row := range decoded.Options.Option {
		if !strings.EqualFold(row.OptionType, string(optType)) {
			continue
		}
		contract := domain.OptionContract{
			Strike:       row.Strike,
			Bid:          row.Bid,
			Ask:          row.Ask,
			Last:         row.Last,
			OpenInterest: row.OpenInterest,
			Volume:       row.Volume,
		}
		if row.Greeks != nil {
			contract.ImpliedVolatility = row.Greeks.MidIV
		}
		contracts = append(contracts, contract)
	}
	if len(contracts) == 0 {
		return nil, nil, &domain.DataError{Reason: fmt.Sprintf("no %s contracts for %s expiring %s", optType, ticker, isoExpiry)}
	}

	return underlying, contracts, nil
}

// ListOrders returns recent crypto orders. Off live trading, or with
// incomplete credentials, it applies the configured mock policy instead of
// calling upstream.
func (c *Client) ListOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	ctx, span := c.tracer.Start(ctx, "robinhood.list-orders")
	defer span.End()

	if limit <= 0 {
		limit = 10
	}
	span.SetAttributes(attribute.Int("limit", limit))

	if !c.cfg.LiveTrading || !c.cfg.HasCredentials() {
		if c.cfg.MockOrders == config.MockOrdersEmpty {
			return []domain.Order{}, nil
		}
		return syntheticOrders(c.now().UTC(), limit), nil
	}

	resp, err := c.signedGet(ctx, fmt.Sprintf("%s?limit=%d", pathOrders, limit))
	if err != nil {
		return nil, err
	}
	var decoded ordersResponse
	if err := decodeJSON(resp, &decoded); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(decoded.Results))
	for _, row := range decoded.Results {
		orders = append(orders, NormalizeOrderRow(row))
	}
	return orders, nil
}

// signedGet signs and executes one GET against the trading host. The body is
// always the empty string for GETs, and the signature is computed at call
// time so it lands inside the upstream freshness window.
func (c *Client) signedGet(ctx context.Context, path string) (*gateway.Response, error) {
	if c.signer == nil {
		return nil, &domain.ConfigError{Reason: "signing credentials are not configured"}
	}

	timestamp, signature, err := c.signer.Sign(http.MethodGet, path, "")
	if err != nil {
		return nil, err
	}
	headers := map[string]string{
		"x-api-key":   c.cfg.APIKey,
		"x-signature": signature,
		"x-timestamp": timestamp,
	}
	return c.trading.Do(ctx, http.MethodGet, path, headers, "")
}

func decodeJSON(resp *gateway.Response, out any) error {
	if !resp.IsJSON() {
		return &domain.DataError{Reason: fmt.Sprintf("expected JSON response, got %s: %.120s", resp.ContentType, resp.Body)}
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &domain.DataError{Reason: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func mapLevels(in []orderBookSide) []domain.OrderBookLevel {
	out := make([]domain.OrderBookLevel, 0, len(in))
	for _, side := range in {
		price := parseDecimal(side.Price)
		size := parseDecimal(side.Quantity)
		if price == nil || size == nil {
			continue
		}
		out = append(out, domain.OrderBookLevel{Price: *price, Size: *size})
	}
	return out
}
