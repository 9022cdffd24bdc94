package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tickerbot/internal/domain"
	"tickerbot/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubMarketData struct {
	quote      *domain.Quote
	book       *domain.OrderBook
	underlying *domain.Quote
	contracts  []domain.OptionContract
	orders     []domain.Order
	lastLimit  int
	err        error
}

func (m *stubMarketData) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	return m.quote, m.err
}

func (m *stubMarketData) GetCryptoQuote(ctx context.Context, base, counter string) (*domain.Quote, error) {
	return m.quote, m.err
}

func (m *stubMarketData) GetCryptoOrderBook(ctx context.Context, symbol string) (*domain.OrderBook, error) {
	return m.book, m.err
}

func (m *stubMarketData) GetOptionsChain(ctx context.Context, ticker string, optType domain.OptionType, isoExpiry string) (*domain.Quote, []domain.OptionContract, error) {
	return m.underlying, m.contracts, m.err
}

func (m *stubMarketData) ListOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	m.lastLimit = limit
	return m.orders, m.err
}

func newTestHandler(market *stubMarketData) *Handler {
	tracer := trace.NewNoopTracerProvider().Tracer("handler-test")
	return New(tracer, service.NewMarketService(tracer, market, nil, nil))
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)

	router := gin.New()
	h.RegisterRoutes(router)
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := serve(newTestHandler(&stubMarketData{}), "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetQuoteSuccess(t *testing.T) {
	price := 450.10
	h := newTestHandler(&stubMarketData{
		quote: &domain.Quote{Symbol: "SPY", Price: &price},
	})

	w := serve(h, "/api/quote/spy")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var quote domain.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if quote.Symbol != "SPY" {
		t.Fatalf("expected SPY quote, got %s", quote.Symbol)
	}
	if quote.Price == nil || *quote.Price != 450.10 {
		t.Fatalf("unexpected price: %+v", quote.Price)
	}
}

func TestGetQuoteUpstreamFailure(t *testing.T) {
	h := newTestHandler(&stubMarketData{
		err: &domain.UpstreamError{Status: 503, Body: "maintenance"},
	})

	w := serve(h, "/api/quote/SPY")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "maintenance") {
		t.Fatalf("expected upstream body in error response, got %s", w.Body.String())
	}
}

func TestGetCryptoQuotePairWithoutCounter(t *testing.T) {
	bid := 67000.5
	h := newTestHandler(&stubMarketData{
		quote: &domain.Quote{Symbol: "BTC-USD", Bid: &bid},
	})

	w := serve(h, "/api/crypto/btc")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetDepthChartReturnsChart(t *testing.T) {
	mid := 100.15
	h := newTestHandler(&stubMarketData{
		book: &domain.OrderBook{
			Symbol: "BTC-USD",
			Bids:   []domain.OrderBookLevel{{Price: 100.1, Size: 3}},
			Asks:   []domain.OrderBookLevel{{Price: 100.2, Size: 2}},
			Mid:    &mid,
		},
	})

	w := serve(h, "/api/depth/BTC-USD")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Symbol string `json:"symbol"`
		Chart  string `json:"chart"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Symbol != "BTC-USD" {
		t.Fatalf("expected BTC-USD, got %s", resp.Symbol)
	}
	if !strings.Contains(resp.Chart, "█") {
		t.Fatalf("expected bars in chart, got %q", resp.Chart)
	}
}

func TestGetOptionsSliceValidatesInput(t *testing.T) {
	h := newTestHandler(&stubMarketData{})

	w := serve(h, "/api/options/SPY?type=straddle&expiry=1/17/25")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad option type, got %d", w.Code)
	}

	w = serve(h, "/api/options/SPY?type=call&expiry=2025-01-17")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad expiry, got %d", w.Code)
	}
}

func TestGetOptionsSliceSuccess(t *testing.T) {
	underlying := 112.0
	bid := 1.5
	h := newTestHandler(&stubMarketData{
		underlying: &domain.Quote{Symbol: "SPY", Price: &underlying},
		contracts: []domain.OptionContract{
			{Strike: 110, Bid: &bid},
			{Strike: 115},
		},
	})

	w := serve(h, "/api/options/spy?type=call&expiry=1/17/25")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Ticker string `json:"ticker"`
		Table  string `json:"table"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Ticker != "SPY" {
		t.Fatalf("expected SPY, got %s", resp.Ticker)
	}
	if !strings.Contains(resp.Table, "110.00") {
		t.Fatalf("expected strike 110.00 in table, got %q", resp.Table)
	}
}

func TestGetOrdersDefaultLimit(t *testing.T) {
	market := &stubMarketData{
		orders: []domain.Order{{ID: "mock-1", Side: domain.SideBuy, Symbol: "BTC-USD"}},
	}
	h := newTestHandler(market)

	w := serve(h, "/api/orders")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if market.lastLimit != 10 {
		t.Fatalf("expected default limit 10, got %d", market.lastLimit)
	}

	var resp struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Orders) != 1 || resp.Orders[0].ID != "mock-1" {
		t.Fatalf("unexpected response payload: %+v", resp)
	}
}

func TestGetOrdersRejectsBadLimit(t *testing.T) {
	h := newTestHandler(&stubMarketData{})

	for _, raw := range []string{"0", "-1", "51", "abc"} {
		w := serve(h, "/api/orders?limit="+raw)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("limit %q: expected 400, got %d", raw, w.Code)
		}
	}
}
