package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetQuote godoc
// @Summary      Get a stock quote
// @Description  Returns the normalized quote for one ticker symbol
// @Tags         quotes
// @Produce      json
// @Param        symbol  path  string  true  "Ticker symbol (e.g., SPY)"
// @Success      200  {object}  domain.Quote
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/quote/{symbol} [get]
func (h *Handler) GetQuote(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-quote")
	defer span.End()

	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	span.SetAttributes(attribute.String("symbol", symbol))

	quote, err := h.marketService.Quote(ctx, symbol)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// GetCryptoQuote godoc
// @Summary      Get a crypto pair quote
// @Description  Returns bid/ask and 24h stats for a trading pair
// @Tags         crypto
// @Produce      json
// @Param        pair  path  string  true  "Trading pair (e.g., BTC-USD or just BTC)"
// @Success      200  {object}  domain.Quote
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/crypto/{pair} [get]
func (h *Handler) GetCryptoQuote(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-crypto-quote")
	defer span.End()

	pair := strings.ToUpper(strings.TrimSpace(c.Param("pair")))
	span.SetAttributes(attribute.String("pair", pair))

	base, counter, _ := strings.Cut(pair, "-")
	quote, err := h.marketService.CryptoQuote(ctx, 0, base, counter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// GetDepthChart godoc
// @Summary      Get an order-book depth chart
// @Description  Returns a preformatted text depth chart for a crypto pair
// @Tags         crypto
// @Produce      json
// @Param        symbol  path  string  true  "Trading pair (e.g., BTC-USD)"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/depth/{symbol} [get]
func (h *Handler) GetDepthChart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-depth-chart")
	defer span.End()

	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	span.SetAttributes(attribute.String("symbol", symbol))

	chart, err := h.marketService.DepthChart(ctx, symbol)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "chart": chart})
}

// GetOptionsSlice godoc
// @Summary      Get an options chain slice
// @Description  Returns a strike window around the underlying price as a text table
// @Tags         options
// @Produce      json
// @Param        ticker  path   string  true  "Underlying ticker (e.g., SPY)"
// @Param        type    query  string  true  "Option type: call or put"
// @Param        expiry  query  string  true  "Expiration date as M/D/YY"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/options/{ticker} [get]
func (h *Handler) GetOptionsSlice(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-options-slice")
	defer span.End()

	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	optType := strings.TrimSpace(c.Query("type"))
	expiry := strings.TrimSpace(c.Query("expiry"))
	span.SetAttributes(
		attribute.String("ticker", ticker),
		attribute.String("option_type", optType),
	)

	table, err := h.marketService.OptionsSlice(ctx, ticker, optType, expiry)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": ticker, "table": table})
}

// GetOrders godoc
// @Summary      Get recent crypto orders
// @Description  Returns normalized order rows, newest first
// @Tags         orders
// @Produce      json
// @Param        limit  query  int  false  "Number of orders (default 10, max 50)"  default(10)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/orders [get]
func (h *Handler) GetOrders(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-orders")
	defer span.End()

	limit := 10
	if rawLimit := strings.TrimSpace(c.Query("limit")); rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n <= 0 || n > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 50"})
			return
		}
		limit = n
	}

	orders, err := h.marketService.Orders(ctx, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
