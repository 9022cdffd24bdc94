package handler

import (
	"errors"
	"net/http"

	"tickerbot/internal/domain"
	"tickerbot/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer        trace.Tracer
	marketService *service.MarketService
}

func New(tracer trace.Tracer, marketService *service.MarketService) *Handler {
	return &Handler{
		tracer:        tracer,
		marketService: marketService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/quote/:symbol", h.GetQuote)
	r.GET("/api/crypto/:pair", h.GetCryptoQuote)
	r.GET("/api/depth/:symbol", h.GetDepthChart)
	r.GET("/api/options/:ticker", h.GetOptionsSlice)
	r.GET("/api/orders", h.GetOrders)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError maps the domain error taxonomy onto HTTP statuses. Anything
// untyped is a plain 500.
func writeError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		configErr     *domain.ConfigError
		upstreamErr   *domain.UpstreamError
		dataErr       *domain.DataError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &configErr):
		status = http.StatusServiceUnavailable
	case errors.As(err, &upstreamErr), errors.As(err, &dataErr):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
