package robinhood

import (
	"strconv"
	"time"

	"tickerbot/internal/domain"
)

var mockSymbols = []string{"BTC", "ETH"}

// syntheticOrders builds the deterministic mock listing used when live
// trading is off or credentials are incomplete. Sides and symbols alternate
// in lockstep and timestamps strictly decrease, so the output reads like a
// real, most-recent-first order history.
func syntheticOrders(base time.Time, limit int) []domain.Order {
	if limit <= 0 {
		return []domain.Order{}
	}

	orders := make([]domain.Order, 0, limit)
	for i := 0; i < limit; i++ {
		side := domain.SideBuy
		if i%2 == 1 {
			side = domain.SideSell
		}
		orders = append(orders, domain.Order{
			ID:        "mock-order-" + strconv.Itoa(i+1),
			Timestamp: base.Add(-time.Duration(i) * time.Minute).UTC().Format(time.RFC3339),
			Side:      side,
			Symbol:    mockSymbols[i%len(mockSymbols)],
			Quantity:  strconv.FormatFloat(0.001*float64(i+1), 'f', 3, 64),
			Status:    "filled",
		})
	}
	return orders
}
