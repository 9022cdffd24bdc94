package robinhood

import (
	"fmt"
	"strconv"

	"tickerbot/internal/domain"
)

// Order rows arrive in several vintages of the upstream schema. Each canonical
// field has an ordered candidate list; the first key present in the row wins,
// and a field with no present candidate is left as the explicit placeholder.
// The priority order below is part of the normalization contract.
var orderFieldCandidates = map[string][]string{
	"id":        {"id", "order_id"},
	"timestamp": {"created_at", "timestamp"},
	"symbol":    {"symbol", "crypto_symbol"},
	"quantity":  {"quantity", "notional"},
	"status":    {"status"},
	"side":      {"side"},
}

// NormalizeOrderRow maps one raw upstream row into a canonical Order.
func NormalizeOrderRow(row map[string]any) domain.Order {
	return domain.Order{
		ID:        pickField(row, orderFieldCandidates["id"]),
		Timestamp: pickField(row, orderFieldCandidates["timestamp"]),
		Side:      domain.Side(pickField(row, orderFieldCandidates["side"])),
		Symbol:    pickField(row, orderFieldCandidates["symbol"]),
		Quantity:  pickField(row, orderFieldCandidates["quantity"]),
		Status:    pickField(row, orderFieldCandidates["status"]),
	}
}

func pickField(row map[string]any, candidates []string) string {
	for _, key := range candidates {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			if val == "" {
				continue
			}
			return val
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64)
		default:
			return fmt.Sprintf("%v", val)
		}
	}
	return domain.Placeholder
}
