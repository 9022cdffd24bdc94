package domain

import "time"

// Placeholder marks a field the upstream never sent. Renderers print it
// verbatim instead of inventing a zero.
const Placeholder = "n/a"

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Quote is a normalized snapshot for one symbol. Optional fields stay nil
// when the upstream omitted them; a quote with no price is still a valid
// quote and renders with placeholders.
type Quote struct {
	Symbol        string     `json:"symbol"`
	Price         *float64   `json:"price,omitempty"`
	Change        *float64   `json:"change,omitempty"`
	ChangePercent *float64   `json:"change_percent,omitempty"`
	Bid           *float64   `json:"bid,omitempty"`
	Ask           *float64   `json:"ask,omitempty"`
	High          *float64   `json:"high,omitempty"`
	Low           *float64   `json:"low,omitempty"`
	ObservedAt    *time.Time `json:"observed_at,omitempty"`
}

// OrderBookLevel is one price level. Levels keep the exact order the
// upstream returned them in; nothing downstream re-sorts.
type OrderBookLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// OrderBook holds bids descending and asks ascending by price, as received.
type OrderBook struct {
	Symbol string           `json:"symbol"`
	Bids   []OrderBookLevel `json:"bids"`
	Asks   []OrderBookLevel `json:"asks"`
	Mid    *float64         `json:"mid,omitempty"`
}

// OptionContract is one row of an options chain. ImpliedVolatility is a
// fraction (0.42), not a percentage.
type OptionContract struct {
	Strike            float64  `json:"strike"`
	Bid               *float64 `json:"bid,omitempty"`
	Ask               *float64 `json:"ask,omitempty"`
	Last              *float64 `json:"last,omitempty"`
	ImpliedVolatility *float64 `json:"implied_volatility,omitempty"`
	OpenInterest      *int64   `json:"open_interest,omitempty"`
	Volume            *int64   `json:"volume,omitempty"`
}

type OptionType string

const (
	OptionCall OptionType = "call"
	OptionPut  OptionType = "put"
)

func (t OptionType) IsValid() bool {
	return t == OptionCall || t == OptionPut
}

// Order is a normalized crypto order row. Fields are kept as upstream
// strings; a field no candidate key supplied holds Placeholder.
type Order struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Side      Side   `json:"side"`
	Symbol    string `json:"symbol"`
	Quantity  string `json:"quantity"`
	Status    string `json:"status"`
}

// WatchlistEntry is one symbol a chat follows.
type WatchlistEntry struct {
	ChatID  int64     `json:"chat_id"`
	Symbol  string    `json:"symbol"`
	AddedAt time.Time `json:"added_at"`
}
