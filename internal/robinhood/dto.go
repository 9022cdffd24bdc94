package robinhood

import (
	"encoding/json"
	"strconv"
	"time"
)

// Crypto trading API rows. Decimal fields arrive as strings and stay strings
// until the client maps them into domain records.

type tradingPairsResponse struct {
	Results []struct {
		Symbol string `json:"symbol"`
		Status string `json:"status"`
	} `json:"results"`
}

type bestBidAskResponse struct {
	Results []bestBidAskRow `json:"results"`
}

type bestBidAskRow struct {
	Symbol           string `json:"symbol"`
	Price            string `json:"price"`
	BidPrice         string `json:"bid_inclusive_of_sell_spread"`
	AskPrice         string `json:"ask_inclusive_of_buy_spread"`
	High24h          string `json:"high_24h"`
	Low24h           string `json:"low_24h"`
	Change24h        string `json:"change_24h"`
	ChangePercent24h string `json:"change_percent_24h"`
	Timestamp        string `json:"timestamp"`
}

type orderBookResponse struct {
	Results []orderBookRow `json:"results"`
}

type orderBookRow struct {
	Symbol string          `json:"symbol"`
	Bids   []orderBookSide `json:"bids"`
	Asks   []orderBookSide `json:"asks"`
	Mid    string          `json:"mid_price"`
}

type orderBookSide struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

type ordersResponse struct {
	Results []map[string]any `json:"results"`
}

// Public quote feed rows (Tradier shape). The `quote` node is an object for
// one symbol and an array for several, so it decodes in two steps.

type quotesResponse struct {
	Quotes struct {
		Quote json.RawMessage `json:"quote"`
	} `json:"quotes"`
}

type quoteRow struct {
	Symbol           string   `json:"symbol"`
	Last             *float64 `json:"last"`
	Change           *float64 `json:"change"`
	ChangePercentage *float64 `json:"change_percentage"`
	Bid              *float64 `json:"bid"`
	Ask              *float64 `json:"ask"`
	High             *float64 `json:"high"`
	Low              *float64 `json:"low"`
	TradeDate        int64    `json:"trade_date"`
}

func (r *quotesResponse) rows() []quoteRow {
	raw := r.Quotes.Quote
	if len(raw) == 0 {
		return nil
	}
	var many []quoteRow
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	var one quoteRow
	if err := json.Unmarshal(raw, &one); err == nil {
		return []quoteRow{one}
	}
	return nil
}

type optionChainResponse struct {
	Options struct {
		Option []optionRow `json:"option"`
	} `json:"options"`
}

type optionRow struct {
	OptionType   string   `json:"option_type"`
	Strike       float64  `json:"strike"`
	Bid          *float64 `json:"bid"`
	Ask          *float64 `json:"ask"`
	Last         *float64 `json:"last"`
	OpenInterest *int64   `json:"open_interest"`
	Volume       *int64   `json:"volume"`
	Greeks       *struct {
		MidIV *float64 `json:"mid_iv"`
	} `json:"greeks"`
}

// parseDecimal maps an upstream decimal string to a float pointer. Absent or
// unparseable values come back nil so downstream renders a placeholder
// instead of a fabricated zero.
func parseDecimal(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func millisToTime(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
