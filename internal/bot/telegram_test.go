package bot

import (
	"testing"
	"time"

	"tickerbot/internal/domain"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	if b := StartTelegramBot(nil, nil); b != nil {
		t.Fatal("expected nil bot without a token")
	}
}

func TestParsePairArgs(t *testing.T) {
	t.Run("base only leaves counter empty", func(t *testing.T) {
		base, counter, err := parsePairArgs([]string{"btc"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if base != "BTC" || counter != "" {
			t.Fatalf("got base=%q counter=%q", base, counter)
		}
	})
	t.Run("dashed pair", func(t *testing.T) {
		base, counter, err := parsePairArgs([]string{"btc-eur"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if base != "BTC" || counter != "EUR" {
			t.Fatalf("got base=%q counter=%q", base, counter)
		}
	})
	t.Run("two args", func(t *testing.T) {
		base, counter, err := parsePairArgs([]string{"eth", "usd"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if base != "ETH" || counter != "USD" {
			t.Fatalf("got base=%q counter=%q", base, counter)
		}
	})
	t.Run("rejects dangling dash", func(t *testing.T) {
		if _, _, err := parsePairArgs([]string{"btc-"}); err == nil {
			t.Fatal("expected error for malformed pair")
		}
	})
	t.Run("rejects extra args", func(t *testing.T) {
		if _, _, err := parsePairArgs([]string{"btc", "usd", "extra"}); err == nil {
			t.Fatal("expected error for extra args")
		}
	})
}

func TestParseOrdersLimit(t *testing.T) {
	limit, err := parseOrdersLimit(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limit != defaultOrdersLimit {
		t.Fatalf("expected default limit %d, got %d", defaultOrdersLimit, limit)
	}
	limit, err = parseOrdersLimit([]string{"10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limit != 10 {
		t.Fatalf("expected 10, got %d", limit)
	}
	if _, err := parseOrdersLimit([]string{"0"}); err == nil {
		t.Fatal("expected error for zero limit")
	}
	if _, err := parseOrdersLimit([]string{"not-a-number"}); err == nil {
		t.Fatal("expected error for non-numeric limit")
	}
}

func TestFormatQuoteWithPlaceholders(t *testing.T) {
	got := formatQuote(&domain.Quote{Symbol: "SPY"})
	want := "SPY\nPrice: n/a"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatQuoteFull(t *testing.T) {
	price := 450.10
	change := -1.25
	pct := -0.28
	bid := 450.05
	ask := 450.15
	observed := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	got := formatQuote(&domain.Quote{
		Symbol:        "SPY",
		Price:         &price,
		Change:        &change,
		ChangePercent: &pct,
		Bid:           &bid,
		Ask:           &ask,
		ObservedAt:    &observed,
	})
	want := "SPY\nPrice: 450.10\nChange: -1.25 (-0.28%)\nBid: 450.05  Ask: 450.15\nAs of 15 Jan 25 14:30 UTC"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatOrder(t *testing.T) {
	got := formatOrder(domain.Order{
		ID:        "mock-1",
		Timestamp: "2025-01-15T14:30:00Z",
		Side:      domain.SideBuy,
		Symbol:    "BTC-USD",
		Quantity:  "0.001",
		Status:    "filled",
	})
	want := "2025-01-15T14:30:00Z  buy  BTC-USD  qty 0.001      filled  mock-1"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
