package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"tickerbot/internal/domain"
)

func level(price, size float64) domain.OrderBookLevel {
	return domain.OrderBookLevel{Price: price, Size: size}
}

func barCount(line string) int {
	return strings.Count(line, barRune)
}

func TestDepthChartBarScaling(t *testing.T) {
	book := &domain.OrderBook{
		Symbol: "BTC-USD",
		Bids:   []domain.OrderBookLevel{level(100, 5), level(99, 3)},
		Asks:   []domain.OrderBookLevel{level(101, 2), level(102, 6)},
	}

	lines := strings.Split(strings.TrimRight(DepthChart(book, 18), "\n"), "\n")
	// header + 2 level rows
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}

	rows := lines[1:]
	bidHalf := func(row string) string { return row[:strings.Index(row, "  1")] }
	wantBidBars := []int{18, 11} // round(3/5*18) = 11
	wantAskBars := []int{6, 18}  // round(2/6*18) = 6
	for i, row := range rows {
		if got := barCount(bidHalf(row)); got != wantBidBars[i] {
			t.Fatalf("row %d: expected %d bid bar units, got %d (%q)", i, wantBidBars[i], got, row)
		}
		if got := barCount(row) - barCount(bidHalf(row)); got != wantAskBars[i] {
			t.Fatalf("row %d: expected %d ask bar units, got %d (%q)", i, wantAskBars[i], got, row)
		}
	}
}

func TestDepthChartRowOrderMatchesInput(t *testing.T) {
	book := &domain.OrderBook{
		Bids: []domain.OrderBookLevel{level(100, 5), level(99, 3)},
		Asks: []domain.OrderBookLevel{level(101, 2), level(102, 6)},
	}

	out := DepthChart(book, 18)
	if strings.Index(out, "100.00") > strings.Index(out, "99.00") {
		t.Fatal("bid rows must keep received (descending) order")
	}
	if strings.Index(out, "101.00") > strings.Index(out, "102.00") {
		t.Fatal("ask rows must keep received (ascending) order")
	}
}

func TestDepthChartUnevenSidesStayAligned(t *testing.T) {
	book := &domain.OrderBook{
		Bids: []domain.OrderBookLevel{level(100, 5)},
		Asks: []domain.OrderBookLevel{level(101, 2), level(102, 6), level(103, 1)},
	}

	lines := strings.Split(strings.TrimRight(DepthChart(book, 18), "\n"), "\n")
	rows := lines[1:]
	if len(rows) != 3 {
		t.Fatalf("expected max(bids, asks) = 3 rows, got %d", len(rows))
	}

	// Ask price column must start at the same rune offset on every row,
	// including rows where the bid side is blank padding.
	askCol := 18 + 8 + 2
	for i, row := range rows {
		if utf8.RuneCountInString(row) < askCol {
			t.Fatalf("row %d too short for the ask column: %q", i, row)
		}
		runes := []rune(row)
		cell := strings.TrimSpace(string(runes[askCol : askCol+8]))
		if cell == "" || !strings.Contains(cell, "10") {
			t.Fatalf("row %d: ask price not at the fixed column: %q", i, row)
		}
	}
}

func TestDepthChartMinimumBarUnit(t *testing.T) {
	book := &domain.OrderBook{
		Bids: []domain.OrderBookLevel{level(100, 1000), level(99, 0.0001)},
	}

	lines := strings.Split(strings.TrimRight(DepthChart(book, 18), "\n"), "\n")
	last := lines[len(lines)-1]
	if barCount(last) != 1 {
		t.Fatalf("a non-zero size must render at least one bar unit, got %d (%q)", barCount(last), last)
	}
}

func TestDepthChartCapsLevelsAndShowsMid(t *testing.T) {
	var bids []domain.OrderBookLevel
	for i := 0; i < 20; i++ {
		bids = append(bids, level(100-float64(i), 1))
	}
	mid := 100.5
	book := &domain.OrderBook{Bids: bids, Mid: &mid}

	out := DepthChart(book, 18)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// header + mid + 12 capped rows
	if len(lines) != 14 {
		t.Fatalf("expected 12 level rows after the cap, got %d total lines", len(lines))
	}
	if !strings.Contains(out, "100.50") {
		t.Fatal("expected the mid price in the header")
	}
}

func TestDepthChartDefaultWidth(t *testing.T) {
	book := &domain.OrderBook{Bids: []domain.OrderBookLevel{level(100, 5)}}
	lines := strings.Split(strings.TrimRight(DepthChart(book, 0), "\n"), "\n")
	if got := barCount(lines[1]); got != DefaultDepthWidth {
		t.Fatalf("expected the max bid bar to fill the default width %d, got %d", DefaultDepthWidth, got)
	}
}
