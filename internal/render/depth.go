package render

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"tickerbot/internal/domain"
)

const (
	// DefaultDepthWidth is the bar width in display units.
	DefaultDepthWidth = 18
	maxDepthLevels    = 12
	priceColumnWidth  = 8
	barRune           = "█"
)

// DepthChart renders an order book as a proportional two-column bar chart.
// It assumes bids arrive descending and asks ascending and never re-sorts:
// whatever order the book carries is the order on screen.
//
// Bars scale against the largest size on their own side, so a thin bid book
// next to a deep ask book still shows shape on both sides. Any non-zero size
// gets at least one unit of bar.
func DepthChart(book *domain.OrderBook, width int) string {
	if width <= 0 {
		width = DefaultDepthWidth
	}

	bids := book.Bids
	if len(bids) > maxDepthLevels {
		bids = bids[:maxDepthLevels]
	}
	asks := book.Asks
	if len(asks) > maxDepthLevels {
		asks = asks[:maxDepthLevels]
	}

	maxBid := maxSize(bids)
	maxAsk := maxSize(asks)

	var sb strings.Builder
	sb.WriteString(pad(" BIDS", width+priceColumnWidth))
	sb.WriteString("  ")
	sb.WriteString("ASKS\n")
	if book.Mid != nil {
		sb.WriteString(pad(" mid", width))
		sb.WriteString(padLeft(formatPrice(*book.Mid), priceColumnWidth))
		sb.WriteString("\n")
	}

	rows := len(bids)
	if len(asks) > rows {
		rows = len(asks)
	}
	for i := 0; i < rows; i++ {
		if i < len(bids) {
			bar := strings.Repeat(barRune, barLength(bids[i].Size, maxBid, width))
			sb.WriteString(pad(bar, width))
			sb.WriteString(padLeft(formatPrice(bids[i].Price), priceColumnWidth))
		} else {
			sb.WriteString(pad("", width+priceColumnWidth))
		}
		sb.WriteString("  ")
		if i < len(asks) {
			sb.WriteString(pad(formatPrice(asks[i].Price), priceColumnWidth))
			sb.WriteString(strings.Repeat(barRune, barLength(asks[i].Size, maxAsk, width)))
		} else {
			sb.WriteString(pad("", priceColumnWidth))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// barLength scales one level against its side's maximum. Rounded, and
// floored at one unit so a tiny resting order is still visible.
func barLength(size, sideMax float64, width int) int {
	if size <= 0 || sideMax <= 0 {
		return 0
	}
	n := int(math.Round(size / sideMax * float64(width)))
	if n < 1 {
		n = 1
	}
	return n
}

func maxSize(levels []domain.OrderBookLevel) float64 {
	var m float64
	for _, l := range levels {
		if l.Size > m {
			m = l.Size
		}
	}
	return m
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// pad works in runes, not bytes: bar cells are multi-byte block characters
// and byte-based padding would break the column alignment invariant.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func padLeft(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}
