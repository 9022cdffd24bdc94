package render

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tickerbot/internal/domain"
)

const sliceHalfWindow = 5

var expiryPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`)

// ParseExpiry resolves a chat-style M/D/YY expiry into an ISO date. Two-digit
// years pivot at 70: below it is 2000s, at or above it is 1900s. Anything
// that is not month/day/two-digit-year is rejected outright, four-digit
// years included.
func ParseExpiry(input string) (string, error) {
	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return "", &domain.ValidationError{Reason: fmt.Sprintf("expiry %q is not in MM/DD/YY form", input)}
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", &domain.ValidationError{Reason: fmt.Sprintf("expiry %q has an out-of-range month or day", input)}
	}

	if year < 70 {
		year += 2000
	} else {
		year += 1900
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

// OptionsSlice sorts contracts ascending by strike and cuts the window of at
// most 11 around the pivot: the first strike at or above the underlying
// price, or the last contract when every strike is below it. The window
// shrinks near either end of the chain instead of shifting.
func OptionsSlice(contracts []domain.OptionContract, underlying float64) []domain.OptionContract {
	if len(contracts) == 0 {
		return nil
	}

	sorted := make([]domain.OptionContract, len(contracts))
	copy(sorted, contracts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Strike < sorted[j].Strike })

	pivot := len(sorted) - 1
	for i, c := range sorted {
		if c.Strike >= underlying {
			pivot = i
			break
		}
	}

	lo := pivot - sliceHalfWindow
	if lo < 0 {
		lo = 0
	}
	hi := pivot + sliceHalfWindow
	if hi > len(sorted)-1 {
		hi = len(sorted) - 1
	}
	return sorted[lo : hi+1]
}

// OptionsTable renders a slice as a fixed-width table. Prices print to two
// decimals, implied volatility as a percentage to one, open interest and
// volume untouched. A field the upstream never sent renders empty; the table
// does not invent zeros.
func OptionsTable(ticker string, optType domain.OptionType, isoExpiry string, underlying float64, contracts []domain.OptionContract) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %ss expiring %s (underlying %.2f)\n", strings.ToUpper(ticker), optType, isoExpiry, underlying)
	fmt.Fprintf(&sb, "%8s %8s %8s %8s %8s %8s %8s\n", "strike", "bid", "ask", "last", "iv", "oi", "vol")
	for _, c := range contracts {
		fmt.Fprintf(&sb, "%8.2f %8s %8s %8s %8s %8s %8s\n",
			c.Strike,
			fmtPrice(c.Bid),
			fmtPrice(c.Ask),
			fmtPrice(c.Last),
			fmtPercent(c.ImpliedVolatility),
			fmtCount(c.OpenInterest),
			fmtCount(c.Volume),
		)
	}
	return sb.String()
}

func fmtPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func fmtPercent(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v*100, 'f', 1, 64) + "%"
}

func fmtCount(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
