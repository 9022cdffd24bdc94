package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"tickerbot/internal/domain"

	tele "gopkg.in/telebot.v3"
)

const defaultOrdersLimit = 5

// MarketQuerier is the slice of the market service the bot consumes.
type MarketQuerier interface {
	Quote(ctx context.Context, symbol string) (*domain.Quote, error)
	CryptoQuote(ctx context.Context, chatID int64, base, counter string) (*domain.Quote, error)
	DepthChart(ctx context.Context, symbol string) (string, error)
	OptionsSlice(ctx context.Context, ticker, optType, expiry string) (string, error)
	Orders(ctx context.Context, limit int) ([]domain.Order, error)
}

type WatchlistKeeper interface {
	Watch(ctx context.Context, chatID int64, symbol string) (bool, error)
	Unwatch(ctx context.Context, chatID int64, symbol string) (bool, error)
	Watchlist(ctx context.Context, chatID int64) ([]string, error)
	SetCounterCurrency(ctx context.Context, chatID int64, currency string) error
}

func StartTelegramBot(market MarketQuerier, watchlists WatchlistKeeper) *tele.Bot {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/quote", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /quote SPY")
		}
		quote, err := market.Quote(context.Background(), args[0])
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching quote for %s: %v", strings.ToUpper(args[0]), err))
		}
		return c.Send(formatQuote(quote))
	})

	b.Handle("/crypto", func(c tele.Context) error {
		base, counter, err := parsePairArgs(c.Args())
		if err != nil {
			return c.Send("Usage: /crypto BTC | /crypto BTC EUR | /crypto BTC-USD")
		}
		quote, err := market.CryptoQuote(context.Background(), chatID(c), base, counter)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching crypto quote for %s: %v", base, err))
		}
		return c.Send(formatQuote(quote))
	})

	b.Handle("/depth", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /depth BTC-USD")
		}
		chart, err := market.DepthChart(context.Background(), args[0])
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching order book for %s: %v", strings.ToUpper(args[0]), err))
		}
		return sendMono(c, chart)
	})

	b.Handle("/options", func(c tele.Context) error {
		args := c.Args()
		if len(args) != 3 {
			return c.Send("Usage: /options SPY call 1/17/25")
		}
		table, err := market.OptionsSlice(context.Background(), args[0], args[1], args[2])
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching options for %s: %v", strings.ToUpper(args[0]), err))
		}
		return sendMono(c, table)
	})

	b.Handle("/orders", func(c tele.Context) error {
		limit, err := parseOrdersLimit(c.Args())
		if err != nil {
			return c.Send("Usage: /orders | /orders 10")
		}
		orders, err := market.Orders(context.Background(), limit)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching orders: %v", err))
		}
		if len(orders) == 0 {
			return c.Send("No recent orders.")
		}
		lines := make([]string, 0, len(orders))
		for _, o := range orders {
			lines = append(lines, formatOrder(o))
		}
		return sendMono(c, strings.Join(lines, "\n"))
	})

	b.Handle("/watch", func(c tele.Context) error {
		if watchlists == nil {
			return c.Send("Watchlists unavailable")
		}
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /watch BTC")
		}
		symbol := strings.ToUpper(args[0])
		added, err := watchlists.Watch(context.Background(), chatID(c), symbol)
		if err != nil {
			return c.Send(fmt.Sprintf("Error updating watchlist: %v", err))
		}
		if added {
			return c.Send(fmt.Sprintf("Now watching %s.", symbol))
		}
		return c.Send(fmt.Sprintf("%s is already on your watchlist.", symbol))
	})

	b.Handle("/unwatch", func(c tele.Context) error {
		if watchlists == nil {
			return c.Send("Watchlists unavailable")
		}
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /unwatch BTC")
		}
		symbol := strings.ToUpper(args[0])
		removed, err := watchlists.Unwatch(context.Background(), chatID(c), symbol)
		if err != nil {
			return c.Send(fmt.Sprintf("Error updating watchlist: %v", err))
		}
		if removed {
			return c.Send(fmt.Sprintf("Stopped watching %s.", symbol))
		}
		return c.Send(fmt.Sprintf("%s was not on your watchlist.", symbol))
	})

	b.Handle("/watchlist", func(c tele.Context) error {
		if watchlists == nil {
			return c.Send("Watchlists unavailable")
		}
		symbols, err := watchlists.Watchlist(context.Background(), chatID(c))
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching watchlist: %v", err))
		}
		if len(symbols) == 0 {
			return c.Send("Your watchlist is empty. Add a symbol with /watch BTC")
		}
		return c.Send("Watching: " + strings.Join(symbols, ", "))
	})

	b.Handle("/setcurrency", func(c tele.Context) error {
		if watchlists == nil {
			return c.Send("Preferences unavailable")
		}
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /setcurrency EUR")
		}
		currency := strings.ToUpper(args[0])
		if err := watchlists.SetCounterCurrency(context.Background(), chatID(c), currency); err != nil {
			return c.Send(fmt.Sprintf("Error saving preference: %v", err))
		}
		return c.Send(fmt.Sprintf("Default counter currency set to %s.", currency))
	})

	log.Println("Telegram bot started")
	go b.Start()
	return b
}

func chatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	return 0
}

func sendMono(c tele.Context, body string) error {
	return c.Send("```\n"+body+"\n```", tele.ModeMarkdownV2)
}

// parsePairArgs accepts "BTC", "BTC EUR" or "BTC-EUR". The counter is left
// empty when the user named only the base, so the service can fall back to
// the chat's stored preference.
func parsePairArgs(args []string) (base, counter string, err error) {
	switch len(args) {
	case 1:
		if b, c, ok := strings.Cut(args[0], "-"); ok {
			if b == "" || c == "" {
				return "", "", errors.New("malformed pair")
			}
			return strings.ToUpper(b), strings.ToUpper(c), nil
		}
		return strings.ToUpper(args[0]), "", nil
	case 2:
		return strings.ToUpper(args[0]), strings.ToUpper(args[1]), nil
	default:
		return "", "", errors.New("expected a base symbol and an optional counter")
	}
}

func parseOrdersLimit(args []string) (int, error) {
	if len(args) == 0 {
		return defaultOrdersLimit, nil
	}
	limit, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, err
	}
	if limit <= 0 || limit > 50 {
		return 0, errors.New("limit out of range")
	}
	return limit, nil
}

func formatQuote(q *domain.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nPrice: %s", q.Symbol, fmtVal(q.Price))
	if q.Change != nil || q.ChangePercent != nil {
		fmt.Fprintf(&b, "\nChange: %s (%s%%)", fmtVal(q.Change), fmtVal(q.ChangePercent))
	}
	if q.Bid != nil || q.Ask != nil {
		fmt.Fprintf(&b, "\nBid: %s  Ask: %s", fmtVal(q.Bid), fmtVal(q.Ask))
	}
	if q.High != nil || q.Low != nil {
		fmt.Fprintf(&b, "\n24h High: %s  Low: %s", fmtVal(q.High), fmtVal(q.Low))
	}
	if q.ObservedAt != nil {
		fmt.Fprintf(&b, "\nAs of %s", q.ObservedAt.UTC().Format(time.RFC822))
	}
	return b.String()
}

func formatOrder(o domain.Order) string {
	return fmt.Sprintf("%s  %-4s %-8s qty %-10s %s  %s",
		o.Timestamp, o.Side, o.Symbol, o.Quantity, o.Status, o.ID)
}

func fmtVal(v *float64) string {
	if v == nil {
		return domain.Placeholder
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
