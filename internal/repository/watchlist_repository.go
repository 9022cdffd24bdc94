package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WatchlistRepository stores the symbols each chat follows. This is the only
// thing the bot persists; quotes, order books and orders are rendered and
// discarded.
type WatchlistRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewWatchlistRepository(pool PgxPool, tracer trace.Tracer) *WatchlistRepository {
	return &WatchlistRepository{pool: pool, tracer: tracer}
}

func (r *WatchlistRepository) RunMigrations(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS watchlist_entries (
			chat_id   BIGINT NOT NULL,
			symbol    TEXT NOT NULL,
			added_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (chat_id, symbol)
		);
		CREATE INDEX IF NOT EXISTS idx_watchlist_chat ON watchlist_entries (chat_id, added_at);
	`)
	return err
}

// AddSymbol inserts one entry. Returns false when the chat already follows
// the symbol.
func (r *WatchlistRepository) AddSymbol(ctx context.Context, chatID int64, symbol string) (bool, error) {
	_, span := r.tracer.Start(ctx, "watchlist-repo.add-symbol")
	defer span.End()

	tag, err := r.pool.Exec(ctx,
		`INSERT INTO watchlist_entries (chat_id, symbol) VALUES ($1, $2)
		 ON CONFLICT (chat_id, symbol) DO NOTHING`,
		chatID, symbol,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveSymbol deletes one entry. Returns false when it was not followed.
func (r *WatchlistRepository) RemoveSymbol(ctx context.Context, chatID int64, symbol string) (bool, error) {
	_, span := r.tracer.Start(ctx, "watchlist-repo.remove-symbol")
	defer span.End()

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM watchlist_entries WHERE chat_id = $1 AND symbol = $2`,
		chatID, symbol,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *WatchlistRepository) ListSymbols(ctx context.Context, chatID int64) ([]string, error) {
	_, span := r.tracer.Start(ctx, "watchlist-repo.list-symbols")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT symbol FROM watchlist_entries WHERE chat_id = $1 ORDER BY added_at, symbol`,
		chatID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	symbols := make([]string, 0, 8)
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}
