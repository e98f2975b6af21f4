package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type Queries struct {
	db DBTX
}

func newQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the given transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

const insertPriceHistory = `
INSERT INTO price_history (time, asset_id, side, price, size)
VALUES ($1, $2, $3, $4, $5)`

// InsertPriceHistoryParams mirrors the price_history table. Price and size
// carry the fixed-point representation (scale 1e6).
type InsertPriceHistoryParams struct {
	Time    time.Time
	AssetID string
	Side    string
	Price   int64
	Size    int64
}

func (q *Queries) InsertPriceHistory(ctx context.Context, arg InsertPriceHistoryParams) error {
	_, err := q.db.Exec(ctx, insertPriceHistory, arg.Time, arg.AssetID, arg.Side, arg.Price, arg.Size)
	return err
}

// InsertPriceHistoryBatch inserts the rows in one round trip and returns the
// number of inserted rows.
func (q *Queries) InsertPriceHistoryBatch(ctx context.Context, args []InsertPriceHistoryParams) (int64, error) {
	batch := &pgx.Batch{}
	for _, arg := range args {
		batch.Queue(insertPriceHistory, arg.Time, arg.AssetID, arg.Side, arg.Price, arg.Size)
	}

	results := q.db.SendBatch(ctx, batch)
	defer results.Close()

	var count int64
	for range args {
		tag, err := results.Exec()
		if err != nil {
			return count, fmt.Errorf("insert price history: %w", err)
		}
		count += tag.RowsAffected()
	}
	return count, nil
}

const insertTrade = `
INSERT INTO trades (time, asset_id, side, price, size)
VALUES ($1, $2, $3, $4, $5)`

type InsertTradeParams struct {
	Time    time.Time
	AssetID string
	Side    string
	Price   int64
	Size    int64
}

func (q *Queries) InsertTrade(ctx context.Context, arg InsertTradeParams) error {
	_, err := q.db.Exec(ctx, insertTrade, arg.Time, arg.AssetID, arg.Side, arg.Price, arg.Size)
	return err
}

// InsertTradeBatch inserts the rows in one round trip and returns the number
// of inserted rows.
func (q *Queries) InsertTradeBatch(ctx context.Context, args []InsertTradeParams) (int64, error) {
	batch := &pgx.Batch{}
	for _, arg := range args {
		batch.Queue(insertTrade, arg.Time, arg.AssetID, arg.Side, arg.Price, arg.Size)
	}

	results := q.db.SendBatch(ctx, batch)
	defer results.Close()

	var count int64
	for range args {
		tag, err := results.Exec()
		if err != nil {
			return count, fmt.Errorf("insert trade: %w", err)
		}
		count += tag.RowsAffected()
	}
	return count, nil
}
