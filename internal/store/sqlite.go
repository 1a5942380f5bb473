// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tradeking-trader/internal/errors"
	"tradeking-trader/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Saved option chain filter queries
	CREATE TABLE IF NOT EXISTS saved_queries (
		name TEXT PRIMARY KEY,
		expressions TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Quote cache
	CREATE TABLE IF NOT EXISTS quotes (
		symbol TEXT PRIMARY KEY,
		bid INTEGER NOT NULL,
		ask INTEGER NOT NULL,
		last INTEGER NOT NULL,
		bid_size INTEGER NOT NULL DEFAULT 0,
		ask_size INTEGER NOT NULL DEFAULT 0,
		volume INTEGER NOT NULL DEFAULT 0,
		quoted_at DATETIME,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_quotes_fetched_at ON quotes(fetched_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveQuery stores a named set of chain filter expressions, replacing
// any previous set under the same name.
func (s *SQLiteStore) SaveQuery(ctx context.Context, name string, expressions []string) error {
	if name == "" {
		return errors.Wrap(errors.ErrInvalidArgument, "query name must not be empty")
	}
	encoded, err := json.Marshal(expressions)
	if err != nil {
		return errors.Wrap(err, "encoding expressions")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_queries (name, expressions, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			expressions = excluded.expressions,
			updated_at = CURRENT_TIMESTAMP`,
		name, string(encoded))
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	return nil
}

// GetQuery retrieves a named set of chain filter expressions.
func (s *SQLiteStore) GetQuery(ctx context.Context, name string) ([]string, error) {
	var encoded string
	err := s.db.QueryRowContext(ctx,
		`SELECT expressions FROM saved_queries WHERE name = ?`, name).Scan(&encoded)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrDataNotFound, "query %q", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseError, err.Error())
	}

	var expressions []string
	if err := json.Unmarshal([]byte(encoded), &expressions); err != nil {
		return nil, errors.Wrap(err, "decoding expressions")
	}
	return expressions, nil
}

// ListQueries returns the names of all saved queries.
func (s *SQLiteStore) ListQueries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM saved_queries ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(errors.ErrDatabaseError, err.Error())
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteQuery removes a saved query by name.
func (s *SQLiteStore) DeleteQuery(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_queries WHERE name = ?`, name)
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.Wrapf(errors.ErrDataNotFound, "query %q", name)
	}
	return nil
}

// SaveQuotes upserts a batch of quotes into the local cache.
func (s *SQLiteStore) SaveQuotes(ctx context.Context, quotes []models.Quote) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quotes (symbol, bid, ask, last, bid_size, ask_size, volume, quoted_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(symbol) DO UPDATE SET
			bid = excluded.bid,
			ask = excluded.ask,
			last = excluded.last,
			bid_size = excluded.bid_size,
			ask_size = excluded.ask_size,
			volume = excluded.volume,
			quoted_at = excluded.quoted_at,
			fetched_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	defer stmt.Close()

	for _, q := range quotes {
		if _, err := stmt.ExecContext(ctx,
			q.Symbol, int64(q.Bid), int64(q.Ask), int64(q.Last),
			q.BidSize, q.AskSize, q.Volume, q.Timestamp); err != nil {
			return errors.Wrap(errors.ErrDatabaseError, err.Error())
		}
	}
	return tx.Commit()
}

// GetQuote returns a cached quote no older than maxAge, or
// ErrDataNotFound if the cache has nothing fresh enough.
func (s *SQLiteStore) GetQuote(ctx context.Context, symbol string, maxAge time.Duration) (*models.Quote, error) {
	var (
		q       models.Quote
		bid     int64
		ask     int64
		last    int64
		quoted  sql.NullTime
		fetched time.Time
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT symbol, bid, ask, last, bid_size, ask_size, volume, quoted_at, fetched_at
		FROM quotes WHERE symbol = ?`, symbol).
		Scan(&q.Symbol, &bid, &ask, &last, &q.BidSize, &q.AskSize, &q.Volume, &quoted, &fetched)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrDataNotFound, "quote %q", symbol)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	if maxAge > 0 && time.Since(fetched) > maxAge {
		return nil, errors.Wrapf(errors.ErrDataNotFound, "quote %q is stale", symbol)
	}

	q.Bid = models.Price(bid)
	q.Ask = models.Price(ask)
	q.Last = models.Price(last)
	if quoted.Valid {
		q.Timestamp = quoted.Time
	}
	return &q, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
