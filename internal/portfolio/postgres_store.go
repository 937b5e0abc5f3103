package portfolio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTable = `CREATE TABLE IF NOT EXISTS portfolio_entries (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL,
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	input      JSONB NOT NULL,
	output     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps entries in the portfolio_entries table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps pool and creates the table when it is missing.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	if _, err := pool.Exec(ctx, createTable); err != nil {
		return nil, fmt.Errorf("failed to create portfolio_entries: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Connect opens a pool for databaseURL and checks the connection.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return pool, nil
}

// Load returns the entries of a user in their saved order.
func (s *PostgresStore) Load(ctx context.Context, userID string) ([]Entry, error) {
	id, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	query := `SELECT id::text, name, input, output, created_at, updated_at
		FROM portfolio_entries WHERE user_id = $1 ORDER BY position`
	rows, err := s.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e           Entry
			input, outp []byte
		)
		if err := rows.Scan(&e.ID, &e.Name, &input, &outp, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio entry: %w", err)
		}
		if err := json.Unmarshal(input, &e.Input); err != nil {
			return nil, fmt.Errorf("failed to decode input of entry %s: %w", e.ID, err)
		}
		if err := json.Unmarshal(outp, &e.Output); err != nil {
			return nil, fmt.Errorf("failed to decode output of entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read portfolio: %w", err)
	}
	return entries, nil
}

// Save replaces the entries of a user in one transaction.
func (s *PostgresStore) Save(ctx context.Context, userID string, entries []Entry) error {
	id, err := normalizeUserID(userID)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM portfolio_entries WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear portfolio: %w", err)
	}

	batch := &pgx.Batch{}
	for position, e := range entries {
		input, err := json.Marshal(e.Input)
		if err != nil {
			return fmt.Errorf("failed to encode input of entry %s: %w", e.ID, err)
		}
		outp, err := json.Marshal(e.Output)
		if err != nil {
			return fmt.Errorf("failed to encode output of entry %s: %w", e.ID, err)
		}
		batch.Queue(`INSERT INTO portfolio_entries
			(id, user_id, position, name, input, output, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.ID, id, position, e.Name, input, outp, e.CreatedAt, e.UpdatedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert portfolio entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit portfolio: %w", err)
	}
	return nil
}
