package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abdulbitspilani/mlopsgate/internal/domain"
	"github.com/abdulbitspilani/mlopsgate/internal/history"
)

var _ history.Store = (*Store)(nil)

// Store keeps the snapshot history in a postgres table. Rows are inserted,
// never updated; ordering comes from the snapshot timestamp.
type Store struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	payload    JSONB NOT NULL
)`

func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, err
	}
	if _, err := p.Exec(ctx, schema); err != nil {
		p.Close()
		return nil, fmt.Errorf("ensure snapshots table: %w", err)
	}
	return &Store{pool: p}, nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Append(ctx context.Context, snap *domain.PerformanceSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO snapshots (id, created_at, payload) VALUES ($1,$2,$3)`,
		snap.ID, snap.Timestamp, payload)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]domain.PerformanceSnapshot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM snapshots ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PerformanceSnapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var snap domain.PerformanceSnapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *Store) Latest(ctx context.Context) (*domain.PerformanceSnapshot, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM snapshots ORDER BY created_at DESC LIMIT 1`).Scan(&payload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var snap domain.PerformanceSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.PerformanceSnapshot, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM snapshots WHERE id=$1`, id).Scan(&payload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, history.ErrNotFound
		}
		return nil, err
	}
	var snap domain.PerformanceSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
