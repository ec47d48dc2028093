// Package cursorstore persists the pipeline's stream position so a
// restart resumes exactly where it left off.
package cursorstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geobrowser/kg-indexer/kgerror"
)

// Cursor is the persisted stream position for one stream id.
type Cursor struct {
	Cursor      string
	BlockNumber uint64
}

// Store is a Postgres-backed cursor store keyed by an arbitrary
// stream id, letting one database host more than one indexer
// instance.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing pool. cursorstore shares its connections
// with the durable store rather than opening its own pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Load returns the persisted cursor for id, or (Cursor{}, false, nil)
// if none has been persisted yet.
func (s *Store) Load(ctx context.Context, id string) (Cursor, bool, error) {
	var c Cursor
	err := s.pool.QueryRow(ctx,
		`SELECT cursor, block_number FROM indexer_cursor WHERE id = $1`, id,
	).Scan(&c.Cursor, &c.BlockNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cursor{}, false, nil
		}
		return Cursor{}, false, kgerror.New(kgerror.CodeStorage, "cursorstore.Load", err)
	}
	return c, true, nil
}

// Persist upserts the cursor for id.
func (s *Store) Persist(ctx context.Context, id string, c Cursor) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO indexer_cursor (id, cursor, block_number, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		  SET cursor = EXCLUDED.cursor,
		      block_number = EXCLUDED.block_number,
		      updated_at = EXCLUDED.updated_at
	`, id, c.Cursor, c.BlockNumber)
	if err != nil {
		return kgerror.New(kgerror.CodeStorage, "cursorstore.Persist", err)
	}
	return nil
}
