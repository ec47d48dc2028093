package storage

import (
	"context"
	"time"
)

// InsertEntities upserts by id; on conflict only updated_at and
// updated_at_block are overwritten, preserving the original
// created_at stamp.
func (p *Postgres) InsertEntities(ctx context.Context, entities []Entity) error {
	if len(entities) == 0 {
		return nil
	}

	ids := make([]string, len(entities))
	createdAts := make([]time.Time, len(entities))
	createdAtBlocks := make([]int64, len(entities))
	updatedAts := make([]time.Time, len(entities))
	updatedAtBlocks := make([]int64, len(entities))

	for i, e := range entities {
		ids[i] = e.ID
		createdAts[i] = e.CreatedAt
		createdAtBlocks[i] = int64(e.CreatedAtBlock)
		updatedAts[i] = e.UpdatedAt
		updatedAtBlocks[i] = int64(e.UpdatedAtBlock)
	}

	return p.exec(ctx, "storage.InsertEntities", `
		INSERT INTO entities (id, created_at, created_at_block, updated_at, updated_at_block)
		SELECT * FROM UNNEST($1::text[], $2::timestamptz[], $3::bigint[], $4::timestamptz[], $5::bigint[])
		ON CONFLICT (id) DO UPDATE
		  SET updated_at = EXCLUDED.updated_at,
		      updated_at_block = EXCLUDED.updated_at_block
	`, ids, createdAts, createdAtBlocks, updatedAts, updatedAtBlocks)
}
