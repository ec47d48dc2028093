package storage

import (
	"context"

	"github.com/geobrowser/kg-indexer/model"
)

// InsertProperties upserts property id → data type. First-write-wins
// is enforced by the in-memory properties cache, not here; this
// write path is idempotent regardless.
func (p *Postgres) InsertProperties(ctx context.Context, props []model.Property) error {
	if len(props) == 0 {
		return nil
	}

	ids := make([]string, len(props))
	dataTypes := make([]int16, len(props))
	for i, prop := range props {
		ids[i] = prop.ID
		dataTypes[i] = int16(prop.DataType)
	}

	return p.exec(ctx, "storage.InsertProperties", `
		INSERT INTO properties (id, data_type)
		SELECT * FROM UNNEST($1::text[], $2::smallint[])
		ON CONFLICT (id) DO NOTHING
	`, ids, dataTypes)
}
