package storage

import (
	"context"

	"github.com/geobrowser/kg-indexer/model"
)

// InsertValues upserts the SET side of the squash result, overwriting
// value/language/unit on conflict.
func (p *Postgres) InsertValues(ctx context.Context, values []model.ValueOp) error {
	if len(values) == 0 {
		return nil
	}

	ids := make([]string, len(values))
	entityIDs := make([]string, len(values))
	propertyIDs := make([]string, len(values))
	spaceIDs := make([]string, len(values))
	vals := make([]*string, len(values))
	langs := make([]*string, len(values))
	units := make([]*string, len(values))

	for i, v := range values {
		ids[i] = v.DerivedID
		entityIDs[i] = v.EntityID
		propertyIDs[i] = v.PropertyID
		spaceIDs[i] = v.SpaceID
		vals[i] = v.Value
		langs[i] = v.Language
		units[i] = v.Unit
	}

	return p.exec(ctx, "storage.InsertValues", `
		INSERT INTO values (id, entity_id, property_id, space_id, value, language, unit)
		SELECT * FROM UNNEST($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[], $7::text[])
		ON CONFLICT (id) DO UPDATE
		  SET value = EXCLUDED.value,
		      language = EXCLUDED.language,
		      unit = EXCLUDED.unit
	`, ids, entityIDs, propertyIDs, spaceIDs, vals, langs, units)
}

// DeleteValues removes the given value ids scoped to spaceID.
func (p *Postgres) DeleteValues(ctx context.Context, ids []string, spaceID string) error {
	if len(ids) == 0 {
		return nil
	}
	return p.exec(ctx, "storage.DeleteValues",
		`DELETE FROM values WHERE space_id = $1 AND id = ANY($2::text[])`, spaceID, ids)
}
