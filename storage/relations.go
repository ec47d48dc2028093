package storage

import (
	"context"

	"github.com/geobrowser/kg-indexer/model"
)

// InsertRelations writes the SET partition of the squash result.
func (p *Postgres) InsertRelations(ctx context.Context, sets []model.RelationOp) error {
	if len(sets) == 0 {
		return nil
	}

	ids := make([]string, len(sets))
	spaceIDs := make([]string, len(sets))
	entityIDs := make([]string, len(sets))
	typeIDs := make([]string, len(sets))
	fromIDs := make([]string, len(sets))
	toIDs := make([]string, len(sets))
	fromSpaces := make([]*string, len(sets))
	toSpaces := make([]*string, len(sets))
	fromVersions := make([]*string, len(sets))
	toVersions := make([]*string, len(sets))
	positions := make([]*string, len(sets))
	verifieds := make([]*bool, len(sets))

	for i, r := range sets {
		ids[i] = r.ID
		spaceIDs[i] = r.SpaceID
		entityIDs[i] = r.EntityID
		typeIDs[i] = r.TypeID
		fromIDs[i] = r.FromID
		toIDs[i] = r.ToID
		fromSpaces[i] = r.Fields.FromSpace
		toSpaces[i] = r.Fields.ToSpace
		fromVersions[i] = r.Fields.FromVersion
		toVersions[i] = r.Fields.ToVersion
		positions[i] = r.Fields.Position
		verifieds[i] = r.Fields.Verified
	}

	return p.exec(ctx, "storage.InsertRelations", `
		INSERT INTO relations (id, space_id, entity_id, type_id, from_id, to_id,
		                        from_space_id, to_space_id, from_version_id, to_version_id, position, verified)
		SELECT * FROM UNNEST($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[],
		                     $7::text[], $8::text[], $9::text[], $10::text[], $11::text[], $12::bool[])
		ON CONFLICT (id) DO UPDATE
		  SET from_space_id = EXCLUDED.from_space_id,
		      to_space_id = EXCLUDED.to_space_id,
		      from_version_id = EXCLUDED.from_version_id,
		      to_version_id = EXCLUDED.to_version_id,
		      position = EXCLUDED.position,
		      verified = EXCLUDED.verified
	`, ids, spaceIDs, entityIDs, typeIDs, fromIDs, toIDs, fromSpaces, toSpaces, fromVersions, toVersions, positions, verifieds)
}

// UpdateRelations writes the UPDATE partition: only the optional
// fields are touched, the relation must already exist.
func (p *Postgres) UpdateRelations(ctx context.Context, updates []model.RelationOp) error {
	if len(updates) == 0 {
		return nil
	}

	ids := make([]string, len(updates))
	fromSpaces := make([]*string, len(updates))
	toSpaces := make([]*string, len(updates))
	fromVersions := make([]*string, len(updates))
	toVersions := make([]*string, len(updates))
	positions := make([]*string, len(updates))
	verifieds := make([]*bool, len(updates))

	for i, r := range updates {
		ids[i] = r.ID
		fromSpaces[i] = r.Fields.FromSpace
		toSpaces[i] = r.Fields.ToSpace
		fromVersions[i] = r.Fields.FromVersion
		toVersions[i] = r.Fields.ToVersion
		positions[i] = r.Fields.Position
		verifieds[i] = r.Fields.Verified
	}

	return p.exec(ctx, "storage.UpdateRelations", `
		UPDATE relations AS r
		SET from_space_id   = COALESCE(u.from_space_id, r.from_space_id),
		    to_space_id     = COALESCE(u.to_space_id, r.to_space_id),
		    from_version_id = COALESCE(u.from_version_id, r.from_version_id),
		    to_version_id   = COALESCE(u.to_version_id, r.to_version_id),
		    position        = COALESCE(u.position, r.position),
		    verified        = COALESCE(u.verified, r.verified)
		FROM UNNEST($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[], $7::bool[])
		  AS u(id, from_space_id, to_space_id, from_version_id, to_version_id, position, verified)
		WHERE r.id = u.id
	`, ids, fromSpaces, toSpaces, fromVersions, toVersions, positions, verifieds)
}

// UnsetRelationFields clears flagged optional fields on existing
// relations, leaving unflagged fields untouched.
func (p *Postgres) UnsetRelationFields(ctx context.Context, unsets []model.RelationOp) error {
	if len(unsets) == 0 {
		return nil
	}

	ids := make([]string, len(unsets))
	clearFromSpace := make([]bool, len(unsets))
	clearToSpace := make([]bool, len(unsets))
	clearFromVersion := make([]bool, len(unsets))
	clearToVersion := make([]bool, len(unsets))
	clearPosition := make([]bool, len(unsets))
	clearVerified := make([]bool, len(unsets))

	for i, r := range unsets {
		ids[i] = r.ID
		clearFromSpace[i] = r.UnsetFlags.FromSpace
		clearToSpace[i] = r.UnsetFlags.ToSpace
		clearFromVersion[i] = r.UnsetFlags.FromVersion
		clearToVersion[i] = r.UnsetFlags.ToVersion
		clearPosition[i] = r.UnsetFlags.Position
		clearVerified[i] = r.UnsetFlags.Verified
	}

	return p.exec(ctx, "storage.UnsetRelationFields", `
		UPDATE relations AS r
		SET from_space_id   = CASE WHEN u.clear_from_space THEN NULL ELSE r.from_space_id END,
		    to_space_id     = CASE WHEN u.clear_to_space THEN NULL ELSE r.to_space_id END,
		    from_version_id = CASE WHEN u.clear_from_version THEN NULL ELSE r.from_version_id END,
		    to_version_id   = CASE WHEN u.clear_to_version THEN NULL ELSE r.to_version_id END,
		    position        = CASE WHEN u.clear_position THEN NULL ELSE r.position END,
		    verified        = CASE WHEN u.clear_verified THEN NULL ELSE r.verified END
		FROM UNNEST($1::text[], $2::bool[], $3::bool[], $4::bool[], $5::bool[], $6::bool[], $7::bool[])
		  AS u(id, clear_from_space, clear_to_space, clear_from_version, clear_to_version, clear_position, clear_verified)
		WHERE r.id = u.id
	`, ids, clearFromSpace, clearToSpace, clearFromVersion, clearToVersion, clearPosition, clearVerified)
}

// DeleteRelations removes the given relation ids scoped to spaceID.
func (p *Postgres) DeleteRelations(ctx context.Context, ids []string, spaceID string) error {
	if len(ids) == 0 {
		return nil
	}
	return p.exec(ctx, "storage.DeleteRelations",
		`DELETE FROM relations WHERE space_id = $1 AND id = ANY($2::text[])`, spaceID, ids)
}
