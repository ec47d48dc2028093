package normalize

import "github.com/geobrowser/kg-indexer/model"

// mergeFields overrides existing optional relation fields with
// incoming ones: incoming Some wins, incoming None keeps existing.
func mergeFields(existing, incoming model.RelationFields) model.RelationFields {
	merged := existing
	if incoming.FromSpace != nil {
		merged.FromSpace = incoming.FromSpace
	}
	if incoming.ToSpace != nil {
		merged.ToSpace = incoming.ToSpace
	}
	if incoming.FromVersion != nil {
		merged.FromVersion = incoming.FromVersion
	}
	if incoming.ToVersion != nil {
		merged.ToVersion = incoming.ToVersion
	}
	if incoming.Position != nil {
		merged.Position = incoming.Position
	}
	if incoming.Verified != nil {
		merged.Verified = incoming.Verified
	}
	return merged
}

// clearFields clears whichever optional fields flags marks true,
// leaving the rest of existing untouched.
func clearFields(existing model.RelationFields, flags model.UnsetFlags) model.RelationFields {
	cleared := existing
	if flags.FromSpace {
		cleared.FromSpace = nil
	}
	if flags.ToSpace {
		cleared.ToSpace = nil
	}
	if flags.FromVersion {
		cleared.FromVersion = nil
	}
	if flags.ToVersion {
		cleared.ToVersion = nil
	}
	if flags.Position {
		cleared.Position = nil
	}
	if flags.Verified {
		cleared.Verified = nil
	}
	return cleared
}

// relationFromOp converts a single op into its standalone RelationOp,
// used when there is no existing entry for this relation id yet.
func relationFromOp(spaceID string, op model.Op) model.RelationOp {
	switch op.Kind {
	case model.OpCreateRelation:
		return model.RelationOp{
			Change:   model.RelationSet,
			ID:       op.RelationID,
			SpaceID:  spaceID,
			EntityID: op.RelationEntity,
			TypeID:   op.TypeID,
			FromID:   op.FromEntity,
			ToID:     op.ToEntity,
			Fields:   op.Fields,
		}
	case model.OpUpdateRelation:
		return model.RelationOp{
			Change:  model.RelationUpdate,
			ID:      op.RelationID,
			SpaceID: spaceID,
			Fields:  op.Fields,
		}
	case model.OpUnsetRelationFields:
		return model.RelationOp{
			Change:     model.RelationUnset,
			ID:         op.RelationID,
			SpaceID:    spaceID,
			UnsetFlags: op.Unset,
		}
	case model.OpDeleteRelation:
		return model.RelationOp{
			Change:  model.RelationDelete,
			ID:      op.RelationID,
			SpaceID: spaceID,
		}
	}
	return model.RelationOp{}
}

// mergeRelation merges an incoming op into an existing squashed
// entry per the table in the normalizer design: existing rows are
// Create/Update/Unset/Delete, incoming columns are the same. Unset as
// existing state is treated identically to Update.
func mergeRelation(existing model.RelationOp, op model.Op) model.RelationOp {
	existingChange := existing.Change
	if existingChange == model.RelationUnset {
		existingChange = model.RelationUpdate
	}

	switch existingChange {
	case model.RelationDelete:
		switch op.Kind {
		case model.OpCreateRelation, model.OpUpdateRelation:
			return relationFromOp(existing.SpaceID, op)
		default:
			// Unset or Delete incoming on a deleted relation: no-op.
			return existing
		}

	case model.RelationUpdate:
		switch op.Kind {
		case model.OpCreateRelation:
			return relationFromOp(existing.SpaceID, op)
		case model.OpUpdateRelation:
			return model.RelationOp{
				Change:   model.RelationUpdate,
				ID:       existing.ID,
				SpaceID:  existing.SpaceID,
				EntityID: existing.EntityID,
				TypeID:   existing.TypeID,
				FromID:   existing.FromID,
				ToID:     existing.ToID,
				Fields:   mergeFields(existing.Fields, op.Fields),
			}
		case model.OpUnsetRelationFields:
			return model.RelationOp{
				Change:   model.RelationUpdate,
				ID:       existing.ID,
				SpaceID:  existing.SpaceID,
				EntityID: existing.EntityID,
				TypeID:   existing.TypeID,
				FromID:   existing.FromID,
				ToID:     existing.ToID,
				Fields:   clearFields(existing.Fields, op.Unset),
			}
		case model.OpDeleteRelation:
			return relationFromOp(existing.SpaceID, op)
		}

	case model.RelationSet:
		switch op.Kind {
		case model.OpCreateRelation:
			return relationFromOp(existing.SpaceID, op)
		case model.OpUpdateRelation:
			return model.RelationOp{
				Change:   model.RelationSet,
				ID:       existing.ID,
				SpaceID:  existing.SpaceID,
				EntityID: existing.EntityID,
				TypeID:   existing.TypeID,
				FromID:   existing.FromID,
				ToID:     existing.ToID,
				Fields:   mergeFields(existing.Fields, op.Fields),
			}
		case model.OpUnsetRelationFields:
			return model.RelationOp{
				Change:   model.RelationSet,
				ID:       existing.ID,
				SpaceID:  existing.SpaceID,
				EntityID: existing.EntityID,
				TypeID:   existing.TypeID,
				FromID:   existing.FromID,
				ToID:     existing.ToID,
				Fields:   clearFields(existing.Fields, op.Unset),
			}
		case model.OpDeleteRelation:
			return relationFromOp(existing.SpaceID, op)
		}
	}

	return existing
}

// squashRelations collapses every relation-mutating op in ops into a
// map keyed by relation id, per the merge table.
func squashRelations(spaceID string, ops []model.Op) map[string]model.RelationOp {
	result := make(map[string]model.RelationOp)

	for _, op := range ops {
		switch op.Kind {
		case model.OpCreateRelation, model.OpUpdateRelation, model.OpUnsetRelationFields, model.OpDeleteRelation:
		default:
			continue
		}

		if existing, ok := result[op.RelationID]; ok {
			result[op.RelationID] = mergeRelation(existing, op)
		} else {
			result[op.RelationID] = relationFromOp(spaceID, op)
		}
	}

	return result
}

// partitionRelations splits a squashed relation map into its four
// result buckets.
func partitionRelations(squashed map[string]model.RelationOp) (sets, updates, unsets []model.RelationOp, deletes []string) {
	for id, r := range squashed {
		switch r.Change {
		case model.RelationSet:
			sets = append(sets, r)
		case model.RelationUpdate:
			updates = append(updates, r)
		case model.RelationUnset:
			unsets = append(unsets, r)
		case model.RelationDelete:
			deletes = append(deletes, id)
		}
	}
	return sets, updates, unsets, deletes
}
