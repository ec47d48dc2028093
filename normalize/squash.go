package normalize

import "github.com/geobrowser/kg-indexer/model"

// Squash collapses edit's ops into a NormalizedEdit: final value and
// relation changes, plus every entity id the edit touched, in
// declaration order per spec 4.2.
func Squash(edit *model.Edit, spaceID string) model.NormalizedEdit {
	valueSets, valueDeletes := partitionValues(squashValues(spaceID, edit.Ops))
	relationSets, relationUpdates, relationUnsets, relationDeletes := partitionRelations(squashRelations(spaceID, edit.Ops))

	return model.NormalizedEdit{
		SpaceID: spaceID,

		ValueSets:    valueSets,
		ValueDeletes: valueDeletes,

		RelationSets:    relationSets,
		RelationUpdates: relationUpdates,
		RelationUnsets:  relationUnsets,
		RelationDeletes: relationDeletes,

		SeenEntities: seenEntities(edit.Ops),
	}
}

// seenEntities collects every entity id an op mentions, either as
// subject or as a relation endpoint, deduplicated in first-seen
// order.
func seenEntities(ops []model.Op) []string {
	seen := make(map[string]struct{})
	var ordered []string

	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}

	for _, op := range ops {
		switch op.Kind {
		case model.OpUpdateEntity, model.OpUnsetEntityValues, model.OpDeleteEntity:
			add(op.EntityID)
		case model.OpCreateRelation:
			add(op.RelationID)
			add(op.RelationEntity)
			add(op.FromEntity)
			add(op.ToEntity)
		case model.OpUpdateRelation, model.OpUnsetRelationFields, model.OpDeleteRelation:
			add(op.RelationID)
		}
	}

	return ordered
}
