package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geobrowser/kg-indexer/model"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestSquashRelationCreateThenUpdate(t *testing.T) {
	ops := []model.Op{
		{
			Kind:           model.OpCreateRelation,
			RelationID:     "R",
			RelationEntity: "R-entity",
			TypeID:         "T",
			FromEntity:     "A",
			ToEntity:       "B",
			Fields: model.RelationFields{
				Position: strPtr("pos1"),
				Verified: boolPtr(true),
				ToSpace:  strPtr("S1"),
			},
		},
		{
			Kind:       model.OpUpdateRelation,
			RelationID: "R",
			Fields: model.RelationFields{
				Position: strPtr("updated"),
				Verified: boolPtr(false),
			},
		},
	}

	result := Squash(&model.Edit{Ops: ops}, "space-1")

	require.Len(t, result.RelationSets, 1)
	assert.Empty(t, result.RelationUpdates)

	set := result.RelationSets[0]
	assert.Equal(t, "R", set.ID)
	assert.Equal(t, "R-entity", set.EntityID)
	assert.Equal(t, "updated", *set.Fields.Position)
	assert.False(t, *set.Fields.Verified)
	assert.Equal(t, "S1", *set.Fields.ToSpace)
}

func TestSquashRelationCreateThenDelete(t *testing.T) {
	ops := []model.Op{
		{Kind: model.OpCreateRelation, RelationID: "R", TypeID: "T", FromEntity: "A", ToEntity: "B"},
		{Kind: model.OpDeleteRelation, RelationID: "R"},
	}

	result := Squash(&model.Edit{Ops: ops}, "space-1")

	assert.Empty(t, result.RelationSets)
	assert.Empty(t, result.RelationUpdates)
	assert.Empty(t, result.RelationUnsets)
	assert.Equal(t, []string{"R"}, result.RelationDeletes)
}

func TestSquashRelationDeleteThenCreate(t *testing.T) {
	ops := []model.Op{
		{Kind: model.OpDeleteRelation, RelationID: "R"},
		{Kind: model.OpCreateRelation, RelationID: "R", TypeID: "T", FromEntity: "A", ToEntity: "B",
			Fields: model.RelationFields{Position: strPtr("fresh")}},
	}

	result := Squash(&model.Edit{Ops: ops}, "space-1")

	require.Len(t, result.RelationSets, 1)
	assert.Equal(t, "fresh", *result.RelationSets[0].Fields.Position)
	assert.Empty(t, result.RelationDeletes)
}

func TestSquashRelationUnsetAsExistingFallsThroughToUpdate(t *testing.T) {
	ops := []model.Op{
		{Kind: model.OpUnsetRelationFields, RelationID: "R", Unset: model.UnsetFlags{Position: true}},
		{Kind: model.OpCreateRelation, RelationID: "R", TypeID: "T", FromEntity: "A", ToEntity: "B"},
	}

	result := Squash(&model.Edit{Ops: ops}, "space-1")

	require.Len(t, result.RelationSets, 1)
	assert.Equal(t, "R", result.RelationSets[0].ID)
	assert.Empty(t, result.RelationUnsets)
}

func TestSquashValueSetThenDelete(t *testing.T) {
	ops := []model.Op{
		{Kind: model.OpUpdateEntity, EntityID: "e", Values: []model.ValueEntry{{PropertyID: "p", Value: "v1"}}},
		{Kind: model.OpUnsetEntityValues, EntityID: "e", PropertyIDs: []string{"p"}},
	}

	result := Squash(&model.Edit{Ops: ops}, "space-1")

	assert.Empty(t, result.ValueSets)
	require.Len(t, result.ValueDeletes, 1)
	assert.Equal(t, "e:p:space-1", result.ValueDeletes[0])
}

func TestSquashValueDeleteThenSet(t *testing.T) {
	ops := []model.Op{
		{Kind: model.OpUnsetEntityValues, EntityID: "e", PropertyIDs: []string{"p"}},
		{Kind: model.OpUpdateEntity, EntityID: "e", Values: []model.ValueEntry{{PropertyID: "p", Value: "v1"}}},
	}

	result := Squash(&model.Edit{Ops: ops}, "space-1")

	require.Len(t, result.ValueSets, 1)
	assert.Equal(t, "v1", *result.ValueSets[0].Value)
	assert.Empty(t, result.ValueDeletes)
}

func TestSeenEntitiesDedupAndEndpoints(t *testing.T) {
	ops := []model.Op{
		{Kind: model.OpUpdateEntity, EntityID: "e1", Values: []model.ValueEntry{{PropertyID: "p", Value: "v"}}},
		{Kind: model.OpCreateRelation, RelationID: "r1", RelationEntity: "r1-entity", FromEntity: "e1", ToEntity: "e2"},
	}

	result := Squash(&model.Edit{Ops: ops}, "space-1")

	assert.Equal(t, []string{"e1", "r1", "r1-entity", "e2"}, result.SeenEntities)
}

func TestSanitizeUTF8ReplacesInvalidBytes(t *testing.T) {
	invalid := string([]byte{0xff, 0xfe})
	assert.NotEqual(t, invalid, sanitizeUTF8(invalid))
}
