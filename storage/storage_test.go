package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geobrowser/kg-indexer/metrics"
	"github.com/geobrowser/kg-indexer/model"
)

// An empty batch must short-circuit before touching the pool, so a
// zero-value Postgres (nil pool) is safe to call directly.
func TestEmptyBatchesNeverTouchThePool(t *testing.T) {
	p := &Postgres{}
	ctx := context.Background()

	assert.NoError(t, p.InsertEntities(ctx, nil))
	assert.NoError(t, p.InsertValues(ctx, nil))
	assert.NoError(t, p.DeleteValues(ctx, nil, "space"))
	assert.NoError(t, p.InsertRelations(ctx, nil))
	assert.NoError(t, p.UpdateRelations(ctx, nil))
	assert.NoError(t, p.UnsetRelationFields(ctx, nil))
	assert.NoError(t, p.DeleteRelations(ctx, nil, "space"))
	assert.NoError(t, p.InsertProperties(ctx, nil))
	assert.NoError(t, p.InsertSpaces(ctx, nil))
	assert.NoError(t, p.InsertMembers(ctx, nil))
	assert.NoError(t, p.RemoveMembers(ctx, nil))
	assert.NoError(t, p.InsertEditors(ctx, nil))
	assert.NoError(t, p.RemoveEditors(ctx, nil))
}

func TestBackendInterfaceSatisfiedByPostgres(t *testing.T) {
	var _ Backend = (*Postgres)(nil)
}

func TestSetMetricsStoresRegistry(t *testing.T) {
	p := &Postgres{}
	reg := metrics.New()
	p.SetMetrics(reg)
	assert.Same(t, reg, p.metrics)
}

func TestEntityRowFieldsSurviveConstruction(t *testing.T) {
	e := Entity{ID: "e1", CreatedAtBlock: 10, UpdatedAtBlock: 12}
	assert.Equal(t, "e1", e.ID)
	assert.Equal(t, uint64(10), e.CreatedAtBlock)
}

func TestMemberItemIsSharedWithEditorItem(t *testing.T) {
	var e EditorItem = MemberItem{SpaceID: "s", Address: "a"}
	assert.Equal(t, "s", e.SpaceID)
	_ = model.RoleEditor
}
