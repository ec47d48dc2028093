// Package dispatch fans a KgBlockData out to the storage backend:
// one handler per event family, run concurrently, any failure
// aborting the block.
package dispatch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/geobrowser/kg-indexer/model"
	"github.com/geobrowser/kg-indexer/normalize"
	"github.com/geobrowser/kg-indexer/properties"
	"github.com/geobrowser/kg-indexer/storage"
)

// Run schedules the edit, space, and membership handlers
// concurrently and waits for all of them. The first failure from any
// handler aborts the block; the caller must not persist the cursor
// if Run returns an error.
func Run(ctx context.Context, block model.KgBlockData, backend storage.Backend, props *properties.Cache) error {
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error { return runEditHandler(gctx, block, backend, props) })
	group.Go(func() error { return runSpaceHandler(gctx, block.Spaces, backend) })
	group.Go(func() error { return runMembershipHandler(gctx, block, backend) })

	return group.Wait()
}

// runEditHandler derives entities, values, and relations from every
// non-errored edit and writes them through backend.
func runEditHandler(ctx context.Context, block model.KgBlockData, backend storage.Backend, props *properties.Cache) error {
	var entities []storage.Entity
	var valueSets []model.ValueOp
	var relationSets, relationUpdates, relationUnsets []model.RelationOp
	valueDeletesBySpace := make(map[string][]string)
	relationDeletesBySpace := make(map[string][]string)

	seenEntities := make(map[string]struct{})

	for _, pe := range block.Edits {
		if pe.IsErrored || pe.Edit == nil {
			continue
		}

		normalized := normalize.Squash(pe.Edit, pe.SpaceID)

		for _, id := range normalized.SeenEntities {
			if _, ok := seenEntities[id]; ok {
				continue
			}
			seenEntities[id] = struct{}{}
			entities = append(entities, storage.Entity{
				ID:             id,
				CreatedAt:      block.Block.Timestamp,
				CreatedAtBlock: block.Block.BlockNumber,
				UpdatedAt:      block.Block.Timestamp,
				UpdatedAtBlock: block.Block.BlockNumber,
			})
		}

		valueSets = append(valueSets, normalized.ValueSets...)
		relationSets = append(relationSets, normalized.RelationSets...)
		relationUpdates = append(relationUpdates, normalized.RelationUpdates...)
		relationUnsets = append(relationUnsets, normalized.RelationUnsets...)

		if len(normalized.ValueDeletes) > 0 {
			valueDeletesBySpace[pe.SpaceID] = append(valueDeletesBySpace[pe.SpaceID], normalized.ValueDeletes...)
		}
		if len(normalized.RelationDeletes) > 0 {
			relationDeletesBySpace[pe.SpaceID] = append(relationDeletesBySpace[pe.SpaceID], normalized.RelationDeletes...)
		}

		recordPropertyTypes(pe.Edit, props)
	}

	if err := backend.InsertEntities(ctx, entities); err != nil {
		return err
	}
	if err := backend.InsertValues(ctx, valueSets); err != nil {
		return err
	}
	if err := backend.InsertRelations(ctx, relationSets); err != nil {
		return err
	}
	if err := backend.UpdateRelations(ctx, relationUpdates); err != nil {
		return err
	}
	if err := backend.UnsetRelationFields(ctx, relationUnsets); err != nil {
		return err
	}

	for spaceID, ids := range valueDeletesBySpace {
		if err := backend.DeleteValues(ctx, ids, spaceID); err != nil {
			return err
		}
	}
	for spaceID, ids := range relationDeletesBySpace {
		if err := backend.DeleteRelations(ctx, ids, spaceID); err != nil {
			return err
		}
	}

	return nil
}

// recordPropertyTypes is intentionally a no-op: neither the op set
// (model.Op) nor the underlying wire schema carries a data-type
// declaration event anywhere, only (property-id, value) pairs, so
// there is no edit-derived signal to populate props with in this
// scope. props and storage.InsertProperties remain wired as read-only
// infrastructure for a future event that does declare property types;
// this is a scope decision, not an oversight.
func recordPropertyTypes(_ *model.Edit, _ *properties.Cache) {}

func runSpaceHandler(ctx context.Context, spaces []model.Space, backend storage.Backend) error {
	return backend.InsertSpaces(ctx, spaces)
}

func runMembershipHandler(ctx context.Context, block model.KgBlockData, backend storage.Backend) error {
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := backend.InsertMembers(gctx, toMemberItems(block.AddedMembers)); err != nil {
			return err
		}
		return backend.RemoveMembers(gctx, toMemberItems(block.RemovedMembers))
	})

	group.Go(func() error {
		if err := backend.InsertEditors(gctx, toMemberItems(block.AddedEditors)); err != nil {
			return err
		}
		return backend.RemoveEditors(gctx, toMemberItems(block.RemovedEditors))
	})

	return group.Wait()
}

func toMemberItems(assertions []model.MembershipAssertion) []storage.MemberItem {
	items := make([]storage.MemberItem, len(assertions))
	for i, a := range assertions {
		items[i] = storage.MemberItem{SpaceID: a.SpaceID, Address: a.Address}
	}
	return items
}
