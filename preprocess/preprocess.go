// Package preprocess resolves one block's raw events into a
// KgBlockData: edits fetched through the side cache, spaces matched
// to their plugin variant, and membership events flattened.
package preprocess

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/geobrowser/kg-indexer/cache"
	"github.com/geobrowser/kg-indexer/config"
	"github.com/geobrowser/kg-indexer/events"
	"github.com/geobrowser/kg-indexer/ident"
	"github.com/geobrowser/kg-indexer/metrics"
	"github.com/geobrowser/kg-indexer/model"
)

// maxInFlightFetches bounds concurrent cache lookups within one
// block so a large edit batch cannot exhaust the cache pool.
const maxInFlightFetches = 20

// Run decodes raw, resolves every edit concurrently through
// cacheClient, matches spaces to plugins, and flattens membership
// events into one KgBlockData. A decode error is fatal for the
// block; cache database errors (after retry) are fatal; cache misses
// are not. reg may be nil; when set, it observes blocklisted drops.
func Run(ctx context.Context, raw []byte, block model.BlockMetadata, network string, cacheClient cache.Getter, retryCfg config.RetryConfig, reg *metrics.Registry) (model.KgBlockData, error) {
	out, err := events.Decode(raw)
	if err != nil {
		return model.KgBlockData{}, err
	}

	edits, err := resolveEdits(ctx, out.EditsPublished, network, cacheClient, retryCfg, reg)
	if err != nil {
		return model.KgBlockData{}, err
	}

	spaces := matchSpacesWithPlugins(network, out.SpacesCreated, out.GovernancePluginsCreated, out.PersonalPluginsCreated)

	return model.KgBlockData{
		Block:  block,
		Edits:  edits,
		Spaces: spaces,

		AddedEditors:   mapAddedEditors(network, out.EditorsAdded, out.InitialEditorsAdded),
		RemovedEditors: mapRemovedEditors(network, out.EditorsRemoved),
		AddedMembers:   mapAddedMembers(network, out.MembersAdded),
		RemovedMembers: mapRemovedMembers(network, out.MembersRemoved),
	}, nil
}

// resolveEdits fetches every edit concurrently, bounded by
// maxInFlightFetches in-flight lookups. Result order is unspecified
// relative to editsPublished.
func resolveEdits(ctx context.Context, editsPublished []events.EditPublished, network string, cacheClient cache.Getter, retryCfg config.RetryConfig, reg *metrics.Registry) ([]model.PreprocessedEdit, error) {
	sem := semaphore.NewWeighted(maxInFlightFetches)
	group, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	var edits []model.PreprocessedEdit

	for _, ep := range editsPublished {
		if ident.IsBlockedDao(ep.DaoAddress) {
			if reg != nil {
				reg.EditsBlocklisted.Inc()
			}
			continue
		}
		ep := ep

		if err := sem.Acquire(gctx, 1); err != nil {
			return nil, err
		}

		group.Go(func() error {
			defer sem.Release(1)

			spaceID := ident.DeriveSpaceID(network, ep.DaoAddress).String()

			result, err := cacheClient.Get(gctx, ep.ContentURI, retryCfg)
			if err != nil {
				return err
			}

			var preprocessed model.PreprocessedEdit
			if result.IsErrored || result.Edit == nil {
				preprocessed = model.PreprocessedEdit{IsErrored: true, SpaceID: spaceID}
			} else {
				preprocessed = model.PreprocessedEdit{Edit: result.Edit, SpaceID: spaceID}
			}

			mu.Lock()
			edits = append(edits, preprocessed)
			mu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return edits, nil
}
