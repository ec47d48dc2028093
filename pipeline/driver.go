package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/geobrowser/kg-indexer/cache"
	"github.com/geobrowser/kg-indexer/config"
	"github.com/geobrowser/kg-indexer/cursorstore"
	"github.com/geobrowser/kg-indexer/dispatch"
	"github.com/geobrowser/kg-indexer/kgerror"
	"github.com/geobrowser/kg-indexer/log"
	"github.com/geobrowser/kg-indexer/metrics"
	"github.com/geobrowser/kg-indexer/model"
	"github.com/geobrowser/kg-indexer/preprocess"
	"github.com/geobrowser/kg-indexer/properties"
	"github.com/geobrowser/kg-indexer/storage"
	"github.com/geobrowser/kg-indexer/substream"
)

// Stream is the upstream block subscription the driver consumes.
// substream.Client satisfies it; tests substitute a fake.
type Stream interface {
	Subscribe(ctx context.Context, log *logrus.Entry, sub substream.Subscription) (<-chan substream.Frame, error)
}

// UndoHook is invoked when the stream signals a reorg past a
// previously observed cursor. The spec leaves the rewind mechanics to
// this collaborator; the driver's only obligation is to call it
// before persisting the new cursor.
type UndoHook func(ctx context.Context, lastValidCursor string) error

// CursorStore is the subset of cursorstore.Store the driver needs.
// cursorstore.Store satisfies it; tests substitute a fake.
type CursorStore interface {
	Load(ctx context.Context, id string) (cursorstore.Cursor, bool, error)
	Persist(ctx context.Context, id string, c cursorstore.Cursor) error
}

// Driver owns the stream subscription state machine: read the
// persisted cursor, subscribe, and for every frame run preprocess
// then dispatch in strict order, persisting the cursor only after a
// block fully commits.
type Driver struct {
	Stream      Stream
	Cache       cache.Getter
	Backend     storage.Backend
	Props       *properties.Cache
	Cursors     CursorStore
	Metrics     *metrics.Registry
	Log         *logrus.Logger
	Network     string
	CursorID    string
	RetryConfig config.RetryConfig
	OnUndo      UndoHook

	phase Phase
}

// Run drives the state machine to completion: Idle, Connecting,
// then an alternating Streaming/Processing loop until the stream
// closes cleanly (Terminated, nil) or a block fails (non-nil error,
// process exits non-zero per spec — the driver does not advance the
// cursor for a failed block and returns immediately).
func (d *Driver) Run(ctx context.Context, sub substream.Subscription) error {
	d.phase = PhaseIdle

	cursor, found, err := d.Cursors.Load(ctx, d.CursorID)
	if err != nil {
		return err
	}
	if found {
		sub.Cursor = cursor.Cursor
	}

	d.phase = PhaseConnecting
	entry := d.Log.WithFields(log.Fields("pipeline", uint64(sub.StartBlock), sub.Cursor))

	frames, err := d.Stream.Subscribe(ctx, entry, sub)
	if err != nil {
		return kgerror.New(kgerror.CodeStream, "pipeline.Run", err)
	}

	d.phase = PhaseStreaming

	for {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-frames:
			if !ok {
				d.phase = PhaseTerminated
				return nil
			}

			if err := d.handleFrame(ctx, frame); err != nil {
				return err
			}
		}
	}
}

func (d *Driver) handleFrame(ctx context.Context, frame substream.Frame) error {
	switch frame.Kind {
	case substream.FrameUndo:
		if !d.phase.CanTransitionTo(PhaseRewinding) {
			return kgerror.New(kgerror.CodeTask, "pipeline.handleFrame", errIllegalTransition)
		}
		d.phase = PhaseRewinding

		if d.OnUndo != nil {
			if err := d.OnUndo(ctx, frame.LastValidCursor); err != nil {
				return err
			}
		}
		if err := d.Cursors.Persist(ctx, d.CursorID, cursorstore.Cursor{Cursor: frame.LastValidCursor}); err != nil {
			return err
		}

		d.phase = PhaseStreaming
		return nil

	case substream.FrameBlock:
		if !d.phase.CanTransitionTo(PhaseProcessing) {
			return kgerror.New(kgerror.CodeTask, "pipeline.handleFrame", errIllegalTransition)
		}
		d.phase = PhaseProcessing

		if err := d.processBlock(ctx, frame); err != nil {
			return err
		}

		d.phase = PhaseStreaming
		return nil

	default:
		return kgerror.New(kgerror.CodeTask, "pipeline.handleFrame", errUnknownFrameKind)
	}
}

// processBlock runs preprocess then dispatch for one block in strict
// order and persists the cursor only once both succeed.
func (d *Driver) processBlock(ctx context.Context, frame substream.Frame) error {
	block := model.BlockMetadata{
		Cursor:      frame.Cursor,
		BlockNumber: frame.BlockNumber,
		Timestamp:   frame.Timestamp,
	}
	entry := d.Log.WithFields(log.Fields("pipeline", block.BlockNumber, block.Cursor))

	data, err := preprocess.Run(ctx, frame.Output, block, d.Network, d.Cache, d.RetryConfig, d.Metrics)
	if err != nil {
		entry.WithError(err).Error("preprocess failed, block not committed")
		return err
	}

	start := time.Now()
	if err := dispatch.Run(ctx, data, d.Backend, d.Props); err != nil {
		entry.WithError(err).Error("dispatch failed, block not committed")
		return err
	}
	if d.Metrics != nil {
		d.Metrics.DispatchDuration.Observe(time.Since(start).Seconds())
	}

	if err := d.Cursors.Persist(ctx, d.CursorID, cursorstore.Cursor{Cursor: block.Cursor, BlockNumber: block.BlockNumber}); err != nil {
		entry.WithError(err).Error("cursor persist failed after successful dispatch")
		return err
	}

	if d.Metrics != nil {
		d.Metrics.BlocksProcessed.Inc()
		for _, e := range data.Edits {
			if e.IsErrored {
				d.Metrics.EditsErrored.Inc()
			} else {
				d.Metrics.EditsResolved.Inc()
			}
		}
	}

	entry.Info("block committed")
	return nil
}
