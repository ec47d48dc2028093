// Package storage is the durable relational store: idempotent bulk
// upserts for entities, values, relations, spaces, members, and
// editors, issued as UNNEST-backed multi-row statements.
package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geobrowser/kg-indexer/kgerror"
	"github.com/geobrowser/kg-indexer/metrics"
	"github.com/geobrowser/kg-indexer/model"
)

// Entity is one row of the entities table: a seen id stamped with
// the block that first and most recently touched it.
type Entity struct {
	ID              string
	CreatedAt       time.Time
	CreatedAtBlock  uint64
	UpdatedAt       time.Time
	UpdatedAtBlock  uint64
}

// SpaceItem wraps model.Space as a spaces row. InsertSpaces takes
// []model.Space directly.
type SpaceItem struct {
	model.Space
}

// MemberItem and EditorItem are the row shapes the membership writes
// use; both key on (space id, address).
type MemberItem struct {
	SpaceID string
	Address string
}

type EditorItem = MemberItem

// Backend is the storage contract every handler writes through.
// Every method is atomic at the call granularity and idempotent
// under repetition.
type Backend interface {
	InsertEntities(ctx context.Context, entities []Entity) error

	InsertValues(ctx context.Context, values []model.ValueOp) error
	DeleteValues(ctx context.Context, ids []string, spaceID string) error

	InsertRelations(ctx context.Context, sets []model.RelationOp) error
	UpdateRelations(ctx context.Context, updates []model.RelationOp) error
	UnsetRelationFields(ctx context.Context, unsets []model.RelationOp) error
	DeleteRelations(ctx context.Context, ids []string, spaceID string) error

	InsertProperties(ctx context.Context, props []model.Property) error
	InsertSpaces(ctx context.Context, spaces []model.Space) error

	InsertMembers(ctx context.Context, members []MemberItem) error
	RemoveMembers(ctx context.Context, members []MemberItem) error
	InsertEditors(ctx context.Context, editors []EditorItem) error
	RemoveEditors(ctx context.Context, editors []EditorItem) error

	Ping(ctx context.Context) error
}

// Postgres is the pgx-backed Backend implementation.
type Postgres struct {
	pool    *pgxpool.Pool
	metrics *metrics.Registry
}

// SetMetrics attaches a metrics registry so every exec call observes
// its duration under the "operation" label. Safe to leave unset; a
// nil registry simply skips the observation.
func (p *Postgres) SetMetrics(m *metrics.Registry) {
	p.metrics = m
}

// New opens a connection pool against connString sized to maxConns.
func New(ctx context.Context, connString string, maxConns int) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, kgerror.New(kgerror.CodeStorage, "storage.New", err)
	}
	cfg.MaxConns = int32(maxConns)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, kgerror.New(kgerror.CodeStorage, "storage.New", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, kgerror.New(kgerror.CodeStorage, "storage.New", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Ping checks the pool is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return kgerror.New(kgerror.CodeStorage, "storage.Ping", err)
	}
	return nil
}

// Pool exposes the underlying connection pool so cursorstore can
// share it rather than opening a second pool against the same
// database.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *Postgres) exec(ctx context.Context, op string, sql string, args ...any) error {
	start := time.Now()
	_, err := p.pool.Exec(ctx, sql, args...)
	if p.metrics != nil {
		p.metrics.StorageDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return kgerror.New(kgerror.CodeStorage, op, err)
	}
	return nil
}
