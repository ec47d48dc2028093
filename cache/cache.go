// Package cache resolves an edit's content-addressed URI against the
// side cache table populated by an external fetcher, retrying
// transient database errors with backoff.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geobrowser/kg-indexer/config"
	"github.com/geobrowser/kg-indexer/kgerror"
	"github.com/geobrowser/kg-indexer/metrics"
	"github.com/geobrowser/kg-indexer/model"
)

// Result is one resolved side cache lookup: either a decoded edit or
// a permanent not-found/errored marker. Database errors are retried
// inside Get and, like decode errors, are returned as its error
// value rather than in a Result.
type Result struct {
	Edit      *model.Edit
	IsErrored bool
	SpaceID   string
}

// Getter resolves a content-addressed URI. Implemented by Client;
// exists so callers can substitute a fake in tests.
type Getter interface {
	Get(ctx context.Context, uri string, retryCfg config.RetryConfig) (Result, error)
}

// Client reads the ipfs_cache table populated by an external
// content-addressed fetcher.
type Client struct {
	pool    *pgxpool.Pool
	metrics *metrics.Registry
}

// SetMetrics attaches a metrics registry so every retried lookup
// increments CacheRetries. Safe to leave unset.
func (c *Client) SetMetrics(m *metrics.Registry) {
	c.metrics = m
}

// New opens a connection pool against connString sized to maxConns.
func New(ctx context.Context, connString string, maxConns int) (*Client, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, kgerror.New(kgerror.CodeCacheDB, "cache.New", err)
	}
	cfg.MaxConns = int32(maxConns)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, kgerror.New(kgerror.CodeCacheDB, "cache.New", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, kgerror.New(kgerror.CodeCacheDB, "cache.New", err)
	}

	return &Client{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() {
	c.pool.Close()
}

// cachedRow mirrors the columns read back from ipfs_cache.
type cachedRow struct {
	json      []byte
	isErrored bool
	spaceID   string
}

func (c *Client) fetch(ctx context.Context, uri string) (cachedRow, error) {
	var row cachedRow
	err := c.pool.QueryRow(ctx, `SELECT json, is_errored, space FROM ipfs_cache WHERE uri = $1`, uri).
		Scan(&row.json, &row.isErrored, &row.spaceID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return cachedRow{}, kgerror.New(kgerror.CodeCacheMiss, "cache.fetch", err)
		}
		return cachedRow{}, kgerror.New(kgerror.CodeCacheDB, "cache.fetch", err)
	}
	return row, nil
}

// Get resolves uri, retrying database errors with exponential
// backoff and jitter per retryCfg. A not-found or deserialize result
// never retries: not-found resolves to an errored PreprocessedEdit,
// deserialize propagates as an error.
func (c *Client) Get(ctx context.Context, uri string, retryCfg config.RetryConfig) (Result, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryCfg.BaseDelay
	bo.MaxInterval = retryCfg.MaxDelay
	bo.Multiplier = retryCfg.Factor
	bo.MaxElapsedTime = 0

	var row cachedRow
	operation := func() error {
		r, err := c.fetch(ctx, uri)
		if err != nil {
			if kgerror.Retriable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		row = r
		return nil
	}

	notify := func(error, time.Duration) {
		if c.metrics != nil {
			c.metrics.CacheRetries.Inc()
		}
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), notify)
	if err != nil {
		var kgErr *kgerror.Error
		if errors.As(err, &kgErr) && kgErr.Code == kgerror.CodeCacheMiss {
			return Result{IsErrored: true}, nil
		}
		return Result{}, err
	}

	if row.isErrored {
		return Result{IsErrored: true, SpaceID: row.spaceID}, nil
	}

	var edit model.Edit
	if err := json.Unmarshal(row.json, &edit); err != nil {
		return Result{}, kgerror.New(kgerror.CodeCacheDecode, "cache.Get", err)
	}

	return Result{Edit: &edit, SpaceID: row.spaceID}, nil
}
