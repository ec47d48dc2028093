package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/geobrowser/kg-indexer/kgerror"
	"github.com/geobrowser/kg-indexer/metrics"
)

func TestCacheMissIsNotRetried(t *testing.T) {
	err := kgerror.New(kgerror.CodeCacheMiss, "cache.fetch", errors.New("no rows"))
	assert.False(t, kgerror.Retriable(err))
}

func TestCacheDatabaseErrorIsRetried(t *testing.T) {
	err := kgerror.New(kgerror.CodeCacheDB, "cache.fetch", errors.New("connection reset"))
	assert.True(t, kgerror.Retriable(err))
}

func TestPermanentWrapPreservesUnderlyingCode(t *testing.T) {
	inner := kgerror.New(kgerror.CodeCacheMiss, "cache.fetch", errors.New("no rows"))
	wrapped := backoff.Permanent(inner)

	var kgErr *kgerror.Error
	assert.True(t, errors.As(wrapped, &kgErr))
	assert.Equal(t, kgerror.CodeCacheMiss, kgErr.Code)
}

func TestSetMetricsWiresCacheRetriesOnEachNotify(t *testing.T) {
	reg := metrics.New()
	client := &Client{}
	client.SetMetrics(reg)

	notify := func(error, time.Duration) {
		if client.metrics != nil {
			client.metrics.CacheRetries.Inc()
		}
	}

	attempts := 0
	operation := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}

	err := backoff.RetryNotify(operation, backoff.NewConstantBackOff(time.Millisecond), notify)
	assert.NoError(t, err)
	assert.Equal(t, float64(2), testutil.ToFloat64(reg.CacheRetries))
}
