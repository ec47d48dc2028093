// Package properties holds the process-wide, first-write-wins map
// from property id to data type.
package properties

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/geobrowser/kg-indexer/kgerror"
	"github.com/geobrowser/kg-indexer/model"
)

// Cache is a concurrency-safe, append-only map from property id to
// data type. Once a key is inserted, its value never changes.
type Cache struct {
	mu  sync.RWMutex
	log *logrus.Logger
	m   map[string]model.DataType
}

// New returns an empty cache. log may be nil, in which case a default
// logrus logger (stderr, info level) is used.
func New(log *logrus.Logger) *Cache {
	if log == nil {
		log = logrus.New()
	}
	return &Cache{log: log, m: make(map[string]model.DataType)}
}

// Get returns the data type registered for id, or a NotFound error.
func (c *Cache) Get(id string) (model.DataType, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dt, ok := c.m[id]
	if !ok {
		return 0, kgerror.New(kgerror.CodeCacheMiss, "properties.Get", nil)
	}
	return dt, nil
}

// Insert records id → dataType if id is not already present. A
// repeated insert for an existing key is a no-op, logged at warn
// level, and never changes the stored value.
func (c *Cache) Insert(id string, dataType model.DataType) {
	c.mu.RLock()
	_, exists := c.m[id]
	c.mu.RUnlock()
	if exists {
		c.log.WithField("property_id", id).Warn("ignoring duplicate property insert")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.m[id]; exists {
		c.log.WithField("property_id", id).Warn("ignoring duplicate property insert")
		return
	}
	c.m[id] = dataType
}

// InsertAll inserts each property, skipping any id already present.
func (c *Cache) InsertAll(props []model.Property) {
	for _, p := range props {
		c.Insert(p.ID, p.DataType)
	}
}

// Len returns the number of distinct properties recorded.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
