// Package cache keeps rendered boards keyed by format, theme and placement.
package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const DefaultTTL = 10 * time.Minute

// Cache is a badger-backed byte cache with per-entry TTL
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens a cache in dir. An empty dir keeps everything in memory.
func Open(dir string, ttl time.Duration) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{db: db, ttl: ttl}, nil
}

// Key builds the cache key for one rendering
func Key(format, theme, placement string) []byte {
	return []byte(format + "|" + theme + "|" + placement)
}

// Get returns a copy of the cached value
func (c *Cache) Get(key []byte) ([]byte, bool) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return value, true
}

// Set stores value under key until the TTL expires
func (c *Cache) Set(key, value []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, value).WithTTL(c.ttl))
	})
}

func (c *Cache) Close() error {
	return c.db.Close()
}
