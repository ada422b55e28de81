package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/aislemate/backend/internal/domain"
	"github.com/dgraph-io/badger/v3"
)

const badgerGCInterval = 10 * time.Minute

// BadgerCache persists entries in an embedded BadgerDB so they survive restarts
type BadgerCache struct {
	db *badger.DB

	stop      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewBadgerCache opens (or creates) a BadgerDB database in dataDir
func NewBadgerCache(dataDir string) (*BadgerCache, error) {
	absPath, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	opts := badger.DefaultOptions(absPath)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open BadgerDB: %v", domain.ErrCacheUnavailable, err)
	}

	log.Printf("[CACHE] BadgerDB opened at %s", absPath)

	c := &BadgerCache{db: db, stop: make(chan struct{})}
	go c.runGC(badgerGCInterval)

	return c, nil
}

// Get retrieves a value; expired entries are reported as misses by Badger itself
func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return data, nil
}

// Set stores a value with TTL. A non-positive TTL never expires.
func (c *BadgerCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := badger.NewEntry([]byte(key), value)
	if ttl > 0 {
		entry = entry.WithTTL(ttl)
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Delete removes a value
func (c *BadgerCache) Delete(ctx context.Context, key string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Exists checks if a live key is present
func (c *BadgerCache) Exists(ctx context.Context, key string) (bool, error) {
	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return true, nil
}

// Close stops value-log GC and closes the database
func (c *BadgerCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stop)
		c.closeErr = c.db.Close()
	})
	return c.closeErr
}

func (c *BadgerCache) runGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if err := c.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				log.Printf("[CACHE] BadgerDB GC error: %v", err)
			}
		}
	}
}
