// Package boltengine provides the alternative storage backend: the same
// engine capability as the log engine, backed by a bbolt B+tree file. Space
// reclamation is owned by bbolt itself, so there is no compactor here.
package boltengine

import (
	"log/slog"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/jassi-singh/kvs/internal/engine"
	"github.com/jassi-singh/kvs/internal/kverrors"
)

const dbFileName = "data.db"

var bucketName = []byte("kv")

// Engine is a bbolt-backed implementation of engine.Engine. All operations
// run inside bbolt transactions, so no additional locking is needed.
type Engine struct {
	db *bolt.DB
}

var _ engine.Engine = (*Engine)(nil)

// Open creates dir if absent and opens (creating if necessary) the bbolt
// database file inside it.
func Open(dir string) (*Engine, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, kverrors.IO(err)
	}
	db, err := bolt.Open(filepath.Join(dir, dbFileName), 0o644, nil)
	if err != nil {
		return nil, kverrors.Backend(err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, kverrors.Backend(err)
	}
	slog.Info("boltengine: opened", "dir", dir)
	return &Engine{db: db}, nil
}

// Set implements engine.Engine.
func (e *Engine) Set(key, value string) error {
	err := e.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return kverrors.Backend(err)
	}
	return nil
}

// Get implements engine.Engine. The returned bytes are copied out of the
// read transaction: bbolt's slices are only valid while the transaction is
// open.
func (e *Engine) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := e.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return nil
		}
		value = string(v)
		found = true
		return nil
	})
	if err != nil {
		return "", false, kverrors.Backend(err)
	}
	return value, found, nil
}

// Remove implements engine.Engine. bbolt's Delete is a no-op for absent
// keys, so presence is checked inside the same transaction to report
// KeyNotFound.
func (e *Engine) Remove(key string) error {
	var missing bool
	err := e.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get([]byte(key)) == nil {
			missing = true
			return nil
		}
		return b.Delete([]byte(key))
	})
	if err != nil {
		return kverrors.Backend(err)
	}
	if missing {
		return kverrors.KeyNotFound(key)
	}
	return nil
}

// Close implements engine.Engine.
func (e *Engine) Close() error {
	if err := e.db.Close(); err != nil {
		return kverrors.Backend(err)
	}
	return nil
}
