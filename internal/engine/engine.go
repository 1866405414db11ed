// Package engine implements the log-structured storage engine: an
// append-only log file plus an in-memory key→offset index, replayed on
// open and periodically compacted in the background.
package engine

import "time"

// Engine is the capability every backend (the log engine here, and the
// bbolt-backed alternative in internal/boltengine) exposes. Handles are
// expected to be cheap to copy and safe to share across goroutines.
type Engine interface {
	// Set durably records that key now maps to value.
	Set(key, value string) error
	// Get returns the most recent value for key, or found=false if absent.
	// Absence is never reported as an error.
	Get(key string) (value string, found bool, err error)
	// Remove deletes a present key. Returns a kverrors.KeyNotFound error
	// if key is absent.
	Remove(key string) error
	// Close flushes buffered state and stops background resources (the
	// compactor goroutine, for the log engine).
	Close() error
}

const (
	logFileName = "data.log"
	tmpFileName = "data.log.tmp"

	// DefaultCompactionThreshold is the live log size, in bytes, above
	// which a compaction pass rewrites the file.
	DefaultCompactionThreshold int64 = 1 << 20 // 1 MiB

	// DefaultCompactionInterval is how often the compactor wakes to check
	// the threshold.
	DefaultCompactionInterval = 5 * time.Second
)

// Config controls the log engine's background compaction behavior.
type Config struct {
	CompactionThreshold int64
	CompactionInterval  time.Duration
}

// DefaultConfig returns the engine's nominal compaction settings.
func DefaultConfig() Config {
	return Config{
		CompactionThreshold: DefaultCompactionThreshold,
		CompactionInterval:  DefaultCompactionInterval,
	}
}
