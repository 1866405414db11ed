package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/jassi-singh/kvs/internal/kverrors"
	"github.com/jassi-singh/kvs/internal/record"
	"github.com/jassi-singh/kvs/internal/storage"
)

// state is the single shared, mutable region backing every handle cloned
// from the same Open call: the index, the active log, and the compactor
// that rewrites it. Get takes the read side of mu, Set/Remove/compaction
// take the write side — see KVEngine.Get for why a read lock suffices even
// though the log engine serializes everything the storage layer doesn't
// already make position-independent.
type state struct {
	mu    sync.RWMutex
	index map[string]int64
	log   *storage.Log
	dir   string
}

// KVEngine is the primary log-structured engine: a single directory
// holding one append-only data.log file, an in-memory offset index
// rebuilt by replay on open, and a background compactor.
type KVEngine struct {
	st        *state
	compactor *compactor
}

var _ Engine = (*KVEngine)(nil)

// Open validates dir (creating it if absent), opens the log file, replays
// it to rebuild the index, and starts the background compactor.
func Open(dir string, cfg Config) (*KVEngine, error) {
	if err := validateDir(dir); err != nil {
		return nil, err
	}

	logPath := filepath.Join(dir, logFileName)
	log, err := storage.OpenLog(logPath, storage.DefaultBatchSize, storage.DefaultSyncInterval)
	if err != nil {
		return nil, err
	}

	index, err := replay(log)
	if err != nil {
		log.Close()
		return nil, err
	}

	st := &state{index: index, log: log, dir: dir}

	if cfg.CompactionThreshold <= 0 {
		cfg.CompactionThreshold = DefaultCompactionThreshold
	}
	if cfg.CompactionInterval <= 0 {
		cfg.CompactionInterval = DefaultCompactionInterval
	}

	e := &KVEngine{
		st:        st,
		compactor: startCompactor(st, cfg.CompactionInterval, cfg.CompactionThreshold),
	}
	slog.Info("engine: opened", "dir", dir, "keys", len(index))
	return e, nil
}

// replay reads dir's log from byte 0, rebuilding the index. Set records
// insert key→line-start-offset; Remove records delete the key. A trailing
// incomplete line (no terminating newline, e.g. from a torn final write) is
// silently discarded rather than treated as an error.
func replay(log *storage.Log) (map[string]int64, error) {
	index := make(map[string]int64)
	reader := bufio.NewReader(log.File())
	var offset int64

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, kverrors.IO(err)
		}
		rec, err := record.Decode(line)
		if err != nil {
			return nil, err
		}
		switch rec.Op {
		case record.OpSet:
			index[rec.Key] = offset
		case record.OpRemove:
			delete(index, rec.Key)
		}
		offset += int64(len(line))
	}
	return index, nil
}

// Set implements Engine.
func (e *KVEngine) Set(key, value string) error {
	enc, err := record.NewSet(key, value).Encode()
	if err != nil {
		return err
	}

	e.st.mu.Lock()
	defer e.st.mu.Unlock()

	offset, err := e.st.log.Append(enc)
	if err != nil {
		return err
	}
	e.st.index[key] = offset
	slog.Debug("engine: set", "key", key, "offset", offset)
	return nil
}

// Get implements Engine. It takes the read side of the lock: because
// storage.Log.ReadLine is a positional read that transparently flushes
// instead of mutating a shared seek cursor, concurrent Gets never
// interfere with each other, and a pending compactor Lock() still waits
// for every in-flight Get's ReadLine to finish before it can swap the log.
func (e *KVEngine) Get(key string) (string, bool, error) {
	e.st.mu.RLock()
	defer e.st.mu.RUnlock()

	offset, ok := e.st.index[key]
	if !ok {
		return "", false, nil
	}
	rec, err := readRecordAt(e.st.log, offset)
	if err != nil {
		return "", false, err
	}
	if rec.Op != record.OpSet || rec.Key != key {
		return "", false, kverrors.Codec(fmt.Errorf("engine: index entry for %q at offset %d is not a matching set record", key, offset))
	}
	return rec.Value, true, nil
}

// Remove implements Engine. The key is deleted from the index before the
// tombstone is appended. A crash between the two steps re-surfaces the key
// on the next replay, which is acceptable: crash durability of removes is
// not part of the contract.
func (e *KVEngine) Remove(key string) error {
	e.st.mu.Lock()
	defer e.st.mu.Unlock()

	if _, ok := e.st.index[key]; !ok {
		return kverrors.KeyNotFound(key)
	}
	delete(e.st.index, key)

	enc, err := record.NewRemove(key).Encode()
	if err != nil {
		return err
	}
	if _, err := e.st.log.Append(enc); err != nil {
		return err
	}
	slog.Debug("engine: remove", "key", key)
	return nil
}

// Close stops the compactor and flushes and closes the log. Close must be
// called exactly once on the handle returned by Open, not on a handle
// merely passed around as a worker-job argument — Go has no Drop-on-last-
// reference, so callers own shutdown explicitly rather than relying on
// reference counting.
func (e *KVEngine) Close() error {
	e.compactor.stop()
	e.st.mu.Lock()
	defer e.st.mu.Unlock()
	return e.st.log.Close()
}

// readRecordAt reads and decodes the single line starting at offset.
func readRecordAt(log *storage.Log, offset int64) (record.Record, error) {
	line, err := log.ReadLine(offset)
	if err != nil {
		return record.Record{}, err
	}
	return record.Decode(line)
}
