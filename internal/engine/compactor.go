package engine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jassi-singh/kvs/internal/kverrors"
	"github.com/jassi-singh/kvs/internal/record"
)

// compactor periodically rewrites state's log to drop dead records,
// swapping the rewritten file in atomically via rename. Its lifetime is
// tied to the KVEngine handle that started it: Open starts it, Close stops
// and joins it.
type compactor struct {
	st        *state
	interval  time.Duration
	threshold int64
	stopCh    chan struct{}
	doneCh    chan struct{}
}

func startCompactor(st *state, interval time.Duration, threshold int64) *compactor {
	c := &compactor{
		st:        st,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	go c.run()
	return c
}

// run implements the Idle→Sleeping→Compacting→Idle loop, exiting on stop.
func (c *compactor) run() {
	defer close(c.doneCh)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			if err := c.tryCompact(); err != nil {
				slog.Error("compactor: pass failed, retrying next interval", "error", err)
			}
		}
	}
}

// stop signals termination and blocks until the goroutine has exited.
func (c *compactor) stop() {
	close(c.stopCh)
	<-c.doneCh
}

// tryCompact rewrites the log if it exceeds the threshold. The whole pass,
// including the cheap size check that avoids taking the exclusive lock on
// every tick once the log is small, runs under state's lock so no mutator
// ever observes a partially-swapped file or index.
func (c *compactor) tryCompact() error {
	c.st.mu.RLock()
	belowThreshold := c.st.log.Size() <= c.threshold
	c.st.mu.RUnlock()
	if belowThreshold {
		return nil
	}

	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	if c.st.log.Size() <= c.threshold {
		return nil
	}

	tmpPath := filepath.Join(c.st.dir, tmpFileName)
	tmpFile, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return kverrors.IO(err)
	}
	defer func() {
		if tmpFile != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	newIndex := make(map[string]int64, len(c.st.index))
	var newOffset int64
	for key, offset := range c.st.index {
		rec, err := readRecordAt(c.st.log, offset)
		if err != nil {
			return err
		}
		if rec.Op != record.OpSet || rec.Key != key {
			return kverrors.Codec(fmt.Errorf("compactor: corrupt index entry for key %q at offset %d", key, offset))
		}
		enc, err := record.NewSet(key, rec.Value).Encode()
		if err != nil {
			return err
		}
		n, err := tmpFile.Write(enc)
		if err != nil {
			return kverrors.IO(err)
		}
		newIndex[key] = newOffset
		newOffset += int64(n)
	}
	if err := tmpFile.Sync(); err != nil {
		return kverrors.IO(err)
	}
	if err := tmpFile.Close(); err != nil {
		return kverrors.IO(err)
	}
	tmpFile = nil // rename below takes ownership; disarm the cleanup defer

	logPath := filepath.Join(c.st.dir, logFileName)
	if err := os.Rename(tmpPath, logPath); err != nil {
		return kverrors.IO(err)
	}
	if err := c.st.log.Reopen(logPath); err != nil {
		return err
	}
	c.st.index = newIndex

	slog.Info("compactor: pass complete", "keys", len(newIndex), "new_size", newOffset)
	return nil
}
