// Package storage provides the buffered append-only log file used by the
// engine: writes are batched through a bufio.Writer and flushed on a size
// or time threshold, while reads transparently flush first so a read never
// observes a torn or missing tail.
package storage

import (
	"bufio"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jassi-singh/kvs/internal/kverrors"
)

// Log is a single append-only file plus a write buffer. All exported
// methods are safe for concurrent use.
type Log struct {
	mu           sync.Mutex
	file         *os.File
	buffer       *bufio.Writer
	flushedSize  int64 // bytes written to the file, excluding the buffer
	lastSyncTime time.Time
	batchSize    int
	syncInterval time.Duration
}

// DefaultBatchSize is the buffered-byte threshold that triggers an
// automatic flush.
const DefaultBatchSize = 4096

// DefaultSyncInterval is the maximum time buffered writes may sit unflushed.
const DefaultSyncInterval = 1 * time.Second

// OpenLog opens (creating if necessary) the log file at path in
// read+append+create mode.
func OpenLog(path string, batchSize int, syncInterval time.Duration) (*Log, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, kverrors.IO(err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, kverrors.IO(err)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if syncInterval <= 0 {
		syncInterval = DefaultSyncInterval
	}
	return &Log{
		file:         file,
		buffer:       bufio.NewWriter(file),
		flushedSize:  info.Size(),
		lastSyncTime: time.Now(),
		batchSize:    batchSize,
		syncInterval: syncInterval,
	}, nil
}

// Size returns the log's current logical length, including buffered but
// not-yet-flushed bytes.
func (l *Log) Size() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.flushedSize + int64(l.buffer.Buffered())
}

// Append writes data to the end of the log and returns the offset at
// which it begins. Auto-flushes once the buffer reaches batchSize or
// syncInterval has elapsed since the last flush.
func (l *Log) Append(data []byte) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	offset := l.flushedSize + int64(l.buffer.Buffered())
	if _, err := l.buffer.Write(data); err != nil {
		return 0, kverrors.IO(err)
	}

	// A write larger than the free buffer space makes bufio pass bytes to the
	// file itself, which leaves flushedSize behind; writing out the rest of
	// the buffer puts the whole log in the file and resyncs it.
	if l.flushedSize+int64(l.buffer.Buffered()) != offset+int64(len(data)) {
		if err := l.buffer.Flush(); err != nil {
			return 0, kverrors.IO(err)
		}
		l.flushedSize = offset + int64(len(data))
	}

	if l.buffer.Buffered() >= l.batchSize || time.Since(l.lastSyncTime) >= l.syncInterval {
		if err := l.flushLocked(); err != nil {
			return 0, err
		}
	}
	return offset, nil
}

// Flush forces any buffered writes to disk.
func (l *Log) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.flushLocked()
}

func (l *Log) flushLocked() error {
	if err := l.buffer.Flush(); err != nil {
		return kverrors.IO(err)
	}
	if err := l.file.Sync(); err != nil {
		return kverrors.IO(err)
	}
	info, err := l.file.Stat()
	if err != nil {
		return kverrors.IO(err)
	}
	l.flushedSize = info.Size()
	l.lastSyncTime = time.Now()
	return nil
}

// ReadLine reads one newline-terminated record starting at offset,
// flushing first if the requested offset still lives in the write buffer.
func (l *Log) ReadLine(offset int64) ([]byte, error) {
	l.mu.Lock()
	if offset >= l.flushedSize {
		if err := l.flushLocked(); err != nil {
			l.mu.Unlock()
			return nil, err
		}
	}
	length := l.flushedSize - offset
	file := l.file
	l.mu.Unlock()

	if length <= 0 {
		return nil, kverrors.IO(io.ErrUnexpectedEOF)
	}
	section := io.NewSectionReader(file, offset, length)
	reader := bufio.NewReader(section)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, kverrors.IO(err)
	}
	return line, nil
}

// File exposes the underlying file for full-scan replay. Callers must not
// write through it directly.
func (l *Log) File() *os.File {
	return l.file
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.flushLocked(); err != nil {
		return err
	}
	if err := l.file.Close(); err != nil {
		return kverrors.IO(err)
	}
	return nil
}

// Reopen closes the current file handle without flushing stale content and
// opens path fresh, resetting the logical size to path's current length.
// Used by the compactor after it renames a freshly written file over the
// live log.
func (l *Log) Reopen(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	oldFile := l.file
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return kverrors.IO(err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return kverrors.IO(err)
	}
	l.file = file
	l.buffer = bufio.NewWriter(file)
	l.flushedSize = info.Size()
	l.lastSyncTime = time.Now()
	oldFile.Close()
	return nil
}
