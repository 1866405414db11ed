// Package record defines the on-disk log record format: one JSON object
// per line, each line a complete Set or Remove entry. JSON string escaping
// keeps embedded newlines and quotes from ever being mistaken for the line
// terminator, so replay can split the log purely on '\n'.
package record

import (
	"bytes"
	"encoding/json"

	"github.com/jassi-singh/kvs/internal/kverrors"
)

// Op identifies the kind of mutation a record represents.
type Op string

const (
	OpSet    Op = "set"
	OpRemove Op = "remove"
)

// Record is a single log entry. Value is empty and ignored for OpRemove.
type Record struct {
	Op    Op     `json:"op"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// NewSet builds a Set record for key/value.
func NewSet(key, value string) Record {
	return Record{Op: OpSet, Key: key, Value: value}
}

// NewRemove builds a Remove record for key.
func NewRemove(key string) Record {
	return Record{Op: OpRemove, Key: key}
}

// Encode serializes r as a single newline-terminated JSON line.
func (r Record) Encode() ([]byte, error) {
	buf, err := json.Marshal(r)
	if err != nil {
		return nil, kverrors.Codec(err)
	}
	buf = append(buf, '\n')
	return buf, nil
}

// Decode parses a single log line (with or without its trailing newline)
// into a Record. An empty line decodes to an error rather than a zero Record.
func Decode(line []byte) (Record, error) {
	line = bytes.TrimRight(line, "\n")
	if len(bytes.TrimSpace(line)) == 0 {
		return Record{}, kverrors.Codec(errEmptyLine)
	}
	var r Record
	if err := json.Unmarshal(line, &r); err != nil {
		return Record{}, kverrors.Codec(err)
	}
	if r.Op != OpSet && r.Op != OpRemove {
		return Record{}, kverrors.Codec(errUnknownOp(r.Op))
	}
	return r, nil
}
