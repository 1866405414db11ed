package engine

import (
	"os"
	"path/filepath"

	"github.com/jassi-singh/kvs/internal/kverrors"
)

// validateDir enforces the storage-directory contract: the target path may
// be absent (created), a regular file (rejected), or a directory containing
// nothing but the active log and an optional stale compaction temp file.
// Any stale data.log.tmp left behind by a crashed compaction pass is
// removed before the remaining contents are checked.
func validateDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return kverrors.IO(err)
		}
		return nil
	}
	if err != nil {
		return kverrors.IO(err)
	}
	if !info.IsDir() {
		return kverrors.DirPathExpected(dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return kverrors.IO(err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name() == tmpFileName {
			if err := os.Remove(filepath.Join(dir, tmpFileName)); err != nil {
				return kverrors.IO(err)
			}
			continue
		}
		names = append(names, e.Name())
	}

	switch len(names) {
	case 0:
		return nil
	case 1:
		if names[0] == logFileName {
			return nil
		}
		return kverrors.UnexpectedLogFile(dir, names[0])
	default:
		return kverrors.UnexpectedFilesInPath(dir)
	}
}
