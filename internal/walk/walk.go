package walk

import (
	"io/fs"
	"log/slog"
	"path/filepath"
)

// FileRecord is one file discovered during enumeration. Index is the
// zero-based position in traversal order and stays attached to the file
// through hashing so results can be put back in this order afterwards.
type FileRecord struct {
	Index int
	Path  string
	Size  int64
}

// Walk enumerates every regular file under root in a single depth-first
// traversal and returns the records plus the total byte count across them.
// Unreadable directories and entries are logged and skipped; only a failure
// of the traversal itself is returned as an error.
func Walk(root string, log *slog.Logger) ([]FileRecord, int64, error) {
	var (
		files []FileRecord
		total int64
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A nil entry means the root itself could not be statted,
			// which fails the whole traversal. Anything deeper is
			// skipped and the walk continues.
			if d == nil {
				return err
			}
			log.Warn("cannot access path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			// Symlinks, fifos, sockets, devices. Hashing a fifo would
			// block forever, so none of these are enumerated.
			log.Debug("skipping irregular file", "path", path)
			return nil
		}

		info, err := d.Info()
		if err != nil {
			log.Warn("cannot stat file", "path", path, "error", err)
			return nil
		}

		files = append(files, FileRecord{
			Index: len(files),
			Path:  path,
			Size:  info.Size(),
		})
		total += info.Size()
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return files, total, nil
}
