// Package manifest serializes ordered scan results to the CSV table that is
// the program's sole durable output.
package manifest

import (
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"hashdir/internal/scan"
)

// Header is the fixed first row of every manifest.
var Header = []string{"File Path", "BLAKE2 Hash"}

// Write emits the manifest for results onto w: the header row, then one row
// per successfully hashed file in the order given. Results without a digest
// are skipped. Paths are rewritten relative to root with forward slashes.
// crlf selects Windows line endings (used when streaming to stdout there).
// Returns the number of data rows written.
func Write(w io.Writer, root string, results []scan.Result, crlf bool) (int, error) {
	cw := csv.NewWriter(w)
	cw.UseCRLF = crlf

	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("writing manifest header: %w", err)
	}

	written := 0
	for _, r := range results {
		if r.Digest == nil {
			continue
		}
		row := []string{relativePath(root, r.Path), hex.EncodeToString(r.Digest)}
		if err := cw.Write(row); err != nil {
			return written, fmt.Errorf("writing manifest row for %s: %w", r.Path, err)
		}
		written++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, fmt.Errorf("flushing manifest: %w", err)
	}
	return written, nil
}

// WriteFile writes the manifest to path, creating or truncating it.
func WriteFile(path, root string, results []scan.Result) (written int, retErr error) {
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return 0, fmt.Errorf("creating manifest file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("closing manifest file: %w", closeErr)
		}
	}()

	return Write(f, root, results, false)
}

// relativePath makes path relative to the scanned root and normalizes it to
// forward slashes so manifests compare equal across platforms.
func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}
