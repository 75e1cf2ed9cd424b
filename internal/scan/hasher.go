package scan

import (
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

const (
	minBufferSize = 4 * 1024
	maxBufferSize = 8 * 1024 * 1024

	// progressFlushBytes batches progress callbacks so a huge file read
	// with a large buffer does not flood the progress channel.
	progressFlushBytes = 1 << 20
)

// bufferSize picks a read buffer proportional to the file size, clamped
// between 4 KiB and 8 MiB. Tiny files avoid per-read overhead, huge files
// keep peak memory bounded.
func bufferSize(size int64) int {
	bs := size / 1000
	if bs < minBufferSize {
		bs = minBufferSize
	}
	if bs > maxBufferSize {
		bs = maxBufferSize
	}
	return int(bs)
}

// FileDigest streams the file at path through BLAKE2b-512 and returns the
// raw 64-byte digest. The result is identical regardless of chunk size.
// onProgress, if non-nil, is called with byte counts as data is read.
func FileDigest(path string, size int64, onProgress func(n int64)) ([]byte, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, bufferSize(size))

	var pending int64
	flush := func() {
		if pending > 0 && onProgress != nil {
			onProgress(pending)
			pending = 0
		}
	}

	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return nil, werr
			}
			pending += int64(n)
			if pending >= progressFlushBytes {
				flush()
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, rerr
		}
	}
	flush()

	return h.Sum(nil), nil
}
