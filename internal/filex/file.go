// Package filex contains filesystem helpers: chunked copying of uploaded
// byte streams and directory creation.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyChunkSize is the read/write buffer size used by CopyChunked.
const CopyChunkSize = 64 * 1024

// EnsureDir creates dir (and any missing parents) if it does not exist yet.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// CopyChunked streams src to the file at destination, reading and writing in
// CopyChunkSize chunks so the whole payload is never held in memory. Missing
// parent directories are created first. An existing file at destination is
// overwritten. Returns the absolute path of the written file.
//
// On a read or write failure the error is returned as-is wrapped; a
// half-written file is left at destination (callers own any cleanup policy).
func CopyChunked(destination string, src io.Reader) (string, error) {
	if err := EnsureDir(filepath.Dir(destination)); err != nil {
		return "", err
	}

	dst, err := os.Create(destination)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", destination, err)
	}

	buf := make([]byte, CopyChunkSize)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				dst.Close()
				return "", fmt.Errorf("write to %s: %w", destination, werr)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			dst.Close()
			return "", fmt.Errorf("read source for %s: %w", destination, rerr)
		}
	}

	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", destination, err)
	}

	abs, err := filepath.Abs(destination)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", destination, err)
	}

	return abs, nil
}
