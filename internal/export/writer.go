// Package export writes rendered maps and manifests to their
// destinations: stdout, plain files, or zstd-compressed archives.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Stdout is the destination name that routes output to standard out.
const Stdout = "-"

// Write delivers data to dest. A dest of "-" writes to stdout, a
// ".zst" suffix (or compress=true) writes a zstd frame, and anything
// else writes a plain file. Parent directories are created as needed.
func Write(dest string, data []byte, compress bool) error {
	if dest == Stdout {
		_, err := os.Stdout.Write(data)
		return err
	}

	if strings.HasSuffix(dest, ".zst") {
		compress = true
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	var w io.WriteCloser = f
	if compress {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to initialize compressor: %w", err)
		}
		w = &zstdFile{zw: zw, f: f}
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return w.Close()
}

// WriteJSON marshals v with indentation and delivers it like Write.
func WriteJSON(dest string, v interface{}, compress bool) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", dest, err)
	}
	return Write(dest, append(data, '\n'), compress)
}

// Read loads a previously written file, transparently decompressing
// ".zst" destinations.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".zst") {
		return data, nil
	}
	zr, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	out, err := zr.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	return out, nil
}

// zstdFile couples a zstd writer with its underlying file so Close
// flushes the frame before releasing the descriptor.
type zstdFile struct {
	zw *zstd.Encoder
	f  *os.File
}

func (z *zstdFile) Write(p []byte) (int, error) { return z.zw.Write(p) }

func (z *zstdFile) Close() error {
	if err := z.zw.Close(); err != nil {
		_ = z.f.Close()
		return err
	}
	return z.f.Close()
}
