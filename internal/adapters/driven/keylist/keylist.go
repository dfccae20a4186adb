// Package keylist persists the selected citation keys as a plain text
// file, one key per line, for consumption by shell scripts and editor
// integrations.
package keylist

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.KeyListWriter = (*Writer)(nil)

// Writer writes the selected-key list atomically.
type Writer struct {
	path string
}

// NewWriter creates a key list writer targeting path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the target file path.
func (w *Writer) Path() string { return w.path }

// WriteKeys implements driven.KeyListWriter. The file always ends with
// a trailing newline; an empty selection truncates it.
func (w *Writer) WriteKeys(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0700); err != nil {
		return err
	}

	var content string
	if len(keys) > 0 {
		content = strings.Join(keys, "\n") + "\n"
	}

	return atomic.WriteFile(w.path, bytes.NewReader([]byte(content)))
}
