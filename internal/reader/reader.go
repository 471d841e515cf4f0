// Package reader extracts plain text from source documents.
package reader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"paperwhisper/internal/domain"
)

// ForPath picks a reader by file extension: PDFs get page-wise
// extraction, everything else is read as plain text.
func ForPath(path string, log *slog.Logger) domain.Reader {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewPDFReader(log)
	}
	return TextReader{}
}

// TextReader reads a plain-text document (.txt, .md) as a single unit.
type TextReader struct{}

// Read returns the file content as one document unit.
func (TextReader) Read(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Document{}, fmt.Errorf("%w: document %s", domain.ErrNotFound, path)
		}
		return domain.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return domain.Document{Path: path, Content: string(data), Units: 1}, nil
}
