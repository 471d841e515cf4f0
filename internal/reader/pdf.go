package reader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"paperwhisper/internal/domain"
)

// UnitSeparator joins per-page text so downstream chunking can treat
// page boundaries as paragraph breaks.
const UnitSeparator = "\n\n"

// PDFReader extracts plain text from a PDF page by page. A page that
// fails to extract is absorbed: it contributes an empty segment and is
// recorded in the document's FailedUnits, so partial corruption never
// blocks ingestion of the rest.
type PDFReader struct {
	log *slog.Logger
}

// NewPDFReader creates a PDF reader logging absorbed page failures to
// log (slog.Default when nil).
func NewPDFReader(log *slog.Logger) *PDFReader {
	if log == nil {
		log = slog.Default()
	}
	return &PDFReader{log: log}
}

// Read extracts the full text of the PDF at path.
func (r *PDFReader) Read(path string) (domain.Document, error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Document{}, fmt.Errorf("%w: document %s", domain.ErrNotFound, path)
		}
		return domain.Document{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	total := doc.NumPage()
	texts, failed := extractUnits(total, func(n int) (string, error) {
		page := doc.Page(n)
		if page.V.IsNull() {
			return "", fmt.Errorf("page %d has no content", n)
		}
		return page.GetPlainText(nil)
	}, r.log)

	return domain.Document{
		Path:        path,
		Content:     strings.Join(texts, UnitSeparator),
		Units:       total,
		FailedUnits: failed,
	}, nil
}

// extractUnits runs extract for each 1-based unit, turning failures
// and panics into empty placeholder segments. The malformed-PDF paths
// of the parser panic rather than return errors, so both are absorbed
// the same way.
func extractUnits(total int, extract func(int) (string, error), log *slog.Logger) (texts []string, failed []int) {
	texts = make([]string, 0, total)
	for n := 1; n <= total; n++ {
		text, err := extractUnit(extract, n)
		if err != nil {
			log.Warn("unit extraction failed, continuing", "unit", n, "error", err)
			failed = append(failed, n)
			text = ""
		}
		texts = append(texts, text)
	}
	return texts, failed
}

func extractUnit(extract func(int) (string, error), n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unit %d: %v", n, r)
		}
	}()
	return extract(n)
}
