package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"paperwhisper/internal/domain"
)

// Default chunking parameters, in runes.
const (
	DefaultChunkSize    = 900
	DefaultChunkOverlap = 150
)

// defaultSeparators orders split points from coarsest to finest. The
// empty string means a plain character boundary and always matches, so
// no segment survives the recursion longer than the chunk size.
var defaultSeparators = []string{"\n\n", "\n", ". ", ".", "?", "!", ",", " ", ""}

// RecursiveSplitter splits text into overlapping chunks by recursively
// descending a separator hierarchy, so chunk boundaries land on the
// coarsest semantic break available. Lengths are counted in runes.
type RecursiveSplitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// NewRecursiveSplitter validates the window parameters. chunkSize must
// be positive and chunkOverlap must satisfy 0 <= overlap < size.
func NewRecursiveSplitter(chunkSize, chunkOverlap int) (*RecursiveSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidArgument, chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap must be in [0, %d), got %d", domain.ErrInvalidArgument, chunkSize, chunkOverlap)
	}
	return &RecursiveSplitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}, nil
}

// Split cuts text into chunks of at most chunkSize runes. Each chunk
// after the first starts up to chunkOverlap runes before the end of
// the previous one; concatenating the chunks with the overlap removed
// reproduces text exactly.
func (s *RecursiveSplitter) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty or whitespace-only", domain.ErrEmptyInput)
	}
	pieces := s.segment(text, s.separators)
	return s.merge(pieces), nil
}

// Passages wraps Split, numbering each chunk with its sequence index.
func (s *RecursiveSplitter) Passages(text string) ([]domain.Passage, error) {
	chunks, err := s.Split(text)
	if err != nil {
		return nil, err
	}
	passages := make([]domain.Passage, len(chunks))
	for i, c := range chunks {
		passages[i] = domain.Passage{Text: c, Index: i}
	}
	return passages, nil
}

// segment recursively splits text into pieces no longer than chunkSize,
// trying the coarsest separator that occurs and descending into the
// remainder of the hierarchy for any piece still too long. Separators
// stay attached to the following piece so the pieces concatenate back
// to the input.
func (s *RecursiveSplitter) segment(text string, separators []string) []string {
	sep := ""
	var rest []string
	for i, cand := range separators {
		if cand == "" {
			break
		}
		if strings.Contains(text, cand) {
			sep = cand
			rest = separators[i+1:]
			break
		}
	}
	if sep == "" {
		return runePieces(text)
	}
	var pieces []string
	for _, part := range splitKeep(text, sep) {
		if part == "" {
			continue
		}
		if utf8.RuneCountInString(part) <= s.chunkSize {
			pieces = append(pieces, part)
		} else {
			pieces = append(pieces, s.segment(part, rest)...)
		}
	}
	return pieces
}

// merge greedily packs pieces into chunks of at most chunkSize runes.
// When a chunk fills up, the next one is seeded with the tail of the
// previous chunk, trimmed so the incoming piece still fits.
func (s *RecursiveSplitter) merge(pieces []string) []string {
	var chunks []string
	cur := ""
	curLen := 0
	for _, p := range pieces {
		pl := utf8.RuneCountInString(p)
		if curLen > 0 && curLen+pl > s.chunkSize {
			chunks = append(chunks, cur)
			tail := tailRunes(cur, s.chunkOverlap)
			tailLen := utf8.RuneCountInString(tail)
			for tailLen > 0 && tailLen+pl > s.chunkSize {
				_, size := utf8.DecodeRuneInString(tail)
				tail = tail[size:]
				tailLen--
			}
			cur = tail
			curLen = tailLen
		}
		cur += p
		curLen += pl
	}
	if curLen > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

// splitKeep splits text by sep, reattaching the separator to the piece
// that follows it.
func splitKeep(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	out = append(out, parts[0])
	for _, p := range parts[1:] {
		out = append(out, sep+p)
	}
	return out
}

// runePieces explodes text into single-rune pieces, the character-level
// last resort for tokens with no separator at all.
func runePieces(text string) []string {
	out := make([]string, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		out = append(out, string(r))
	}
	return out
}

// tailRunes returns the suffix of s holding at most n runes.
func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	total := utf8.RuneCountInString(s)
	if total <= n {
		return s
	}
	skip := total - n
	for i := range s {
		if skip == 0 {
			return s[i:]
		}
		skip--
	}
	return ""
}
