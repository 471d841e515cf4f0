package domain

import "context"

// Passage is a bounded span of source text stored and embedded as one
// retrievable unit. Index is its position in the chunk sequence of the
// source document.
type Passage struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// Document is the extracted text of a single source file. FailedUnits
// lists sub-units (PDF pages) whose extraction failed and was absorbed;
// the remaining units are still present in Content.
type Document struct {
	Path        string
	Content     string
	Units       int
	FailedUnits []int
}

// SearchResult is a retrieved passage with its relevance score.
// Score is cosine similarity: higher is better, results are ordered
// descending.
type SearchResult struct {
	Passage Passage
	Score   float64
}

// Embedder converts text into a unit-length vector representation.
// Implementations must be deterministic for a fixed model: the same
// text always yields the same vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	Model() string
}

// Reader extracts the plain text of a source document. Read must not
// mutate the source.
type Reader interface {
	Read(path string) (Document, error)
}
