// Package index implements the in-process vector index: parallel
// passage and embedding stores, brute-force cosine search, and durable
// save/load. The index is immutable after Build or Load; the only
// supported mutation is a full rebuild.
package index

import (
	"context"
	"fmt"
	"sort"

	"paperwhisper/internal/domain"
)

// Index holds one embedding per passage, in passage order. vectors[i]
// always corresponds to passages[i].
type Index struct {
	passages  []domain.Passage
	vectors   [][]float32
	dimension int
	model     string
}

// Build embeds every passage in batch and returns a ready-to-query
// index. An empty passage set is rejected.
func Build(ctx context.Context, passages []domain.Passage, embedder domain.Embedder) (*Index, error) {
	if len(passages) == 0 {
		return nil, fmt.Errorf("%w: no passages to index", domain.ErrEmptyInput)
	}
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d passages: %w", len(passages), err)
	}
	return &Index{
		passages:  append([]domain.Passage(nil), passages...),
		vectors:   vectors,
		dimension: len(vectors[0]),
		model:     embedder.Model(),
	}, nil
}

// Search returns the k nearest passages to the query vector by cosine
// similarity (a plain dot product, since stored vectors and the query
// are unit-length). Results are ordered by descending score; ties keep
// insertion order. k larger than the index is clamped, k <= 0 is an
// error.
func (ix *Index) Search(query []float32, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidArgument, k)
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query dimension %d does not match index dimension %d", domain.ErrInvalidArgument, len(query), ix.dimension)
	}
	scores := make([]float64, len(ix.vectors))
	for i, v := range ix.vectors {
		scores[i] = dot(v, query)
	}
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if k > len(order) {
		k = len(order)
	}
	results := make([]domain.SearchResult, k)
	for i := 0; i < k; i++ {
		j := order[i]
		results[i] = domain.SearchResult{Passage: ix.passages[j], Score: scores[j]}
	}
	return results, nil
}

// Size returns the number of indexed passages.
func (ix *Index) Size() int { return len(ix.passages) }

// Dimension returns the embedding dimension of the index.
func (ix *Index) Dimension() int { return ix.dimension }

// Model returns the identifier of the embedder that built the index.
func (ix *Index) Model() string { return ix.model }

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
