// Package retriever answers queries against a built vector index.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"paperwhisper/internal/domain"
	"paperwhisper/internal/index"
)

// Retriever embeds queries and ranks passages from an immutable index
// snapshot. It holds no per-query state, so concurrent Retrieve calls
// are safe. The embedder must be the one the index was built with.
type Retriever struct {
	index    *index.Index
	embedder domain.Embedder
}

// New pairs an index with the embedder that built it.
func New(ix *index.Index, embedder domain.Embedder) *Retriever {
	return &Retriever{index: ix, embedder: embedder}
}

// Retrieve returns the k most relevant passages for the query, highest
// cosine similarity first. A non-empty index always yields at least
// one result; "nothing similar" shows up as low scores, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty or whitespace-only", domain.ErrEmptyInput)
	}
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return r.index.Search(vec, k)
}

// Index exposes the underlying index snapshot.
func (r *Retriever) Index() *index.Index { return r.index }
