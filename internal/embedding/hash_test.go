package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"paperwhisper/internal/domain"
)

func TestHashEmbedderDeterminism(t *testing.T) {
	emb := NewHashEmbedder(0)
	ctx := context.Background()
	a, err := emb.Embed(ctx, "Paris is the capital of France.")
	if err != nil {
		t.Fatal(err)
	}
	b, err := emb.Embed(ctx, "Paris is the capital of France.")
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("dimensions differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestHashEmbedderNormalization(t *testing.T) {
	emb := NewHashEmbedder(0)
	texts := []string{
		"short",
		"Paris is the capital of France.",
		"A considerably longer passage containing many different words, numbers, and punctuation marks; variety matters here.",
	}
	for _, text := range texts {
		vec, err := emb.Embed(context.Background(), text)
		if err != nil {
			t.Fatalf("Embed(%q): %v", text, err)
		}
		var sum float64
		for _, v := range vec {
			sum += float64(v) * float64(v)
		}
		if norm := math.Sqrt(sum); math.Abs(norm-1.0) > 1e-3 {
			t.Errorf("Embed(%q): norm %v, want 1.0", text, norm)
		}
	}
}

func TestHashEmbedderDimension(t *testing.T) {
	if got := NewHashEmbedder(0).Dimension(); got != DefaultHashDimension {
		t.Errorf("default dimension = %d, want %d", got, DefaultHashDimension)
	}
	if got := NewHashEmbedder(128).Dimension(); got != 128 {
		t.Errorf("dimension = %d, want 128", got)
	}
	if NewHashEmbedder(128).Model() == NewHashEmbedder(256).Model() {
		t.Error("model id should encode the dimension")
	}
}

func TestHashEmbedderNoTokens(t *testing.T) {
	emb := NewHashEmbedder(0)
	for _, text := range []string{"", "12345 67890", "the and of is"} {
		if _, err := emb.Embed(context.Background(), text); !errors.Is(err, domain.ErrEmbedding) {
			t.Errorf("Embed(%q): want ErrEmbedding, got %v", text, err)
		}
	}
}

func TestHashEmbedderBatch(t *testing.T) {
	emb := NewHashEmbedder(0)
	ctx := context.Background()
	texts := []string{"first passage text", "second passage text"}
	vecs, err := emb.EmbedBatch(ctx, texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("got %d vectors for %d texts", len(vecs), len(texts))
	}
	single, err := emb.Embed(ctx, texts[1])
	if err != nil {
		t.Fatal(err)
	}
	for i := range single {
		if vecs[1][i] != single[i] {
			t.Fatal("batch vector differs from single-text vector")
		}
	}

	if _, err := emb.EmbedBatch(ctx, nil); !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("empty batch: want ErrEmptyInput, got %v", err)
	}
}

func TestHashEmbedderSimilarityOrdering(t *testing.T) {
	emb := NewHashEmbedder(0)
	ctx := context.Background()
	query, err := emb.Embed(ctx, "capital of France")
	if err != nil {
		t.Fatal(err)
	}
	relevant, err := emb.Embed(ctx, "Paris is the capital of France.")
	if err != nil {
		t.Fatal(err)
	}
	unrelated, err := emb.Embed(ctx, "Penguins live in Antarctica.")
	if err != nil {
		t.Fatal(err)
	}
	if dotProduct(query, relevant) <= dotProduct(query, unrelated) {
		t.Error("relevant text should score higher than unrelated text")
	}
}

func dotProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
