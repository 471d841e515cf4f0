package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"paperwhisper/internal/chunker"
	"paperwhisper/internal/domain"
	"paperwhisper/internal/embedding"
	"paperwhisper/internal/summarizer"
)

const sampleText = "Paris is the capital of France. Lyon is a city in France. " +
	"The Alps separate France from Italy. The Seine flows through Paris."

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	splitter, err := chunker.NewRecursiveSplitter(40, 10)
	if err != nil {
		t.Fatal(err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(splitter, embedding.NewHashEmbedder(0), summarizer.NewFrequencySummarizer(), 2, log)
}

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestBuildsAndPersists(t *testing.T) {
	p := newTestPipeline(t)
	source := writeSample(t, sampleText)
	dir := filepath.Join(t.TempDir(), "index")

	res, err := p.Ingest(context.Background(), Options{Source: source, IndexDir: dir, Persist: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Loaded {
		t.Error("first ingest should build, not load")
	}
	if res.Index == nil || res.Index.Size() == 0 {
		t.Fatal("ingest returned no usable index")
	}
	if res.Passages != res.Index.Size() {
		t.Errorf("result reports %d passages, index holds %d", res.Passages, res.Index.Size())
	}
	if res.Summary == "" {
		t.Error("expected a document summary")
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("index directory not persisted: %v", err)
	}
}

func TestIngestLoadsPersistedIndex(t *testing.T) {
	p := newTestPipeline(t)
	source := writeSample(t, sampleText)
	dir := filepath.Join(t.TempDir(), "index")
	opts := Options{Source: source, IndexDir: dir, Persist: true}
	ctx := context.Background()

	first, err := p.Ingest(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Ingest(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Loaded {
		t.Error("second ingest should load the persisted index")
	}
	if second.Index.Size() != first.Index.Size() {
		t.Errorf("loaded index size %d, built index size %d", second.Index.Size(), first.Index.Size())
	}
}

func TestIngestForceRebuild(t *testing.T) {
	p := newTestPipeline(t)
	source := writeSample(t, sampleText)
	dir := filepath.Join(t.TempDir(), "index")
	ctx := context.Background()

	if _, err := p.Ingest(ctx, Options{Source: source, IndexDir: dir, Persist: true}); err != nil {
		t.Fatal(err)
	}
	res, err := p.Ingest(ctx, Options{Source: source, IndexDir: dir, Persist: true, ForceRebuild: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Loaded {
		t.Error("force rebuild must not reuse the persisted index")
	}
}

func TestIngestCorruptIndexFallsBackToRebuild(t *testing.T) {
	p := newTestPipeline(t)
	source := writeSample(t, sampleText)
	dir := filepath.Join(t.TempDir(), "index")
	ctx := context.Background()
	opts := Options{Source: source, IndexDir: dir, Persist: true}

	if _, err := p.Ingest(ctx, opts); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "passages.json"), []byte("nonsense"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := p.Ingest(ctx, opts)
	if err != nil {
		t.Fatalf("corrupt persisted index should trigger a rebuild, got %v", err)
	}
	if res.Loaded {
		t.Error("corrupt index must not be reported as loaded")
	}
}

func TestIngestMemoryOnly(t *testing.T) {
	p := newTestPipeline(t)
	source := writeSample(t, sampleText)
	dir := filepath.Join(t.TempDir(), "index")

	res, err := p.Ingest(context.Background(), Options{Source: source, IndexDir: dir, Persist: false})
	if err != nil {
		t.Fatal(err)
	}
	if res.Index == nil {
		t.Fatal("expected in-memory index")
	}
	if _, err := os.Stat(dir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("memory-only ingest must not touch the index dir, stat err = %v", err)
	}
}

func TestIngestMissingDocument(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Ingest(context.Background(), Options{
		Source:   filepath.Join(t.TempDir(), "missing.txt"),
		IndexDir: filepath.Join(t.TempDir(), "index"),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestIngestEmptyDocument(t *testing.T) {
	p := newTestPipeline(t)
	source := writeSample(t, "   \n  ")
	_, err := p.Ingest(context.Background(), Options{
		Source:   source,
		IndexDir: filepath.Join(t.TempDir(), "index"),
	})
	if !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("want ErrEmptyInput, got %v", err)
	}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		force  bool
		exists bool
		want   buildState
	}{
		{false, false, needsBuild},
		{false, true, built},
		{true, false, needsBuild},
		{true, true, needsBuild},
	}
	for _, tc := range cases {
		if got := decide(tc.force, tc.exists); got != tc.want {
			t.Errorf("decide(force=%v, exists=%v) = %v, want %v", tc.force, tc.exists, got, tc.want)
		}
	}
}
