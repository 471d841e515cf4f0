// Package ingest composes reader, chunker, embedder, and index into
// the document ingestion pipeline.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"paperwhisper/internal/chunker"
	"paperwhisper/internal/domain"
	"paperwhisper/internal/index"
	"paperwhisper/internal/reader"
	"paperwhisper/internal/summarizer"
)

// Options selects the document, the persisted index location, and the
// rebuild policy for one ingestion run.
type Options struct {
	Source       string
	IndexDir     string
	ForceRebuild bool
	// Persist controls whether the built index is saved to IndexDir.
	// When false the index lives only in memory and IndexDir is never
	// touched.
	Persist bool
}

// Result is the outcome of an ingestion run.
type Result struct {
	Index *index.Index
	// Loaded is true when the persisted index was reused and the
	// read/chunk/embed stages were skipped entirely.
	Loaded      bool
	Summary     string
	Passages    int
	FailedUnits []int
}

// Pipeline runs read -> chunk -> embed -> index, strictly in sequence.
// Concurrent Ingest calls against the same IndexDir are not safe;
// callers own that serialization.
type Pipeline struct {
	splitter         *chunker.RecursiveSplitter
	embedder         domain.Embedder
	summarizer       *summarizer.FrequencySummarizer
	summarySentences int
	log              *slog.Logger
}

// New wires a pipeline from its stages. summarySentences bounds the
// document summary attached to build results.
func New(splitter *chunker.RecursiveSplitter, embedder domain.Embedder, summ *summarizer.FrequencySummarizer, summarySentences int, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		splitter:         splitter,
		embedder:         embedder,
		summarizer:       summ,
		summarySentences: summarySentences,
		log:              log,
	}
}

// buildState is the load-vs-rebuild decision, a pure function of the
// rebuild flag and persisted-index presence.
type buildState int

const (
	needsBuild buildState = iota
	built
)

func decide(forceRebuild, persistedExists bool) buildState {
	if forceRebuild || !persistedExists {
		return needsBuild
	}
	return built
}

// Ingest returns a ready-to-query index for the source document,
// loading the persisted index when allowed and rebuilding otherwise.
// The index is built fully in memory and saved only on success, so a
// failing run never leaves a partial index behind. A corrupt persisted
// index is logged and rebuilt, not surfaced.
func (p *Pipeline) Ingest(ctx context.Context, opts Options) (*Result, error) {
	if decide(opts.ForceRebuild, opts.Persist && index.Exists(opts.IndexDir)) == built {
		ix, err := index.Load(opts.IndexDir, p.embedder)
		if err == nil {
			p.log.Info("loaded persisted index", "dir", opts.IndexDir, "passages", ix.Size())
			return &Result{Index: ix, Loaded: true}, nil
		}
		p.log.Warn("persisted index unusable, rebuilding", "dir", opts.IndexDir, "error", err)
	}

	doc, err := reader.ForPath(opts.Source, p.log).Read(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if len(doc.FailedUnits) > 0 {
		p.log.Warn("document partially extracted", "source", opts.Source, "failed_units", len(doc.FailedUnits), "units", doc.Units)
	}

	passages, err := p.splitter.Passages(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("chunking document: %w", err)
	}
	p.log.Info("document chunked", "source", opts.Source, "passages", len(passages))

	ix, err := index.Build(ctx, passages, p.embedder)
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}

	if opts.Persist {
		if err := ix.Save(opts.IndexDir); err != nil {
			return nil, fmt.Errorf("saving index: %w", err)
		}
		p.log.Info("index persisted", "dir", opts.IndexDir)
	}

	summary := ""
	if p.summarizer != nil {
		summary = p.summarizer.Summarize(doc.Content, p.summarySentences)
	}
	return &Result{
		Index:       ix,
		Summary:     summary,
		Passages:    len(passages),
		FailedUnits: doc.FailedUnits,
	}, nil
}
