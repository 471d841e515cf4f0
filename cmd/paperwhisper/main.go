package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"paperwhisper/internal/answer"
	"paperwhisper/internal/chunker"
	"paperwhisper/internal/config"
	"paperwhisper/internal/domain"
	"paperwhisper/internal/embedding"
	"paperwhisper/internal/ingest"
	"paperwhisper/internal/retriever"
	"paperwhisper/internal/summarizer"
	"paperwhisper/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/paperwhisper/config.yaml if not provided)")
	rebuild := flag.Bool("rebuild", false, "Rebuild the index even if a persisted one exists")
	topK := flag.Int("k", 0, "Number of passages to retrieve (overrides config)")
	oneShot := flag.String("q", "", "Ask a single question, print the result, and exit")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Println("Usage: paperwhisper [--config=paperwhisper.yaml] [--rebuild] [--k=4] [--q=\"question\"] document.pdf")
		os.Exit(1)
	}
	source := flag.Arg(0)

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Assemble components
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "hash", "":
		dim := 0
		if cfg.Embedder.Hash != nil {
			dim = cfg.Embedder.Hash.Dimension
		}
		emb = embedding.NewHashEmbedder(dim)
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			log.Fatalf("openai embedder config missing")
		}
		emb, err = embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			Model:     cfg.Embedder.OpenAI.Model,
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			BatchSize: cfg.Embedder.OpenAI.BatchSize,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	splitter, err := chunker.NewRecursiveSplitter(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
	if err != nil {
		log.Fatalf("invalid chunker config: %v", err)
	}

	var ans answer.Answerer
	switch cfg.Answer.Type {
	case "none", "":
		ans = answer.Disabled{}
	case "openai":
		if cfg.Answer.OpenAI == nil {
			log.Fatalf("openai answer config missing")
		}
		ans, err = answer.NewOpenAIAnswerer(answer.OpenAIConfig{
			Model:     cfg.Answer.OpenAI.Model,
			BaseURL:   cfg.Answer.OpenAI.BaseURL,
			APIKeyEnv: cfg.Answer.OpenAI.APIKeyEnv,
			Timeout:   time.Duration(cfg.Answer.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai answerer init failed: %v", err)
		}
	default:
		log.Fatalf("unknown answerer: %s", cfg.Answer.Type)
	}

	pipeline := ingest.New(splitter, emb, summarizer.NewFrequencySummarizer(), cfg.Summary.MaxSentences, logger)
	res, err := pipeline.Ingest(context.Background(), ingest.Options{
		Source:       source,
		IndexDir:     cfg.Index.Dir,
		ForceRebuild: *rebuild,
		Persist:      cfg.Persist(),
	})
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	retr := retriever.New(res.Index, emb)
	k := cfg.Retrieval.TopK
	if *topK > 0 {
		k = *topK
	}

	if *oneShot != "" {
		runOnce(retr, ans, *oneShot, k)
		return
	}

	m := tui.New(retr, ans, k, res.Summary)
	if err := tea.NewProgram(m).Start(); err != nil {
		log.Fatal(err)
	}
}

// runOnce prints retrieval results and the answer without the TUI.
func runOnce(retr *retriever.Retriever, ans answer.Answerer, question string, k int) {
	results, err := retr.Retrieve(context.Background(), question, k)
	if err != nil {
		log.Fatalf("retrieve failed: %v", err)
	}
	passages := make([]string, len(results))
	for i, r := range results {
		passages[i] = r.Passage.Text
		fmt.Printf("[%d] score=%.3f passage=%d\n%s\n\n", i+1, r.Score, r.Passage.Index, r.Passage.Text)
	}
	text, err := ans.Answer(context.Background(), question, passages)
	if err != nil {
		log.Fatalf("answer failed: %v", err)
	}
	if text != "" {
		fmt.Println("Answer:", text)
	}
}
