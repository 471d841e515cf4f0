package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chunker.ChunkSize != 900 || cfg.Chunker.ChunkOverlap != 150 {
		t.Errorf("chunker defaults = %d/%d", cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
	}
	if cfg.Retrieval.TopK != 4 {
		t.Errorf("top_k default = %d", cfg.Retrieval.TopK)
	}
	if cfg.Embedder.Type != "hash" {
		t.Errorf("embedder default = %q", cfg.Embedder.Type)
	}
	if !cfg.Persist() {
		t.Error("persist should default to true")
	}
}

func TestLoadAppliesSectionDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
embedder:
  type: openai
  openai:
    base_url: http://localhost:11434/v1
chunker:
  chunk_size: 500
index:
  persist: false
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chunker.ChunkSize != 500 {
		t.Errorf("chunk_size = %d, want 500", cfg.Chunker.ChunkSize)
	}
	if cfg.Chunker.ChunkOverlap != 150 {
		t.Errorf("chunk_overlap default = %d, want 150", cfg.Chunker.ChunkOverlap)
	}
	if cfg.Embedder.OpenAI.Model != "text-embedding-3-small" {
		t.Errorf("openai model default = %q", cfg.Embedder.OpenAI.Model)
	}
	if cfg.Embedder.OpenAI.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("api key env default = %q", cfg.Embedder.OpenAI.APIKeyEnv)
	}
	if cfg.Persist() {
		t.Error("persist=false should be honored")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Retrieval.TopK = 7
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Retrieval.TopK != 7 {
		t.Errorf("top_k = %d after round trip, want 7", loaded.Retrieval.TopK)
	}
}
