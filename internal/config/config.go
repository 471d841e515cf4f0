package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds settings for the OpenAI-compatible
// embeddings backend.
type OpenAIEmbedderConfig struct {
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	BatchSize   int    `yaml:"batch_size"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// HashEmbedderConfig holds settings for the local hashing embedder.
type HashEmbedderConfig struct {
	Dimension int `yaml:"dimension"`
}

// EmbedderConfig selects and configures the embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
	Hash   *HashEmbedderConfig   `yaml:"hash,omitempty"`
}

// ChunkerConfig configures passage windowing, in runes.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// IndexConfig locates the persisted index.
type IndexConfig struct {
	Dir     string `yaml:"dir"`
	Persist *bool  `yaml:"persist,omitempty"`
}

// RetrievalConfig sets query-time defaults.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// OpenAIAnswerConfig holds settings for the chat-completion answerer.
type OpenAIAnswerConfig struct {
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// AnswerConfig selects the answer-generation collaborator.
type AnswerConfig struct {
	Type   string              `yaml:"type"`
	OpenAI *OpenAIAnswerConfig `yaml:"openai,omitempty"`
}

// SummaryConfig bounds the post-ingest document summary.
type SummaryConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Index     IndexConfig     `yaml:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Answer    AnswerConfig    `yaml:"answer"`
	Summary   SummaryConfig   `yaml:"summary"`
}

// Persist reports the effective persist flag (default true).
func (c *AppConfig) Persist() bool {
	return c.Index.Persist == nil || *c.Index.Persist
}

// Load reads a config from the given path. A missing file yields the
// defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./paperwhisper.yaml first, then
// ~/.config/paperwhisper/config.yaml. If neither exists, it writes
// defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "paperwhisper.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "paperwhisper", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:  EmbedderConfig{Type: "hash"},
		Chunker:   ChunkerConfig{},
		Index:     IndexConfig{},
		Retrieval: RetrievalConfig{},
		Answer:    AnswerConfig{Type: "none"},
		Summary:   SummaryConfig{},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 900
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = 150
	}
	if cfg.Index.Dir == "" {
		cfg.Index.Dir = filepath.Join("data", "index")
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 4
	}
	if cfg.Summary.MaxSentences == 0 {
		cfg.Summary.MaxSentences = 3
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.BatchSize == 0 {
			cfg.Embedder.OpenAI.BatchSize = 32
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Answer.Type == "openai" && cfg.Answer.OpenAI != nil {
		if cfg.Answer.OpenAI.APIKeyEnv == "" {
			cfg.Answer.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Answer.OpenAI.TimeoutSecs == 0 {
			cfg.Answer.OpenAI.TimeoutSecs = 60
		}
	}
}
