package embedding

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"paperwhisper/internal/domain"
)

// OpenAIConfig configures the OpenAI-compatible embeddings client.
// BaseURL may point at any compatible server (Ollama, vLLM, ...).
type OpenAIConfig struct {
	Model     string
	BaseURL   string
	APIKeyEnv string
	BatchSize int
	Timeout   time.Duration
}

// OpenAIEmbedder produces unit-length embeddings via the OpenAI
// embeddings API.
type OpenAIEmbedder struct {
	client    *openai.Client
	model     string
	batchSize int
	dimension int
}

// Known dimensions per model; anything else is learned from the first
// response.
var openAIModelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// NewOpenAIEmbedder resolves the API key from the environment and
// builds the client. A missing key is a model-load failure, not an
// embedding failure.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	keyEnv := cfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(keyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: missing API key in env %s", domain.ErrModelLoad, keyEnv)
	}
	model := cfg.Model
	if model == "" {
		model = "text-embedding-3-small"
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 32
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAIEmbedder{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     model,
		batchSize: batch,
		dimension: openAIModelDimensions[model],
	}, nil
}

// Embed returns the normalized embedding of a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in request batches, preserving input order.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts to embed", domain.ErrEmptyInput)
	}
	for i, t := range texts {
		if t == "" {
			return nil, fmt.Errorf("%w: text %d is empty", domain.ErrEmptyInput, i)
		}
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(e.model),
			Input: batch,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrEmbedding, e.model, err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", domain.ErrEmbedding, len(resp.Data), len(batch))
		}
		for i, d := range resp.Data {
			src := d.Embedding
			vec := make([]float32, len(src))
			for j := range src {
				vec[j] = float32(src[j])
			}
			if !l2normalize(vec) {
				return nil, fmt.Errorf("%w: zero-magnitude embedding for text %d", domain.ErrEmbedding, start+i)
			}
			if e.dimension == 0 {
				e.dimension = len(vec)
			}
			if len(vec) != e.dimension {
				return nil, fmt.Errorf("%w: dimension changed from %d to %d", domain.ErrEmbedding, e.dimension, len(vec))
			}
			out = append(out, vec)
		}
	}
	return out, nil
}

// Dimension returns the vector size, or 0 before the first embed of an
// unknown model.
func (e *OpenAIEmbedder) Dimension() int { return e.dimension }

// Model returns the embedding model identifier.
func (e *OpenAIEmbedder) Model() string { return e.model }
