package answer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"paperwhisper/internal/domain"
)

// OpenAIConfig configures the chat-completion answerer.
type OpenAIConfig struct {
	Model     string
	BaseURL   string
	APIKeyEnv string
	Timeout   time.Duration
}

// OpenAIAnswerer generates answers with an OpenAI-compatible chat
// model, grounded strictly in the supplied passages.
type OpenAIAnswerer struct {
	client *openai.Client
	model  string
}

var systemPrompt = "You answer questions about a document using only the context passages provided. " +
	"If the passages do not contain the answer, reply with exactly: " + InsufficientContext

// NewOpenAIAnswerer resolves the API key from the environment and
// builds the client.
func NewOpenAIAnswerer(cfg OpenAIConfig) (*OpenAIAnswerer, error) {
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
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAIAnswerer{client: openai.NewClientWithConfig(clientCfg), model: model}, nil
}

// Answer sends the ranked passages and the question to the model.
func (a *OpenAIAnswerer) Answer(ctx context.Context, question string, passages []string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is empty", domain.ErrEmptyInput)
	}
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(question, passages)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
