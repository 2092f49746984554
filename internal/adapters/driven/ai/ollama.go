package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
)

var (
	_ driven.EmbeddingService = (*OllamaEmbedding)(nil)
	_ driven.JudgmentService  = (*OllamaJudgment)(nil)
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaEmbedding implements EmbeddingService against a local Ollama
// instance. No credential is required.
type OllamaEmbedding struct {
	model   string
	baseURL string
	client  *http.Client

	// Dimensions depend on the pulled model and are learned from the
	// first reply. Concurrent embeds share this memo.
	mu         sync.Mutex
	dimensions int
}

// NewOllamaEmbedding creates a new Ollama embedding service
func NewOllamaEmbedding(baseURL, model string) (driven.EmbeddingService, error) {
	if model == "" {
		model = "nomic-embed-text"
	}
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}

	return &OllamaEmbedding{
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// Embed generates embeddings for multiple texts. Ollama's embeddings
// endpoint takes one prompt per call, so the batch is sequential.
func (e *OllamaEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

// EmbedQuery generates an embedding for a single document text
func (e *OllamaEmbedding) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	reqBody := ollamaEmbeddingRequest{Model: e.model, Prompt: text}

	var embResp ollamaEmbeddingResponse
	if err := postOllama(ctx, e.client, e.baseURL+"/api/embeddings", reqBody, &embResp); err != nil {
		return nil, err
	}
	if embResp.Error != "" {
		return nil, fmt.Errorf("%w: Ollama error: %s", domain.ErrTransport, embResp.Error)
	}
	if len(embResp.Embedding) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", domain.ErrEmptyReply)
	}

	e.mu.Lock()
	if e.dimensions == 0 {
		e.dimensions = len(embResp.Embedding)
	}
	e.mu.Unlock()

	return embResp.Embedding, nil
}

// Dimensions returns the embedding dimension size. Zero until the
// first successful embed.
func (e *OllamaEmbedding) Dimensions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dimensions
}

// Model returns the model name being used
func (e *OllamaEmbedding) Model() string {
	return e.model
}

// HealthCheck verifies the embedding service is available
func (e *OllamaEmbedding) HealthCheck(ctx context.Context) error {
	_, err := e.EmbedQuery(ctx, "health check")
	return err
}

// Close releases resources held by the embedding service
func (e *OllamaEmbedding) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// OllamaJudgment implements JudgmentService against a local Ollama
// instance via the chat endpoint.
type OllamaJudgment struct {
	model   string
	baseURL string
	client  *http.Client
}

// NewOllamaJudgment creates a new Ollama judgment service
func NewOllamaJudgment(baseURL, model string) (driven.JudgmentService, error) {
	if model == "" {
		model = "llama3.1"
	}
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}

	return &OllamaJudgment{
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature"`
		NumPredict  int     `json:"num_predict,omitempty"`
	} `json:"options"`
}

type ollamaChatResponse struct {
	Message         chatMessage `json:"message"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
	Error           string      `json:"error,omitempty"`
}

// Classify sends one prompt and returns the model's free-form reply
func (j *OllamaJudgment) Classify(ctx context.Context, req driven.JudgmentRequest) (*driven.JudgmentReply, error) {
	model := req.Model
	if model == "" {
		model = j.model
	}

	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	reqBody := ollamaChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
	}
	reqBody.Options.Temperature = req.Temperature
	reqBody.Options.NumPredict = req.MaxTokens

	var chatResp ollamaChatResponse
	if err := postOllama(ctx, j.client, j.baseURL+"/api/chat", reqBody, &chatResp); err != nil {
		return nil, err
	}
	if chatResp.Error != "" {
		return nil, fmt.Errorf("%w: Ollama error: %s", domain.ErrTransport, chatResp.Error)
	}
	if chatResp.Message.Content == "" {
		return nil, fmt.Errorf("%w: chat returned no content", domain.ErrEmptyReply)
	}

	return &driven.JudgmentReply{
		Text:        chatResp.Message.Content,
		TotalTokens: chatResp.PromptEvalCount + chatResp.EvalCount,
	}, nil
}

// Model returns the model name being used
func (j *OllamaJudgment) Model() string {
	return j.model
}

// Ping verifies the judgment service is available
func (j *OllamaJudgment) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", j.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := j.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: Ollama returned status %d", domain.ErrTransport, resp.StatusCode)
	}
	return nil
}

// Close releases resources held by the judgment service
func (j *OllamaJudgment) Close() error {
	j.client.CloseIdleConnections()
	return nil
}

// postOllama posts a JSON body and decodes the JSON reply
func postOllama(ctx context.Context, client *http.Client, url string, reqBody, out any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", domain.ErrTransport, err)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", domain.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: Ollama returned status %d", domain.ErrTransport, resp.StatusCode)
	}
	return nil
}
