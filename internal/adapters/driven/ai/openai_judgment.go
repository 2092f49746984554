package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
)

// Ensure OpenAIJudgment implements JudgmentService
var _ driven.JudgmentService = (*OpenAIJudgment)(nil)

// OpenAIJudgment implements JudgmentService using OpenAI's chat
// completions API. One request per classification, no conversation
// state.
type OpenAIJudgment struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIJudgment creates a new OpenAI judgment service
func NewOpenAIJudgment(apiKey, model, baseURL string) (driven.JudgmentService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", domain.ErrConfiguration)
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIJudgment{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body for OpenAI chat completions API
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatResponse is the response from OpenAI chat completions API
type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Classify sends one prompt and returns the model's free-form reply
func (j *OpenAIJudgment) Classify(ctx context.Context, req driven.JudgmentRequest) (*driven.JudgmentReply, error) {
	model := req.Model
	if model == "" {
		model = j.model
	}

	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	reqBody := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	resp, err := j.doRequest(ctx, reqBody)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: chat completion returned no content", domain.ErrEmptyReply)
	}

	return &driven.JudgmentReply{
		Text:        resp.Choices[0].Message.Content,
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}

// Model returns the model name being used
func (j *OpenAIJudgment) Model() string {
	return j.model
}

// Ping verifies the judgment service is available
func (j *OpenAIJudgment) Ping(ctx context.Context) error {
	_, err := j.Classify(ctx, driven.JudgmentRequest{
		User:      "ping",
		MaxTokens: 1,
	})
	// An empty reply still proves the endpoint answered.
	if err != nil && !isEmptyReply(err) {
		return err
	}
	return nil
}

// Close releases resources held by the judgment service
func (j *OpenAIJudgment) Close() error {
	j.client.CloseIdleConnections()
	return nil
}

// doRequest makes a request to the OpenAI chat completions API
func (j *OpenAIJudgment) doRequest(ctx context.Context, reqBody chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", j.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+j.apiKey)

	resp, err := j.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrTransport, err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", domain.ErrTransport, err)
	}

	if chatResp.Error != nil {
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfiguration, chatResp.Error.Message)
		}
		return nil, fmt.Errorf("%w: OpenAI API error: %s (type: %s, code: %s)",
			domain.ErrTransport, chatResp.Error.Message, chatResp.Error.Type, chatResp.Error.Code)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: OpenAI API returned status %d", domain.ErrTransport, resp.StatusCode)
	}

	return &chatResp, nil
}
