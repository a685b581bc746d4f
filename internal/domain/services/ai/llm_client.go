package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"veritas-lab/pkg/logger"
)

// LLMClient talks to an OpenAI-compatible chat completions API
type LLMClient struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     LLMConfig
	caller     *caller
}

// LLMConfig holds LLM client configuration
type LLMConfig struct {
	APIKey  string
	BaseURL string
	// Timeout bounds a single attempt, not the whole retry sequence
	Timeout time.Duration
	Retry   RetryPolicy
	Breaker BreakerSettings
}

// NewLLMClient creates a new LLM client
func NewLLMClient(cfg LLMConfig, log *logger.Logger) *LLMClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	log = log.WithComponent("llm-client")
	return &LLMClient{
		httpClient: &http.Client{},
		logger:     log,
		config:     cfg,
		caller:     newCaller("openai", cfg.Retry, cfg.Timeout, cfg.Breaker, log),
	}
}

// Configured reports whether an API key is present
func (c *LLMClient) Configured() bool {
	return c.config.APIKey != ""
}

// Message represents a chat message
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart represents a part of message content (text or image)
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image by URL or data URL
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"` // low, high, auto
}

// NewTextMessage creates a simple text message
func NewTextMessage(role, text string) Message {
	return Message{
		Role: role,
		Content: []ContentPart{
			{Type: "text", Text: text},
		},
	}
}

// CompletionRequest represents a completion request
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// CompletionResponse represents a completion response
type CompletionResponse struct {
	Content      string
	FinishReason string
	InputTokens  int
	OutputTokens int
}

type openAIRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends one chat completion through the retry and breaker policy
func (c *LLMClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	messages := make([]Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, NewTextMessage("system", req.System))
	}
	messages = append(messages, req.Messages...)

	jsonBody, err := json.Marshal(openAIRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	body, err := c.caller.do(ctx, func(ctx context.Context) ([]byte, error) {
		return c.post(ctx, jsonBody)
	})
	if err != nil {
		return nil, err
	}

	return parseCompletion(body)
}

// Chat sends a conversation and returns the assistant's text
func (c *LLMClient) Chat(ctx context.Context, model string, temperature float64, system string, messages []Message) (string, error) {
	resp, err := c.Complete(ctx, CompletionRequest{
		Model:       model,
		System:      system,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (c *LLMClient) post(ctx context.Context, jsonBody []byte) ([]byte, error) {
	url := c.config.BaseURL + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Provider: "OpenAI", StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// parseCompletion requires choices[0].message.content to be present
func parseCompletion(body []byte) (*CompletionResponse, error) {
	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message == nil || parsed.Choices[0].Message.Content == nil {
		return nil, ErrMalformedResponse
	}

	return &CompletionResponse{
		Content:      *parsed.Choices[0].Message.Content,
		FinishReason: parsed.Choices[0].FinishReason,
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
	}, nil
}
