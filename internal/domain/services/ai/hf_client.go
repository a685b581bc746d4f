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

	"veritas-lab/internal/domain/models"
	"veritas-lab/pkg/logger"
)

// HFClient calls the Hugging Face inference API for image classification
type HFClient struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     HFConfig
	caller     *caller
}

// HFConfig holds Hugging Face client configuration
type HFConfig struct {
	Token   string
	BaseURL string
	Model   string
	Timeout time.Duration
	Breaker BreakerSettings
}

// NewHFClient creates a new Hugging Face client. Classification is not
// retried; a failure is reported straight back to the caller.
func NewHFClient(cfg HFConfig, log *logger.Logger) *HFClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.Model == "" {
		cfg.Model = "microsoft/resnet-50"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	log = log.WithComponent("hf-client")
	return &HFClient{
		httpClient: &http.Client{},
		logger:     log,
		config:     cfg,
		caller:     newCaller("huggingface", RetryPolicy{}, cfg.Timeout, cfg.Breaker, log),
	}
}

// Configured reports whether an access token is present
func (c *HFClient) Configured() bool {
	return c.config.Token != ""
}

// Classify posts raw image bytes and returns predictions ordered by score
func (c *HFClient) Classify(ctx context.Context, image []byte, mimeType string) ([]models.ImagePrediction, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body, err := c.caller.do(ctx, func(ctx context.Context) ([]byte, error) {
		return c.post(ctx, image, mimeType)
	})
	if err != nil {
		return nil, err
	}

	var predictions []models.ImagePrediction
	if err := json.Unmarshal(body, &predictions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return predictions, nil
}

func (c *HFClient) post(ctx context.Context, image []byte, mimeType string) ([]byte, error) {
	url := c.config.BaseURL + "/models/" + c.config.Model

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	if mimeType != "" {
		req.Header.Set("Content-Type", mimeType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Provider: "HuggingFace", StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
