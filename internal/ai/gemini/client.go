package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/resfit/resfit/internal/ai"
	"github.com/resfit/resfit/internal/util"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 3
	defaultMaxLogLen  = 200
)

// generator is the slice of the genai client the completer uses; tests swap
// in a stub.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client issues schema-constrained completions against the Gemini API. It
// retries malformed or empty responses internally up to maxRetries, so
// callers see either conforming JSON or a terminal error.
type Client struct {
	models     generator
	modelName  string
	maxRetries int
	maxLogLen  int
	logger     *zap.Logger
}

// NewClient creates a Client for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		models:     client.Models,
		modelName:  model,
		maxRetries: maxRetries,
		maxLogLen:  defaultMaxLogLen,
		logger:     logger,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

// Complete implements ai.Completer.
func (c *Client) Complete(ctx context.Context, req ai.Request) ([]byte, error) {
	if c == nil || c.models == nil {
		return nil, errors.New("gemini client is not initialized")
	}
	if strings.TrimSpace(req.User) == "" {
		return nil, errors.New("completion content must not be empty")
	}
	if req.Schema == nil {
		return nil, errors.New("completion schema is required")
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
	}
	if system := strings.TrimSpace(req.System); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	c.logger.Debug("gemini completion request",
		zap.String("model", c.modelName),
		zap.Int("content_length", len(req.User)),
		zap.String("content_preview", util.TruncateForLog(req.User, c.maxLogLen)),
	)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := c.generate(ctx, req.User, config)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if attempt < c.maxRetries {
			c.logger.Warn("gemini completion attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", c.maxRetries),
				zap.Error(err),
			)
		}
	}

	return nil, fmt.Errorf("gemini completion failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) generate(ctx context.Context, content string, config *genai.GenerateContentConfig) ([]byte, error) {
	resp, err := c.models.GenerateContent(ctx, c.modelName, genai.Text(content), config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return nil, errors.New("gemini api returned nil response")
	}

	raw := stripCodeFence(resp.Text())
	if raw == "" {
		return nil, errors.New("gemini api returned empty response")
	}

	if !json.Valid([]byte(raw)) {
		c.logger.Debug("gemini returned malformed json",
			zap.String("response_preview", util.TruncateForLog(raw, c.maxLogLen)),
		)
		return nil, errors.New("gemini api returned malformed json")
	}

	return []byte(raw), nil
}

// stripCodeFence removes a markdown code fence some models wrap JSON in even
// when a response mime type is requested.
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
