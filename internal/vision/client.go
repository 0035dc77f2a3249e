// Package vision calls an external vision model to tag wardrobe item photos
// with category, primary color and style, constrained to the closed
// vocabularies in the model package.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/riky007-ux/stylemingle-sub000/internal/model"
)

const (
	// MaxBatchSize caps how many items a single model call may carry.
	MaxBatchSize = 6

	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "gpt-4o-mini"
	defaultHTTPTimeout = 60 * time.Second
)

// TagInput identifies one item to tag by its image URL.
type TagInput struct {
	ItemID   string
	ImageURL string
}

// TagResult is one validated tagging outcome. Every field is guaranteed to be
// a member of its vocabulary; uncertainty shows up as "unknown", never as an
// empty string or free text.
type TagResult struct {
	ItemID       string
	Category     string
	PrimaryColor string
	StyleTag     string
}

// Client wraps an OpenAI-compatible chat completion API with vision input.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option customizes the vision client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithModel overrides the default model name.
func WithModel(name string) Option {
	return func(c *Client) {
		name = strings.TrimSpace(name)
		if name != "" {
			c.model = name
		}
	}
}

// NewClient constructs a vision tagging client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Tag obtains a metadata triple for each input. The returned slice has the same
// length and item-id order as inputs; items the model skipped or mangled come
// back all-unknown rather than failing the batch. ErrInvalidPayload is raised
// only when the top-level response shape cannot be recovered at all.
func (c *Client) Tag(ctx context.Context, inputs []TagInput) ([]TagResult, error) {
	if len(inputs) == 0 {
		return nil, errors.New("vision tag: at least one input required")
	}
	if len(inputs) > MaxBatchSize {
		return nil, fmt.Errorf("vision tag: batch of %d exceeds limit %d", len(inputs), MaxBatchSize)
	}
	if c.apiKey == "" {
		return nil, errors.New("vision tag: api key required")
	}

	endpoint, err := url.JoinPath(c.baseURL, "/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("vision tag: build url: %w", err)
	}
	encoded, err := json.Marshal(buildChatRequest(c.model, inputs))
	if err != nil {
		return nil, fmt.Errorf("vision tag: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("vision tag: request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision tag: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("vision tag: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("vision tag: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("vision tag: decode response: %w", err)
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("vision tag: api error: %s", strings.TrimSpace(completion.Error.Message))
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("vision tag: empty choices")
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return nil, errors.New("vision tag: empty content")
	}

	payload, err := parsePayload(content)
	if err != nil {
		return nil, err
	}
	return alignResults(inputs, payload), nil
}

type chatCompletionRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat any           `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func buildChatRequest(modelName string, inputs []TagInput) chatCompletionRequest {
	parts := []contentPart{{Type: "text", Text: fmt.Sprintf("Tag the following %d wardrobe items.", len(inputs))}}
	for _, in := range inputs {
		parts = append(parts,
			contentPart{Type: "text", Text: "Item " + in.ItemID + ":"},
			contentPart{Type: "image_url", ImageURL: &imageURL{URL: in.ImageURL}},
		)
	}
	return chatCompletionRequest{
		Model: modelName,
		Messages: []chatMessage{
			{Role: "system", Content: TaggingPrompt},
			{Role: "user", Content: parts},
		},
		Temperature:    0,
		ResponseFormat: responseSchema(),
	}
}

// responseSchema pins the model to a strict JSON schema: an items array with
// enumerated leaf values and no additional properties, so the reply parses
// without free-form text scraping as a first resort.
func responseSchema() map[string]any {
	return map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "wardrobe_tags",
			"strict": true,
			"schema": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"items"},
				"properties": map[string]any{
					"items": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":                 "object",
							"additionalProperties": false,
							"required":             []string{"itemId", "category", "primaryColor", "styleTag"},
							"properties": map[string]any{
								"itemId":       map[string]any{"type": "string"},
								"category":     map[string]any{"type": "string", "enum": model.Categories},
								"primaryColor": map[string]any{"type": "string", "enum": model.Colors},
								"styleTag":     map[string]any{"type": "string", "enum": model.Styles},
							},
						},
					},
				},
			},
		},
	}
}
