package enhancer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prasdev/ebay-scraper-api/internal/models"
)

const (
	systemPrompt = "You are a product data analyzer. Extract and summarize key information from product listings."

	userPromptTemplate = `Analyze this product listing and return a JSON object with the following fields:
1. category: The likely product category
2. condition: The product condition if mentioned (new, used, refurbished, etc.)
3. summary: A concise 1-2 sentence summary of the product

Product Title: %s
Product Price: %s
Product Description: %s`

	maxDescriptionChars = 1000
)

// Client calls an OpenAI-compatible chat-completions endpoint to enhance
// product descriptions. The structured JSON contract is canonical; a backend
// that answers with plain text degrades to a summary-only result.
type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(apiURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: slog.Default().With("component", "enhancer"),
	}
}

type (
	chatRequest struct {
		Model          string          `json:"model"`
		Messages       []chatMessage   `json:"messages"`
		Temperature    float64         `json:"temperature"`
		ResponseFormat *responseFormat `json:"response_format,omitempty"`
	}
	chatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	responseFormat struct {
		Type string `json:"type"`
	}
	chatResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
)

func (c *Client) Enhance(ctx context.Context, title, price, description string) (*models.EnhancedData, error) {
	prompt := fmt.Sprintf(userPromptTemplate, title, price, truncate(description, maxDescriptionChars))

	reqBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.3,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("api returned non-200 status: %s, body: %s", resp.Status, string(body))
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("response contained no choices")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("response contained empty content")
	}

	return parseEnhancement(content), nil
}

// parseEnhancement interprets the completion content. Valid JSON fills the
// structured fields, empty ones defaulting to the placeholder. Anything else
// is the degraded plain-summarization format.
func parseEnhancement(content string) *models.EnhancedData {
	var payload struct {
		Category  string `json:"category"`
		Condition string `json:"condition"`
		Summary   string `json:"summary"`
	}

	if err := json.Unmarshal([]byte(content), &payload); err == nil {
		return &models.EnhancedData{
			Category:  orMissing(payload.Category),
			Condition: orMissing(payload.Condition),
			Summary:   orMissing(payload.Summary),
		}
	}

	return &models.EnhancedData{
		Category:  models.FieldMissing,
		Condition: models.FieldMissing,
		Summary:   content,
	}
}

func orMissing(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return models.FieldMissing
	}
	return value
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
