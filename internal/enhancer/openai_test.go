package enhancer

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasdev/ebay-scraper-api/internal/models"
)

const testAPIURL = "https://ai.example.com/v1/chat/completions"

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client := NewClient(testAPIURL, "sk-test", "gpt-4o-mini", 5*time.Second)
	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func completionResponse(content string) httpmock.Responder {
	return httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
}

func TestEnhanceStructuredResponse(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, testAPIURL,
		completionResponse(`{"category":"Footwear","condition":"Used","summary":"A well-worn running shoe."}`))

	enhanced, err := client.Enhance(context.Background(), "Nike Air Zoom", "$89.99", "A well-worn running shoe for daily training.")
	require.NoError(t, err)

	assert.Equal(t, "Footwear", enhanced.Category)
	assert.Equal(t, "Used", enhanced.Condition)
	assert.Equal(t, "A well-worn running shoe.", enhanced.Summary)
}

func TestEnhanceStructuredResponseWithMissingFields(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, testAPIURL,
		completionResponse(`{"summary":"Just a summary."}`))

	enhanced, err := client.Enhance(context.Background(), "Item", "$1", "description")
	require.NoError(t, err)

	assert.Equal(t, models.FieldMissing, enhanced.Category)
	assert.Equal(t, models.FieldMissing, enhanced.Condition)
	assert.Equal(t, "Just a summary.", enhanced.Summary)
}

func TestEnhancePlainTextDegradesToSummary(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, testAPIURL,
		completionResponse("A concise plain-text summary of the product."))

	enhanced, err := client.Enhance(context.Background(), "Item", "$1", "description")
	require.NoError(t, err)

	assert.Equal(t, models.FieldMissing, enhanced.Category)
	assert.Equal(t, models.FieldMissing, enhanced.Condition)
	assert.Equal(t, "A concise plain-text summary of the product.", enhanced.Summary)
}

func TestEnhanceServerError(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, testAPIURL,
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"error":"overloaded"}`))

	_, err := client.Enhance(context.Background(), "Item", "$1", "description")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-200")
}

func TestEnhanceEmptyChoices(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, testAPIURL,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"choices": []any{}}))

	_, err := client.Enhance(context.Background(), "Item", "$1", "description")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestEnhanceRequestShape(t *testing.T) {
	client := newTestClient(t)

	var captured chatRequest
	httpmock.RegisterResponder(http.MethodPost, testAPIURL,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(req.Body).Decode(&captured))
			return completionResponse(`{"category":"-","condition":"-","summary":"-"}`)(req)
		})

	longDescription := ""
	for i := 0; i < 200; i++ {
		longDescription += "0123456789"
	}

	_, err := client.Enhance(context.Background(), "Nike Air Zoom", "$89.99", longDescription)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", captured.Model)
	require.NotNil(t, captured.ResponseFormat)
	assert.Equal(t, "json_object", captured.ResponseFormat.Type)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[1].Content, "Nike Air Zoom")
	assert.Less(t, len(captured.Messages[1].Content), len(longDescription),
		"description must be truncated before sending")
}

func TestEnhanceContextCancellation(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodPost, testAPIURL,
		completionResponse(`{"category":"-","condition":"-","summary":"-"}`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Enhance(ctx, "Item", "$1", "description")
	assert.Error(t, err)
}

func TestDisabledEnhancerAlwaysReturnsPlaceholder(t *testing.T) {
	enhanced, err := Disabled{}.Enhance(context.Background(), "Item", "$1", "description")
	require.NoError(t, err)
	assert.Equal(t, models.PlaceholderEnhancement(), enhanced)
}
