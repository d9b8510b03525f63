package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/sentiment-batch/internal/models"
	"go.uber.org/zap"
)

// newModelServer fakes an OpenAI-compatible chat completion endpoint
// that always answers with the given message content.
func newModelServer(t *testing.T, calls *int64, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":{"message":"upstream failure"}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newTestClassifier(baseURL string) *GPTClassifier {
	return NewGPTClassifier(Config{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "gpt-4o-mini",
		MaxTokens:   200,
		Temperature: 0.1,
	}, zap.NewNop())
}

func TestClassify_EmptyTranscriptShortCircuits(t *testing.T) {
	var calls int64
	srv := newModelServer(t, &calls, http.StatusOK, `{"sentiment":"Positive","description":"x"}`)
	defer srv.Close()
	c := newTestClassifier(srv.URL + "/v1")

	for _, transcript := range []string{"", "   ", "\n\t "} {
		got, err := c.Classify(context.Background(), transcript)
		require.NoError(t, err)
		assert.Equal(t, models.SentimentNeutral, got.Sentiment)
		assert.Equal(t, "No content to analyze.", got.Description)
	}

	assert.Equal(t, int64(0), atomic.LoadInt64(&calls), "model must not be called for empty transcripts")
}

func TestClassify_ParsesModelResponse(t *testing.T) {
	var calls int64
	srv := newModelServer(t, &calls, http.StatusOK, `{"sentiment":"Positive","description":"Customer thanked the agent."}`)
	defer srv.Close()
	c := newTestClassifier(srv.URL + "/v1")

	got, err := c.Classify(context.Background(), "customer: thanks a lot!")

	require.NoError(t, err)
	assert.Equal(t, models.SentimentPositive, got.Sentiment)
	assert.Equal(t, "Customer thanked the agent.", got.Description)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestClassify_InvalidJSONIsParseError(t *testing.T) {
	var calls int64
	srv := newModelServer(t, &calls, http.StatusOK, "the sentiment is positive")
	defer srv.Close()
	c := newTestClassifier(srv.URL + "/v1")

	_, err := c.Classify(context.Background(), "customer: hello")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "the sentiment is positive", parseErr.Raw)
}

func TestClassify_MissingKeysIsFormatError(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing string
	}{
		{"no sentiment", `{"description":"all good"}`, "sentiment"},
		{"no description", `{"sentiment":"Positive"}`, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int64
			srv := newModelServer(t, &calls, http.StatusOK, tt.content)
			defer srv.Close()
			c := newTestClassifier(srv.URL + "/v1")

			_, err := c.Classify(context.Background(), "customer: hello")

			var formatErr *FormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, tt.missing, formatErr.MissingKey)
		})
	}
}

func TestClassify_APIFaultIsAPIError(t *testing.T) {
	var calls int64
	srv := newModelServer(t, &calls, http.StatusServiceUnavailable, "")
	defer srv.Close()
	c := newTestClassifier(srv.URL + "/v1")

	_, err := c.Classify(context.Background(), "customer: hello")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
}

func TestClassify_PassesThroughUnrecognizedSentiment(t *testing.T) {
	var calls int64
	srv := newModelServer(t, &calls, http.StatusOK, `{"sentiment":"Mixed","description":"hard to say"}`)
	defer srv.Close()
	c := newTestClassifier(srv.URL + "/v1")

	got, err := c.Classify(context.Background(), "customer: hello")

	require.NoError(t, err)
	assert.Equal(t, "Mixed", got.Sentiment)
}
