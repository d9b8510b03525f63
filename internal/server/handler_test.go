package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/sentiment-batch/internal/analysis"
	"github.com/xaenox/sentiment-batch/internal/classifier"
	"go.uber.org/zap"
)

type fakeRunner struct {
	result *analysis.Result
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, startDate, endDate string) (*analysis.Result, error) {
	return f.result, f.err
}

func newTestRouter(runner Runner) http.Handler {
	return NewRouter(NewHandler(runner, nil, 0, zap.NewNop()))
}

func postAnalyze(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/analyze-sentiment-batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeBatch_Success(t *testing.T) {
	batchID := uuid.New()
	router := newTestRouter(&fakeRunner{result: &analysis.Result{
		BatchID:                batchID,
		OverallSentiment:       "Positive: 2, Negative: 1, Neutral: 0, Unknown: 0",
		ConversationsProcessed: 3,
	}})

	rec := postAnalyze(router, `{"startDate":"2024-01-01","endDate":"2024-01-31"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Batch sentiment analysis completed.", resp["message"])
	assert.Equal(t, batchID.String(), resp["batch_analysis_id"])
	assert.Equal(t, "Positive: 2, Negative: 1, Neutral: 0, Unknown: 0", resp["overall_sentiment"])
	assert.Equal(t, float64(3), resp["conversations_processed"])
}

func TestAnalyzeBatch_NoConversations(t *testing.T) {
	router := newTestRouter(&fakeRunner{result: &analysis.Result{NoConversations: true}})

	rec := postAnalyze(router, `{"startDate":"2024-01-01","endDate":"2024-01-31"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No conversations found in the specified date range.", resp["message"])
	assert.NotContains(t, resp, "batch_analysis_id")
}

func TestAnalyzeBatch_MalformedBody(t *testing.T) {
	router := newTestRouter(&fakeRunner{})

	rec := postAnalyze(router, `{"startDate": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeBatch_MissingFields(t *testing.T) {
	router := newTestRouter(&fakeRunner{})

	for _, body := range []string{`{}`, `{"startDate":"2024-01-01"}`, `{"endDate":"2024-01-31"}`} {
		rec := postAnalyze(router, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestAnalyzeBatch_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &analysis.ValidationError{Message: "startDate must not be after endDate"}, http.StatusBadRequest},
		{"configuration", &analysis.ConfigurationError{Message: "classifier unavailable"}, http.StatusServiceUnavailable},
		{"classifier api", &classifier.APIError{Err: errors.New("upstream 500")}, http.StatusBadGateway},
		{"storage", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeRunner{err: tt.err})

			rec := postAnalyze(router, `{"startDate":"2024-01-01","endDate":"2024-01-31"}`)

			assert.Equal(t, tt.status, rec.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestOptionsPreflightGetsCORSHeaders(t *testing.T) {
	router := newTestRouter(&fakeRunner{})

	req := httptest.NewRequest(http.MethodOptions, "/analyze-sentiment-batch", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Empty(t, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
