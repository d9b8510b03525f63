package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/xaenox/sentiment-batch/internal/analysis"
	"github.com/xaenox/sentiment-batch/internal/classifier"
	"github.com/xaenox/sentiment-batch/internal/notifier"
	"go.uber.org/zap"
)

// Runner executes one batch sentiment run over a date range.
type Runner interface {
	Run(ctx context.Context, startDate, endDate string) (*analysis.Result, error)
}

// Handler serves the batch sentiment analysis endpoint.
type Handler struct {
	runner     Runner
	notifier   notifier.Notifier
	runTimeout time.Duration
	logger     *zap.Logger
}

func NewHandler(runner Runner, n notifier.Notifier, runTimeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		runner:     runner,
		notifier:   n,
		runTimeout: runTimeout,
		logger:     logger,
	}
}

type analyzeRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type analyzeResponse struct {
	Message                string `json:"message"`
	BatchAnalysisID        string `json:"batch_analysis_id,omitempty"`
	OverallSentiment       string `json:"overall_sentiment,omitempty"`
	ConversationsProcessed *int   `json:"conversations_processed,omitempty"`
}

// AnalyzeBatch handles POST /analyze-sentiment-batch.
func (h *Handler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.StartDate == "" || req.EndDate == "" {
		h.respondError(w, http.StatusBadRequest, "startDate and endDate are required")
		return
	}

	ctx := r.Context()
	if h.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.runTimeout)
		defer cancel()
	}

	result, err := h.runner.Run(ctx, req.StartDate, req.EndDate)
	if err != nil {
		h.respondRunError(w, err)
		return
	}

	if result.NoConversations {
		h.respondJSON(w, http.StatusOK, analyzeResponse{
			Message: "No conversations found in the specified date range.",
		})
		return
	}

	h.notify(result, req.StartDate, req.EndDate)

	processed := result.ConversationsProcessed
	h.respondJSON(w, http.StatusOK, analyzeResponse{
		Message:                "Batch sentiment analysis completed.",
		BatchAnalysisID:        result.BatchID.String(),
		OverallSentiment:       result.OverallSentiment,
		ConversationsProcessed: &processed,
	})
}

// respondRunError maps the error taxonomy onto HTTP status codes.
func (h *Handler) respondRunError(w http.ResponseWriter, err error) {
	var (
		validationErr    *analysis.ValidationError
		configurationErr *analysis.ConfigurationError
		apiErr           *classifier.APIError
	)

	switch {
	case errors.As(err, &validationErr):
		h.respondError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &configurationErr):
		h.respondError(w, http.StatusServiceUnavailable, configurationErr.Message)
	case errors.As(err, &apiErr):
		h.respondError(w, http.StatusBadGateway, apiErr.Error())
	default:
		h.logger.Error("batch run failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) notify(result *analysis.Result, startDate, endDate string) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.NotifyRunCompleted(result, startDate, endDate); err != nil {
		h.logger.Warn("run notification failed", zap.Error(err))
	}
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
