package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/sentiment-batch/internal/classifier"
	"github.com/xaenox/sentiment-batch/internal/models"
	"github.com/xaenox/sentiment-batch/internal/storage"
	"github.com/xaenox/sentiment-batch/internal/transcript"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Result is the outcome of one batch run.
type Result struct {
	BatchID                uuid.UUID
	OverallSentiment       string
	ConversationsProcessed int
	DetailsDropped         int
	NoConversations        bool
}

// Orchestrator drives one batch sentiment run: fetch conversations in a
// date range, classify each with per-item failure isolation, persist a
// summary record plus detail rows.
type Orchestrator struct {
	store       storage.Storage
	classifier  classifier.Classifier
	transcripts *transcript.Builder
	logger      *zap.Logger
}

func NewOrchestrator(store storage.Storage, clf classifier.Classifier, transcripts *transcript.Builder, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:       store,
		classifier:  clf,
		transcripts: transcripts,
		logger:      logger,
	}
}

// Run analyzes every conversation created within [startDate, endDate]
// inclusive. Per-conversation failures are recorded as unknown and
// never abort the batch; only date validation, conversation fetch and
// summary persistence are fatal.
func (o *Orchestrator) Run(ctx context.Context, startDate, endDate string) (*Result, error) {
	if o.classifier == nil {
		return nil, &ConfigurationError{Message: "sentiment classifier is not configured"}
	}

	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	conversations, err := o.store.GetConversationsByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", err)
	}

	if len(conversations) == 0 {
		o.logger.Info("no conversations in range",
			zap.String("start_date", startDate),
			zap.String("end_date", endDate))
		return &Result{NoConversations: true}, nil
	}

	o.logger.Info("starting batch sentiment analysis",
		zap.String("start_date", startDate),
		zap.String("end_date", endDate),
		zap.Int("conversations", len(conversations)))

	batch := &models.BatchAnalysis{
		StartDate: start,
		EndDate:   end,
	}
	details := make([]models.AnalysisDetail, 0, len(conversations))

	for _, conv := range conversations {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("batch run canceled: %w", err)
		}

		label, description := o.analyzeConversation(ctx, conv.ID)

		switch label {
		case models.LabelGood:
			batch.PositiveCount++
		case models.LabelBad:
			batch.NegativeCount++
		case models.LabelModerate:
			batch.NeutralCount++
		default:
			batch.UnknownCount++
		}

		batch.ConversationIDs = append(batch.ConversationIDs, conv.ID)
		details = append(details, models.AnalysisDetail{
			ConversationID: conv.ID,
			Sentiment:      label,
			Description:    description,
		})
	}

	batch.OverallSentiment = batch.Summary()

	if err := o.store.CreateBatchAnalysis(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to persist batch analysis: %w", err)
	}

	for i := range details {
		details[i].BatchID = batch.ID
	}

	insertResult, err := o.store.InsertAnalysisDetails(ctx, details)
	if err != nil {
		return nil, fmt.Errorf("failed to persist analysis details: %w", err)
	}

	o.logger.Info("batch sentiment analysis completed",
		zap.String("batch_id", batch.ID.String()),
		zap.String("overall_sentiment", batch.OverallSentiment),
		zap.Int("conversations_processed", len(conversations)),
		zap.Int("details_dropped", insertResult.Dropped))

	return &Result{
		BatchID:                batch.ID,
		OverallSentiment:       batch.OverallSentiment,
		ConversationsProcessed: len(conversations),
		DetailsDropped:         insertResult.Dropped,
	}, nil
}

// analyzeConversation resolves one conversation to a label and
// description. Any failure is absorbed into the unknown label with the
// error message as description.
func (o *Orchestrator) analyzeConversation(ctx context.Context, conversationID string) (models.SentimentLabel, string) {
	text, err := o.transcripts.Build(ctx, conversationID)
	if err != nil {
		o.logger.Warn("transcript build failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		return models.LabelUnknown, err.Error()
	}

	result, err := o.classifier.Classify(ctx, text)
	if err != nil {
		o.logger.Warn("classification failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		return models.LabelUnknown, err.Error()
	}

	o.logger.Debug("conversation classified",
		zap.String("conversation_id", conversationID),
		zap.String("sentiment", result.Sentiment))

	return models.LabelForSentiment(result.Sentiment), result.Description
}

// parseDateRange validates the inclusive date window. The end date is
// expanded to the last instant of its day so same-day conversations are
// included.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Message: fmt.Sprintf("invalid startDate %q: expected YYYY-MM-DD", startDate)}
	}

	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Message: fmt.Sprintf("invalid endDate %q: expected YYYY-MM-DD", endDate)}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, &ValidationError{Message: "startDate must not be after endDate"}
	}

	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end, nil
}
