package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SentimentLabel is the resolved per-conversation outcome stored in
// analysis details.
type SentimentLabel string

const (
	LabelGood     SentimentLabel = "good"
	LabelModerate SentimentLabel = "moderate"
	LabelBad      SentimentLabel = "bad"
	// LabelUnknown marks conversations whose classification failed or
	// had no content. The model never emits it directly.
	LabelUnknown SentimentLabel = "unknown"
)

// LabelForSentiment maps a model sentiment value to a stored label.
// Anything that is not Positive or Negative lands on moderate; failed
// classifications never reach this function (they are recorded as
// unknown by the orchestrator).
func LabelForSentiment(sentiment string) SentimentLabel {
	switch sentiment {
	case SentimentPositive:
		return LabelGood
	case SentimentNegative:
		return LabelBad
	default:
		return LabelModerate
	}
}

// BatchAnalysis is the summary record of one batch run. It is written
// once after all classifications complete and never mutated.
type BatchAnalysis struct {
	ID               uuid.UUID `json:"id"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	PositiveCount    int       `json:"positive_count"`
	NegativeCount    int       `json:"negative_count"`
	NeutralCount     int       `json:"neutral_count"`
	UnknownCount     int       `json:"unknown_count"`
	ConversationIDs  []string  `json:"conversation_ids"`
	OverallSentiment string    `json:"overall_sentiment"`
	CreatedAt        time.Time `json:"created_at"`
}

// Summary renders the human-readable count line stored in
// OverallSentiment and returned to the caller.
func (b *BatchAnalysis) Summary() string {
	return fmt.Sprintf("Positive: %d, Negative: %d, Neutral: %d, Unknown: %d",
		b.PositiveCount, b.NegativeCount, b.NeutralCount, b.UnknownCount)
}

// AnalysisDetail is the per-conversation outcome row of a batch run.
// Details are bulk-inserted after the owning BatchAnalysis exists.
type AnalysisDetail struct {
	BatchID        uuid.UUID      `json:"batch_id"`
	ConversationID string         `json:"conversation_id"`
	Sentiment      SentimentLabel `json:"sentiment"`
	Description    string         `json:"description"`
}
