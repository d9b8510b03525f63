package storage

import (
	"context"
	"time"

	"github.com/xaenox/sentiment-batch/internal/models"
)

// DetailInsertResult reports the outcome of a bulk detail write.
// Dropped counts records that failed both the chunk insert and the
// individual retry.
type DetailInsertResult struct {
	Inserted int
	Dropped  int
}

// Storage is the persistence boundary of the analysis pipeline.
type Storage interface {
	// GetConversationsByDateRange returns all conversations created
	// within [start, end] inclusive, ordered by creation time ascending.
	GetConversationsByDateRange(ctx context.Context, start, end time.Time) ([]models.Conversation, error)

	// GetMessages returns a conversation's messages ordered by creation
	// time ascending.
	GetMessages(ctx context.Context, conversationID string) ([]models.Message, error)

	// CreateBatchAnalysis inserts the summary record, assigning its id
	// and creation time. A failure here is fatal to the run.
	CreateBatchAnalysis(ctx context.Context, batch *models.BatchAnalysis) error

	// InsertAnalysisDetails bulk-inserts detail rows in chunks, falling
	// back to one-at-a-time inserts for a failed chunk. Residual
	// failures are dropped, not returned as errors.
	InsertAnalysisDetails(ctx context.Context, details []models.AnalysisDetail) (DetailInsertResult, error)

	Close() error
}
