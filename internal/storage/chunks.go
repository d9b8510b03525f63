package storage

import (
	"context"

	"github.com/xaenox/sentiment-batch/internal/models"
	"go.uber.org/zap"
)

// DefaultChunkSize is the number of detail rows per bulk insert.
const DefaultChunkSize = 100

// detailInserter is the minimal write surface the chunking loop needs.
// Both storage backends implement it.
type detailInserter interface {
	insertDetailChunk(ctx context.Context, details []models.AnalysisDetail) error
	insertDetail(ctx context.Context, detail models.AnalysisDetail) error
}

// insertDetailsChunked writes details in fixed-size chunks. A failed
// chunk insert is retried record by record; records that still fail are
// dropped with a warning. Only context cancellation aborts the loop.
func insertDetailsChunked(ctx context.Context, ins detailInserter, details []models.AnalysisDetail, chunkSize int, logger *zap.Logger) (DetailInsertResult, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	var result DetailInsertResult
	for start := 0; start < len(details); start += chunkSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := start + chunkSize
		if end > len(details) {
			end = len(details)
		}
		chunk := details[start:end]

		err := ins.insertDetailChunk(ctx, chunk)
		if err == nil {
			result.Inserted += len(chunk)
			continue
		}
		logger.Warn("detail chunk insert failed, retrying records individually",
			zap.Int("chunk_start", start),
			zap.Int("chunk_size", len(chunk)),
			zap.Error(err))

		for _, detail := range chunk {
			if err := ins.insertDetail(ctx, detail); err != nil {
				result.Dropped++
				logger.Warn("dropping analysis detail after individual retry failed",
					zap.String("conversation_id", detail.ConversationID),
					zap.Error(err))
				continue
			}
			result.Inserted++
		}
	}

	if result.Dropped > 0 && len(details) > 0 {
		logger.Warn("some analysis details were not persisted",
			zap.String("batch_id", details[0].BatchID.String()),
			zap.Int("dropped", result.Dropped),
			zap.Int("inserted", result.Inserted))
	}

	return result, nil
}
