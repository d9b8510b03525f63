package transcript

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaenox/sentiment-batch/internal/models"
	"go.uber.org/zap"
)

// UnknownParticipant is substituted when a message has no sender
// identifier.
const UnknownParticipant = "UnknownParticipant"

// MessageSource provides the messages of a conversation ordered by
// creation time ascending.
type MessageSource interface {
	GetMessages(ctx context.Context, conversationID string) ([]models.Message, error)
}

// Format renders an ordered message list as one text block, one
// "<sender>: <content>" line per message. It is a pure function of its
// input; an empty message list yields an empty string.
func Format(messages []models.Message) string {
	if len(messages) == 0 {
		return ""
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		sender := msg.Sender
		if sender == "" {
			sender = UnknownParticipant
		}
		lines = append(lines, sender+": "+msg.Content)
	}

	return strings.Join(lines, "\n")
}

// Builder fetches a conversation's messages and formats them into a
// transcript.
type Builder struct {
	source MessageSource
	logger *zap.Logger
}

func NewBuilder(source MessageSource, logger *zap.Logger) *Builder {
	return &Builder{
		source: source,
		logger: logger,
	}
}

// Build returns the transcript for a conversation. A conversation with
// no messages yields an empty string, not an error; only data-access
// faults are returned as errors.
func (b *Builder) Build(ctx context.Context, conversationID string) (string, error) {
	messages, err := b.source.GetMessages(ctx, conversationID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch messages for conversation %s: %w", conversationID, err)
	}

	if len(messages) == 0 {
		b.logger.Debug("conversation has no messages", zap.String("conversation_id", conversationID))
	}

	return Format(messages), nil
}
