package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/sentiment-batch/internal/analysis"
	"go.uber.org/zap"
)

// Notifier announces completed batch runs to an operations channel.
type Notifier interface {
	NotifyRunCompleted(result *analysis.Result, startDate, endDate string) error
}

// TelegramNotifier posts run summaries to a Telegram chat. It is
// optional; when no token is configured the service runs without it.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		api:    api,
		chatID: chatID,
		logger: logger,
	}, nil
}

func (n *TelegramNotifier) NotifyRunCompleted(result *analysis.Result, startDate, endDate string) error {
	text := fmt.Sprintf("Sentiment batch %s (%s to %s)\n%s\nConversations processed: %d",
		result.BatchID, startDate, endDate, result.OverallSentiment, result.ConversationsProcessed)
	if result.DetailsDropped > 0 {
		text += fmt.Sprintf("\nDetails dropped: %d", result.DetailsDropped)
	}

	if _, err := n.api.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return fmt.Errorf("failed to send run notification: %w", err)
	}

	n.logger.Debug("run notification sent", zap.String("batch_id", result.BatchID.String()))
	return nil
}
