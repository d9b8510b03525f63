package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/sentiment-batch/internal/models"
	"go.uber.org/zap"
)

const systemPrompt = `You are a sentiment analysis assistant for customer conversations.
Analyze the conversation transcript and respond with a JSON object containing exactly two keys:
"sentiment" - one of "Positive", "Negative" or "Neutral"
"description" - a one-sentence explanation of the overall sentiment.
Respond with the JSON object only, no other text.`

// Config holds the settings for creating a GPTClassifier.
type Config struct {
	APIKey      string
	BaseURL     string // optional, for OpenAI-compatible endpoints
	Model       string
	MaxTokens   int
	Temperature float64
}

// GPTClassifier classifies transcripts with an OpenAI chat-completion
// model constrained to strict JSON output.
type GPTClassifier struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewGPTClassifier(cfg Config, logger *zap.Logger) *GPTClassifier {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &GPTClassifier{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

type modelResponse struct {
	Sentiment   *string `json:"sentiment"`
	Description *string `json:"description"`
}

// Classify runs one chat completion over the transcript. An empty or
// whitespace-only transcript short-circuits to a Neutral result without
// calling the model.
func (c *GPTClassifier) Classify(ctx context.Context, transcript string) (models.Classification, error) {
	if strings.TrimSpace(transcript) == "" {
		return models.Classification{
			Sentiment:   models.SentimentNeutral,
			Description: "No content to analyze.",
		}, nil
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
		MaxTokens:   c.maxTokens,
		Temperature: float32(c.temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		c.logger.Error("sentiment model call failed", zap.Error(err))
		return models.Classification{}, &APIError{Err: err}
	}

	if len(resp.Choices) == 0 {
		return models.Classification{}, &APIError{Err: errors.New("no choices in response")}
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)

	var parsed modelResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		c.logger.Error("failed to parse sentiment response",
			zap.Error(err),
			zap.String("response", raw))
		return models.Classification{}, &ParseError{Raw: raw, Err: err}
	}

	if parsed.Sentiment == nil {
		return models.Classification{}, &FormatError{MissingKey: "sentiment"}
	}
	if parsed.Description == nil {
		return models.Classification{}, &FormatError{MissingKey: "description"}
	}

	switch *parsed.Sentiment {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
	default:
		// Passed through unchanged; the label mapping downgrades any
		// unrecognized value to moderate.
		c.logger.Warn("unexpected sentiment value from model",
			zap.String("sentiment", *parsed.Sentiment))
	}

	return models.Classification{
		Sentiment:   *parsed.Sentiment,
		Description: *parsed.Description,
	}, nil
}
