package models

import "time"

// Conversation is a stored chat between a contact and the business.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single utterance inside a conversation. Within a
// conversation messages are ordered by creation time ascending.
type Message struct {
	ConversationID string    `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Classification is the raw result of a model call: the sentiment value
// as the model emitted it plus a short explanation.
type Classification struct {
	Sentiment   string `json:"sentiment"`
	Description string `json:"description"`
}

// Sentiment values the model is instructed to emit. Unrecognized values
// are passed through unchanged, so mapping code treats these as the
// expected case rather than an exhaustive set.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)
