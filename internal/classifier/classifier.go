package classifier

import (
	"context"
	"fmt"

	"github.com/xaenox/sentiment-batch/internal/models"
)

// Classifier determines the sentiment of a conversation transcript.
type Classifier interface {
	Classify(ctx context.Context, transcript string) (models.Classification, error)
}

// APIError wraps a transport or API-level fault from the model call.
type APIError struct {
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sentiment model call failed: %v", e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// ParseError means the model's raw output was not valid JSON.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sentiment response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FormatError means the model's JSON output was missing a required key.
type FormatError struct {
	MissingKey string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("sentiment response is missing required key %q", e.MissingKey)
}
