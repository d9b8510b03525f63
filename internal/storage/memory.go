package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/sentiment-batch/internal/models"
	"go.uber.org/zap"
)

// MemoryStorage is an in-memory Storage used for development and tests.
type MemoryStorage struct {
	mu            sync.RWMutex
	conversations map[string]models.Conversation
	messages      map[string][]models.Message
	batches       map[uuid.UUID]*models.BatchAnalysis
	details       []models.AnalysisDetail
	chunkSize     int
	logger        *zap.Logger
}

func NewMemoryStorage(logger *zap.Logger) *MemoryStorage {
	return &MemoryStorage{
		conversations: make(map[string]models.Conversation),
		messages:      make(map[string][]models.Message),
		batches:       make(map[uuid.UUID]*models.BatchAnalysis),
		chunkSize:     DefaultChunkSize,
		logger:        logger,
	}
}

// AddConversation seeds a conversation, used by tests and dev setups.
func (s *MemoryStorage) AddConversation(conv models.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conv.ID] = conv
}

// AddMessage seeds a message for a conversation.
func (s *MemoryStorage) AddMessage(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], msg)
}

func (s *MemoryStorage) GetConversationsByDateRange(ctx context.Context, start, end time.Time) ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var conversations []models.Conversation
	for _, conv := range s.conversations {
		if conv.CreatedAt.Before(start) || conv.CreatedAt.After(end) {
			continue
		}
		conversations = append(conversations, conv)
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].CreatedAt.Before(conversations[j].CreatedAt)
	})

	return conversations, nil
}

func (s *MemoryStorage) GetMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]models.Message, len(s.messages[conversationID]))
	copy(messages, s.messages[conversationID])

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}

func (s *MemoryStorage) CreateBatchAnalysis(ctx context.Context, batch *models.BatchAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	batch.CreatedAt = time.Now()

	stored := *batch
	s.batches[batch.ID] = &stored
	return nil
}

func (s *MemoryStorage) InsertAnalysisDetails(ctx context.Context, details []models.AnalysisDetail) (DetailInsertResult, error) {
	return insertDetailsChunked(ctx, s, details, s.chunkSize, s.logger)
}

func (s *MemoryStorage) insertDetailChunk(ctx context.Context, details []models.AnalysisDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details = append(s.details, details...)
	return nil
}

func (s *MemoryStorage) insertDetail(ctx context.Context, detail models.AnalysisDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details = append(s.details, detail)
	return nil
}

// GetBatchAnalysis returns a stored summary record, or nil if absent.
func (s *MemoryStorage) GetBatchAnalysis(id uuid.UUID) *models.BatchAnalysis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if batch, exists := s.batches[id]; exists {
		stored := *batch
		return &stored
	}
	return nil
}

// GetAnalysisDetails returns the stored details for a batch.
func (s *MemoryStorage) GetAnalysisDetails(batchID uuid.UUID) []models.AnalysisDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.AnalysisDetail
	for _, detail := range s.details {
		if detail.BatchID == batchID {
			out = append(out, detail)
		}
	}
	return out
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
