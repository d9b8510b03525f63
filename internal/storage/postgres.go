package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xaenox/sentiment-batch/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db        *sql.DB
	chunkSize int
	logger    *zap.Logger
}

func NewPostgresStorage(config DatabaseConfig, chunkSize int, logger *zap.Logger) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{
		db:        db,
		chunkSize: chunkSize,
		logger:    logger,
	}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetConversationsByDateRange(ctx context.Context, start, end time.Time) ([]models.Conversation, error) {
	query := `
		SELECT id, created_at
		FROM conversations
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	return conversations, nil
}

func (s *PostgresStorage) GetMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	query := `
		SELECT conversation_id, COALESCE(sender, ''), COALESCE(content, ''), created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ConversationID, &msg.Sender, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

func (s *PostgresStorage) CreateBatchAnalysis(ctx context.Context, batch *models.BatchAnalysis) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}

	query := `
		INSERT INTO batch_analyses (
			id, start_date, end_date,
			positive_count, negative_count, neutral_count, unknown_count,
			conversation_ids, overall_sentiment
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := s.db.QueryRowContext(ctx, query,
		batch.ID, batch.StartDate, batch.EndDate,
		batch.PositiveCount, batch.NegativeCount, batch.NeutralCount, batch.UnknownCount,
		pq.Array(batch.ConversationIDs), batch.OverallSentiment,
	).Scan(&batch.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating batch analysis: %w", err)
	}

	return nil
}

func (s *PostgresStorage) InsertAnalysisDetails(ctx context.Context, details []models.AnalysisDetail) (DetailInsertResult, error) {
	return insertDetailsChunked(ctx, s, details, s.chunkSize, s.logger)
}

func (s *PostgresStorage) insertDetailChunk(ctx context.Context, details []models.AnalysisDetail) error {
	if len(details) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO analysis_details (batch_id, conversation_id, sentiment, description)
		VALUES `)

	args := make([]interface{}, 0, len(details)*4)
	for i, detail := range details {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 4
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4)
		args = append(args, detail.BatchID, detail.ConversationID, string(detail.Sentiment), detail.Description)
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("error inserting detail chunk: %w", err)
	}

	return nil
}

func (s *PostgresStorage) insertDetail(ctx context.Context, detail models.AnalysisDetail) error {
	query := `
		INSERT INTO analysis_details (batch_id, conversation_id, sentiment, description)
		VALUES ($1, $2, $3, $4)`

	if _, err := s.db.ExecContext(ctx, query,
		detail.BatchID, detail.ConversationID, string(detail.Sentiment), detail.Description); err != nil {
		return fmt.Errorf("error inserting detail: %w", err)
	}

	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
