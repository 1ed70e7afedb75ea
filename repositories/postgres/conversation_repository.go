package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/SaraLat04/Assistant-Juridique/models"
	"github.com/SaraLat04/Assistant-Juridique/repositories"
	"github.com/SaraLat04/Assistant-Juridique/services"
)

// foreignKeyViolation is the PostgreSQL error code raised when a message
// references a conversation that does not exist.
const foreignKeyViolation = "23503"

// ConversationRepository implements repositories.ConversationRepository on
// PostgreSQL.
type ConversationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *DB, logger *zap.Logger) repositories.ConversationRepository {
	return &ConversationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new conversation and returns its id.
func (r *ConversationRepository) Create(ctx context.Context, title string) (uuid.UUID, error) {
	id := uuid.New()
	createdAt := models.NowISO8601()

	query := `INSERT INTO conversations (id, title, created_at) VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, id, title, createdAt); err != nil {
		return uuid.Nil, services.WrapError(services.ErrorTypePersistence,
			"failed to create conversation", err)
	}

	r.logger.Debug("conversation created",
		zap.String("id", id.String()),
		zap.String("title", title))
	return id, nil
}

// AddMessage appends a message to a conversation's log.
func (r *ConversationRepository) AddMessage(ctx context.Context, conversationID uuid.UUID, role, text, timestamp string) (int64, error) {
	if timestamp == "" {
		timestamp = models.NowISO8601()
	}

	query := `
		INSERT INTO messages (conversation_id, role, text, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, conversationID, role, text, timestamp).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return 0, services.WrapError(services.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", conversationID), err)
		}
		return 0, services.WrapError(services.ErrorTypePersistence,
			"failed to add message", err)
	}

	r.logger.Debug("message appended",
		zap.String("conversation_id", conversationID.String()),
		zap.String("role", role),
		zap.Int64("message_id", id))
	return id, nil
}

// GetByID returns a conversation with its messages in append order.
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ConversationWithMessages, error) {
	convQuery := `SELECT id, title, created_at FROM conversations WHERE id = $1`

	conv := &models.ConversationWithMessages{}
	err := r.db.QueryRowContext(ctx, convQuery, id).Scan(&conv.ID, &conv.Title, &conv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.WrapError(services.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", id), err)
		}
		return nil, services.WrapError(services.ErrorTypePersistence,
			"failed to get conversation", err)
	}

	msgQuery := `
		SELECT id, conversation_id, role, text, timestamp
		FROM messages
		WHERE conversation_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, msgQuery, id)
	if err != nil {
		return nil, services.WrapError(services.ErrorTypePersistence,
			"failed to query messages", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Text, &m.Timestamp); err != nil {
			return nil, services.WrapError(services.ErrorTypePersistence,
				"failed to scan message", err)
		}
		conv.Messages = append(conv.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, services.WrapError(services.ErrorTypePersistence,
			"error iterating message rows", err)
	}

	return conv, nil
}

// List returns all conversations newest first, each with its most recent
// message only.
func (r *ConversationRepository) List(ctx context.Context) ([]models.ConversationSummary, error) {
	query := `
		SELECT c.id, c.title, c.created_at,
		       m.id, m.conversation_id, m.role, m.text, m.timestamp
		FROM conversations c
		LEFT JOIN LATERAL (
			SELECT id, conversation_id, role, text, timestamp
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY id DESC
			LIMIT 1
		) m ON true
		ORDER BY c.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, services.WrapError(services.ErrorTypePersistence,
			"failed to list conversations", err)
	}
	defer rows.Close()

	var summaries []models.ConversationSummary
	for rows.Next() {
		var s models.ConversationSummary
		var msgID sql.NullInt64
		var msgConvID uuid.NullUUID
		var role, text, timestamp sql.NullString

		err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt,
			&msgID, &msgConvID, &role, &text, &timestamp)
		if err != nil {
			return nil, services.WrapError(services.ErrorTypePersistence,
				"failed to scan conversation summary", err)
		}

		if msgID.Valid {
			s.LastMessage = &models.Message{
				ID:             msgID.Int64,
				ConversationID: msgConvID.UUID,
				Role:           role.String,
				Text:           text.String,
				Timestamp:      timestamp.String,
			}
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, services.WrapError(services.ErrorTypePersistence,
			"error iterating conversation rows", err)
	}

	return summaries, nil
}
