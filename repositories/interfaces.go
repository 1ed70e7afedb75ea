package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/SaraLat04/Assistant-Juridique/models"
)

// ConversationRepository is the durable, append-only conversation log. There
// are deliberately no update or delete operations: history is immutable.
type ConversationRepository interface {
	// Create inserts a new conversation and returns its id.
	Create(ctx context.Context, title string) (uuid.UUID, error)

	// AddMessage appends a message to a conversation's ordered log and
	// returns its id. A blank timestamp defaults to now (UTC, ISO-8601).
	// Returns a not-found domain error when the conversation does not exist.
	AddMessage(ctx context.Context, conversationID uuid.UUID, role, text, timestamp string) (int64, error)

	// GetByID returns a conversation and its messages in append order, or a
	// not-found domain error.
	GetByID(ctx context.Context, id uuid.UUID) (*models.ConversationWithMessages, error)

	// List returns all conversations, newest created_at first, each with
	// only its most recent message.
	List(ctx context.Context) ([]models.ConversationSummary, error)
}
