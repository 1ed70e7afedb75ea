package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles. The history only ever contains user questions and bot answers.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// TitleMaxLen is the truncation point for titles derived from a first question.
const TitleMaxLen = 80

// Conversation is one conversation thread. Immutable after creation except by
// appending messages.
type Conversation struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt string    `json:"created_at" db:"created_at"`
}

// Message is one turn of a conversation. The id is allocated by the store and
// its ascending order is the canonical chronological order.
type Message struct {
	ID             int64     `json:"id" db:"id"`
	ConversationID uuid.UUID `json:"conversation_id" db:"conversation_id"`
	Role           string    `json:"role" db:"role"`
	Text           string    `json:"text" db:"text"`
	Timestamp      string    `json:"timestamp" db:"timestamp"`
}

// ConversationWithMessages is a conversation and its full ordered message log.
type ConversationWithMessages struct {
	Conversation
	Messages []Message `json:"messages"`
}

// ConversationSummary is a listing entry: the conversation plus only its most
// recent message.
type ConversationSummary struct {
	Conversation
	LastMessage *Message `json:"last_message"`
}

// TitleFromQuestion derives a conversation title from the first question,
// truncated to TitleMaxLen runes with an ellipsis marker.
func TitleFromQuestion(question string) string {
	runes := []rune(question)
	if len(runes) <= TitleMaxLen {
		return question
	}
	return string(runes[:TitleMaxLen]) + "..."
}

// NowISO8601 returns the current UTC time in the ISO-8601 layout used for all
// persisted timestamps.
func NowISO8601() string {
	return time.Now().UTC().Format(time.RFC3339)
}
