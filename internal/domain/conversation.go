package domain

import (
	"time"

	"github.com/google/uuid"
)

type ConversationType string

const (
	ConversationTypeChat     ConversationType = "chat"
	ConversationTypeReport   ConversationType = "report"
	ConversationTypeAnalysis ConversationType = "analysis"
)

type Conversation struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	UserID    uuid.UUID        `db:"user_id" json:"user_id"`
	Question  string           `db:"question" json:"question"`
	Response  string           `db:"response" json:"response"`
	Type      ConversationType `db:"type" json:"type"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
