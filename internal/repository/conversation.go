package repository

import (
	"context"
	"fmt"

	"github.com/braz-finance/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type conversationRepository struct {
	db *sqlx.DB
}

func newConversationRepository(db *sqlx.DB) *conversationRepository {
	return &conversationRepository{
		db: db,
	}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	const query = `
	INSERT INTO conversations (id, user_id, question, response, type)
	VALUES (uuid_to_bin(?), uuid_to_bin(?), ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, query,
		conversation.ID,
		conversation.UserID,
		conversation.Question,
		conversation.Response,
		conversation.Type,
	)
	if err != nil {
		return fmt.Errorf("db insert conversation: %w", err)
	}

	return nil
}

func (r *conversationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Conversation, error) {
	const query = `
	SELECT id, user_id, question, response, type, created_at
	FROM conversations
	WHERE user_id = uuid_to_bin(?)
	ORDER BY created_at DESC
	LIMIT ?;
	`
	var conversations []domain.Conversation
	if err := r.db.SelectContext(ctx, &conversations, query, userID, limit); err != nil {
		return nil, fmt.Errorf("select conversations failed: %w", err)
	}

	return conversations, nil
}
