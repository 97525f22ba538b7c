package repository

import (
	"context"

	"marketplace/internal/domain/entity"
)

type ChatRepository interface {
	// Create stores a new chat keyed by its participant pair and fails with
	// Conflict if a chat for that pair already exists.
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	GetByPairKey(ctx context.Context, pairKey string) (*entity.Chat, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error)

	// AppendMessage appends to the chat's message list and refreshes the
	// latest-message pointer, returning the updated chat.
	AppendMessage(ctx context.Context, chatID string, message entity.ChatMessage) (*entity.Chat, error)
}
