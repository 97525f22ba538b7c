package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"
	"marketplace/pkg/errors"
)

type ChatUseCase struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	notifier Notifier
}

func NewChatUseCase(chatRepo repository.ChatRepository, userRepo repository.UserRepository, notifier Notifier) *ChatUseCase {
	return &ChatUseCase{
		chatRepo: chatRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

// Participant is the resolved identity of a chat member.
type Participant struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Avatar entity.Avatar `json:"avatar,omitempty"`
}

// ChatDetail is a conversation with participant identities and message
// senders resolved. The resolved lists shadow the raw ID fields when
// serialized.
type ChatDetail struct {
	*entity.Chat
	Participants []Participant    `json:"participants"`
	Messages     []*MessageDetail `json:"messages"`
}

type MessageDetail struct {
	entity.ChatMessage
	Sender *Participant `json:"sender,omitempty"`
}

// GetOrCreateChat returns the single conversation between the caller and the
// given user, creating it when none exists. The returned bool reports whether
// a new conversation was created. Both users must exist; a chat with oneself
// is rejected.
func (uc *ChatUseCase) GetOrCreateChat(ctx context.Context, userID, otherID string) (*ChatDetail, bool, error) {
	if userID == otherID {
		return nil, false, errors.BadRequest("Cannot start a chat with yourself", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, otherID); err != nil {
		return nil, false, err
	}

	pairKey := entity.ChatPairKey(userID, otherID)

	chat, err := uc.chatRepo.GetByPairKey(ctx, pairKey)
	if err == nil {
		return uc.resolveChat(ctx, chat), false, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, false, err
	}

	now := time.Now()
	chat = &entity.Chat{
		ID:           pairKey,
		Participants: []string{userID, otherID},
		Messages:     []entity.ChatMessage{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		// A concurrent request created the same conversation first; hand
		// back the one that won.
		if errors.Is(err, "CONFLICT") {
			existing, gerr := uc.chatRepo.GetByPairKey(ctx, pairKey)
			if gerr != nil {
				return nil, false, gerr
			}
			return uc.resolveChat(ctx, existing), false, nil
		}
		return nil, false, err
	}

	return uc.resolveChat(ctx, chat), true, nil
}

func (uc *ChatUseCase) ListChats(ctx context.Context, userID string) ([]*ChatDetail, error) {
	chats, err := uc.chatRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]*ChatDetail, len(chats))
	for i, chat := range chats {
		details[i] = uc.resolveChat(ctx, chat)
	}

	return details, nil
}

// SendMessage appends a message to a conversation the caller belongs to,
// notifies the other participant, and returns the updated conversation.
// Notification is best effort; the message is already durable when it fires.
func (uc *ChatUseCase) SendMessage(ctx context.Context, chatID, senderID, content string) (*ChatDetail, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(senderID) {
		return nil, errors.Forbidden("Not a participant of this chat", nil)
	}

	message := entity.ChatMessage{
		ID:        uuid.New().String(),
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	updated, err := uc.chatRepo.AppendMessage(ctx, chatID, message)
	if err != nil {
		return nil, err
	}

	detail := uc.resolveChat(ctx, updated)

	if uc.notifier != nil {
		latest := detail.Messages[len(detail.Messages)-1]
		for _, participant := range updated.Participants {
			if participant == senderID {
				continue
			}
			uc.notifier.NotifyNewMessage(participant, map[string]interface{}{
				"chatId":  chatID,
				"message": latest,
			})
		}
	}

	return detail, nil
}

// ListMessages returns a conversation's messages to its participants only.
func (uc *ChatUseCase) ListMessages(ctx context.Context, chatID, userID string) ([]*MessageDetail, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("Not a participant of this chat", nil)
	}

	return uc.resolveMessages(ctx, chat.Messages, make(map[string]*Participant)), nil
}

func (uc *ChatUseCase) resolveChat(ctx context.Context, chat *entity.Chat) *ChatDetail {
	cache := make(map[string]*Participant)
	detail := &ChatDetail{Chat: chat}
	for _, id := range chat.Participants {
		if p := uc.participant(ctx, id, cache); p != nil {
			detail.Participants = append(detail.Participants, *p)
		}
	}
	detail.Messages = uc.resolveMessages(ctx, chat.Messages, cache)
	return detail
}

func (uc *ChatUseCase) resolveMessages(ctx context.Context, messages []entity.ChatMessage, cache map[string]*Participant) []*MessageDetail {
	details := make([]*MessageDetail, len(messages))
	for i, message := range messages {
		details[i] = &MessageDetail{
			ChatMessage: message,
			Sender:      uc.participant(ctx, message.SenderID, cache),
		}
	}
	return details
}

// participant resolves a user once per call chain; unknown users resolve to
// nil and stay nil.
func (uc *ChatUseCase) participant(ctx context.Context, id string, cache map[string]*Participant) *Participant {
	if p, ok := cache[id]; ok {
		return p
	}
	var p *Participant
	if user, err := uc.userRepo.GetByID(ctx, id); err == nil {
		p = &Participant{ID: user.ID, Name: user.Name, Avatar: user.Avatar}
	}
	cache[id] = p
	return p
}
