package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"
	"marketplace/pkg/errors"
)

func seedUser(t *testing.T, repo *fakeUserRepo, name string) *entity.User {
	t.Helper()
	user := &entity.User{Name: name, Email: name + "@example.com", Role: "buyer"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestGetOrCreateChatPairSymmetry(t *testing.T) {
	chatRepo := newFakeChatRepo()
	userRepo := newFakeUserRepo()
	uc := NewChatUseCase(chatRepo, userRepo, &fakeNotifier{})

	alice := seedUser(t, userRepo, "alice")
	bob := seedUser(t, userRepo, "bob")

	first, created, err := uc.GetOrCreateChat(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)

	// The reverse ordering resolves to the same conversation.
	second, created, err := uc.GetOrCreateChat(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	chats, err := chatRepo.ListByUserID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Len(t, chats, 1)
}

func TestGetOrCreateChatRejectsSelf(t *testing.T) {
	userRepo := newFakeUserRepo()
	uc := NewChatUseCase(newFakeChatRepo(), userRepo, &fakeNotifier{})

	alice := seedUser(t, userRepo, "alice")

	_, _, err := uc.GetOrCreateChat(context.Background(), alice.ID, alice.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestGetOrCreateChatUnknownUser(t *testing.T) {
	userRepo := newFakeUserRepo()
	uc := NewChatUseCase(newFakeChatRepo(), userRepo, &fakeNotifier{})

	alice := seedUser(t, userRepo, "alice")

	_, _, err := uc.GetOrCreateChat(context.Background(), alice.ID, "nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

// racingChatRepo simulates a concurrent creator: the first pair-key lookup
// misses, but by the time Create runs the other request has won the race.
type racingChatRepo struct {
	repository.ChatRepository
	inner      *fakeChatRepo
	missedOnce bool
	rival      *entity.Chat
}

func (r *racingChatRepo) GetByPairKey(ctx context.Context, pairKey string) (*entity.Chat, error) {
	if !r.missedOnce {
		r.missedOnce = true
		return nil, errors.NotFound("Chat", nil)
	}
	return r.inner.GetByPairKey(ctx, pairKey)
}

func (r *racingChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	if err := r.inner.Create(ctx, r.rival); err != nil {
		return err
	}
	return r.inner.Create(ctx, chat)
}

func TestGetOrCreateChatConcurrentCreate(t *testing.T) {
	inner := newFakeChatRepo()
	userRepo := newFakeUserRepo()

	alice := seedUser(t, userRepo, "alice")
	bob := seedUser(t, userRepo, "bob")

	pairKey := entity.ChatPairKey(alice.ID, bob.ID)
	rival := &entity.Chat{
		ID:           pairKey,
		Participants: []string{bob.ID, alice.ID},
	}

	repo := &racingChatRepo{ChatRepository: inner, inner: inner, rival: rival}
	uc := NewChatUseCase(repo, userRepo, &fakeNotifier{})

	chat, created, err := uc.GetOrCreateChat(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	// The loser of the race gets the rival's chat, not a duplicate.
	assert.False(t, created)
	assert.Equal(t, pairKey, chat.ID)

	chats, err := inner.ListByUserID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Len(t, chats, 1)
}

func TestSendMessageParticipantsOnly(t *testing.T) {
	chatRepo := newFakeChatRepo()
	userRepo := newFakeUserRepo()
	notifier := &fakeNotifier{}
	uc := NewChatUseCase(chatRepo, userRepo, notifier)

	alice := seedUser(t, userRepo, "alice")
	bob := seedUser(t, userRepo, "bob")
	eve := seedUser(t, userRepo, "eve")

	chat, _, err := uc.GetOrCreateChat(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = uc.SendMessage(context.Background(), chat.ID, eve.ID, "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	detail, err := uc.SendMessage(context.Background(), chat.ID, alice.ID, "hello bob")
	require.NoError(t, err)
	require.Len(t, detail.Messages, 1)
	sent := detail.Messages[0]
	assert.Equal(t, alice.ID, sent.SenderID)
	assert.Equal(t, "hello bob", sent.Content)
	require.NotNil(t, sent.Sender)
	assert.Equal(t, "alice", sent.Sender.Name)

	// Only the other participant is notified.
	assert.Equal(t, []string{bob.ID}, notifier.notified)

	stored, err := chatRepo.GetByID(context.Background(), chat.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 1)
	assert.Equal(t, "hello bob", stored.LastMessage)
}

func TestListMessagesParticipantsOnly(t *testing.T) {
	chatRepo := newFakeChatRepo()
	userRepo := newFakeUserRepo()
	uc := NewChatUseCase(chatRepo, userRepo, &fakeNotifier{})

	alice := seedUser(t, userRepo, "alice")
	bob := seedUser(t, userRepo, "bob")
	eve := seedUser(t, userRepo, "eve")

	chat, _, err := uc.GetOrCreateChat(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = uc.SendMessage(context.Background(), chat.ID, alice.ID, "first")
	require.NoError(t, err)
	_, err = uc.SendMessage(context.Background(), chat.ID, bob.ID, "second")
	require.NoError(t, err)

	_, err = uc.ListMessages(context.Background(), chat.ID, eve.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	messages, err := uc.ListMessages(context.Background(), chat.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
	require.NotNil(t, messages[0].Sender)
	assert.Equal(t, "alice", messages[0].Sender.Name)
}

func TestListChatsResolvesParticipants(t *testing.T) {
	chatRepo := newFakeChatRepo()
	userRepo := newFakeUserRepo()
	uc := NewChatUseCase(chatRepo, userRepo, &fakeNotifier{})

	alice := seedUser(t, userRepo, "alice")
	bob := seedUser(t, userRepo, "bob")

	_, _, err := uc.GetOrCreateChat(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	chats, err := uc.ListChats(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, chats, 1)

	names := make([]string, 0, len(chats[0].Participants))
	for _, p := range chats[0].Participants {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"alice", "bob"}, names)
}

func TestSendMessageReturnsUpdatedChat(t *testing.T) {
	chatRepo := newFakeChatRepo()
	userRepo := newFakeUserRepo()
	uc := NewChatUseCase(chatRepo, userRepo, &fakeNotifier{})

	alice := seedUser(t, userRepo, "alice")
	bob := seedUser(t, userRepo, "bob")

	chat, _, err := uc.GetOrCreateChat(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = uc.SendMessage(context.Background(), chat.ID, alice.ID, "first")
	require.NoError(t, err)
	detail, err := uc.SendMessage(context.Background(), chat.ID, bob.ID, "second")
	require.NoError(t, err)

	// The whole conversation comes back, not just the new message.
	assert.Equal(t, chat.ID, detail.ID)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "first", detail.Messages[0].Content)
	assert.Equal(t, "second", detail.Messages[1].Content)
	require.NotNil(t, detail.Messages[1].Sender)
	assert.Equal(t, "bob", detail.Messages[1].Sender.Name)

	names := make([]string, 0, len(detail.Participants))
	for _, p := range detail.Participants {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"alice", "bob"}, names)

	// The resolved identities are what serialize, not the raw ID lists.
	payload, err := json.Marshal(detail)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &body))
	participants, ok := body["participants"].([]interface{})
	require.True(t, ok)
	require.Len(t, participants, 2)
	assert.Contains(t, participants[0], "name")
	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0], "sender")
}
