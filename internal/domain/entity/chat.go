package entity

import (
	"sort"
	"strings"
	"time"
)

type ChatMessage struct {
	ID        string    `json:"id" firestore:"id"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Content   string    `json:"content" firestore:"content"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// Chat holds exactly two participants and an append-only message list.
// Messages are never edited or removed.
type Chat struct {
	ID            string        `json:"id" firestore:"id"`
	Participants  []string      `json:"participants" firestore:"participants"`
	Messages      []ChatMessage `json:"messages" firestore:"messages"`
	LastMessage   string        `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time     `json:"last_message_at" firestore:"lastMessageAt"`
	CreatedAt     time.Time     `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time     `json:"updated_at" firestore:"updatedAt"`
}

// ChatPairKey is the canonical identifier for the unordered participant pair.
// Both orderings of the same two users produce the same key, which is also
// used as the chat document ID so a pair can only ever own one chat.
func ChatPairKey(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, ":")
}

// HasParticipant reports whether the given user belongs to the chat.
func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
