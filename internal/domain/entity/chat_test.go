package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatPairKeyOrderIndependent(t *testing.T) {
	assert.Equal(t, ChatPairKey("alice", "bob"), ChatPairKey("bob", "alice"))
	assert.Equal(t, "alice:bob", ChatPairKey("bob", "alice"))
	assert.NotEqual(t, ChatPairKey("alice", "bob"), ChatPairKey("alice", "carol"))
}

func TestHasParticipant(t *testing.T) {
	chat := &Chat{Participants: []string{"alice", "bob"}}

	assert.True(t, chat.HasParticipant("alice"))
	assert.True(t, chat.HasParticipant("bob"))
	assert.False(t, chat.HasParticipant("eve"))
}
