package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_Conversation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.chat.Send(ctx, "alice", "bob", "is the spot free?", "spot-1")
	require.NoError(t, err)
	_, err = env.chat.Send(ctx, "bob", "alice", "yes, until 6pm", "spot-1")
	require.NoError(t, err)
	_, err = env.chat.Send(ctx, "alice", "carol", "unrelated", "")
	require.NoError(t, err)
	_, err = env.chat.Send(ctx, "bob", "alice", "about something else", "")
	require.NoError(t, err)

	t.Run("PairIsUnordered", func(t *testing.T) {
		conv := env.chat.Conversation("bob", "alice", "")
		require.Len(t, conv, 3)
		assert.Equal(t, "is the spot free?", conv[0].Content)
		assert.Equal(t, "about something else", conv[2].Content)
		assert.Equal(t, conv, env.chat.Conversation("alice", "bob", ""))
	})

	t.Run("NarrowedToListing", func(t *testing.T) {
		conv := env.chat.Conversation("alice", "bob", "spot-1")
		require.Len(t, conv, 2)
		for _, m := range conv {
			assert.Equal(t, "spot-1", m.RelatedItemID)
		}
	})

	t.Run("ThirdPartyExcluded", func(t *testing.T) {
		for _, m := range env.chat.Conversation("alice", "bob", "") {
			assert.NotEqual(t, "carol", m.Sender)
			assert.NotEqual(t, "carol", m.Receiver)
		}
	})
}
