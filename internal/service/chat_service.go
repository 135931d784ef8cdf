package service

import (
	"context"

	"helpme/internal/models"
	"helpme/internal/repository"

	"github.com/rs/zerolog"
)

// ChatService appends to the flat message log and serves conversation views.
type ChatService struct {
	chat   *repository.Collection[models.ChatMessage]
	logger *zerolog.Logger
}

func NewChatService(chat *repository.Collection[models.ChatMessage], logger *zerolog.Logger) *ChatService {
	return &ChatService{chat: chat, logger: logger}
}

// Send appends a message to the log. The log is append-only and in send
// order; messages are never edited or deleted.
func (s *ChatService) Send(ctx context.Context, sender, receiver, content, relatedItemID string) (models.ChatMessage, error) {
	msg := models.ChatMessage{
		ID:            newID(),
		Sender:        sender,
		Receiver:      receiver,
		Content:       content,
		Timestamp:     nowMillis(),
		RelatedItemID: relatedItemID,
	}
	if err := s.chat.Append(ctx, msg); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// Conversation returns the messages between two users in either direction,
// oldest first, optionally narrowed to one related listing.
func (s *ChatService) Conversation(a, b, relatedItemID string) []models.ChatMessage {
	return s.chat.Filter(func(m models.ChatMessage) bool {
		if !m.Between(a, b) {
			return false
		}
		return relatedItemID == "" || m.RelatedItemID == relatedItemID
	})
}
