package service

import (
	"context"
	"errors"
	"termophysics_backend/internal/model"
	"termophysics_backend/internal/repository"
	"termophysics_backend/internal/util"

	"gorm.io/gorm"
)

// historyWindow bounds how much prior chat is replayed to the tutor per
// turn.
const historyWindow = 20

type ConversationService struct {
	Repo *repository.ConversationRepository
	AI   *AIService
}

func NewConversationService(repo *repository.ConversationRepository, ai *AIService) *ConversationService {
	return &ConversationService{Repo: repo, AI: ai}
}

func (s *ConversationService) Create(userID uint, title string) (*model.Conversation, error) {
	if title == "" {
		title = "New conversation"
	}
	conv := &model.Conversation{UserID: userID, Title: title}
	if err := s.Repo.Create(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ConversationService) List(userID uint) ([]model.Conversation, error) {
	return s.Repo.ListByUser(userID)
}

func (s *ConversationService) get(id string, userID uint) (*model.Conversation, error) {
	conv, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	if conv.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return conv, nil
}

func (s *ConversationService) Rename(id string, userID uint, title string) error {
	if _, err := s.get(id, userID); err != nil {
		return err
	}
	return s.Repo.Rename(id, title)
}

func (s *ConversationService) Delete(id string, userID uint) error {
	if _, err := s.get(id, userID); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

func (s *ConversationService) Messages(id string, userID uint) ([]model.Message, error) {
	if _, err := s.get(id, userID); err != nil {
		return nil, err
	}
	return s.Repo.ListMessages(id)
}

// history replays the recent window as gateway messages, skipping image
// turns whose content is a URL rather than text.
func (s *ConversationService) history(ctx context.Context, conversationID string) ([]AIChatMessage, error) {
	recent, err := s.Repo.RecentMessages(ctx, conversationID, historyWindow)
	if err != nil {
		return nil, err
	}
	msgs := make([]AIChatMessage, 0, len(recent))
	for _, m := range recent {
		if m.ImageURL != "" {
			continue
		}
		msgs = append(msgs, AIChatMessage{Role: m.Role, Content: m.Content})
	}
	return msgs, nil
}

// Ask runs one blocking tutoring turn, persisting both sides.
func (s *ConversationService) Ask(ctx context.Context, conversationID string, userID uint, prompt string) (*model.Message, error) {
	if _, err := s.get(conversationID, userID); err != nil {
		return nil, err
	}

	history, err := s.history(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.AppendMessage(&model.Message{
		ConversationID: conversationID,
		Role:           "user",
		Content:        prompt,
	}); err != nil {
		return nil, err
	}

	reply, err := s.AI.Chat(prompt, history)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ConversationID: conversationID,
		Role:           "assistant",
		Content:        reply,
	}
	if err := s.Repo.AppendMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// AskStream starts a streaming tutoring turn. The caller relays the
// content channel to the client and then calls the returned persist
// func with the assembled reply.
func (s *ConversationService) AskStream(ctx context.Context, conversationID string, userID uint, prompt string) (<-chan string, <-chan error, func(reply string) error, error) {
	if _, err := s.get(conversationID, userID); err != nil {
		return nil, nil, nil, err
	}

	history, err := s.history(ctx, conversationID)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := s.Repo.AppendMessage(&model.Message{
		ConversationID: conversationID,
		Role:           "user",
		Content:        prompt,
	}); err != nil {
		return nil, nil, nil, err
	}

	out, errChan := s.AI.ChatStream(prompt, history)

	persist := func(reply string) error {
		if reply == "" {
			return nil
		}
		return s.Repo.AppendMessage(&model.Message{
			ConversationID: conversationID,
			Role:           "assistant",
			Content:        reply,
		})
	}
	return out, errChan, persist, nil
}

// RecordImage attaches a generated illustration to the conversation.
func (s *ConversationService) RecordImage(conversationID string, userID uint, prompt, imageURL string) (*model.Message, error) {
	if _, err := s.get(conversationID, userID); err != nil {
		return nil, err
	}

	if err := s.Repo.AppendMessage(&model.Message{
		ConversationID: conversationID,
		Role:           "user",
		Content:        prompt,
	}); err != nil {
		return nil, err
	}

	msg := &model.Message{
		ConversationID: conversationID,
		Role:           "assistant",
		Content:        "Generated image for: " + prompt,
		ImageURL:       imageURL,
	}
	if err := s.Repo.AppendMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}
