package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"opaemu-backend/internal/history"
	"opaemu-backend/internal/model"
	"opaemu-backend/internal/storage"
	"opaemu-backend/pkg/logger"
)

const defaultChatTitle = "New chat"

// Analyzer scores an outfit photo.
type Analyzer interface {
	Analyze(ctx context.Context, filename string, image []byte) (*model.Analysis, error)
}

// Critic writes the language-model critique for a scored photo.
type Critic interface {
	Advise(ctx context.Context, input model.AdviceInput) (*model.LLMAdvice, error)
}

// ChatService owns chats, their messages and the photo critique pipeline.
// Critiques run in the background after an upload is acknowledged; a
// per-chat sequencer makes sure a slow critique for an older upload never
// lands on top of a newer one.
type ChatService struct {
	store    storage.Storage
	images   *storage.ImageStore
	analyzer Analyzer
	critic   Critic

	mu   sync.Mutex
	seqs map[string]*history.Sequencer
	wg   sync.WaitGroup
}

func NewChatService(store storage.Storage, images *storage.ImageStore, analyzer Analyzer, critic Critic) *ChatService {
	return &ChatService{
		store:    store,
		images:   images,
		analyzer: analyzer,
		critic:   critic,
		seqs:     make(map[string]*history.Sequencer),
	}
}

// Wait blocks until every in-flight critique has finished. Called on
// shutdown and by tests.
func (s *ChatService) Wait() {
	s.wg.Wait()
}

func (s *ChatService) CreateChat(userID, title string) (*model.ChatResponse, error) {
	if title == "" {
		title = defaultChatTitle
	}

	now := time.Now()
	chat := &model.Chat{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateChat(chat); err != nil {
		return nil, err
	}

	logger.Infof("Chat created: %s (user %s)", chat.ID, userID)
	return s.chatResponse(chat, 0), nil
}

func (s *ChatService) ListChats(userID string) ([]*model.ChatResponse, error) {
	chats, err := s.store.ListChats(userID)
	if err != nil {
		return nil, err
	}

	out := make([]*model.ChatResponse, 0, len(chats))
	for _, chat := range chats {
		messages, err := s.store.GetMessages(chat.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, s.chatResponse(chat, len(messages)))
	}
	return out, nil
}

// DeleteChat drops the chat, its messages and its photos.
func (s *ChatService) DeleteChat(userID, chatID string) error {
	if _, err := s.ownedChat(userID, chatID); err != nil {
		return err
	}

	if err := s.store.DeleteChat(chatID); err != nil {
		return err
	}
	if err := s.images.Remove(chatID); err != nil {
		logger.Warnf("Failed to remove photos for chat %s: %v", chatID, err)
	}

	s.mu.Lock()
	delete(s.seqs, chatID)
	s.mu.Unlock()

	return nil
}

// PostText appends a plain text message from the user.
func (s *ChatService) PostText(userID, chatID, text string) (*model.SendAck, error) {
	if _, err := s.ownedChat(userID, chatID); err != nil {
		return nil, err
	}

	message := &model.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Sender:    userID,
		Type:      model.TypeText,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.store.AddMessage(chatID, message); err != nil {
		return nil, err
	}

	return s.ack(message), nil
}

// UploadImage stores the photo, records the image message and kicks off
// the critique in the background. The ack returns before the critique
// exists; the client picks it up on its next history fetch.
func (s *ChatService) UploadImage(ctx context.Context, userID, chatID, filename string, data []byte, note string) (*model.SendAck, error) {
	if _, err := s.ownedChat(userID, chatID); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image upload", storage.ErrInvalidData)
	}

	url, err := s.images.Save(chatID, filename, data)
	if err != nil {
		return nil, err
	}

	message := &model.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Sender:    userID,
		Type:      model.TypeImage,
		Text:      note,
		ImageURL:  url,
		CreatedAt: time.Now(),
	}
	if err := s.store.AddMessage(chatID, message); err != nil {
		return nil, err
	}

	token := s.sequencer(chatID).Next()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.critique(chatID, message.ID, filename, data, note, token)
	}()

	return s.ack(message), nil
}

// RawHistory returns the stored records exactly as the client's
// normalizer expects them.
func (s *ChatService) RawHistory(userID, chatID string) (*model.HistoryResponse, error) {
	if _, err := s.ownedChat(userID, chatID); err != nil {
		return nil, err
	}

	messages, err := s.store.GetMessages(chatID)
	if err != nil {
		return nil, err
	}
	return &model.HistoryResponse{ChatID: chatID, Messages: messages}, nil
}

// DisplayView returns the history already normalized into display bubbles,
// for clients that do not run the normalizer themselves.
func (s *ChatService) DisplayView(userID, chatID string) ([]history.DisplayMessage, error) {
	raw, err := s.RawHistory(userID, chatID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}
	return history.Normalize(payload, userID), nil
}

// critique runs the analyzer and the critic for one upload and attaches
// the result, unless a newer upload's critique already landed.
func (s *ChatService) critique(chatID, messageID, filename string, data []byte, note string, token uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	analysis, err := s.analyzer.Analyze(ctx, filename, data)
	if err != nil {
		logger.Errorf("Analysis failed for message %s: %v", messageID, err)
		return
	}

	advice, err := s.critic.Advise(ctx, model.AdviceInput{Analysis: *analysis, UserNote: note})
	if err != nil {
		logger.Errorf("Critique failed for message %s: %v", messageID, err)
		return
	}

	if !s.sequencer(chatID).Commit(token) {
		logger.Infof("Dropping stale critique for message %s", messageID)
		return
	}

	result := &model.AiResult{Analysis: *analysis, LLMAdvice: *advice}
	if err := s.store.AttachAiResult(chatID, messageID, result); err != nil {
		logger.Errorf("Failed to attach critique to message %s: %v", messageID, err)
	}
}

func (s *ChatService) sequencer(chatID string) *history.Sequencer {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq, ok := s.seqs[chatID]
	if !ok {
		seq = &history.Sequencer{}
		s.seqs[chatID] = seq
	}
	return seq
}

// ownedChat loads the chat and hides it from everyone but its owner.
func (s *ChatService) ownedChat(userID, chatID string) (*model.Chat, error) {
	chat, err := s.store.GetChat(chatID)
	if err != nil {
		return nil, err
	}
	if chat.UserID != userID {
		return nil, storage.ErrChatNotFound
	}
	return chat, nil
}

func (s *ChatService) chatResponse(chat *model.Chat, count int) *model.ChatResponse {
	return &model.ChatResponse{
		ChatID:       chat.ID,
		Title:        chat.Title,
		CreatedAt:    chat.CreatedAt,
		UpdatedAt:    chat.UpdatedAt,
		MessageCount: count,
	}
}

func (s *ChatService) ack(message *model.Message) *model.SendAck {
	return &model.SendAck{
		MessageID: message.ID,
		ChatID:    message.ChatID,
		Type:      message.Type,
		CreatedAt: message.CreatedAt,
	}
}
