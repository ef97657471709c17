package storage

import (
	"sort"
	"sync"

	"opaemu-backend/internal/model"
)

// MemoryStorage keeps everything in maps. Used in tests and as the
// fallback when the SQLite store cannot be opened.
type MemoryStorage struct {
	users    map[string]*model.User
	chats    map[string]*model.Chat
	messages map[string][]*model.Message
	mu       sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:    make(map[string]*model.User),
		chats:    make(map[string]*model.Chat),
		messages: make(map[string][]*model.Message),
	}
}

func (m *MemoryStorage) Init() error {
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func (m *MemoryStorage) CreateUser(user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrUserExists
		}
	}

	m.users[user.ID] = user
	return nil
}

func (m *MemoryStorage) GetUserByEmail(email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}

	return nil, ErrUserNotFound
}

func (m *MemoryStorage) GetUserByID(userID string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[userID]
	if !exists {
		return nil, ErrUserNotFound
	}

	return user, nil
}

func (m *MemoryStorage) CreateChat(chat *model.Chat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.chats[chat.ID] = chat
	m.messages[chat.ID] = make([]*model.Message, 0)
	return nil
}

func (m *MemoryStorage) GetChat(chatID string) (*model.Chat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chat, exists := m.chats[chatID]
	if !exists {
		return nil, ErrChatNotFound
	}

	return chat, nil
}

func (m *MemoryStorage) ListChats(userID string) ([]*model.Chat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chats := make([]*model.Chat, 0)
	for _, chat := range m.chats {
		if chat.UserID == userID {
			chats = append(chats, chat)
		}
	}

	sort.Slice(chats, func(i, j int) bool {
		return chats[i].UpdatedAt.After(chats[j].UpdatedAt)
	})

	return chats, nil
}

func (m *MemoryStorage) DeleteChat(chatID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.chats[chatID]; !exists {
		return ErrChatNotFound
	}

	delete(m.chats, chatID)
	delete(m.messages, chatID)
	return nil
}

func (m *MemoryStorage) AddMessage(chatID string, message *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	chat, exists := m.chats[chatID]
	if !exists {
		return ErrChatNotFound
	}

	m.messages[chatID] = append(m.messages[chatID], message)
	chat.UpdatedAt = message.CreatedAt
	return nil
}

func (m *MemoryStorage) GetMessages(chatID string) ([]*model.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, exists := m.chats[chatID]; !exists {
		return nil, ErrChatNotFound
	}

	messages := make([]*model.Message, len(m.messages[chatID]))
	copy(messages, m.messages[chatID])
	return messages, nil
}

func (m *MemoryStorage) AttachAiResult(chatID, messageID string, result *model.AiResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.chats[chatID]; !exists {
		return ErrChatNotFound
	}

	for _, msg := range m.messages[chatID] {
		if msg.ID == messageID {
			msg.AiResult = result
			return nil
		}
	}

	return ErrMessageNotFound
}
