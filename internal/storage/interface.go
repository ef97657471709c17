package storage

import (
	"opaemu-backend/internal/model"
)

type Storage interface {
	// Accounts
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(userID string) (*model.User, error)

	// Chats
	CreateChat(chat *model.Chat) error
	GetChat(chatID string) (*model.Chat, error)
	ListChats(userID string) ([]*model.Chat, error)
	DeleteChat(chatID string) error

	// Messages
	AddMessage(chatID string, message *model.Message) error
	GetMessages(chatID string) ([]*model.Message, error)
	AttachAiResult(chatID, messageID string, result *model.AiResult) error

	// Lifecycle
	Init() error
	Close() error
}
