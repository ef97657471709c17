package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"opaemu-backend/internal/model"
	"opaemu-backend/pkg/logger"
)

// SQLiteStorage persists users, chats and messages in a single database
// file. The critique payload is stored as a JSON column on the message row
// so it round-trips exactly as the history endpoint serves it.
type SQLiteStorage struct {
	dsn string
	db  *sql.DB
}

func NewSQLiteStorage(dsn string) *SQLiteStorage {
	return &SQLiteStorage{dsn: dsn}
}

func (s *SQLiteStorage) Init() error {
	db, err := sql.Open("sqlite3", s.dsn)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	s.db = db
	if err := s.initSchema(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	logger.Infof("SQLite storage initialized: %s", s.dsn)
	return nil
}

func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		marketing_ok BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chats (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users (id)
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		chat_id TEXT NOT NULL,
		sender TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('text', 'image')),
		text TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		ai_result TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (chat_id) REFERENCES chats (id)
	);

	CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages (chat_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStorage) CreateUser(user *model.User) error {
	var exists int
	err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", user.Email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if exists > 0 {
		return ErrUserExists
	}

	_, err = s.db.Exec(
		"INSERT INTO users (id, email, password_hash, marketing_ok, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.MarketingOK, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetUserByEmail(email string) (*model.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, email, password_hash, marketing_ok, created_at FROM users WHERE email = ?", email))
}

func (s *SQLiteStorage) GetUserByID(userID string) (*model.User, error) {
	return s.scanUser(s.db.QueryRow(
		"SELECT id, email, password_hash, marketing_ok, created_at FROM users WHERE id = ?", userID))
}

func (s *SQLiteStorage) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.MarketingOK, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStorage) CreateChat(chat *model.Chat) error {
	_, err := s.db.Exec(
		"INSERT INTO chats (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		chat.ID, chat.UserID, chat.Title, chat.CreatedAt, chat.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetChat(chatID string) (*model.Chat, error) {
	var chat model.Chat
	err := s.db.QueryRow(
		"SELECT id, user_id, title, created_at, updated_at FROM chats WHERE id = ?", chatID,
	).Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("failed to query chat: %w", err)
	}
	return &chat, nil
}

func (s *SQLiteStorage) ListChats(userID string) ([]*model.Chat, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, title, created_at, updated_at FROM chats WHERE user_id = ? ORDER BY updated_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	chats := make([]*model.Chat, 0)
	for rows.Next() {
		var chat model.Chat
		if err := rows.Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		chats = append(chats, &chat)
	}
	return chats, rows.Err()
}

func (s *SQLiteStorage) DeleteChat(chatID string) error {
	res, err := s.db.Exec("DELETE FROM chats WHERE id = ?", chatID)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrChatNotFound
	}

	if _, err := s.db.Exec("DELETE FROM messages WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) AddMessage(chatID string, message *model.Message) error {
	if _, err := s.GetChat(chatID); err != nil {
		return err
	}

	aiJSON, err := marshalAiResult(message.AiResult)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	_, err = s.db.Exec(
		"INSERT INTO messages (id, chat_id, sender, type, text, image_url, ai_result, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		message.ID, chatID, message.Sender, message.Type, message.Text, message.ImageURL, aiJSON, message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	_, err = s.db.Exec("UPDATE chats SET updated_at = ? WHERE id = ?", message.CreatedAt, chatID)
	if err != nil {
		return fmt.Errorf("failed to touch chat: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetMessages(chatID string) ([]*model.Message, error) {
	if _, err := s.GetChat(chatID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT id, chat_id, sender, type, text, image_url, ai_result, created_at FROM messages WHERE chat_id = ? ORDER BY created_at ASC, id ASC", chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*model.Message, 0)
	for rows.Next() {
		var msg model.Message
		var aiJSON sql.NullString
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Sender, &msg.Type, &msg.Text, &msg.ImageURL, &aiJSON, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if aiJSON.Valid && aiJSON.String != "" {
			var res model.AiResult
			if err := json.Unmarshal([]byte(aiJSON.String), &res); err != nil {
				logger.Warnf("Dropping unreadable ai_result on message %s: %v", msg.ID, err)
			} else {
				msg.AiResult = &res
			}
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

func (s *SQLiteStorage) AttachAiResult(chatID, messageID string, result *model.AiResult) error {
	aiJSON, err := marshalAiResult(result)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	res, err := s.db.Exec(
		"UPDATE messages SET ai_result = ? WHERE id = ? AND chat_id = ?", aiJSON, messageID, chatID)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func marshalAiResult(res *model.AiResult) (sql.NullString, error) {
	if res == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
