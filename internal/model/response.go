package model

import "time"

type TokenResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type ChatResponse struct {
	ChatID       string    `json:"chat_id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// HistoryResponse is the raw history payload. The client treats the
// records as semi-structured and runs them through its own normalizer,
// so the envelope key is part of the wire contract.
type HistoryResponse struct {
	ChatID   string     `json:"chat_id"`
	Messages []*Message `json:"messages"`
}

// SendAck acknowledges a text or image send. The client does not render
// the ack body; it re-fetches history afterwards.
type SendAck struct {
	MessageID string    `json:"message_id"`
	ChatID    string    `json:"chat_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
