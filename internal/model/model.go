package model

import "time"

// SenderAssistant is the sender value used for synthesized critique messages.
// SenderUser is the sentinel the mobile client may send instead of a real user id.
const (
	SenderAssistant = "assistant"
	SenderUser      = "user"
)

// Message types as they appear in the history payload.
const (
	TypeText  = "text"
	TypeImage = "image"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	MarketingOK  bool      `json:"marketing_ok"`
	CreatedAt    time.Time `json:"created_at"`
}

type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one stored chat record. Marshaled as-is into the raw history
// payload consumed by the client and by the history normalizer.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Sender    string    `json:"sender"`
	Type      string    `json:"type"`
	Text      string    `json:"text,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	AiResult  *AiResult `json:"ai_result,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AiResult is the critique payload attached to a record once the uploaded
// outfit photo has been analyzed and advised on.
type AiResult struct {
	Analysis  Analysis  `json:"analysis"`
	LLMAdvice LLMAdvice `json:"llm_advice"`
}

// Analysis carries the raw vision scores. The upstream analyzer is loose
// about types, so scores decode from numbers or numeric strings.
type Analysis struct {
	AestheticsScore    FlexFloat `json:"aesthetics_score_h1,omitempty"`
	CompatibilityScore FlexFloat `json:"compatibility_score_h2,omitempty"`
}

// LLMAdvice is the language-model half of a critique. PositivePoints
// decodes from either a single string or an array of strings.
type LLMAdvice struct {
	OneLineSummary string     `json:"one_line_summary,omitempty"`
	PositivePoints StringList `json:"positive_points,omitempty"`
	Suggestion     string     `json:"suggestion,omitempty"`
}

// AdviceInput is what the critic needs to write a critique.
type AdviceInput struct {
	Analysis Analysis
	UserNote string
}
