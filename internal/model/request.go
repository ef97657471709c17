package model

// Agreements mirrors the consent checkboxes on the signup screen.
// Age, terms and privacy are required; marketing is optional.
type Agreements struct {
	Age       bool `json:"age"`
	Terms     bool `json:"terms"`
	Privacy   bool `json:"privacy"`
	Marketing bool `json:"marketing"`
}

type SignupRequest struct {
	Email           string     `json:"email" binding:"required"`
	Password        string     `json:"password" binding:"required"`
	ConfirmPassword string     `json:"confirm_password" binding:"required"`
	Agreements      Agreements `json:"agreements"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateChatRequest struct {
	Title string `json:"title"`
}

type PostMessageRequest struct {
	Text string `json:"text" binding:"required"`
}
