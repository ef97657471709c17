package history

import (
	"encoding/json"

	"opaemu-backend/internal/model"
)

// Record is one entry of the raw history payload. The upstream contract is
// semi-structured: ids arrive as strings or numbers, ai_result is optional
// and independent of the record type, and unknown type values are ignored.
type Record struct {
	ID        model.FlexString `json:"id"`
	Sender    string           `json:"sender"`
	Type      string           `json:"type"`
	Text      string           `json:"text"`
	ImageURL  string           `json:"image_url"`
	AiResult  *model.AiResult  `json:"ai_result"`
	CreatedAt model.FlexString `json:"created_at"`
}

// DisplayMessage is a render-ready chat bubble. Field names match what the
// mobile client binds to.
type DisplayMessage struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsUser    bool   `json:"isUser"`
	ImageURL  string `json:"imageUrl,omitempty"`
	ImageURI  string `json:"imageUri,omitempty"`
	Sender    string `json:"sender,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Normalize flattens a raw history payload into the ordered message list a
// chat screen renders. It accepts the payload shapes the backend has been
// observed to return ({"messages": [...]}, {"items": [...]}, or a bare
// array); anything else yields an empty list. It never fails: a record it
// cannot make sense of contributes nothing, and a record carrying an
// ai_result additionally yields a synthesized assistant bubble placed
// directly after it.
//
// currentUserID decides which side a text bubble renders on; the backend
// writes real user ids into sender, while older clients sent the literal
// "user".
func Normalize(payload []byte, currentUserID string) []DisplayMessage {
	out := make([]DisplayMessage, 0)

	for _, raw := range extractRecords(payload) {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		out = appendRecord(out, &rec, currentUserID)
	}

	return out
}

func appendRecord(out []DisplayMessage, rec *Record, currentUserID string) []DisplayMessage {
	isUser := rec.Sender == currentUserID || rec.Sender == model.SenderUser
	id := rec.ID.String()

	switch {
	case rec.Type == model.TypeText && rec.Text != "":
		out = append(out, DisplayMessage{
			ID:        id,
			Text:      rec.Text,
			IsUser:    isUser,
			Sender:    rec.Sender,
			CreatedAt: rec.CreatedAt.String(),
		})
	case rec.Type == model.TypeImage && rec.ImageURL != "":
		// Uploaded photos always render on the viewer's side, whatever the
		// sender says. The client has shown them that way since launch, so
		// the sender-based ownership rule is overridden for images.
		out = append(out, DisplayMessage{
			ID:        id,
			Text:      "",
			IsUser:    true,
			ImageURL:  rec.ImageURL,
			Sender:    rec.Sender,
			CreatedAt: rec.CreatedAt.String(),
		})
	}

	if rec.AiResult != nil {
		out = append(out, DisplayMessage{
			ID:        id + "-ai",
			Text:      FormatAdvice(rec.AiResult),
			IsUser:    false,
			Sender:    model.SenderAssistant,
			CreatedAt: rec.CreatedAt.String(),
		})
	}

	return out
}

// extractRecords peels the envelope off the history payload without ever
// failing. The upstream has shipped three shapes over time.
func extractRecords(payload []byte) []json.RawMessage {
	var envelope struct {
		Messages []json.RawMessage `json:"messages"`
		Items    []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil {
		if envelope.Messages != nil {
			return envelope.Messages
		}
		return envelope.Items
	}

	var list []json.RawMessage
	if err := json.Unmarshal(payload, &list); err == nil {
		return list
	}

	return nil
}
