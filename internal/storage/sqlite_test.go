package storage

import (
	"path/filepath"
	"testing"
	"time"

	"opaemu-backend/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()

	s := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorageRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	now := time.Now().UTC().Truncate(time.Second)

	user := &model.User{ID: "u1", Email: "a@b.c", PasswordHash: "h", MarketingOK: true, CreatedAt: now}
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateUser(&model.User{ID: "u2", Email: "a@b.c", CreatedAt: now}); err != ErrUserExists {
		t.Errorf("duplicate email: got %v, want ErrUserExists", err)
	}

	chat := &model.Chat{ID: "c1", UserID: "u1", Title: "fit check", CreatedAt: now, UpdatedAt: now}
	if err := s.CreateChat(chat); err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	text := &model.Message{ID: "m1", ChatID: "c1", Sender: "u1", Type: model.TypeText, Text: "hi", CreatedAt: now}
	if err := s.AddMessage("c1", text); err != nil {
		t.Fatalf("AddMessage text: %v", err)
	}

	image := &model.Message{ID: "m2", ChatID: "c1", Sender: "u1", Type: model.TypeImage, ImageURL: "/media/c1/a.jpg", CreatedAt: now.Add(time.Second)}
	if err := s.AddMessage("c1", image); err != nil {
		t.Fatalf("AddMessage image: %v", err)
	}

	res := &model.AiResult{
		Analysis:  model.Analysis{AestheticsScore: model.FlexFloat{Value: 0.9, Valid: true}},
		LLMAdvice: model.LLMAdvice{OneLineSummary: "Nice fit", PositivePoints: model.StringList{"a", "b"}},
	}
	if err := s.AttachAiResult("c1", "m2", res); err != nil {
		t.Fatalf("AttachAiResult: %v", err)
	}

	msgs, err := s.GetMessages("c1")
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ID != "m1" || msgs[1].ID != "m2" {
		t.Errorf("messages out of order: %s, %s", msgs[0].ID, msgs[1].ID)
	}

	got := msgs[1].AiResult
	if got == nil {
		t.Fatal("ai_result did not round-trip")
	}
	if !got.Analysis.AestheticsScore.Valid || got.Analysis.AestheticsScore.Value != 0.9 {
		t.Errorf("aesthetics score = %+v", got.Analysis.AestheticsScore)
	}
	if len(got.LLMAdvice.PositivePoints) != 2 {
		t.Errorf("positive points = %v", got.LLMAdvice.PositivePoints)
	}
}

func TestSQLiteStorageDeleteChat(t *testing.T) {
	s := newTestSQLite(t)
	now := time.Now().UTC()

	if err := s.CreateChat(&model.Chat{ID: "c1", UserID: "u1", Title: "t", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if err := s.AddMessage("c1", &model.Message{ID: "m1", ChatID: "c1", Sender: "u1", Type: model.TypeText, Text: "x", CreatedAt: now}); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	if err := s.DeleteChat("c1"); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}
	if err := s.DeleteChat("c1"); err != ErrChatNotFound {
		t.Errorf("second delete: got %v, want ErrChatNotFound", err)
	}
	if _, err := s.GetMessages("c1"); err != ErrChatNotFound {
		t.Errorf("messages after delete: got %v, want ErrChatNotFound", err)
	}
}
