package service

import (
	"errors"
	"testing"
	"time"

	"opaemu-backend/internal/auth"
	"opaemu-backend/internal/model"
	"opaemu-backend/internal/storage"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	store := storage.NewMemoryStorage()
	if err := store.Init(); err != nil {
		t.Fatalf("init storage: %v", err)
	}
	return NewAuthService(store, auth.NewTokenManager("test-secret", time.Hour))
}

func signupRequest() *model.SignupRequest {
	return &model.SignupRequest{
		Email:           "kim@example.com",
		Password:        "passw0rd",
		ConfirmPassword: "passw0rd",
		Agreements:      model.Agreements{Age: true, Terms: true, Privacy: true},
	}
}

func TestSignupAndLogin(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Signup(signupRequest())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if resp.Token == "" || resp.User == nil {
		t.Fatalf("incomplete token response: %+v", resp)
	}
	if resp.User.PasswordHash == "" {
		t.Error("password hash missing on stored user")
	}
	if resp.User.PasswordHash == "passw0rd" {
		t.Error("password stored in plain text")
	}

	login, err := svc.Login(&model.LoginRequest{Email: "kim@example.com", Password: "passw0rd"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Errorf("login resolved to %q, want %q", login.User.ID, resp.User.ID)
	}
}

func TestSignupNormalizesEmail(t *testing.T) {
	svc := newAuthService(t)

	req := signupRequest()
	req.Email = "  Kim@Example.COM "
	resp, err := svc.Signup(req)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if resp.User.Email != "kim@example.com" {
		t.Errorf("email = %q", resp.User.Email)
	}

	if _, err := svc.Login(&model.LoginRequest{Email: "KIM@example.com", Password: "passw0rd"}); err != nil {
		t.Errorf("case-insensitive login failed: %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Signup(signupRequest()); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if _, err := svc.Signup(signupRequest()); !errors.Is(err, storage.ErrUserExists) {
		t.Errorf("duplicate signup error = %v", err)
	}
}

func TestSignupValidationFailures(t *testing.T) {
	svc := newAuthService(t)

	tests := []struct {
		name   string
		mutate func(*model.SignupRequest)
		want   error
	}{
		{"bad email", func(r *model.SignupRequest) { r.Email = "not-an-email" }, auth.ErrInvalidEmail},
		{"mismatch", func(r *model.SignupRequest) { r.ConfirmPassword = "other0pass" }, auth.ErrPasswordMismatch},
		{"no digit", func(r *model.SignupRequest) { r.Password = "password"; r.ConfirmPassword = "password" }, auth.ErrWeakPassword},
		{"missing consent", func(r *model.SignupRequest) { r.Agreements.Privacy = false }, auth.ErrMissingAgreements},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := signupRequest()
			tt.mutate(req)
			if _, err := svc.Signup(req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	if _, err := svc.Signup(signupRequest()); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, err := svc.Login(&model.LoginRequest{Email: "kim@example.com", Password: "wrong0pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, err := svc.Login(&model.LoginRequest{Email: "nobody@example.com", Password: "passw0rd"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v", err)
	}
}

func TestMe(t *testing.T) {
	svc := newAuthService(t)
	resp, err := svc.Signup(signupRequest())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	user, err := svc.Me(resp.User.ID)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.Email != "kim@example.com" {
		t.Errorf("email = %q", user.Email)
	}

	if _, err := svc.Me("ghost"); !errors.Is(err, storage.ErrUserNotFound) {
		t.Errorf("unknown user error = %v", err)
	}
}
