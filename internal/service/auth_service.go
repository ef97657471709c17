package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"opaemu-backend/internal/auth"
	"opaemu-backend/internal/model"
	"opaemu-backend/internal/storage"
	"opaemu-backend/pkg/logger"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles signup, login and the current-user lookup.
type AuthService struct {
	store  storage.Storage
	tokens *auth.TokenManager
}

func NewAuthService(store storage.Storage, tokens *auth.TokenManager) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

// Signup validates the request, creates the account and logs it in.
func (s *AuthService) Signup(req *model.SignupRequest) (*model.TokenResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := auth.ValidateSignup(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		MarketingOK:  req.Agreements.Marketing,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	logger.Infof("New account created: %s", user.ID)
	return s.tokenResponse(user)
}

// Login checks the credentials and issues a fresh token. Unknown email
// and wrong password report the same error.
func (s *AuthService) Login(req *model.LoginRequest) (*model.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.tokenResponse(user)
}

// Me returns the account a token resolved to.
func (s *AuthService) Me(userID string) (*model.User, error) {
	return s.store.GetUserByID(userID)
}

func (s *AuthService) tokenResponse(user *model.User) (*model.TokenResponse, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &model.TokenResponse{Token: token, User: user}, nil
}
