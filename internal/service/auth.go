package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/BuzzLyutic/mileapp-task-api/internal/auth"
	"github.com/BuzzLyutic/mileapp-task-api/internal/model"
	"github.com/BuzzLyutic/mileapp-task-api/internal/repo"
)

type AuthResult struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

type AuthService struct {
	creds  *CredentialStore
	tokens *auth.TokenService
}

func NewAuthService(creds *CredentialStore, tokens *auth.TokenService) *AuthService {
	return &AuthService{
		creds:  creds,
		tokens: tokens,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (AuthResult, error) {
	if email == "" || password == "" || name == "" {
		return AuthResult{}, invalid("", "Please provide all required fields")
	}

	user, err := s.creds.Create(ctx, email, password, name)
	if err != nil {
		return AuthResult{}, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	if email == "" || password == "" {
		return AuthResult{}, invalid("", "Please provide email and password")
	}

	user, err := s.creds.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrorNotFound) {
		return AuthResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	if !s.creds.VerifyPassword(password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, userID int64) (model.PublicUser, error) {
	user, err := s.creds.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *AuthService) issue(user model.User) (AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{Token: token, User: user.Public()}, nil
}
