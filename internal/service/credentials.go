package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/BuzzLyutic/mileapp-task-api/internal/auth"
	"github.com/BuzzLyutic/mileapp-task-api/internal/model"
	"github.com/BuzzLyutic/mileapp-task-api/internal/repo"
)

// CredentialStore - единственное место, где живет хэш пароля.
type CredentialStore struct {
	users  repo.UserRepository
	hasher *auth.PasswordHasher
}

func NewCredentialStore(users repo.UserRepository, hasher *auth.PasswordHasher) *CredentialStore {
	return &CredentialStore{
		users:  users,
		hasher: hasher,
	}
}

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *CredentialStore) FindByID(ctx context.Context, id int64) (model.User, error) {
	return s.users.Get(ctx, id)
}

func (s *CredentialStore) Create(ctx context.Context, email, password, name string) (model.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return model.User{}, ErrDuplicateEmail
	} else if !errors.Is(err, repo.ErrorNotFound) {
		return model.User{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return model.User{}, invalid("password", "Password must be at most 72 bytes")
	}
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	})
	if errors.Is(err, repo.ErrorConflict) { // гонка двух регистраций
		return model.User{}, ErrDuplicateEmail
	}
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *CredentialStore) VerifyPassword(plaintext, storedHash string) bool {
	return s.hasher.Verify(plaintext, storedHash)
}
