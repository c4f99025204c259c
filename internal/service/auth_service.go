package service

import (
	"errors"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/token"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(username, password string) (*model.User, string, error)
	Login(username, password string) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates a user with a bcrypt-hashed password and issues a session
// token for the new account.
func (s *authService) Register(username, password string) (*model.User, string, error) {
	if existing, err := s.userRepo.FindByUsername(username); err == nil && existing.ID != 0 {
		return nil, "", ErrUsernameTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	user := &model.User{Username: username}
	if err := user.SetPassword(password); err != nil {
		return nil, "", err
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}

	tok, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, tok, nil
}

// Login verifies the credentials and issues a session token. Unknown user and
// wrong password are indistinguishable to the caller.
func (s *authService) Login(username, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	tok, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, tok, nil
}
