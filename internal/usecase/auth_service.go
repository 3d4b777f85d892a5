package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshtrack/backend/internal/auth"
	"github.com/freshtrack/backend/internal/domain"
)

// AuthService handles account registration and login
type AuthService struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
	now    func() time.Time
}

// NewAuthService creates a new auth service with dependencies
func NewAuthService(users domain.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

// RegisterInput carries the fields needed to create an account
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a new account with a bcrypt password hash
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || len(input.Password) < 8 {
		return nil, domain.ErrInvalidRequest
	}
	role := input.Role
	if role == "" {
		role = domain.RoleConsumer
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRequest
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns a signed token plus the account
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
