package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"employee-directory/internal/domain"
	"employee-directory/internal/repository"
	"employee-directory/internal/validation"
)

// PasswordCost is the bcrypt work factor for stored passwords.
const PasswordCost = 10

// maxPasswordBytes is the longest input bcrypt hashes. Longer passwords are
// truncated on both signup and login.
const maxPasswordBytes = 72

// TokenIssuer signs auth tokens for users.
type TokenIssuer interface {
	Generate(user *domain.User) (string, error)
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

func (in SignupInput) fields() map[string]any {
	return map[string]any{"username": in.Username, "email": in.Email, "password": in.Password}
}

type LoginInput struct {
	UsernameOrEmail string
	Password        string
}

func (in LoginInput) fields() map[string]any {
	return map[string]any{"usernameOrEmail": in.UsernameOrEmail, "password": in.Password}
}

// AuthResult is a freshly issued token and the user it belongs to.
type AuthResult struct {
	Token string
	User  *domain.User
}

// UserService describes user lifecycle operations.
type UserService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
}

type userService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	logger logrus.FieldLogger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(users repository.UserRepository, tokens TokenIssuer, logger logrus.FieldLogger) UserService {
	return &userService{
		users:  users,
		tokens: tokens,
		logger: logger.WithField("component", "users"),
	}
}

func (s *userService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if errs := validation.Validate(validation.Signup, in.fields()); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes(in.Password), PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	s.logger.WithField("user_id", user.ID).Info("user signed up")

	return s.issue(user)
}

func (s *userService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.UsernameOrEmail = strings.TrimSpace(in.UsernameOrEmail)
	if errs := validation.Validate(validation.Login, in.fields()); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, in.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// equalise timing with the wrong-password path
			_ = bcrypt.CompareHashAndPassword(s.dummy(), passwordBytes(in.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordBytes(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *userService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: sanitizeUser(user)}, nil
}

func (s *userService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), PasswordCost)
	})
	return s.dummyHash
}

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
