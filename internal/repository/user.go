package repository

import (
	"context"

	"employee-directory/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	// GetByUsernameOrEmail returns the first user whose username or email equals identifier.
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	// ExistsByUsernameOrEmail reports whether any user holds username or email.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}
