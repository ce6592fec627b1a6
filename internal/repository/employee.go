package repository

import (
	"context"

	"employee-directory/internal/domain"
)

// EmployeeRepository exposes persistence operations for Employee records.
// Listings are ordered by creation time, newest first.
type EmployeeRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, employee *domain.Employee) error
	Get(ctx context.Context, id string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error)
	Update(ctx context.Context, id string, patch domain.EmployeePatch) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
}
