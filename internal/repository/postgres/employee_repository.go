package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"employee-directory/internal/domain"
	"employee-directory/internal/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepository)(nil)

const employeeColumns = `id::text, first_name, last_name, email, gender, designation, salary, date_of_joining, department, employee_photo, created_at, updated_at`

// EmployeeRepository stores employees in Postgres.
type EmployeeRepository struct {
	db DBTX
}

func NewEmployeeRepository(db DBTX) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS employees (
			id UUID PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			gender TEXT NOT NULL CHECK (gender IN ('Male', 'Female', 'Other')),
			designation TEXT NOT NULL,
			salary DOUBLE PRECISION NOT NULL CHECK (salary >= 1000),
			date_of_joining DATE NOT NULL,
			department TEXT NOT NULL,
			employee_photo TEXT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS employees_created_at_idx ON employees (created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply employees schema: %w", err)
		}
	}
	return nil
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	now := time.Now().UTC()
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	employee.CreatedAt = now
	employee.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
INSERT INTO employees (id, first_name, last_name, email, gender, designation, salary, date_of_joining, department, employee_photo, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		employee.ID,
		employee.FirstName,
		employee.LastName,
		employee.Email,
		string(employee.Gender),
		employee.Designation,
		employee.Salary,
		employee.DateOfJoining,
		employee.Department,
		employee.PhotoURL,
		employee.CreatedAt,
		employee.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert employee: %w", repository.ErrAlreadyExists)
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) Get(ctx context.Context, id string) (*domain.Employee, error) {
	key, err := employeeKey(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, key)
	return scanEmployee(row)
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	row := r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = $1`, email)
	return scanEmployee(row)
}

func (r *EmployeeRepository) List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Designation != "" {
		args = append(args, filter.Designation)
		conditions = append(conditions, fmt.Sprintf("designation = $%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)))
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return employees, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, patch domain.EmployeePatch) (*domain.Employee, error) {
	key, err := employeeKey(id)
	if err != nil {
		return nil, err
	}
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.FirstName != nil {
		set("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		set("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Gender != nil {
		set("gender", string(*patch.Gender))
	}
	if patch.Designation != nil {
		set("designation", *patch.Designation)
	}
	if patch.Salary != nil {
		set("salary", *patch.Salary)
	}
	if patch.DateOfJoining != nil {
		set("date_of_joining", *patch.DateOfJoining)
	}
	if patch.Department != nil {
		set("department", *patch.Department)
	}
	if patch.PhotoURL != nil {
		set("employee_photo", *patch.PhotoURL)
	}
	set("updated_at", time.Now().UTC())
	args = append(args, key)

	query := fmt.Sprintf(`UPDATE employees SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), employeeColumns)
	employee, err := scanEmployee(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update employee: %w", repository.ErrAlreadyExists)
		}
		return nil, err
	}
	return employee, nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	key, err := employeeKey(id)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, key)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// employeeKey canonicalises an eid for the uuid primary key. Malformed ids
// cannot match a row.
func employeeKey(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", repository.ErrNotFound
	}
	return parsed.String(), nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var (
		employee domain.Employee
		gender   string
	)
	if err := row.Scan(
		&employee.ID,
		&employee.FirstName,
		&employee.LastName,
		&employee.Email,
		&gender,
		&employee.Designation,
		&employee.Salary,
		&employee.DateOfJoining,
		&employee.Department,
		&employee.PhotoURL,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	employee.Gender = domain.Gender(gender)
	return &employee, nil
}
