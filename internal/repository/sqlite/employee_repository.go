package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"employee-directory/internal/domain"
	"employee-directory/internal/repository"
)

const createEmployeesTable = `
CREATE TABLE IF NOT EXISTS employees (
	id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	gender TEXT NOT NULL,
	designation TEXT NOT NULL,
	salary REAL NOT NULL,
	date_of_joining TEXT NOT NULL,
	department TEXT NOT NULL,
	employee_photo TEXT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const employeeColumns = `id, first_name, last_name, email, gender, designation, salary, date_of_joining, department, employee_photo, created_at, updated_at`

type EmployeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) repository.EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createEmployeesTable); err != nil {
		return fmt.Errorf("create employees table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS employees_created_at_idx ON employees (created_at)`); err != nil {
		return fmt.Errorf("create employees index: %w", err)
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

	_, err := r.db.ExecContext(ctx, `
INSERT INTO employees (`+employeeColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		employee.ID,
		employee.FirstName,
		employee.LastName,
		employee.Email,
		string(employee.Gender),
		employee.Designation,
		employee.Salary,
		employee.DateOfJoining.Format(domain.DateLayout),
		employee.Department,
		nullString(employee.PhotoURL),
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
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	return scanEmployee(row)
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = ?`, email)
	return scanEmployee(row)
}

func (r *EmployeeRepository) List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Designation != "" {
		conditions = append(conditions, "designation = ?")
		args = append(args, filter.Designation)
	}
	if filter.Department != "" {
		conditions = append(conditions, "department = ?")
		args = append(args, filter.Department)
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
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
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
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
		set("date_of_joining", patch.DateOfJoining.Format(domain.DateLayout))
	}
	if patch.Department != nil {
		set("department", *patch.Department)
	}
	if patch.PhotoURL != nil {
		set("employee_photo", *patch.PhotoURL)
	}
	set("updated_at", time.Now().UTC())
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE employees SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update employee: %w", repository.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("update employee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("employee rows affected: %w", err)
	}
	if affected == 0 {
		return nil, repository.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("employee rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanEmployee(row interface {
	Scan(dest ...any) error
}) (*domain.Employee, error) {
	var (
		employee domain.Employee
		gender   string
		joined   string
		photo    sql.NullString
	)
	if err := row.Scan(
		&employee.ID,
		&employee.FirstName,
		&employee.LastName,
		&employee.Email,
		&gender,
		&employee.Designation,
		&employee.Salary,
		&joined,
		&employee.Department,
		&photo,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan employee: %w", err)
	}

	employee.Gender = domain.Gender(gender)
	date, err := time.Parse(domain.DateLayout, joined)
	if err != nil {
		return nil, fmt.Errorf("parse date_of_joining %q: %w", joined, err)
	}
	employee.DateOfJoining = date
	if photo.Valid {
		url := photo.String
		employee.PhotoURL = &url
	}
	return &employee, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
