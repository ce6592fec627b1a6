package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employee-directory/internal/domain"
	"employee-directory/internal/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "alice", "a@x.com", "hash", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &domain.User{Username: "alice", Email: "a@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsernameOrEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM users").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "updated_at"}).
			AddRow("u-1", "alice", "a@x.com", "hash", now, now))
	mock.ExpectQuery("FROM users").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.GetByUsernameOrEmail(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "a@x.com", user.Email)

	_, err = repo.GetByUsernameOrEmail(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Exists(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice", "a@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByUsernameOrEmail(context.Background(), "alice", "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_ListBuildsConjunctiveFilter(t *testing.T) {
	mock := newMock(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(`WHERE designation = \$1 AND department = \$2 ORDER BY created_at DESC`).
		WithArgs("Engineer", "R&D").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "first_name", "last_name", "email", "gender", "designation", "salary",
			"date_of_joining", "department", "employee_photo", "created_at", "updated_at",
		}))

	employees, err := repo.List(context.Background(), domain.EmployeeFilter{Designation: "Engineer", Department: "R&D"})
	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

const employeeID = "5b0c8a4e-3f43-4c5b-9a53-0f2d8c1e7a10"

func TestEmployeeRepository_DeleteMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectExec(`DELETE FROM employees WHERE id = \$1`).
		WithArgs(employeeID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), employeeID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_MalformedIDSkipsQuery(t *testing.T) {
	mock := newMock(t)
	repo := NewEmployeeRepository(mock)
	ctx := context.Background()
	name := "X"

	_, err := repo.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.Update(ctx, "not-a-uuid", domain.EmployeePatch{FirstName: &name})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "not-a-uuid"), repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_GetUsesPrimaryKey(t *testing.T) {
	mock := newMock(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(`FROM employees WHERE id = \$1`).
		WithArgs(employeeID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), strings.ToUpper(employeeID))
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_UpdateEmailConflict(t *testing.T) {
	mock := newMock(t)
	repo := NewEmployeeRepository(mock)
	email := "taken@x.com"

	mock.ExpectQuery(`UPDATE employees SET email = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs(email, pgxmock.AnyArg(), employeeID).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Update(context.Background(), employeeID, domain.EmployeePatch{Email: &email})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
