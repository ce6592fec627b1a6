package graph

import (
	"time"

	"employee-directory/internal/domain"
	"employee-directory/internal/validation"
)

// AuthPayload answers signup and login.
type AuthPayload struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Token   *string                 `json:"token"`
	User    *User                   `json:"user"`
	Errors  []validation.FieldError `json:"errors"`
}

// EmployeeResponse answers operations on a single employee.
type EmployeeResponse struct {
	Success  bool                    `json:"success"`
	Message  string                  `json:"message"`
	Employee *Employee               `json:"employee"`
	Errors   []validation.FieldError `json:"errors"`
}

// EmployeesResponse answers listings. Employees is never nil.
type EmployeesResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Employees []Employee `json:"employees"`
}

// GenericResponse is a bare acknowledgment.
type GenericResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (r *AuthPayload) succeeded() bool       { return r.Success }
func (r *EmployeeResponse) succeeded() bool  { return r.Success }
func (r *EmployeesResponse) succeeded() bool { return r.Success }
func (r *GenericResponse) succeeded() bool   { return r.Success }

// User is the public view of a domain user.
type User struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Employee is the public view of a domain employee.
type Employee struct {
	ID            string  `json:"_id"`
	EID           string  `json:"eid"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	Gender        string  `json:"gender"`
	Designation   string  `json:"designation"`
	Salary        float64 `json:"salary"`
	DateOfJoining string  `json:"date_of_joining"`
	Department    string  `json:"department"`
	EmployeePhoto *string `json:"employee_photo"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func toUser(u *domain.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

func toEmployee(e *domain.Employee) *Employee {
	if e == nil {
		return nil
	}
	view := &Employee{
		ID:            e.ID,
		EID:           e.ID,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Email:         e.Email,
		Gender:        string(e.Gender),
		Designation:   e.Designation,
		Salary:        e.Salary,
		DateOfJoining: e.DateOfJoining.Format(domain.DateLayout),
		Department:    e.Department,
		CreatedAt:     formatTime(e.CreatedAt),
		UpdatedAt:     formatTime(e.UpdatedAt),
	}
	if e.PhotoURL != nil {
		url := *e.PhotoURL
		view.EmployeePhoto = &url
	}
	return view
}

func toEmployees(list []domain.Employee) []Employee {
	out := make([]Employee, 0, len(list))
	for i := range list {
		out = append(out, *toEmployee(&list[i]))
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
