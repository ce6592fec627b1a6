package domain

import "time"

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// DateLayout is the wire format of Employee.DateOfJoining.
const DateLayout = "2006-01-02"

// Employee is a single directory entry.
type Employee struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	Gender        Gender
	Designation   string
	Salary        float64
	DateOfJoining time.Time
	Department    string
	PhotoURL      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EmployeePatch carries a partial update. Nil fields are left untouched.
type EmployeePatch struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Gender        *Gender
	Designation   *string
	Salary        *float64
	DateOfJoining *time.Time
	Department    *string
	PhotoURL      *string
}

// Empty reports whether the patch changes nothing.
func (p EmployeePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.Gender == nil &&
		p.Designation == nil && p.Salary == nil && p.DateOfJoining == nil &&
		p.Department == nil && p.PhotoURL == nil
}

// EmployeeFilter restricts a listing. Empty fields do not constrain.
type EmployeeFilter struct {
	Designation string
	Department  string
}
