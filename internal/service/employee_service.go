package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"employee-directory/internal/domain"
	"employee-directory/internal/repository"
	"employee-directory/internal/storage"
	"employee-directory/internal/validation"
)

// EmployeeInput is the full field set of a new employee.
type EmployeeInput struct {
	FirstName     string
	LastName      string
	Email         string
	Gender        string
	Designation   string
	Salary        float64
	DateOfJoining string
	Department    string
}

func (in EmployeeInput) fields() map[string]any {
	return map[string]any{
		"first_name":      in.FirstName,
		"last_name":       in.LastName,
		"email":           in.Email,
		"gender":          in.Gender,
		"designation":     in.Designation,
		"salary":          in.Salary,
		"date_of_joining": in.DateOfJoining,
		"department":      in.Department,
	}
}

// EmployeeUpdate holds the fields supplied to an update. Nil or empty means unchanged.
type EmployeeUpdate struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Gender        *string
	Designation   *string
	Salary        *float64
	DateOfJoining *string
	Department    *string
}

// EmployeeService coordinates employee operations backed by the repository and media store.
type EmployeeService interface {
	Add(ctx context.Context, in EmployeeInput, photo *storage.File) (*domain.Employee, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	Search(ctx context.Context, designation, department string) ([]domain.Employee, error)
	Update(ctx context.Context, id string, in EmployeeUpdate, photo *storage.File) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
}

type employeeService struct {
	employees repository.EmployeeRepository
	photos    photoUploader
	logger    logrus.FieldLogger
}

func NewEmployeeService(employees repository.EmployeeRepository, media storage.Service, photoFolder string, logger logrus.FieldLogger) EmployeeService {
	if photoFolder == "" {
		photoFolder = DefaultPhotoFolder
	}
	return &employeeService{
		employees: employees,
		photos:    photoUploader{store: media, folder: photoFolder},
		logger:    logger.WithField("component", "employees"),
	}
}

func (s *employeeService) Add(ctx context.Context, in EmployeeInput, photo *storage.File) (*domain.Employee, error) {
	in.Email = strings.TrimSpace(in.Email)
	if errs := validation.Validate(validation.Employee, in.fields()); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	if _, err := s.employees.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmployeeEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	joined, err := parseDate(in.DateOfJoining)
	if err != nil {
		return nil, err
	}

	photoURL, err := s.photos.upload(ctx, photo)
	if err != nil {
		s.logger.WithError(err).Warn("employee photo upload failed")
		return nil, err
	}

	employee := &domain.Employee{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Gender:        domain.Gender(in.Gender),
		Designation:   in.Designation,
		Salary:        in.Salary,
		DateOfJoining: joined,
		Department:    in.Department,
		PhotoURL:      photoURL,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrEmployeeEmailExists
		}
		return nil, err
	}
	s.logger.WithField("eid", employee.ID).Info("employee created")
	return employee, nil
}

func (s *employeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	employee, err := s.employees.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) List(ctx context.Context) ([]domain.Employee, error) {
	return s.employees.List(ctx, domain.EmployeeFilter{})
}

func (s *employeeService) Search(ctx context.Context, designation, department string) ([]domain.Employee, error) {
	if designation == "" && department == "" {
		return nil, ErrSearchFilterRequired
	}
	return s.employees.List(ctx, domain.EmployeeFilter{Designation: designation, Department: department})
}

func (s *employeeService) Update(ctx context.Context, id string, in EmployeeUpdate, photo *storage.File) (*domain.Employee, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var patch domain.EmployeePatch
	patch.FirstName = present(in.FirstName)
	patch.LastName = present(in.LastName)
	patch.Designation = present(in.Designation)
	patch.Department = present(in.Department)

	if email := present(in.Email); email != nil && *email != current.Email {
		if _, err := s.employees.GetByEmail(ctx, *email); err == nil {
			return nil, ErrEmailInUse
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		patch.Email = email
	}

	if in.Salary != nil {
		if fe := validation.Check(validation.Employee, "salary", *in.Salary); fe != nil {
			return nil, fieldError(*fe)
		}
		patch.Salary = in.Salary
	}

	if gender := present(in.Gender); gender != nil {
		if fe := validation.Check(validation.Employee, "gender", *gender); fe != nil {
			return nil, fieldError(*fe)
		}
		g := domain.Gender(*gender)
		patch.Gender = &g
	}

	if date := present(in.DateOfJoining); date != nil {
		joined, err := parseDate(*date)
		if err != nil {
			return nil, err
		}
		patch.DateOfJoining = &joined
	}

	photoURL, err := s.photos.upload(ctx, photo)
	if err != nil {
		s.logger.WithError(err).WithField("eid", id).Warn("employee photo upload failed")
		return nil, err
	}
	patch.PhotoURL = photoURL
	if patch.Empty() {
		return current, nil
	}

	updated, err := s.employees.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrEmployeeNotFound
		case errors.Is(err, repository.ErrAlreadyExists):
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	s.logger.WithField("eid", id).Info("employee updated")
	return updated, nil
}

func (s *employeeService) Delete(ctx context.Context, id string) error {
	if err := s.employees.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}
	s.logger.WithField("eid", id).Info("employee deleted")
	return nil
}

func parseDate(value string) (time.Time, error) {
	joined, err := time.Parse(domain.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fieldError(validation.FieldError{
			Field:   "date_of_joining",
			Message: "date_of_joining is required (YYYY-MM-DD)",
		})
	}
	return joined, nil
}

// present treats an empty string the same as an absent field.
func present(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}
