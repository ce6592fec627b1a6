package graph

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"

	"employee-directory/internal/auth"
	"employee-directory/internal/metrics"
	"employee-directory/internal/service"
)

const (
	msgLoginSuccess     = "Login successful"
	msgInvalidCreds     = "Invalid credentials"
	msgSignupSuccess    = "Signup successful"
	msgUserExists       = "Username or email already exists"
	msgEmployeesFetched = "Employees fetched"
	msgEmployeeFetched  = "Employee fetched"
	msgEmployeeNotFound = "Employee not found"
	msgFilterRequired   = "Provide designation or department"
	msgEmployeesFilter  = "Employees filtered"
	msgEmployeeCreated  = "Employee created"
	msgEmployeeExists   = "Employee email already exists"
	msgEmailInUse       = "Email already in use"
	msgPhotoUpload      = "Photo upload failed"
	msgEmployeeUpdated  = "Employee updated"
	msgEmployeeDeleted  = "Employee deleted"
)

// errInternal hides infrastructure failures from clients.
var errInternal = errors.New("internal server error")

type result interface {
	succeeded() bool
}

// Options tunes a Resolver.
type Options struct {
	// EnforceAuth makes employee operations require a verified identity.
	EnforceAuth bool
	Metrics     *metrics.Metrics
}

// Resolver maps GraphQL operations onto the services.
type Resolver struct {
	users       service.UserService
	employees   service.EmployeeService
	logger      logrus.FieldLogger
	metrics     *metrics.Metrics
	enforceAuth bool
}

func NewResolver(users service.UserService, employees service.EmployeeService, logger logrus.FieldLogger, opts Options) *Resolver {
	return &Resolver{
		users:       users,
		employees:   employees,
		logger:      logger.WithField("component", "graphql"),
		metrics:     opts.Metrics,
		enforceAuth: opts.EnforceAuth,
	}
}

// protected rejects calls without an identity when enforcement is on.
func (r *Resolver) protected(next graphql.FieldResolveFn) graphql.FieldResolveFn {
	if !r.enforceAuth {
		return next
	}
	return func(p graphql.ResolveParams) (interface{}, error) {
		if err := auth.RequireAuth(auth.IdentityFromContext(p.Context)); err != nil {
			return nil, err
		}
		return next(p)
	}
}

func (r *Resolver) instrument(operation string, next graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		start := time.Now()
		out, err := next(p)
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeError
		} else if res, ok := out.(result); ok && !res.succeeded() {
			outcome = metrics.OutcomeFailure
		}
		r.metrics.ObserveOperation(operation, outcome, time.Since(start))
		return out, err
	}
}

// internal logs err and returns the generic client-facing error.
func (r *Resolver) internal(operation string, err error) error {
	r.logger.WithError(err).WithField("operation", operation).Error("resolver failed")
	return errInternal
}

func (r *Resolver) signup(p graphql.ResolveParams) (interface{}, error) {
	input := argMap(p.Args, "input")
	res, err := r.users.Signup(p.Context, service.SignupInput{
		Username: argString(input, "username"),
		Email:    argString(input, "email"),
		Password: argString(input, "password"),
	})
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			return &AuthPayload{Message: verr.Message, Errors: verr.Errors}, nil
		case errors.Is(err, service.ErrUserAlreadyExists):
			return &AuthPayload{Message: msgUserExists}, nil
		}
		return nil, r.internal("signup", err)
	}
	return &AuthPayload{Success: true, Message: msgSignupSuccess, Token: &res.Token, User: toUser(res.User)}, nil
}

func (r *Resolver) login(p graphql.ResolveParams) (interface{}, error) {
	input := argMap(p.Args, "input")
	res, err := r.users.Login(p.Context, service.LoginInput{
		UsernameOrEmail: argString(input, "usernameOrEmail"),
		Password:        argString(input, "password"),
	})
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			return &AuthPayload{Message: verr.Message, Errors: verr.Errors}, nil
		case errors.Is(err, service.ErrInvalidCredentials):
			return &AuthPayload{Message: msgInvalidCreds}, nil
		}
		return nil, r.internal("login", err)
	}
	return &AuthPayload{Success: true, Message: msgLoginSuccess, Token: &res.Token, User: toUser(res.User)}, nil
}

func (r *Resolver) getAllEmployees(p graphql.ResolveParams) (interface{}, error) {
	list, err := r.employees.List(p.Context)
	if err != nil {
		return nil, r.internal("getAllEmployees", err)
	}
	return &EmployeesResponse{Success: true, Message: msgEmployeesFetched, Employees: toEmployees(list)}, nil
}

func (r *Resolver) searchEmployeeByEid(p graphql.ResolveParams) (interface{}, error) {
	employee, err := r.employees.Get(p.Context, argString(p.Args, "eid"))
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			return &EmployeeResponse{Message: msgEmployeeNotFound}, nil
		}
		return nil, r.internal("searchEmployeeByEid", err)
	}
	return &EmployeeResponse{Success: true, Message: msgEmployeeFetched, Employee: toEmployee(employee)}, nil
}

func (r *Resolver) searchEmployees(p graphql.ResolveParams) (interface{}, error) {
	list, err := r.employees.Search(p.Context, argString(p.Args, "designation"), argString(p.Args, "department"))
	if err != nil {
		if errors.Is(err, service.ErrSearchFilterRequired) {
			return &EmployeesResponse{Message: msgFilterRequired, Employees: []Employee{}}, nil
		}
		return nil, r.internal("searchEmployeesByDesignationOrDepartment", err)
	}
	return &EmployeesResponse{Success: true, Message: msgEmployeesFilter, Employees: toEmployees(list)}, nil
}

func (r *Resolver) addEmployee(p graphql.ResolveParams) (interface{}, error) {
	input := argMap(p.Args, "input")
	photo := uploadArg(p.Args, "photo")
	employee, err := r.employees.Add(p.Context, service.EmployeeInput{
		FirstName:     argString(input, "first_name"),
		LastName:      argString(input, "last_name"),
		Email:         argString(input, "email"),
		Gender:        argString(input, "gender"),
		Designation:   argString(input, "designation"),
		Salary:        argFloat(input, "salary"),
		DateOfJoining: argString(input, "date_of_joining"),
		Department:    argString(input, "department"),
	}, photo)
	r.observeUpload(photo != nil, err)
	if err != nil {
		if res, ok := employeeFailure(err); ok {
			return res, nil
		}
		if errors.Is(err, service.ErrEmployeeEmailExists) {
			return &EmployeeResponse{Message: msgEmployeeExists}, nil
		}
		return nil, r.internal("addEmployee", err)
	}
	return &EmployeeResponse{Success: true, Message: msgEmployeeCreated, Employee: toEmployee(employee)}, nil
}

func (r *Resolver) updateEmployee(p graphql.ResolveParams) (interface{}, error) {
	input := argMap(p.Args, "input")
	photo := uploadArg(p.Args, "photo")
	employee, err := r.employees.Update(p.Context, argString(p.Args, "eid"), service.EmployeeUpdate{
		FirstName:     argStringPtr(input, "first_name"),
		LastName:      argStringPtr(input, "last_name"),
		Email:         argStringPtr(input, "email"),
		Gender:        argStringPtr(input, "gender"),
		Designation:   argStringPtr(input, "designation"),
		Salary:        argFloatPtr(input, "salary"),
		DateOfJoining: argStringPtr(input, "date_of_joining"),
		Department:    argStringPtr(input, "department"),
	}, photo)
	r.observeUpload(photo != nil, err)
	if err != nil {
		if res, ok := employeeFailure(err); ok {
			return res, nil
		}
		switch {
		case errors.Is(err, service.ErrEmployeeNotFound):
			return &EmployeeResponse{Message: msgEmployeeNotFound}, nil
		case errors.Is(err, service.ErrEmailInUse):
			return &EmployeeResponse{Message: msgEmailInUse}, nil
		}
		return nil, r.internal("updateEmployeeByEid", err)
	}
	return &EmployeeResponse{Success: true, Message: msgEmployeeUpdated, Employee: toEmployee(employee)}, nil
}

func (r *Resolver) deleteEmployee(p graphql.ResolveParams) (interface{}, error) {
	if err := r.employees.Delete(p.Context, argString(p.Args, "eid")); err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			return &GenericResponse{Message: msgEmployeeNotFound}, nil
		}
		return nil, r.internal("deleteEmployeeByEid", err)
	}
	return &GenericResponse{Success: true, Message: msgEmployeeDeleted}, nil
}

// employeeFailure converts failures shared by add and update.
func employeeFailure(err error) (*EmployeeResponse, bool) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return &EmployeeResponse{Message: verr.Message, Errors: verr.Errors}, true
	case errors.Is(err, service.ErrPhotoUpload):
		return &EmployeeResponse{Message: msgPhotoUpload}, true
	}
	return nil, false
}

func (r *Resolver) observeUpload(attempted bool, err error) {
	if !attempted {
		return
	}
	switch {
	case err == nil:
		r.metrics.ObserveUpload(metrics.OutcomeSuccess)
	case errors.Is(err, service.ErrPhotoUpload):
		r.metrics.ObserveUpload(metrics.OutcomeFailure)
	}
}

func argMap(args map[string]interface{}, name string) map[string]interface{} {
	m, _ := args[name].(map[string]interface{})
	return m
}

func argString(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

func argStringPtr(args map[string]interface{}, name string) *string {
	s, ok := args[name].(string)
	if !ok {
		return nil
	}
	return &s
}

func argFloat(args map[string]interface{}, name string) float64 {
	if f := argFloatPtr(args, name); f != nil {
		return *f
	}
	return 0
}

func argFloatPtr(args map[string]interface{}, name string) *float64 {
	var f float64
	switch v := args[name].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	default:
		return nil
	}
	return &f
}
