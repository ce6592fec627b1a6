// Package validation holds the declarative input rule sets used by the
// signup, login and employee operations.
package validation

import (
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// FieldError is a single rule failure tied to one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Rule checks one field with a validator tag. Numeric rules coerce the value
// to float64 before the tag is applied.
type Rule struct {
	Field   string
	Tag     string
	Numeric bool
	Message string
}

// RuleSet is an ordered list of rules identified by name.
type RuleSet struct {
	Name  string
	Rules []Rule
}

var (
	Signup = RuleSet{
		Name: "signup",
		Rules: []Rule{
			{Field: "username", Tag: "min=3", Message: "username must be at least 3 characters"},
			{Field: "email", Tag: "email", Message: "invalid email"},
			{Field: "password", Tag: "min=6", Message: "password must be at least 6 characters"},
		},
	}

	Login = RuleSet{
		Name: "login",
		Rules: []Rule{
			{Field: "usernameOrEmail", Tag: "required", Message: "usernameOrEmail is required"},
			{Field: "password", Tag: "required", Message: "password is required"},
		},
	}

	Employee = RuleSet{
		Name: "employee",
		Rules: []Rule{
			{Field: "first_name", Tag: "required", Message: "first_name is required"},
			{Field: "last_name", Tag: "required", Message: "last_name is required"},
			{Field: "email", Tag: "email", Message: "invalid email"},
			{Field: "gender", Tag: "oneof=Male Female Other", Message: "gender must be Male/Female/Other"},
			{Field: "designation", Tag: "required", Message: "designation is required"},
			{Field: "salary", Tag: "gte=1000", Numeric: true, Message: "salary must be >= 1000"},
			{Field: "date_of_joining", Tag: "required", Message: "date_of_joining is required (YYYY-MM-DD)"},
			{Field: "department", Tag: "required", Message: "department is required"},
		},
	}
)

var validate = validator.New()

// Validate applies every rule of set to input and returns one FieldError per
// failing rule, in declaration order. A nil result means the input is valid.
func Validate(set RuleSet, input map[string]any) []FieldError {
	var errs []FieldError
	for _, rule := range set.Rules {
		value, ok := input[rule.Field]
		if !rule.passes(value, ok) {
			errs = append(errs, FieldError{Field: rule.Field, Message: rule.Message})
		}
	}
	return errs
}

// Check validates a single value against the rule registered for field in set.
// Fields without a rule always pass.
func Check(set RuleSet, field string, value any) *FieldError {
	for _, rule := range set.Rules {
		if rule.Field != field {
			continue
		}
		if !rule.passes(value, true) {
			return &FieldError{Field: rule.Field, Message: rule.Message}
		}
	}
	return nil
}

func (r Rule) passes(value any, present bool) bool {
	value = deref(value)
	if !present || value == nil {
		return false
	}
	if r.Numeric {
		if _, isBool := value.(bool); isBool {
			return false
		}
		n, err := cast.ToFloat64E(value)
		if err != nil {
			return false
		}
		value = n
	}
	return validate.Var(value, r.Tag) == nil
}

func deref(value any) any {
	switch v := value.(type) {
	case *string:
		if v == nil {
			return nil
		}
		return *v
	case *float64:
		if v == nil {
			return nil
		}
		return *v
	case *int:
		if v == nil {
			return nil
		}
		return *v
	}
	return value
}
