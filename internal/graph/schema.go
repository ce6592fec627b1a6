package graph

import (
	"github.com/graphql-go/graphql"
)

var fieldErrorType = graphql.NewObject(graphql.ObjectConfig{
	Name: "FieldError",
	Fields: graphql.Fields{
		"field":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"_id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"username":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"created_at": &graphql.Field{Type: graphql.String},
		"updated_at": &graphql.Field{Type: graphql.String},
	},
})

var employeeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Employee",
	Fields: graphql.Fields{
		"_id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"eid":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"first_name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"last_name":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"gender":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"designation":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"salary":          &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"date_of_joining": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"department":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"employee_photo":  &graphql.Field{Type: graphql.String},
		"created_at":      &graphql.Field{Type: graphql.String},
		"updated_at":      &graphql.Field{Type: graphql.String},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"token":   &graphql.Field{Type: graphql.String},
		"user":    &graphql.Field{Type: userType},
		"errors":  &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(fieldErrorType))},
	},
})

var genericResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GenericResponse",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var employeeResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "EmployeeResponse",
	Fields: graphql.Fields{
		"success":  &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"message":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"employee": &graphql.Field{Type: employeeType},
		"errors":   &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(fieldErrorType))},
	},
})

var employeesResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "EmployeesResponse",
	Fields: graphql.Fields{
		"success":   &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"message":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"employees": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(employeeType)))},
	},
})

var signupInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "SignupInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"username": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var loginInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "LoginInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"usernameOrEmail": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var addEmployeeInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "AddEmployeeInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"first_name":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"last_name":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"gender":          &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"designation":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"salary":          &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		"date_of_joining": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"department":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var updateEmployeeInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateEmployeeInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"first_name":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"last_name":       &graphql.InputObjectFieldConfig{Type: graphql.String},
		"email":           &graphql.InputObjectFieldConfig{Type: graphql.String},
		"gender":          &graphql.InputObjectFieldConfig{Type: graphql.String},
		"designation":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"salary":          &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"date_of_joining": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"department":      &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

// NewSchema builds the executable schema around r. Employee operations go
// through r.protected so token enforcement is decided per operation here.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(loginInputType)},
				},
				Resolve: r.instrument("login", r.login),
			},
			"getAllEmployees": &graphql.Field{
				Type:    graphql.NewNonNull(employeesResponseType),
				Resolve: r.instrument("getAllEmployees", r.protected(r.getAllEmployees)),
			},
			"searchEmployeeByEid": &graphql.Field{
				Type: graphql.NewNonNull(employeeResponseType),
				Args: graphql.FieldConfigArgument{
					"eid": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.instrument("searchEmployeeByEid", r.protected(r.searchEmployeeByEid)),
			},
			"searchEmployeesByDesignationOrDepartment": &graphql.Field{
				Type: graphql.NewNonNull(employeesResponseType),
				Args: graphql.FieldConfigArgument{
					"designation": &graphql.ArgumentConfig{Type: graphql.String},
					"department":  &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.instrument("searchEmployeesByDesignationOrDepartment", r.protected(r.searchEmployees)),
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signup": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(signupInputType)},
				},
				Resolve: r.instrument("signup", r.signup),
			},
			"addEmployee": &graphql.Field{
				Type: graphql.NewNonNull(employeeResponseType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(addEmployeeInputType)},
					"photo": &graphql.ArgumentConfig{Type: UploadScalar},
				},
				Resolve: r.instrument("addEmployee", r.protected(r.addEmployee)),
			},
			"updateEmployeeByEid": &graphql.Field{
				Type: graphql.NewNonNull(employeeResponseType),
				Args: graphql.FieldConfigArgument{
					"eid":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateEmployeeInputType)},
					"photo": &graphql.ArgumentConfig{Type: UploadScalar},
				},
				Resolve: r.instrument("updateEmployeeByEid", r.protected(r.updateEmployee)),
			},
			"deleteEmployeeByEid": &graphql.Field{
				Type: graphql.NewNonNull(genericResponseType),
				Args: graphql.FieldConfigArgument{
					"eid": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.instrument("deleteEmployeeByEid", r.protected(r.deleteEmployee)),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
		Types:    []graphql.Type{UploadScalar},
	})
}
