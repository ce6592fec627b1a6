package graph

import (
	"context"

	"github.com/graphql-go/graphql"
)

// Request is a single GraphQL operation as sent by a client.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Response is the wire form of an execution result.
type Response struct {
	Data   interface{} `json:"data,omitempty"`
	Errors []Error     `json:"errors,omitempty"`
}

// Execute runs req against schema.
func Execute(ctx context.Context, schema graphql.Schema, req Request) *Response {
	res := graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	return &Response{Data: res.Data, Errors: FormatErrors(res.Errors)}
}
