package graph

import (
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"employee-directory/internal/storage"
)

// UploadScalar accepts a file injected into the variables by the multipart
// transport. It cannot be written inline in a query or returned.
var UploadScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Upload",
	Description: "A file part of a multipart GraphQL request.",
	Serialize: func(value interface{}) interface{} {
		return nil
	},
	ParseValue: func(value interface{}) interface{} {
		if file, ok := value.(*storage.File); ok {
			return file
		}
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) interface{} {
		return nil
	},
})

func uploadArg(args map[string]interface{}, name string) *storage.File {
	file, _ := args[name].(*storage.File)
	return file
}
