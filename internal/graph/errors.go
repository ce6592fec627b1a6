package graph

import (
	"errors"

	"github.com/graphql-go/graphql/gqlerrors"
)

// DefaultErrorCode is reported for errors that carry no code of their own.
const DefaultErrorCode = "GRAPHQL_ERROR"

// Error is the client-facing form of an execution error.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type coder interface {
	ErrorCode() string
}

// FormatErrors reduces executor errors to message and code.
func FormatErrors(errs []gqlerrors.FormattedError) []Error {
	if len(errs) == 0 {
		return nil
	}
	out := make([]Error, 0, len(errs))
	for _, fe := range errs {
		out = append(out, Error{Message: fe.Message, Code: errorCode(fe.OriginalError())})
	}
	return out
}

func errorCode(err error) string {
	for err != nil {
		var c coder
		if errors.As(err, &c) {
			return c.ErrorCode()
		}
		var gqlErr *gqlerrors.Error
		if !errors.As(err, &gqlErr) || gqlErr.OriginalError == nil || gqlErr.OriginalError == err {
			break
		}
		err = gqlErr.OriginalError
	}
	return DefaultErrorCode
}
