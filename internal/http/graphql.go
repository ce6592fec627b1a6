package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"employee-directory/internal/graph"
)

func (h *Handler) graphqlPost(c *gin.Context) {
	var (
		req graph.Request
		err error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req, err = h.parseMultipart(c)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		h.badRequest(c, err)
		return
	}
	h.execute(c, req)
}

func (h *Handler) graphqlGet(c *gin.Context) {
	req := graph.Request{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			h.badRequest(c, errors.New("variables must be a JSON object"))
			return
		}
	}
	if isMutation(req.Query, req.OperationName) {
		h.badRequest(c, errors.New("mutations require POST"))
		return
	}
	h.execute(c, req)
}

func (h *Handler) execute(c *gin.Context, req graph.Request) {
	if strings.TrimSpace(req.Query) == "" {
		h.badRequest(c, errors.New("query is required"))
		return
	}
	c.JSON(http.StatusOK, graph.Execute(c.Request.Context(), h.schema, req))
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	status := http.StatusBadRequest
	var tooLarge *uploadTooLargeError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	h.logger.WithError(err).Debug("rejecting graphql request")
	c.JSON(status, graph.Response{Errors: []graph.Error{{Message: err.Error(), Code: graph.DefaultErrorCode}}})
}

// isMutation reports whether the operation selected from query is a mutation.
// Unparseable documents are left to the executor to report.
func isMutation(query, operationName string) bool {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return false
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		if op.Operation == ast.OperationTypeMutation {
			return true
		}
	}
	return false
}
