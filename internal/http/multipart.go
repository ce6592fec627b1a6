package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"employee-directory/internal/graph"
	"employee-directory/internal/storage"
)

// multipartOverhead covers the operations and map parts plus part headers.
const multipartOverhead = 1 << 20

type uploadTooLargeError struct {
	limit int64
}

func (e *uploadTooLargeError) Error() string {
	return fmt.Sprintf("file exceeds the %d byte limit", e.limit)
}

// parseMultipart decodes a request following the GraphQL multipart request
// convention: an "operations" JSON part, a "map" part naming the variable
// paths of each file, then the file parts themselves.
func (h *Handler) parseMultipart(c *gin.Context) (graph.Request, error) {
	var req graph.Request

	maxBody := h.limits.MaxFileSize*int64(h.limits.MaxFiles) + multipartOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)
	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return req, &uploadTooLargeError{limit: h.limits.MaxFileSize}
		}
		return req, fmt.Errorf("invalid multipart body: %w", err)
	}

	operations := firstValue(form.Value, "operations")
	if operations == "" {
		return req, errors.New("missing operations part")
	}
	if err := json.Unmarshal([]byte(operations), &req); err != nil {
		return req, errors.New("operations must be a single JSON operation")
	}

	var fileMap map[string][]string
	if raw := firstValue(form.Value, "map"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &fileMap); err != nil {
			return req, errors.New("map must be a JSON object")
		}
	}
	if len(fileMap) > h.limits.MaxFiles {
		return req, fmt.Errorf("at most %d file(s) per request", h.limits.MaxFiles)
	}

	if req.Variables == nil {
		req.Variables = map[string]interface{}{}
	}
	root := map[string]interface{}{"variables": req.Variables}
	for name, paths := range fileMap {
		headers := form.File[name]
		if len(headers) == 0 {
			return req, fmt.Errorf("file part %q is missing", name)
		}
		if headers[0].Size > h.limits.MaxFileSize {
			return req, &uploadTooLargeError{limit: h.limits.MaxFileSize}
		}
		file := storage.NewMultipartFile(headers[0])
		for _, path := range paths {
			if err := injectFile(root, path, file); err != nil {
				return req, err
			}
		}
	}
	return req, nil
}

// injectFile replaces the value at a dotted path such as "variables.photo"
// or "variables.files.0" with file.
func injectFile(root map[string]interface{}, path string, file *storage.File) error {
	keys := strings.Split(path, ".")
	if len(keys) < 2 || keys[0] != "variables" {
		return fmt.Errorf("invalid file path %q", path)
	}

	var parent interface{} = root
	for i, key := range keys {
		last := i == len(keys)-1
		switch node := parent.(type) {
		case map[string]interface{}:
			if last {
				node[key] = file
				return nil
			}
			next, ok := node[key]
			if !ok || next == nil {
				next = map[string]interface{}{}
				node[key] = next
			}
			parent = next
		case []interface{}:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(node) {
				return fmt.Errorf("invalid file path %q", path)
			}
			if last {
				node[idx] = file
				return nil
			}
			parent = node[idx]
		default:
			return fmt.Errorf("invalid file path %q", path)
		}
	}
	return nil
}

func firstValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
