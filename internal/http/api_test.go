package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"employee-directory/internal/auth"
	"employee-directory/internal/graph"
	"employee-directory/internal/metrics"
	"employee-directory/internal/repository/sqlite"
	"employee-directory/internal/service"
	"employee-directory/internal/storage"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, body io.Reader, opts storage.UploadOptions) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	args := m.Called(ctx, opts)
	return args.String(0), args.Error(1)
}

type server struct {
	router *gin.Engine
	media  *MockMediaStore
	tokens *auth.TokenManager
}

func newServer(t *testing.T, limits UploadLimits) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	users := sqlite.NewUserRepository(db)
	employees := sqlite.NewEmployeeRepository(db)
	require.NoError(t, users.Init(ctx))
	require.NoError(t, employees.Init(ctx))

	logger, _ := test.NewNullLogger()
	tokens := auth.NewTokenManager("http-secret", auth.DefaultTTL)
	media := new(MockMediaStore)
	m := metrics.New()

	resolver := graph.NewResolver(
		service.NewUserService(users, tokens, logger),
		service.NewEmployeeService(employees, media, "", logger),
		logger,
		graph.Options{EnforceAuth: true, Metrics: m},
	)
	schema, err := graph.NewSchema(resolver)
	require.NoError(t, err)

	router := gin.New()
	NewHandler(schema, tokens, m, limits, logger).RegisterRoutes(router)
	return &server{router: router, media: media, tokens: tokens}
}

func (s *server) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *server) postJSON(t *testing.T, body graph.Request, token string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

// signupToken registers a user over HTTP and returns the issued token.
func (s *server) signupToken(t *testing.T) string {
	t.Helper()
	rec := s.postJSON(t, graph.Request{
		Query: `mutation { signup(input: {username: "alice", email: "a@x.com", password: "secret1"}) { success token } }`,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Signup struct {
				Success bool
				Token   string
			}
		}
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Data.Signup.Success)
	return resp.Data.Signup.Token
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []graph.Error              `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) gqlResponse {
	t.Helper()
	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

const addEmployeeOperations = `{"query":"mutation($input: AddEmployeeInput!, $photo: Upload) { addEmployee(input: $input, photo: $photo) { success message employee { employee_photo } } }","variables":{"input":{"first_name":"Bob","last_name":"Lee","email":"bob@x.com","gender":"Male","designation":"Engineer","salary":5000,"date_of_joining":"2023-01-10","department":"R&D"},"photo":null}}`

func multipartRequest(t *testing.T, operations, fileMap string, files map[string][]byte, token string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("operations", operations))
	require.NoError(t, w.WriteField("map", fileMap))
	for name, content := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+name+`"; filename="bob.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/graphql", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestHealth(t *testing.T) {
	s := newServer(t, UploadLimits{})
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":"ok"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newServer(t, UploadLimits{})
	rec := s.serve(httptest.NewRequest(http.MethodOptions, "/graphql", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGraphQLRequiresToken(t *testing.T) {
	s := newServer(t, UploadLimits{})

	rec := s.postJSON(t, graph.Request{Query: `{ getAllEmployees { success } }`}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "UNAUTHORIZED", resp.Errors[0].Code)
	assert.Equal(t, "Unauthorized: missing/invalid token", resp.Errors[0].Message)

	rec = s.postJSON(t, graph.Request{Query: `{ getAllEmployees { success } }`}, "not-a-token")
	assert.Equal(t, "UNAUTHORIZED", decode(t, rec).Errors[0].Code)
}

func TestGraphQLWithToken(t *testing.T) {
	s := newServer(t, UploadLimits{})
	token := s.signupToken(t)

	rec := s.postJSON(t, graph.Request{Query: `{ getAllEmployees { success message employees { eid } } }`}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"data":{"getAllEmployees":{"success":true,"message":"Employees fetched","employees":[]}}}`,
		rec.Body.String())
}

func TestGraphQLGet(t *testing.T) {
	s := newServer(t, UploadLimits{})
	token := s.signupToken(t)

	req := httptest.NewRequest(http.MethodGet, "/graphql?query="+
		"%7B%20getAllEmployees%20%7B%20message%20%7D%20%7D", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := s.serve(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Employees fetched")

	req = httptest.NewRequest(http.MethodGet, "/graphql?query=mutation%20%7B%20deleteEmployeeByEid(eid:%221%22)%20%7B%20success%20%7D%20%7D", nil)
	rec = s.serve(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func getGraphQL(query, operationName string) *http.Request {
	params := url.Values{"query": {query}}
	if operationName != "" {
		params.Set("operationName", operationName)
	}
	return httptest.NewRequest(http.MethodGet, "/graphql?"+params.Encode(), nil)
}

func TestGraphQLGetRejectsMutations(t *testing.T) {
	s := newServer(t, UploadLimits{})
	signup := `signup(input: {username: "alice", email: "a@x.com", password: "secret1"}) { success message }`

	rec := s.serve(getGraphQL("# leading comment\nmutation { "+signup+" }", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.serve(getGraphQL("query Q { __typename } mutation M { "+signup+" }", "M"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.serve(getGraphQL("query Q { __typename } mutation M { "+signup+" }", "Q"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"__typename":"Query"}}`, rec.Body.String())

	// none of the rejected requests created the account
	s.signupToken(t)
}

func TestIsMutation(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		operationName string
		want          bool
	}{
		{"shorthand query", "{ getAllEmployees { success } }", "", false},
		{"plain mutation", "mutation { deleteEmployeeByEid(eid: \"1\") { success } }", "", true},
		{"comment prefix", "# hi\nmutation { deleteEmployeeByEid(eid: \"1\") { success } }", "", true},
		{"selected query", "query A { __typename } mutation B { __typename }", "A", false},
		{"selected mutation", "query A { __typename } mutation B { __typename }", "B", true},
		{"unparseable", "mutation {", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isMutation(tt.query, tt.operationName))
		})
	}
}

func TestGraphQLMalformedBody(t *testing.T) {
	s := newServer(t, UploadLimits{})

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := s.serve(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, graph.DefaultErrorCode, decode(t, rec).Errors[0].Code)

	rec = s.postJSON(t, graph.Request{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMultipartUpload(t *testing.T) {
	s := newServer(t, UploadLimits{})
	token := s.signupToken(t)
	s.media.On("Upload", mock.Anything, mock.MatchedBy(func(opts storage.UploadOptions) bool {
		return opts.Folder == service.DefaultPhotoFolder && opts.Filename == "bob.png"
	})).Return("https://cdn.example.com/bob.png", nil).Once()

	req := multipartRequest(t, addEmployeeOperations, `{"0":["variables.photo"]}`, map[string][]byte{"0": pngHeader}, token)
	rec := s.serve(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"data":{"addEmployee":{"success":true,"message":"Employee created","employee":{"employee_photo":"https://cdn.example.com/bob.png"}}}}`,
		rec.Body.String())
	s.media.AssertExpectations(t)
}

func TestMultipartTooManyFiles(t *testing.T) {
	s := newServer(t, UploadLimits{})
	token := s.signupToken(t)

	req := multipartRequest(t, addEmployeeOperations, `{"0":["variables.photo"],"1":["variables.other"]}`,
		map[string][]byte{"0": pngHeader, "1": pngHeader}, token)
	rec := s.serve(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	s.media.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestMultipartFileTooLarge(t *testing.T) {
	s := newServer(t, UploadLimits{MaxFileSize: 8, MaxFiles: 1})
	token := s.signupToken(t)

	req := multipartRequest(t, addEmployeeOperations, `{"0":["variables.photo"]}`, map[string][]byte{"0": pngHeader}, token)
	rec := s.serve(req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	s.media.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestMultipartMissingOperations(t *testing.T) {
	s := newServer(t, UploadLimits{})

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("map", `{}`))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/graphql", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := s.serve(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInjectFile(t *testing.T) {
	file := storage.NewBytesFile("a.png", "image/png", pngHeader)

	root := map[string]interface{}{"variables": map[string]interface{}{
		"photo": nil,
		"files": []interface{}{nil, nil},
	}}
	require.NoError(t, injectFile(root, "variables.photo", file))
	require.NoError(t, injectFile(root, "variables.files.1", file))
	require.NoError(t, injectFile(root, "variables.input.avatar", file))

	vars := root["variables"].(map[string]interface{})
	assert.Same(t, file, vars["photo"])
	assert.Same(t, file, vars["files"].([]interface{})[1])
	assert.Same(t, file, vars["input"].(map[string]interface{})["avatar"])

	assert.Error(t, injectFile(root, "photo", file))
	assert.Error(t, injectFile(root, "variables.files.5", file))
	assert.Error(t, injectFile(root, "variables.files.x", file))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t, UploadLimits{})
	s.postJSON(t, graph.Request{Query: `{ getAllEmployees { success } }`}, "")

	rec := s.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `empdir_graphql_operations_total{operation="getAllEmployees",outcome="error"} 1`)
}
