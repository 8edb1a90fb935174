package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/employee-backend-go/internal/config"
	"github.com/cmlabs-hris/employee-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/employee-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

// stubEmployeeService records the last request it received and replies with
// canned results.
type stubEmployeeService struct {
	created     *employee.CreateEmployeeRequest
	createdFile []byte
	updated     *employee.UpdateEmployeeRequest
	profile     *employee.UpdateProfileRequest
	filter      *employee.EmployeeFilter
	gotID       string
	err         error
}

func (s *stubEmployeeService) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if s.err != nil {
		return employee.EmployeeResponse{}, s.err
	}
	s.created = &req
	if req.ProfilePicture != nil {
		b, err := io.ReadAll(req.ProfilePicture.Content)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		s.createdFile = b
	}
	return employee.EmployeeResponse{ID: "new-id", Name: req.Name, Email: req.Email, EmployeeID: req.EmployeeID}, nil
}

func (s *stubEmployeeService) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	s.gotID = id
	if s.err != nil {
		return employee.EmployeeResponse{}, s.err
	}
	return employee.EmployeeResponse{ID: id}, nil
}

func (s *stubEmployeeService) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	s.filter = &filter
	return employee.ListEmployeeResponse{
		Employees:  []employee.EmployeeResponse{},
		Pagination: employee.PaginationMeta{Page: 1, Limit: 10},
	}, nil
}

func (s *stubEmployeeService) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	s.updated = &req
	if s.err != nil {
		return employee.EmployeeResponse{}, s.err
	}
	return employee.EmployeeResponse{ID: req.ID}, nil
}

func (s *stubEmployeeService) DeleteEmployee(ctx context.Context, id string) (employee.DeleteEmployeeResponse, error) {
	s.gotID = id
	if s.err != nil {
		return employee.DeleteEmployeeResponse{}, s.err
	}
	return employee.DeleteEmployeeResponse{ID: id}, nil
}

func (s *stubEmployeeService) GetProfile(ctx context.Context, callerID string) (employee.EmployeeResponse, error) {
	s.gotID = callerID
	return employee.EmployeeResponse{ID: callerID}, nil
}

func (s *stubEmployeeService) UpdateProfile(ctx context.Context, req employee.UpdateProfileRequest) (employee.EmployeeResponse, error) {
	s.profile = &req
	return employee.EmployeeResponse{ID: req.ID}, nil
}

func (s *stubEmployeeService) GetProfileUploadURL(ctx context.Context, req employee.PresignUploadRequest) (employee.PresignUploadResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.PresignUploadResponse{}, err
	}
	return employee.PresignUploadResponse{UploadURL: "https://bucket.test/put", Key: "profiles/x-" + req.FileName, ExpiresIn: 300}, nil
}

// stubAuthService accepts a single admin login and revokes through the real
// JWT service.
type stubAuthService struct {
	jwtService  jwt.Service
	passwordFor string
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if req.Email != "admin@gmail.com" || req.Password != "123456" {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	token, exp, err := s.jwtService.GenerateAccessToken("admin-id", req.Email, "Admin")
	if err != nil {
		return auth.LoginResponse{}, err
	}
	return auth.LoginResponse{Token: token, ExpiresAt: exp, User: auth.LoginUser{ID: "admin-id", Email: req.Email, Role: "Admin"}}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	return s.jwtService.RevokeToken(ctx, token, expiresAt)
}

func (s *stubAuthService) UpdatePassword(ctx context.Context, req auth.UpdatePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.OldPassword != "123456" {
		return auth.ErrIncorrectPassword
	}
	s.passwordFor = req.UserID
	return nil
}

type testServer struct {
	handler    http.Handler
	jwtService jwt.Service
	employees  *stubEmployeeService
	auth       *stubAuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		App:     config.AppConfig{Name: "employee-backend", Version: "test", Env: "test", AllowedOrigins: []string{"http://localhost:3000"}},
		Storage: config.StorageConfig{Type: "s3"},
	}
	jwtService := jwt.NewJWTService(handlerTestSecret, "1h", nil)
	employees := &stubEmployeeService{}
	authSvc := &stubAuthService{jwtService: jwtService}

	router := NewRouter(cfg, jwtService,
		NewAuthHandler(authSvc),
		NewEmployeeHandler(employees),
		NewProfileHandler(employees),
	)
	return &testServer{handler: router, jwtService: jwtService, employees: employees, auth: authSvc}
}

func (s *testServer) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, _, err := s.jwtService.GenerateAccessToken(userID, userID+"@example.com", role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestAuthHandler_Login(t *testing.T) {
	srv := newTestServer(t)

	rec, resp := srv.do(t, http.MethodPost, "/api/v1/auth/login", "",
		jsonBody(t, map[string]string{"email": "admin@gmail.com", "password": "123456"}), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	rec, resp = srv.do(t, http.MethodPost, "/api/v1/auth/login", "",
		jsonBody(t, map[string]string{"email": "admin@gmail.com", "password": "wrong"}), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	rec, resp = srv.do(t, http.MethodPost, "/api/v1/auth/login", "", bytes.NewBufferString("{"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request format", resp.Error.Message)

	rec, resp = srv.do(t, http.MethodPost, "/api/v1/auth/login", "", jsonBody(t, map[string]string{}), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "email")
}

func TestAuthHandler_LogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, "u1", "Employee")

	rec, _ := srv.do(t, http.MethodGet, "/api/v1/profile", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := srv.do(t, http.MethodGet, "/api/v1/profile", token, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, "u1", "Employee")

	rec, resp := srv.do(t, http.MethodPut, "/api/v1/auth/password", token,
		jsonBody(t, map[string]string{"oldPassword": "nope", "newPassword": "new-secret"}), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Old password is incorrect", resp.Error.Message)

	rec, _ = srv.do(t, http.MethodPut, "/api/v1/auth/password", token,
		jsonBody(t, map[string]string{"oldPassword": "123456", "newPassword": "new-secret"}), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", srv.auth.passwordFor)
}

func TestRouter_Authorization(t *testing.T) {
	srv := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		rec, _ := srv.do(t, http.MethodGet, "/api/v1/employees", "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec, _ := srv.do(t, http.MethodGet, "/api/v1/employees", "not-a-jwt", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("employee role on admin route", func(t *testing.T) {
		rec, resp := srv.do(t, http.MethodGet, "/api/v1/employees", srv.token(t, "u1", "Employee"), nil, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	})

	t.Run("employee role on profile", func(t *testing.T) {
		rec, resp := srv.do(t, http.MethodGet, "/api/v1/profile", srv.token(t, "u1", "Employee"), nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", resp.Data.(map[string]interface{})["id"])
	})
}

func TestEmployeeHandler_ListParsesQuery(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, "admin-id", "Admin")

	rec, _ := srv.do(t, http.MethodGet,
		"/api/v1/employees?page=2&limit=abc&search=ann&department=Engineering&designation=Manager&sortBy=name&sortOrder=desc",
		token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, srv.employees.filter)
	assert.Equal(t, employee.EmployeeFilter{
		Page:        2,
		Limit:       0,
		Search:      "ann",
		Department:  "Engineering",
		Designation: "Manager",
		SortBy:      "name",
		SortOrder:   "desc",
		ExcludeID:   "admin-id",
	}, *srv.employees.filter)
}

func TestEmployeeHandler_CreateJSON(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, "admin-id", "Admin")

	rec, resp := srv.do(t, http.MethodPost, "/api/v1/employees", token, jsonBody(t, map[string]string{
		"name": "Ann", "email": "ann@example.com", "employeeId": "EMP-1",
	}), "application/json")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Employee created successfully", resp.Message)
	require.NotNil(t, srv.employees.created)
	assert.Equal(t, "Ann", srv.employees.created.Name)
	assert.Nil(t, srv.employees.created.ProfilePicture)
}

func TestEmployeeHandler_CreateMultipart(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, "admin-id", "Admin")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("data", `{"name":"Ann","email":"ann@example.com","employeeId":"EMP-1"}`))
	part, err := mw.CreateFormFile("profilePicture", "ann.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\nimage-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec, _ := srv.do(t, http.MethodPost, "/api/v1/employees", token, &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, rec.Code)

	created := srv.employees.created
	require.NotNil(t, created)
	assert.Equal(t, "ann@example.com", created.Email)
	require.NotNil(t, created.ProfilePicture)
	assert.Equal(t, "ann.png", created.ProfilePicture.FileName)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\nimage-bytes"), srv.employees.createdFile)
}

func TestEmployeeHandler_MultipartTooLarge(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, "admin-id", "Admin")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("profilePicture", "huge.png")
	require.NoError(t, err)
	_, err = part.Write(make([]byte, maxMultipartBody+1))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec, resp := srv.do(t, http.MethodPost, "/api/v1/employees", token, &buf, mw.FormDataContentType())
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", resp.Error.Code)
	assert.Nil(t, srv.employees.created)
}

func TestJSONBodyTooLarge(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.token(t, "admin-id", "Admin")
	oversized := func() io.Reader {
		return jsonBody(t, map[string]string{"name": strings.Repeat("a", maxJSONBody)})
	}

	tests := []struct {
		name  string
		path  string
		token string
	}{
		{"login", "/api/v1/auth/login", ""},
		{"create employee", "/api/v1/employees", admin},
		{"employee upload url", "/api/v1/employees/upload-url", admin},
		{"profile upload url", "/api/v1/profile/upload-url", admin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := srv.do(t, http.MethodPost, tt.path, tt.token, oversized(), "application/json")
			assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "PAYLOAD_TOO_LARGE", resp.Error.Code)
		})
	}
	assert.Nil(t, srv.employees.created)
}

func TestEmployeeHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"not found", employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", &employee.ConflictError{Fields: []string{employee.FieldEmail, employee.FieldEmployeeID}}, http.StatusConflict, "CONFLICT"},
		{"invalid image", file.ErrInvalidImage, http.StatusBadRequest, "BAD_REQUEST"},
		{"unexpected", io.ErrUnexpectedEOF, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			srv.employees.err = tt.err
			token := srv.token(t, "admin-id", "Admin")

			rec, resp := srv.do(t, http.MethodPut, "/api/v1/employees/e1", token,
				jsonBody(t, map[string]string{"name": "Ann"}), "application/json")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
			assert.Equal(t, "e1", srv.employees.updated.ID)
		})
	}
}

func TestEmployeeHandler_ConflictDetails(t *testing.T) {
	srv := newTestServer(t)
	srv.employees.err = &employee.ConflictError{Fields: []string{employee.FieldEmail}}
	token := srv.token(t, "admin-id", "Admin")

	rec, resp := srv.do(t, http.MethodPost, "/api/v1/employees", token,
		jsonBody(t, map[string]string{"name": "Ann"}), "application/json")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, resp.Error.Details, employee.FieldEmail)
}

func TestEmployeeHandler_GetAndDelete(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, "admin-id", "Admin")

	rec, resp := srv.do(t, http.MethodGet, "/api/v1/employees/e42", token, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "e42", resp.Data.(map[string]interface{})["id"])

	rec, resp = srv.do(t, http.MethodDelete, "/api/v1/employees/e42", token, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Employee deleted successfully", resp.Message)
	assert.Equal(t, "e42", srv.employees.gotID)
}

func TestProfileHandler_UpdateUsesCaller(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, "u7", "Employee")

	rec, _ := srv.do(t, http.MethodPut, "/api/v1/profile", token,
		jsonBody(t, map[string]string{"phoneNumber": "+62 812 3456 7890"}), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, srv.employees.profile)
	assert.Equal(t, "u7", srv.employees.profile.ID)
	require.NotNil(t, srv.employees.profile.PhoneNumber)
	assert.Equal(t, "+62 812 3456 7890", *srv.employees.profile.PhoneNumber)
}

func TestProfileHandler_UploadURL(t *testing.T) {
	srv := newTestServer(t)
	token := srv.token(t, "u7", "Employee")

	rec, resp := srv.do(t, http.MethodPost, "/api/v1/profile/upload-url", token,
		jsonBody(t, map[string]string{"fileName": "me.png", "fileType": "image/png"}), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "profiles/x-me.png", resp.Data.(map[string]interface{})["key"])

	rec, resp = srv.do(t, http.MethodPost, "/api/v1/profile/upload-url", token,
		jsonBody(t, map[string]string{}), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", resp.Error.Message)
}
