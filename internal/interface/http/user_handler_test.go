package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-registration/internal/application"
	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/memory"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/rabbitmq"
	handlers "github.com/oksasatya/go-user-registration/internal/interface/http"
	"github.com/oksasatya/go-user-registration/internal/interface/middleware"
	"github.com/oksasatya/go-user-registration/internal/metrics"
)

const selmaJSON = `{
	"personalInfo": {
		"firstName": "Selma",
		"lastName": "Nangolo",
		"email": "selma.nangolo@example.com",
		"phone": "+264811234567",
		"dateOfBirth": "1990-05-15",
		"nationality": "Namibian"
	},
	"residentialAddress": {
		"street": "123 Independence Avenue",
		"city": "Windhoek",
		"state": "Khomas",
		"postalCode": "10001",
		"country": "Namibia"
	},
	"postalAddress": {
		"street": "PO Box 12345",
		"city": "Windhoek",
		"state": "Khomas",
		"postalCode": "10002",
		"country": "Namibia"
	}
}`

type envelope struct {
	Status    int               `json:"status"`
	RequestID string            `json:"request_id"`
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Data      json.RawMessage   `json:"data"`
	Meta      map[string]any    `json:"meta"`
	Error     string            `json:"error"`
	Details   map[string]string `json:"details"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newUserRouter(t *testing.T, svc handlers.UserService, logger *logrus.Logger) *gin.Engine {
	t.Helper()
	h := handlers.NewUserHandler(svc, logger)
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.POST("/api/register", h.Register)
	r.GET("/api/users", h.List)
	r.GET("/api/users/:id", h.Get)
	r.PUT("/api/users/:id", h.Update)
	r.DELETE("/api/users/:id", h.Delete)
	return r
}

func newMemoryRouter(t *testing.T) *gin.Engine {
	t.Helper()
	logger, _ := test.NewNullLogger()
	svc := application.NewService(memory.NewUserRepository(), rabbitmq.NopPublisher{}, metrics.New(prometheus.NewRegistry()), logger)
	return newUserRouter(t, svc, logger)
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func decodeUser(t *testing.T, raw json.RawMessage) application.UserResponse {
	t.Helper()
	var u application.UserResponse
	require.NoError(t, json.Unmarshal(raw, &u))
	return u
}

func TestUserHandler_RegisterThenConflict(t *testing.T) {
	r := newMemoryRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/register", selmaJSON)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusCreated, env.Status)
	assert.Equal(t, "User registered successfully", env.Message)
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), env.RequestID)

	u := decodeUser(t, env.Data)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "selma.nangolo@example.com", u.PersonalInfo.Email)
	assert.Equal(t, "1990-05-15", u.PersonalInfo.DateOfBirth)
	assert.Equal(t, "PO Box 12345", u.PostalAddress.Street)
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)

	w, env = do(t, r, http.MethodPost, "/api/register", selmaJSON)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Email already exists", env.Error)
	assert.Empty(t, env.Data)
}

func TestUserHandler_RegisterRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
		field  string
	}{
		{
			name:   "malformed json",
			body:   `{"personalInfo": {`,
			errMsg: "Invalid JSON payload",
			field:  "payload",
		},
		{
			name:   "wrong type",
			body:   `{"personalInfo": {"firstName": 7}}`,
			errMsg: "Invalid JSON payload",
			field:  "personalInfo.firstName",
		},
		{
			name:   "invalid email",
			body:   strings.Replace(selmaJSON, "selma.nangolo@example.com", "not-an-email", 1),
			errMsg: "Please provide a valid email address",
			field:  "personalInfo.email",
		},
		{
			name:   "short phone",
			body:   strings.Replace(selmaJSON, "+264811234567", "12345", 1),
			errMsg: "Phone number must be at least 10 characters long",
			field:  "personalInfo.phone",
		},
		{
			name:   "short street",
			body:   strings.Replace(selmaJSON, "123 Independence Avenue", "Main", 1),
			errMsg: "Street address must be at least 5 characters long",
			field:  "residentialAddress.street",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newMemoryRouter(t)

			w, env := do(t, r, http.MethodPost, "/api/register", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.errMsg, env.Error)
			assert.Contains(t, env.Details, tt.field)

			w, env = do(t, r, http.MethodGet, "/api/users", "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `[]`, string(env.Data))
		})
	}
}

func TestUserHandler_ListEmptyAndNewestFirst(t *testing.T) {
	r := newMemoryRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Users retrieved successfully", env.Message)
	assert.JSONEq(t, `[]`, string(env.Data))
	assert.EqualValues(t, 0, env.Meta["count"])

	do(t, r, http.MethodPost, "/api/register", selmaJSON)
	second := strings.NewReplacer("selma.nangolo@example.com", "ndapewa@example.com", "+264811234567", "+264817654321").Replace(selmaJSON)
	w, _ = do(t, r, http.MethodPost, "/api/register", second)
	require.Equal(t, http.StatusCreated, w.Code)

	_, env = do(t, r, http.MethodGet, "/api/users", "")
	var users []application.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 2)
	assert.Equal(t, int64(2), users[0].ID)
	assert.Equal(t, int64(1), users[1].ID)
	assert.EqualValues(t, 2, env.Meta["count"])
}

func TestUserHandler_GetByID(t *testing.T) {
	r := newMemoryRouter(t)
	do(t, r, http.MethodPost, "/api/register", selmaJSON)

	w, env := do(t, r, http.MethodGet, "/api/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User retrieved successfully", env.Message)
	assert.Equal(t, "Selma", decodeUser(t, env.Data).PersonalInfo.FirstName)

	for _, path := range []string{"/api/users/99", "/api/users/abc", "/api/users/0", "/api/users/-4"} {
		w, env = do(t, r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "User not found", env.Error, path)
	}
}

func TestUserHandler_UpdateResidentialOnly(t *testing.T) {
	r := newMemoryRouter(t)
	_, env := do(t, r, http.MethodPost, "/api/register", selmaJSON)
	before := decodeUser(t, env.Data)

	body := `{"residentialAddress": {"street": "45 Sam Nujoma Drive", "city": "Swakopmund", "state": "Erongo", "postalCode": "13001", "country": "Namibia"}}`
	w, env := do(t, r, http.MethodPut, "/api/users/1", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User updated successfully", env.Message)

	after := decodeUser(t, env.Data)
	assert.Equal(t, "45 Sam Nujoma Drive", after.ResidentialAddress.Street)
	assert.Equal(t, before.PersonalInfo, after.PersonalInfo)
	assert.Equal(t, before.PostalAddress, after.PostalAddress)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestUserHandler_UpdateFailures(t *testing.T) {
	r := newMemoryRouter(t)
	do(t, r, http.MethodPost, "/api/register", selmaJSON)
	second := strings.NewReplacer("selma.nangolo@example.com", "ndapewa@example.com", "+264811234567", "+264817654321").Replace(selmaJSON)
	do(t, r, http.MethodPost, "/api/register", second)

	w, env := do(t, r, http.MethodPut, "/api/users/1", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "At least one of personalInfo, residentialAddress or postalAddress must be provided", env.Error)

	w, env = do(t, r, http.MethodPut, "/api/users/1", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON payload", env.Error)

	w, env = do(t, r, http.MethodPut, "/api/users/42", `{"postalAddress": {"street": "PO Box 1", "city": "Windhoek", "state": "Khomas", "postalCode": "10002", "country": "Namibia"}}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", env.Error)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(second), &payload))
	steal, err := json.Marshal(map[string]any{"personalInfo": payload["personalInfo"]})
	require.NoError(t, err)
	w, env = do(t, r, http.MethodPut, "/api/users/1", string(steal))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already exists", env.Error)
}

func TestUserHandler_Delete(t *testing.T) {
	r := newMemoryRouter(t)
	do(t, r, http.MethodPost, "/api/register", selmaJSON)

	w, env := do(t, r, http.MethodDelete, "/api/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deleted successfully", env.Message)
	assert.Equal(t, int64(1), decodeUser(t, env.Data).ID)

	w, env = do(t, r, http.MethodGet, "/api/users/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", env.Error)

	w, _ = do(t, r, http.MethodDelete, "/api/users/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type failingService struct {
	handlers.UserService
	err error
}

func (f failingService) ListUsers(context.Context) ([]*entity.User, error) { return nil, f.err }

func TestUserHandler_InternalErrorIsOpaque(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := newUserRouter(t, failingService{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")}, logger)

	w, env := do(t, r, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", env.Error)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "list users", entry.Data["op"])
	assert.Equal(t, env.RequestID, entry.Data["request_id"])
}
