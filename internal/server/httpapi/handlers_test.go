package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"doorman/internal/logging"
	"doorman/internal/server/auth"
	"doorman/internal/server/config"
	"doorman/internal/server/repositories/repomanager"
	"doorman/internal/server/services"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		SecretKey:             testSecret,
		TokenValidityDuration: time.Hour,
		BcryptCost:            bcrypt.MinCost,
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	us := services.NewUserService(nil, repomanager.NewInMemoryRepositoryManager(), cfg)

	return NewServer(":0", logger, us, cfg.SecretKey)
}

func doJSON(t *testing.T, s *Server, method, path, body, token string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func registerUser(t *testing.T, s *Server, name, email, password string) map[string]any {
	t.Helper()
	body := `{"name":"` + name + `","email":"` + email + `","password":"` + password + `","passwordConfirm":"` + password + `"}`
	resp, got := doJSON(t, s, http.MethodPost, "/users", body, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "register: %v", got)
	return got
}

func loginUser(t *testing.T, s *Server, email, password string) string {
	t.Helper()
	resp, got := doJSON(t, s, http.MethodPost, "/sessions", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "login: %v", got)
	token, _ := got["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegister_ReturnsPublicView(t *testing.T) {
	s := newTestServer(t)

	got := registerUser(t, s, "A", "a@x.com", "123456")

	assert.NotEmpty(t, got["id"])
	assert.Equal(t, "A", got["name"])
	assert.Equal(t, "a@x.com", got["email"])
	assert.NotContains(t, got, "passwordHash")
	assert.NotContains(t, got, "password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "A", "a@x.com", "123456")

	body := `{"name":"A","email":"a@x.com","password":"123456","passwordConfirm":"123456"}`
	resp, got := doJSON(t, s, http.MethodPost, "/users", body, "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "user already exists", got["error"])
}

func TestRegister_ValidationFails(t *testing.T) {
	s := newTestServer(t)

	bodies := []string{
		`{"email":"a@x.com","password":"123456","passwordConfirm":"123456"}`,               // no name
		`{"name":"A","password":"123456","passwordConfirm":"123456"}`,                      // no email
		`{"name":"A","email":"a@x.com","passwordConfirm":"123456"}`,                        // no password
		`{"name":"A","email":"a@x.com","password":"123456"}`,                               // no confirm
		`{"name":"A","email":"a@x.com","password":"123456","passwordConfirm":"654321"}`,    // confirm mismatch
		`{"name":"A","email":"not-an-address","password":"123456","passwordConfirm":"123456"}`,
		`not json at all`,
	}

	for _, body := range bodies {
		resp, got := doJSON(t, s, http.MethodPost, "/users", body, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", body)
		assert.Equal(t, "validation fails", got["error"], "body: %s", body)
	}
}

func TestLogin_ReturnsUserAndToken(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "A", "a@x.com", "123456")

	resp, got := doJSON(t, s, http.MethodPost, "/sessions", `{"email":"a@x.com","password":"123456"}`, "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, got["token"])

	user, ok := got["user"].(map[string]any)
	require.True(t, ok, "user object missing: %v", got)
	assert.NotEmpty(t, user["id"])
	assert.Equal(t, "A", user["name"])
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, user, "passwordHash")
}

func TestLogin_Failures(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "A", "a@x.com", "123456")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"unknown email", `{"email":"invalid@invalid.com","password":"123456"}`, http.StatusUnauthorized, "user not found"},
		{"wrong password", `{"email":"a@x.com","password":"654321"}`, http.StatusUnauthorized, "password does not match"},
		{"boolean password", `{"email":"invalid","password":true}`, http.StatusBadRequest, "validation fails"},
		{"missing email", `{"password":"123456"}`, http.StatusBadRequest, "validation fails"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, got := doJSON(t, s, http.MethodPost, "/sessions", tc.body, "")
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, tc.wantError, got["error"])
		})
	}
}

func TestUpdate_WithoutToken(t *testing.T) {
	s := newTestServer(t)

	resp, got := doJSON(t, s, http.MethodPut, "/users", `{"name":"newname"}`, "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "token not provided", got["error"])
}

func TestUpdate_GarbageToken(t *testing.T) {
	s := newTestServer(t)

	resp, got := doJSON(t, s, http.MethodPut, "/users", `{"name":"newname"}`, "garbage")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "token invalid", got["error"])
}

func TestUpdate_LowercaseScheme(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "A", "a@x.com", "123456")
	token := loginUser(t, s, "a@x.com", "123456")

	req, err := http.NewRequest(http.MethodPut, "/users", strings.NewReader(`{"name":"newname"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "bearer "+token)

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdate_ExpiredToken(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "A", "a@x.com", "123456")

	expired, err := auth.GenerateToken("some-id", []byte(testSecret), -1*time.Second)
	require.NoError(t, err)

	resp, got := doJSON(t, s, http.MethodPut, "/users", `{"name":"newname"}`, expired)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "token invalid", got["error"])
}

func TestUpdate_ChangeName(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "A", "a@x.com", "123456")
	token := loginUser(t, s, "a@x.com", "123456")

	resp, got := doJSON(t, s, http.MethodPut, "/users", `{"name":"newUserName"}`, token)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "newUserName", got["name"])
	assert.Equal(t, "a@x.com", got["email"])
}

func TestUpdate_ChangeEmail(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "A", "a@x.com", "123456")
	token := loginUser(t, s, "a@x.com", "123456")

	resp, got := doJSON(t, s, http.MethodPut, "/users", `{"email":"newemail@email.com"}`, token)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "newemail@email.com", got["email"])
}

func TestUpdate_EmailInUse(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "Other", "teste@teste.com", "123456")
	registerUser(t, s, "A", "a@x.com", "123456")
	token := loginUser(t, s, "a@x.com", "123456")

	resp, got := doJSON(t, s, http.MethodPut, "/users", `{"email":"teste@teste.com"}`, token)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "email already in use", got["error"])
}

func TestUpdate_InvalidData(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "A", "a@x.com", "123456")
	token := loginUser(t, s, "a@x.com", "123456")

	resp, got := doJSON(t, s, http.MethodPut, "/users", `{"name":1234,"email":654312,"password":"teste"}`, token)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation fails", got["error"])
}

func TestUpdate_WrongOldPassword(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "A", "a@x.com", "123456")
	token := loginUser(t, s, "a@x.com", "123456")

	body := `{"password":"new","passwordConfirm":"new","oldPassword":"wrong"}`
	resp, got := doJSON(t, s, http.MethodPut, "/users", body, token)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "password does not match", got["error"])
}

func TestUpdate_ChangePassword(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "A", "a@x.com", "123456")
	token := loginUser(t, s, "a@x.com", "123456")

	body := `{"password":"newPassword","passwordConfirm":"newPassword","oldPassword":"123456"}`
	resp, _ := doJSON(t, s, http.MethodPut, "/users", body, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// old password is gone, new one works
	resp, got := doJSON(t, s, http.MethodPost, "/sessions", `{"email":"a@x.com","password":"123456"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "password does not match", got["error"])

	loginUser(t, s, "a@x.com", "newPassword")
}
