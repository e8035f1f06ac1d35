package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-go/internal/crypto"
	"github.com/skillswap/skillswap-go/internal/middleware"
	"github.com/skillswap/skillswap-go/internal/model"
	"github.com/skillswap/skillswap-go/internal/repository"
	"github.com/skillswap/skillswap-go/internal/repository/sqlitetest"
	"github.com/skillswap/skillswap-go/internal/service"
)

// newAuthTestRouter wires register/login plus a token-protected /me the
// way main does, so the full credential path is covered end to end.
func newAuthTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	db := sqlitetest.New(t)
	users := repository.NewUserRepository(db)
	tokens := crypto.NewTokenService("test-secret", "skillswap", time.Hour)
	h := NewAuthHandler(service.NewAuthService(users, tokens))

	r := chi.NewRouter()
	r.Post("/api/v1/auth/register", h.HandleRegister)
	r.Post("/api/v1/auth/login", h.HandleLogin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens, users))
		r.Get("/api/v1/auth/me", h.HandleMe)
	})

	return r
}

func postJSON(t *testing.T, router *chi.Mux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_RegisterLoginMe(t *testing.T) {
	router := newAuthTestRouter(t)

	rec := postJSON(t, router, "/api/v1/auth/register", model.CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		FullName: "Alice Liddell",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = postJSON(t, router, "/api/v1/auth/login", model.LoginRequest{
		Username: "alice",
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var auth model.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &auth))
	require.NotEmpty(t, auth.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	me := httptest.NewRecorder()
	router.ServeHTTP(me, req)

	require.Equal(t, http.StatusOK, me.Code, me.Body.String())
	var profile model.UserResponse
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &profile))
	assert.Equal(t, "alice", profile.Username)
}

func TestAuthHandler_Me_RequiresToken(t *testing.T) {
	router := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Register_Conflicts(t *testing.T) {
	router := newAuthTestRouter(t)

	body := model.CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		FullName: "Alice Liddell",
	}
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/v1/auth/register", body).Code)

	rec := postJSON(t, router, "/api/v1/auth/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	router := newAuthTestRouter(t)

	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/v1/auth/register", model.CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		FullName: "Alice Liddell",
	}).Code)

	rec := postJSON(t, router, "/api/v1/auth/login", model.LoginRequest{
		Username: "alice",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
