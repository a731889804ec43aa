// File: internal/handlers/auth_handlers_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/athenaai/go-tutor/internal/domain"
	"github.com/athenaai/go-tutor/internal/middleware"
	userrepo "github.com/athenaai/go-tutor/internal/repository/user"
	"github.com/athenaai/go-tutor/internal/services"
	"github.com/athenaai/go-tutor/internal/services/user_services"
)

func newAuthRouter(t *testing.T) *mux.Router {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	users := userrepo.NewGormUserRepository(db)
	auth := user_services.NewAuthService(users, "test-secret", &services.NoOpLogger{})
	h := NewAuthHandler(auth, users)

	r := mux.NewRouter()
	r.HandleFunc("/api/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", h.Logout).Methods(http.MethodPost)
	r.Handle("/api/auth/me", middleware.RequireAuth(auth)(http.HandlerFunc(h.Me))).Methods(http.MethodGet)
	return r
}

func TestAuthRegisterLoginMe(t *testing.T) {
	r := newAuthRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"student1","email":"s1@example.com","password":"strongpass"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.Equal(t, "student1", registered.Username)
	assert.NotContains(t, rec.Body.String(), "strongpass")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"student1","password":"strongpass"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var authCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "auth_token" {
			authCookie = c
		}
	}
	require.NotNil(t, authCookie, "login must set the auth cookie")
	assert.True(t, authCookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(authCookie)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, registered.ID, me.ID)
	assert.Equal(t, "s1@example.com", me.Email)
}

func TestAuthLoginRejectsBadPassword(t *testing.T) {
	r := newAuthRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"student1","email":"s1@example.com","password":"strongpass"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"student1","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMeRequiresToken(t *testing.T) {
	r := newAuthRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "garbage"})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthLogoutClearsCookie(t *testing.T) {
	r := newAuthRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "auth_token" && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared)
}
