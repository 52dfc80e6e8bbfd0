package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/skillmarket/internal/auth"
	"github.com/sudo-init-do/skillmarket/internal/httpx"
	"github.com/sudo-init-do/skillmarket/internal/identity"
	"github.com/sudo-init-do/skillmarket/internal/platform/logger"
	"github.com/sudo-init-do/skillmarket/internal/store/memory"
)

func newServer() (*echo.Echo, *memory.Store) {
	st := memory.New()
	tokens := identity.NewTokenManager("test-secret", time.Hour)
	e := echo.New()
	e.Validator = httpx.NewValidator()
	e.HTTPErrorHandler = httpx.ErrorHandler(logger.Nop())
	h := auth.NewHandler(st.Users(), tokens, logger.Nop())
	e.POST("/api/signup", h.Signup)
	e.POST("/api/login", h.Login)
	return e, st
}

func post(e *echo.Echo, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signupBody(username, email, phone string) map[string]any {
	return map[string]any{
		"username":    username,
		"email":       email,
		"password":    "secret123",
		"phoneNumber": phone,
		"firstName":   "Kofi",
		"lastName":    "Mensah",
	}
}

func TestSignupCreatesUser(t *testing.T) {
	e, _ := newServer()
	rec := post(e, "/api/signup", signupBody("kofi", "Kofi@Example.com", "+233200000001"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret123") ||
		strings.Contains(rec.Body.String(), "passwordHash") {
		t.Fatalf("credential material leaked: %s", rec.Body.String())
	}
	var got struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Email != "kofi@example.com" {
		t.Fatalf("email should be lowercased, got %q", got.Email)
	}
}

func TestSignupDuplicateIsConflict(t *testing.T) {
	e, st := newServer()
	if rec := post(e, "/api/signup", signupBody("kofi", "kofi@example.com", "+233200000001")); rec.Code != http.StatusCreated {
		t.Fatalf("first signup: %d", rec.Code)
	}

	for _, body := range []map[string]any{
		signupBody("kofi", "fresh@example.com", "+233200000009"),
		signupBody("fresh", "kofi@example.com", "+233200000008"),
	} {
		if rec := post(e, "/api/signup", body); rec.Code != http.StatusConflict {
			t.Fatalf("duplicate signup: status = %d, body = %s", rec.Code, rec.Body.String())
		}
	}

	users, err := st.Users().List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("conflict must not create a record, have %d", len(users))
	}
}

func TestSignupValidation(t *testing.T) {
	e, _ := newServer()
	bad := signupBody("ab", "not-an-email", "+233200000001")
	if rec := post(e, "/api/signup", bad); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	e, _ := newServer()
	if rec := post(e, "/api/signup", signupBody("ama", "ama@example.com", "+233200000002")); rec.Code != http.StatusCreated {
		t.Fatalf("signup: %d", rec.Code)
	}

	rec := post(e, "/api/login", map[string]any{"email": "ama@example.com", "password": "secret123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d, body = %s", rec.Code, rec.Body.String())
	}
	var got auth.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Token == "" || got.Email != "ama@example.com" {
		t.Fatalf("response = %+v", got)
	}

	rec = post(e, "/api/login", map[string]any{"email": "ama@example.com", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: %d", rec.Code)
	}
	rec = post(e, "/api/login", map[string]any{"email": "ghost@example.com", "password": "secret123"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email: %d", rec.Code)
	}
}
