package marketplace_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/skillmarket/internal/httpx"
	"github.com/sudo-init-do/skillmarket/internal/identity"
	"github.com/sudo-init-do/skillmarket/internal/marketplace"
	"github.com/sudo-init-do/skillmarket/internal/model"
	"github.com/sudo-init-do/skillmarket/internal/platform/logger"
	"github.com/sudo-init-do/skillmarket/internal/store/memory"
)

var userSeq int

func newServer() (*echo.Echo, *memory.Store, *identity.TokenManager) {
	st := memory.New()
	tokens := identity.NewTokenManager("test-secret", time.Hour)
	e := echo.New()
	e.Validator = httpx.NewValidator()
	e.HTTPErrorHandler = httpx.ErrorHandler(logger.Nop())

	h := marketplace.NewHandler(st, nil, nil, logger.Nop())
	api := e.Group("/api")
	api.Use(identity.Middleware(tokens, st.Users()))
	api.GET("/services", h.ListServices)
	api.GET("/services/:id", h.GetService)
	api.POST("/services", h.CreateService)
	api.PUT("/services/:id", h.UpdateService)
	api.DELETE("/services/:id", h.DeleteService)
	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:id", h.GetOrder)
	api.POST("/orders", h.CreateOrder)
	api.PUT("/orders/:id", h.UpdateOrder)
	api.DELETE("/orders/:id", h.DeleteOrder)
	api.GET("/reviews", h.ListReviews)
	api.GET("/reviews/:id", h.GetReview)
	api.POST("/reviews", h.CreateReview)
	api.PUT("/reviews/:id", h.UpdateReview)
	api.DELETE("/reviews/:id", h.DeleteReview)
	return e, st, tokens
}

func seedUser(t *testing.T, st *memory.Store, role model.Role) *model.User {
	t.Helper()
	userSeq++
	now := time.Now()
	u := &model.User{
		ID:          uuid.New(),
		Username:    fmt.Sprintf("user%d", userSeq),
		Email:       fmt.Sprintf("user%d@example.com", userSeq),
		PhoneNumber: fmt.Sprintf("+23320%07d", userSeq),
		FirstName:   "Test",
		LastName:    "User",
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func bearer(t *testing.T, tokens *identity.TokenManager, u *model.User) string {
	t.Helper()
	tok, err := tokens.Issue(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + tok
}

func do(e *echo.Echo, method, path, authz string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func seedService(t *testing.T, e *echo.Echo, authz string) model.Service {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/services", authz, map[string]any{
		"title":       "Logo design",
		"description": "Modern brand identity",
		"category":    "design",
		"price":       50,
		"currency":    "USD",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed service: %d %s", rec.Code, rec.Body.String())
	}
	return decode[model.Service](t, rec)
}

func seedOrder(t *testing.T, e *echo.Echo, authz string, provider, service uuid.UUID) model.Order {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/orders", authz, map[string]any{
		"serviceProviderId": provider,
		"serviceId":         service,
		"price":             50,
		"quantity":          1,
		"paymentMethod":     "PayPal",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed order: %d %s", rec.Code, rec.Body.String())
	}
	return decode[model.Order](t, rec)
}
