package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/model"
)

// UserResolver is the narrow lookup the middleware needs; the user store
// satisfies it.
type UserResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Middleware resolves the Authorization header into an Actor and attaches it
// to the context. A missing, malformed or stale credential fails with 401
// before the handler runs.
func Middleware(tokens *TokenManager, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return apierr.Unauthenticated("missing or invalid token")
			}
			id, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return apierr.Unauthenticated("missing or invalid token")
			}
			// Token may outlive the account; resolve against the store.
			u, err := users.FindByID(c.Request().Context(), id)
			if err != nil {
				return apierr.Unauthenticated("invalid token or user not found")
			}
			SetActor(c, Actor{ID: u.ID, Role: u.Role})
			return next(c)
		}
	}
}
