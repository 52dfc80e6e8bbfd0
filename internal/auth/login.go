package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Login exchanges credentials for a bearer token. Unknown email and wrong
// password are indistinguishable to the caller.
func (h *Handler) Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return apierr.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	u, err := h.users.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return apierr.Unauthenticated("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return apierr.Unauthenticated("invalid email or password")
	}

	token, err := h.tokens.Issue(u)
	if err != nil {
		return apierr.Internal(err)
	}
	return c.JSON(http.StatusOK, LoginResponse{Token: token, Email: u.Email})
}
