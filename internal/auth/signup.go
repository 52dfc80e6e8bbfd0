package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/model"
	"github.com/sudo-init-do/skillmarket/internal/platform/logger"
	"github.com/sudo-init-do/skillmarket/internal/policy"
	"github.com/sudo-init-do/skillmarket/internal/store"
)

// Handler serves the public signup and login endpoints.
type Handler struct {
	users  store.UserStore
	tokens TokenIssuer
	log    *logger.Logger
}

// TokenIssuer is the signing side of the credential collaborator.
type TokenIssuer interface {
	Issue(u *model.User) (string, error)
}

func NewHandler(users store.UserStore, tokens TokenIssuer, log *logger.Logger) *Handler {
	return &Handler{users: users, tokens: tokens, log: log}
}

type SignupRequest struct {
	Username    string     `json:"username" validate:"required,min=3"`
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=6"`
	PhoneNumber string     `json:"phoneNumber" validate:"required,min=7"`
	FirstName   string     `json:"firstName" validate:"required"`
	LastName    string     `json:"lastName" validate:"required"`
	Role        model.Role `json:"role"`
}

// Signup registers a new account. Duplicate username, email or phone number
// reports 409 and leaves the store untouched.
func (h *Handler) Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return apierr.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if !model.ValidRole(req.Role) {
		return apierr.Validation("role must be buyer or service_provider")
	}
	if err := policy.Decide(nil, &model.User{}, policy.ActionCreate); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apierr.Internal(err)
	}

	now := time.Now()
	u := &model.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		PhoneNumber:  req.PhoneNumber,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Skills:       []string{},
		Portfolio:    []model.PortfolioItem{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.users.Create(c.Request().Context(), u); err != nil {
		return err
	}

	h.log.Info("user signed up", "user_id", u.ID, "username", u.Username)
	return c.JSON(http.StatusCreated, u)
}
