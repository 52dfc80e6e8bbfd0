// Package user serves profile reads, the split-update profile mutation, and
// profile picture uploads.
package user

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/identity"
	"github.com/sudo-init-do/skillmarket/internal/model"
	"github.com/sudo-init-do/skillmarket/internal/mutation"
	"github.com/sudo-init-do/skillmarket/internal/platform/logger"
	"github.com/sudo-init-do/skillmarket/internal/policy"
	"github.com/sudo-init-do/skillmarket/internal/store"
	"github.com/sudo-init-do/skillmarket/internal/upload"
)

type Handler struct {
	users   store.UserStore
	reviews store.ReviewStore
	uploads *upload.Storage
	log     *logger.Logger
}

func NewHandler(users store.UserStore, reviews store.ReviewStore, uploads *upload.Storage, log *logger.Logger) *Handler {
	return &Handler{users: users, reviews: reviews, uploads: uploads, log: log}
}

// detail carries the materialized review list and rating aggregate; neither
// is stored on the user row.
type detail struct {
	*model.User
	Reviews []model.Review `json:"reviews"`
	Ratings model.Ratings  `json:"ratings"`
}

func (h *Handler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.Validation("invalid user id")
	}
	ctx := c.Request().Context()
	u, err := h.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	reviews, err := h.reviews.ListByReviewee(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail{
		User:    u,
		Reviews: reviews,
		Ratings: model.ComputeRatings(reviews),
	})
}

// Update applies the split-update protocol: scalar fields plus the newSkill
// and newPortfolioItem append markers, written as one atomic plan.
func (h *Handler) Update(c echo.Context) error {
	actor, ok := identity.ActorFrom(c)
	if !ok {
		return apierr.Unauthenticated("authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.Validation("invalid user id")
	}
	ctx := c.Request().Context()
	u, err := h.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Decide(&actor, u, policy.ActionUpdate); err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apierr.Validation("could not read request body")
	}
	plan, err := mutation.PlanUserUpdate(body)
	if err != nil {
		return err
	}

	updated, err := h.users.Update(ctx, id, plan)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// UploadProfilePicture stores the image via the upload collaborator and
// records the returned path. Self-only, same as any other profile write.
func (h *Handler) UploadProfilePicture(c echo.Context) error {
	actor, ok := identity.ActorFrom(c)
	if !ok {
		return apierr.Unauthenticated("authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.Validation("invalid user id")
	}
	ctx := c.Request().Context()
	u, err := h.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Decide(&actor, u, policy.ActionUpdate); err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return apierr.Validation("please upload a file")
	}
	path, err := h.uploads.Save(file, "image")
	if err != nil {
		return err
	}

	plan := mutation.Plan{Scalars: map[string]any{"profilePicture": path}}
	updated, err := h.users.Update(ctx, id, plan)
	if err != nil {
		return err
	}
	h.log.Info("profile picture updated", "user_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile picture updated", "user": updated})
}
