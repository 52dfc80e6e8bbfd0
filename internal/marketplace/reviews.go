package marketplace

import (
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/identity"
	"github.com/sudo-init-do/skillmarket/internal/model"
	"github.com/sudo-init-do/skillmarket/internal/mutation"
	"github.com/sudo-init-do/skillmarket/internal/policy"
)

type CreateReviewRequest struct {
	RevieweeID uuid.UUID  `json:"revieweeId" validate:"required"`
	ServiceID  *uuid.UUID `json:"serviceId"`
	Rating     int        `json:"rating" validate:"required"`
	Comment    string     `json:"comment" validate:"required"`
}

// CreateReview records a review; the acting user becomes the reviewer.
func (h *Handler) CreateReview(c echo.Context) error {
	actor, ok := identity.ActorFrom(c)
	if !ok {
		return apierr.Unauthenticated("authentication required")
	}
	req := new(CreateReviewRequest)
	if err := c.Bind(req); err != nil {
		return apierr.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if !model.ValidRating(req.Rating) {
		return apierr.Validation("rating must be between 1 and 5")
	}
	if err := policy.Decide(&actor, &model.Review{}, policy.ActionCreate); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.store.Users().FindByID(ctx, req.RevieweeID); err != nil {
		return apierr.Validation("unknown reviewee")
	}

	now := time.Now()
	r := &model.Review{
		ID:        uuid.New(),
		Reviewer:  actor.ID,
		Reviewee:  req.RevieweeID,
		Service:   req.ServiceID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.Reviews().Create(ctx, r); err != nil {
		return err
	}
	h.log.Info("review created", "review_id", r.ID, "reviewer", r.Reviewer, "reviewee", r.Reviewee)
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) ListReviews(c echo.Context) error {
	reviews, err := h.store.Reviews().List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *Handler) GetReview(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.Validation("invalid review id")
	}
	r, err := h.store.Reviews().FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// UpdateReview lets the reviewer adjust rating and comment, and the reviewee
// attach a response. Each field checks its own writer.
func (h *Handler) UpdateReview(c echo.Context) error {
	actor, ok := identity.ActorFrom(c)
	if !ok {
		return apierr.Unauthenticated("authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.Validation("invalid review id")
	}
	ctx := c.Request().Context()
	r, err := h.store.Reviews().FindByID(ctx, id)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apierr.Validation("could not read request body")
	}
	plan, err := mutation.PlanReviewUpdate(body, time.Now())
	if err != nil {
		return err
	}

	if plan.Has("response") && !policy.CanRespond(actor, r) {
		return apierr.Forbidden("only the reviewee can respond to this review")
	}
	// Anything that is not a reviewee response falls under the reviewer
	// rule, including a plan that decodes to nothing.
	if !plan.Has("response") || plan.Has("rating") || plan.Has("comment") {
		if err := policy.Decide(&actor, r, policy.ActionUpdate); err != nil {
			return err
		}
	}

	updated, err := h.store.Reviews().Update(ctx, id, plan)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteReview(c echo.Context) error {
	actor, ok := identity.ActorFrom(c)
	if !ok {
		return apierr.Unauthenticated("authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.Validation("invalid review id")
	}
	ctx := c.Request().Context()
	r, err := h.store.Reviews().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Decide(&actor, r, policy.ActionDelete); err != nil {
		return err
	}
	if err := h.store.Reviews().Delete(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
