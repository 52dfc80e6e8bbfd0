package marketplace

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/identity"
	"github.com/sudo-init-do/skillmarket/internal/model"
	"github.com/sudo-init-do/skillmarket/internal/mutation"
	"github.com/sudo-init-do/skillmarket/internal/policy"
	"github.com/sudo-init-do/skillmarket/internal/store"
)

type CreateServiceRequest struct {
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Category    string                `json:"category" validate:"required"`
	Subcategory string                `json:"subcategory"`
	Price       float64               `json:"price" validate:"gte=0"`
	Currency    string                `json:"currency" validate:"required"`
	Duration    string                `json:"duration"`
	Portfolio   []model.PortfolioItem `json:"portfolio"`
}

// CreateService lists a new service; the acting user becomes its provider.
func (h *Handler) CreateService(c echo.Context) error {
	actor, ok := identity.ActorFrom(c)
	if !ok {
		return apierr.Unauthenticated("authentication required")
	}
	req := new(CreateServiceRequest)
	if err := c.Bind(req); err != nil {
		return apierr.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if err := policy.Decide(&actor, &model.Service{}, policy.ActionCreate); err != nil {
		return err
	}

	now := time.Now()
	sv := &model.Service{
		ID:              uuid.New(),
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Subcategory:     req.Subcategory,
		Price:           req.Price,
		Currency:        req.Currency,
		Duration:        req.Duration,
		ServiceProvider: actor.ID,
		Portfolio:       req.Portfolio,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if sv.Portfolio == nil {
		sv.Portfolio = []model.PortfolioItem{}
	}
	if err := h.store.Services().Create(c.Request().Context(), sv); err != nil {
		return err
	}
	h.listings.Invalidate(c.Request().Context())
	h.log.Info("service created", "service_id", sv.ID, "provider", actor.ID)
	return c.JSON(http.StatusCreated, sv)
}

// ListServices supports category, minPrice/maxPrice and case-insensitive
// substring search over title and description, behind the read-through cache.
func (h *Handler) ListServices(c echo.Context) error {
	f := store.ServiceFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}
	if raw := c.QueryParam("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return apierr.Validation("minPrice must be a number")
		}
		f.MinPrice = &v
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return apierr.Validation("maxPrice must be a number")
		}
		f.MaxPrice = &v
	}

	ctx := c.Request().Context()
	if cached, ok := h.listings.Get(ctx, f); ok {
		return c.JSON(http.StatusOK, cached)
	}
	services, err := h.store.Services().List(ctx, f)
	if err != nil {
		return err
	}
	h.listings.Set(ctx, f, services)
	return c.JSON(http.StatusOK, services)
}

type serviceDetail struct {
	*model.Service
	Reviews []model.Review `json:"reviews"`
	Ratings model.Ratings  `json:"ratings"`
}

func (h *Handler) GetService(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.Validation("invalid service id")
	}
	ctx := c.Request().Context()
	sv, err := h.store.Services().FindByID(ctx, id)
	if err != nil {
		return err
	}
	reviews, err := h.store.Reviews().ListByService(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, serviceDetail{
		Service: sv,
		Reviews: reviews,
		Ratings: model.ComputeRatings(reviews),
	})
}

// UpdateService applies the split-update protocol for the provider: scalar
// fields plus the newPortfolioItem append marker.
func (h *Handler) UpdateService(c echo.Context) error {
	actor, ok := identity.ActorFrom(c)
	if !ok {
		return apierr.Unauthenticated("authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.Validation("invalid service id")
	}
	ctx := c.Request().Context()
	sv, err := h.store.Services().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Decide(&actor, sv, policy.ActionUpdate); err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apierr.Validation("could not read request body")
	}
	plan, err := mutation.PlanServiceUpdate(body)
	if err != nil {
		return err
	}

	updated, err := h.store.Services().Update(ctx, id, plan)
	if err != nil {
		return err
	}
	h.listings.Invalidate(ctx)
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteService(c echo.Context) error {
	actor, ok := identity.ActorFrom(c)
	if !ok {
		return apierr.Unauthenticated("authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.Validation("invalid service id")
	}
	ctx := c.Request().Context()
	sv, err := h.store.Services().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Decide(&actor, sv, policy.ActionDelete); err != nil {
		return err
	}
	if err := h.store.Services().Delete(ctx, id); err != nil {
		return err
	}
	h.listings.Invalidate(ctx)
	h.log.Info("service deleted", "service_id", id, "provider", actor.ID)
	return c.NoContent(http.StatusNoContent)
}

// UploadServicePicture stores the image and records its path; provider only.
func (h *Handler) UploadServicePicture(c echo.Context) error {
	actor, ok := identity.ActorFrom(c)
	if !ok {
		return apierr.Unauthenticated("authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.Validation("invalid service id")
	}
	ctx := c.Request().Context()
	sv, err := h.store.Services().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Decide(&actor, sv, policy.ActionUpdate); err != nil {
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

	plan := mutation.Plan{Scalars: map[string]any{"picture": path}}
	updated, err := h.store.Services().Update(ctx, id, plan)
	if err != nil {
		return err
	}
	h.listings.Invalidate(ctx)

	status := http.StatusOK
	if c.Request().Method == http.MethodPost {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{"message": "Service picture updated", "service": updated})
}
