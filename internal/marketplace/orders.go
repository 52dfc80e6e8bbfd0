package marketplace

import (
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/identity"
	"github.com/sudo-init-do/skillmarket/internal/lifecycle"
	"github.com/sudo-init-do/skillmarket/internal/model"
	"github.com/sudo-init-do/skillmarket/internal/mutation"
	"github.com/sudo-init-do/skillmarket/internal/policy"
)

type CreateOrderRequest struct {
	ServiceProviderID uuid.UUID           `json:"serviceProviderId" validate:"required"`
	ServiceID         uuid.UUID           `json:"serviceId" validate:"required"`
	Price             float64             `json:"price" validate:"required,gte=0"`
	Quantity          int                 `json:"quantity" validate:"required,gte=1"`
	PaymentMethod     model.PaymentMethod `json:"paymentMethod" validate:"required"`
}

// CreateOrder places an order; the acting user becomes the buyer. Both state
// machines start at pending.
func (h *Handler) CreateOrder(c echo.Context) error {
	actor, ok := identity.ActorFrom(c)
	if !ok {
		return apierr.Unauthenticated("authentication required")
	}
	req := new(CreateOrderRequest)
	if err := c.Bind(req); err != nil {
		return apierr.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return apierr.Validation("paymentMethod must be credit card, PayPal or mobile money")
	}
	if err := policy.Decide(&actor, &model.Order{}, policy.ActionCreate); err != nil {
		return err
	}

	ctx := c.Request().Context()
	// The service reference must resolve; a dangling id is a bad request,
	// not a missing resource.
	if _, err := h.store.Services().FindByID(ctx, req.ServiceID); err != nil {
		return apierr.Validation("unknown service")
	}

	now := time.Now()
	o := &model.Order{
		ID:              uuid.New(),
		Buyer:           actor.ID,
		ServiceProvider: req.ServiceProviderID,
		Service:         req.ServiceID,
		Price:           req.Price,
		Quantity:        req.Quantity,
		Status:          model.OrderPending,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   model.PaymentPending,
		Communication:   []model.Message{},
		Attachments:     []model.Attachment{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := h.store.Orders().Create(ctx, o); err != nil {
		return err
	}
	h.log.Info("order created", "order_id", o.ID, "buyer", o.Buyer, "provider", o.ServiceProvider)
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) ListOrders(c echo.Context) error {
	orders, err := h.store.Orders().List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.Validation("invalid order id")
	}
	o, err := h.store.Orders().FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

// UpdateOrder applies the order field rules on top of the shared policy:
// status is writable by buyer or provider and must follow the transition
// table; paymentMethod is buyer-only; newMessage/newAttachment append to the
// order threads.
func (h *Handler) UpdateOrder(c echo.Context) error {
	actor, ok := identity.ActorFrom(c)
	if !ok {
		return apierr.Unauthenticated("authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.Validation("invalid order id")
	}
	ctx := c.Request().Context()
	o, err := h.store.Orders().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Decide(&actor, o, policy.ActionUpdate); err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apierr.Validation("could not read request body")
	}
	plan, err := mutation.PlanOrderUpdate(body, actor.ID, time.Now())
	if err != nil {
		return err
	}

	if plan.Has("status") {
		if !policy.CanWriteOrderStatus(actor, o) {
			return apierr.Forbidden("only the buyer or service provider can change the order status")
		}
		next := plan.Scalars["status"].(model.OrderStatus)
		if err := lifecycle.ValidateStatusChange(o.Status, next); err != nil {
			return err
		}
		// A terminal order settles a still-pending payment: completion
		// approves it, cancellation declines it.
		if lifecycle.Terminal(next) && o.PaymentStatus == model.PaymentPending {
			settled := model.PaymentApproved
			if next == model.OrderCancelled {
				settled = model.PaymentDeclined
			}
			if err := lifecycle.ValidatePaymentChange(o.PaymentStatus, settled); err != nil {
				return err
			}
			plan.Scalars["paymentStatus"] = settled
		}
	}
	if plan.Has("paymentMethod") && !policy.CanWritePaymentMethod(actor, o) {
		return apierr.Forbidden("only the buyer can change the payment method")
	}

	updated, err := h.store.Orders().Update(ctx, id, plan)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteOrder is buyer-only.
func (h *Handler) DeleteOrder(c echo.Context) error {
	actor, ok := identity.ActorFrom(c)
	if !ok {
		return apierr.Unauthenticated("authentication required")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apierr.Validation("invalid order id")
	}
	ctx := c.Request().Context()
	o, err := h.store.Orders().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Decide(&actor, o, policy.ActionDelete); err != nil {
		return err
	}
	if err := h.store.Orders().Delete(ctx, id); err != nil {
		return err
	}
	h.log.Info("order deleted", "order_id", id, "buyer", actor.ID)
	return c.NoContent(http.StatusNoContent)
}
