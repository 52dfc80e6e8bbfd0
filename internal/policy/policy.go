// Package policy is the relationship-based authorization table. Decisions
// depend only on the actor and the resource instance; nothing here touches
// storage or transport.
package policy

import (
	"fmt"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/identity"
	"github.com/sudo-init-do/skillmarket/internal/model"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Decide returns nil when actor may perform action on resource, a 401 error
// when no actor is present, and a 403 error when the relationship check
// fails. Ownership comparisons are by identifier value.
func Decide(actor *identity.Actor, resource any, action Action) error {
	if actor == nil {
		// Signup is the single anonymous mutation.
		if _, ok := resource.(*model.User); ok && action == ActionCreate {
			return nil
		}
		return apierr.Unauthenticated("authentication required")
	}

	switch r := resource.(type) {
	case *model.User:
		switch action {
		case ActionRead, ActionCreate:
			return nil
		case ActionUpdate:
			if actor.ID == r.ID {
				return nil
			}
			return apierr.Forbidden("you can only update your own profile")
		case ActionDelete:
			return apierr.Forbidden("user deletion is not supported")
		}

	case *model.Service:
		switch action {
		case ActionRead, ActionCreate:
			return nil
		case ActionUpdate:
			if actor.ID == r.ServiceProvider {
				return nil
			}
			return apierr.Forbidden("only the service provider can update this service")
		case ActionDelete:
			if actor.ID == r.ServiceProvider {
				return nil
			}
			return apierr.Forbidden("only the service provider can delete this service")
		}

	case *model.Order:
		switch action {
		case ActionRead, ActionCreate:
			return nil
		case ActionUpdate:
			if actor.ID == r.Buyer || actor.ID == r.ServiceProvider {
				return nil
			}
			return apierr.Forbidden("only the buyer or service provider can update this order")
		case ActionDelete:
			if actor.ID == r.Buyer {
				return nil
			}
			return apierr.Forbidden("only the buyer can delete this order")
		}

	case *model.Review:
		switch action {
		case ActionRead, ActionCreate:
			return nil
		case ActionUpdate:
			if actor.ID == r.Reviewer {
				return nil
			}
			return apierr.Forbidden("you can only update your own reviews")
		case ActionDelete:
			if actor.ID == r.Reviewer {
				return nil
			}
			return apierr.Forbidden("you can only delete your own reviews")
		}
	}

	return apierr.Internal(fmt.Errorf("policy: unknown resource %T action %q", resource, action))
}

// CanWriteOrderStatus reports whether actor may set the order status.
func CanWriteOrderStatus(actor identity.Actor, o *model.Order) bool {
	return actor.ID == o.Buyer || actor.ID == o.ServiceProvider
}

// CanWritePaymentMethod is buyer-only per the order field rules.
func CanWritePaymentMethod(actor identity.Actor, o *model.Order) bool {
	return actor.ID == o.Buyer
}

// CanRespond lets the reviewee attach a response to a review about them.
func CanRespond(actor identity.Actor, r *model.Review) bool {
	return actor.ID == r.Reviewee
}
