// Package lifecycle encodes the order state machines. The transition tables
// are explicit: completed and cancelled are terminal for the order status,
// approved and declined for the payment status.
package lifecycle

import (
	"fmt"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/model"
)

var statusTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderPending:    {model.OrderInProgress, model.OrderCancelled},
	model.OrderInProgress: {model.OrderCompleted, model.OrderCancelled},
	model.OrderCompleted:  {},
	model.OrderCancelled:  {},
}

var paymentTransitions = map[model.PaymentStatus][]model.PaymentStatus{
	model.PaymentPending:  {model.PaymentApproved, model.PaymentDeclined},
	model.PaymentApproved: {},
	model.PaymentDeclined: {},
}

// ValidateStatusChange rejects unknown states and illegal transitions.
// Setting the current state again is a no-op, not an error.
func ValidateStatusChange(from, to model.OrderStatus) error {
	if !model.ValidOrderStatus(to) {
		return apierr.ValidationCode("invalid_status", fmt.Sprintf("unknown order status %q", to))
	}
	if from == to {
		return nil
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return nil
		}
	}
	return apierr.ValidationCode("illegal_transition",
		fmt.Sprintf("cannot move order from %q to %q", from, to))
}

// ValidatePaymentChange mirrors ValidateStatusChange for the payment state.
func ValidatePaymentChange(from, to model.PaymentStatus) error {
	if !model.ValidPaymentStatus(to) {
		return apierr.ValidationCode("invalid_payment_status", fmt.Sprintf("unknown payment status %q", to))
	}
	if from == to {
		return nil
	}
	for _, next := range paymentTransitions[from] {
		if next == to {
			return nil
		}
	}
	return apierr.ValidationCode("illegal_transition",
		fmt.Sprintf("cannot move payment from %q to %q", from, to))
}

// Terminal reports whether no further status transition is possible.
func Terminal(s model.OrderStatus) bool {
	return len(statusTransitions[s]) == 0 && model.ValidOrderStatus(s)
}
