// Package mutation partitions partial-update payloads into a scalar patch
// plus append operations on sequence fields. Planners only classify and
// decode; the store applies a whole plan as one atomic write.
package mutation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/model"
)

// Append adds one element to the named ordered sequence field. Appends are
// deliberately not idempotent: resubmitting the same payload appends again.
type Append struct {
	Field string
	Value any
}

// Plan is the write set for a single update request.
type Plan struct {
	Scalars map[string]any
	Appends []Append
}

func (p Plan) Empty() bool {
	return len(p.Scalars) == 0 && len(p.Appends) == 0
}

// Has reports whether the scalar patch touches field.
func (p Plan) Has(field string) bool {
	_, ok := p.Scalars[field]
	return ok
}

func newPlan() Plan {
	return Plan{Scalars: map[string]any{}}
}

func decode[T any](raw json.RawMessage, field string) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, apierr.Validation(fmt.Sprintf("invalid value for %q", field))
	}
	return v, nil
}

func forbidden(payload map[string]json.RawMessage, fields ...string) error {
	for _, f := range fields {
		if _, ok := payload[f]; ok {
			return apierr.ValidationCode("field_not_writable", fmt.Sprintf("field %q cannot be updated", f))
		}
	}
	return nil
}

// PlanUserUpdate splits a user payload. Markers: newSkill appends to skills,
// newPortfolioItem appends to portfolio. Unknown keys are dropped; identity
// and credential fields are rejected outright.
func PlanUserUpdate(body []byte) (Plan, error) {
	payload := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Plan{}, apierr.Validation("invalid request body")
	}
	if err := forbidden(payload, "id", "password", "passwordHash", "createdAt", "updatedAt"); err != nil {
		return Plan{}, err
	}

	plan := newPlan()
	for key, raw := range payload {
		switch key {
		case "newSkill":
			skill, err := decode[string](raw, key)
			if err != nil {
				return Plan{}, err
			}
			plan.Appends = append(plan.Appends, Append{Field: "skills", Value: skill})
		case "newPortfolioItem":
			item, err := decode[model.PortfolioItem](raw, key)
			if err != nil {
				return Plan{}, err
			}
			if item.Title == "" {
				return Plan{}, apierr.Validation("portfolio item title is required")
			}
			plan.Appends = append(plan.Appends, Append{Field: "portfolio", Value: item})
		case "username", "email", "phoneNumber", "firstName", "lastName",
			"profilePicture", "bio", "location":
			v, err := decode[string](raw, key)
			if err != nil {
				return Plan{}, err
			}
			plan.Scalars[key] = v
		case "socialMediaLinks":
			links, err := decode[model.SocialMediaLinks](raw, key)
			if err != nil {
				return Plan{}, err
			}
			plan.Scalars[key] = links
		case "role":
			role, err := decode[model.Role](raw, key)
			if err != nil {
				return Plan{}, err
			}
			if !model.ValidRole(role) {
				return Plan{}, apierr.Validation(fmt.Sprintf("unknown role %q", role))
			}
			plan.Scalars[key] = role
		}
	}
	return plan, nil
}

// PlanServiceUpdate splits a service payload. Marker: newPortfolioItem. The
// provider reference is write-once and rejected here before any store call.
func PlanServiceUpdate(body []byte) (Plan, error) {
	payload := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Plan{}, apierr.Validation("invalid request body")
	}
	if err := forbidden(payload, "id", "serviceProvider", "createdAt", "updatedAt"); err != nil {
		return Plan{}, err
	}

	plan := newPlan()
	for key, raw := range payload {
		switch key {
		case "newPortfolioItem":
			item, err := decode[model.PortfolioItem](raw, key)
			if err != nil {
				return Plan{}, err
			}
			if item.Title == "" || item.Description == "" || item.ImageURL == "" {
				return Plan{}, apierr.Validation("portfolio item requires title, description and imageUrl")
			}
			plan.Appends = append(plan.Appends, Append{Field: "portfolio", Value: item})
		case "title", "description", "category", "subcategory", "currency", "duration", "picture":
			v, err := decode[string](raw, key)
			if err != nil {
				return Plan{}, err
			}
			plan.Scalars[key] = v
		case "price":
			price, err := decode[float64](raw, key)
			if err != nil {
				return Plan{}, err
			}
			if price < 0 {
				return Plan{}, apierr.Validation("price cannot be negative")
			}
			plan.Scalars[key] = price
		}
	}
	return plan, nil
}

// PlanOrderUpdate splits an order payload. Writable scalars are status and
// paymentMethod only; markers newMessage and newAttachment append to the
// communication and attachments threads, stamped with sender and time here
// so the payload can never forge either.
func PlanOrderUpdate(body []byte, sender uuid.UUID, now time.Time) (Plan, error) {
	payload := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Plan{}, apierr.Validation("invalid request body")
	}
	if err := forbidden(payload, "id", "buyer", "serviceProvider", "service",
		"price", "quantity", "paymentStatus", "paymentTransactionId",
		"createdAt", "updatedAt"); err != nil {
		return Plan{}, err
	}

	plan := newPlan()
	for key, raw := range payload {
		switch key {
		case "status":
			status, err := decode[model.OrderStatus](raw, key)
			if err != nil {
				return Plan{}, err
			}
			plan.Scalars[key] = status
		case "paymentMethod":
			method, err := decode[model.PaymentMethod](raw, key)
			if err != nil {
				return Plan{}, err
			}
			if !model.ValidPaymentMethod(method) {
				return Plan{}, apierr.Validation(fmt.Sprintf("unknown payment method %q", method))
			}
			plan.Scalars[key] = method
		case "newMessage":
			text, err := decode[string](raw, key)
			if err != nil {
				return Plan{}, err
			}
			if text == "" {
				return Plan{}, apierr.Validation("message cannot be empty")
			}
			plan.Appends = append(plan.Appends, Append{Field: "communication", Value: model.Message{
				Message: text,
				Date:    now,
				Sender:  sender,
			}})
		case "newAttachment":
			att, err := decode[model.Attachment](raw, key)
			if err != nil {
				return Plan{}, err
			}
			if att.Filename == "" || att.URL == "" {
				return Plan{}, apierr.Validation("attachment requires filename and url")
			}
			att.UploadedAt = now
			plan.Appends = append(plan.Appends, Append{Field: "attachments", Value: att})
		}
	}
	return plan, nil
}

// PlanReviewUpdate splits a review payload: rating and comment for the
// reviewer, response for the reviewee. Field-level authorization stays with
// the caller; this only decodes and validates.
func PlanReviewUpdate(body []byte, now time.Time) (Plan, error) {
	payload := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Plan{}, apierr.Validation("invalid request body")
	}
	if err := forbidden(payload, "id", "reviewer", "reviewee", "service",
		"createdAt", "updatedAt"); err != nil {
		return Plan{}, err
	}

	plan := newPlan()
	for key, raw := range payload {
		switch key {
		case "rating":
			rating, err := decode[int](raw, key)
			if err != nil {
				return Plan{}, err
			}
			if !model.ValidRating(rating) {
				return Plan{}, apierr.Validation("rating must be between 1 and 5")
			}
			plan.Scalars[key] = rating
		case "comment":
			comment, err := decode[string](raw, key)
			if err != nil {
				return Plan{}, err
			}
			if comment == "" {
				return Plan{}, apierr.Validation("comment cannot be empty")
			}
			plan.Scalars[key] = comment
		case "response":
			var in struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(raw, &in); err != nil {
				return Plan{}, apierr.Validation("invalid value for \"response\"")
			}
			if in.Text == "" {
				return Plan{}, apierr.Validation("response text cannot be empty")
			}
			plan.Scalars[key] = &model.ReviewResponse{Text: in.Text, RespondedAt: now}
		}
	}
	return plan, nil
}
