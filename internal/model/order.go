package model

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentDeclined PaymentStatus = "declined"
)

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentApproved, PaymentDeclined:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PayCreditCard  PaymentMethod = "credit card"
	PayPayPal      PaymentMethod = "PayPal"
	PayMobileMoney PaymentMethod = "mobile money"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PayCreditCard, PayPayPal, PayMobileMoney:
		return true
	}
	return false
}

// Message is one entry in an order's communication thread. Sender is stamped
// from the acting user, never taken from the payload.
type Message struct {
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	Sender  uuid.UUID `json:"sender"`
}

type Attachment struct {
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Order ties a buyer, a provider and a service together. The three
// relationship fields are set at creation and never reassigned.
// PaymentTransactionID is internal and never serialized.
type Order struct {
	ID                   uuid.UUID     `json:"id"`
	Buyer                uuid.UUID     `json:"buyer"`
	ServiceProvider      uuid.UUID     `json:"serviceProvider"`
	Service              uuid.UUID     `json:"service"`
	Price                float64       `json:"price"`
	Quantity             int           `json:"quantity"`
	Status               OrderStatus   `json:"status"`
	PaymentMethod        PaymentMethod `json:"paymentMethod"`
	PaymentStatus        PaymentStatus `json:"paymentStatus"`
	PaymentTransactionID string        `json:"-"`
	StartDate            *time.Time    `json:"startDate,omitempty"`
	EndDate              *time.Time    `json:"endDate,omitempty"`
	Communication        []Message     `json:"communication"`
	Attachments          []Attachment  `json:"attachments"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}
