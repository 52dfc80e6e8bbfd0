package model

import (
	"time"

	"github.com/google/uuid"
)

// Service is a provider's listing. ServiceProvider is fixed at creation and
// never reassigned by any update path.
type Service struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Subcategory     string          `json:"subcategory,omitempty"`
	Price           float64         `json:"price"`
	Currency        string          `json:"currency"`
	Duration        string          `json:"duration,omitempty"`
	ServiceProvider uuid.UUID       `json:"serviceProvider"`
	Portfolio       []PortfolioItem `json:"portfolio"`
	Picture         string          `json:"picture,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Ratings is the aggregate recomputed on read from the review store; it is
// not persisted on the service row.
type Ratings struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// ComputeRatings derives the aggregate from the authoritative review list.
func ComputeRatings(reviews []Review) Ratings {
	if len(reviews) == 0 {
		return Ratings{}
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return Ratings{
		Average: float64(sum) / float64(len(reviews)),
		Count:   len(reviews),
	}
}
