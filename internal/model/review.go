package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewResponse is the reviewee's reply to a review.
type ReviewResponse struct {
	Text        string    `json:"text"`
	RespondedAt time.Time `json:"respondedAt"`
}

// Review is the single source of truth for ratings; user and service reads
// materialize their review lists from this collection.
type Review struct {
	ID        uuid.UUID       `json:"id"`
	Reviewer  uuid.UUID       `json:"reviewer"`
	Reviewee  uuid.UUID       `json:"reviewee"`
	Service   *uuid.UUID      `json:"service,omitempty"`
	Rating    int             `json:"rating"`
	Comment   string          `json:"comment"`
	Response  *ReviewResponse `json:"response,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ValidRating bounds the 1..5 scale, both ends inclusive.
func ValidRating(r int) bool { return r >= 1 && r <= 5 }
