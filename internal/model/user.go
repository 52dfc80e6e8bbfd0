package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleBuyer           Role = "buyer"
	RoleServiceProvider Role = "service_provider"
)

// ValidRole accepts the empty role: the field is optional at signup.
func ValidRole(r Role) bool {
	return r == "" || r == RoleBuyer || r == RoleServiceProvider
}

type SocialMediaLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
}

type PortfolioItem struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Link        string `json:"link,omitempty"`
}

// User is the account record. PasswordHash is never serialized.
type User struct {
	ID               uuid.UUID        `json:"id"`
	Username         string           `json:"username"`
	Email            string           `json:"email"`
	PasswordHash     string           `json:"-"`
	PhoneNumber      string           `json:"phoneNumber"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	ProfilePicture   string           `json:"profilePicture,omitempty"`
	Bio              string           `json:"bio,omitempty"`
	Location         string           `json:"location,omitempty"`
	SocialMediaLinks SocialMediaLinks `json:"socialMediaLinks"`
	Role             Role             `json:"role,omitempty"`
	Skills           []string         `json:"skills"`
	Portfolio        []PortfolioItem  `json:"portfolio"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}
