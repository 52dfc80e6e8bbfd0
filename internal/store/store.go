// Package store defines the persistence boundary for the four resource
// types. Update applies a whole mutation.Plan atomically: scalar patch and
// sequence appends succeed or fail together, and a plan against a missing id
// fails with not-found without any partial write.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/sudo-init-do/skillmarket/internal/model"
	"github.com/sudo-init-do/skillmarket/internal/mutation"
)

// ServiceFilter narrows service listings. Zero values mean "no constraint";
// Search matches title or description case-insensitively.
type ServiceFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Search   string
}

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uuid.UUID, plan mutation.Plan) (*model.User, error)
}

type ServiceStore interface {
	Create(ctx context.Context, s *model.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
	List(ctx context.Context, f ServiceFilter) ([]model.Service, error)
	Update(ctx context.Context, id uuid.UUID, plan mutation.Plan) (*model.Service, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	Update(ctx context.Context, id uuid.UUID, plan mutation.Plan) (*model.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReviewStore interface {
	Create(ctx context.Context, r *model.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	List(ctx context.Context) ([]model.Review, error)
	ListByReviewee(ctx context.Context, reviewee uuid.UUID) ([]model.Review, error)
	ListByService(ctx context.Context, service uuid.UUID) ([]model.Review, error)
	Update(ctx context.Context, id uuid.UUID, plan mutation.Plan) (*model.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Store bundles the per-resource stores behind one wiring point.
type Store interface {
	Users() UserStore
	Services() ServiceStore
	Orders() OrderStore
	Reviews() ReviewStore
}
