// Package memory is a mutex-guarded in-process implementation of the store
// interfaces. It backs the test suites and mirrors the postgres semantics:
// plan application is a single locked mutation, uniqueness violations report
// conflict, and relationship fields are sealed at the store boundary.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/model"
	"github.com/sudo-init-do/skillmarket/internal/mutation"
	"github.com/sudo-init-do/skillmarket/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*model.User
	services map[uuid.UUID]*model.Service
	orders   map[uuid.UUID]*model.Order
	reviews  map[uuid.UUID]*model.Review

	// insertion order for deterministic listings
	userOrder    []uuid.UUID
	serviceOrder []uuid.UUID
	orderOrder   []uuid.UUID
	reviewOrder  []uuid.UUID
}

func New() *Store {
	return &Store{
		users:    map[uuid.UUID]*model.User{},
		services: map[uuid.UUID]*model.Service{},
		orders:   map[uuid.UUID]*model.Order{},
		reviews:  map[uuid.UUID]*model.Review{},
	}
}

func (s *Store) Users() store.UserStore       { return &userStore{s} }
func (s *Store) Services() store.ServiceStore { return &serviceStore{s} }
func (s *Store) Orders() store.OrderStore     { return &orderStore{s} }
func (s *Store) Reviews() store.ReviewStore   { return &reviewStore{s} }

// guardPlan seals relationship and identity fields even if a caller bypassed
// the planner.
func guardPlan(plan mutation.Plan, sealed ...string) error {
	for _, f := range sealed {
		if plan.Has(f) {
			return apierr.ValidationCode("field_not_writable", fmt.Sprintf("field %q cannot be updated", f))
		}
		for _, a := range plan.Appends {
			if a.Field == f {
				return apierr.ValidationCode("field_not_writable", fmt.Sprintf("field %q cannot be updated", f))
			}
		}
	}
	return nil
}

// ---- users ----

type userStore struct{ s *Store }

func (us *userStore) Create(_ context.Context, u *model.User) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()
	for _, existing := range us.s.users {
		if existing.Username == u.Username || existing.Email == u.Email ||
			existing.PhoneNumber == u.PhoneNumber {
			return apierr.Conflict("username, email or phone number already exists")
		}
	}
	cp := *u
	us.s.users[u.ID] = &cp
	us.s.userOrder = append(us.s.userOrder, u.ID)
	return nil
}

func (us *userStore) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()
	u, ok := us.s.users[id]
	if !ok {
		return nil, apierr.NotFound("user not found")
	}
	cp := copyUser(u)
	return &cp, nil
}

func (us *userStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()
	for _, u := range us.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := copyUser(u)
			return &cp, nil
		}
	}
	return nil, apierr.NotFound("user not found")
}

func (us *userStore) List(_ context.Context) ([]model.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()
	out := make([]model.User, 0, len(us.s.userOrder))
	for _, id := range us.s.userOrder {
		out = append(out, copyUser(us.s.users[id]))
	}
	return out, nil
}

func (us *userStore) Update(_ context.Context, id uuid.UUID, plan mutation.Plan) (*model.User, error) {
	if err := guardPlan(plan, "id", "passwordHash"); err != nil {
		return nil, err
	}
	us.s.mu.Lock()
	defer us.s.mu.Unlock()
	u, ok := us.s.users[id]
	if !ok {
		return nil, apierr.NotFound("user not found")
	}
	for oid, other := range us.s.users {
		if oid == id {
			continue
		}
		if v, ok := plan.Scalars["username"]; ok && other.Username == v.(string) {
			return nil, apierr.Conflict("username, email or phone number already exists")
		}
		if v, ok := plan.Scalars["email"]; ok && strings.EqualFold(other.Email, v.(string)) {
			return nil, apierr.Conflict("username, email or phone number already exists")
		}
		if v, ok := plan.Scalars["phoneNumber"]; ok && other.PhoneNumber == v.(string) {
			return nil, apierr.Conflict("username, email or phone number already exists")
		}
	}
	for field, v := range plan.Scalars {
		switch field {
		case "username":
			u.Username = v.(string)
		case "email":
			u.Email = strings.ToLower(v.(string))
		case "phoneNumber":
			u.PhoneNumber = v.(string)
		case "firstName":
			u.FirstName = v.(string)
		case "lastName":
			u.LastName = v.(string)
		case "profilePicture":
			u.ProfilePicture = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "location":
			u.Location = v.(string)
		case "socialMediaLinks":
			u.SocialMediaLinks = v.(model.SocialMediaLinks)
		case "role":
			u.Role = v.(model.Role)
		default:
			return nil, apierr.Validation(fmt.Sprintf("unknown user field %q", field))
		}
	}
	for _, a := range plan.Appends {
		switch a.Field {
		case "skills":
			u.Skills = append(u.Skills, a.Value.(string))
		case "portfolio":
			u.Portfolio = append(u.Portfolio, a.Value.(model.PortfolioItem))
		default:
			return nil, apierr.Validation(fmt.Sprintf("unknown user sequence %q", a.Field))
		}
	}
	u.UpdatedAt = time.Now()
	cp := copyUser(u)
	return &cp, nil
}

// ---- services ----

type serviceStore struct{ s *Store }

func (ss *serviceStore) Create(_ context.Context, sv *model.Service) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	cp := *sv
	ss.s.services[sv.ID] = &cp
	ss.s.serviceOrder = append(ss.s.serviceOrder, sv.ID)
	return nil
}

func (ss *serviceStore) FindByID(_ context.Context, id uuid.UUID) (*model.Service, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()
	sv, ok := ss.s.services[id]
	if !ok {
		return nil, apierr.NotFound("service not found")
	}
	cp := copyService(sv)
	return &cp, nil
}

func (ss *serviceStore) List(_ context.Context, f store.ServiceFilter) ([]model.Service, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()
	out := []model.Service{}
	for _, id := range ss.s.serviceOrder {
		sv := ss.s.services[id]
		if f.Category != "" && sv.Category != f.Category {
			continue
		}
		if f.MinPrice != nil && sv.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && sv.Price > *f.MaxPrice {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(sv.Title), needle) &&
				!strings.Contains(strings.ToLower(sv.Description), needle) {
				continue
			}
		}
		out = append(out, copyService(sv))
	}
	return out, nil
}

func (ss *serviceStore) Update(_ context.Context, id uuid.UUID, plan mutation.Plan) (*model.Service, error) {
	if err := guardPlan(plan, "id", "serviceProvider"); err != nil {
		return nil, err
	}
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	sv, ok := ss.s.services[id]
	if !ok {
		return nil, apierr.NotFound("service not found")
	}
	for field, v := range plan.Scalars {
		switch field {
		case "title":
			sv.Title = v.(string)
		case "description":
			sv.Description = v.(string)
		case "category":
			sv.Category = v.(string)
		case "subcategory":
			sv.Subcategory = v.(string)
		case "price":
			sv.Price = v.(float64)
		case "currency":
			sv.Currency = v.(string)
		case "duration":
			sv.Duration = v.(string)
		case "picture":
			sv.Picture = v.(string)
		default:
			return nil, apierr.Validation(fmt.Sprintf("unknown service field %q", field))
		}
	}
	for _, a := range plan.Appends {
		switch a.Field {
		case "portfolio":
			sv.Portfolio = append(sv.Portfolio, a.Value.(model.PortfolioItem))
		default:
			return nil, apierr.Validation(fmt.Sprintf("unknown service sequence %q", a.Field))
		}
	}
	sv.UpdatedAt = time.Now()
	cp := copyService(sv)
	return &cp, nil
}

func (ss *serviceStore) Delete(_ context.Context, id uuid.UUID) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	if _, ok := ss.s.services[id]; !ok {
		return apierr.NotFound("service not found")
	}
	delete(ss.s.services, id)
	ss.s.serviceOrder = removeID(ss.s.serviceOrder, id)
	return nil
}

// ---- orders ----

type orderStore struct{ s *Store }

func (os *orderStore) Create(_ context.Context, o *model.Order) error {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()
	cp := *o
	os.s.orders[o.ID] = &cp
	os.s.orderOrder = append(os.s.orderOrder, o.ID)
	return nil
}

func (os *orderStore) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	os.s.mu.RLock()
	defer os.s.mu.RUnlock()
	o, ok := os.s.orders[id]
	if !ok {
		return nil, apierr.NotFound("order not found")
	}
	cp := copyOrder(o)
	return &cp, nil
}

func (os *orderStore) List(_ context.Context) ([]model.Order, error) {
	os.s.mu.RLock()
	defer os.s.mu.RUnlock()
	out := make([]model.Order, 0, len(os.s.orderOrder))
	for _, id := range os.s.orderOrder {
		out = append(out, copyOrder(os.s.orders[id]))
	}
	return out, nil
}

func (os *orderStore) Update(_ context.Context, id uuid.UUID, plan mutation.Plan) (*model.Order, error) {
	if err := guardPlan(plan, "id", "buyer", "serviceProvider", "service",
		"paymentTransactionId", "price", "quantity"); err != nil {
		return nil, err
	}
	os.s.mu.Lock()
	defer os.s.mu.Unlock()
	o, ok := os.s.orders[id]
	if !ok {
		return nil, apierr.NotFound("order not found")
	}
	for field, v := range plan.Scalars {
		switch field {
		case "status":
			o.Status = v.(model.OrderStatus)
		case "paymentMethod":
			o.PaymentMethod = v.(model.PaymentMethod)
		case "paymentStatus":
			o.PaymentStatus = v.(model.PaymentStatus)
		default:
			return nil, apierr.Validation(fmt.Sprintf("unknown order field %q", field))
		}
	}
	for _, a := range plan.Appends {
		switch a.Field {
		case "communication":
			o.Communication = append(o.Communication, a.Value.(model.Message))
		case "attachments":
			o.Attachments = append(o.Attachments, a.Value.(model.Attachment))
		default:
			return nil, apierr.Validation(fmt.Sprintf("unknown order sequence %q", a.Field))
		}
	}
	o.UpdatedAt = time.Now()
	cp := copyOrder(o)
	return &cp, nil
}

func (os *orderStore) Delete(_ context.Context, id uuid.UUID) error {
	os.s.mu.Lock()
	defer os.s.mu.Unlock()
	if _, ok := os.s.orders[id]; !ok {
		return apierr.NotFound("order not found")
	}
	delete(os.s.orders, id)
	os.s.orderOrder = removeID(os.s.orderOrder, id)
	return nil
}

// ---- reviews ----

type reviewStore struct{ s *Store }

func (rs *reviewStore) Create(_ context.Context, r *model.Review) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	cp := *r
	rs.s.reviews[r.ID] = &cp
	rs.s.reviewOrder = append(rs.s.reviewOrder, r.ID)
	return nil
}

func (rs *reviewStore) FindByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()
	r, ok := rs.s.reviews[id]
	if !ok {
		return nil, apierr.NotFound("review not found")
	}
	cp := *r
	return &cp, nil
}

func (rs *reviewStore) List(_ context.Context) ([]model.Review, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()
	out := make([]model.Review, 0, len(rs.s.reviewOrder))
	for _, id := range rs.s.reviewOrder {
		out = append(out, *rs.s.reviews[id])
	}
	return out, nil
}

func (rs *reviewStore) ListByReviewee(_ context.Context, reviewee uuid.UUID) ([]model.Review, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()
	out := []model.Review{}
	for _, id := range rs.s.reviewOrder {
		if r := rs.s.reviews[id]; r.Reviewee == reviewee {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (rs *reviewStore) ListByService(_ context.Context, service uuid.UUID) ([]model.Review, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()
	out := []model.Review{}
	for _, id := range rs.s.reviewOrder {
		if r := rs.s.reviews[id]; r.Service != nil && *r.Service == service {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (rs *reviewStore) Update(_ context.Context, id uuid.UUID, plan mutation.Plan) (*model.Review, error) {
	if err := guardPlan(plan, "id", "reviewer", "reviewee", "service"); err != nil {
		return nil, err
	}
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	r, ok := rs.s.reviews[id]
	if !ok {
		return nil, apierr.NotFound("review not found")
	}
	for field, v := range plan.Scalars {
		switch field {
		case "rating":
			r.Rating = v.(int)
		case "comment":
			r.Comment = v.(string)
		case "response":
			r.Response = v.(*model.ReviewResponse)
		default:
			return nil, apierr.Validation(fmt.Sprintf("unknown review field %q", field))
		}
	}
	if len(plan.Appends) > 0 {
		return nil, apierr.Validation("review has no sequence fields")
	}
	r.UpdatedAt = time.Now()
	cp := *r
	return &cp, nil
}

func (rs *reviewStore) Delete(_ context.Context, id uuid.UUID) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	if _, ok := rs.s.reviews[id]; !ok {
		return apierr.NotFound("review not found")
	}
	delete(rs.s.reviews, id)
	rs.s.reviewOrder = removeID(rs.s.reviewOrder, id)
	return nil
}

// ---- helpers ----

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func copyUser(u *model.User) model.User {
	cp := *u
	cp.Skills = append([]string(nil), u.Skills...)
	cp.Portfolio = append([]model.PortfolioItem(nil), u.Portfolio...)
	return cp
}

func copyService(sv *model.Service) model.Service {
	cp := *sv
	cp.Portfolio = append([]model.PortfolioItem(nil), sv.Portfolio...)
	return cp
}

func copyOrder(o *model.Order) model.Order {
	cp := *o
	cp.Communication = append([]model.Message(nil), o.Communication...)
	cp.Attachments = append([]model.Attachment(nil), o.Attachments...)
	return cp
}
