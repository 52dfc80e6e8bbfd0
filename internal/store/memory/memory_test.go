package memory

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/model"
	"github.com/sudo-init-do/skillmarket/internal/mutation"
	"github.com/sudo-init-do/skillmarket/internal/store"
)

func newUser(username, email, phone string) *model.User {
	now := time.Now()
	return &model.User{
		ID:          uuid.New(),
		Username:    username,
		Email:       email,
		PhoneNumber: phone,
		FirstName:   "A",
		LastName:    "B",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestUserCreateConflict(t *testing.T) {
	ctx := context.Background()
	st := New()
	u := newUser("kofi", "kofi@example.com", "+233200000001")
	if err := st.Users().Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	dupes := []*model.User{
		newUser("kofi", "other@example.com", "+233200000002"),
		newUser("other", "kofi@example.com", "+233200000003"),
		newUser("other2", "other2@example.com", "+233200000001"),
	}
	for _, d := range dupes {
		if err := st.Users().Create(ctx, d); apierr.StatusOf(err) != http.StatusConflict {
			t.Fatalf("expected 409 for %s, got %v", d.Username, err)
		}
	}

	users, err := st.Users().List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("conflict must not create a record, have %d users", len(users))
	}
}

func TestUserUpdateConflict(t *testing.T) {
	ctx := context.Background()
	st := New()
	a := newUser("kofi", "kofi@example.com", "+233200000001")
	b := newUser("ama", "ama@example.com", "+233200000002")
	for _, u := range []*model.User{a, b} {
		if err := st.Users().Create(ctx, u); err != nil {
			t.Fatalf("create %s: %v", u.Username, err)
		}
	}

	plans := []mutation.Plan{
		{Scalars: map[string]any{"username": "kofi"}},
		{Scalars: map[string]any{"email": "KOFI@example.com"}},
		{Scalars: map[string]any{"phoneNumber": "+233200000001"}},
	}
	for _, p := range plans {
		if _, err := st.Users().Update(ctx, b.ID, p); apierr.StatusOf(err) != http.StatusConflict {
			t.Fatalf("expected 409 for %v, got %v", p.Scalars, err)
		}
	}

	got, err := st.Users().FindByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Email != "ama@example.com" || got.Username != "ama" {
		t.Fatalf("conflicting update must not apply, got %s / %s", got.Username, got.Email)
	}

	// Writing your own current value back is not a collision.
	if _, err := st.Users().Update(ctx, b.ID, mutation.Plan{
		Scalars: map[string]any{"email": "ama@example.com"},
	}); err != nil {
		t.Fatalf("self-same email: %v", err)
	}
}

func TestUserAppendIsNotDeduplicated(t *testing.T) {
	ctx := context.Background()
	st := New()
	u := newUser("ama", "ama@example.com", "+233200000010")
	if err := st.Users().Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	plan := mutation.Plan{Appends: []mutation.Append{{Field: "skills", Value: "Go"}}}
	for i := 0; i < 2; i++ {
		if _, err := st.Users().Update(ctx, u.ID, plan); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := st.Users().FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got.Skills) != 2 || got.Skills[0] != "Go" || got.Skills[1] != "Go" {
		t.Fatalf("skills = %v, want [Go Go]", got.Skills)
	}
}

func TestUpdateMissingIDIsNotFoundAndSkipsAppends(t *testing.T) {
	ctx := context.Background()
	st := New()
	plan := mutation.Plan{
		Scalars: map[string]any{"bio": "x"},
		Appends: []mutation.Append{{Field: "skills", Value: "Go"}},
	}
	if _, err := st.Users().Update(ctx, uuid.New(), plan); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestScalarAndAppendApplyTogether(t *testing.T) {
	ctx := context.Background()
	st := New()
	u := newUser("esi", "esi@example.com", "+233200000020")
	if err := st.Users().Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	plan := mutation.Plan{
		Scalars: map[string]any{"bio": "designer"},
		Appends: []mutation.Append{
			{Field: "skills", Value: "Figma"},
			{Field: "portfolio", Value: model.PortfolioItem{Title: "Brand kit"}},
		},
	}
	got, err := st.Users().Update(ctx, u.ID, plan)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Bio != "designer" || len(got.Skills) != 1 || len(got.Portfolio) != 1 {
		t.Fatalf("plan applied partially: %+v", got)
	}
}

func TestStoreSealsRelationshipFields(t *testing.T) {
	ctx := context.Background()
	st := New()

	provider := uuid.New()
	sv := &model.Service{ID: uuid.New(), Title: "t", ServiceProvider: provider}
	if err := st.Services().Create(ctx, sv); err != nil {
		t.Fatalf("create: %v", err)
	}
	plan := mutation.Plan{Scalars: map[string]any{"serviceProvider": uuid.New()}}
	if _, err := st.Services().Update(ctx, sv.ID, plan); apierr.CodeOf(err) != "field_not_writable" {
		t.Fatalf("expected field_not_writable, got %v", err)
	}
	got, _ := st.Services().FindByID(ctx, sv.ID)
	if got.ServiceProvider != provider {
		t.Fatal("provider must be unchanged")
	}

	o := &model.Order{ID: uuid.New(), Buyer: uuid.New(), ServiceProvider: provider, Service: sv.ID, Quantity: 1}
	if err := st.Orders().Create(ctx, o); err != nil {
		t.Fatalf("create order: %v", err)
	}
	plan = mutation.Plan{Scalars: map[string]any{"buyer": uuid.New()}}
	if _, err := st.Orders().Update(ctx, o.ID, plan); apierr.CodeOf(err) != "field_not_writable" {
		t.Fatalf("expected field_not_writable, got %v", err)
	}
}

func TestServiceDeleteThenFind(t *testing.T) {
	ctx := context.Background()
	st := New()
	sv := &model.Service{ID: uuid.New(), Title: "t", ServiceProvider: uuid.New()}
	if err := st.Services().Create(ctx, sv); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.Services().Delete(ctx, sv.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Services().FindByID(ctx, sv.ID); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
	if err := st.Services().Delete(ctx, sv.ID); apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("double delete should be 404, got %v", err)
	}
}

func TestServiceListFilters(t *testing.T) {
	ctx := context.Background()
	st := New()
	provider := uuid.New()
	mk := func(title, desc, category string, price float64) {
		if err := st.Services().Create(ctx, &model.Service{
			ID: uuid.New(), Title: title, Description: desc,
			Category: category, Price: price, ServiceProvider: provider,
		}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	mk("Logo design", "modern brand identity", "design", 50)
	mk("Go backend", "REST API development", "development", 200)
	mk("Landing page", "design and build", "design", 120)

	min, max := 100.0, 300.0
	got, err := st.Services().List(ctx, store.ServiceFilter{MinPrice: &min, MaxPrice: &max})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("price filter: got %d services", len(got))
	}

	got, _ = st.Services().List(ctx, store.ServiceFilter{Category: "design"})
	if len(got) != 2 {
		t.Fatalf("category filter: got %d services", len(got))
	}

	got, _ = st.Services().List(ctx, store.ServiceFilter{Search: "DESIGN"})
	if len(got) != 2 {
		t.Fatalf("search should be case-insensitive over title and description, got %d", len(got))
	}

	got, _ = st.Services().List(ctx, store.ServiceFilter{Category: "design", Search: "logo"})
	if len(got) != 1 || got[0].Title != "Logo design" {
		t.Fatalf("combined filter: %v", got)
	}
}

func TestReviewListsByRevieweeAndService(t *testing.T) {
	ctx := context.Background()
	st := New()
	reviewee := uuid.New()
	svcID := uuid.New()
	mk := func(rating int, svc *uuid.UUID) {
		if err := st.Reviews().Create(ctx, &model.Review{
			ID: uuid.New(), Reviewer: uuid.New(), Reviewee: reviewee,
			Service: svc, Rating: rating, Comment: "c",
		}); err != nil {
			t.Fatalf("create review: %v", err)
		}
	}
	mk(5, &svcID)
	mk(3, nil)

	byUser, err := st.Reviews().ListByReviewee(ctx, reviewee)
	if err != nil {
		t.Fatalf("by reviewee: %v", err)
	}
	if len(byUser) != 2 {
		t.Fatalf("reviewee reviews = %d", len(byUser))
	}
	bySvc, err := st.Reviews().ListByService(ctx, svcID)
	if err != nil {
		t.Fatalf("by service: %v", err)
	}
	if len(bySvc) != 1 || bySvc[0].Rating != 5 {
		t.Fatalf("service reviews = %v", bySvc)
	}

	agg := model.ComputeRatings(byUser)
	if agg.Count != 2 || agg.Average != 4 {
		t.Fatalf("ratings = %+v", agg)
	}
}
