package marketplace_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/skillmarket/internal/model"
)

func seedReview(t *testing.T, e *echo.Echo, authz string, reviewee *model.User, rating int) model.Review {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/reviews", authz, map[string]any{
		"revieweeId": reviewee.ID,
		"rating":     rating,
		"comment":    "prompt and professional",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed review: %d %s", rec.Code, rec.Body.String())
	}
	return decode[model.Review](t, rec)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	e, st, tokens := newServer()
	buyer := seedUser(t, st, model.RoleBuyer)
	provider := seedUser(t, st, model.RoleServiceProvider)
	authz := bearer(t, tokens, buyer)

	for _, rating := range []int{0, 6, -1} {
		rec := do(e, http.MethodPost, "/api/reviews", authz, map[string]any{
			"revieweeId": provider.ID,
			"rating":     rating,
			"comment":    "out of range",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("rating %d: got %d, want 400", rating, rec.Code)
		}
	}

	for _, rating := range []int{1, 5} {
		rec := do(e, http.MethodPost, "/api/reviews", authz, map[string]any{
			"revieweeId": provider.ID,
			"rating":     rating,
			"comment":    "in range",
		})
		if rec.Code != http.StatusCreated {
			t.Errorf("rating %d: got %d, want 201: %s", rating, rec.Code, rec.Body.String())
		}
	}
}

func TestCreateReviewAssignsReviewer(t *testing.T) {
	e, st, tokens := newServer()
	buyer := seedUser(t, st, model.RoleBuyer)
	provider := seedUser(t, st, model.RoleServiceProvider)

	rec := do(e, http.MethodPost, "/api/reviews", bearer(t, tokens, buyer), map[string]any{
		"revieweeId": provider.ID,
		"rating":     4,
		"comment":    "solid work",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	r := decode[model.Review](t, rec)
	if r.Reviewer != buyer.ID {
		t.Fatalf("reviewer = %s, want %s", r.Reviewer, buyer.ID)
	}
	if r.Reviewee != provider.ID {
		t.Fatalf("reviewee = %s, want %s", r.Reviewee, provider.ID)
	}
}

func TestCreateReviewUnknownReviewee(t *testing.T) {
	e, st, tokens := newServer()
	buyer := seedUser(t, st, model.RoleBuyer)

	rec := do(e, http.MethodPost, "/api/reviews", bearer(t, tokens, buyer), map[string]any{
		"revieweeId": uuid.New(),
		"rating":     4,
		"comment":    "to nobody",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}

func TestReviewUpdateReviewerOnly(t *testing.T) {
	e, st, tokens := newServer()
	buyer := seedUser(t, st, model.RoleBuyer)
	provider := seedUser(t, st, model.RoleServiceProvider)
	stranger := seedUser(t, st, model.RoleBuyer)
	r := seedReview(t, e, bearer(t, tokens, buyer), provider, 4)

	rec := do(e, http.MethodPut, "/api/reviews/"+r.ID.String(), bearer(t, tokens, stranger), map[string]any{
		"rating": 1,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger update: got %d, want 403", rec.Code)
	}

	rec = do(e, http.MethodPut, "/api/reviews/"+r.ID.String(), bearer(t, tokens, buyer), map[string]any{
		"rating":  5,
		"comment": "even better on second thought",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("reviewer update: got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[model.Review](t, rec)
	if updated.Rating != 5 {
		t.Fatalf("rating = %d, want 5", updated.Rating)
	}
}

func TestReviewUpdateWithNoWritableFieldsStillChecksOwnership(t *testing.T) {
	e, st, tokens := newServer()
	buyer := seedUser(t, st, model.RoleBuyer)
	provider := seedUser(t, st, model.RoleServiceProvider)
	stranger := seedUser(t, st, model.RoleBuyer)
	r := seedReview(t, e, bearer(t, tokens, buyer), provider, 4)

	for _, body := range []map[string]any{
		{},
		{"unknownKey": "x"},
	} {
		rec := do(e, http.MethodPut, "/api/reviews/"+r.ID.String(), bearer(t, tokens, stranger), body)
		if rec.Code != http.StatusForbidden {
			t.Errorf("stranger PUT %v: got %d, want 403", body, rec.Code)
		}
	}

	rec := do(e, http.MethodPut, "/api/reviews/"+r.ID.String(), bearer(t, tokens, buyer), map[string]any{
		"unknownKey": "x",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("reviewer PUT with no writable fields: got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestReviewResponseRevieweeOnly(t *testing.T) {
	e, st, tokens := newServer()
	buyer := seedUser(t, st, model.RoleBuyer)
	provider := seedUser(t, st, model.RoleServiceProvider)
	r := seedReview(t, e, bearer(t, tokens, buyer), provider, 4)

	rec := do(e, http.MethodPut, "/api/reviews/"+r.ID.String(), bearer(t, tokens, buyer), map[string]any{
		"response": map[string]any{"text": "thanks!"},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("reviewer response: got %d, want 403", rec.Code)
	}

	rec = do(e, http.MethodPut, "/api/reviews/"+r.ID.String(), bearer(t, tokens, provider), map[string]any{
		"response": map[string]any{"text": "glad you liked it"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("reviewee response: got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[model.Review](t, rec)
	if updated.Response == nil || updated.Response.Text != "glad you liked it" {
		t.Fatalf("response = %+v, want text set", updated.Response)
	}
}

func TestReviewDeleteReviewerOnly(t *testing.T) {
	e, st, tokens := newServer()
	buyer := seedUser(t, st, model.RoleBuyer)
	provider := seedUser(t, st, model.RoleServiceProvider)
	r := seedReview(t, e, bearer(t, tokens, buyer), provider, 4)

	rec := do(e, http.MethodDelete, "/api/reviews/"+r.ID.String(), bearer(t, tokens, provider), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("reviewee delete: got %d, want 403", rec.Code)
	}

	rec = do(e, http.MethodDelete, "/api/reviews/"+r.ID.String(), bearer(t, tokens, buyer), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reviewer delete: got %d, want 204", rec.Code)
	}

	rec = do(e, http.MethodGet, "/api/reviews/"+r.ID.String(), bearer(t, tokens, buyer), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got %d, want 404", rec.Code)
	}
}
