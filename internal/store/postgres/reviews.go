package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/model"
	"github.com/sudo-init-do/skillmarket/internal/mutation"
)

type reviewStore struct{ pool *pgxpool.Pool }

var reviewScalarCols = map[string]column{
	"rating":   {name: "rating"},
	"comment":  {name: "comment"},
	"response": {name: "response", jsonb: true},
}

// reviews have no appendable sequence fields
var reviewSeqCols = map[string]string{}

const reviewCols = `id, reviewer, reviewee, service, rating, comment,
	response, created_at, updated_at`

func scanReview(row pgx.Row) (*model.Review, error) {
	var (
		r        model.Review
		response []byte
	)
	err := row.Scan(&r.ID, &r.Reviewer, &r.Reviewee, &r.Service, &r.Rating,
		&r.Comment, &response, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(response) > 0 {
		if err := json.Unmarshal(response, &r.Response); err != nil {
			return nil, err
		}
	}
	return &r, nil
}

func (rs *reviewStore) Create(ctx context.Context, r *model.Review) error {
	var response *string
	if r.Response != nil {
		b, _ := json.Marshal(r.Response)
		s := string(b)
		response = &s
	}
	_, err := rs.pool.Exec(ctx, `
		INSERT INTO reviews (id, reviewer, reviewee, service, rating, comment,
			response, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		r.ID, r.Reviewer, r.Reviewee, r.Service, r.Rating, r.Comment,
		response, r.CreatedAt)
	return mapErr(err, "review not found")
}

func (rs *reviewStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	row := rs.pool.QueryRow(ctx, `SELECT `+reviewCols+` FROM reviews WHERE id = $1`, id)
	r, err := scanReview(row)
	if err != nil {
		return nil, mapErr(err, "review not found")
	}
	return r, nil
}

func (rs *reviewStore) list(ctx context.Context, query string, args ...any) ([]model.Review, error) {
	rows, err := rs.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err, "review not found")
	}
	defer rows.Close()
	out := []model.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		out = append(out, *r)
	}
	return out, mapErr(rows.Err(), "review not found")
}

func (rs *reviewStore) List(ctx context.Context) ([]model.Review, error) {
	return rs.list(ctx, `SELECT `+reviewCols+` FROM reviews ORDER BY created_at`)
}

func (rs *reviewStore) ListByReviewee(ctx context.Context, reviewee uuid.UUID) ([]model.Review, error) {
	return rs.list(ctx,
		`SELECT `+reviewCols+` FROM reviews WHERE reviewee = $1 ORDER BY created_at`, reviewee)
}

func (rs *reviewStore) ListByService(ctx context.Context, service uuid.UUID) ([]model.Review, error) {
	return rs.list(ctx,
		`SELECT `+reviewCols+` FROM reviews WHERE service = $1 ORDER BY created_at`, service)
}

func (rs *reviewStore) Update(ctx context.Context, id uuid.UUID, plan mutation.Plan) (*model.Review, error) {
	query, args, err := buildUpdate("reviews", reviewScalarCols, reviewSeqCols, plan, reviewCols)
	if err != nil {
		return nil, err
	}
	row := rs.pool.QueryRow(ctx, query, append(args, id)...)
	r, err := scanReview(row)
	if err != nil {
		return nil, mapErr(err, "review not found")
	}
	return r, nil
}

func (rs *reviewStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := rs.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "review not found")
	}
	if tag.RowsAffected() == 0 {
		return apierr.NotFound("review not found")
	}
	return nil
}
