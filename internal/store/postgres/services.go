package postgres

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/model"
	"github.com/sudo-init-do/skillmarket/internal/mutation"
	"github.com/sudo-init-do/skillmarket/internal/store"
)

type serviceStore struct{ pool *pgxpool.Pool }

var serviceScalarCols = map[string]column{
	"title":       {name: "title"},
	"description": {name: "description"},
	"category":    {name: "category"},
	"subcategory": {name: "subcategory"},
	"price":       {name: "price"},
	"currency":    {name: "currency"},
	"duration":    {name: "duration"},
	"picture":     {name: "picture"},
}

var serviceSeqCols = map[string]string{
	"portfolio": "portfolio",
}

const serviceCols = `id, title, description, category, subcategory, price,
	currency, duration, service_provider, portfolio, picture, created_at, updated_at`

func scanService(row pgx.Row) (*model.Service, error) {
	var (
		sv        model.Service
		portfolio []byte
	)
	err := row.Scan(&sv.ID, &sv.Title, &sv.Description, &sv.Category, &sv.Subcategory,
		&sv.Price, &sv.Currency, &sv.Duration, &sv.ServiceProvider, &portfolio,
		&sv.Picture, &sv.CreatedAt, &sv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(portfolio, &sv.Portfolio); err != nil {
		return nil, err
	}
	return &sv, nil
}

func (ss *serviceStore) Create(ctx context.Context, sv *model.Service) error {
	portfolio, _ := json.Marshal(sv.Portfolio)
	_, err := ss.pool.Exec(ctx, `
		INSERT INTO services (id, title, description, category, subcategory,
			price, currency, duration, service_provider, portfolio, picture,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		sv.ID, sv.Title, sv.Description, sv.Category, sv.Subcategory,
		sv.Price, sv.Currency, sv.Duration, sv.ServiceProvider,
		string(portfolio), sv.Picture, sv.CreatedAt)
	return mapErr(err, "service not found")
}

func (ss *serviceStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	row := ss.pool.QueryRow(ctx, `SELECT `+serviceCols+` FROM services WHERE id = $1`, id)
	sv, err := scanService(row)
	if err != nil {
		return nil, mapErr(err, "service not found")
	}
	return sv, nil
}

func (ss *serviceStore) List(ctx context.Context, f store.ServiceFilter) ([]model.Service, error) {
	where := []string{}
	args := []any{}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, "category = $"+itoa(len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		where = append(where, "price >= $"+itoa(len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		where = append(where, "price <= $"+itoa(len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := itoa(len(args))
		where = append(where, "(title ILIKE $"+n+" OR description ILIKE $"+n+")")
	}
	query := `SELECT ` + serviceCols + ` FROM services`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at"

	rows, err := ss.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err, "service not found")
	}
	defer rows.Close()
	out := []model.Service{}
	for rows.Next() {
		sv, err := scanService(rows)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		out = append(out, *sv)
	}
	return out, mapErr(rows.Err(), "service not found")
}

func (ss *serviceStore) Update(ctx context.Context, id uuid.UUID, plan mutation.Plan) (*model.Service, error) {
	query, args, err := buildUpdate("services", serviceScalarCols, serviceSeqCols, plan, serviceCols)
	if err != nil {
		return nil, err
	}
	row := ss.pool.QueryRow(ctx, query, append(args, id)...)
	sv, err := scanService(row)
	if err != nil {
		return nil, mapErr(err, "service not found")
	}
	return sv, nil
}

func (ss *serviceStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := ss.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "service not found")
	}
	if tag.RowsAffected() == 0 {
		return apierr.NotFound("service not found")
	}
	return nil
}
