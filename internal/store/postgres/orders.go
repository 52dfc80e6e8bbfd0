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

type orderStore struct{ pool *pgxpool.Pool }

var orderScalarCols = map[string]column{
	"status":        {name: "status"},
	"paymentMethod": {name: "payment_method"},
	"paymentStatus": {name: "payment_status"},
}

var orderSeqCols = map[string]string{
	"communication": "communication",
	"attachments":   "attachments",
}

const orderCols = `id, buyer, service_provider, service, price, quantity,
	status, payment_method, payment_status, payment_transaction_id,
	start_date, end_date, communication, attachments, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o             model.Order
		status        string
		method        string
		payStatus     string
		communication []byte
		attachments   []byte
	)
	err := row.Scan(&o.ID, &o.Buyer, &o.ServiceProvider, &o.Service, &o.Price,
		&o.Quantity, &status, &method, &payStatus, &o.PaymentTransactionID,
		&o.StartDate, &o.EndDate, &communication, &attachments,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	o.PaymentMethod = model.PaymentMethod(method)
	o.PaymentStatus = model.PaymentStatus(payStatus)
	if err := json.Unmarshal(communication, &o.Communication); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attachments, &o.Attachments); err != nil {
		return nil, err
	}
	return &o, nil
}

func (os *orderStore) Create(ctx context.Context, o *model.Order) error {
	communication, _ := json.Marshal(o.Communication)
	attachments, _ := json.Marshal(o.Attachments)
	_, err := os.pool.Exec(ctx, `
		INSERT INTO orders (id, buyer, service_provider, service, price,
			quantity, status, payment_method, payment_status,
			payment_transaction_id, start_date, end_date, communication,
			attachments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)`,
		o.ID, o.Buyer, o.ServiceProvider, o.Service, o.Price, o.Quantity,
		string(o.Status), string(o.PaymentMethod), string(o.PaymentStatus),
		o.PaymentTransactionID, o.StartDate, o.EndDate,
		string(communication), string(attachments), o.CreatedAt)
	return mapErr(err, "order not found")
}

func (os *orderStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	row := os.pool.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, mapErr(err, "order not found")
	}
	return o, nil
}

func (os *orderStore) List(ctx context.Context) ([]model.Order, error) {
	rows, err := os.pool.Query(ctx, `SELECT `+orderCols+` FROM orders ORDER BY created_at`)
	if err != nil {
		return nil, mapErr(err, "order not found")
	}
	defer rows.Close()
	out := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		out = append(out, *o)
	}
	return out, mapErr(rows.Err(), "order not found")
}

func (os *orderStore) Update(ctx context.Context, id uuid.UUID, plan mutation.Plan) (*model.Order, error) {
	query, args, err := buildUpdate("orders", orderScalarCols, orderSeqCols, plan, orderCols)
	if err != nil {
		return nil, err
	}
	row := os.pool.QueryRow(ctx, query, append(args, id)...)
	o, err := scanOrder(row)
	if err != nil {
		return nil, mapErr(err, "order not found")
	}
	return o, nil
}

func (os *orderStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := os.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "order not found")
	}
	if tag.RowsAffected() == 0 {
		return apierr.NotFound("order not found")
	}
	return nil
}
