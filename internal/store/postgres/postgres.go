// Package postgres implements the store interfaces on pgx. Sequence fields
// live in jsonb columns so a whole mutation plan — scalar patch plus appends
// — is applied by a single UPDATE statement and cannot half-apply.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sudo-init-do/skillmarket/internal/apierr"
	"github.com/sudo-init-do/skillmarket/internal/store"
)

type Store struct {
	pool *pgxpool.Pool
}

// Open connects, pings, and ensures the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Users() store.UserStore       { return &userStore{s.pool} }
func (s *Store) Services() store.ServiceStore { return &serviceStore{s.pool} }
func (s *Store) Orders() store.OrderStore     { return &orderStore{s.pool} }
func (s *Store) Reviews() store.ReviewStore   { return &reviewStore{s.pool} }

// mapErr translates driver failures into the shared taxonomy.
func mapErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apierr.NotFound(notFoundMsg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apierr.Conflict("duplicate value for a unique field")
	}
	return apierr.Internal(err)
}
