package postgres

import (
	"context"
	"fmt"
)

// ensureSchema creates the four resource tables when missing. Relationship
// columns are plain uuid values; ordered sequences are jsonb arrays.
func (s *Store) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			phone_number TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			profile_picture TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			social_media_links JSONB NOT NULL DEFAULT '{}',
			role TEXT NOT NULL DEFAULT '' CHECK (role IN ('', 'buyer', 'service_provider')),
			skills JSONB NOT NULL DEFAULT '[]',
			portfolio JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS services (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			subcategory TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
			currency TEXT NOT NULL,
			duration TEXT NOT NULL DEFAULT '',
			service_provider UUID NOT NULL REFERENCES users(id),
			portfolio JSONB NOT NULL DEFAULT '[]',
			picture TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_services_category ON services(category, subcategory)`,
		`CREATE INDEX IF NOT EXISTS idx_services_provider ON services(service_provider)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			buyer UUID NOT NULL REFERENCES users(id),
			service_provider UUID NOT NULL REFERENCES users(id),
			service UUID NOT NULL REFERENCES services(id),
			price DOUBLE PRECISION NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity >= 1),
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'in_progress', 'completed', 'cancelled')),
			payment_method TEXT NOT NULL
				CHECK (payment_method IN ('credit card', 'PayPal', 'mobile money')),
			payment_status TEXT NOT NULL DEFAULT 'pending'
				CHECK (payment_status IN ('pending', 'approved', 'declined')),
			payment_transaction_id TEXT NOT NULL DEFAULT '',
			start_date TIMESTAMPTZ NULL,
			end_date TIMESTAMPTZ NULL,
			communication JSONB NOT NULL DEFAULT '[]',
			attachments JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_provider ON orders(service_provider)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY,
			reviewer UUID NOT NULL REFERENCES users(id),
			reviewee UUID NOT NULL REFERENCES users(id),
			service UUID NULL REFERENCES services(id),
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT NOT NULL,
			response JSONB NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_reviewee ON reviews(reviewee)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_service ON reviews(service)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
