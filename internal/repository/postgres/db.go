package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to Postgres with sane pool defaults and verifies the
// connection with a ping.
func Open(ctx context.Context, dbURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Unique index names on the registrations table. The repository maps
// constraint violations back to domain errors by these names.
const (
	constraintLDAPID     = "registrations_ldap_id_key"
	constraintRollNumber = "registrations_roll_number_key"
	constraintRegNumber  = "registrations_registration_number_key"
)

// EnsureSchema creates the registrations table and its unique indexes.
// All statements are idempotent so it is safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		`CREATE TABLE IF NOT EXISTS registrations (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			registration_number text NOT NULL,
			name text NOT NULL,
			ldap_id text NOT NULL,
			roll_number text NOT NULL,
			branch text NOT NULL,
			year text NOT NULL,
			interested_events text[] NOT NULL,
			phone_number text,
			status text NOT NULL DEFAULT 'confirmed',
			registration_date timestamptz NOT NULL DEFAULT now(),
			ip_address text,
			client_signature text
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + constraintLDAPID + ` ON registrations (ldap_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + constraintRollNumber + ` ON registrations (roll_number)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + constraintRegNumber + ` ON registrations (registration_number)`,
		`CREATE INDEX IF NOT EXISTS registrations_status_idx ON registrations (status)`,
		`CREATE INDEX IF NOT EXISTS registrations_date_idx ON registrations (registration_date)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
