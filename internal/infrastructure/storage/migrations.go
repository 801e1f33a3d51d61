package storage

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database schema migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up:      migration001InitialSchema,
	},
	{
		Version: 2,
		Name:    "add_refund_requests_table",
		Up:      migration002AddRefundRequestsTable,
	},
}

// runMigrations executes all pending migrations
func (s *Storage) runMigrations() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range allMigrations {
		if applied[migration.Version] {
			continue
		}

		log.Printf("Running migration %d: %s", migration.Version, migration.Name)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		_, err = tx.Exec(`
			INSERT INTO schema_migrations (version, name) VALUES (?, ?)
		`, migration.Version, migration.Name)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// ensureMigrationsTable creates the schema_migrations table if needed
func (s *Storage) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// getAppliedMigrations returns the set of applied migration versions
func (s *Storage) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

func migration001InitialSchema(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE audit_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			completed_at DATETIME,
			status TEXT NOT NULL DEFAULT 'running',
			email_signals INTEGER NOT NULL DEFAULT 0,
			bank_charges INTEGER NOT NULL DEFAULT 0,
			subscriptions_found INTEGER NOT NULL DEFAULT 0,
			refund_candidates INTEGER NOT NULL DEFAULT 0,
			total_monthly_cost REAL NOT NULL DEFAULT 0,
			potential_refund_amount REAL NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		CREATE TABLE subscriptions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES audit_runs(id),
			key TEXT NOT NULL,
			name TEXT NOT NULL,
			cost REAL NOT NULL,
			billing_cycle TEXT NOT NULL,
			last_charged DATETIME,
			vendor_email TEXT NOT NULL DEFAULT '',
			cancellation_url TEXT NOT NULL DEFAULT '',
			phone_number TEXT NOT NULL DEFAULT '',
			usage_score REAL NOT NULL DEFAULT 0,
			refund_eligible BOOLEAN NOT NULL DEFAULT 0,
			days_since_signup INTEGER NOT NULL DEFAULT 0,
			signup_known BOOLEAN NOT NULL DEFAULT 0,
			category TEXT NOT NULL DEFAULT 'other',
			UNIQUE(run_id, key)
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`CREATE INDEX idx_subscriptions_run_id ON subscriptions(run_id)`)
	return err
}

func migration002AddRefundRequestsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE refund_requests (
			id TEXT PRIMARY KEY,
			run_id INTEGER NOT NULL REFERENCES audit_runs(id),
			subscription_name TEXT NOT NULL,
			amount REAL NOT NULL,
			vendor_email TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`CREATE INDEX idx_refund_requests_run_id ON refund_requests(run_id)`)
	return err
}
