package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for the audit trail.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// StartAuditRun inserts a new running audit and returns its ID
func (s *Storage) StartAuditRun(emailSignals, bankCharges int) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO audit_runs (status, email_signals, bank_charges)
		VALUES ('running', ?, ?)
	`, emailSignals, bankCharges)
	if err != nil {
		return 0, fmt.Errorf("failed to start audit run: %w", err)
	}
	return result.LastInsertId()
}

// CompleteAuditRun marks a run completed with its summary figures
func (s *Storage) CompleteAuditRun(runID int64, summary RunSummary) error {
	_, err := s.db.Exec(`
		UPDATE audit_runs
		SET completed_at = CURRENT_TIMESTAMP,
		    status = 'completed',
		    subscriptions_found = ?,
		    refund_candidates = ?,
		    total_monthly_cost = ?,
		    potential_refund_amount = ?
		WHERE id = ?
	`, summary.SubscriptionsFound, summary.RefundCandidates, summary.TotalMonthlyCost, summary.PotentialRefundAmount, runID)
	if err != nil {
		return fmt.Errorf("failed to complete audit run %d: %w", runID, err)
	}
	return nil
}

const auditRunColumns = `id, started_at, COALESCE(completed_at, ''), status,
	email_signals, bank_charges, subscriptions_found, refund_candidates,
	total_monthly_cost, potential_refund_amount`

func scanAuditRun(scanner interface{ Scan(...any) error }) (*AuditRun, error) {
	run := &AuditRun{}
	err := scanner.Scan(
		&run.ID,
		&run.StartedAt,
		&run.CompletedAt,
		&run.Status,
		&run.EmailSignals,
		&run.BankCharges,
		&run.SubscriptionsFound,
		&run.RefundCandidates,
		&run.TotalMonthlyCost,
		&run.PotentialRefundAmount,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListAuditRuns returns recent runs, newest first
func (s *Storage) ListAuditRuns(limit int) ([]AuditRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT `+auditRunColumns+` FROM audit_runs
		ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []AuditRun
	for rows.Next() {
		run, err := scanAuditRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetAuditRun retrieves a run by ID
func (s *Storage) GetAuditRun(runID int64) (*AuditRun, error) {
	row := s.db.QueryRow(`SELECT `+auditRunColumns+` FROM audit_runs WHERE id = ?`, runID)
	run, err := scanAuditRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// LatestAuditRun returns the most recent completed run, nil if none
func (s *Storage) LatestAuditRun() (*AuditRun, error) {
	row := s.db.QueryRow(`
		SELECT ` + auditRunColumns + ` FROM audit_runs
		WHERE status = 'completed'
		ORDER BY id DESC LIMIT 1
	`)
	run, err := scanAuditRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// SaveSnapshot persists the reconciled subscription set for a run
func (s *Storage) SaveSnapshot(runID int64, records []*SubscriptionRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO subscriptions
		(run_id, key, name, cost, billing_cycle, last_charged, vendor_email,
		 cancellation_url, phone_number, usage_score, refund_eligible,
		 days_since_signup, signup_known, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.Exec(
			runID,
			rec.Key,
			rec.Name,
			rec.Cost,
			rec.BillingCycle,
			rec.LastCharged,
			rec.VendorEmail,
			rec.CancellationURL,
			rec.PhoneNumber,
			rec.UsageScore,
			rec.RefundEligible,
			rec.DaysSinceSignup,
			rec.SignupKnown,
			rec.Category,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save subscription %q: %w", rec.Name, err)
		}
	}

	return tx.Commit()
}

// ListSubscriptions returns snapshot rows matching the filters
func (s *Storage) ListSubscriptions(filters SubscriptionFilters) ([]*SubscriptionRecord, error) {
	runID := filters.RunID
	if runID == 0 {
		latest, err := s.LatestAuditRun()
		if err != nil {
			return nil, err
		}
		if latest == nil {
			return []*SubscriptionRecord{}, nil
		}
		runID = latest.ID
	}

	query := `
		SELECT id, run_id, key, name, cost, billing_cycle, last_charged,
		       vendor_email, cancellation_url, phone_number, usage_score,
		       refund_eligible, days_since_signup, signup_known, category
		FROM subscriptions WHERE run_id = ?
	`
	args := []any{runID}

	if filters.Category != "" {
		query += " AND category = ?"
		args = append(args, filters.Category)
	}
	if filters.RefundEligible != nil {
		query += " AND refund_eligible = ?"
		args = append(args, *filters.RefundEligible)
	}

	query += " ORDER BY name COLLATE NOCASE"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*SubscriptionRecord{}
	for rows.Next() {
		rec := &SubscriptionRecord{}
		var lastCharged sql.NullTime
		err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.Key,
			&rec.Name,
			&rec.Cost,
			&rec.BillingCycle,
			&lastCharged,
			&rec.VendorEmail,
			&rec.CancellationURL,
			&rec.PhoneNumber,
			&rec.UsageScore,
			&rec.RefundEligible,
			&rec.DaysSinceSignup,
			&rec.SignupKnown,
			&rec.Category,
		)
		if err != nil {
			return nil, err
		}
		if lastCharged.Valid {
			rec.LastCharged = lastCharged.Time
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetStats returns aggregate statistics over the latest completed run
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{SpendByCategory: make(map[string]float64)}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM audit_runs`).Scan(&stats.TotalRuns); err != nil {
		return nil, err
	}

	latest, err := s.LatestAuditRun()
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return stats, nil
	}

	stats.LatestRunID = latest.ID
	stats.Subscriptions = latest.SubscriptionsFound
	stats.TotalMonthlyCost = latest.TotalMonthlyCost
	stats.RefundCandidates = latest.RefundCandidates
	stats.PotentialRefundAmount = latest.PotentialRefundAmount

	rows, err := s.db.Query(`
		SELECT category, SUM(cost) FROM subscriptions
		WHERE run_id = ? GROUP BY category
	`, latest.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, err
		}
		stats.SpendByCategory[category] = total
	}

	return stats, rows.Err()
}

// SaveRefundRequest saves a generated refund request outcome
func (s *Storage) SaveRefundRequest(req *RefundRequest) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO refund_requests
		(id, run_id, subscription_name, amount, vendor_email, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		req.ID,
		req.RunID,
		req.SubscriptionName,
		req.Amount,
		req.VendorEmail,
		req.Status,
		req.ErrorMessage,
		req.CreatedAt,
	)
	return err
}

// ListRefundRequests returns requests for a run (0 = all), newest first
func (s *Storage) ListRefundRequests(runID int64) ([]RefundRequest, error) {
	query := `
		SELECT id, run_id, subscription_name, amount, vendor_email, status, error_message, created_at
		FROM refund_requests
	`
	args := []any{}
	if runID > 0 {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []RefundRequest{}
	for rows.Next() {
		var req RefundRequest
		err := rows.Scan(
			&req.ID,
			&req.RunID,
			&req.SubscriptionName,
			&req.Amount,
			&req.VendorEmail,
			&req.Status,
			&req.ErrorMessage,
			&req.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}
