// Package audit orchestrates a full reconciliation run: discover raw
// records from both sources, adapt, merge, enrich, and persist the
// resulting snapshot.
package audit

import (
	"log/slog"
	"time"

	"github.com/eshaffer321/subscription-auditor/internal/adapters/sources"
	"github.com/eshaffer321/subscription-auditor/internal/domain/enrich"
	"github.com/eshaffer321/subscription-auditor/internal/domain/merger"
	"github.com/eshaffer321/subscription-auditor/internal/domain/subscription"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
)

// Options holds audit configuration
type Options struct {
	Verbose bool
}

// Result holds the outcome of one audit run
type Result struct {
	RunID            int64
	Subscriptions    []subscription.Subscription
	RefundCandidates []subscription.Subscription
	Decisions        []merger.Decision
	EmailSignals     int
	BankCharges      int
	Duration         time.Duration
}

// Auditor runs the reconciliation pipeline
type Auditor struct {
	emailSource     sources.EmailSource
	statementSource sources.StatementSource
	adapter         *sources.Adapter
	enricher        *enrich.Enricher
	repo            storage.Repository
	logger          *slog.Logger
}

// NewAuditor creates an auditor. The repository is optional: a nil repo
// skips run tracking but never changes the reconciliation itself. A nil
// scorer uses the age-bucket heuristic.
func NewAuditor(
	emailSource sources.EmailSource,
	statementSource sources.StatementSource,
	repo storage.Repository,
	scorer enrich.Scorer,
	logger *slog.Logger,
) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{
		emailSource:     emailSource,
		statementSource: statementSource,
		adapter:         sources.NewAdapter(nil),
		enricher:        enrich.New(scorer),
		repo:            repo,
		logger:          logger,
	}
}
