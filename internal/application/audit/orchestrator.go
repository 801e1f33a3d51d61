package audit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/eshaffer321/subscription-auditor/internal/domain/merger"
	"github.com/eshaffer321/subscription-auditor/internal/domain/subscription"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
	"github.com/eshaffer321/subscription-auditor/internal/observability"
)

// Run executes one full audit: fetch signals from both sources, adapt
// them into partial records, merge by canonical identity, enrich, and
// record the snapshot. Source failures abort the run; run-tracking
// failures are logged and the result is still returned.
func (a *Auditor) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	a.logger.Info("starting subscription audit")

	signals, err := a.emailSource.FindSubscriptionSignals(ctx)
	if err != nil {
		observability.AuditRunsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("fetching email signals: %w", err)
	}
	a.logger.Debug("email source scanned", "signals", len(signals))

	charges, err := a.statementSource.FindRecurringCharges(ctx)
	if err != nil {
		observability.AuditRunsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("fetching statement charges: %w", err)
	}
	a.logger.Debug("statement source scanned", "recurring_charges", len(charges))

	runID := a.startRun(len(signals), len(charges))

	emailPartials := make([]subscription.Partial, 0, len(signals))
	for _, sig := range signals {
		emailPartials = append(emailPartials, a.adapter.FromEmailSignal(sig))
	}
	bankPartials := make([]subscription.Partial, 0, len(charges))
	for _, ch := range charges {
		bankPartials = append(bankPartials, a.adapter.FromStatementCharge(ch))
	}

	merged, decisions := merger.Merge(emailPartials, bankPartials)
	a.logger.Debug("sources merged", "entities", len(merged), "decisions", len(decisions))

	result := &Result{
		RunID:        runID,
		Decisions:    decisions,
		EmailSignals: len(signals),
		BankCharges:  len(charges),
	}

	var monthlyTotal float64
	records := make([]*storage.SubscriptionRecord, 0, len(merged))
	for key, sub := range merged {
		a.enricher.Enrich(sub)
		result.Subscriptions = append(result.Subscriptions, *sub)
		if sub.RefundEligible {
			result.RefundCandidates = append(result.RefundCandidates, *sub)
		}
		monthlyTotal += sub.Cost
		records = append(records, storage.NewSubscriptionRecord(runID, key, *sub))
	}
	sort.Slice(result.Subscriptions, func(i, j int) bool {
		return result.Subscriptions[i].Name < result.Subscriptions[j].Name
	})
	sort.Slice(result.RefundCandidates, func(i, j int) bool {
		return result.RefundCandidates[i].Name < result.RefundCandidates[j].Name
	})

	a.saveRun(runID, records, result)

	result.Duration = time.Since(start)

	observability.AuditRunsTotal.WithLabelValues("completed").Inc()
	observability.AuditDuration.Observe(result.Duration.Seconds())
	observability.SubscriptionsFound.Set(float64(len(result.Subscriptions)))
	observability.RefundCandidates.Set(float64(len(result.RefundCandidates)))
	observability.MonthlyCostTotal.Set(monthlyTotal)

	a.logger.Info("audit complete",
		"subscriptions", len(result.Subscriptions),
		"refund_candidates", len(result.RefundCandidates),
		"duration", result.Duration.Round(time.Millisecond),
	)
	return result, nil
}

func (a *Auditor) startRun(emailSignals, bankCharges int) int64 {
	if a.repo == nil {
		return 0
	}
	runID, err := a.repo.StartAuditRun(emailSignals, bankCharges)
	if err != nil {
		a.logger.Warn("failed to record audit run start", "error", err)
		return 0
	}
	return runID
}

func (a *Auditor) saveRun(runID int64, records []*storage.SubscriptionRecord, result *Result) {
	if a.repo == nil || runID == 0 {
		return
	}
	if err := a.repo.SaveSnapshot(runID, records); err != nil {
		a.logger.Warn("failed to save subscription snapshot", "run_id", runID, "error", err)
	}
	var monthlyTotal, refundTotal float64
	for _, s := range result.Subscriptions {
		monthlyTotal += s.Cost
	}
	for _, s := range result.RefundCandidates {
		refundTotal += s.Cost
	}
	summary := storage.RunSummary{
		SubscriptionsFound:    len(result.Subscriptions),
		RefundCandidates:      len(result.RefundCandidates),
		TotalMonthlyCost:      monthlyTotal,
		PotentialRefundAmount: refundTotal,
	}
	if err := a.repo.CompleteAuditRun(runID, summary); err != nil {
		a.logger.Warn("failed to complete audit run", "run_id", runID, "error", err)
	}
}
