// Package report projects a reconciled subscription set into tabular and
// text artifacts: a CSV audit table, a plain-text summary, and optionally
// an XLSX workbook.
package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/eshaffer321/subscription-auditor/internal/domain/subscription"
)

// columns is the fixed audit-table header.
var columns = []string{
	"Name",
	"Monthly Cost",
	"Billing Cycle",
	"Last Charged",
	"Category",
	"Usage Score",
	"Refund Eligible",
	"Days Since Signup",
	"Vendor Email",
	"Cancellation URL",
}

// Writer produces report artifacts in an output directory.
type Writer struct {
	outputDir string
	logger    *slog.Logger
	now       func() time.Time
}

// NewWriter creates a report writer. A nil clock uses time.Now.
func NewWriter(outputDir string, logger *slog.Logger, now func() time.Time) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Writer{outputDir: outputDir, logger: logger, now: now}
}

// Summary holds the roll-up figures shown in the text report.
type Summary struct {
	TotalSubscriptions    int
	TotalMonthlyCost      float64
	RefundOpportunities   int
	PotentialRefundAmount float64
	SpendByCategory       map[subscription.Category]float64
}

// Summarize computes the roll-up figures for a subscription set.
func Summarize(subs []subscription.Subscription) Summary {
	summary := Summary{
		SpendByCategory: make(map[subscription.Category]float64),
	}
	for _, s := range subs {
		summary.TotalSubscriptions++
		summary.TotalMonthlyCost += s.Cost
		summary.SpendByCategory[s.Category] += s.Cost
		if s.RefundEligible {
			summary.RefundOpportunities++
			summary.PotentialRefundAmount += s.Cost
		}
	}
	return summary
}

// WriteAll writes the CSV table and text summary, returning the paths of
// the files written.
func (w *Writer) WriteAll(subs []subscription.Subscription) ([]string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", w.outputDir, err)
	}

	timestamp := w.now().Format("20060102_150405")

	csvPath := filepath.Join(w.outputDir, fmt.Sprintf("subscription_audit_%s.csv", timestamp))
	if err := w.writeCSV(csvPath, subs); err != nil {
		return nil, err
	}

	summaryPath := filepath.Join(w.outputDir, fmt.Sprintf("summary_%s.txt", timestamp))
	if err := w.writeSummary(summaryPath, Summarize(subs)); err != nil {
		return nil, err
	}

	w.logger.Info("Reports generated", "dir", w.outputDir, "count", len(subs))

	return []string{csvPath, summaryPath}, nil
}

// row projects one subscription to its CSV cells.
func row(s subscription.Subscription) []string {
	cancellation := s.CancellationURL
	if cancellation == "" {
		cancellation = "N/A"
	}
	return []string{
		s.Name,
		fmt.Sprintf("%.2f", s.Cost),
		string(s.BillingCycle),
		s.LastCharged.Format("2006-01-02"),
		string(s.Category),
		fmt.Sprintf("%.1f", s.UsageScore),
		strconv.FormatBool(s.RefundEligible),
		strconv.Itoa(s.DaysSinceSignup),
		s.VendorEmail,
		cancellation,
	}
}

func (w *Writer) writeCSV(path string, subs []subscription.Subscription) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, s := range subs {
		if err := cw.Write(row(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (w *Writer) writeSummary(path string, summary Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintln(f, "SUBSCRIPTION AUDIT SUMMARY")
	fmt.Fprintln(f, "==============================")
	fmt.Fprintln(f)
	fmt.Fprintf(f, "Total Subscriptions: %d\n", summary.TotalSubscriptions)
	fmt.Fprintf(f, "Total Monthly Cost: $%.2f\n", summary.TotalMonthlyCost)
	fmt.Fprintf(f, "Total Annual Cost: $%.2f\n", summary.TotalMonthlyCost*12)
	fmt.Fprintln(f)
	fmt.Fprintf(f, "Refund Opportunities: %d\n", summary.RefundOpportunities)
	fmt.Fprintf(f, "Potential Refund Amount: $%.2f\n", summary.PotentialRefundAmount)
	fmt.Fprintln(f)
	fmt.Fprintln(f, "Spending by Category:")

	// Deterministic category order
	categories := make([]string, 0, len(summary.SpendByCategory))
	for cat := range summary.SpendByCategory {
		categories = append(categories, string(cat))
	}
	sort.Strings(categories)
	for _, cat := range categories {
		fmt.Fprintf(f, "  %s: $%.2f\n", cat, summary.SpendByCategory[subscription.Category(cat)])
	}

	return nil
}
