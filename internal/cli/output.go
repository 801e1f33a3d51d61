package cli

import (
	"fmt"
	"strings"

	"github.com/eshaffer321/subscription-auditor/internal/application/audit"
	"github.com/eshaffer321/subscription-auditor/internal/refund"
)

// PrintHeader prints the application header
func PrintHeader(dryRun bool) {
	mode := "PRODUCTION"
	if dryRun {
		mode = "DRY-RUN"
	}
	fmt.Printf("subscription-auditor (%s mode)\n", mode)
}

// PrintConfiguration prints the active source paths
func PrintConfiguration(inboxPath, csvPath string) {
	fmt.Printf("Inbox export: %s | Statement CSV: %s\n\n", inboxPath, csvPath)
}

// PrintAuditSummary prints the audit result summary
func PrintAuditSummary(result *audit.Result) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Summary: Subscriptions=%d RefundCandidates=%d (signals: %d email, %d bank)\n",
		len(result.Subscriptions),
		len(result.RefundCandidates),
		result.EmailSignals,
		result.BankCharges)

	for _, s := range result.RefundCandidates {
		fmt.Printf("  refund candidate: %s ($%.2f, %d days old)\n", s.Name, s.Cost, s.DaysSinceSignup)
	}
}

// PrintRefundSummary prints the refund generation outcome
func PrintRefundSummary(result refund.Result) {
	fmt.Printf("\nRefund requests: Generated=%d Failed=%d\n", result.Generated, result.Failed)
	for _, err := range result.Errors {
		fmt.Printf("  - %v\n", err)
	}
}

// PrintReports lists the written report files
func PrintReports(paths []string) {
	fmt.Println("\nReports:")
	for _, p := range paths {
		fmt.Printf("  %s\n", p)
	}
}
