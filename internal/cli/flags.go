// Package cli holds flag parsing and terminal output shared by the
// command binaries.
package cli

import "flag"

// AuditFlags are the flags for the audit command
type AuditFlags struct {
	ConfigFile string
	InboxPath  string
	CSVPath    string
	OutputDir  string
	XLSX       bool
	Refunds    bool
	DryRun     bool
	Verbose    bool
}

// ParseAuditFlags parses audit command flags from the command line
func ParseAuditFlags() AuditFlags {
	var flags AuditFlags
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.InboxPath, "inbox", "", "Inbox export JSON path (overrides config)")
	flag.StringVar(&flags.CSVPath, "statement", "", "Bank statement CSV path (overrides config)")
	flag.StringVar(&flags.OutputDir, "out", "", "Report output directory (overrides config)")
	flag.BoolVar(&flags.XLSX, "xlsx", false, "Also write an XLSX report")
	flag.BoolVar(&flags.Refunds, "refunds", false, "Generate refund requests for eligible subscriptions")
	flag.BoolVar(&flags.DryRun, "dry-run", false, "Render refund requests without writing them")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}
