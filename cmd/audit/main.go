package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/subosito/gotenv"

	"github.com/eshaffer321/subscription-auditor/internal/adapters/sources"
	"github.com/eshaffer321/subscription-auditor/internal/application/audit"
	"github.com/eshaffer321/subscription-auditor/internal/cli"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/config"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/logging"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
	"github.com/eshaffer321/subscription-auditor/internal/refund"
	"github.com/eshaffer321/subscription-auditor/internal/report"
)

func main() {
	_ = gotenv.Load()

	flags := cli.ParseAuditFlags()

	cfg := loadConfig(flags.ConfigFile)
	applyOverrides(cfg, flags)

	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "audit")

	cli.PrintHeader(flags.DryRun)
	cli.PrintConfiguration(cfg.Sources.InboxExportPath, cfg.Sources.StatementCSVPath)

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	emailSource := sources.NewInboxFileSource(cfg.Sources.InboxExportPath, logger)
	statementSource := sources.NewStatementCSVSource(cfg.Sources.StatementCSVPath, logger)

	auditor := audit.NewAuditor(emailSource, statementSource, store, nil, logger)
	result, err := auditor.Run(context.Background(), audit.Options{Verbose: flags.Verbose})
	if err != nil {
		logger.Error("audit failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cli.PrintAuditSummary(result)

	writer := report.NewWriter(cfg.Report.OutputDir, logger, nil)
	paths, err := writer.WriteAll(result.Subscriptions)
	if err != nil {
		logger.Error("failed to write reports", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.Report.XLSX {
		xlsxPath, err := writer.WriteXLSX(result.Subscriptions)
		if err != nil {
			logger.Error("failed to write xlsx report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		paths = append(paths, xlsxPath)
	}
	cli.PrintReports(paths)

	if flags.Refunds {
		var sender refund.Sender
		if flags.DryRun {
			sender = refund.DiscardSender{}
		} else {
			sender = refund.NewFileSender(cfg.Refund.OutputDir)
		}
		generator := refund.NewGenerator(sender, store, cfg.Refund.FromName, logger)
		refundResult := generator.GenerateAll(result.RunID, result.RefundCandidates)
		cli.PrintRefundSummary(refundResult)
	}
}

func loadConfig(path string) *config.Config {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			slog.Error("failed to load config file", "path", path, "error", err)
			os.Exit(1)
		}
		return cfg
	}
	return config.LoadOrEnv()
}

func applyOverrides(cfg *config.Config, flags cli.AuditFlags) {
	if flags.InboxPath != "" {
		cfg.Sources.InboxExportPath = flags.InboxPath
	}
	if flags.CSVPath != "" {
		cfg.Sources.StatementCSVPath = flags.CSVPath
	}
	if flags.OutputDir != "" {
		cfg.Report.OutputDir = flags.OutputDir
	}
	if flags.XLSX {
		cfg.Report.XLSX = true
	}
}
