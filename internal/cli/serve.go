package cli

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/eshaffer321/subscription-auditor/internal/adapters/sources"
	"github.com/eshaffer321/subscription-auditor/internal/api"
	"github.com/eshaffer321/subscription-auditor/internal/application/audit"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/config"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/logging"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
)

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	ConfigFile string
	Port       int
	Verbose    bool
}

// ParseServeFlags parses command line flags for the serve command.
func ParseServeFlags() *ServeFlags {
	flags := &ServeFlags{}
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.IntVar(&flags.Port, "port", 0, "Port to listen on (overrides config)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}

// RunServe runs the API server, with scheduled audits when a cron spec
// is configured.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "api")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	emailSource := sources.NewInboxFileSource(cfg.Sources.InboxExportPath, logger)
	statementSource := sources.NewStatementCSVSource(cfg.Sources.StatementCSVPath, logger)
	auditService := audit.NewService(audit.NewAuditor(emailSource, statementSource, store, nil, logger))

	port := cfg.API.Port
	if flags.Port > 0 {
		port = flags.Port
	}
	origins := cfg.API.AllowedOrigins
	if len(origins) == 0 {
		origins = api.DefaultConfig().AllowedOrigins
	}
	apiCfg := api.Config{
		Port:           port,
		AllowedOrigins: origins,
	}

	server := api.NewServer(apiCfg, store, auditService, logger)

	// Scheduled audits
	var scheduler *cron.Cron
	if spec := cfg.API.AuditSchedule; spec != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(spec, func() {
			if _, err := auditService.Run(context.Background(), audit.Options{}); err != nil {
				logger.Error("scheduled audit failed", slog.Any("error", err))
			}
		})
		if err != nil {
			return err
		}
		scheduler.Start()
		logger.Info("scheduled audits enabled", "spec", spec)
	}

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		if scheduler != nil {
			<-scheduler.Stop().Done()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
