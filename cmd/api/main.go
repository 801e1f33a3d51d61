package main

import (
	"log/slog"
	"os"

	"github.com/subosito/gotenv"

	"github.com/eshaffer321/subscription-auditor/internal/cli"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/config"
)

func main() {
	_ = gotenv.Load()

	flags := cli.ParseServeFlags()

	var cfg *config.Config
	if flags.ConfigFile != "" {
		loaded, err := config.Load(flags.ConfigFile)
		if err != nil {
			slog.Error("failed to load config file", "path", flags.ConfigFile, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrEnv()
	}

	if err := cli.RunServe(cfg, flags); err != nil {
		slog.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}
