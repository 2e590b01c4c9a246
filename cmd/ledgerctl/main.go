// Command ledgerctl runs operator commands against a guild ledger backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guild-ledger/config"
	"guild-ledger/internal/app"
	"guild-ledger/internal/ledgerctl"
	"guild-ledger/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ./config.yaml)")
	flag.Usage = func() {
		ledgerctl.Usage(os.Stderr)
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ledger, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise ledger")
	}

	runErr := ledgerctl.Run(ctx, ledgerctl.Env{
		Ledger:          ledger,
		Out:             os.Stdout,
		Err:             os.Stderr,
		AllowCrossGuild: cfg.Ledger.AllowCrossGuildRollback,
	}, flag.Args())

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ledger.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("Ledger shutdown failed")
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		if errors.Is(runErr, ledgerctl.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
