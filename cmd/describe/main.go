// cmd/describe/main.go
// Generates descriptions for every player that is missing one.
//
// Usage:
//
//	GITHUB_TOKEN=... BATCH_SIZE=50 DELAY_MS=1000 go run ./cmd/describe
//
// Exit status is 0 when the pass completes (even with per-player failures),
// 2 when the generator cannot be built, and 1 for any other abort.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/padraicbc/batstats/config"
	bundb "github.com/padraicbc/batstats/db"
	"github.com/padraicbc/batstats/describe"
	"github.com/padraicbc/batstats/llm"
	applog "github.com/padraicbc/batstats/logger"
)

const (
	exitOK    = 0
	exitAbort = 1
	exitFatal = 2
)

func main() {
	cfg := config.Parse()
	logger, err := applog.New(cfg.Debug, "describe")
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, logger)
	stop()
	_ = logger.Sync()
	os.Exit(code)
}

// run takes an unvalidated config so a missing credential is reported as
// fatal before any other setting is looked at.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) int {
	newGen := func() (llm.Generator, error) { return llm.New(cfg.LLM) }
	if _, err := newGen(); err != nil {
		logger.Error("fatal: cannot build description generator", zap.Error(err))
		return exitFatal
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return exitAbort
	}

	bdb, err := bundb.Open(ctx, cfg)
	if err != nil {
		logger.Error("database unavailable", zap.Error(err))
		return exitAbort
	}
	defer bdb.Close()

	if err := bundb.CreateTables(ctx, bdb); err != nil {
		logger.Error("create tables failed", zap.Error(err))
		return exitAbort
	}

	logger.Info("starting description generation",
		zap.Int("batch_size", cfg.Backfill.BatchSize),
		zap.Duration("delay", cfg.Backfill.Delay),
		zap.Duration("cooldown", cfg.Backfill.Cooldown),
	)

	b := describe.NewBackfill(cfg.Backfill, bundb.NewPlayerStore(bdb), newGen, logger)
	sum, err := b.Run(ctx)
	switch {
	case errors.Is(err, describe.ErrFatalPrecondition):
		logger.Error("fatal: backfill precondition failed", zap.Error(err))
		return exitFatal
	case err != nil:
		logger.Error("backfill aborted", append(sum.Fields(), zap.Error(err))...)
		return exitAbort
	}

	logger.Info("backfill summary", sum.Fields()...)
	return exitOK
}
