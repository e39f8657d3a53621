package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/02loveslollipop/pollbooth/services/seeder/internal/config"
	"github.com/02loveslollipop/pollbooth/services/seeder/internal/db"
	"github.com/02loveslollipop/pollbooth/services/seeder/internal/seed"
	"github.com/02loveslollipop/pollbooth/services/seeder/internal/workbook"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatalf("seeder failed: %v", err)
	}
}

func newRootCommand() *cobra.Command {
	var (
		workbookPath string
		table        string
		batchSize    int
		backupPath   string
		logLevel     string
		timeout      time.Duration
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:           "seeder",
		Short:         "Load polling station results from the election workbook into the document store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("workbook") {
				cfg.Workbook = workbookPath
			}
			if flags.Changed("table") {
				cfg.Table = table
			}
			if flags.Changed("batch-size") {
				cfg.BatchSize = batchSize
			}
			if flags.Changed("backup") {
				cfg.BackupPath = backupPath
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = config.NormalizeLevel(logLevel)
			}
			if flags.Changed("timeout") {
				cfg.Timeout = timeout
			}
			if flags.Changed("dry-run") {
				cfg.DryRun = dryRun
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&workbookPath, "workbook", "", "path to the election workbook (SEED_WORKBOOK)")
	flags.StringVar(&table, "table", "", "documents table, optionally schema-qualified (SEED_TABLE)")
	flags.IntVar(&batchSize, "batch-size", 0, "documents per committed batch, below 500 (SEED_BATCH_SIZE)")
	flags.StringVar(&backupPath, "backup", "", "where to write the parsed 2024 backup; empty disables it (SEED_BACKUP_PATH)")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (SEED_LOG_LEVEL)")
	flags.DurationVar(&timeout, "timeout", 0, "overall run deadline (SEED_TIMEOUT)")
	flags.BoolVar(&dryRun, "dry-run", false, "parse and reconcile but only log the batches (DRY_RUN)")

	return cmd
}

func run(parent context.Context, cfg config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})).
		With(slog.String("run_id", uuid.NewString()))
	slog.SetDefault(logger)

	wb, err := workbook.Load(cfg.Workbook, seed.Sheets()...)
	if err != nil {
		return err
	}
	logger.Info("loaded workbook", slog.String("path", cfg.Workbook))

	ctx, cancel := context.WithTimeout(parent, cfg.Timeout)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL, cfg.Table)
	if err != nil {
		return err
	}
	defer store.Close()

	var committer seed.Committer = store
	if cfg.DryRun {
		logger.Info("dry-run: skipping schema bootstrap and writes")
		committer = seed.DryRunCommitter{Logger: logger}
	} else if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	seeder := seed.New(committer, store, seed.Options{
		BatchSize:  cfg.BatchSize,
		BackupPath: cfg.BackupPath,
	}, logger)

	started := time.Now()
	sum, err := seeder.Run(ctx, wb)
	if err != nil {
		logger.Error("run aborted", slog.Int("total_writes", sum.Written), slog.Any("error", err))
		return err
	}

	logger.Info("seeding complete",
		slog.Int("total_writes", sum.Written),
		slog.Int("merged", sum.Merged),
		slog.Int("reconciled", sum.Reconciled),
		slog.Int("unmatched", len(sum.Unmatched)),
		slog.Bool("dry_run", cfg.DryRun),
		slog.Duration("elapsed", time.Since(started)))
	return nil
}
