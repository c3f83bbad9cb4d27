package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiaochun-z/dirprofile/internal/config"
	"github.com/xiaochun-z/dirprofile/internal/logging"
	"github.com/xiaochun-z/dirprofile/internal/preflight"
	"github.com/xiaochun-z/dirprofile/internal/profiler"
	"github.com/xiaochun-z/dirprofile/internal/store"
	"github.com/xiaochun-z/dirprofile/internal/ui"
)

func loadConfig(cmd *cobra.Command, f rootFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil && !configNotFound(err, cmd.Flags().Changed("config")) {
		return nil, fmt.Errorf("config %s: %w", f.configPath, err)
	}

	fl := cmd.Flags()
	if fl.Changed("directory") {
		cfg.Directory = f.directory
	}
	if fl.Changed("database") {
		cfg.Database = f.database
	}
	if fl.Changed("log") {
		cfg.LogPath = f.logPath
	}
	if fl.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if fl.Changed("hash") {
		cfg.Hash = f.hash
	}
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("filter-list") {
		cfg.FilterListPath = f.filterList
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config invalid: %w", err)
	}
	return cfg, nil
}

func checkPaths(cfg *config.Config) error {
	if err := preflight.CheckDirectory(cfg.Directory); err != nil {
		return err
	}
	if err := preflight.CheckOutputFile(cfg.Database); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := preflight.CheckOutputFile(cfg.LogPath); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func runProfile(cmd *cobra.Command, f rootFlags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	if err := checkPaths(cfg); err != nil {
		return err
	}

	logger, logFile, err := logging.Open(cfg.LogPath, cfg.Verbose)
	if err != nil {
		return err
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	logStartup(cfg.Directory)

	db, err := store.Open(cfg.Database)
	if err != nil {
		slog.Error("open database", "error", err)
		return err
	}
	defer db.Close()

	var (
		loader  *ui.Loader
		console = cmd.OutOrStdout()
	)
	if !cfg.Verbose {
		loader = ui.Start("profiling "+cfg.Directory, 120*time.Millisecond)
		console = nil
	}
	notifier := ui.NewMessageNotifier(console, loader)

	sum, err := profiler.New(cfg, db, notifier).RunOnce(cmd.Context())
	if err != nil {
		loader.Stop("")
		slog.Error("profile failed", "error", err)
		return err
	}
	loader.Stop("")

	slog.Info("Directory Profiler has finished operating",
		"directories", sum.Directories,
		"files", sum.Files,
		"hashed", sum.Hashed,
		"reused", sum.Reused,
		"unreadable", sum.Unreadable,
		"stored_files", sum.FilesWritten,
		"duration", sum.Duration)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d directories, %d files (%d hashed, %d reused, %d unreadable) in %s\n",
		sum.Root, sum.Directories, sum.Files, sum.Hashed, sum.Reused, sum.Unreadable, sum.Duration.Round(time.Millisecond))
	if sum.Unreadable > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "some files were not readable; see", cfg.LogPath)
	}
	return nil
}
