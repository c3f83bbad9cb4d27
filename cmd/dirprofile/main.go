package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "v0.1"

const defaultConfigPath = "dirprofile.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	directory  string
	database   string
	logPath    string
	verbose    bool
	hash       string
	workers    int
	filterList string
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:           "dirprofile",
		Short:         "Gather information about a directory and write it into a database",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProfile(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", defaultConfigPath, "path to the YAML configuration file")
	fl.StringVarP(&f.directory, "directory", "d", "", "path to the directory for inspection")
	fl.StringVarP(&f.database, "database", "b", "", "path to the database for gathered information")
	fl.StringVarP(&f.logPath, "log", "l", "", "path to the logging file for writing")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "let process messages appear in the console")
	fl.StringVar(&f.hash, "hash", "", "content hash algorithm (sha256 or blake3)")
	fl.IntVar(&f.workers, "workers", 0, "number of files hashed concurrently")
	fl.StringVar(&f.filterList, "filter-list", "", "path to an include/exclude rule list")

	cmd.AddCommand(newStatsCmd())
	return cmd
}

func logStartup(root string) {
	slog.Info("Directory Profiler has started operating", "version", version, "directory", root)
}

// configNotFound reports whether a config load failed only because the
// default file is absent, which is not an error.
func configNotFound(err error, explicit bool) bool {
	return !explicit && errors.Is(err, fs.ErrNotExist)
}
