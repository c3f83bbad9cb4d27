package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/xiaochun-z/dirprofile/internal/store"
)

func newStatsCmd() *cobra.Command {
	var database string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show what a profile database holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(database); err != nil {
				return fmt.Errorf("database: %w", err)
			}
			db, err := store.Open(database)
			if err != nil {
				return err
			}
			defer db.Close()

			c, err := store.NewGateway(db).Counts(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "directories: %d\nfiles: %d\n", c.Directories, c.Files)
			keys := make([]string, 0, len(c.Meta))
			for k := range c.Meta {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%s: %s\n", k, c.Meta[k])
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&database, "database", "b", "", "path to the profile database")
	_ = cmd.MarkFlagRequired("database")
	return cmd
}
