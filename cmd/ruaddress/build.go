package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/iEmiya/ruaddress/internal/source"
	"github.com/iEmiya/ruaddress/model"
)

func createBuildCmd(a *app) *cobra.Command {
	var (
		driver, dsn, dir string
		asJSON           bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Rebuild the address store from the classifier tables",
		Long: `Reads KLADR, STREET and SOCRBASE from the configured source (sqlite,
postgres or a directory of semicolon-separated csv files) and replaces the
address store and the reduction table in the data directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Source
			if driver != "" {
				cfg.Driver = driver
			}
			if dsn != "" {
				cfg.DSN = dsn
			}
			if dir != "" {
				cfg.Dir = dir
			}

			src, err := source.Open(cfg, a.logger)
			if err != nil {
				return err
			}
			defer func() { _ = src.Close() }()

			eng := a.openEngine()
			defer func() { _ = eng.Close() }()

			stats, err := eng.RebuildFromSource(cmd.Context(), src)
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}
			if asJSON {
				return printJSON(cmd, stats)
			}
			printStats(cmd, stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&driver, "driver", "", "source driver: sqlite, postgres or csv")
	cmd.Flags().StringVar(&dsn, "dsn", "", "database connection string")
	cmd.Flags().StringVar(&dir, "dir", "", "directory with KLADR.csv, STREET.csv and SOCRBASE.csv")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output statistics as JSON")
	return cmd
}

func printStats(cmd *cobra.Command, stats model.BuildStats) {
	cmd.Printf("Build:      %s\n", stats.BuildID)
	cmd.Printf("Records:    %d\n", stats.Records)
	cmd.Printf("Documents:  %d\n", stats.Documents)
	cmd.Printf("Reductions: %d\n", stats.Reductions)
	cmd.Printf("Duration:   %s\n", stats.Duration)

	reasons := make([]string, 0, len(stats.Skipped))
	for r := range stats.Skipped {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		cmd.Printf("Skipped %s: %d\n", r, stats.Skipped[r])
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
