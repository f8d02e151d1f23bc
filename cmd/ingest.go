package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/guttosm/stockpulse/config"
	"github.com/guttosm/stockpulse/internal/app"
	"github.com/guttosm/stockpulse/internal/ingestion"
	"github.com/guttosm/stockpulse/internal/logger"
)

func newRefreshCmd() *cobra.Command {
	var (
		days     int
		parallel int
		force    bool
		universe string
	)
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch recent history for every company of the universe",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig.Refresh
			if cmd.Flags().Changed("days") {
				cfg.Days = days
			}
			if cmd.Flags().Changed("parallel") {
				cfg.Parallel = parallel
			}
			if cmd.Flags().Changed("force") {
				cfg.Force = force
			}
			if cmd.Flags().Changed("universe") {
				cfg.UniverseFile = universe
			}

			opts, err := app.RefreshOptions(cfg)
			if err != nil {
				return err
			}
			db, repo, err := app.OpenStore(config.AppConfig)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			bar := newProgressBar(cmd.ErrOrStderr(), len(opts.Universe), "Refreshing")
			opts.Progress = func(string, error) { _ = bar.Add(1) }

			res, err := ingestion.Refresh(cmd.Context(), repo, app.NewProvider(config.AppConfig.Provider), opts)
			_ = bar.Finish()
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("refresh: %w", err)
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", ingestion.DefaultRefreshDays, "calendar days of history to fetch")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "symbols fetched concurrently (0=auto up to CPU, max 8)")
	cmd.Flags().BoolVar(&force, "force", false, "refetch symbols already refreshed for the last trading day")
	cmd.Flags().StringVar(&universe, "universe", "", "YAML universe file (default: built-in NSE list)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var (
		dir      string
		parallel int
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import Yahoo Finance CSV exports (<SYMBOL>.csv) from a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := ingestion.ImportFiles(dir)
			if err != nil {
				return err
			}
			db, repo, err := app.OpenStore(config.AppConfig)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			bar := newProgressBar(cmd.ErrOrStderr(), len(files), "Importing")
			res, err := ingestion.ImportDirectory(cmd.Context(), dir, repo, ingestion.Options{
				Parallel: parallel,
				Force:    force,
				Progress: func(string, error) { _ = bar.Add(1) },
			})
			_ = bar.Finish()
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			logger.L().Info().Str("dir", dir).Msg("import completed successfully")
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "./data/input", "directory with <SYMBOL>.csv files")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "files processed concurrently (0=auto up to CPU, max 8)")
	cmd.Flags().BoolVar(&force, "force", false, "replace symbols already imported up to the same date")
	return cmd
}

func newProgressBar(w io.Writer, total int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func printResult(w io.Writer, res ingestion.Result) {
	fmt.Fprintf(w, "symbols: %d  updated: %d  skipped: %d  missed: %d  rows: %d\n",
		res.Total, res.Updated, res.Skipped, res.Missed, res.Rows)
}
