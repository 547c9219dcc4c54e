package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/config"
	"github.com/fortuna/courtside/internal/ingest/bbref"
	"github.com/fortuna/courtside/internal/ingest/nbastats"
	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
)

func newSyncCmd() *cobra.Command {
	var (
		req     backfill.Request
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import a player's season from the stats provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := req.Normalize()
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := store.NewDatabase(cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := db.RunMigrations(ctx); err != nil {
				return err
			}

			var scraper backfill.ChartScraper
			if req.Source == store.SourceBBRef {
				client := bbref.NewClient(cfg.BBRefBase)
				defer client.Close()
				scraper = client
			}

			runner := backfill.NewRunner(
				nbastats.New(cfg.NBAStatsBase),
				scraper,
				repository.NewPlayerRepository(db),
				repository.NewTeamRepository(db),
				repository.NewSeasonRepository(db),
				repository.NewShotRepository(db),
			)
			result, err := runner.Run(ctx, req, &consoleReporter{out: cmd.OutOrStdout()})
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d shots for player %d (%s)\n", result.ShotsImported, result.PlayerID, result.Season)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&req.PlayerID, "player-id", 0, "stats provider person ID")
	fl.StringVar(&req.Season, "season", "", "season, e.g. 2015-16")
	fl.StringVar(&req.Source, "source", store.SourceNBAStats, "shot source (nbastats or bbref)")
	fl.StringVar(&req.BBRefSlug, "bbref-slug", "", "Basketball-Reference player slug, required for --source bbref")
	fl.DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	_ = cmd.MarkFlagRequired("player-id")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

type consoleReporter struct {
	out   io.Writer
	total int
}

func (r *consoleReporter) OnJobStart(req backfill.Request, total int) {
	r.total = total
	fmt.Fprintf(r.out, "Importing player %d %s from %s\n", req.PlayerID, req.Season, req.Source)
}

func (r *consoleReporter) OnProgress(message string, current int) {
	fmt.Fprintf(r.out, "[%d/%d] %s\n", current+1, r.total, message)
}

func (r *consoleReporter) OnJobComplete(result backfill.Result) {
	fmt.Fprintf(r.out, "Saved %d season rows\n", result.SeasonRows)
}

func (r *consoleReporter) OnJobError(err error) {
	fmt.Fprintf(r.out, "⚠️  %v\n", err)
}
