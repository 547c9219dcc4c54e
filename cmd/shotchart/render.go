package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/fortuna/courtside/internal/config"
	"github.com/fortuna/courtside/internal/service"
	"github.com/fortuna/courtside/internal/shotlog"
	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
)

type renderFlags struct {
	player   string
	playerID int
	season   string
	input    string
	title    string
	out      string
	width    int
	height   int
	opts     service.ChartOptions
}

func newRenderCmd() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a shot chart to a PNG file",
		Long: `Render a player's season shot chart to a PNG file.

Shots come from the database (--player or --player-id with --season) or from a
JSON shot log (--input) for offline rendering.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.input != "" {
				return renderOffline(cmd.OutOrStdout(), f)
			}
			return renderFromStore(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.player, "player", "", "player name (substring match)")
	fl.IntVar(&f.playerID, "player-id", 0, "stored player ID")
	fl.StringVar(&f.season, "season", "", "season, e.g. 2015-16")
	fl.StringVar(&f.input, "input", "", "render from a JSON shot log file instead of the database")
	fl.StringVar(&f.title, "title", "", "chart title (defaults to \"<player>'s Shot Chart : <season> Season\")")
	fl.StringVarP(&f.out, "out", "o", "", "output PNG path (defaults to <player>_<season>.png)")
	fl.IntVar(&f.width, "width", 0, "image width in pixels (defaults to CHART_WIDTH)")
	fl.IntVar(&f.height, "height", 0, "image height in pixels (defaults to CHART_HEIGHT)")
	fl.BoolVar(&f.opts.Zones, "zones", false, "draw the shot zone overlay")
	fl.BoolVar(&f.opts.Flip, "flip", false, "flip the court so the hoop is at the bottom")
	fl.BoolVar(&f.opts.Outer, "outer", false, "draw the half-court outer boundary")
	fl.BoolVar(&f.opts.Despine, "despine", false, "hide the plot frame")
	fl.StringVar(&f.opts.LineColor, "line-color", "", "court line color")
	fl.Float64Var(&f.opts.LineWidth, "line-width", 0, "court line width")
	return cmd
}

// shotFile is the offline input format. A bare JSON array of shots is also
// accepted.
type shotFile struct {
	Player string               `json:"player"`
	Season string               `json:"season"`
	Shots  []shotlog.ShotRecord `json:"shots"`
}

func readShotFile(path string) (shotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return shotFile{}, err
	}
	if !gjson.ValidBytes(data) {
		return shotFile{}, fmt.Errorf("%s: invalid JSON", path)
	}

	var sf shotFile
	if gjson.ParseBytes(data).IsArray() {
		err = json.Unmarshal(data, &sf.Shots)
	} else {
		err = json.Unmarshal(data, &sf)
	}
	if err != nil {
		return shotFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return sf, nil
}

func renderOffline(stdout io.Writer, f renderFlags) error {
	sf, err := readShotFile(f.input)
	if err != nil {
		return err
	}
	if f.player == "" {
		f.player = sf.Player
	}
	if f.season == "" {
		f.season = sf.Season
	}
	if err := applySize(&f); err != nil {
		return err
	}
	return writeChart(stdout, f, sf.Shots)
}

func renderFromStore(ctx context.Context, stdout io.Writer, f renderFlags) error {
	if f.player == "" && f.playerID == 0 {
		return errors.New("one of --player, --player-id or --input is required")
	}
	if err := service.ValidateSeason(f.season); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applySize(&f); err != nil {
		return err
	}

	db, err := store.NewDatabase(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	seasons := repository.NewSeasonRepository(db)
	shots := repository.NewShotRepository(db)
	players := service.NewPlayerService(repository.NewPlayerRepository(db), seasons, shots)

	var player *store.Player
	if f.playerID > 0 {
		player, err = players.GetPlayer(ctx, f.playerID)
	} else {
		player, err = players.ResolvePlayer(ctx, f.player)
	}
	var amb *service.AmbiguousPlayerError
	if errors.As(err, &amb) {
		fmt.Fprintln(stdout, "Multiple players found with similar names:")
		for _, p := range amb.Candidates {
			fmt.Fprintf(stdout, "  %d. %s\n", p.PlayerID, p.FullName)
		}
		return errors.New("rerun with --player-id")
	}
	if err != nil {
		return err
	}

	report, err := players.GetSeasonReport(ctx, player.PlayerID, f.season)
	if err != nil {
		return err
	}
	if report.PerGame != nil {
		fmt.Fprintf(stdout, "PPG: %.1f, APG: %.1f, RPG: %.1f\n", report.PerGame.Points, report.PerGame.Assists, report.PerGame.Rebounds)
	}

	log, err := shots.GetShotLog(ctx, player.PlayerID, f.season)
	if err != nil {
		return err
	}
	f.player = player.FullName
	return writeChart(stdout, f, log)
}

func applySize(f *renderFlags) error {
	if f.width > 0 && f.height > 0 {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if f.width <= 0 {
		f.width = cfg.ChartWidth
	}
	if f.height <= 0 {
		f.height = cfg.ChartHeight
	}
	return nil
}

func writeChart(stdout io.Writer, f renderFlags, shots []shotlog.ShotRecord) error {
	title := f.title
	if title == "" && f.player != "" {
		title = service.ChartTitle(f.player, f.season)
	}

	out, err := service.RenderPNG(shots, title, f.opts, f.width, f.height)
	if err != nil {
		return err
	}

	path := f.out
	if path == "" {
		path = defaultOutput(f.player, f.season)
	}
	if err := os.WriteFile(path, out.PNG, 0o644); err != nil {
		return err
	}

	for _, line := range out.Splits.Lines() {
		fmt.Fprintln(stdout, line)
	}
	if out.Plot.Dropped > 0 {
		fmt.Fprintf(stdout, "Dropped %d shots with unrecognized outcomes\n", out.Plot.Dropped)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}

func defaultOutput(player, season string) string {
	name := strings.ToLower(strings.Join(strings.Fields(player), "_"))
	if name == "" {
		name = "shotchart"
	}
	if season != "" {
		name += "_" + season
	}
	return name + ".png"
}
