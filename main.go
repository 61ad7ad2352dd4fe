package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/game"
	"github.com/pthm-cable/arena/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	dbPath := flag.String("db", "", "SQLite database to append the finished run to")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = use config)")

	flag.Parse()

	setupLogging(*logLevel)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	if err := run(cfg, game.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
		MaxTicks:  *maxTicks,
	}, *dbPath); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, opts game.Options, dbPath string) error {
	started := time.Now()

	sim, err := game.NewSimulation(cfg, opts)
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}

	slog.Info("starting simulation",
		"seed", opts.Seed,
		"grid", cfg.Grid.Size,
		"agents", len(sim.Agents()),
		"max_ticks", opts.MaxTicks,
	)

	ticks := sim.Run()
	if err := sim.Close(); err != nil {
		return fmt.Errorf("closing simulation: %w", err)
	}

	results := sim.Results()
	summary := telemetry.Summarize(results)
	elapsed := time.Since(started)

	for _, r := range results {
		slog.Info("result",
			"agent", r.ID,
			"score", humanize.Comma(int64(r.Score)),
			"length", r.Length,
			"alive", r.Alive,
			"eaten", r.Eaten,
			"died_at", r.DiedAt,
		)
	}
	slog.Info("simulation finished",
		"ticks", humanize.Comma(ticks),
		"level", sim.Level(),
		"winner", summary.Winner,
		"alive", summary.Alive,
		"score_mean", summary.MeanScore,
		"score_median", summary.MedianScore,
		"score_max", summary.MaxScore,
		"events", humanize.Comma(int64(len(sim.Collector().Events()))),
		"elapsed", elapsed.Round(time.Millisecond),
	)

	if dbPath == "" {
		return nil
	}

	store, err := telemetry.OpenStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	rec := telemetry.NewRunRecord(opts.Seed, cfg.Grid.Size, started)
	rec.Ticks = sim.Tick()
	rec.Level = sim.Level()
	rec.Winner = summary.Winner
	if err := store.SaveRun(rec, results, sim.Collector().Events()); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	slog.Info("run stored", "db", dbPath, "run_id", rec.ID)
	return nil
}

// setupLogging installs a text handler on terminals and JSON otherwise.
func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		handler = slog.NewTextHandler(os.Stdout, hopts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, hopts)
	}
	slog.SetDefault(slog.New(handler))
}
