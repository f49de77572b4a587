package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pthm-cable/voxfarm/config"
	"github.com/pthm-cable/voxfarm/game"
	"github.com/pthm-cable/voxfarm/voxel"
)

func main() {
	// .env is optional; real environment variables win.
	envErr := godotenv.Load()

	configPath := flag.String("config", os.Getenv("VOXFARM_CONFIG"), "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", os.Getenv("VOXFARM_OUTPUT_DIR"), "Output directory for CSV logs, event log and harvest index")
	seed := flag.Int64("seed", 0, "World seed (0 = config world.seed)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = config simulation.max_ticks)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	runID := flag.String("run-id", "", "Run identifier for the harvest index (empty = random)")
	inspect := flag.String("inspect", "", "Print the organism at x,y,z when the run ends")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if envErr != nil && !os.IsNotExist(envErr) {
		slog.Warn("failed to read .env", "error", envErr)
	}

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	g, err := game.NewGame(game.Options{
		Seed:      *seed,
		MaxTicks:  *maxTicks,
		OutputDir: *outputDir,
		RunID:     *runID,
		LogStats:  *logStats,
	})
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting simulation",
		"run_id", g.RunID(),
		"players", g.Players(),
		"output_dir", *outputDir,
	)

	for ctx.Err() == nil && g.Update() {
	}
	if ctx.Err() != nil {
		slog.Info("interrupted", "tick", g.Tick())
	} else {
		slog.Info("max ticks reached", "tick", g.Tick())
	}

	g.LogSummary()
	if *inspect != "" {
		var pos voxel.IVec3
		if _, err := fmt.Sscanf(*inspect, "%d,%d,%d", &pos.X, &pos.Y, &pos.Z); err != nil {
			slog.Warn("bad -inspect position", "value", *inspect, "error", err)
		} else if out, ok := g.Inspect(pos); ok {
			fmt.Fprint(os.Stderr, out)
		} else {
			slog.Info("nothing to inspect", "pos", pos.String())
		}
	}
	if err := g.Close(); err != nil {
		slog.Error("failed to close outputs", "error", err)
		os.Exit(1)
	}
}
