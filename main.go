package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/soma/body"
	"github.com/pthm-cable/soma/config"
	"github.com/pthm-cable/soma/scenario"
	"github.com/pthm-cable/soma/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	scenarioPath := flag.String("scenario", "", "Path to a scenario script (empty = idle run)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	ticks := flag.Int64("ticks", 1000, "Number of ticks to simulate")
	interval := flag.Int64("interval", 0, "Ticks between telemetry rows (0 = use config)")
	snapshot := flag.Bool("snapshot", false, "Write a full state snapshot at the end of the run")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	telemetryInterval := int64(cfg.Telemetry.Interval)
	if *interval > 0 {
		telemetryInterval = *interval
	}
	if telemetryInterval < 1 {
		telemetryInterval = 1
	}

	var sc *scenario.Scenario
	if *scenarioPath != "" {
		var err error
		sc, err = scenario.Load(*scenarioPath)
		if err != nil {
			slog.Error("failed to load scenario", "error", err)
			os.Exit(1)
		}
		slog.Info("scenario loaded", "name", sc.Name, "steps", len(sc.Steps))
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer om.Close()

	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	b, err := body.New()
	if err != nil {
		slog.Error("failed to build body", "error", err)
		os.Exit(1)
	}

	collector := telemetry.NewCollector()

	slog.Info("starting simulation",
		"ticks", *ticks,
		"interval", telemetryInterval,
		"output_dir", om.Dir(),
	)

	for t := int64(0); t < *ticks; t++ {
		if sc != nil {
			for _, st := range sc.Apply(t, b) {
				slog.Info("scenario step", "tick", t, "action", st.Action, "part", st.Part)
			}
		}

		b.Update()

		if b.Tick()%telemetryInterval == 0 {
			rec := collector.Collect(b)
			if err := om.WriteTelemetry(rec); err != nil {
				slog.Error("failed to write telemetry", "error", err)
				os.Exit(1)
			}
		}
	}

	if *snapshot {
		dir := cfg.Telemetry.SnapshotDir
		if dir == "" {
			dir = om.Dir()
		}
		if dir != "" {
			path, err := telemetry.SaveSnapshot(telemetry.TakeSnapshot(b), dir)
			if err != nil {
				slog.Error("failed to save snapshot", "error", err)
				os.Exit(1)
			}
			slog.Info("snapshot saved", "path", path)
		}
	}

	slog.Info("simulation complete",
		"tick", b.Tick(),
		"condition", b.Condition(),
	)
}
