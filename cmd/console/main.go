package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/atlas-engine/internal/config"
	"github.com/jwebster45206/atlas-engine/internal/logger"
	"github.com/jwebster45206/atlas-engine/pkg/catalog"
	"github.com/jwebster45206/atlas-engine/pkg/explorer"
	"github.com/jwebster45206/atlas-engine/pkg/rng"
	"github.com/jwebster45206/atlas-engine/pkg/tuning"
)

// The terminal is far too busy for log lines, so they go to a file.
const logFile = "atlas-console.log"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = f.Close() // Ignore error in defer
	}()
	log := logger.SetupWriter(cfg, f)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}
	for _, p := range cat.Validate() {
		log.Warn("Catalog problem", "severity", p.Severity, "path", p.Path, "message", p.Message)
	}

	tune := tuning.Default()
	if cfg.TuningPath != "" {
		if tune, err = tuning.Load(cfg.TuningPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load tuning: %v\n", err)
			os.Exit(1)
		}
	}

	opts := []explorer.Option{explorer.WithTuning(tune), explorer.WithLogger(log)}
	if cfg.Seeded {
		opts = append(opts, explorer.WithRNG(rng.NewSeeded(cfg.Seed)))
	}
	engine := explorer.NewEngine(cat, opts...)

	frame := time.Second / time.Duration(cfg.FrameRate)
	log.Info("Starting atlas console",
		"environment", cfg.Environment,
		"catalog", cfg.CatalogPath,
		"entries", len(cat.Entries),
		"npcs", len(cat.NPCs),
		"frame", frame.String())

	p := tea.NewProgram(NewAtlasUI(engine, frame),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Info("Atlas console exited")
}
