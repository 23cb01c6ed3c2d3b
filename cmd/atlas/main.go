package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/atlas-engine/internal/config"
	"github.com/jwebster45206/atlas-engine/internal/logger"
	"github.com/jwebster45206/atlas-engine/internal/runner"
	"github.com/jwebster45206/atlas-engine/internal/sink"
	"github.com/jwebster45206/atlas-engine/pkg/catalog"
	"github.com/jwebster45206/atlas-engine/pkg/explorer"
	"github.com/jwebster45206/atlas-engine/pkg/rng"
	"github.com/jwebster45206/atlas-engine/pkg/tuning"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Atlas Engine",
		"environment", cfg.Environment,
		"catalog", cfg.CatalogPath,
		"frame_rate", cfg.FrameRate,
		"redis_enabled", cfg.RedisURL != "")

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}
	for _, p := range cat.Validate() {
		if p.Severity == catalog.SeverityError {
			log.Error("Catalog problem", "path", p.Path, "message", p.Message)
			continue
		}
		log.Warn("Catalog problem", "path", p.Path, "message", p.Message)
	}
	log.Info("Catalog loaded",
		"entries", len(cat.Entries),
		"npcs", len(cat.NPCs),
		"zones", len(cat.Zones),
		"scene_events", len(cat.SceneEvents))

	tune := tuning.Default()
	if cfg.TuningPath != "" {
		if tune, err = tuning.Load(cfg.TuningPath); err != nil {
			log.Error("Failed to load tuning", "error", err, "path", cfg.TuningPath)
			os.Exit(1)
		}
		log.Info("Tuning overrides loaded", "path", cfg.TuningPath)
	}

	opts := []explorer.Option{explorer.WithTuning(tune), explorer.WithLogger(log)}
	if cfg.Seeded {
		opts = append(opts, explorer.WithRNG(rng.NewSeeded(cfg.Seed)))
		log.Info("Using seeded randomness", "seed", cfg.Seed)
	}
	engine := explorer.NewEngine(cat, opts...)

	sinks := sink.Fanout{sink.NewLogSink(log)}
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisSink, err := sink.NewRedisSink(ctx, cfg.RedisURL, log)
		cancel()
		if err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, redisSink)
		log.Info("Redis sink initialized successfully")
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			log.Error("Error closing sinks", "error", err)
		}
	}()

	r := runner.New(engine, sinks, log, cfg.FrameRate, cfg.SnapshotEvery)

	// SIGHUP starts a new expedition, anything else shuts down
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	session := r.Start(context.Background())
	log.Info("Surveyor running", "session_id", session.String(), "channel", sink.Channel(session))

	for sig := range signals {
		if sig == syscall.SIGHUP {
			session = r.Reset()
			log.Info("Surveyor reset", "session_id", session.String(), "channel", sink.Channel(session))
			continue
		}
		log.Info("Shutdown signal received", "signal", sig.String())
		break
	}

	r.Stop()
	log.Info("Atlas Engine exited")
}
