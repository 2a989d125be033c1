// Command realmserver runs the Realmwar game server: the rules
// engines behind an HTTP API, with SQLite-backed kingdom state and a
// turn ticker.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/berrik/realmwar/internal/api"
	"github.com/berrik/realmwar/internal/config"
	"github.com/berrik/realmwar/internal/entropy"
	"github.com/berrik/realmwar/internal/orchestrator"
	"github.com/berrik/realmwar/internal/persistence"
	"github.com/berrik/realmwar/internal/worldgen"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Realmwar — turn-based kingdom warfare")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Load or Generate World ────────────────────────────────────────
	seed := cfg.Seed
	if seed == 0 {
		seed, err = entropy.NewSeed()
		if err != nil {
			slog.Error("failed to generate seed", "error", err)
			os.Exit(1)
		}
	}

	var gameStart time.Time
	if db.HasKingdoms() {
		slog.Info("found saved world state")
		gameStart = loadGameStart(db)
	} else {
		slog.Info("no saved state found, generating new world...", "seed", seed, "kingdoms", cfg.NumKingdoms)
		gameStart = time.Now()

		kingdoms := worldgen.Generate(worldgen.GenConfig{
			Seed:        seed,
			NumKingdoms: cfg.NumKingdoms,
			GameStart:   gameStart,
		})
		if err := db.SaveKingdoms(kingdoms); err != nil {
			slog.Error("initial save failed", "error", err)
			os.Exit(1)
		}
		if err := db.SaveMeta("game_start", gameStart.UTC().Format(time.RFC3339)); err != nil {
			slog.Error("save game start failed", "error", err)
			os.Exit(1)
		}
		if err := db.SaveMeta("seed", strconv.FormatInt(seed, 10)); err != nil {
			slog.Error("save seed failed", "error", err)
			os.Exit(1)
		}

		for _, k := range kingdoms {
			slog.Info("kingdom founded",
				"name", k.Name,
				"race", k.Race,
				"land", k.Resources.Land,
				"gold", k.Resources.Gold,
			)
		}
	}

	// ── Orchestrator ──────────────────────────────────────────────────
	orch := orchestrator.New(db, entropy.NewSeeded(seed), gameStart)

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("REALMWAR_ADMIN_KEY not set — action POST endpoints will be disabled")
	}
	server := &api.Server{
		Orch:     orch,
		DB:       db,
		Port:     cfg.Port,
		AdminKey: cfg.AdminKey,
	}
	server.Start()

	// ── Turn Ticker ───────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.TurnInterval)
	defer ticker.Stop()

	slog.Info("turn engine running", "interval", cfg.TurnInterval)
	for {
		select {
		case <-ticker.C:
			if err := orch.Tick(); err != nil {
				slog.Error("turn tick failed", "error", err)
				continue
			}
			age := orch.Age()
			slog.Info("turn granted",
				"turn", orch.Turn(),
				"age", age.CurrentAge,
				"age_remaining", fmt.Sprintf("%.0fh", age.RemainingTime.Hours()),
			)
		case sig := <-sigCh:
			slog.Info("shutting down", "signal", sig)
			return
		}
	}
}

// loadGameStart restores the game start time from metadata, falling
// back to now for legacy databases.
func loadGameStart(db *persistence.DB) time.Time {
	raw, err := db.GetMeta("game_start")
	if err != nil {
		slog.Warn("game_start metadata missing, using current time")
		return time.Now()
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		slog.Warn("game_start metadata unreadable, using current time", "value", raw)
		return time.Now()
	}
	return t
}
