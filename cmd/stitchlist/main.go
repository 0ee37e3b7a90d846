package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/stitchlist/internal/config"
	"github.com/jask/stitchlist/internal/database"
	"github.com/jask/stitchlist/internal/database/repository"
	"github.com/jask/stitchlist/internal/diag"
	"github.com/jask/stitchlist/internal/prefs"
	"github.com/jask/stitchlist/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if wrote, err := config.EnsureFile(cfg); err != nil {
		log.Printf("warn: could not write default config: %v", err)
	} else if wrote {
		log.Printf("wrote default config to %s", config.Path())
	}

	logger, err := diag.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := database.OpenMigrated(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.SeedSources(ctx, db, cfg.UI.Sources); err != nil {
		log.Fatalf("seed sources: %v", err)
	}

	prefsPath, err := prefs.DefaultPath()
	if err != nil {
		log.Printf("warn: move mode will not be remembered: %v", err)
		prefsPath = ""
	}

	list, err := tui.New(ctx, cfg, tui.Store{
		Sources: repository.NewSourceRepo(db),
		Items:   repository.NewItemRepo(db),
		Prefs:   prefsPath,
	}, logger)
	if err != nil {
		log.Fatalf("build list: %v", err)
	}
	defer list.Close()

	logger.Info("starting", zap.String("db", cfg.Database.Path), zap.Strings("sources", cfg.UI.Sources))
	p := tea.NewProgram(list, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
