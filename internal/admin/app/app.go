// Package app wires the admin TUI to the terminal's database.
package app

import (
	"fmt"
	"os"
	"time"

	"hackterm/internal/auth"
	"hackterm/internal/config"
	"hackterm/internal/db"
	"hackterm/internal/guestbook"
)

type App struct {
	ConfigPath string
	Config     *config.Config
	DBPath     string
	DB         *db.DB

	Users     *auth.Repo
	Guestbook *guestbook.Repo

	BusyTimeout time.Duration
}

func New(configPath string) (*App, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(cfg.Paths.Data, 0755); err != nil {
		return nil, nil, fmt.Errorf("create data directory: %w", err)
	}

	database, err := db.Open(cfg.Paths.Database)
	if err != nil {
		return nil, nil, err
	}

	a := &App{
		ConfigPath:  configPath,
		Config:      cfg,
		DBPath:      cfg.Paths.Database,
		DB:          database,
		Users:       auth.NewRepo(database.DB),
		Guestbook:   guestbook.NewRepo(database.DB),
		BusyTimeout: 5 * time.Second,
	}

	// Best-effort online use: reduce SQLITE_BUSY failures.
	_, _ = database.Exec("PRAGMA busy_timeout = 5000")

	cleanup := func() {
		_ = database.Close()
	}
	return a, cleanup, nil
}
