package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"taproom/internal/auth"
	"taproom/internal/db"
)

type Config struct {
	Addr string

	DataDir      string
	DBPath       string
	ResetOnStart bool

	AuthIssuer   string
	AuthAudience string
	AuthJWKSURL  string

	CORSOrigins []string

	RateLimitRPS   float64
	RateLimitBurst int
}

type App struct {
	cfg      Config
	store    *db.Store
	log      *slog.Logger
	verifier *auth.Verifier
	limiter  *ipLimiter
}

func New(ctx context.Context, cfg Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "/data"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "taproom.db")
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 20
	}

	// Tokens come from an external identity provider; without these two the
	// gated endpoints could never admit anyone.
	if cfg.AuthIssuer == "" {
		return nil, errors.New("auth issuer is required")
	}
	if cfg.AuthAudience == "" {
		return nil, errors.New("auth audience is required")
	}

	// NOTE: /data is a Docker volume; ensure the path exists.
	if !strings.Contains(cfg.DBPath, ":memory:") {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir data dir: %w", err)
		}
	}

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if cfg.ResetOnStart {
		logger.Warn("DB_RESET is set, dropping all tables")
		if err := db.Reset(store.DB); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("reset: %w", err)
		}
	}
	if err := db.Migrate(store.DB); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	verifier, err := auth.NewVerifier(ctx, auth.Config{
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthAudience,
		JWKSURL:  cfg.AuthJWKSURL,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init verifier: %w", err)
	}

	a := &App{
		cfg:      cfg,
		store:    store,
		log:      logger,
		verifier: verifier,
	}
	if cfg.RateLimitRPS > 0 {
		a.limiter = newIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	// Seed menu ONLY if empty (never clobbers edits).
	empty, err := isMenuEmpty(store.DB)
	if err != nil {
		a.log.Warn("menu empty check failed", "err", err)
	} else if empty {
		if err := db.SeedMenu(store.DB); err != nil {
			a.log.Warn("menu seed failed", "err", err)
		} else {
			a.log.Info("menu seeded")
		}
	}

	return a, nil
}

func isMenuEmpty(dbh *sql.DB) (bool, error) {
	var n int
	if err := dbh.QueryRow(`SELECT COUNT(1) FROM drinks;`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func (a *App) Store() *db.Store  { return a.store }
func (a *App) Config() Config    { return a.cfg }
func (a *App) Log() *slog.Logger { return a.log }
