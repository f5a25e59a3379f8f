// Package app assembles the shared services (config, level pack, score
// store, leaderboard, metrics) used by the CLI, the TUI and the SSH server.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cookie-banner-clicker/internal/config"
	"github.com/vovakirdan/cookie-banner-clicker/internal/consent"
	"github.com/vovakirdan/cookie-banner-clicker/internal/leaderboard"
	"github.com/vovakirdan/cookie-banner-clicker/internal/logging"
	"github.com/vovakirdan/cookie-banner-clicker/internal/metrics"
	"github.com/vovakirdan/cookie-banner-clicker/internal/storage"
)

// DefaultDBPath is used when neither a flag nor CLICKER_DB_PATH names one.
const DefaultDBPath = "~/" + config.AppDir + "/scores.db"

// Backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options select what Build loads. Zero values pick the defaults.
type Options struct {
	Env          *config.Env
	ConfigPath   string
	Preset       config.DifficultyPreset
	LevelsPath   string
	DBPath       string
	RedisRetries uint64
	Logger       *log.Logger
	Metrics      *metrics.Metrics
}

// Services are safe for concurrent use by many sessions. Store, Board and
// Submitter are nil when no score backend could be opened; the game still
// plays without them.
type Services struct {
	Config    config.ClickerConfig
	Levels    *consent.LevelCatalog
	Store     *storage.Store
	Backend   string
	Board     *leaderboard.Service
	Submitter *leaderboard.Submitter
	Signer    *leaderboard.Signer
	Metrics   *metrics.Metrics
	Logger    *log.Logger

	redis *storage.RedisLeaderboard
}

// Build loads configuration and opens the backends. Config and level pack
// errors are fatal; storage errors are logged and leave the services
// without a leaderboard.
func Build(ctx context.Context, opts Options) (*Services, error) {
	if opts.Env == nil {
		opts.Env = &config.Env{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	cfg, err := config.LoadClicker(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Preset != "" {
		config.ApplyClickerPreset(&cfg, opts.Preset)
	}

	levels := consent.DefaultLevelCatalog()
	if opts.LevelsPath != "" {
		levels, err = consent.LoadLevelCatalog(consent.DefaultCatalog(), opts.LevelsPath)
		if err != nil {
			return nil, fmt.Errorf("app: level pack %s: %w", opts.LevelsPath, err)
		}
	}

	s := &Services{
		Config:  cfg,
		Levels:  levels,
		Signer:  leaderboard.NewSigner(opts.Env.AdminSigningKey),
		Metrics: opts.Metrics,
		Logger:  opts.Logger,
	}

	dbPath := firstNonEmpty(opts.DBPath, opts.Env.DBPath, DefaultDBPath)
	s.Store, err = storage.Open(dbPath)
	if err != nil {
		s.Logger.Warn("could not open scores database", "path", dbPath, "error", err)
		s.Store = nil
	}

	var board storage.Leaderboard
	if cfg.Leaderboard.Backend == BackendRedis {
		if rb, err := s.dialRedis(ctx, opts); err != nil {
			s.Logger.Warn("redis leaderboard unavailable, using sqlite", "addr", opts.Env.RedisAddr, "error", err)
		} else {
			s.redis = rb
			board = rb
			s.Backend = BackendRedis
		}
	}
	if board == nil && s.Store != nil {
		board = s.Store
		s.Backend = BackendSQLite
	}
	if board == nil {
		return s, nil
	}

	s.Board = leaderboard.NewService(board, leaderboard.Options{
		AutoApprove: cfg.Leaderboard.AutoApprove,
		TopLimit:    cfg.Leaderboard.TopLimit,
		Signer:      s.Signer,
		Logger:      s.Logger,
		Metrics:     s.Metrics,
	})
	timeout := time.Duration(cfg.Leaderboard.SubmitTimeout * float64(time.Second))
	s.Submitter = leaderboard.NewSubmitter(s.Board, cfg.Leaderboard.SubmitRetries, timeout, s.Logger)

	s.Logger.Debug("services ready", "backend", s.Backend, "levels", levels.LevelCount(), "moderation", s.Signer.Enabled())
	return s, nil
}

func (s *Services) dialRedis(ctx context.Context, opts Options) (*storage.RedisLeaderboard, error) {
	var rb *storage.RedisLeaderboard
	op := func() error {
		client, err := storage.DialRedis(ctx, opts.Env.RedisAddr, opts.Env.RedisPassword, opts.Env.RedisDB)
		if err != nil {
			return err
		}
		rb = storage.NewRedisLeaderboard(client, s.Config.Leaderboard.Board)
		return nil
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), opts.RedisRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return rb, nil
}

// Close releases every backend.
func (s *Services) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.Store != nil {
		errs = append(errs, s.Store.Close())
	}
	return errors.Join(errs...)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
