package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/cookie-banner-clicker/internal/app"
	"github.com/vovakirdan/cookie-banner-clicker/internal/config"
	"github.com/vovakirdan/cookie-banner-clicker/internal/core"
	"github.com/vovakirdan/cookie-banner-clicker/internal/logging"
	"github.com/vovakirdan/cookie-banner-clicker/internal/metrics"
)

// redisRetries bounds the startup dial attempts before falling back to
// sqlite.
const redisRetries = 3

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func loadEnv() *config.Env {
	env, _, err := config.LoadEnv()
	if err != nil {
		exitf("%v", err)
	}
	if flagLogLevel != "" {
		env.LogLevel = flagLogLevel
	}
	return env
}

func difficultyPreset() config.DifficultyPreset {
	if flagDifficulty == "" {
		return ""
	}
	preset, ok := config.ParsePreset(flagDifficulty)
	if !ok {
		exitf("unknown difficulty %q (use easy, normal, hard or fixed)", flagDifficulty)
	}
	return preset
}

// buildServices loads config and opens the score backends, exiting on
// config errors.
func buildServices(env *config.Env, logger *log.Logger, m *metrics.Metrics, levelsPath string) *app.Services {
	svc, err := app.Build(context.Background(), app.Options{
		Env:          env,
		ConfigPath:   flagConfig,
		Preset:       difficultyPreset(),
		LevelsPath:   levelsPath,
		DBPath:       flagDBPath,
		RedisRetries: redisRetries,
		Logger:       logger,
		Metrics:      m,
	})
	if err != nil {
		exitf("%v", err)
	}
	return svc
}

// tuiLogger logs to a file because Bubble Tea owns the terminal.
func tuiLogger(env *config.Env) (*log.Logger, io.Closer) {
	path := env.LogFile
	if path == "" {
		path = config.UserPath("clicker.log")
	}
	if path == "" {
		return logging.Discard(), io.NopCloser(nil)
	}
	logger, closer, err := logging.OpenFile(path, env.LogLevel, "clicker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return logging.Discard(), io.NopCloser(nil)
	}
	return logger, closer
}

func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
