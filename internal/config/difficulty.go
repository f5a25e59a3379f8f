package config

import (
	"math"
	"time"
)

// DifficultyManager derives pressure parameters from the active level.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty (0.0 to 1.0) for a banner level id.
func (d *DifficultyManager) Level(levelID int) float64 {
	if !d.IsEnabled() || d.cfg.Progression.Type != "level" {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 1 {
		maxAt = 2 // Prevent division by zero
	}
	progress := clampF(float64(levelID-1)/(maxAt-1), 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// ToastInterval returns the delay between pressure toasts on a level.
// Toasts get more frequent as difficulty rises.
func (d *DifficultyManager) ToastInterval(base time.Duration, levelID int) time.Duration {
	level := d.Level(levelID)
	interval := time.Duration(float64(base) / (1.0 + level*d.cfg.Scaling.ToastFrequency))
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// Countdown returns the time-pressure countdown for a level that asks for
// baseSeconds. Zero means the level has no countdown.
func (d *DifficultyManager) Countdown(baseSeconds, levelID int) time.Duration {
	if baseSeconds <= 0 {
		return 0
	}
	level := d.Level(levelID)
	// Scale in thousandths so halves round up: 45s at 70% is 32s, not 31s.
	permille := int(math.Round((1.0 - level*d.cfg.Scaling.CountdownReduction) * 1000))
	seconds := (baseSeconds*permille + 500) / 1000
	floor := d.cfg.Scaling.MinCountdownSeconds
	if floor > baseSeconds {
		floor = baseSeconds
	}
	if seconds < floor {
		seconds = floor
	}
	return time.Duration(seconds) * time.Second
}

// clampF restricts a float64 to [lo, hi].
func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
