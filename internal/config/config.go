// Package config provides YAML-based game configuration loading, difficulty
// management and environment-driven deployment settings.
package config

// ClickerConfig contains all configuration for the cookie banner game.
type ClickerConfig struct {
	Pressure    PressureConfig    `yaml:"pressure"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Difficulty  DifficultyConfig  `yaml:"difficulty"`
}

// PressureConfig tunes the cosmetic pressure effects. None of these ever
// change a verdict.
type PressureConfig struct {
	ToastsEnabled    bool    `yaml:"toasts_enabled"`
	ToastInterval    float64 `yaml:"toast_interval"` // Seconds between toasts
	ToastLifetime    float64 `yaml:"toast_lifetime"` // Seconds a toast stays visible
	MaxToasts        int     `yaml:"max_toasts"`     // Visible at once
	ExitNag          bool    `yaml:"exit_nag"`       // Confirm quitting during a run
	CountdownEnabled bool    `yaml:"countdown_enabled"`
}

// LeaderboardConfig selects and tunes the score backend.
type LeaderboardConfig struct {
	Backend       string  `yaml:"backend"` // "sqlite" or "redis"
	Board         string  `yaml:"board"`
	TopLimit      int     `yaml:"top_limit"`
	AutoApprove   bool    `yaml:"auto_approve"`
	SubmitRetries uint64  `yaml:"submit_retries"`
	SubmitTimeout float64 `yaml:"submit_timeout"` // Seconds per attempt
}

// DifficultyConfig defines how pressure escalates through the run.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "level" or "none"
	MaxAt int    `yaml:"max_at"` // Level at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	ToastFrequency      float64 `yaml:"toast_frequency"`       // Extra toast rate at max difficulty
	CountdownReduction  float64 `yaml:"countdown_reduction"`   // Fraction of countdown removed at max
	MinCountdownSeconds int     `yaml:"min_countdown_seconds"` // Countdown floor
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
