package config

import (
	_ "embed"
)

//go:embed defaults/clicker.yaml
var defaultClickerYAML []byte

// DefaultClickerConfig returns the hardcoded configuration used when the
// embedded YAML cannot be parsed.
func DefaultClickerConfig() ClickerConfig {
	return ClickerConfig{
		Pressure: PressureConfig{
			ToastsEnabled:    true,
			ToastInterval:    8,
			ToastLifetime:    4,
			MaxToasts:        3,
			ExitNag:          true,
			CountdownEnabled: true,
		},
		Leaderboard: LeaderboardConfig{
			Backend:       "sqlite",
			Board:         "global",
			TopLimit:      10,
			AutoApprove:   false,
			SubmitRetries: 5,
			SubmitTimeout: 5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "level",
				MaxAt: 20,
			},
			Scaling: ScalingConfig{
				ToastFrequency:      2.0,
				CountdownReduction:  0.3,
				MinCountdownSeconds: 10,
			},
		},
	}
}
