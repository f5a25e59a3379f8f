package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppDir is the per-user directory for configs, the score database and logs.
const AppDir = ".cookieclicker"

// LoadClicker loads the game configuration.
// Search order: customPath -> ~/.cookieclicker/configs/clicker.yaml -> ./configs/clicker.yaml -> embedded default
func LoadClicker(customPath string) (ClickerConfig, error) {
	// Start from defaults so partial files only override what they set.
	cfg := DefaultClickerConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := UserPath("configs", "clicker.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultClickerConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/clicker.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultClickerConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultClickerYAML, &cfg); err != nil {
		return DefaultClickerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// UserPath joins elem under ~/.cookieclicker, or returns empty if home is unavailable.
func UserPath(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home, AppDir}, elem...)...)
}

// ApplyClickerPreset modifies the config based on a difficulty preset.
func ApplyClickerPreset(cfg *ClickerConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust pressure based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Pressure.ToastInterval = 12
		cfg.Pressure.MaxToasts = 1
		cfg.Pressure.CountdownEnabled = false
	case DifficultyHard:
		cfg.Pressure.ToastInterval = 5
		cfg.Pressure.MaxToasts = 4
		cfg.Pressure.CountdownEnabled = true
	}
}
