package consent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LevelPack is a YAML file of custom levels played against the built-in
// domain catalog.
type LevelPack struct {
	Name   string        `yaml:"name"`
	Author string        `yaml:"author,omitempty"`
	Levels []LevelConfig `yaml:"levels"`
}

// ParseLevelPackYAML parses a level pack. Omitted display modes default to
// detailed and omitted tab contents to purposes.
func ParseLevelPackYAML(data []byte) (LevelPack, error) {
	var pack LevelPack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return LevelPack{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if len(pack.Levels) == 0 {
		return LevelPack{}, fmt.Errorf("level pack %q has no levels", pack.Name)
	}

	for i := range pack.Levels {
		l := &pack.Levels[i]
		if l.DisplayMode == "" {
			l.DisplayMode = DisplayDetailed
		}
		for j := range l.Tabs {
			t := &l.Tabs[j]
			if t.Content == "" {
				t.Content = ContentPurposes
			}
			if t.Type == "" {
				t.Type = TabConsent
			}
			if t.ID == "" {
				t.ID = string(t.Type)
			}
		}
		for j := range l.Buttons {
			if l.Buttons[j].Style == "" {
				l.Buttons[j].Style = StyleSecondary
			}
		}
	}
	return pack, nil
}

// LoadLevelPack reads a .yaml/.yml level pack from disk.
func LoadLevelPack(path string) (LevelPack, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return LevelPack{}, fmt.Errorf("unsupported extension: %s", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return LevelPack{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	pack, err := ParseLevelPackYAML(data)
	if err != nil {
		return LevelPack{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	if pack.Name == "" {
		pack.Name = strings.TrimSuffix(filepath.Base(path), ext)
	}
	return pack, nil
}

// LoadLevelCatalog loads a pack and validates it against catalog.
func LoadLevelCatalog(catalog *Catalog, path string) (*LevelCatalog, error) {
	pack, err := LoadLevelPack(path)
	if err != nil {
		return nil, err
	}
	return NewLevelCatalog(catalog, pack.Levels)
}
