// Package registry maps game ids to factories. Game packages register in
// init(), so hosts (TUI, SSH, CLI) find them with a blank import.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/cookie-banner-clicker/internal/core"
)

// Game is a host-independent game. Implementations know nothing about
// Bubble Tea; the platform maps keys to actions, drives ticks and paints
// the screen buffer.
type Game interface {
	// ID is the stable key used by the CLI and the score store.
	ID() string

	// Title is shown in menus.
	Title() string

	// Reset starts the game over with the given screen size and seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render paints into a cleared screen.
	Render(dst *core.Screen)

	State() core.GameState
}

// Ranked games report whether a finished run belongs on the leaderboard.
// Games that do not implement it are treated as ranked.
type Ranked interface {
	Ranked() bool
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID     string
	Title  string
	Ranked bool
}

// Factory creates a fresh game instance.
type Factory func() Game

type entry struct {
	factory Factory
	info    GameInfo
}

var (
	mu      sync.RWMutex
	entries = make(map[string]entry)
)

// Register adds a factory. It panics on a duplicate id.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	g := f()
	entries[id] = entry{
		factory: f,
		info:    GameInfo{ID: id, Title: g.Title(), Ranked: IsRanked(g)},
	}
}

// List returns all registered games sorted by id.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a game by id.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}

// IsRanked reports whether g's results go to the leaderboard.
func IsRanked(g Game) bool {
	if r, ok := g.(Ranked); ok {
		return r.Ranked()
	}
	return true
}
