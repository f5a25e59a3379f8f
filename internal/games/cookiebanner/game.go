// Package cookiebanner hosts the consent-banner run as a registry game:
// intro gate, twenty banners, pressure effects and the game-over report.
// The game keeps its own simulated clock, advanced one tick per Step, so
// timers and scores do not depend on wall time.
package cookiebanner

import (
	"errors"
	"math/rand"
	"time"

	"github.com/vovakirdan/cookie-banner-clicker/internal/config"
	"github.com/vovakirdan/cookie-banner-clicker/internal/consent"
	"github.com/vovakirdan/cookie-banner-clicker/internal/core"
	"github.com/vovakirdan/cookie-banner-clicker/internal/progression"
	"github.com/vovakirdan/cookie-banner-clicker/internal/registry"
	"github.com/vovakirdan/cookie-banner-clicker/internal/scoring"
)

// Registered game ids.
const (
	GameID         = "cookiebanner"
	PracticeGameID = "cookiebanner_practice"
)

func init() {
	registry.Register(GameID, func() registry.Game { return New(Options{}) })
	registry.Register(PracticeGameID, func() registry.Game { return New(Options{Practice: true}) })
}

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type mode int

const (
	modeIntro mode = iota
	modeBanner
	modeOver
)

// Intro focus positions.
const (
	introGate = iota
	introStart
	introItems
)

// Hooks observe a run. All are optional and run on the Step caller's
// goroutine.
type Hooks struct {
	OnStart   func(startLevel int)
	OnVerdict func(level int, verdict consent.Verdict)
	OnFinish  func(progression.RunResult)
}

// Options configure a game. Zero values use the built-in levels and the
// default configuration.
type Options struct {
	Practice   bool
	Config     *config.ClickerConfig
	Levels     *consent.LevelCatalog
	StartLevel int
	Hooks      Hooks
}

type toast struct {
	text    string
	kind    ToastKind
	expires time.Time
}

// Game implements registry.Game for the cookie banner run.
type Game struct {
	opts   Options
	cfg    core.RuntimeConfig
	pcfg   config.PressureConfig
	diff   *config.DifficultyManager
	levels *consent.LevelCatalog
	ctrl   *progression.Controller
	rng    *rand.Rand

	now  time.Time
	tick time.Duration

	mode       mode
	introFocus int
	introError string
	startLevel int

	tabs      consent.TabStates
	activeTab int
	cursor    int
	listTop   int

	toasts      []toast
	deadline    time.Time
	pressureMsg string
	nag         *nagCopy
}

// New creates a game. Call Reset before stepping it.
func New(opts Options) *Game {
	g := &Game{opts: opts, startLevel: opts.StartLevel}

	cfg := config.DefaultClickerConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	g.Configure(cfg, opts.Levels)
	return g
}

// Configure replaces the pressure settings and, when levels is non-nil,
// the level pack. Takes effect on the next Reset.
func (g *Game) Configure(cfg config.ClickerConfig, levels *consent.LevelCatalog) {
	g.pcfg = cfg.Pressure
	g.diff = config.NewDifficultyManager(cfg.Difficulty)
	if levels != nil {
		g.levels = levels
	}
	if g.levels == nil {
		g.levels = consent.DefaultLevelCatalog()
	}
	g.SetStartLevel(g.startLevel)
}

// SetStartLevel picks the practice start level, clamped to the pack.
func (g *Game) SetStartLevel(level int) {
	g.startLevel = core.Clamp(level, 1, g.levels.LevelCount())
}

func (g *Game) ID() string {
	if g.opts.Practice {
		return PracticeGameID
	}
	return GameID
}

func (g *Game) Title() string {
	if g.opts.Practice {
		return "Cookie Banner Clicker (Practice)"
	}
	return "Cookie Banner Clicker"
}

// Ranked reports whether finished runs go to the leaderboard. Practice
// runs never do.
func (g *Game) Ranked() bool {
	return !g.opts.Practice
}

// SetHooks replaces the run observers. Takes effect on the next Reset.
func (g *Game) SetHooks(h Hooks) {
	g.opts.Hooks = h
}

// Reset returns to the intro screen. The gate box keeps its state across
// resets of the same game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.cfg = cfg
	if cfg.TickRate <= 0 {
		g.cfg.TickRate = 30
	}
	g.tick = time.Second / time.Duration(g.cfg.TickRate)
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.now = epoch

	gate := true
	if g.ctrl != nil {
		gate = g.ctrl.GateChecked()
	}
	start := 1
	if g.opts.Practice {
		start = g.startLevel
	}
	g.ctrl = g.newController(start)
	g.ctrl.SetGateChecked(gate)

	g.mode = modeIntro
	g.introFocus = introGate
	g.introError = ""
	g.resetBanner()
}

func (g *Game) newController(start int) *progression.Controller {
	h := g.opts.Hooks
	return progression.New(g.levels,
		progression.WithStartLevel(start),
		progression.WithOnEnterLevel(g.enterLevel),
		progression.WithOnSuccess(func(level int) {
			if h.OnVerdict != nil {
				h.OnVerdict(level, consent.Pass)
			}
		}),
		progression.WithOnFailure(func(level int) {
			if h.OnVerdict != nil {
				h.OnVerdict(level, consent.Fail)
			}
		}),
		progression.WithOnFinish(func(res progression.RunResult) {
			g.mode = modeOver
			g.nag = nil
			if h.OnFinish != nil {
				h.OnFinish(res)
			}
		}),
	)
}

func (g *Game) resetBanner() {
	g.activeTab = 0
	g.cursor = 0
	g.listTop = 0
	g.toasts = nil
	g.deadline = time.Time{}
	g.pressureMsg = ""
	g.nag = nil
}

// Step advances the simulated clock by one tick and applies input.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.now = g.now.Add(g.tick)

	switch {
	case g.nag != nil:
		g.stepNag(in)
	case g.mode == modeIntro:
		g.stepIntro(in)
	case g.mode == modeBanner:
		g.stepBanner(in)
	}

	if g.mode == modeBanner {
		g.ctrl.Scheduler().Advance(g.now)
		g.expireToasts()
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) stepIntro(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp):
		g.introFocus = core.WrapIndex(g.introFocus-1, introItems)
	case in.Has(core.ActionDown):
		g.introFocus = core.WrapIndex(g.introFocus+1, introItems)
	}

	if g.opts.Practice {
		switch {
		case in.Has(core.ActionLeft):
			g.pickStartLevel(g.startLevel - 1)
		case in.Has(core.ActionRight):
			g.pickStartLevel(g.startLevel + 1)
		}
	}

	switch {
	case in.Has(core.ActionToggle) && g.introFocus == introGate:
		g.ctrl.ToggleGate()
		g.introError = ""
	case in.Has(core.ActionConfirm) && g.introFocus == introGate:
		g.ctrl.ToggleGate()
		g.introError = ""
	case in.Has(core.ActionConfirm) && g.introFocus == introStart:
		g.start()
	}
}

func (g *Game) pickStartLevel(level int) {
	g.startLevel = core.WrapIndex(level-1, g.levels.LevelCount()) + 1
	gate := g.ctrl.GateChecked()
	g.ctrl = g.newController(g.startLevel)
	g.ctrl.SetGateChecked(gate)
}

func (g *Game) start() {
	err := g.ctrl.Start(g.now)
	if errors.Is(err, progression.ErrGateNotCleared) {
		g.introError = "Nice try! You have to uncheck the \"Accept Cookies\" box first."
		return
	}
	if err != nil {
		g.introError = err.Error()
		return
	}
	g.mode = modeBanner
	if h := g.opts.Hooks.OnStart; h != nil {
		h(g.ctrl.StartLevel())
	}
}

func (g *Game) stepBanner(in core.InputFrame) {
	b, ok := g.currentBanner()
	if !ok {
		return
	}
	n := len(b.items)
	g.cursor = core.Clamp(g.cursor, 0, max(0, n-1))

	switch {
	case in.Has(core.ActionUp):
		g.cursor = core.WrapIndex(g.cursor-1, n)
	case in.Has(core.ActionDown):
		g.cursor = core.WrapIndex(g.cursor+1, n)
	case in.Has(core.ActionNextTab), in.Has(core.ActionRight):
		g.switchTab(len(b.level.Tabs), 1)
		return
	case in.Has(core.ActionLeft):
		g.switchTab(len(b.level.Tabs), -1)
		return
	}

	if n == 0 {
		return
	}
	it := b.items[g.cursor]
	switch {
	case in.Has(core.ActionToggle) && it.kind != itemButton:
		g.tabs = g.tabs.With(b.tab.ID, b.toggled(it))
	case in.Has(core.ActionConfirm) && it.kind != itemButton:
		g.tabs = g.tabs.With(b.tab.ID, b.toggled(it))
	case in.Has(core.ActionConfirm):
		g.press(b, b.level.Buttons[it.button])
	}
}

func (g *Game) switchTab(count, dir int) {
	if count <= 1 {
		return
	}
	g.activeTab = core.WrapIndex(g.activeTab+dir, count)
	g.cursor = 0
	g.listTop = 0
}

func (g *Game) press(b banner, button consent.Button) {
	// Judge exactly what is displayed, including untouched defaults.
	choices := consent.EnsureInitialized(g.levels, b.level, b.tab, b.choices)
	if _, err := g.ctrl.Submit(b.tab, choices, button, g.now); err != nil {
		g.pressureMsg = err.Error()
	}
}

// InterceptQuit is asked before the host quits. During a run with the
// exit nag enabled the first request opens the nag and is swallowed; a
// second request while the nag is open goes through.
func (g *Game) InterceptQuit() bool {
	if g.mode != modeBanner || !g.pcfg.ExitNag || g.nag != nil {
		return false
	}
	msg := nagMessages[g.rng.Intn(len(nagMessages))]
	g.nag = &msg
	return true
}

func (g *Game) stepNag(in core.InputFrame) {
	if in.Has(core.ActionBack) || in.Has(core.ActionConfirm) {
		g.nag = nil
	}
}

// State reports the run for the host.
func (g *Game) State() core.GameState {
	st := core.GameState{
		GameOver: g.mode == modeOver,
		Paused:   g.nag != nil,
		Practice: g.opts.Practice,
	}
	if g.ctrl == nil {
		return st
	}

	s := g.ctrl.CurrentState()
	st.Level = s.Level
	st.LevelsCompleted = g.ctrl.LevelsCompleted()
	st.ElapsedMillis = int(g.ctrl.Elapsed(g.now).Milliseconds())
	st.Completed = s.Phase == progression.Completed

	if res := g.ctrl.Result(); res != nil {
		st.Score = res.Score.Total
	} else {
		st.Score = scoring.Score(st.LevelsCompleted, st.ElapsedMillis)
	}
	return st
}

// Result returns the finished run, or nil while playing.
func (g *Game) Result() *progression.RunResult {
	if g.ctrl == nil {
		return nil
	}
	return g.ctrl.Result()
}
