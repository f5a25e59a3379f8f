package cookiebanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/cookie-banner-clicker/internal/config"
	"github.com/vovakirdan/cookie-banner-clicker/internal/consent"
	"github.com/vovakirdan/cookie-banner-clicker/internal/core"
	"github.com/vovakirdan/cookie-banner-clicker/internal/progression"
	"github.com/vovakirdan/cookie-banner-clicker/internal/registry"
	"github.com/vovakirdan/cookie-banner-clicker/internal/scoring"
)

var testRuntime = core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 30, Seed: 7}

// quietConfig turns off every timed effect.
func quietConfig() *config.ClickerConfig {
	cfg := config.DefaultClickerConfig()
	cfg.Pressure.ToastsEnabled = false
	cfg.Pressure.CountdownEnabled = false
	return &cfg
}

func newGame(opts Options) *Game {
	if opts.Config == nil {
		opts.Config = quietConfig()
	}
	g := New(opts)
	g.Reset(testRuntime)
	return g
}

func press(g *Game, actions ...core.Action) core.StepResult {
	var res core.StepResult
	for _, a := range actions {
		in := core.NewInputFrame()
		in.Set(a)
		res = g.Step(in)
	}
	return res
}

func idle(g *Game, ticks int) {
	for i := 0; i < ticks; i++ {
		g.Step(core.NewInputFrame())
	}
}

// startRun clears the gate and starts.
func startRun(t *testing.T, g *Game) {
	t.Helper()
	press(g, core.ActionToggle, core.ActionDown, core.ActionConfirm)
	require.Equal(t, modeBanner, g.mode, "run did not start: %s", g.introError)
}

func moveTo(t *testing.T, g *Game, idx int) {
	t.Helper()
	b, ok := g.currentBanner()
	require.True(t, ok)
	for range b.items {
		if g.cursor == idx {
			return
		}
		press(g, core.ActionDown)
	}
	require.Equal(t, idx, g.cursor)
}

func buttonIndex(t *testing.T, g *Game, match func(consent.Button) bool) int {
	t.Helper()
	b, ok := g.currentBanner()
	require.True(t, ok)
	for _, idx := range b.buttons {
		if match(b.level.Buttons[b.items[idx].button]) {
			return idx
		}
	}
	t.Fatalf("level %d has no matching button", b.level.ID)
	return -1
}

func pressButton(t *testing.T, g *Game, text string) core.StepResult {
	t.Helper()
	moveTo(t, g, buttonIndex(t, g, func(b consent.Button) bool { return b.Text == text }))
	return press(g, core.ActionConfirm)
}

// clearAndPass unticks every optional choice on the active tab and presses
// a button that does not accept everything.
func clearAndPass(t *testing.T, g *Game) core.StepResult {
	t.Helper()
	b, ok := g.currentBanner()
	require.True(t, ok)
	for i, it := range b.items {
		if it.kind == itemButton || it.required || !b.checked(it) {
			continue
		}
		moveTo(t, g, i)
		press(g, core.ActionToggle)
	}
	moveTo(t, g, buttonIndex(t, g, func(b consent.Button) bool { return !b.AcceptsAll }))
	return press(g, core.ActionConfirm)
}

func TestRegistered(t *testing.T) {
	require.True(t, registry.Exists(GameID))
	require.True(t, registry.Exists(PracticeGameID))

	g, err := registry.Create(PracticeGameID)
	require.NoError(t, err)
	assert.False(t, registry.IsRanked(g))

	g, err = registry.Create(GameID)
	require.NoError(t, err)
	assert.True(t, registry.IsRanked(g))
	assert.Equal(t, "Cookie Banner Clicker", g.Title())
}

func TestGateBlocksStart(t *testing.T) {
	g := newGame(Options{})

	press(g, core.ActionDown, core.ActionConfirm)
	assert.Equal(t, modeIntro, g.mode)
	assert.Contains(t, g.introError, "Accept Cookies")
	assert.Zero(t, g.State().Level)

	press(g, core.ActionUp, core.ActionToggle)
	assert.False(t, g.ctrl.GateChecked())
	assert.Empty(t, g.introError)

	res := press(g, core.ActionDown, core.ActionConfirm)
	assert.Equal(t, 1, res.State.Level)
	assert.False(t, res.State.GameOver)
}

func TestRejectAllAdvances(t *testing.T) {
	g := newGame(Options{})
	startRun(t, g)

	res := pressButton(t, g, "Reject All")
	assert.Equal(t, 2, res.State.Level)
	assert.Equal(t, 1, res.State.LevelsCompleted)
	assert.Positive(t, res.State.Score)
}

func TestAcceptAllEndsRun(t *testing.T) {
	var verdicts []consent.Verdict
	var finished []progression.RunResult
	g := newGame(Options{Hooks: Hooks{
		OnVerdict: func(level int, v consent.Verdict) { verdicts = append(verdicts, v) },
		OnFinish:  func(r progression.RunResult) { finished = append(finished, r) },
	}})
	startRun(t, g)
	pressButton(t, g, "Reject All")

	res := pressButton(t, g, "Accept All Cookies")
	assert.True(t, res.State.GameOver)
	assert.False(t, res.State.Completed)
	assert.Equal(t, []consent.Verdict{consent.Pass, consent.Fail}, verdicts)

	require.Len(t, finished, 1)
	assert.True(t, finished[0].AcceptedAll)
	assert.Equal(t, 2, finished[0].FailedLevel)
	assert.Equal(t, finished[0].Score.Total, res.State.Score)

	idle(g, 30)
	assert.Len(t, finished, 1, "finish fires once")
}

func TestDefaultsMustBeUnticked(t *testing.T) {
	g := newGame(Options{})
	startRun(t, g)
	pressButton(t, g, "Reject All")

	// Level 2 starts with everything ticked.
	res := pressButton(t, g, "Accept Selected")
	require.True(t, res.State.GameOver)
	require.NotEmpty(t, g.Result().Violations)

	g.Reset(testRuntime)
	assert.False(t, g.ctrl.GateChecked(), "gate state survives a reset")
	press(g, core.ActionDown, core.ActionConfirm)
	pressButton(t, g, "Reject All")

	res = clearAndPass(t, g)
	assert.False(t, res.State.GameOver)
	assert.Equal(t, 3, res.State.Level)
}

func TestRequiredChoicesAreLocked(t *testing.T) {
	g := newGame(Options{Practice: true, StartLevel: 5})
	startRun(t, g)

	b, _ := g.currentBanner()
	idx := -1
	for i, it := range b.items {
		if it.required {
			idx = i
			break
		}
	}
	require.NotEqual(t, -1, idx)
	before := b.checked(b.items[idx])

	moveTo(t, g, idx)
	press(g, core.ActionToggle)

	b, _ = g.currentBanner()
	assert.Equal(t, before, b.checked(b.items[idx]))
}

func TestTabsKeepTheirOwnState(t *testing.T) {
	g := newGame(Options{Practice: true, StartLevel: 4})
	startRun(t, g)

	b, _ := g.currentBanner()
	require.Len(t, b.level.Tabs, 2)
	first := b.items[0]
	require.False(t, b.checked(first))

	press(g, core.ActionToggle)
	press(g, core.ActionNextTab)
	assert.Equal(t, 1, g.activeTab)

	b, _ = g.currentBanner()
	assert.Equal(t, "legitimate", b.tab.ID)
	assert.True(t, b.checked(b.items[0]), "legitimate interest defaults to ticked")

	press(g, core.ActionLeft)
	b, _ = g.currentBanner()
	assert.True(t, b.checked(b.items[0]), "consent tab kept its toggle")
}

func TestPracticeStartLevel(t *testing.T) {
	g := newGame(Options{Practice: true})
	assert.False(t, g.Ranked())
	assert.Equal(t, PracticeGameID, g.ID())

	press(g, core.ActionLeft)
	assert.Equal(t, 20, g.startLevel)
	press(g, core.ActionRight, core.ActionRight, core.ActionRight)
	assert.Equal(t, 3, g.startLevel)

	startRun(t, g)
	st := g.State()
	assert.Equal(t, 3, st.Level)
	assert.True(t, st.Practice)
}

func TestCampaignIgnoresStartLevel(t *testing.T) {
	g := newGame(Options{StartLevel: 9})
	press(g, core.ActionRight)
	startRun(t, g)
	assert.Equal(t, 1, g.State().Level)
}

func TestFullRunCompletes(t *testing.T) {
	var starts []int
	var passes int
	hooks := Hooks{OnStart: func(level int) { starts = append(starts, level) }}
	hooks.OnVerdict = func(_ int, v consent.Verdict) {
		if v == consent.Pass {
			passes++
		}
	}
	g := newGame(Options{Hooks: hooks})
	startRun(t, g)

	var res core.StepResult
	for level := 1; level <= 20; level++ {
		require.Equal(t, level, g.State().Level)
		res = clearAndPass(t, g)
	}

	assert.True(t, res.State.GameOver)
	assert.True(t, res.State.Completed)
	assert.Equal(t, 20, res.State.LevelsCompleted)
	assert.Equal(t, scoring.Score(20, res.State.ElapsedMillis), res.State.Score)
	assert.Equal(t, []int{1}, starts)
	assert.Equal(t, 20, passes)
}

func TestToastsBelongToTheLevel(t *testing.T) {
	cfg := quietConfig()
	cfg.Pressure.ToastsEnabled = true
	cfg.Pressure.ToastInterval = 1
	cfg.Pressure.ToastLifetime = 10
	cfg.Pressure.MaxToasts = 2
	cfg.Difficulty.Enabled = false

	g := newGame(Options{Config: cfg})
	startRun(t, g)

	idle(g, 31)
	assert.Len(t, g.toasts, 1)
	idle(g, 30*5)
	assert.Len(t, g.toasts, 2, "capped at max toasts")

	pressButton(t, g, "Reject All")
	assert.Empty(t, g.toasts, "new level starts clean")
	assert.Equal(t, 1, g.ctrl.Scheduler().Pending())
}

func TestToastsExpire(t *testing.T) {
	cfg := quietConfig()
	cfg.Pressure.ToastsEnabled = true
	cfg.Pressure.ToastInterval = 100
	cfg.Pressure.ToastLifetime = 2

	g := newGame(Options{Config: cfg})
	startRun(t, g)
	g.pushToast(g.now)
	require.Len(t, g.toasts, 1)

	idle(g, 30*4)
	assert.Empty(t, g.toasts)
}

func TestCountdownIsCosmetic(t *testing.T) {
	cfg := quietConfig()
	cfg.Pressure.CountdownEnabled = true

	lc := consent.DefaultLevelCatalog()
	var timed consent.LevelConfig
	for _, l := range lc.Levels() {
		if l.TimePressure > 0 {
			timed = l
			break
		}
	}
	require.NotZero(t, timed.ID)

	g := newGame(Options{Config: cfg, Practice: true, StartLevel: timed.ID})
	startRun(t, g)

	left, ok := g.remaining()
	require.True(t, ok)
	assert.LessOrEqual(t, left, time.Duration(timed.TimePressure)*time.Second)

	idle(g, int(left/g.tick)+2)
	left, _ = g.remaining()
	assert.Zero(t, left)
	assert.NotEmpty(t, g.pressureMsg)
	assert.False(t, g.State().GameOver, "running out of time never fails the level")

	res := clearAndPass(t, g)
	assert.Equal(t, 1, res.State.LevelsCompleted)
}

func TestExitNag(t *testing.T) {
	g := newGame(Options{})
	assert.False(t, g.InterceptQuit(), "no nag on the intro screen")

	startRun(t, g)
	assert.True(t, g.InterceptQuit())
	assert.True(t, g.State().Paused)
	assert.False(t, g.InterceptQuit(), "second quit goes through")

	level := g.State().Level
	press(g, core.ActionDown, core.ActionBack)
	assert.Nil(t, g.nag)
	assert.Equal(t, level, g.State().Level)

	cfg := quietConfig()
	cfg.Pressure.ExitNag = false
	g = newGame(Options{Config: cfg})
	startRun(t, g)
	assert.False(t, g.InterceptQuit())
}

func TestRender(t *testing.T) {
	g := newGame(Options{})
	scr := core.NewScreen(testRuntime.ScreenW, testRuntime.ScreenH)

	g.Render(scr)
	assert.True(t, scr.Contains("[x] Accept Cookies"))
	assert.True(t, scr.Contains("Let's Go!"))

	startRun(t, g)
	g.Render(scr)
	assert.True(t, scr.Contains("Welcome! We value your privacy"))
	assert.True(t, scr.Contains("[ Reject All ]"))
	assert.True(t, scr.Contains("Level 1/20"))

	g.InterceptQuit()
	g.Render(scr)
	assert.True(t, scr.Contains("q leave anyway"))
	press(g, core.ActionBack)

	pressButton(t, g, "Reject All")
	pressButton(t, g, "Accept Selected")
	g.Render(scr)
	assert.True(t, scr.Contains("GAME OVER"))
	assert.True(t, scr.Contains("Still ticked when you pressed it:"))
	assert.True(t, scr.Contains("Rating          BEGINNER"))
	assert.True(t, scr.Contains("Total"))
}

func TestRenderModifiers(t *testing.T) {
	lc := consent.DefaultLevelCatalog()
	find := func(pred func(consent.LevelConfig) bool) int {
		for _, l := range lc.Levels() {
			if pred(l) {
				return l.ID
			}
		}
		t.Fatal("no level matches")
		return 0
	}
	scr := core.NewScreen(testRuntime.ScreenW, testRuntime.ScreenH)

	g := newGame(Options{Practice: true, StartLevel: find(func(l consent.LevelConfig) bool { return l.MultiStep })})
	startRun(t, g)
	g.Render(scr)
	assert.True(t, scr.Contains("Step 1 of"))

	g = newGame(Options{Practice: true, StartLevel: find(func(l consent.LevelConfig) bool { return l.ConfirmShaming })})
	startRun(t, g)
	g.Render(scr)
	lvl := g.State().Level
	assert.True(t, scr.Contains(shamingLine(lvl)[:20]))

	g = newGame(Options{Practice: true, StartLevel: find(func(l consent.LevelConfig) bool { return l.RequireScroll })})
	startRun(t, g)
	scr = core.NewScreen(testRuntime.ScreenW, 20)
	g.Render(scr)
	assert.True(t, scr.Contains("keep scrolling"))
}

func TestListWindow(t *testing.T) {
	assert.Equal(t, 0, window(5, 10, 4, 0))
	assert.Equal(t, 0, window(20, 5, 2, 0))
	assert.Equal(t, 3, window(20, 5, 7, 0))
	assert.Equal(t, 7, window(20, 5, 7, 9))
	assert.Equal(t, 9, window(20, 5, -1, 9))
}

func TestListRows(t *testing.T) {
	l := consent.LevelConfig{RequireScroll: true, MaxHeight: "200px"}
	assert.Equal(t, 8, listRows(l, 20))
	assert.Equal(t, 5, listRows(l, 5))
	l.MaxHeight = "tall"
	assert.Equal(t, 20, listRows(l, 20))
	assert.Equal(t, 20, listRows(consent.LevelConfig{}, 20))
}

func TestConfusingLabel(t *testing.T) {
	assert.Equal(t, "Don't opt out of marketing", confusingLabel("Marketing", 0))
	assert.Equal(t, "Do not refuse to allow marketing", confusingLabel("Marketing", 1))
}
