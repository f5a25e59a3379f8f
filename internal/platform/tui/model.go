package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cookie-banner-clicker/internal/app"
	"github.com/vovakirdan/cookie-banner-clicker/internal/config"
	"github.com/vovakirdan/cookie-banner-clicker/internal/consent"
	"github.com/vovakirdan/cookie-banner-clicker/internal/core"
	"github.com/vovakirdan/cookie-banner-clicker/internal/games/cookiebanner"
	"github.com/vovakirdan/cookie-banner-clicker/internal/leaderboard"
	"github.com/vovakirdan/cookie-banner-clicker/internal/logging"
	"github.com/vovakirdan/cookie-banner-clicker/internal/registry"
)

// panelHeight is reserved under the game screen while the score panel shows.
const panelHeight = 4

// Player identifies who is at the keyboard. ID is the stable leaderboard
// identifier; Name prefills the name prompt.
type Player struct {
	Name string
	ID   string
}

// quitInterceptor is implemented by games that want a say before the host
// quits, such as an "are you sure" overlay.
type quitInterceptor interface {
	InterceptQuit() bool
}

type phase int

const (
	phasePlaying phase = iota
	phaseNaming
	phaseSubmitting
	phaseDone
)

// submitDoneMsg delivers a background leaderboard submission.
type submitDoneMsg leaderboard.Outcome

var (
	panelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// GameModel runs one registry game: ticks, input, local history and the
// leaderboard submission after a ranked run.
type GameModel struct {
	game       registry.Game
	svc        *app.Services
	player     Player
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper

	phase     phase
	finished  bool
	nameInput textinput.Model
	outcome   *leaderboard.Outcome
	note      string

	quitting   bool
	backToMenu bool
}

// NewGameModel wires game to the services. svc may be nil for a bare game
// with no persistence.
func NewGameModel(game registry.Game, svc *app.Services, cfg core.RuntimeConfig, player Player) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if svc == nil {
		svc = &app.Services{}
	}
	if svc.Logger == nil {
		cp := *svc
		cp.Logger = logging.Discard()
		svc = &cp
	}
	configureGame(game, svc)

	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = leaderboard.MaxNameLength
	ti.Width = leaderboard.MaxNameLength + 1
	ti.Prompt = "> "

	return GameModel{
		game:       game,
		svc:        svc,
		player:     player,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		nameInput:  ti,
	}
}

// configureGame hands the loaded config, level pack and metrics hooks to
// games that take them.
func configureGame(game registry.Game, svc *app.Services) {
	g, ok := game.(*cookiebanner.Game)
	if !ok {
		return
	}
	if svc.Levels != nil {
		g.Configure(svc.Config, svc.Levels)
	}
	id, m := g.ID(), svc.Metrics
	g.SetHooks(cookiebanner.Hooks{
		OnStart: func(int) { m.RunStarted(id) },
		OnVerdict: func(level int, v consent.Verdict) {
			m.LevelVerdict(level, v.String())
		},
	})
}

func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case submitDoneMsg:
		out := leaderboard.Outcome(msg)
		m.outcome = &out
		m.phase = phaseDone
		return m, nil
	}

	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	switch m.phase {
	case phaseNaming:
		return m.handleNameKey(msg)
	case phaseSubmitting:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		if qi, ok := m.game.(quitInterceptor); ok && msg.String() != "ctrl+c" && qi.InterceptQuit() {
			return m, nil
		}
		return m.quit()
	}

	if m.gameState.GameOver && m.keyMapper.MapKeyToMenuAction(msg) == MenuActionBack {
		m.backToMenu = true
		return m, tea.Quit
	}
	return m, nil
}

func (m GameModel) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.phase = phaseDone
		m.note = "Score not submitted."
		m.nameInput.Blur()
		return m, nil
	case "enter":
		m.phase = phaseSubmitting
		m.nameInput.Blur()
		return m, m.submitCmd(m.nameInput.Value())
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m GameModel) quit() (tea.Model, tea.Cmd) {
	if !m.finished && m.gameState.Level > 0 && !m.gameState.GameOver {
		m.svc.Metrics.RunFinished(m.game.ID(), "abandoned", m.gameState.Score)
	}
	m.quitting = true
	return m, tea.Quit
}

// handleResize keeps the run going; games lay themselves out on every
// render.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.nameInput.Width = min(leaderboard.MaxNameLength+1, max(1, msg.Width-4))
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver && m.phase != phaseSubmitting {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.finished = false
		m.phase = phasePlaying
		m.outcome = nil
		m.note = ""
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	var cmd tea.Cmd
	if m.gameState.GameOver && !m.finished {
		cmd = m.finishRun()
	}
	return m, tea.Batch(cmd, tickCmd(m.config.TickRate))
}

// finishRun records the run once per game over and opens the name prompt
// when the score can go to the leaderboard.
func (m *GameModel) finishRun() tea.Cmd {
	m.finished = true
	st := m.gameState
	id := m.game.ID()

	outcome := "failed"
	if st.Completed {
		outcome = "completed"
	}
	m.svc.Metrics.RunFinished(id, outcome, st.Score)

	if !registry.IsRanked(m.game) {
		return nil
	}
	if m.svc.Store != nil {
		if _, err := m.svc.Store.SaveScore(id, st.Score, st.LevelsCompleted); err != nil {
			m.svc.Logger.Warn("could not save score", "game", id, "error", err)
		}
	}
	if m.svc.Submitter == nil || st.Score <= 0 || m.player.ID == "" {
		return nil
	}

	m.phase = phaseNaming
	m.nameInput.SetValue(m.player.Name)
	m.nameInput.CursorEnd()
	return m.nameInput.Focus()
}

func (m GameModel) submitCmd(name string) tea.Cmd {
	sub := leaderboard.Submission{
		Name:            name,
		Identifier:      m.player.ID,
		Score:           m.gameState.Score,
		LevelsCompleted: m.gameState.LevelsCompleted,
		CompletionMs:    int64(m.gameState.ElapsedMillis),
	}
	submitter := m.svc.Submitter
	return func() tea.Msg {
		return submitDoneMsg(<-submitter.Submit(context.Background(), sub))
	}
}

// saveScreenshot writes the current screen as plain text.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	dir := config.UserPath("screenshots")
	if dir == "" {
		return
	}
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// panel renders the score panel shown under the game, or "" when hidden.
func (m GameModel) panel() string {
	switch m.phase {
	case phaseNaming:
		return lipgloss.JoinVertical(lipgloss.Left,
			panelStyle.Render("Enter your name for the leaderboard:"),
			m.nameInput.View(),
			hintStyle.Render("enter submit   esc skip"),
		)
	case phaseSubmitting:
		return panelStyle.Render("Submitting score...")
	case phaseDone:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.outcomeLine(),
			hintStyle.Render("r play again   esc menu   q quit"),
		)
	}
	return ""
}

func (m GameModel) outcomeLine() string {
	out := m.outcome
	switch {
	case out == nil:
		return hintStyle.Render(m.note)
	case out.Err != nil:
		return errStyle.Render(fmt.Sprintf("Could not submit score: %v", out.Err))
	case !out.Result.Accepted():
		return warnStyle.Render(fmt.Sprintf("Your best of %d stays on the board.", out.Result.Entry.Score))
	case !out.Result.Entry.Approved:
		return okStyle.Render("Score submitted. It will appear once a moderator approves it.")
	case out.Stats.Rank > 0:
		return okStyle.Render(fmt.Sprintf("Score submitted! You are #%d of %d.", out.Stats.Rank, out.Stats.TotalPlayers))
	}
	return okStyle.Render("Score submitted!")
}

func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	panel := m.panel()
	h := m.config.ScreenH
	if panel != "" {
		h = max(1, h-panelHeight)
	}
	if m.screen.Width() != m.config.ScreenW || m.screen.Height() != h {
		m.screen.Resize(m.config.ScreenW, h)
	}

	m.game.Render(m.screen)
	view := RenderScreen(m.screen)
	if panel == "" {
		return view
	}
	return lipgloss.JoinVertical(lipgloss.Left, view, panel)
}

func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the player asked to leave after game over.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game in the local terminal. It returns true when the
// player asked to go back to the menu.
func Run(game registry.Game, svc *app.Services, cfg core.RuntimeConfig, player Player) (backToMenu bool, err error) {
	p := tea.NewProgram(
		NewGameModel(game, svc, cfg, player),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(GameModel)
	return ok && m.BackToMenu(), nil
}
