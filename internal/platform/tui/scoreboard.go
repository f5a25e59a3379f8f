package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cookie-banner-clicker/internal/leaderboard"
	"github.com/vovakirdan/cookie-banner-clicker/internal/registry"
	"github.com/vovakirdan/cookie-banner-clicker/internal/scoring"
	"github.com/vovakirdan/cookie-banner-clicker/internal/storage"
)

const (
	maxHistory  = 100
	loadTimeout = 5 * time.Second
)

type boardView int

const (
	viewGlobal boardView = iota
	viewHistory
)

// LeaderboardKeyMap defines the key bindings for the leaderboard screen.
type LeaderboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	SwitchView key.Binding
	Refresh    key.Binding
	Back       key.Binding
	Quit       key.Binding
}

func (k LeaderboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.SwitchView, k.Refresh, k.Back, k.Quit}
}

func (k LeaderboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchView},
		{k.Refresh, k.Back, k.Quit},
	}
}

func DefaultLeaderboardKeyMap() LeaderboardKeyMap {
	return LeaderboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		SwitchView: key.NewBinding(
			key.WithKeys("tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "global/history"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// boardLoadedMsg carries the result of an async leaderboard query.
type boardLoadedMsg struct {
	entries []storage.LeaderboardEntry
	live    bool
	stats   *storage.PlayerStats
}

// LeaderboardModel shows the public board and the local run history.
// board and store may each be nil.
type LeaderboardModel struct {
	board    *leaderboard.Service
	store    *storage.Store
	playerID string

	view    boardView
	loading bool
	entries []storage.LeaderboardEntry
	live    bool
	stats   *storage.PlayerStats
	history []storage.ScoreEntry

	table    table.Model
	help     help.Model
	keys     LeaderboardKeyMap
	width    int
	height   int
	quitting bool
	goBack   bool
}

// NewLeaderboardModel creates the screen. playerID, when set, adds the
// player's own standing under the table.
func NewLeaderboardModel(board *leaderboard.Service, store *storage.Store, playerID string, width, height int) LeaderboardModel {
	m := LeaderboardModel{
		board:    board,
		store:    store,
		playerID: playerID,
		keys:     DefaultLeaderboardKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
		loading:  board != nil,
	}
	m.loadHistory()
	m.table = m.createTable()
	return m
}

func (m LeaderboardModel) Init() tea.Cmd {
	return m.loadBoard()
}

func (m LeaderboardModel) loadBoard() tea.Cmd {
	if m.board == nil {
		return nil
	}
	board, playerID := m.board, m.playerID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		entries, live := board.Top(ctx)
		msg := boardLoadedMsg{entries: entries, live: live}
		if live && playerID != "" {
			if st, err := board.PlayerStats(ctx, playerID); err == nil && st.Rank > 0 {
				msg.stats = &st
			}
		}
		return msg
	}
}

func (m *LeaderboardModel) loadHistory() {
	m.history = nil
	if m.store == nil {
		return
	}
	for _, g := range registry.List() {
		if !g.Ranked {
			continue
		}
		if scores, err := m.store.TopScores(g.ID, maxHistory); err == nil {
			m.history = append(m.history, scores...)
		}
	}
}

func (m LeaderboardModel) columns() []table.Column {
	if m.view == viewHistory {
		return []table.Column{
			{Title: "#", Width: 4},
			{Title: "Score", Width: 8},
			{Title: "Levels", Width: 7},
			{Title: "Rating", Width: 10},
			{Title: "Date", Width: 14},
		}
	}
	nameWidth := max(10, min(leaderboard.MaxNameLength, m.width-50))
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Name", Width: nameWidth},
		{Title: "Score", Width: 8},
		{Title: "Levels", Width: 7},
		{Title: "Time", Width: 8},
	}
}

func (m LeaderboardModel) rows() []table.Row {
	if m.view == viewHistory {
		rows := make([]table.Row, len(m.history))
		for i, s := range m.history {
			rows[i] = table.Row{
				fmt.Sprintf("%d", i+1),
				fmt.Sprintf("%d", s.Score),
				fmt.Sprintf("%d", s.Levels),
				scoring.Rating(s.Levels),
				s.CreatedAt.Format("Jan 02 15:04"),
			}
		}
		return rows
	}
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			e.Name,
			fmt.Sprintf("%d", e.Score),
			fmt.Sprintf("%d/%d", e.LevelsCompleted, leaderboard.MaxLevels),
			formatMillis(e.CompletionMs),
		}
	}
	return rows
}

func (m LeaderboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("208")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case boardLoadedMsg:
		m.loading = false
		m.entries = msg.entries
		m.live = msg.live
		m.stats = msg.stats
		m.table = m.createTable()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.SwitchView):
			if m.view == viewGlobal {
				m.view = viewHistory
			} else {
				m.view = viewGlobal
			}
			m.table = m.createTable()
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.loadHistory()
			m.loading = m.board != nil
			m.table = m.createTable()
			return m, m.loadBoard()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m LeaderboardModel) View() string {
	if m.quitting || m.goBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("208")).
		Padding(0, 1)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("LEADERBOARD"), m.width))
	b.WriteString("\n\n")

	tabs := []string{"Global", "My history"}
	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		if boardView(i) == m.view {
			rendered[i] = activeTabStyle.Render(t)
		} else {
			rendered[i] = tabStyle.Render(t)
		}
	}
	b.WriteString(centerText(lipgloss.JoinHorizontal(lipgloss.Top, rendered...), m.width))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var body, note string
	switch {
	case m.view == viewGlobal && m.board == nil:
		body = dimStyle.Render("No leaderboard backend is configured.")
	case m.view == viewGlobal && m.loading:
		body = dimStyle.Render("Loading scores...")
	case m.view == viewGlobal && len(m.entries) == 0:
		body = dimStyle.Render("No approved scores yet.\nBe the first to reject everything!")
	case m.view == viewHistory && len(m.history) == 0:
		body = dimStyle.Render("No runs recorded yet.\nPlay a ranked game to start your history.")
	default:
		body = m.table.View()
	}

	if m.view == viewGlobal && !m.loading && m.board != nil {
		switch {
		case !m.live:
			note = warnStyle.Render("Leaderboard unavailable, showing sample scores.")
		case m.stats != nil:
			note = fmt.Sprintf("You are #%d of %d with %d points.", m.stats.Rank, m.stats.TotalPlayers, m.stats.Entry.Score)
		}
	}

	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(body)))
	b.WriteString("\n")
	if note != "" {
		b.WriteString(centerText(note, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys)))
	return b.String()
}

func (m LeaderboardModel) IsGoingBack() bool {
	return m.goBack
}

func (m LeaderboardModel) IsQuitting() bool {
	return m.quitting
}

func formatMillis(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// RunLeaderboard runs the leaderboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunLeaderboard(board *leaderboard.Service, store *storage.Store, playerID string, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewLeaderboardModel(board, store, playerID, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(LeaderboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
