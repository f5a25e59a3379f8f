package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cookie-banner-clicker/internal/app"
	"github.com/vovakirdan/cookie-banner-clicker/internal/config"
	"github.com/vovakirdan/cookie-banner-clicker/internal/core"
	"github.com/vovakirdan/cookie-banner-clicker/internal/games/cookiebanner"
	"github.com/vovakirdan/cookie-banner-clicker/internal/leaderboard"
	"github.com/vovakirdan/cookie-banner-clicker/internal/platform/tui"
	"github.com/vovakirdan/cookie-banner-clicker/internal/registry"
)

var (
	flagPractice   bool
	flagLevel      int
	flagName       string
	flagLevelsPath string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the campaign or a practice run",
	Long: `Start a run. The campaign always starts at level 1 and its score goes
to the leaderboard; practice runs start anywhere and are not recorded.

Controls:
  Up/Down      - Move between choices and buttons
  Space        - Tick/untick the focused box
  Tab/Left/Right - Switch banner tab
  Enter        - Press the focused button
  R            - Restart (after game over)
  Esc          - Back to the menu (after game over)
  Q/Ctrl+C     - Quit
  Ctrl+S       - Save a screenshot

Difficulty options:
  easy   - Fewer toasts, no countdown
  normal - Default pressure
  hard   - Frequent toasts, short countdowns
  fixed  - No progression, stays at config's initial level

Examples:
  clicker play
  clicker play --name "Privacy Ninja"
  clicker play --practice --level 15
  clicker play --levels ./my-levels.yaml --difficulty hard`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick campaign, practice or the leaderboard interactively",
	Long: `Start in interactive menu mode. After a run you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Leaderboard
  Q            - Quit

Examples:
  clicker menu
  clicker menu --fps 60
  clicker menu --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	playCmd.Flags().BoolVar(&flagPractice, "practice", false, "Practice run (not recorded)")
	playCmd.Flags().IntVar(&flagLevel, "level", 1, "Practice start level")
	playCmd.Flags().StringVar(&flagName, "name", "", "Leaderboard name (default: $USER)")
	playCmd.Flags().StringVar(&flagLevelsPath, "levels", "", "Path to a level pack YAML")

	menuCmd.Flags().StringVar(&flagName, "name", "", "Leaderboard name (default: $USER)")
	menuCmd.Flags().StringVar(&flagLevelsPath, "levels", "", "Path to a level pack YAML")
}

// localPlayer is the player at this terminal. The id persists in the
// user directory so every local run lands on the same leaderboard row.
func localPlayer(logger *log.Logger) tui.Player {
	p := tui.Player{Name: flagName}
	if p.Name == "" {
		p.Name = os.Getenv("USER")
	}

	path := config.UserPath("player_id")
	if path == "" {
		return p
	}
	id, err := leaderboard.LocalPlayerID(path)
	if err != nil {
		logger.Warn("no player id, scores stay local", "error", err)
		return p
	}
	p.ID = id
	return p
}

type session struct {
	svc    *app.Services
	player tui.Player
	closer io.Closer
}

func openSession() session {
	env := loadEnv()
	logger, closer := tuiLogger(env)
	svc := buildServices(env, logger, nil, flagLevelsPath)
	return session{svc: svc, player: localPlayer(logger), closer: closer}
}

func (s session) Close() {
	if err := s.svc.Close(); err != nil {
		s.svc.Logger.Warn("closing services", "error", err)
	}
	s.closer.Close()
}

func runPlay(_ *cobra.Command, _ []string) {
	gameID := cookiebanner.GameID
	if flagPractice {
		gameID = cookiebanner.PracticeGameID
	} else if flagLevel != 1 {
		fmt.Fprintln(os.Stderr, "Warning: --level only applies to --practice; the campaign starts at level 1")
	}

	game, err := registry.Create(gameID)
	if err != nil {
		exitf("creating game: %v", err)
	}
	if g, ok := game.(*cookiebanner.Game); ok && flagPractice {
		g.SetStartLevel(flagLevel)
	}

	s := openSession()
	defer s.Close()

	cfg := runtimeConfig()
	back, err := tui.Run(game, s.svc, cfg, s.player)
	if err != nil {
		s.Close()
		exitf("running game: %v", err)
	}
	if back {
		menuLoop(s, cfg)
	}
}

func runMenu(_ *cobra.Command, _ []string) {
	s := openSession()
	defer s.Close()

	menuLoop(s, runtimeConfig())
}

func menuLoop(s session, cfg core.RuntimeConfig) {
	for {
		menuResult, err := tui.RunMenu(s.svc.Store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsLeaderboard {
			goBack, err := tui.RunLeaderboard(s.svc.Board, s.svc.Store, s.player.ID, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if goBack {
				continue
			}
			return
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		cfg.Seed = time.Now().UnixNano()
		if _, err := tui.Run(game, s.svc, cfg, s.player); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}
