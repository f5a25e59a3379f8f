// clicker is a terminal parody of cookie consent banners: reject every
// cookie across twenty increasingly hostile dialogs.
//
// Usage:
//
//	clicker play             - Play the campaign (or --practice from any level)
//	clicker menu             - Pick a mode interactively
//	clicker list             - List available games
//	clicker levels           - List the level pack
//	clicker scores           - Show the leaderboard and moderate it
//	clicker serve            - Start the SSH server (and optional metrics endpoint)
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 30)
//	--seed <value>        - Set RNG seed for reproducible toasts
//	--db <path>           - Set database path (default: ~/.cookieclicker/scores.db)
//	--config <path>       - Custom game config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register games
	_ "github.com/vovakirdan/cookie-banner-clicker/internal/games/cookiebanner"
)

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clicker",
	Short: "Cookie Banner Clicker - reject every cookie in your terminal",
	Long: `Cookie Banner Clicker puts you in front of twenty consent banners,
each more manipulative than the last. Untick everything, find the real
reject button and never accept a single cookie.

Available commands:
  play     - Play the campaign or a practice run
  menu     - Interactive mode picker
  list     - Show all available games
  levels   - Show the level pack
  scores   - Leaderboard and moderation
  serve    - Start the SSH server

Examples:
  clicker play
  clicker play --practice --level 12
  clicker menu --difficulty hard
  clicker serve --ssh :2222 --metrics :9090
  clicker scores --local`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default ~/.cookieclicker/scores.db)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}
