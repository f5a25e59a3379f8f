package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cookie-banner-clicker/internal/app"
	"github.com/vovakirdan/cookie-banner-clicker/internal/games/cookiebanner"
	"github.com/vovakirdan/cookie-banner-clicker/internal/leaderboard"
	"github.com/vovakirdan/cookie-banner-clicker/internal/logging"
	"github.com/vovakirdan/cookie-banner-clicker/internal/scoring"
	"github.com/vovakirdan/cookie-banner-clicker/internal/storage"
)

const cmdTimeout = 10 * time.Second

var (
	flagAll   bool
	flagLocal bool
	flagSig   string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the public leaderboard, or your local run history with --local.

Moderation commands need CLICKER_ADMIN_SIGNING_KEY on the machine that
signs; approve and delete verify the signature against the same key.

Examples:
  clicker scores
  clicker scores --all
  clicker scores --local
  clicker scores pending
  clicker scores sign approve <id>
  clicker scores approve <id> --sig <signature>`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

var scoresPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List entries waiting for moderation",
	Args:  cobra.NoArgs,
	Run:   runPending,
}

var scoresApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a pending entry",
	Args:  cobra.ExactArgs(1),
	Run:   func(_ *cobra.Command, args []string) { runModerate(leaderboard.ActionApprove, args[0]) },
}

var scoresDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	Run:   func(_ *cobra.Command, args []string) { runModerate(leaderboard.ActionDelete, args[0]) },
}

var scoresSignCmd = &cobra.Command{
	Use:       "sign <approve|delete> <id>",
	Short:     "Print the moderation signature for an entry",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{leaderboard.ActionApprove, leaderboard.ActionDelete},
	Run:       runSign,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagAll, "all", false, "Include entries waiting for moderation")
	scoresCmd.Flags().BoolVar(&flagLocal, "local", false, "Show local run history instead")
	scoresApproveCmd.Flags().StringVar(&flagSig, "sig", "", "Moderation signature")
	scoresDeleteCmd.Flags().StringVar(&flagSig, "sig", "", "Moderation signature")
	for _, c := range []*cobra.Command{scoresApproveCmd, scoresDeleteCmd} {
		//nolint:errcheck // Flag is registered above
		c.MarkFlagRequired("sig")
	}

	scoresCmd.AddCommand(scoresPendingCmd, scoresApproveCmd, scoresDeleteCmd, scoresSignCmd)
}

// cliServices builds services that log to stderr.
func cliServices() *app.Services {
	env := loadEnv()
	return buildServices(env, logging.New(os.Stderr, env.LogLevel, "clicker"), nil, "")
}

func runScores(_ *cobra.Command, _ []string) {
	svc := cliServices()
	defer svc.Close()

	if flagLocal {
		printHistory(svc)
		return
	}
	if svc.Board == nil {
		svc.Close()
		exitf("no leaderboard backend available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	var entries []storage.LeaderboardEntry
	if flagAll {
		var err error
		entries, err = svc.Board.All(ctx, 100)
		if err != nil {
			svc.Close()
			exitf("retrieving scores: %v", err)
		}
	} else {
		var live bool
		entries, live = svc.Board.Top(ctx)
		if !live {
			fmt.Println("Leaderboard unavailable, showing sample scores.")
			fmt.Println()
		}
	}

	fmt.Printf("Leaderboard (%s)\n\n", svc.Backend)
	if len(entries) == 0 {
		fmt.Println("No scores yet.")
		fmt.Println()
		fmt.Println("Play 'clicker play' to set the first one!")
		return
	}
	printEntries(entries, flagAll)
}

func printEntries(entries []storage.LeaderboardEntry, withStatus bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "  Rank\tName\tScore\tLevels\tTime"
	if withStatus {
		header += "\tStatus\tID"
	}
	fmt.Fprintln(w, header)
	for i, e := range entries {
		line := fmt.Sprintf("  %d\t%s\t%d\t%d/%d\t%s",
			i+1, e.Name, e.Score, e.LevelsCompleted, leaderboard.MaxLevels,
			(time.Duration(e.CompletionMs) * time.Millisecond).Round(time.Second))
		if withStatus {
			status := "approved"
			if !e.Approved {
				status = "pending"
			}
			line += fmt.Sprintf("\t%s\t%s", status, e.ID)
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()
}

func printHistory(svc *app.Services) {
	if svc.Store == nil {
		svc.Close()
		exitf("scores database unavailable")
	}
	scores, err := svc.Store.TopScores(cookiebanner.GameID, 10)
	if err != nil {
		svc.Close()
		exitf("retrieving scores: %v", err)
	}

	fmt.Println("Local history - Cookie Banner Clicker")
	fmt.Println()
	if len(scores) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  Rank\tScore\tLevels\tRating\tDate")
	for i, s := range scores {
		fmt.Fprintf(w, "  %d\t%d\t%d\t%s\t%s\n",
			i+1, s.Score, s.Levels, scoring.Rating(s.Levels), s.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()

	if stats, err := svc.Store.GetGameStats(cookiebanner.GameID); err == nil && stats != nil {
		fmt.Println()
		fmt.Printf("Runs: %d  Best: %d  Most levels: %d\n", stats.GamesCount, stats.HighScore, stats.BestLevels)
	}
}

func runPending(_ *cobra.Command, _ []string) {
	svc := cliServices()
	defer svc.Close()
	if svc.Board == nil {
		svc.Close()
		exitf("no leaderboard backend available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	entries, err := svc.Board.Pending(ctx)
	if err != nil {
		svc.Close()
		exitf("retrieving pending entries: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("Nothing waiting for moderation.")
		return
	}
	for _, e := range entries {
		fmt.Println(leaderboard.ModerationNotice(e, e.CreatedAt.Equal(e.UpdatedAt), svc.Signer))
		fmt.Println()
	}
}

func runModerate(action, id string) {
	svc := cliServices()
	defer svc.Close()
	if svc.Board == nil {
		svc.Close()
		exitf("no leaderboard backend available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	err := svc.Board.Moderate(ctx, action, id, flagSig)
	switch {
	case errors.Is(err, leaderboard.ErrBadSignature):
		svc.Close()
		exitf("signature does not match entry %s", id)
	case errors.Is(err, storage.ErrNotFound):
		svc.Close()
		exitf("no entry with id %s", id)
	case err != nil:
		svc.Close()
		exitf("%s %s: %v", action, id, err)
	}
	fmt.Printf("Entry %s: %s done.\n", id, action)
}

func runSign(_ *cobra.Command, args []string) {
	action, id := args[0], args[1]
	if action != leaderboard.ActionApprove && action != leaderboard.ActionDelete {
		exitf("unknown action %q (use approve or delete)", action)
	}

	signer := leaderboard.NewSigner(loadEnv().AdminSigningKey)
	if !signer.Enabled() {
		exitf("CLICKER_ADMIN_SIGNING_KEY is not set")
	}
	sig := signer.Sign(action, id)
	fmt.Println(sig)
	fmt.Fprintf(os.Stderr, "Run: clicker scores %s %s --sig %s\n", action, id, sig)
}
