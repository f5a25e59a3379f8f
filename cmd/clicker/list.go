package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cookie-banner-clicker/internal/consent"
	"github.com/vovakirdan/cookie-banner-clicker/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows every registered game mode and whether its runs are ranked.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the level pack",
	Long: `Shows each level with its tabs, buttons and dark-pattern modifiers.

Examples:
  clicker levels
  clicker levels --levels ./my-levels.yaml`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&flagLevelsPath, "levels", "", "Path to a level pack YAML")
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tTitle\tRanked")
	fmt.Fprintln(w, "  --\t-----\t------")
	for _, g := range games {
		ranked := "no"
		if g.Ranked {
			ranked = "yes"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", g.ID, g.Title, ranked)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("Run 'clicker play' for the campaign or 'clicker play --practice' to practice.")
}

func runLevels(_ *cobra.Command, _ []string) {
	levels := consent.DefaultLevelCatalog()
	if flagLevelsPath != "" {
		var err error
		levels, err = consent.LoadLevelCatalog(consent.DefaultCatalog(), flagLevelsPath)
		if err != nil {
			exitf("%v", err)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTitle\tTabs\tButtons\tModifiers")
	fmt.Fprintln(w, "--\t-----\t----\t-------\t---------")
	for _, l := range levels.Levels() {
		tabs := make([]string, len(l.Tabs))
		for i, t := range l.Tabs {
			tabs[i] = t.Label
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			l.ID, l.Title, strings.Join(tabs, ", "), len(l.Buttons), strings.Join(modifiers(l), ", "))
	}
	w.Flush()
}

func modifiers(l consent.LevelConfig) []string {
	var mods []string
	if l.DefaultChecked {
		mods = append(mods, "pre-ticked")
	}
	if l.ConfusingLanguage {
		mods = append(mods, "confusing language")
	}
	if l.HideRejectButton {
		mods = append(mods, "hidden reject")
	}
	if l.RequireScroll {
		mods = append(mods, "scroll")
	}
	if l.TimePressure > 0 {
		mods = append(mods, fmt.Sprintf("%ds countdown", l.TimePressure))
	}
	if l.ConfirmShaming {
		mods = append(mods, "confirm shaming")
	}
	if l.MultiStep {
		mods = append(mods, "multi-step")
	}
	if l.FlipButtonOrder {
		mods = append(mods, "flipped buttons")
	}
	if len(mods) == 0 {
		mods = append(mods, "-")
	}
	return mods
}
