package leaderboard

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vovakirdan/cookie-banner-clicker/internal/storage"
)

// ModerationNotice renders the moderator message for a pending entry,
// including ready-to-run signed commands when a key is configured.
func ModerationNotice(e storage.LeaderboardEntry, created bool, signer *Signer) string {
	action := "updated"
	if created {
		action = "submitted"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New Score %s\n", cases.Title(language.English).String(action))
	fmt.Fprintf(&b, "  Player Name: %s\n", e.Name)
	fmt.Fprintf(&b, "  Score: %d\n", e.Score)
	fmt.Fprintf(&b, "  Levels Completed: %d/%d\n", e.LevelsCompleted, MaxLevels)
	fmt.Fprintf(&b, "  Completion Time: %ds\n", e.CompletionMs/1000)

	if !signer.Enabled() {
		b.WriteString("  No signing key configured; moderation commands are disabled.")
		return b.String()
	}
	fmt.Fprintf(&b, "  Approve: clicker scores approve %s --sig %s\n", e.ID, signer.Sign(ActionApprove, e.ID))
	fmt.Fprintf(&b, "  Delete:  clicker scores delete %s --sig %s", e.ID, signer.Sign(ActionDelete, e.ID))
	return b.String()
}
