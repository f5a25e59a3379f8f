// Package leaderboard validates, moderates and asynchronously submits
// finished runs to a storage.Leaderboard.
package leaderboard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// MaxNameLength bounds player names after sanitizing.
const MaxNameLength = 20

// AnonymousName replaces names that sanitize to fewer than two characters.
const AnonymousName = "Anonymous Player"

var (
	nameStrip     = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	profanityList = []string{
		"fuck", "shit", "damn", "bitch", "asshole", "bastard", "crap", "piss",
		"penis", "vagina", "sex", "nazi", "hitler", "kill", "die", "suicide",
	}
	profanity = compileProfanity(profanityList)
)

func compileProfanity(words []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		res[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return res
}

// SanitizeName keeps ASCII letters, digits and spaces, truncates to
// MaxNameLength, masks whole-word profanity with asterisks and falls back
// to AnonymousName when too little is left.
func SanitizeName(name string) string {
	s := nameStrip.ReplaceAllString(strings.TrimSpace(name), "")
	if len(s) > MaxNameLength {
		s = s[:MaxNameLength]
	}
	s = strings.TrimSpace(s)

	for i, re := range profanity {
		s = re.ReplaceAllString(s, strings.Repeat("*", len(profanityList[i])))
	}

	if len(s) < 2 {
		return AnonymousName
	}
	return s
}

// NewPlayerID returns a fresh stable identifier for a player.
func NewPlayerID() string {
	return "player_" + uuid.NewString()
}

// PlayerIDFromKey derives a stable identifier from an SSH public key, so a
// player keeps one leaderboard entry across sessions.
func PlayerIDFromKey(key []byte) string {
	return "player_" + uuid.NewSHA1(uuid.NameSpaceOID, key).String()
}

// LocalPlayerID reads the identifier stored at path, creating one on first
// use.
func LocalPlayerID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("leaderboard: read player id: %w", err)
	}

	id := NewPlayerID()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("leaderboard: create player id dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("leaderboard: write player id: %w", err)
	}
	return id, nil
}
