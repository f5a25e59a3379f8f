package leaderboard

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Moderation actions that can be signed.
const (
	ActionApprove = "approve"
	ActionDelete  = "delete"
)

// Signer produces and checks HMAC-SHA256 moderation signatures over
// "action:id". Without a key nothing is ever valid.
type Signer struct {
	key []byte
}

func NewSigner(key string) *Signer {
	return &Signer{key: []byte(key)}
}

// Enabled reports whether a signing key is configured.
func (s *Signer) Enabled() bool {
	return s != nil && len(s.key) > 0
}

// Sign returns the hex signature, or "" without a key.
func (s *Signer) Sign(action, id string) string {
	if !s.Enabled() {
		return ""
	}
	mac := hmac.New(sha256.New, s.key)
	fmt.Fprintf(mac, "%s:%s", action, id)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks sig in constant time. Blank signatures never verify.
func (s *Signer) Verify(action, id, sig string) bool {
	if sig == "" {
		return false
	}
	expected := s.Sign(action, id)
	if expected == "" {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(sig))
}
