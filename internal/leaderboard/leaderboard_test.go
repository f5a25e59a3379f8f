package leaderboard

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/cookie-banner-clicker/internal/storage"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Alice!!  ", "Alice"},
		{"Bob the Builder", "Bob the Builder"},
		{"a", AnonymousName},
		{"", AnonymousName},
		{"!!!", AnonymousName},
		{"ÆØÅ", AnonymousName},
		{"Kill Bill", "**** Bill"},
		{"skillful", "skillful"},
		{"Die Hard fan", "*** Hard fan"},
		{"ABCDEFGHIJKLMNOPQRSTUVWXYZ", "ABCDEFGHIJKLMNOPQRST"},
		{"Cookie <script> Monster", "Cookie script Monste"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeName(tc.in))
		})
	}
}

func TestNewPlayerID(t *testing.T) {
	a, b := NewPlayerID(), NewPlayerID()
	assert.True(t, strings.HasPrefix(a, "player_"))
	assert.NotEqual(t, a, b)
}

func TestPlayerIDFromKey(t *testing.T) {
	a := PlayerIDFromKey([]byte("ssh-ed25519 AAAA"))
	assert.Equal(t, a, PlayerIDFromKey([]byte("ssh-ed25519 AAAA")))
	assert.NotEqual(t, a, PlayerIDFromKey([]byte("ssh-ed25519 BBBB")))
	assert.True(t, strings.HasPrefix(a, "player_"))
}

func TestLocalPlayerID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "player_id")

	first, err := LocalPlayerID(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "player_"))

	again, err := LocalPlayerID(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestSigner(t *testing.T) {
	s := NewSigner("top-secret")

	sig := s.Sign(ActionApprove, "abc")
	require.Len(t, sig, 64)
	assert.True(t, s.Verify(ActionApprove, "abc", sig))
	assert.False(t, s.Verify(ActionDelete, "abc", sig), "signature is bound to the action")
	assert.False(t, s.Verify(ActionApprove, "abd", sig), "signature is bound to the id")
	assert.False(t, s.Verify(ActionApprove, "abc", ""))
	assert.False(t, NewSigner("other").Verify(ActionApprove, "abc", sig))
}

func TestSignerWithoutKeyNeverValidates(t *testing.T) {
	s := NewSigner("")
	assert.False(t, s.Enabled())
	assert.Empty(t, s.Sign(ActionApprove, "abc"))
	assert.False(t, s.Verify(ActionApprove, "abc", ""))

	var nilSigner *Signer
	assert.False(t, nilSigner.Verify(ActionApprove, "abc", "deadbeef"))
}

func TestSubmissionValidate(t *testing.T) {
	valid := Submission{Identifier: "p", Score: 5000, LevelsCompleted: 20}
	require.NoError(t, valid.Validate())

	for name, sub := range map[string]Submission{
		"no identifier":   {Score: 10},
		"negative score":  {Identifier: "p", Score: -1},
		"score too high":  {Identifier: "p", Score: 10001},
		"too many levels": {Identifier: "p", LevelsCompleted: 21},
		"negative time":   {Identifier: "p", CompletionMs: -5},
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, sub.Validate(), ErrInvalidSubmission)
		})
	}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "lb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestServiceSubmitAndModerate(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	signer := NewSigner("key")
	svc := NewService(openStore(t), Options{Signer: signer, Logger: log.New(&logs)})

	res, err := svc.Submit(ctx, Submission{Name: "Privacy Ninja!", Identifier: "p1", Score: 1580, LevelsCompleted: 12, CompletionMs: 60000})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "Privacy Ninja", res.Entry.Name)
	assert.False(t, res.Entry.Approved)
	assert.Contains(t, logs.String(), "New Score Submitted")
	assert.Contains(t, logs.String(), signer.Sign(ActionApprove, res.Entry.ID))

	top, ok := svc.Top(ctx)
	assert.True(t, ok)
	assert.Empty(t, top, "pending entries are not public")

	err = svc.Moderate(ctx, ActionApprove, res.Entry.ID, "bogus")
	assert.ErrorIs(t, err, ErrBadSignature)

	require.NoError(t, svc.Moderate(ctx, ActionApprove, res.Entry.ID, signer.Sign(ActionApprove, res.Entry.ID)))
	top, _ = svc.Top(ctx)
	require.Len(t, top, 1)
	assert.Equal(t, 1580, top[0].Score)

	stats, err := svc.PlayerStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rank)

	err = svc.Moderate(ctx, "publish", res.Entry.ID, "x")
	assert.Error(t, err)

	require.NoError(t, svc.Moderate(ctx, ActionDelete, res.Entry.ID, signer.Sign(ActionDelete, res.Entry.ID)))
	_, err = svc.Entry(ctx, res.Entry.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestServiceAutoApprove(t *testing.T) {
	ctx := context.Background()
	svc := NewService(openStore(t), Options{AutoApprove: true})

	_, err := svc.Submit(ctx, Submission{Name: "Zed", Identifier: "z", Score: 300, LevelsCompleted: 3})
	require.NoError(t, err)

	top, ok := svc.Top(ctx)
	assert.True(t, ok)
	require.Len(t, top, 1)
	assert.True(t, top[0].Approved)
}

func TestServiceRejectsInvalid(t *testing.T) {
	svc := NewService(openStore(t), Options{})
	_, err := svc.Submit(context.Background(), Submission{Identifier: "z", Score: 99999})
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}

func TestServiceTopFallback(t *testing.T) {
	store := openStore(t)
	svc := NewService(store, Options{})
	store.Close()

	top, ok := svc.Top(context.Background())
	assert.False(t, ok)
	assert.Equal(t, FallbackEntries(), top)
	assert.Equal(t, "Cookie Monster", top[0].Name)
}

func TestModerationNoticeWithoutKey(t *testing.T) {
	e := storage.LeaderboardEntry{ID: "id1", Name: "X", Score: 10, LevelsCompleted: 1, CompletionMs: 12000}
	notice := ModerationNotice(e, false, NewSigner(""))
	assert.Contains(t, notice, "New Score Updated")
	assert.Contains(t, notice, "Completion Time: 12s")
	assert.Contains(t, notice, "moderation commands are disabled")
}

// flakyBoard fails the first n submissions.
type flakyBoard struct {
	storage.Leaderboard
	failures int32
	calls    atomic.Int32
}

func (f *flakyBoard) SubmitEntry(ctx context.Context, e storage.LeaderboardEntry) (storage.SubmitResult, error) {
	if f.calls.Add(1) <= f.failures {
		return storage.SubmitResult{}, errors.New("connection refused")
	}
	return f.Leaderboard.SubmitEntry(ctx, e)
}

func newTestSubmitter(board storage.Leaderboard, retries uint64) *Submitter {
	s := NewSubmitter(NewService(board, Options{AutoApprove: true}), retries, time.Second, nil)
	s.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return s
}

func receive(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case o, ok := <-ch:
		require.True(t, ok, "channel closed without an outcome")
		return o
	case <-time.After(5 * time.Second):
		t.Fatal("no outcome delivered")
		return Outcome{}
	}
}

func TestSubmitterRetries(t *testing.T) {
	board := &flakyBoard{Leaderboard: openStore(t), failures: 2}
	s := newTestSubmitter(board, 5)

	o := receive(t, s.Submit(context.Background(), Submission{Name: "Retry", Identifier: "r", Score: 800, LevelsCompleted: 8}))
	require.NoError(t, o.Err)
	assert.Equal(t, 3, o.Attempts)
	assert.True(t, o.Result.Created)
	assert.Equal(t, 1, o.Stats.Rank)
	assert.Equal(t, 1, o.Stats.TotalPlayers)
}

func TestSubmitterGivesUp(t *testing.T) {
	board := &flakyBoard{Leaderboard: openStore(t), failures: 100}
	s := newTestSubmitter(board, 2)

	ch := s.Submit(context.Background(), Submission{Name: "Nope", Identifier: "n", Score: 1})
	o := receive(t, ch)
	assert.Error(t, o.Err)
	assert.Equal(t, 3, o.Attempts)

	_, open := <-ch
	assert.False(t, open, "channel should be closed after the outcome")
}

func TestSubmitterDoesNotRetryInvalid(t *testing.T) {
	board := &flakyBoard{Leaderboard: openStore(t)}
	s := newTestSubmitter(board, 5)

	o := receive(t, s.Submit(context.Background(), Submission{Identifier: "x", Score: -4}))
	assert.ErrorIs(t, o.Err, ErrInvalidSubmission)
	assert.Equal(t, 1, o.Attempts)
	assert.Equal(t, int32(0), board.calls.Load())
}

func TestSubmitterCancelled(t *testing.T) {
	board := &flakyBoard{Leaderboard: openStore(t), failures: 100}
	s := newTestSubmitter(board, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := receive(t, s.Submit(ctx, Submission{Name: "Gone", Identifier: "g", Score: 1}))
	assert.Error(t, o.Err)
}
