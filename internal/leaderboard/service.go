package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cookie-banner-clicker/internal/metrics"
	"github.com/vovakirdan/cookie-banner-clicker/internal/storage"
)

// Bounds a submission must respect.
const (
	MaxScore  = 10000
	MaxLevels = 20
)

var (
	ErrInvalidSubmission = errors.New("leaderboard: invalid submission")
	ErrBadSignature      = errors.New("leaderboard: invalid signature")
)

// Submission is a finished run offered to the leaderboard.
type Submission struct {
	Name            string
	Identifier      string
	Score           int
	LevelsCompleted int
	CompletionMs    int64
}

// Validate applies the sanity bounds on score and levels.
func (s Submission) Validate() error {
	switch {
	case s.Identifier == "":
		return fmt.Errorf("%w: missing identifier", ErrInvalidSubmission)
	case s.Score < 0 || s.Score > MaxScore:
		return fmt.Errorf("%w: score %d out of range", ErrInvalidSubmission, s.Score)
	case s.LevelsCompleted < 0 || s.LevelsCompleted > MaxLevels:
		return fmt.Errorf("%w: levels %d out of range", ErrInvalidSubmission, s.LevelsCompleted)
	case s.CompletionMs < 0:
		return fmt.Errorf("%w: negative completion time", ErrInvalidSubmission)
	}
	return nil
}

// Options tune a Service. Zero values are usable.
type Options struct {
	AutoApprove bool
	TopLimit    int
	Signer      *Signer
	Logger      *log.Logger
	Metrics     *metrics.Metrics
}

// Service applies naming, validation and moderation rules on top of a
// storage backend.
type Service struct {
	board storage.Leaderboard
	opts  Options
}

func NewService(board storage.Leaderboard, opts Options) *Service {
	if opts.TopLimit <= 0 {
		opts.TopLimit = 10
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Service{board: board, opts: opts}
}

// Submit sanitizes the name, validates the run and stores it with keep-best
// semantics. Entries needing moderation produce a signed notice in the log.
func (s *Service) Submit(ctx context.Context, sub Submission) (storage.SubmitResult, error) {
	if err := sub.Validate(); err != nil {
		s.opts.Metrics.Submission("invalid")
		return storage.SubmitResult{}, err
	}

	res, err := s.board.SubmitEntry(ctx, storage.LeaderboardEntry{
		Name:            SanitizeName(sub.Name),
		Identifier:      sub.Identifier,
		Score:           sub.Score,
		LevelsCompleted: sub.LevelsCompleted,
		CompletionMs:    sub.CompletionMs,
		Approved:        s.opts.AutoApprove,
	})
	if err != nil {
		s.opts.Metrics.Submission("error")
		return res, err
	}

	switch {
	case res.Created:
		s.opts.Metrics.Submission("created")
	case res.Improved:
		s.opts.Metrics.Submission("improved")
	default:
		s.opts.Metrics.Submission("rejected")
		s.opts.Logger.Debug("existing score is better", "identifier", sub.Identifier, "score", sub.Score, "best", res.Entry.Score)
		return res, nil
	}

	if !res.Entry.Approved {
		s.opts.Logger.Info(ModerationNotice(res.Entry, res.Created, s.opts.Signer))
	}
	return res, nil
}

// Top returns the public board. When the backend fails it returns the
// built-in fallback board and false.
func (s *Service) Top(ctx context.Context) ([]storage.LeaderboardEntry, bool) {
	entries, err := s.board.TopEntries(ctx, s.opts.TopLimit, true)
	if err != nil {
		s.opts.Logger.Warn("leaderboard unavailable, showing fallback", "error", err)
		return FallbackEntries(), false
	}
	return entries, true
}

// All returns entries including unapproved ones.
func (s *Service) All(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error) {
	return s.board.TopEntries(ctx, limit, false)
}

func (s *Service) Pending(ctx context.Context) ([]storage.LeaderboardEntry, error) {
	return s.board.PendingEntries(ctx)
}

func (s *Service) PlayerStats(ctx context.Context, identifier string) (storage.PlayerStats, error) {
	return s.board.PlayerStats(ctx, identifier)
}

func (s *Service) Entry(ctx context.Context, id string) (storage.LeaderboardEntry, error) {
	return s.board.Entry(ctx, id)
}

// Moderate applies a signed approve or delete.
func (s *Service) Moderate(ctx context.Context, action, id, sig string) error {
	if action != ActionApprove && action != ActionDelete {
		return fmt.Errorf("leaderboard: unknown action %q", action)
	}
	if !s.opts.Signer.Verify(action, id, sig) {
		return ErrBadSignature
	}

	var err error
	if action == ActionApprove {
		err = s.board.Approve(ctx, id)
	} else {
		err = s.board.Delete(ctx, id)
	}
	if err != nil {
		return err
	}
	s.opts.Logger.Info("moderated entry", "action", action, "id", id)
	return nil
}

// FallbackEntries is the board shown when no backend answers.
func FallbackEntries() []storage.LeaderboardEntry {
	seed := []struct {
		name   string
		score  int
		levels int
	}{
		{"Cookie Monster", 2500, 20},
		{"Privacy Ninja", 1950, 18},
		{"Dark Pattern Destroyer", 1600, 16},
		{"Banner Buster", 1200, 12},
		{"GDPR Warrior", 900, 9},
		{"Consent Champion", 700, 7},
		{"Rookie Rejector", 500, 5},
		{"Tutorial Tiger", 300, 3},
	}
	entries := make([]storage.LeaderboardEntry, len(seed))
	for i, e := range seed {
		entries[i] = storage.LeaderboardEntry{Name: e.name, Score: e.score, LevelsCompleted: e.levels, Approved: true}
	}
	return entries
}
