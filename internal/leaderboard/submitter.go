package leaderboard

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cookie-banner-clicker/internal/storage"
)

// Outcome is delivered once per Submit call.
type Outcome struct {
	Submission Submission
	Result     storage.SubmitResult
	Stats      storage.PlayerStats
	Attempts   int
	Err        error
}

// Submitter sends runs in the background with exponential backoff.
// The caller never waits on the store.
type Submitter struct {
	svc        *Service
	retries    uint64
	timeout    time.Duration
	logger     *log.Logger
	newBackOff func() backoff.BackOff
}

// NewSubmitter retries a failing submission up to retries times, each
// attempt bounded by timeout.
func NewSubmitter(svc *Service, retries uint64, timeout time.Duration, logger *log.Logger) *Submitter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Submitter{
		svc:     svc,
		retries: retries,
		timeout: timeout,
		logger:  logger,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Submit starts the submission and returns immediately. The channel
// receives exactly one Outcome and is then closed. Invalid submissions are
// not retried.
func (s *Submitter) Submit(ctx context.Context, sub Submission) <-chan Outcome {
	out := make(chan Outcome, 1)

	go func() {
		defer close(out)
		o := Outcome{Submission: sub}

		op := func() error {
			o.Attempts++
			attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			res, err := s.svc.Submit(attemptCtx, sub)
			if errors.Is(err, ErrInvalidSubmission) {
				return backoff.Permanent(err)
			}
			if err != nil {
				s.logger.Warn("leaderboard submit failed, retrying", "attempt", o.Attempts, "error", err)
				return err
			}
			o.Result = res
			return nil
		}

		b := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), s.retries), ctx)
		if err := backoff.Retry(op, b); err != nil {
			o.Err = err
			s.logger.Error("leaderboard submit gave up", "attempts", o.Attempts, "error", err)
			out <- o
			return
		}

		statsCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		stats, err := s.svc.PlayerStats(statsCtx, sub.Identifier)
		if err != nil {
			s.logger.Warn("player stats unavailable", "error", err)
		}
		o.Stats = stats
		out <- o
	}()

	return out
}
