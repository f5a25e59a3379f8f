package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a leaderboard entry id does not exist.
var ErrNotFound = errors.New("storage: entry not found")

// LeaderboardEntry is one player's best run. Identifier is the stable player
// key; ID addresses the row for moderation.
type LeaderboardEntry struct {
	ID              string
	Name            string
	Identifier      string
	Score           int
	LevelsCompleted int
	CompletionMs    int64
	Approved        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SubmitResult reports what SubmitEntry did with a submission.
type SubmitResult struct {
	Entry    LeaderboardEntry // the stored entry after the call
	Created  bool             // first submission for the identifier
	Improved bool             // replaced a lower score
}

// Accepted reports whether the submission was stored.
func (r SubmitResult) Accepted() bool { return r.Created || r.Improved }

// PlayerStats is a player's standing among approved entries. Rank is zero
// when the player has no approved entry.
type PlayerStats struct {
	Rank         int
	TotalPlayers int
	Entry        *LeaderboardEntry
}

// Leaderboard keeps one best entry per identifier. New and improved entries
// take the Approved flag of the submission, so a moderated board submits
// with Approved false and an improved score needs re-approval.
type Leaderboard interface {
	SubmitEntry(ctx context.Context, e LeaderboardEntry) (SubmitResult, error)
	TopEntries(ctx context.Context, limit int, approvedOnly bool) ([]LeaderboardEntry, error)
	PlayerStats(ctx context.Context, identifier string) (PlayerStats, error)
	Entry(ctx context.Context, id string) (LeaderboardEntry, error)
	PendingEntries(ctx context.Context) ([]LeaderboardEntry, error)
	Approve(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Close() error
}

var _ Leaderboard = (*Store)(nil)

const leaderboardColumns = `id, name, identifier, score, levels_completed, completion_ms, approved, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (LeaderboardEntry, error) {
	var e LeaderboardEntry
	var createdAt, updatedAt any
	err := r.Scan(&e.ID, &e.Name, &e.Identifier, &e.Score, &e.LevelsCompleted,
		&e.CompletionMs, &e.Approved, &createdAt, &updatedAt)
	if err != nil {
		return e, err
	}
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return e, nil
}

// SubmitEntry inserts a first entry or replaces a strictly lower one.
func (s *Store) SubmitEntry(ctx context.Context, e LeaderboardEntry) (SubmitResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("storage: cannot begin submit: %w", err)
	}
	defer tx.Rollback()

	existing, err := scanEntry(tx.QueryRowContext(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard WHERE identifier = ?`, e.Identifier))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		e.ID = uuid.NewString()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO leaderboard (id, name, identifier, score, levels_completed, completion_ms, approved)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Name, e.Identifier, e.Score, e.LevelsCompleted, e.CompletionMs, e.Approved)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("storage: cannot insert entry: %w", err)
		}
	case err != nil:
		return SubmitResult{}, fmt.Errorf("storage: cannot look up entry: %w", err)
	case existing.Score >= e.Score:
		return SubmitResult{Entry: existing}, nil
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE leaderboard
			 SET name = ?, score = ?, levels_completed = ?, completion_ms = ?, approved = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			e.Name, e.Score, e.LevelsCompleted, e.CompletionMs, e.Approved, existing.ID)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("storage: cannot update entry: %w", err)
		}
		e.ID = existing.ID
	}

	stored, err := scanEntry(tx.QueryRowContext(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard WHERE id = ?`, e.ID))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("storage: cannot read back entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return SubmitResult{}, fmt.Errorf("storage: cannot commit submit: %w", err)
	}

	return SubmitResult{Entry: stored, Created: existing.ID == "", Improved: existing.ID != ""}, nil
}

// TopEntries returns entries by score, highest first. Ties go to the faster run.
func (s *Store) TopEntries(ctx context.Context, limit int, approvedOnly bool) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT ` + leaderboardColumns + ` FROM leaderboard`
	if approvedOnly {
		query += ` WHERE approved = 1`
	}
	query += ` ORDER BY score DESC, completion_ms ASC LIMIT ?`

	return s.queryEntries(ctx, query, limit)
}

// PendingEntries returns entries awaiting moderation, oldest first.
func (s *Store) PendingEntries(ctx context.Context) ([]LeaderboardEntry, error) {
	return s.queryEntries(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard WHERE approved = 0 ORDER BY updated_at ASC`)
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// PlayerStats ranks the player's approved entry among approved entries.
func (s *Store) PlayerStats(ctx context.Context, identifier string) (PlayerStats, error) {
	var stats PlayerStats

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leaderboard WHERE approved = 1`).Scan(&stats.TotalPlayers); err != nil {
		return stats, fmt.Errorf("storage: cannot count players: %w", err)
	}

	e, err := scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard WHERE identifier = ? AND approved = 1`, identifier))
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("storage: cannot query player: %w", err)
	}
	stats.Entry = &e

	var better int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leaderboard WHERE approved = 1 AND score > ?`, e.Score).Scan(&better); err != nil {
		return stats, fmt.Errorf("storage: cannot rank player: %w", err)
	}
	stats.Rank = better + 1

	return stats, nil
}

// Entry looks up an entry by id.
func (s *Store) Entry(ctx context.Context, id string) (LeaderboardEntry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrNotFound
	}
	if err != nil {
		return e, fmt.Errorf("storage: cannot query entry: %w", err)
	}
	return e, nil
}

// Approve makes an entry public.
func (s *Store) Approve(ctx context.Context, id string) error {
	return s.execOne(ctx, "approve",
		`UPDATE leaderboard SET approved = 1 WHERE id = ?`, id)
}

// Delete removes an entry permanently.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.execOne(ctx, "delete",
		`DELETE FROM leaderboard WHERE id = ?`, id)
}

func (s *Store) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("storage: cannot %s entry: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot %s entry: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
