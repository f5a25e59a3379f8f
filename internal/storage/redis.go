package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisLeaderboard implements Leaderboard on Redis. Every entry lives in a
// hash; two sorted sets index all entries and approved entries by score, and
// an identifier hash maps players to their entry id.
type RedisLeaderboard struct {
	client *redis.Client
	board  string
}

var _ Leaderboard = (*RedisLeaderboard)(nil)

// NewRedisLeaderboard wraps an existing client. board namespaces the keys.
func NewRedisLeaderboard(client *redis.Client, board string) *RedisLeaderboard {
	if board == "" {
		board = "global"
	}
	return &RedisLeaderboard{client: client, board: board}
}

// DialRedis connects and pings once.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: cannot reach redis at %s: %w", addr, err)
	}
	return client, nil
}

func (r *RedisLeaderboard) scoresKey() string {
	return fmt.Sprintf("leaderboard:{%s}:scores", r.board)
}

func (r *RedisLeaderboard) approvedKey() string {
	return fmt.Sprintf("leaderboard:{%s}:approved", r.board)
}

func (r *RedisLeaderboard) identifiersKey() string {
	return fmt.Sprintf("leaderboard:{%s}:identifiers", r.board)
}

func (r *RedisLeaderboard) entryKey(id string) string {
	return fmt.Sprintf("leaderboard:{%s}:entry:%s", r.board, id)
}

func entryFields(e LeaderboardEntry) map[string]any {
	return map[string]any{
		"name":             e.Name,
		"identifier":       e.Identifier,
		"score":            e.Score,
		"levels_completed": e.LevelsCompleted,
		"completion_ms":    e.CompletionMs,
		"approved":         strconv.FormatBool(e.Approved),
		"created_at":       e.CreatedAt.UnixMilli(),
		"updated_at":       e.UpdatedAt.UnixMilli(),
	}
}

func parseEntry(id string, m map[string]string) (LeaderboardEntry, error) {
	if len(m) == 0 {
		return LeaderboardEntry{}, ErrNotFound
	}
	e := LeaderboardEntry{ID: id, Name: m["name"], Identifier: m["identifier"]}

	var err error
	bad := func(field string, err error) error {
		return fmt.Errorf("storage: bad %s in entry %s: %w", field, id, err)
	}
	if e.Score, err = strconv.Atoi(m["score"]); err != nil {
		return e, bad("score", err)
	}
	if e.LevelsCompleted, err = strconv.Atoi(m["levels_completed"]); err != nil {
		return e, bad("levels_completed", err)
	}
	if e.CompletionMs, err = strconv.ParseInt(m["completion_ms"], 10, 64); err != nil {
		return e, bad("completion_ms", err)
	}
	if e.Approved, err = strconv.ParseBool(m["approved"]); err != nil {
		return e, bad("approved", err)
	}
	created, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return e, bad("created_at", err)
	}
	updated, err := strconv.ParseInt(m["updated_at"], 10, 64)
	if err != nil {
		return e, bad("updated_at", err)
	}
	e.CreatedAt = time.UnixMilli(created).UTC()
	e.UpdatedAt = time.UnixMilli(updated).UTC()
	return e, nil
}

// SubmitEntry inserts or improves the identifier's entry. The identifier
// index is watched so concurrent submissions for one player serialize.
func (r *RedisLeaderboard) SubmitEntry(ctx context.Context, e LeaderboardEntry) (SubmitResult, error) {
	var result SubmitResult

	txf := func(tx *redis.Tx) error {
		result = SubmitResult{}
		now := time.Now().UTC().Truncate(time.Millisecond)

		id, err := tx.HGet(ctx, r.identifiersKey(), e.Identifier).Result()
		switch {
		case errors.Is(err, redis.Nil):
			e.ID = uuid.NewString()
			e.CreatedAt = now
			result.Created = true
		case err != nil:
			return err
		default:
			fields, err := tx.HGetAll(ctx, r.entryKey(id)).Result()
			if err != nil {
				return err
			}
			existing, err := parseEntry(id, fields)
			if err != nil {
				return err
			}
			if existing.Score >= e.Score {
				result.Entry = existing
				return nil
			}
			e.ID = id
			e.CreatedAt = existing.CreatedAt
			result.Improved = true
		}
		e.UpdatedAt = now

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, r.entryKey(e.ID), entryFields(e))
			pipe.HSet(ctx, r.identifiersKey(), e.Identifier, e.ID)
			pipe.ZAdd(ctx, r.scoresKey(), &redis.Z{Score: float64(e.Score), Member: e.ID})
			if e.Approved {
				pipe.ZAdd(ctx, r.approvedKey(), &redis.Z{Score: float64(e.Score), Member: e.ID})
			} else {
				pipe.ZRem(ctx, r.approvedKey(), e.ID)
			}
			return nil
		})
		if err == nil {
			result.Entry = e
		}
		return err
	}

	if err := r.client.Watch(ctx, txf, r.identifiersKey()); err != nil {
		return SubmitResult{}, fmt.Errorf("storage: cannot submit entry: %w", err)
	}
	return result, nil
}

// TopEntries returns entries by score, highest first.
func (r *RedisLeaderboard) TopEntries(ctx context.Context, limit int, approvedOnly bool) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	key := r.scoresKey()
	if approvedOnly {
		key = r.approvedKey()
	}

	ids, err := r.client.ZRevRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	return r.loadEntries(ctx, ids)
}

// PendingEntries returns unapproved entries, oldest update first.
func (r *RedisLeaderboard) PendingEntries(ctx context.Context) ([]LeaderboardEntry, error) {
	ids, err := r.client.ZRange(ctx, r.scoresKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	all, err := r.loadEntries(ctx, ids)
	if err != nil {
		return nil, err
	}

	var pending []LeaderboardEntry
	for _, e := range all {
		if !e.Approved {
			pending = append(pending, e)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].UpdatedAt.Before(pending[j].UpdatedAt)
	})
	return pending, nil
}

func (r *RedisLeaderboard) loadEntries(ctx context.Context, ids []string) ([]LeaderboardEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.StringStringMapCmd, len(ids))
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, r.entryKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load entries: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(ids))
	for i, cmd := range cmds {
		e, err := parseEntry(ids[i], cmd.Val())
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// PlayerStats ranks the player's approved entry among approved entries.
func (r *RedisLeaderboard) PlayerStats(ctx context.Context, identifier string) (PlayerStats, error) {
	var stats PlayerStats

	total, err := r.client.ZCard(ctx, r.approvedKey()).Result()
	if err != nil {
		return stats, fmt.Errorf("storage: cannot count players: %w", err)
	}
	stats.TotalPlayers = int(total)

	id, err := r.client.HGet(ctx, r.identifiersKey(), identifier).Result()
	if errors.Is(err, redis.Nil) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("storage: cannot query player: %w", err)
	}

	e, err := r.Entry(ctx, id)
	if errors.Is(err, ErrNotFound) || (err == nil && !e.Approved) {
		return stats, nil
	}
	if err != nil {
		return stats, err
	}
	stats.Entry = &e

	better, err := r.client.ZCount(ctx, r.approvedKey(), "("+strconv.Itoa(e.Score), "+inf").Result()
	if err != nil {
		return stats, fmt.Errorf("storage: cannot rank player: %w", err)
	}
	stats.Rank = int(better) + 1
	return stats, nil
}

// Entry looks up an entry by id.
func (r *RedisLeaderboard) Entry(ctx context.Context, id string) (LeaderboardEntry, error) {
	fields, err := r.client.HGetAll(ctx, r.entryKey(id)).Result()
	if err != nil {
		return LeaderboardEntry{}, fmt.Errorf("storage: cannot query entry: %w", err)
	}
	return parseEntry(id, fields)
}

// Approve makes an entry public.
func (r *RedisLeaderboard) Approve(ctx context.Context, id string) error {
	e, err := r.Entry(ctx, id)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.entryKey(id), "approved", "true")
		pipe.ZAdd(ctx, r.approvedKey(), &redis.Z{Score: float64(e.Score), Member: id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: cannot approve entry: %w", err)
	}
	return nil
}

// Delete removes an entry and its index members.
func (r *RedisLeaderboard) Delete(ctx context.Context, id string) error {
	e, err := r.Entry(ctx, id)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.entryKey(id))
		pipe.ZRem(ctx, r.scoresKey(), id)
		pipe.ZRem(ctx, r.approvedKey(), id)
		pipe.HDel(ctx, r.identifiersKey(), e.Identifier)
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: cannot delete entry: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisLeaderboard) Close() error {
	return r.client.Close()
}
