package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/cookie-banner-clicker/internal/config"
	"github.com/vovakirdan/cookie-banner-clicker/internal/leaderboard"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clicker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestBuildSQLite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, "leaderboard:\n  backend: sqlite\n  auto_approve: true\n")

	s, err := Build(context.Background(), Options{
		ConfigPath: cfgPath,
		DBPath:     filepath.Join(dir, "scores.db"),
	})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, BackendSQLite, s.Backend)
	require.NotNil(t, s.Store)
	require.NotNil(t, s.Board)
	require.NotNil(t, s.Submitter)
	assert.Equal(t, 20, s.Levels.LevelCount())
	assert.False(t, s.Signer.Enabled())

	ctx := context.Background()
	_, err = s.Board.Submit(ctx, leaderboard.Submission{
		Name: "Ada", Identifier: "player_ada", Score: 1200, LevelsCompleted: 5, CompletionMs: 60000,
	})
	require.NoError(t, err)

	top, ok := s.Board.Top(ctx)
	assert.True(t, ok)
	require.Len(t, top, 1)
	assert.Equal(t, "Ada", top[0].Name)
}

func TestBuildRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfgPath := writeConfig(t, "leaderboard:\n  backend: redis\n  board: test\n")

	s, err := Build(context.Background(), Options{
		Env:        &config.Env{RedisAddr: mr.Addr(), AdminSigningKey: "secret"},
		ConfigPath: cfgPath,
		DBPath:     filepath.Join(t.TempDir(), "scores.db"),
	})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, BackendRedis, s.Backend)
	assert.True(t, s.Signer.Enabled())

	_, err = s.Board.Submit(context.Background(), leaderboard.Submission{
		Name: "Bob", Identifier: "player_bob", Score: 300, LevelsCompleted: 1, CompletionMs: 5000,
	})
	require.NoError(t, err)
	assert.True(t, mr.Exists("leaderboard:{test}:scores"))
}

func TestBuildRedisUnreachableFallsBack(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfgPath := writeConfig(t, "leaderboard:\n  backend: redis\n")
	s, err := Build(context.Background(), Options{
		Env:        &config.Env{RedisAddr: addr},
		ConfigPath: cfgPath,
		DBPath:     filepath.Join(t.TempDir(), "scores.db"),
	})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, BackendSQLite, s.Backend)
	assert.NotNil(t, s.Board)
}

func TestBuildPreset(t *testing.T) {
	s, err := Build(context.Background(), Options{
		ConfigPath: writeConfig(t, "pressure:\n  countdown_enabled: true\n"),
		Preset:     config.DifficultyEasy,
		DBPath:     filepath.Join(t.TempDir(), "scores.db"),
	})
	require.NoError(t, err)
	defer s.Close()

	assert.False(t, s.Config.Pressure.CountdownEnabled)
	assert.Equal(t, 1, s.Config.Pressure.MaxToasts)
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(context.Background(), Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	_, err = Build(context.Background(), Options{
		ConfigPath: writeConfig(t, "pressure:\n  max_toasts: 2\n"),
		LevelsPath: filepath.Join(t.TempDir(), "missing-levels.yaml"),
	})
	assert.Error(t, err)
}

func TestBuildWithoutStorage(t *testing.T) {
	// A regular file where the database directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	s, err := Build(context.Background(), Options{
		ConfigPath: writeConfig(t, "leaderboard:\n  backend: sqlite\n"),
		DBPath:     filepath.Join(blocker, "scores.db"),
	})
	require.NoError(t, err)
	assert.Nil(t, s.Store)
	assert.Nil(t, s.Board)
	assert.Nil(t, s.Submitter)
	assert.NoError(t, s.Close())
}
