package progression

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/cookie-banner-clicker/internal/consent"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// safeChoices unchecks every optional choice on the tab.
func safeChoices(lc *consent.LevelCatalog, l consent.LevelConfig, tab consent.Tab) consent.Choices {
	switch c := consent.EnsureInitialized(lc, l, tab, nil).(type) {
	case consent.PurposeChoices:
		for id := range c {
			c[id] = false
		}
		return c
	case consent.CompanyChoices:
		for co := range c {
			for ck := range c[co] {
				c[co][ck] = false
			}
		}
		return c
	}
	return nil
}

func safeButton(l consent.LevelConfig) consent.Button {
	for _, b := range l.Buttons {
		if !b.AcceptsAll {
			return b
		}
	}
	return consent.Button{}
}

func acceptAllButton(l consent.LevelConfig) consent.Button {
	for _, b := range l.Buttons {
		if b.AcceptsAll {
			return b
		}
	}
	return consent.Button{AcceptsAll: true}
}

func started(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	c := New(consent.DefaultLevelCatalog(), opts...)
	c.SetGateChecked(false)
	require.NoError(t, c.Start(t0))
	return c
}

func passLevel(t *testing.T, c *Controller, now time.Time) Outcome {
	t.Helper()
	l, err := c.CurrentLevel()
	require.NoError(t, err)
	tab := l.Tabs[0]
	out, err := c.Submit(tab, safeChoices(c.Levels(), l, tab), safeButton(l), now)
	require.NoError(t, err)
	return out
}

func TestStartRequiresGate(t *testing.T) {
	c := New(consent.DefaultLevelCatalog())
	assert.Equal(t, State{Phase: NotStarted}, c.CurrentState())
	assert.True(t, c.GateChecked())

	err := c.Start(t0)
	assert.ErrorIs(t, err, ErrGateNotCleared)
	assert.Equal(t, NotStarted, c.CurrentState().Phase)

	c.ToggleGate()
	require.NoError(t, c.Start(t0))
	assert.Equal(t, State{Phase: InLevel, Level: 1}, c.CurrentState())

	assert.ErrorIs(t, c.Start(t0), ErrInvalidTransition)
}

func TestPassAdvances(t *testing.T) {
	c := started(t, WithStartLevel(5))
	assert.Equal(t, State{Phase: InLevel, Level: 5}, c.CurrentState())

	assert.Equal(t, OutcomeAdvance, passLevel(t, c, t0.Add(time.Second)))
	assert.Equal(t, State{Phase: InLevel, Level: 6}, c.CurrentState())
	assert.Equal(t, 1, c.LevelsCompleted())
}

func TestPassOnLastLevelCompletes(t *testing.T) {
	var got *RunResult
	c := started(t, WithStartLevel(20), WithOnFinish(func(r RunResult) { got = &r }))

	assert.Equal(t, OutcomeComplete, passLevel(t, c, t0.Add(5*time.Second)))
	assert.Equal(t, State{Phase: Completed}, c.CurrentState())
	assert.True(t, c.CurrentState().Terminal())

	require.NotNil(t, got)
	assert.True(t, got.Completed)
	assert.Equal(t, 20, got.StartLevel)
	assert.Equal(t, 1, got.LevelsCompleted)
	assert.Equal(t, 5000, got.ElapsedMillis)
	assert.Equal(t, 150, got.Score.Total)
}

func TestFullRun(t *testing.T) {
	finished := 0
	var successes []int
	c := started(t,
		WithOnFinish(func(r RunResult) {
			finished++
			assert.Equal(t, 20, r.LevelsCompleted)
			assert.Equal(t, 5000, r.Score.Total)
		}),
		WithOnSuccess(func(level int) { successes = append(successes, level) }),
	)

	for i := 1; i < 20; i++ {
		require.Equal(t, OutcomeAdvance, passLevel(t, c, t0))
	}
	require.Equal(t, OutcomeComplete, passLevel(t, c, t0))
	assert.Equal(t, 1, finished)
	assert.Len(t, successes, 20)
	assert.Equal(t, 20, successes[19])
}

func TestFailEndsRun(t *testing.T) {
	var failedAt int
	var result RunResult
	c := started(t,
		WithOnFailure(func(level int) { failedAt = level }),
		WithOnFinish(func(r RunResult) { result = r }),
	)
	require.Equal(t, OutcomeAdvance, passLevel(t, c, t0))

	l, err := c.CurrentLevel()
	require.NoError(t, err)
	out, err := c.Submit(l.Tabs[0], nil, acceptAllButton(l), t0.Add(20*time.Second))
	require.NoError(t, err)

	assert.Equal(t, OutcomeFail, out)
	assert.Equal(t, State{Phase: Failed, Level: 2}, c.CurrentState())
	assert.Equal(t, 2, failedAt)
	assert.True(t, result.AcceptedAll)
	assert.Equal(t, 2, result.FailedLevel)
	assert.Equal(t, 1, result.LevelsCompleted)
	assert.Equal(t, 100+48, result.Score.Total)
	assert.Equal(t, 20*time.Second, c.Elapsed(t0.Add(time.Hour)))
}

func TestFailExplainsViolations(t *testing.T) {
	var result RunResult
	c := started(t, WithStartLevel(2), WithOnFinish(func(r RunResult) { result = r }))

	l, err := c.CurrentLevel()
	require.NoError(t, err)
	tab := l.Tabs[0]
	choices := safeChoices(c.Levels(), l, tab).(consent.PurposeChoices).Set("marketing", true)

	out, err := c.Submit(tab, choices, safeButton(l), t0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFail, out)
	assert.False(t, result.AcceptedAll)
	assert.Equal(t, []consent.Violation{{PurposeID: "marketing"}}, result.Violations)
}

func TestSubmitOutsideLevelIsInvalid(t *testing.T) {
	c := New(consent.DefaultLevelCatalog())
	_, err := c.Submit(consent.Tab{ID: "consent"}, nil, consent.Button{}, t0)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	c.SetGateChecked(false)
	require.NoError(t, c.Start(t0))
	l, err := c.CurrentLevel()
	require.NoError(t, err)
	_, err = c.Submit(l.Tabs[0], nil, acceptAllButton(l), t0)
	require.NoError(t, err)

	// Terminal: further submissions are rejected and nothing changes.
	before := c.CurrentState()
	_, err = c.Submit(l.Tabs[0], nil, safeButton(l), t0)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, before, c.CurrentState())
	_, err = c.CurrentLevel()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSubmitUnknownTab(t *testing.T) {
	c := started(t)
	_, err := c.Submit(consent.Tab{ID: "ghost"}, nil, consent.Button{}, t0)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, State{Phase: InLevel, Level: 1}, c.CurrentState())
}

func TestResetStartsOver(t *testing.T) {
	c := started(t)
	require.Equal(t, OutcomeAdvance, passLevel(t, c, t0))
	c.Scheduler().After(t0, time.Second, func(time.Time) {})

	c.Reset()
	assert.Equal(t, State{Phase: NotStarted}, c.CurrentState())
	assert.Equal(t, 0, c.LevelsCompleted())
	assert.Nil(t, c.Result())
	assert.Equal(t, 0, c.Scheduler().Pending())
	assert.False(t, c.GateChecked())

	require.NoError(t, c.Start(t0))
	assert.Equal(t, State{Phase: InLevel, Level: 1}, c.CurrentState())
}

func TestTransitionsCancelLevelTasks(t *testing.T) {
	var entered []int
	fired := map[int]int{}
	c := started(t, WithOnEnterLevel(func(l consent.LevelConfig, s *Scheduler, now time.Time) {
		entered = append(entered, l.ID)
		id := l.ID
		s.After(now, 10*time.Second, func(time.Time) { fired[id]++ })
	}))
	assert.Equal(t, []int{1}, entered)

	// Level 1's task is pending, then the level changes before it fires.
	require.Equal(t, OutcomeAdvance, passLevel(t, c, t0.Add(time.Second)))
	assert.Equal(t, 1, c.Scheduler().Pending())

	c.Scheduler().Advance(t0.Add(time.Minute))
	assert.Equal(t, 0, fired[1])
	assert.Equal(t, 1, fired[2])
}

func TestNewClampsStartLevel(t *testing.T) {
	c := New(consent.DefaultLevelCatalog(), WithStartLevel(99))
	assert.Equal(t, 1, c.StartLevel())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "InLevel(3)", State{Phase: InLevel, Level: 3}.String())
	assert.Equal(t, "Completed", State{Phase: Completed}.String())
	assert.Equal(t, "fail", OutcomeFail.String())
}

func TestSubmitJudgesTheLevelsOwnTab(t *testing.T) {
	c := started(t, WithStartLevel(4))
	l, err := c.CurrentLevel()
	require.NoError(t, err)

	forged, ok := l.TabByID("legitimate")
	require.True(t, ok)
	forged.Type = consent.TabConsent

	out, err := c.Submit(forged, consent.PurposeChoices{}, safeButton(l), t0)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFail, out)
	assert.Equal(t, State{Phase: Failed, Level: 4}, c.CurrentState())
}

func TestSubmitRejectsForeignInput(t *testing.T) {
	tests := []struct {
		name    string
		choices func(l consent.LevelConfig) consent.Choices
		button  func(l consent.LevelConfig) consent.Button
	}{
		{
			name:    "company choices on purposes tab",
			choices: func(consent.LevelConfig) consent.Choices { return consent.CompanyChoices{} },
			button:  safeButton,
		},
		{
			name:    "button from another level",
			choices: func(consent.LevelConfig) consent.Choices { return consent.PurposeChoices{} },
			button: func(consent.LevelConfig) consent.Button {
				return consent.Button{Text: "Reject All", Style: consent.StyleSecondary, AlwaysPass: true}
			},
		},
		{
			name:    "tampered button",
			choices: func(consent.LevelConfig) consent.Choices { return consent.PurposeChoices{} },
			button: func(l consent.LevelConfig) consent.Button {
				b := acceptAllButton(l)
				b.AcceptsAll = false
				b.AlwaysPass = true
				return b
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := started(t, WithStartLevel(4))
			l, err := c.CurrentLevel()
			require.NoError(t, err)

			out, err := c.Submit(l.Tabs[0], tt.choices(l), tt.button(l), t0)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, OutcomeFail, out)
			assert.Equal(t, State{Phase: InLevel, Level: 4}, c.CurrentState())
		})
	}
}
