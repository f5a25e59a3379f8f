// Package progression drives a single run through the level catalog:
// start gate, per-level verdicts, terminal states and final scoring.
package progression

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/cookie-banner-clicker/internal/consent"
	"github.com/vovakirdan/cookie-banner-clicker/internal/scoring"
)

var (
	// ErrInvalidTransition is returned when an action is not allowed in the
	// current state, e.g. Submit after the run ended.
	ErrInvalidTransition = errors.New("progression: invalid transition")

	// ErrGateNotCleared is returned by Start while the pre-game
	// "Accept Cookies" box is still ticked.
	ErrGateNotCleared = errors.New(`progression: you have to uncheck the "Accept Cookies" box`)
)

// Phase is the coarse run state.
type Phase int

const (
	NotStarted Phase = iota
	InLevel
	Completed
	Failed
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "NotStarted"
	case InLevel:
		return "InLevel"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// State is the controller state. Level is only meaningful in InLevel,
// and holds the failing level in Failed.
type State struct {
	Phase Phase
	Level int
}

func (s State) String() string {
	switch s.Phase {
	case InLevel:
		return fmt.Sprintf("InLevel(%d)", s.Level)
	case Failed:
		return fmt.Sprintf("Failed(%d)", s.Level)
	default:
		return s.Phase.String()
	}
}

// Terminal reports whether the run is over.
func (s State) Terminal() bool {
	return s.Phase == Completed || s.Phase == Failed
}

// Outcome is the result of a submission.
type Outcome int

const (
	OutcomeAdvance Outcome = iota
	OutcomeComplete
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdvance:
		return "advance"
	case OutcomeComplete:
		return "complete"
	default:
		return "fail"
	}
}

// RunResult is handed to the finish callback once per run.
type RunResult struct {
	Completed       bool
	StartLevel      int
	LevelsCompleted int
	ElapsedMillis   int
	Score           scoring.Result

	// Set when the run failed.
	FailedLevel int
	FailedTab   string
	Button      string
	AcceptedAll bool
	Violations  []consent.Violation
}

// Option configures a Controller.
type Option func(*Controller)

// WithStartLevel starts runs at the given level instead of 1.
func WithStartLevel(level int) Option {
	return func(c *Controller) { c.startLevel = level }
}

// WithOnSuccess registers a callback fired after a level is passed.
func WithOnSuccess(fn func(level int)) Option {
	return func(c *Controller) { c.onSuccess = fn }
}

// WithOnFailure registers a callback fired when a level is failed.
func WithOnFailure(fn func(level int)) Option {
	return func(c *Controller) { c.onFailure = fn }
}

// WithOnFinish registers the collaborator that receives the scored result.
// It is called synchronously on the caller's loop and must not block.
func WithOnFinish(fn func(RunResult)) Option {
	return func(c *Controller) { c.onFinish = fn }
}

// WithOnEnterLevel registers a hook that schedules per-level tasks. It runs
// after the scheduler has been cleared for the new level.
func WithOnEnterLevel(fn func(level consent.LevelConfig, s *Scheduler, now time.Time)) Option {
	return func(c *Controller) { c.onEnterLevel = fn }
}

// Controller is the level progression state machine. It is not safe for
// concurrent use; hosts drive it from a single event loop.
type Controller struct {
	levels     *consent.LevelCatalog
	scheduler  *Scheduler
	startLevel int

	state       State
	gateChecked bool
	startedAt   time.Time
	finishedAt  time.Time
	passed      int
	result      *RunResult

	onSuccess    func(int)
	onFailure    func(int)
	onFinish     func(RunResult)
	onEnterLevel func(consent.LevelConfig, *Scheduler, time.Time)
}

// New creates a controller in NotStarted with the gate box ticked.
func New(levels *consent.LevelCatalog, opts ...Option) *Controller {
	c := &Controller{
		levels:      levels,
		scheduler:   NewScheduler(),
		startLevel:  1,
		gateChecked: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.startLevel < 1 || c.startLevel > levels.LevelCount() {
		c.startLevel = 1
	}
	return c
}

// Scheduler returns the scheduler owned by the active level.
func (c *Controller) Scheduler() *Scheduler { return c.scheduler }

// Levels returns the level catalog.
func (c *Controller) Levels() *consent.LevelCatalog { return c.levels }

// StartLevel returns the level runs start at.
func (c *Controller) StartLevel() int { return c.startLevel }

// CurrentState returns the current state.
func (c *Controller) CurrentState() State { return c.state }

// GateChecked reports whether the pre-game "Accept Cookies" box is ticked.
func (c *Controller) GateChecked() bool { return c.gateChecked }

// SetGateChecked updates the pre-game box.
func (c *Controller) SetGateChecked(checked bool) { c.gateChecked = checked }

// ToggleGate flips the pre-game box.
func (c *Controller) ToggleGate() { c.gateChecked = !c.gateChecked }

// LevelsCompleted returns how many levels were passed in this run.
func (c *Controller) LevelsCompleted() int { return c.passed }

// Result returns the finished run, or nil while the run is not over.
func (c *Controller) Result() *RunResult { return c.result }

// CurrentLevel returns the configuration of the active level.
func (c *Controller) CurrentLevel() (consent.LevelConfig, error) {
	if c.state.Phase != InLevel {
		return consent.LevelConfig{}, ErrInvalidTransition
	}
	return c.levels.LevelByID(c.state.Level)
}

// Elapsed returns the run time so far, or the final run time once finished.
func (c *Controller) Elapsed(now time.Time) time.Duration {
	switch c.state.Phase {
	case InLevel:
		return now.Sub(c.startedAt)
	case Completed, Failed:
		return c.finishedAt.Sub(c.startedAt)
	default:
		return 0
	}
}

// Start moves NotStarted to InLevel(start level).
func (c *Controller) Start(now time.Time) error {
	if c.state.Phase != NotStarted {
		return ErrInvalidTransition
	}
	if c.gateChecked {
		return ErrGateNotCleared
	}

	c.startedAt = now
	c.passed = 0
	c.result = nil
	return c.enter(c.startLevel, now)
}

// Submit judges a button press on the active tab and transitions.
func (c *Controller) Submit(tab consent.Tab, choices consent.Choices, button consent.Button, now time.Time) (Outcome, error) {
	if c.state.Phase != InLevel {
		return OutcomeFail, ErrInvalidTransition
	}

	level, err := c.levels.LevelByID(c.state.Level)
	if err != nil {
		return OutcomeFail, err
	}
	// Judge against the level's own tab and buttons.
	own, ok := level.TabByID(tab.ID)
	if !ok {
		return OutcomeFail, fmt.Errorf("progression: level %d has no tab %q: %w", level.ID, tab.ID, ErrInvalidTransition)
	}
	tab = own
	if choices != nil && choices.Kind() != consent.NewChoices(tab.Content).Kind() {
		return OutcomeFail, fmt.Errorf("progression: %s choices on %s tab %q: %w", choices.Kind(), tab.Content, tab.ID, ErrInvalidTransition)
	}
	if !level.HasButton(button) {
		return OutcomeFail, fmt.Errorf("progression: level %d has no button %q: %w", level.ID, button.Text, ErrInvalidTransition)
	}

	if consent.Evaluate(c.levels, level, tab, choices, button) == consent.Fail {
		c.fail(level, tab, choices, button, now)
		return OutcomeFail, nil
	}

	c.passed++
	if c.onSuccess != nil {
		c.onSuccess(level.ID)
	}

	next := level.ID + 1
	if _, err := c.levels.LevelByID(next); err != nil {
		var unknown consent.UnknownLevelError
		if !errors.As(err, &unknown) {
			return OutcomeFail, err
		}
		// Past the last level: the run is complete.
		c.finish(State{Phase: Completed}, RunResult{Completed: true}, now)
		return OutcomeComplete, nil
	}

	if err := c.enter(next, now); err != nil {
		return OutcomeFail, err
	}
	return OutcomeAdvance, nil
}

// Reset cancels outstanding tasks and returns to NotStarted. The gate box
// keeps its state so a player who already unticked it can replay at once.
func (c *Controller) Reset() {
	c.scheduler.CancelAll()
	c.state = State{Phase: NotStarted}
	c.passed = 0
	c.result = nil
	c.startedAt = time.Time{}
	c.finishedAt = time.Time{}
}

func (c *Controller) enter(id int, now time.Time) error {
	level, err := c.levels.LevelByID(id)
	if err != nil {
		return err
	}
	c.scheduler.CancelAll()
	c.state = State{Phase: InLevel, Level: id}
	if c.onEnterLevel != nil {
		c.onEnterLevel(level, c.scheduler, now)
	}
	return nil
}

func (c *Controller) fail(level consent.LevelConfig, tab consent.Tab, choices consent.Choices, button consent.Button, now time.Time) {
	res := RunResult{
		FailedLevel: level.ID,
		FailedTab:   tab.ID,
		Button:      button.Text,
		AcceptedAll: button.AcceptsAll,
	}
	if !button.AcceptsAll {
		res.Violations = consent.Explain(c.levels, level, tab, choices)
	}
	if c.onFailure != nil {
		c.onFailure(level.ID)
	}
	c.finish(State{Phase: Failed, Level: level.ID}, res, now)
}

func (c *Controller) finish(state State, res RunResult, now time.Time) {
	c.scheduler.CancelAll()
	c.state = state
	c.finishedAt = now

	elapsed := int(c.finishedAt.Sub(c.startedAt).Milliseconds())
	res.StartLevel = c.startLevel
	res.LevelsCompleted = c.passed
	res.ElapsedMillis = elapsed
	res.Score = scoring.Breakdown(c.passed, elapsed)
	c.result = &res

	if c.onFinish != nil {
		c.onFinish(res)
	}
}
