package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 30)
	Seed     int64 // RNG seed for toast selection
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  100,
		ScreenH:  30,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState is returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Final or running score
	GameOver bool // Whether the run has ended
	Paused   bool // Whether an overlay blocks play

	Level           int  // Active level, 0 before start
	LevelsCompleted int  // Levels passed this run
	ElapsedMillis   int  // Run time
	Completed       bool // Every level passed
	Practice        bool // Scores from this run are not recorded
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
