// Package scoring turns a finished run into a leaderboard score.
package scoring

// Milestone bonuses are cumulative.
const (
	basePerLevel       = 100
	maxTimeBonus       = 50
	bucketSeconds      = 10
	perfectRunBonus    = 1000 // all 20 levels
	tenLevelBonus      = 200
	fifteenLevelBonus  = 300
	eighteenLevelBonus = 500
	perfectRunLevels   = 20
)

// Result is a score split into its parts for display.
type Result struct {
	LevelsCompleted int
	ElapsedMillis   int
	Base            int
	TimeBonusPerLvl int
	TimeBonus       int
	Milestones      int
	Total           int
}

// Breakdown computes the score with every component.
// Negative inputs are clamped to zero.
func Breakdown(levelsCompleted, elapsedMillis int) Result {
	if levelsCompleted < 0 {
		levelsCompleted = 0
	}
	if elapsedMillis < 0 {
		elapsedMillis = 0
	}

	r := Result{
		LevelsCompleted: levelsCompleted,
		ElapsedMillis:   elapsedMillis,
		Base:            levelsCompleted * basePerLevel,
	}

	elapsedSeconds := elapsedMillis / 1000
	r.TimeBonusPerLvl = max(0, maxTimeBonus-elapsedSeconds/bucketSeconds)
	r.TimeBonus = r.TimeBonusPerLvl * levelsCompleted

	if levelsCompleted == perfectRunLevels {
		r.Milestones += perfectRunBonus
	}
	if levelsCompleted >= 10 {
		r.Milestones += tenLevelBonus
	}
	if levelsCompleted >= 15 {
		r.Milestones += fifteenLevelBonus
	}
	if levelsCompleted >= 18 {
		r.Milestones += eighteenLevelBonus
	}

	r.Total = r.Base + r.TimeBonus + r.Milestones
	return r
}

// Score returns the total score for a run.
func Score(levelsCompleted, elapsedMillis int) int {
	return Breakdown(levelsCompleted, elapsedMillis).Total
}

// Rating is the flavor tier shown next to a score.
func Rating(levelsCompleted int) string {
	switch {
	case levelsCompleted >= 20:
		return "LEGENDARY"
	case levelsCompleted >= 15:
		return "MASTER"
	case levelsCompleted >= 10:
		return "EXPERT"
	case levelsCompleted >= 5:
		return "SKILLED"
	default:
		return "BEGINNER"
	}
}
