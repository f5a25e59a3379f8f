package cookiebanner

import (
	"time"

	"github.com/vovakirdan/cookie-banner-clicker/internal/consent"
	"github.com/vovakirdan/cookie-banner-clicker/internal/progression"
)

// enterLevel runs on every level transition. The controller has already
// cancelled the previous level's tasks; everything scheduled here belongs
// to the new level.
func (g *Game) enterLevel(level consent.LevelConfig, s *progression.Scheduler, now time.Time) {
	g.tabs = consent.NewTabStates(g.levels, level)
	g.resetBanner()

	if g.pcfg.ToastsEnabled && g.pcfg.ToastInterval > 0 {
		base := seconds(g.pcfg.ToastInterval)
		s.Every(now, g.diff.ToastInterval(base, level.ID), g.pushToast)
	}

	if g.pcfg.CountdownEnabled && level.TimePressure > 0 {
		d := g.diff.Countdown(level.TimePressure, level.ID)
		g.deadline = now.Add(d)
		s.After(now, d, func(time.Time) {
			g.pressureMsg = expiredLines[g.rng.Intn(len(expiredLines))]
		})
	}
}

func (g *Game) pushToast(now time.Time) {
	life := seconds(g.pcfg.ToastLifetime)
	if life <= 0 {
		life = 4 * time.Second
	}
	// Vary lifetime by up to a second either way.
	life += time.Duration(g.rng.Int63n(int64(2*time.Second))) - time.Second

	g.toasts = append(g.toasts, toast{
		text:    toastMessages[g.rng.Intn(len(toastMessages))],
		kind:    ToastKind(g.rng.Intn(4)),
		expires: now.Add(life),
	})

	limit := max(1, g.pcfg.MaxToasts)
	if len(g.toasts) > limit {
		g.toasts = g.toasts[len(g.toasts)-limit:]
	}
}

func (g *Game) expireToasts() {
	kept := g.toasts[:0]
	for _, t := range g.toasts {
		if g.now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	g.toasts = kept
}

// remaining returns the countdown left on the active level and whether the
// level has one.
func (g *Game) remaining() (time.Duration, bool) {
	if g.deadline.IsZero() {
		return 0, false
	}
	return max(0, g.deadline.Sub(g.now)), true
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
