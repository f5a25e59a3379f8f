package cookiebanner

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/vovakirdan/cookie-banner-clicker/internal/consent"
	"github.com/vovakirdan/cookie-banner-clicker/internal/core"
	"github.com/vovakirdan/cookie-banner-clicker/internal/progression"
	"github.com/vovakirdan/cookie-banner-clicker/internal/scoring"
)

// Layout limits.
const (
	maxBannerWidth = 96
	toastWidth     = 40
	maxViolations  = 6
)

// Render draws the current screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	switch g.mode {
	case modeIntro:
		g.renderIntro(dst)
	case modeBanner:
		g.renderBanner(dst)
		g.renderToasts(dst)
	case modeOver:
		g.renderOver(dst)
	}

	if g.nag != nil {
		g.renderNag(dst)
	}
}

// panel clears and frames a centered box, returning its interior.
func panel(dst *core.Screen, w, h int, c core.Color) core.Rect {
	w = min(w, dst.Width())
	h = min(h, dst.Height())
	r := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)
	dst.DrawRect(r, ' ')
	dst.DrawBox(r, c)
	return r.Inset(1)
}

func (g *Game) renderIntro(dst *core.Screen) {
	in := panel(dst, 72, 18, core.ColorOrange)
	x, w := in.X+2, in.W-4
	y := in.Y + 1

	dst.DrawTextColored(x, y, g.Title(), core.ColorBrightWhite)
	y += 2
	y += dst.DrawWrapped(x, y, w, "Click through as many cookie banners as you can WITHOUT accepting ANY optional cookies.", core.ColorDefault)
	y++

	gate := "[ ] Accept Cookies"
	if g.ctrl.GateChecked() {
		gate = "[x] Accept Cookies"
	}
	dst.DrawStyled(x, y, gate, core.ColorChecked, g.introFocus == introGate)
	y += 2
	dst.DrawStyled(x, y, "[ Let's Go! ]", core.ColorPrimaryButton, g.introFocus == introStart)
	y += 2

	if g.opts.Practice {
		dst.DrawTextColored(x, y, fmt.Sprintf("Start at level: < %d >   (left/right)", g.startLevel), core.ColorCyan)
		y += 2
	}
	if g.introError != "" {
		dst.DrawWrapped(x, y, w, g.introError, core.ColorDanger)
	}

	dst.DrawTextColored(x, in.Bottom()-1, "up/down move  space toggle  enter select  q quit", core.ColorGray)
}

func (g *Game) renderBanner(dst *core.Screen) {
	b, ok := g.currentBanner()
	if !ok {
		return
	}
	g.renderStatus(dst)

	bw := min(maxBannerWidth, dst.Width())
	frame := core.NewRect((dst.Width()-bw)/2, 1, bw, max(0, dst.Height()-2))
	dst.DrawBox(frame, core.ColorOrange)
	in := frame.Inset(1)
	x, w := in.X+1, in.W-2
	y := in.Y

	dst.DrawTextColored(x, y, runewidth.Truncate(b.level.Title, w, "..."), core.ColorBrightWhite)
	y++
	y += dst.DrawWrapped(x, y, w, b.level.Description, core.ColorDefault)
	y++

	if len(b.level.Tabs) > 1 || b.level.MultiStep {
		y = g.renderTabs(dst, b, x, y, w)
	}

	bottom := in.Bottom() - 4
	g.renderList(dst, b, x, y, w, bottom-y)
	g.renderButtons(dst, b, x, bottom, w)

	dst.DrawTextColored(frame.X, dst.Height()-1, "up/down move  space toggle  tab switch  enter press  q quit", core.ColorGray)
}

func (g *Game) renderStatus(dst *core.Screen) {
	st := g.State()
	status := fmt.Sprintf("Level %d/%d   Time %s   Score %d", st.Level, g.levels.LevelCount(), clock(st.ElapsedMillis), st.Score)
	if st.Practice {
		status += "   [practice]"
	}
	dst.DrawTextColored(1, 0, status, core.ColorCyan)

	if left, ok := g.remaining(); ok {
		cd := fmt.Sprintf("TIME LEFT %s", clock(int(left.Milliseconds())))
		dst.DrawTextColored(dst.Width()-runewidth.StringWidth(cd)-1, 0, cd, core.ColorDanger)
	}
}

func (g *Game) renderTabs(dst *core.Screen, b banner, x, y, w int) int {
	cx := x
	for i, t := range b.level.Tabs {
		cx = dst.DrawStyled(cx, y, " "+t.Label+" ", core.ColorBrightWhite, i == g.activeTab)
		cx++
	}
	if b.level.MultiStep {
		step := fmt.Sprintf("Step %d of %d", g.activeTab+1, len(b.level.Tabs)+1)
		dst.DrawTextColored(x+w-runewidth.StringWidth(step), y, step, core.ColorGray)
	}
	return y + 2
}

func (g *Game) renderList(dst *core.Screen, b banner, x, y, w, avail int) {
	if avail <= 0 {
		return
	}
	if len(b.items) == len(b.buttons) {
		dst.DrawTextColored(x, y, "Nothing to choose here. Lucky you.", core.ColorGray)
		return
	}

	rows := listRows(b.level, avail)
	scroll := len(b.lines) > rows
	if scroll {
		rows = max(1, rows-1) // room for the scroll hint
	}
	g.listTop = window(len(b.lines), rows, b.lineOf(g.cursor), g.listTop)

	cols := 1
	if b.tab.Content == consent.ContentPurposes {
		cols = b.level.GridLayout.Columns()
	}
	cellW := w / cols

	end := min(len(b.lines), g.listTop+rows)
	for li := g.listTop; li < end; li++ {
		l := b.lines[li]
		if l.header != "" {
			dst.DrawTextColored(x, y, runewidth.Truncate(l.header, w, "..."), core.ColorBrightCyan)
			y++
			continue
		}
		for ci, idx := range l.items {
			it := b.items[idx]
			indent := 0
			if it.kind == itemCookie {
				indent = 2
			}
			text := checkbox(b.checked(it)) + " " + it.label
			c := core.ColorChecked
			if it.required {
				text += " (required)"
				c = core.ColorRequired
			} else if !b.checked(it) {
				c = core.ColorDefault
			}
			text = runewidth.Truncate(text, cellW-1-indent, "...")
			dst.DrawStyled(x+ci*cellW+indent, y, text, c, idx == g.cursor)
		}
		y++
	}

	if scroll {
		hint := fmt.Sprintf("-- %d of %d rows shown, keep scrolling --", end-g.listTop, len(b.lines))
		dst.DrawTextColored(x, y, hint, core.ColorGray)
	}
}

func (g *Game) renderButtons(dst *core.Screen, b banner, x, y, w int) {
	cx := x
	var shamed bool
	for _, idx := range b.buttons {
		it := b.items[idx]
		btn := b.level.Buttons[it.button]

		text := "[ " + btn.Text + " ]"
		c := core.ColorPrimaryButton
		if btn.Style == consent.StyleSecondary {
			c = core.ColorSecondaryButton
		}
		if b.level.HideRejectButton && !btn.AcceptsAll {
			text = strings.ToLower(btn.Text)
			c = core.ColorGray
		}
		cx = dst.DrawStyled(cx, y, text, c, idx == g.cursor) + 3
		shamed = shamed || (b.level.ConfirmShaming && !btn.AcceptsAll)
	}

	if shamed {
		dst.DrawTextColored(x, y+1, runewidth.Truncate(shamingLine(b.level.ID), w, "..."), core.ColorGray)
	}
	if g.pressureMsg != "" {
		dst.DrawTextColored(x, y+2, runewidth.Truncate(g.pressureMsg, w, "..."), core.ColorDanger)
	}
}

func (g *Game) renderToasts(dst *core.Screen) {
	w := min(toastWidth, dst.Width()/2)
	if w < 12 {
		return
	}
	x := dst.Width() - w - 1
	y := 1
	for i := len(g.toasts) - 1; i >= 0; i-- {
		t := g.toasts[i]
		lines := core.Wrap(t.text, w-4)
		if len(lines) > 2 {
			lines = lines[:2]
		}
		r := core.NewRect(x, y, w, len(lines)+2)
		if r.Bottom() > dst.Height()-1 {
			return
		}
		dst.DrawRect(r, ' ')
		c := toastColor(t.kind)
		dst.DrawBox(r, c)
		for li, l := range lines {
			dst.DrawTextColored(x+2, y+1+li, l, c)
		}
		y = r.Bottom()
	}
}

func toastColor(k ToastKind) core.Color {
	switch k {
	case ToastUrgent:
		return core.ColorBrightRed
	case ToastWarning:
		return core.ColorBrightYellow
	case ToastOffer:
		return core.ColorBrightGreen
	default:
		return core.ColorBrightMagenta
	}
}

func (g *Game) renderNag(dst *core.Screen) {
	in := panel(dst, 60, 11, core.ColorBrightMagenta)
	x, w := in.X+2, in.W-4
	y := in.Y + 1

	dst.DrawTextColored(x, y, g.nag.title, core.ColorBrightYellow)
	y += 2
	y += dst.DrawWrapped(x, y, w, g.nag.subtitle, core.ColorBrightWhite)
	dst.DrawWrapped(x, y, w, g.nag.benefit, core.ColorDefault)

	dst.DrawTextColored(x, in.Bottom()-1, "enter/esc keep rejecting   q leave anyway", core.ColorGray)
}

func (g *Game) renderOver(dst *core.Screen) {
	res := g.ctrl.Result()
	if res == nil {
		return
	}
	in := panel(dst, 72, 24, core.ColorOrange)
	x, w := in.X+2, in.W-4
	y := in.Y + 1

	if res.Completed {
		dst.DrawTextColored(x, y, "ALL BANNERS CLEARED! Not a single cookie accepted.", core.ColorBrightGreen)
		y += 2
	} else {
		dst.DrawTextColored(x, y, "GAME OVER: you accepted cookies", core.ColorDanger)
		y++
		dst.DrawTextColored(x, y, fmt.Sprintf("Level %d, button %q", res.FailedLevel, res.Button), core.ColorDefault)
		y += 2
		y = g.renderViolations(dst, res, x, y, w)
	}

	s := res.Score
	rows := []string{
		fmt.Sprintf("Levels cleared  %d", res.LevelsCompleted),
		fmt.Sprintf("Time            %s", clock(res.ElapsedMillis)),
		fmt.Sprintf("Base            %d", s.Base),
		fmt.Sprintf("Time bonus      %d x %d = %d", s.TimeBonusPerLvl, s.LevelsCompleted, s.TimeBonus),
		fmt.Sprintf("Milestones      %d", s.Milestones),
	}
	for _, r := range rows {
		dst.DrawText(x, y, r)
		y++
	}
	dst.DrawTextColored(x, y, fmt.Sprintf("Total           %d", s.Total), core.ColorBrightWhite)
	y++
	dst.DrawTextColored(x, y, fmt.Sprintf("Rating          %s", scoring.Rating(res.LevelsCompleted)), core.ColorBrightYellow)
	y += 2

	if g.opts.Practice {
		dst.DrawTextColored(x, y, "Practice run: this score is not recorded.", core.ColorGray)
	}

	dst.DrawTextColored(x, in.Bottom()-1, "r play again   esc menu   q quit", core.ColorGray)
}

func (g *Game) renderViolations(dst *core.Screen, res *progression.RunResult, x, y, w int) int {
	if res.AcceptedAll {
		return y + 1 + dst.DrawWrapped(x, y, w, "That button accepts every cookie, whatever you unticked.", core.ColorDefault)
	}

	dst.DrawText(x, y, "Still ticked when you pressed it:")
	y++
	for i, v := range res.Violations {
		if i == maxViolations {
			dst.DrawTextColored(x+2, y, fmt.Sprintf("... and %d more", len(res.Violations)-i), core.ColorGray)
			y++
			break
		}
		dst.DrawTextColored(x+2, y, runewidth.Truncate(g.violationName(v), w-2, "..."), core.ColorChecked)
		y++
	}
	return y + 1
}

func (g *Game) violationName(v consent.Violation) string {
	cat := g.levels.Catalog()
	purpose := v.PurposeID
	if p, ok := cat.PurposeByID(v.PurposeID); ok {
		purpose = p.Name()
	}
	if v.CompanyID == "" {
		return purpose
	}
	name := v.CompanyID + "/" + v.CookieID
	if co, ok := cat.CompanyByID(v.CompanyID); ok {
		name = co.Name
		if ck, ok := co.Cookie(v.CookieID); ok {
			name += " / " + ck.Name
		}
	}
	return name + " (" + purpose + ")"
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func clock(ms int) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
