package cookiebanner

import (
	"strconv"
	"strings"

	"github.com/vovakirdan/cookie-banner-clicker/internal/consent"
	"github.com/vovakirdan/cookie-banner-clicker/internal/core"
)

type itemKind int

const (
	itemPurpose itemKind = iota
	itemCookie
	itemButton
)

// item is one focusable element of the banner: a checkbox or a button.
type item struct {
	kind      itemKind
	purposeID string
	companyID string
	cookieID  string
	button    int // index into LevelConfig.Buttons
	required  bool
	label     string
}

// line is one rendered row of the choice list. Headers carry no items.
type line struct {
	header string
	items  []int // indexes into the focus list
}

// pxPerRow converts a banner max-height such as "400px" into list rows.
const pxPerRow = 25

// banner is the view of the active level that input and rendering share.
type banner struct {
	level   consent.LevelConfig
	tab     consent.Tab
	choices consent.Choices
	items   []item
	lines   []line
	buttons []int // focus indexes of buttons in display order
}

func (g *Game) currentBanner() (banner, bool) {
	level, err := g.ctrl.CurrentLevel()
	if err != nil {
		return banner{}, false
	}
	tab := level.Tabs[core.Clamp(g.activeTab, 0, len(level.Tabs)-1)]
	b := banner{level: level, tab: tab, choices: g.tabs.Get(tab.ID)}

	cat := g.levels.Catalog()
	if tab.Content == consent.ContentCompaniesDetailed {
		for _, co := range g.levels.FilteredCompanies(level) {
			b.lines = append(b.lines, line{header: co.Name})
			for _, ck := range co.Cookies {
				b.lines = append(b.lines, line{items: []int{len(b.items)}})
				b.items = append(b.items, item{
					kind:      itemCookie,
					companyID: co.ID,
					cookieID:  ck.ID,
					required:  cat.IsRequired(ck.PurposeID),
					label:     ck.Name + " (" + ck.Purpose.Name() + ")",
				})
			}
		}
	} else {
		cols := level.GridLayout.Columns()
		for i, p := range g.levels.VisiblePurposes(level) {
			label := p.Name()
			if level.ConfusingLanguage && !p.Required {
				label = confusingLabel(label, i)
			}
			if i%cols == 0 {
				b.lines = append(b.lines, line{})
			}
			last := &b.lines[len(b.lines)-1]
			last.items = append(last.items, len(b.items))
			b.items = append(b.items, item{
				kind:      itemPurpose,
				purposeID: p.ID,
				required:  p.Required,
				label:     label,
			})
		}
	}

	order := make([]int, len(level.Buttons))
	for i := range order {
		order[i] = i
		if level.FlipButtonOrder {
			order[i] = len(order) - 1 - i
		}
	}
	for _, bi := range order {
		b.buttons = append(b.buttons, len(b.items))
		b.items = append(b.items, item{kind: itemButton, button: bi, label: level.Buttons[bi].Text})
	}
	return b, true
}

// checked resolves the current state of a checkbox item.
func (b banner) checked(it item) bool {
	def := b.level.DefaultFor(b.tab)
	switch it.kind {
	case itemPurpose:
		pc, _ := b.choices.(consent.PurposeChoices)
		return consent.ResolvePurpose(pc, it.purposeID, def)
	case itemCookie:
		cc, _ := b.choices.(consent.CompanyChoices)
		return consent.ResolveCookie(cc, it.companyID, it.cookieID, def)
	default:
		return false
	}
}

// toggled returns the tab state with the item flipped. Required items are
// locked and come back unchanged.
func (b banner) toggled(it item) consent.Choices {
	if it.required {
		return b.choices
	}
	def := b.level.DefaultFor(b.tab)
	switch it.kind {
	case itemPurpose:
		pc, _ := b.choices.(consent.PurposeChoices)
		return pc.Toggle(it.purposeID, def)
	case itemCookie:
		cc, _ := b.choices.(consent.CompanyChoices)
		return cc.Toggle(it.companyID, it.cookieID, def)
	default:
		return b.choices
	}
}

// lineOf returns the list line holding focus index i, or -1 for buttons.
func (b banner) lineOf(i int) int {
	for li, l := range b.lines {
		for _, idx := range l.items {
			if idx == i {
				return li
			}
		}
	}
	return -1
}

// listRows caps the visible list height for scroll-gated levels.
func listRows(level consent.LevelConfig, available int) int {
	if !level.RequireScroll {
		return available
	}
	px, err := strconv.Atoi(strings.TrimSuffix(level.MaxHeight, "px"))
	if err != nil || px <= 0 {
		return available
	}
	return core.Clamp(px/pxPerRow, 3, max(3, available))
}

// window returns the first visible line so that focus stays in view.
func window(total, rows, focus, prevTop int) int {
	if total <= rows || rows <= 0 {
		return 0
	}
	top := core.Clamp(prevTop, 0, total-rows)
	if focus >= 0 {
		if focus < top {
			top = focus
		}
		if focus >= top+rows {
			top = focus - rows + 1
		}
	}
	return top
}
