package consent

import (
	"fmt"
	"sort"
)

// TabType distinguishes ordinary consent from legitimate interest.
type TabType string

const (
	TabConsent            TabType = "consent"
	TabLegitimateInterest TabType = "legitimate_interest"
)

// TabContent selects which choice map a tab displays.
type TabContent string

const (
	ContentPurposes          TabContent = "purposes"
	ContentCompaniesDetailed TabContent = "companies_detailed"
)

// ButtonStyle is cosmetic only.
type ButtonStyle string

const (
	StylePrimary   ButtonStyle = "primary"
	StyleSecondary ButtonStyle = "secondary"
)

// DisplayMode controls which purposes are visible.
type DisplayMode string

const (
	DisplaySimple     DisplayMode = "simple"
	DisplayDetailed   DisplayMode = "detailed"
	DisplayPerCompany DisplayMode = "per_company"
)

// GridLayout is the number of checkbox columns.
type GridLayout string

const (
	GridSingle GridLayout = "single"
	GridDouble GridLayout = "double"
	GridTriple GridLayout = "triple"
)

// Columns returns the column count for the layout, defaulting to one.
func (g GridLayout) Columns() int {
	switch g {
	case GridDouble:
		return 2
	case GridTriple:
		return 3
	default:
		return 1
	}
}

// Tab is one consent surface within a level.
type Tab struct {
	ID      string     `yaml:"id"`
	Label   string     `yaml:"label"`
	Type    TabType    `yaml:"type"`
	Content TabContent `yaml:"content"`
}

// Button is a submit action.
type Button struct {
	Text       string      `yaml:"text"`
	Style      ButtonStyle `yaml:"style"`
	AcceptsAll bool        `yaml:"accepts_all"`
	AlwaysPass bool        `yaml:"always_pass"`
}

// LevelConfig describes one consent dialog. Only Tabs, Buttons, DisplayMode,
// the defaults, the filters and ShowOnlyRequired feed evaluation; the rest
// is rendering metadata.
type LevelConfig struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`

	Tabs    []Tab    `yaml:"tabs"`
	Buttons []Button `yaml:"buttons"`

	DisplayMode                      DisplayMode `yaml:"display_mode"`
	DefaultChecked                   bool        `yaml:"default_checked"`
	LegitimateInterestDefaultChecked *bool       `yaml:"legitimate_interest_default_checked,omitempty"`

	PurposeFilter    []string `yaml:"purpose_filter,omitempty"`
	CompanyFilter    []string `yaml:"company_filter,omitempty"`
	ShowOnlyRequired bool     `yaml:"show_only_required,omitempty"`

	ConfusingLanguage bool       `yaml:"confusing_language,omitempty"`
	HideRejectButton  bool       `yaml:"hide_reject_button,omitempty"`
	RequireScroll     bool       `yaml:"require_scroll,omitempty"`
	TimePressure      int        `yaml:"time_pressure,omitempty"` // seconds
	ConfirmShaming    bool       `yaml:"confirm_shaming,omitempty"`
	MultiStep         bool       `yaml:"multi_step,omitempty"`
	GridLayout        GridLayout `yaml:"grid_layout,omitempty"`
	MaxHeight         string     `yaml:"max_height,omitempty"`
	FlipButtonOrder   bool       `yaml:"flip_button_order,omitempty"`
}

// DefaultFor returns the initial checked state of optional choices on a tab.
func (l LevelConfig) DefaultFor(tab Tab) bool {
	if tab.Type == TabLegitimateInterest && l.LegitimateInterestDefaultChecked != nil {
		return *l.LegitimateInterestDefaultChecked
	}
	return l.DefaultChecked
}

// TabByID returns the tab with the given id.
func (l LevelConfig) TabByID(id string) (Tab, bool) {
	for _, t := range l.Tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}

// HasButton reports whether b is one of the level's buttons.
func (l LevelConfig) HasButton(b Button) bool {
	for _, have := range l.Buttons {
		if have == b {
			return true
		}
	}
	return false
}

func (l LevelConfig) clone() LevelConfig {
	l.Tabs = append([]Tab(nil), l.Tabs...)
	l.Buttons = append([]Button(nil), l.Buttons...)
	l.PurposeFilter = cloneStrings(l.PurposeFilter)
	l.CompanyFilter = cloneStrings(l.CompanyFilter)
	if l.LegitimateInterestDefaultChecked != nil {
		v := *l.LegitimateInterestDefaultChecked
		l.LegitimateInterestDefaultChecked = &v
	}
	return l
}

// LevelCatalog is the validated, id-ordered list of levels bound to a
// domain catalog.
type LevelCatalog struct {
	catalog *Catalog
	levels  []LevelConfig
}

// NewLevelCatalog validates levels against the catalog and sorts them by id.
func NewLevelCatalog(catalog *Catalog, levels []LevelConfig) (*LevelCatalog, error) {
	if catalog == nil {
		return nil, fmt.Errorf("consent: nil catalog")
	}

	sorted := make([]LevelConfig, len(levels))
	for i, l := range levels {
		sorted[i] = l.clone()
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	lc := &LevelCatalog{catalog: catalog, levels: sorted}
	for i, l := range sorted {
		if l.ID != i+1 {
			return nil, integrityErrorf(CodeLevelGap, "expected level %d, found %d", i+1, l.ID)
		}
		if err := lc.validate(l); err != nil {
			return nil, err
		}
	}
	return lc, nil
}

func (lc *LevelCatalog) validate(l LevelConfig) error {
	if len(l.Tabs) == 0 {
		return integrityErrorf(CodeEmptyTabs, "level %d has no tabs", l.ID)
	}
	if len(l.Buttons) == 0 {
		return integrityErrorf(CodeEmptyButtons, "level %d has no buttons", l.ID)
	}

	switch l.DisplayMode {
	case DisplaySimple, DisplayDetailed, DisplayPerCompany:
	default:
		return integrityErrorf(CodeInvalidEnum, "level %d has display mode %q", l.ID, l.DisplayMode)
	}
	switch l.GridLayout {
	case "", GridSingle, GridDouble, GridTriple:
	default:
		return integrityErrorf(CodeInvalidEnum, "level %d has grid layout %q", l.ID, l.GridLayout)
	}

	seen := make(map[string]bool, len(l.Tabs))
	for _, t := range l.Tabs {
		if seen[t.ID] {
			return integrityErrorf(CodeDuplicateTab, "level %d has tab %q twice", l.ID, t.ID)
		}
		seen[t.ID] = true
		if t.Type != TabConsent && t.Type != TabLegitimateInterest {
			return integrityErrorf(CodeInvalidEnum, "level %d tab %q has type %q", l.ID, t.ID, t.Type)
		}
		if t.Content != ContentPurposes && t.Content != ContentCompaniesDetailed {
			return integrityErrorf(CodeInvalidEnum, "level %d tab %q has content %q", l.ID, t.ID, t.Content)
		}
	}
	for _, b := range l.Buttons {
		if b.Style != StylePrimary && b.Style != StyleSecondary {
			return integrityErrorf(CodeInvalidEnum, "level %d button %q has style %q", l.ID, b.Text, b.Style)
		}
	}

	for _, id := range l.PurposeFilter {
		if _, ok := lc.catalog.PurposeByID(id); !ok {
			return integrityErrorf(CodeUnknownFilter, "level %d filters unknown purpose %q", l.ID, id)
		}
	}
	for _, id := range l.CompanyFilter {
		if _, ok := lc.catalog.companyIndex[id]; !ok {
			return integrityErrorf(CodeUnknownFilter, "level %d filters unknown company %q", l.ID, id)
		}
	}

	acceptsAll := false
	for _, b := range l.Buttons {
		if b.AcceptsAll {
			acceptsAll = true
			break
		}
	}
	if acceptsAll && !lc.hasOptionalChoice(l) {
		return integrityErrorf(CodeNoOptionalChoices,
			"level %d has an accept-all button but no optional choice", l.ID)
	}
	return nil
}

// hasOptionalChoice reports whether any tab of the level displays at least
// one choice whose purpose is not essential.
func (lc *LevelCatalog) hasOptionalChoice(l LevelConfig) bool {
	for _, t := range l.Tabs {
		switch t.Content {
		case ContentPurposes:
			for _, p := range lc.VisiblePurposes(l) {
				if !p.Required {
					return true
				}
			}
		case ContentCompaniesDetailed:
			for _, co := range lc.FilteredCompanies(l) {
				for _, ck := range co.Cookies {
					if !ck.Purpose.Required {
						return true
					}
				}
			}
		}
	}
	return false
}

// Catalog returns the domain catalog the levels are bound to.
func (lc *LevelCatalog) Catalog() *Catalog { return lc.catalog }

// LevelCount returns the number of levels.
func (lc *LevelCatalog) LevelCount() int { return len(lc.levels) }

// LevelByID returns the level with the given id or an UnknownLevelError.
func (lc *LevelCatalog) LevelByID(id int) (LevelConfig, error) {
	if id < 1 || id > len(lc.levels) {
		return LevelConfig{}, UnknownLevelError{ID: id}
	}
	return lc.levels[id-1].clone(), nil
}

// Levels returns every level in id order.
func (lc *LevelCatalog) Levels() []LevelConfig {
	out := make([]LevelConfig, len(lc.levels))
	for i, l := range lc.levels {
		out[i] = l.clone()
	}
	return out
}

// FilteredPurposes applies the purpose filter and, in simple mode, keeps
// only purposes marked AlwaysShow. Order follows the catalog.
func (lc *LevelCatalog) FilteredPurposes(l LevelConfig) []Purpose {
	var allowed map[string]bool
	if len(l.PurposeFilter) > 0 {
		allowed = make(map[string]bool, len(l.PurposeFilter))
		for _, id := range l.PurposeFilter {
			allowed[id] = true
		}
	}

	var out []Purpose
	for _, p := range lc.catalog.purposes {
		if allowed != nil && !allowed[p.ID] {
			continue
		}
		if l.DisplayMode == DisplaySimple && !p.AlwaysShow {
			continue
		}
		out = append(out, p)
	}
	return out
}

// VisiblePurposes is FilteredPurposes after the ShowOnlyRequired restriction.
// These are exactly the purposes displayed and judged on a purposes tab.
func (lc *LevelCatalog) VisiblePurposes(l LevelConfig) []Purpose {
	filtered := lc.FilteredPurposes(l)
	if !l.ShowOnlyRequired {
		return filtered
	}
	out := filtered[:0:0]
	for _, p := range filtered {
		if p.Required {
			out = append(out, p)
		}
	}
	return out
}

// FilteredCompanies applies the company filter. Order follows the catalog.
func (lc *LevelCatalog) FilteredCompanies(l LevelConfig) []CompanyWithPurpose {
	var allowed map[string]bool
	if len(l.CompanyFilter) > 0 {
		allowed = make(map[string]bool, len(l.CompanyFilter))
		for _, id := range l.CompanyFilter {
			allowed[id] = true
		}
	}

	var out []CompanyWithPurpose
	for _, co := range lc.catalog.companies {
		if allowed != nil && !allowed[co.ID] {
			continue
		}
		out = append(out, co.clone())
	}
	return out
}
