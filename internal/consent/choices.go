package consent

// Choices is the per-tab checkbox state. It is either PurposeChoices or
// CompanyChoices, matching the tab's content.
type Choices interface {
	Kind() TabContent
	sealed()
}

// PurposeChoices maps purpose id to checked.
type PurposeChoices map[string]bool

// CompanyChoices maps company id to cookie id to checked.
type CompanyChoices map[string]map[string]bool

func (PurposeChoices) Kind() TabContent { return ContentPurposes }
func (PurposeChoices) sealed()          {}

func (CompanyChoices) Kind() TabContent { return ContentCompaniesDetailed }
func (CompanyChoices) sealed()          {}

// NewChoices returns an empty state for the given content.
func NewChoices(content TabContent) Choices {
	if content == ContentCompaniesDetailed {
		return CompanyChoices{}
	}
	return PurposeChoices{}
}

// ResolvePurpose returns the checked state of a purpose, or def if absent.
func ResolvePurpose(c PurposeChoices, id string, def bool) bool {
	if v, ok := c[id]; ok {
		return v
	}
	return def
}

// ResolveCookie returns the checked state of a company cookie, or def if absent.
func ResolveCookie(c CompanyChoices, companyID, cookieID string, def bool) bool {
	if cookies, ok := c[companyID]; ok {
		if v, ok := cookies[cookieID]; ok {
			return v
		}
	}
	return def
}

func (c PurposeChoices) clone() PurposeChoices {
	out := make(PurposeChoices, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

func (c CompanyChoices) clone() CompanyChoices {
	out := make(CompanyChoices, len(c))
	for co, cookies := range c {
		inner := make(map[string]bool, len(cookies))
		for k, v := range cookies {
			inner[k] = v
		}
		out[co] = inner
	}
	return out
}

// Set returns a copy with the purpose set to v.
func (c PurposeChoices) Set(id string, v bool) PurposeChoices {
	out := c.clone()
	out[id] = v
	return out
}

// Toggle returns a copy with the purpose flipped. Absent keys flip from def.
func (c PurposeChoices) Toggle(id string, def bool) PurposeChoices {
	return c.Set(id, !ResolvePurpose(c, id, def))
}

// Set returns a copy with the cookie set to v.
func (c CompanyChoices) Set(companyID, cookieID string, v bool) CompanyChoices {
	out := c.clone()
	if out[companyID] == nil {
		out[companyID] = make(map[string]bool)
	}
	out[companyID][cookieID] = v
	return out
}

// Toggle returns a copy with the cookie flipped. Absent keys flip from def.
func (c CompanyChoices) Toggle(companyID, cookieID string, def bool) CompanyChoices {
	return c.Set(companyID, cookieID, !ResolveCookie(c, companyID, cookieID, def))
}

// EnsureInitialized returns a state in which every choice displayed on the
// tab is present. Missing keys take the tab default; existing entries are
// kept. If existing is nil or holds the wrong content kind a fresh state is
// built. The input is never modified.
func EnsureInitialized(levels *LevelCatalog, level LevelConfig, tab Tab, existing Choices) Choices {
	def := level.DefaultFor(tab)

	switch tab.Content {
	case ContentCompaniesDetailed:
		prev, _ := existing.(CompanyChoices)
		out := prev.clone()
		for _, co := range levels.FilteredCompanies(level) {
			if out[co.ID] == nil {
				out[co.ID] = make(map[string]bool, len(co.Cookies))
			}
			for _, ck := range co.Cookies {
				if _, ok := out[co.ID][ck.ID]; !ok {
					out[co.ID][ck.ID] = def
				}
			}
		}
		return out
	default:
		prev, _ := existing.(PurposeChoices)
		out := prev.clone()
		for _, p := range levels.VisiblePurposes(level) {
			if _, ok := out[p.ID]; !ok {
				out[p.ID] = def
			}
		}
		return out
	}
}

// TabStates holds one independent Choices per tab of a level. Values are
// immutable: With returns a new TabStates and never touches other tabs.
type TabStates struct {
	levelID int
	states  map[string]Choices
}

// NewTabStates initializes every tab of the level.
func NewTabStates(levels *LevelCatalog, level LevelConfig) TabStates {
	ts := TabStates{levelID: level.ID, states: make(map[string]Choices, len(level.Tabs))}
	for _, t := range level.Tabs {
		ts.states[t.ID] = EnsureInitialized(levels, level, t, nil)
	}
	return ts
}

// LevelID returns the level the states belong to.
func (ts TabStates) LevelID() int { return ts.levelID }

// Get returns the state of a tab, or nil if the tab is unknown.
func (ts TabStates) Get(tabID string) Choices {
	return ts.states[tabID]
}

// With returns a copy where tabID holds c.
func (ts TabStates) With(tabID string, c Choices) TabStates {
	out := TabStates{levelID: ts.levelID, states: make(map[string]Choices, len(ts.states)+1)}
	for k, v := range ts.states {
		out.states[k] = v
	}
	out.states[tabID] = c
	return out
}
