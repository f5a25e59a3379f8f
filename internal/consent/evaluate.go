package consent

import "sort"

// Verdict is the outcome of a button press.
type Verdict int

const (
	Pass Verdict = iota
	Fail
)

func (v Verdict) String() string {
	if v == Pass {
		return "PASS"
	}
	return "FAIL"
}

// Violation is one checked optional choice that fails a submission.
// CompanyID and CookieID are empty for purpose tabs.
type Violation struct {
	PurposeID string
	CompanyID string
	CookieID  string
}

// Evaluate judges a button press on the active tab. Only that tab's choices
// are consulted; it has no side effects.
func Evaluate(levels *LevelCatalog, level LevelConfig, tab Tab, choices Choices, button Button) Verdict {
	if button.AlwaysPass {
		return Pass
	}
	if button.AcceptsAll {
		return Fail
	}
	if len(Explain(levels, level, tab, choices)) > 0 {
		return Fail
	}
	return Pass
}

// Explain lists every checked choice on the tab whose purpose is not
// essential. Absent keys resolve to the tab default.
func Explain(levels *LevelCatalog, level LevelConfig, tab Tab, choices Choices) []Violation {
	def := level.DefaultFor(tab)
	cat := levels.catalog

	if tab.Content == ContentCompaniesDetailed {
		cc, _ := choices.(CompanyChoices)
		return explainCompanies(levels, level, cat, cc, def)
	}

	pc, _ := choices.(PurposeChoices)
	var out []Violation
	for _, p := range levels.VisiblePurposes(level) {
		if cat.IsRequired(p.ID) {
			continue
		}
		if ResolvePurpose(pc, p.ID, def) {
			out = append(out, Violation{PurposeID: p.ID})
		}
	}
	return out
}

func explainCompanies(levels *LevelCatalog, level LevelConfig, cat *Catalog, cc CompanyChoices, def bool) []Violation {
	var out []Violation
	seen := make(map[string]bool)

	check := func(companyID string, ck CookieWithPurpose) {
		seen[companyID+"\x00"+ck.ID] = true
		if cat.IsRequired(ck.PurposeID) {
			return
		}
		if ResolveCookie(cc, companyID, ck.ID, def) {
			out = append(out, Violation{PurposeID: ck.PurposeID, CompanyID: companyID, CookieID: ck.ID})
		}
	}

	// Displayed cookies first, in catalog order.
	for _, co := range levels.FilteredCompanies(level) {
		for _, ck := range co.Cookies {
			check(co.ID, ck)
		}
	}

	// Entries present in the map but not displayed are still judged.
	companyIDs := make([]string, 0, len(cc))
	for id := range cc {
		companyIDs = append(companyIDs, id)
	}
	sort.Strings(companyIDs)
	for _, companyID := range companyIDs {
		idx, ok := cat.companyIndex[companyID]
		if !ok {
			continue
		}
		co := cat.companies[idx]
		for _, ck := range co.Cookies {
			if seen[companyID+"\x00"+ck.ID] {
				continue
			}
			if _, present := cc[companyID][ck.ID]; !present {
				continue
			}
			check(companyID, ck)
		}
	}
	return out
}
