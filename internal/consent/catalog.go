// Package consent holds the cookie banner game engine: the catalog of purposes
// and companies, the level catalog, per-tab choice state and the evaluator that
// decides whether a button press gave away any non-essential consent.
//
// Everything here is pure and immutable once built. Hosts construct a
// LevelCatalog during startup and pass it by reference to readers.
package consent

// Purpose is a consent category such as marketing or statistics.
type Purpose struct {
	ID           string
	Names        []string // First name is canonical
	Descriptions []string
	Required     bool // Essential, cannot be declined
	AlwaysShow   bool // Shown in simple display mode
}

// Name returns the canonical display name.
func (p Purpose) Name() string {
	if len(p.Names) == 0 {
		return p.ID
	}
	return p.Names[0]
}

// Description returns the first description, or an empty string.
func (p Purpose) Description() string {
	if len(p.Descriptions) == 0 {
		return ""
	}
	return p.Descriptions[0]
}

// Cookie is the smallest trackable unit. Cookie ids are unique within a company.
type Cookie struct {
	ID          string
	Name        string
	Description string
	Duration    string
	HTTPS       bool
	PurposeID   string
}

// Company owns a non-empty ordered list of cookies.
type Company struct {
	ID      string
	Name    string
	Cookies []Cookie
}

// CookieWithPurpose is a cookie with its purpose resolved.
type CookieWithPurpose struct {
	Cookie
	Purpose Purpose
}

// CompanyWithPurpose is the derived read-only view of a company.
type CompanyWithPurpose struct {
	ID      string
	Name    string
	Cookies []CookieWithPurpose
}

// Cookie looks up a cookie of this company by id.
func (c CompanyWithPurpose) Cookie(id string) (CookieWithPurpose, bool) {
	for _, ck := range c.Cookies {
		if ck.ID == id {
			return ck, true
		}
	}
	return CookieWithPurpose{}, false
}

func (c CompanyWithPurpose) clone() CompanyWithPurpose {
	cookies := make([]CookieWithPurpose, len(c.Cookies))
	copy(cookies, c.Cookies)
	c.Cookies = cookies
	return c
}

// Catalog is the immutable domain catalog. Build it once with NewCatalog.
type Catalog struct {
	purposes     []Purpose
	purposeIndex map[string]int
	companies    []CompanyWithPurpose
	companyIndex map[string]int
	required     map[string]bool
}

// NewCatalog validates the static content and derives the company views.
// Returns a CatalogIntegrityError if any cookie references an unknown purpose
// or ids collide.
func NewCatalog(purposes []Purpose, companies []Company) (*Catalog, error) {
	c := &Catalog{
		purposes:     make([]Purpose, 0, len(purposes)),
		purposeIndex: make(map[string]int, len(purposes)),
		companies:    make([]CompanyWithPurpose, 0, len(companies)),
		companyIndex: make(map[string]int, len(companies)),
		required:     make(map[string]bool),
	}

	for _, p := range purposes {
		if _, dup := c.purposeIndex[p.ID]; dup {
			return nil, integrityErrorf(CodeDuplicatePurpose, "purpose %q defined twice", p.ID)
		}
		p.Names = cloneStrings(p.Names)
		p.Descriptions = cloneStrings(p.Descriptions)
		c.purposeIndex[p.ID] = len(c.purposes)
		c.purposes = append(c.purposes, p)
		if p.Required {
			c.required[p.ID] = true
		}
	}

	for _, co := range companies {
		if _, dup := c.companyIndex[co.ID]; dup {
			return nil, integrityErrorf(CodeDuplicateCompany, "company %q defined twice", co.ID)
		}
		if len(co.Cookies) == 0 {
			return nil, integrityErrorf(CodeEmptyCompany, "company %q has no cookies", co.ID)
		}

		view := CompanyWithPurpose{
			ID:      co.ID,
			Name:    co.Name,
			Cookies: make([]CookieWithPurpose, 0, len(co.Cookies)),
		}
		seen := make(map[string]bool, len(co.Cookies))
		for _, ck := range co.Cookies {
			if seen[ck.ID] {
				return nil, integrityErrorf(CodeDuplicateCookie, "company %q has cookie %q twice", co.ID, ck.ID)
			}
			seen[ck.ID] = true

			idx, ok := c.purposeIndex[ck.PurposeID]
			if !ok {
				return nil, integrityErrorf(CodeUnknownPurpose,
					"cookie %q of company %q references unknown purpose %q", ck.ID, co.ID, ck.PurposeID)
			}
			view.Cookies = append(view.Cookies, CookieWithPurpose{Cookie: ck, Purpose: c.purposes[idx]})
		}

		c.companyIndex[co.ID] = len(c.companies)
		c.companies = append(c.companies, view)
	}

	return c, nil
}

// PurposeByID returns the purpose with the given id.
func (c *Catalog) PurposeByID(id string) (Purpose, bool) {
	idx, ok := c.purposeIndex[id]
	if !ok {
		return Purpose{}, false
	}
	return c.purposes[idx], true
}

// CompanyByID returns the company view with the given id.
func (c *Catalog) CompanyByID(id string) (CompanyWithPurpose, bool) {
	idx, ok := c.companyIndex[id]
	if !ok {
		return CompanyWithPurpose{}, false
	}
	return c.companies[idx].clone(), true
}

// AllPurposes returns every purpose in catalog order.
func (c *Catalog) AllPurposes() []Purpose {
	out := make([]Purpose, len(c.purposes))
	copy(out, c.purposes)
	return out
}

// AllCompaniesWithPurpose returns every company in catalog order.
func (c *Catalog) AllCompaniesWithPurpose() []CompanyWithPurpose {
	out := make([]CompanyWithPurpose, len(c.companies))
	for i, co := range c.companies {
		out[i] = co.clone()
	}
	return out
}

// RequiredPurposeIDs returns the set of essential purpose ids.
// A purpose is essential iff it is in this set, regardless of AlwaysShow.
func (c *Catalog) RequiredPurposeIDs() map[string]bool {
	out := make(map[string]bool, len(c.required))
	for id := range c.required {
		out[id] = true
	}
	return out
}

// IsRequired reports whether the purpose id is essential.
func (c *Catalog) IsRequired(purposeID string) bool {
	return c.required[purposeID]
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
