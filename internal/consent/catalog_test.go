package consent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Len(t, c.AllPurposes(), 21)
	assert.Len(t, c.AllCompaniesWithPurpose(), 26+30)

	required := c.RequiredPurposeIDs()
	assert.Equal(t, map[string]bool{"necessary": true, "functional": true}, required)

	p, ok := c.PurposeByID("marketing")
	require.True(t, ok)
	assert.Equal(t, "Marketing", p.Name())
	assert.False(t, p.Required)
	assert.True(t, p.AlwaysShow)

	_, ok = c.PurposeByID("nope")
	assert.False(t, ok)
}

func TestCompanyViewResolvesPurpose(t *testing.T) {
	c := DefaultCatalog()

	co, ok := c.CompanyByID("goofy_advertising")
	require.True(t, ok)
	require.Len(t, co.Cookies, 2)
	assert.Equal(t, "goofy_personalisation", co.Cookies[0].Purpose.ID)

	ck, ok := co.Cookie("ga-ua-ma")
	require.True(t, ok)
	assert.Equal(t, "marketing", ck.Purpose.ID)
}

func TestCatalogReturnsCopies(t *testing.T) {
	c := DefaultCatalog()

	purposes := c.AllPurposes()
	purposes[0].ID = "mutated"
	companies := c.AllCompaniesWithPurpose()
	companies[0].Cookies[0].ID = "mutated"
	required := c.RequiredPurposeIDs()
	required["marketing"] = true

	assert.Equal(t, "necessary", c.AllPurposes()[0].ID)
	assert.Equal(t, "amogus", c.AllCompaniesWithPurpose()[0].Cookies[0].ID)
	assert.False(t, c.IsRequired("marketing"))
}

func TestGeneratedCompanies(t *testing.T) {
	gen := GeneratedCompanies(4)
	require.Len(t, gen, 4)

	tests := []struct {
		id, name, cookieID, purpose, duration string
	}{
		{"generated_1", "DtData", "dtdata_tracker", "marketing", "Session"},
		{"generated_2", "NetSoft", "netsoft_pixel", "statistics", "30 days"},
		{"generated_3", "TrackApex", "trackapex_beacon", "preferences", "1 year"},
		{"generated_4", "EdgSma", "edgsma_session", "marketing", "2 years"},
	}
	for i, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			co := gen[i]
			assert.Equal(t, tt.id, co.ID)
			assert.Equal(t, tt.name, co.Name)
			require.Len(t, co.Cookies, 1)
			assert.Equal(t, tt.cookieID, co.Cookies[0].ID)
			assert.Equal(t, tt.purpose, co.Cookies[0].PurposeID)
			assert.Equal(t, tt.duration, co.Cookies[0].Duration)
		})
	}

	// Deterministic across calls.
	assert.Equal(t, gen, GeneratedCompanies(4))
}

func TestNewCatalogIntegrity(t *testing.T) {
	purposes := []Purpose{
		{ID: "necessary", Required: true},
		{ID: "marketing"},
	}

	tests := []struct {
		name      string
		purposes  []Purpose
		companies []Company
		code      string
	}{
		{
			name:     "unknown purpose",
			purposes: purposes,
			companies: []Company{
				{ID: "acme", Cookies: []Cookie{{ID: "a", PurposeID: "ghost"}}},
			},
			code: CodeUnknownPurpose,
		},
		{
			name:     "duplicate purpose",
			purposes: append(purposes, Purpose{ID: "marketing"}),
			code:     CodeDuplicatePurpose,
		},
		{
			name:     "duplicate company",
			purposes: purposes,
			companies: []Company{
				{ID: "acme", Cookies: []Cookie{{ID: "a", PurposeID: "marketing"}}},
				{ID: "acme", Cookies: []Cookie{{ID: "b", PurposeID: "marketing"}}},
			},
			code: CodeDuplicateCompany,
		},
		{
			name:      "empty company",
			purposes:  purposes,
			companies: []Company{{ID: "acme"}},
			code:      CodeEmptyCompany,
		},
		{
			name:     "duplicate cookie",
			purposes: purposes,
			companies: []Company{
				{ID: "acme", Cookies: []Cookie{{ID: "a", PurposeID: "marketing"}, {ID: "a", PurposeID: "necessary"}}},
			},
			code: CodeDuplicateCookie,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.purposes, tt.companies)
			require.Error(t, err)

			var ie CatalogIntegrityError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.code, ie.Code)
		})
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"data", "Data"},
		{"dtData", "DtData"},
		{"über", "Über"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, capitalize(tt.in), tt.in)
	}
}
