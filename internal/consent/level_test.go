package consent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purposeIDs(ps []Purpose) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func TestDefaultLevelCatalog(t *testing.T) {
	lc := DefaultLevelCatalog()
	require.Equal(t, 20, lc.LevelCount())

	for i, l := range lc.Levels() {
		assert.Equal(t, i+1, l.ID)
		assert.NotEmpty(t, l.Tabs)
		assert.NotEmpty(t, l.Buttons)
	}

	_, err := lc.LevelByID(21)
	var ule UnknownLevelError
	require.True(t, errors.As(err, &ule))
	assert.Equal(t, 21, ule.ID)

	_, err = lc.LevelByID(0)
	require.Error(t, err)
}

func TestFilteredPurposes(t *testing.T) {
	lc := DefaultLevelCatalog()

	tests := []struct {
		level int
		want  []string
	}{
		{1, []string{"preferences", "statistics", "marketing"}},
		{4, []string{"preferences", "statistics", "marketing", "performance", "security"}},
		// Simple mode hides purposes without AlwaysShow.
		{16, []string{"marketing"}},
		{17, []string{"marketing"}},
	}
	for _, tt := range tests {
		l, err := lc.LevelByID(tt.level)
		require.NoError(t, err)
		assert.Equal(t, tt.want, purposeIDs(lc.FilteredPurposes(l)), "level %d", tt.level)
	}

	// No filter: every purpose in catalog order.
	l5, err := lc.LevelByID(5)
	require.NoError(t, err)
	assert.Len(t, lc.FilteredPurposes(l5), 21)
}

func TestVisiblePurposesShowOnlyRequired(t *testing.T) {
	lc := DefaultLevelCatalog()
	l, err := lc.LevelByID(5)
	require.NoError(t, err)

	l.ShowOnlyRequired = true
	assert.Equal(t, []string{"necessary", "functional"}, purposeIDs(lc.VisiblePurposes(l)))
}

func TestFilteredCompanies(t *testing.T) {
	lc := DefaultLevelCatalog()

	l10, err := lc.LevelByID(10)
	require.NoError(t, err)
	companies := lc.FilteredCompanies(l10)
	require.Len(t, companies, 20)
	assert.Equal(t, "intersussy", companies[0].ID)
	assert.Equal(t, "generated_15", companies[19].ID)

	l13, err := lc.LevelByID(13)
	require.NoError(t, err)
	assert.Len(t, lc.FilteredCompanies(l13), 56)
}

func TestCatalogQueriesAreIdempotent(t *testing.T) {
	lc := DefaultLevelCatalog()

	for _, l := range lc.Levels() {
		first := lc.FilteredPurposes(l)
		if len(first) > 0 {
			first[0].ID = "mutated"
		}
		companies := lc.FilteredCompanies(l)
		if len(companies) > 0 {
			companies[0].Cookies[0].ID = "mutated"
		}

		assert.Equal(t, lc.FilteredPurposes(l), lc.FilteredPurposes(l))
		assert.Equal(t, lc.FilteredCompanies(l), lc.FilteredCompanies(l))
		for _, p := range lc.FilteredPurposes(l) {
			assert.NotEqual(t, "mutated", p.ID)
		}
		for _, co := range lc.FilteredCompanies(l) {
			assert.NotEqual(t, "mutated", co.Cookies[0].ID)
		}
	}
}

func TestDefaultFor(t *testing.T) {
	lc := DefaultLevelCatalog()

	l4, err := lc.LevelByID(4)
	require.NoError(t, err)
	assert.False(t, l4.DefaultFor(l4.Tabs[0]))
	assert.True(t, l4.DefaultFor(l4.Tabs[1]))

	l3, err := lc.LevelByID(3)
	require.NoError(t, err)
	assert.True(t, l3.DefaultFor(l3.Tabs[0]))
}

func TestNewLevelCatalogIntegrity(t *testing.T) {
	cat := DefaultCatalog()
	valid := func(id int) LevelConfig {
		return LevelConfig{
			ID:          id,
			Tabs:        []Tab{consentTab("Consent", ContentPurposes)},
			Buttons:     []Button{save("Save", StylePrimary)},
			DisplayMode: DisplayDetailed,
		}
	}

	tests := []struct {
		name   string
		levels func() []LevelConfig
		code   string
	}{
		{
			name:   "gap",
			levels: func() []LevelConfig { return []LevelConfig{valid(1), valid(3)} },
			code:   CodeLevelGap,
		},
		{
			name:   "starts at two",
			levels: func() []LevelConfig { return []LevelConfig{valid(2)} },
			code:   CodeLevelGap,
		},
		{
			name: "no tabs",
			levels: func() []LevelConfig {
				l := valid(1)
				l.Tabs = nil
				return []LevelConfig{l}
			},
			code: CodeEmptyTabs,
		},
		{
			name: "no buttons",
			levels: func() []LevelConfig {
				l := valid(1)
				l.Buttons = nil
				return []LevelConfig{l}
			},
			code: CodeEmptyButtons,
		},
		{
			name: "duplicate tab",
			levels: func() []LevelConfig {
				l := valid(1)
				l.Tabs = append(l.Tabs, l.Tabs[0])
				return []LevelConfig{l}
			},
			code: CodeDuplicateTab,
		},
		{
			name: "unknown purpose filter",
			levels: func() []LevelConfig {
				l := valid(1)
				l.PurposeFilter = []string{"ghost"}
				return []LevelConfig{l}
			},
			code: CodeUnknownFilter,
		},
		{
			name: "unknown company filter",
			levels: func() []LevelConfig {
				l := valid(1)
				l.CompanyFilter = []string{"ghost"}
				return []LevelConfig{l}
			},
			code: CodeUnknownFilter,
		},
		{
			name: "bad display mode",
			levels: func() []LevelConfig {
				l := valid(1)
				l.DisplayMode = "fancy"
				return []LevelConfig{l}
			},
			code: CodeInvalidEnum,
		},
		{
			name: "accept all without optional choices",
			levels: func() []LevelConfig {
				l := valid(1)
				l.PurposeFilter = []string{"necessary", "functional"}
				l.Buttons = append(l.Buttons, accept("Accept", StylePrimary))
				return []LevelConfig{l}
			},
			code: CodeNoOptionalChoices,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLevelCatalog(cat, tt.levels())
			require.Error(t, err)
			var ie CatalogIntegrityError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.code, ie.Code)
		})
	}
}

func TestNewLevelCatalogSortsByID(t *testing.T) {
	levels := DefaultLevels()
	levels[0], levels[19] = levels[19], levels[0]

	lc, err := NewLevelCatalog(DefaultCatalog(), levels)
	require.NoError(t, err)
	l, err := lc.LevelByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Welcome! We value your privacy", l.Title)
}
