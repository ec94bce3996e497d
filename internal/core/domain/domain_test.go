package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMajorToMinorUnits(t *testing.T) {
	for in, want := range map[string]int64{
		"899.00":  89900,
		"749.5":   74950,
		"0.015":   2,
		"-0.015":  -2,
		" 12 ":    1200,
		"1199.99": 119999,
	} {
		got, err := MajorToMinorUnits(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "  ", "abc", "12,50", "$10"} {
		_, err := MajorToMinorUnits(in)
		assert.ErrorIs(t, err, ErrInvalidPrice, in)
	}
}

func TestParseSeason(t *testing.T) {
	for in, want := range map[string]Season{
		"spring":   SeasonSpring,
		" Summer ": SeasonSummer,
		"autumn":   SeasonFall,
		"FALL":     SeasonFall,
		"winter":   SeasonWinter,
	} {
		got, ok := ParseSeason(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	got, ok := ParseSeason("monsoon")
	assert.False(t, ok)
	assert.Equal(t, SeasonNone, got)
}

func TestSourceText(t *testing.T) {
	data, err := json.Marshal(struct {
		S Source `json:"s"`
	}{SourceCuratedBundle})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"CURATED_BUNDLE"}`, string(data))

	var s Source
	require.NoError(t, s.UnmarshalText([]byte("DATABASE")))
	assert.Equal(t, SourceDatabase, s)

	assert.ErrorIs(t, s.UnmarshalText([]byte("CSV")), ErrUnknownSource)
	assert.Equal(t, "UNKNOWN", Source(9).String())
}

func TestProduct(t *testing.T) {
	db := Product{ID: "1", Source: SourceDatabase}
	bundle := Product{ID: "1", Source: SourceCuratedBundle}
	assert.NotEqual(t, db.Key(), bundle.Key())

	p := Product{Colors: []string{"navy", "grey"}, Tags: []string{"formal"}}
	assert.Equal(t, "navy", p.PrimaryColor())
	assert.Equal(t, "", Product{}.PrimaryColor())
	assert.True(t, p.HasTag("formal"))
	assert.False(t, p.HasTag(TagTrending))
}

func TestFilterCriteriaIsEmpty(t *testing.T) {
	var zero int64
	assert.True(t, FilterCriteria{}.IsEmpty())
	assert.True(t, FilterCriteria{SearchTerm: "  "}.IsEmpty())
	assert.False(t, FilterCriteria{MinPrice: &zero}.IsEmpty())
	assert.False(t, FilterCriteria{Seasonal: SeasonWinter}.IsEmpty())
}

func TestProductFilter(t *testing.T) {
	assert.ErrorIs(t, ProductFilter{ProductName: "  "}.Validate(), ErrInvalidRule)
	assert.NoError(t, ProductFilter{ProductName: "Black Tuxedo"}.Validate())

	assert.Equal(t, "black tuxedo", BlocklistKey("  Black Tuxedo "))
	assert.Equal(t, BlocklistKey("BLACK TUXEDO"), BlocklistKey("black tuxedo"))
}
