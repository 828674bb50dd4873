package codes

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTrialCityCode(t *testing.T) {
	code := GenerateTrialCityCode("Maharashtra", "Mumbai", nil)
	assert.Equal(t, "IKF-MH-MUM-001", code)

	second := GenerateTrialCityCode("Maharashtra", "Mumbai", []string{code})
	assert.Equal(t, "IKF-MH-MUM-002", second)
}

func TestGenerateTrialCityCodeUnknownState(t *testing.T) {
	code := GenerateTrialCityCode("Atlantis", "Mumbai", nil)
	assert.Equal(t, "IKF-XX-MUM-001", code)
	assert.True(t, ValidTrialCityCode(code))
}

func TestGenerateTrialCityCodeSequenceMonotonic(t *testing.T) {
	var existing []string
	seen := map[string]bool{}
	for i := 1; i <= 25; i++ {
		code := GenerateTrialCityCode("Karnataka", "Bangalore", existing)
		require.False(t, seen[code], "code %s generated twice", code)
		require.Equal(t, fmt.Sprintf("IKF-KA-BAN-%03d", i), code)
		seen[code] = true
		existing = append(existing, code)
	}
}

func TestGenerateTrialCityCodeFormat(t *testing.T) {
	cases := []struct {
		state, city string
	}{
		{"Maharashtra", "Mumbai"},
		{"Tamil Nadu", "Chennai"},
		{"Delhi", "New Delhi"},
		{"Kerala", "Ab"},          // short name, padded
		{"Gujarat", "123!@#"},     // no letters at all
		{"Nowhere", "Sometown"},   // unknown state
		{"West Bengal", "  Kolkata  City  "},
	}
	for _, c := range cases {
		code := GenerateTrialCityCode(c.state, c.city, nil)
		assert.True(t, ValidTrialCityCode(code), "bad format %q for %s/%s", code, c.state, c.city)
	}
}

func TestCityCode(t *testing.T) {
	assert.Equal(t, "MUM", CityCode("Mumbai"))
	assert.Equal(t, "NEW", CityCode("New Delhi"))
	assert.Equal(t, "ABX", CityCode("Ab"))
	assert.Equal(t, "XXX", CityCode(""))
	assert.Equal(t, "XXX", CityCode("99!!"))
	assert.Equal(t, "NAV", CityCode("  navi   mumbai "))
}

func TestNextSequenceIgnoresMalformedCodes(t *testing.T) {
	existing := []string{
		"IKF-MH-MUM-007",
		"IKF-MH-MUM-junk",   // manually edited, no numeric suffix
		"IKF-MH-MUM-12",     // wrong width
		"IKF-KA-BAN-099",    // different prefix
	}
	assert.Equal(t, "008", NextSequence("IKF-MH-MUM-", existing))
	assert.Equal(t, "001", NextSequence("IKF-TN-CHE-", existing))
}

func TestGenerateTrialCode(t *testing.T) {
	code := GenerateTrialCode("Season 6", "Regular", nil)
	assert.Equal(t, "TRL-S6-REG-001", code)

	next := GenerateTrialCode("Season 6", "Regular", []string{code})
	assert.Equal(t, "TRL-S6-REG-002", next)

	assert.Equal(t, "TRL-CUS-CSR-001", GenerateTrialCode("Custom", "CSR", nil))
	assert.Equal(t, "TRL-S0-OTH-001", GenerateTrialCode("Preseason", "Friendly", nil))
	assert.Equal(t, "TRL-S10-SPR-001", GenerateTrialCode("Season 10", "School Partnership", nil))
}

func TestTrialCodeFormat(t *testing.T) {
	for _, season := range []string{"Season 1", "Season 10", "Custom", "whenever"} {
		for _, typ := range []string{"Regular", "CSR", "Championship", "School Partnership", "???"} {
			code := GenerateTrialCode(season, typ, nil)
			assert.True(t, ValidTrialCode(code), "bad format %q", code)
		}
	}
}

func TestGenerateLocalCityCode(t *testing.T) {
	code := GenerateLocalCityCode("Mumbai", nil)
	assert.Equal(t, "IKF-MH-MUM-001", code)

	// Local codes sequence by count within the trial, not by registry scan.
	second := GenerateLocalCityCode("Mumbai", []string{code})
	assert.Equal(t, "IKF-MH-MUM-002", second)

	// Unmapped cities fall back to XX.
	assert.Equal(t, "IKF-XX-SHI-001", GenerateLocalCityCode("Shillong", nil))
}

func TestStateCode(t *testing.T) {
	assert.Equal(t, "MH", StateCode("Maharashtra"))
	assert.Equal(t, "PY", StateCode("Puducherry"))
	assert.Equal(t, "XX", StateCode("Mordor"))
}

func TestIndianStatesComplete(t *testing.T) {
	states := IndianStates()
	assert.Len(t, states, 36) // 28 states + 8 union territories
	assert.True(t, sortedStrings(states))
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestParseTrialCityCode(t *testing.T) {
	parsed, ok := ParseTrialCityCode("IKF-MH-MUM-012")
	require.True(t, ok)
	assert.Equal(t, "IKF", parsed.Prefix)
	assert.Equal(t, "MH", parsed.StateCode)
	assert.Equal(t, "MUM", parsed.CityCode)
	assert.Equal(t, 12, parsed.Number)

	_, ok = ParseTrialCityCode("TRL-S6-REG-001")
	assert.False(t, ok)
}
