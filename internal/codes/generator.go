package codes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TrialTypeCodes maps trial types to their 3-letter short codes.
var TrialTypeCodes = map[string]string{
	"Regular":            "REG",
	"CSR":                "CSR",
	"Championship":       "CHP",
	"School Partnership": "SPR",
}

var (
	trialCityCodePattern = regexp.MustCompile(`^IKF-[A-Z]{2}-[A-Z]{3}-\d{3}$`)
	trialCodePattern     = regexp.MustCompile(`^TRL-[A-Z0-9]+-[A-Z]{3}-\d{3}$`)
	seqSuffixPattern     = regexp.MustCompile(`-(\d{3})$`)
	seasonNumberPattern  = regexp.MustCompile(`(\d+)`)
	nonAlphaPattern      = regexp.MustCompile(`[^a-zA-Z\s]`)
	spacesPattern        = regexp.MustCompile(`\s+`)
)

// CityCode derives a 3-letter city code from a city name: strip non-letters,
// take the first word, uppercase its first 3 characters. Short names are
// padded with 'X'; an empty result falls back to "XXX".
func CityCode(cityName string) string {
	cleaned := nonAlphaPattern.ReplaceAllString(strings.TrimSpace(cityName), "")
	cleaned = spacesPattern.ReplaceAllString(cleaned, " ")

	words := strings.SplitN(strings.TrimSpace(cleaned), " ", 2)
	first := words[0]
	if first == "" {
		return "XXX"
	}

	code := strings.ToUpper(first)
	if len(code) > 3 {
		code = code[:3]
	}
	for len(code) < 3 {
		code += "X"
	}
	return code
}

// NextSequence scans existing codes for the given prefix (which must include
// the trailing dash), extracts the 3-digit suffix of each match, and returns
// max+1 zero-padded to 3 digits. Codes that do not end in a 3-digit suffix
// are ignored rather than rejected, matching the legacy scan behavior.
func NextSequence(prefix string, existing []string) string {
	max := 0
	for _, code := range existing {
		if !strings.HasPrefix(code, prefix) {
			continue
		}
		m := seqSuffixPattern.FindStringSubmatch(code)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%03d", max+1)
}

// TrialCityPrefix returns the registry code prefix for a state+city pair,
// including the trailing dash.
func TrialCityPrefix(state, cityName string) string {
	return fmt.Sprintf("IKF-%s-%s-", StateCode(state), CityCode(cityName))
}

// TrialPrefix returns the trial code prefix for a season+type pair,
// including the trailing dash.
func TrialPrefix(season, trialType string) string {
	return fmt.Sprintf("TRL-%s-%s-", SeasonCode(season), TypeCode(trialType))
}

// GenerateTrialCityCode composes the registry code IKF-{STATE2}-{CITY3}-{SEQ3}
// for a trial city. The function is pure: given the same state, city, and
// existing-code set it always produces the same result, and the sequence is
// strictly increasing as generated codes are fed back into the existing set.
func GenerateTrialCityCode(state, cityName string, existing []string) string {
	prefix := TrialCityPrefix(state, cityName)
	return prefix + NextSequence(prefix, existing)
}

// SeasonCode maps a season label to its code segment: "Custom" becomes CUS,
// otherwise the first number in the label prefixed with S ("Season 6" -> S6).
// A label with no number falls back to S0.
func SeasonCode(season string) string {
	if season == "" {
		return "S0"
	}
	if season == "Custom" {
		return "CUS"
	}
	if m := seasonNumberPattern.FindString(season); m != "" {
		return "S" + m
	}
	return "S0"
}

// TypeCode returns the 3-letter code for a trial type, or "OTH" when unknown.
func TypeCode(trialType string) string {
	if code, ok := TrialTypeCodes[trialType]; ok {
		return code
	}
	return "OTH"
}

// GenerateTrialCode composes TRL-{SEASON}-{TYPE3}-{SEQ3} for a trial,
// sequencing against the existing trial codes sharing the same prefix.
func GenerateTrialCode(season, trialType string, existing []string) string {
	prefix := TrialPrefix(season, trialType)
	return prefix + NextSequence(prefix, existing)
}

// GenerateLocalCityCode produces the trial-scoped code used inside a trial's
// assigned-city list. This is a separate namespace from the trial-city
// registry: the state comes from a small city lookup (fallback "XX"), the
// city segment is the raw first 3 characters uppercased, and the sequence
// counts codes in the same trial sharing the state+city fragment.
func GenerateLocalCityCode(cityName string, assigned []string) string {
	stateCode := "XX"
	if code, ok := cityStates[strings.ToLower(strings.TrimSpace(cityName))]; ok {
		stateCode = code
	}

	abbr := strings.TrimSpace(cityName)
	if len(abbr) > 3 {
		abbr = abbr[:3]
	}
	abbr = strings.ToUpper(abbr)

	fragment := fmt.Sprintf("-%s-%s-", stateCode, abbr)
	count := 0
	for _, code := range assigned {
		if strings.Contains(code, fragment) {
			count++
		}
	}
	return fmt.Sprintf("IKF%s%03d", fragment, count+1)
}

// ValidTrialCityCode reports whether code matches IKF-XX-XXX-000.
func ValidTrialCityCode(code string) bool {
	return trialCityCodePattern.MatchString(code)
}

// ValidTrialCode reports whether code matches TRL-S0-XXX-000.
func ValidTrialCode(code string) bool {
	return trialCodePattern.MatchString(code)
}

// ParsedCityCode holds the components of a registry trial-city code.
type ParsedCityCode struct {
	Prefix    string
	StateCode string
	CityCode  string
	Number    int
}

// ParseTrialCityCode splits a valid registry code into its components.
// Returns false for codes that do not match the expected format.
func ParseTrialCityCode(code string) (ParsedCityCode, bool) {
	if !ValidTrialCityCode(code) {
		return ParsedCityCode{}, false
	}
	parts := strings.Split(code, "-")
	n, _ := strconv.Atoi(parts[3])
	return ParsedCityCode{
		Prefix:    parts[0],
		StateCode: parts[1],
		CityCode:  parts[2],
		Number:    n,
	}, true
}
