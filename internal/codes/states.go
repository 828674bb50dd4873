package codes

import "sort"

// StateCodes maps full Indian state/UT names to their 2-letter codes.
// This is the single source of truth for state abbreviations; city code
// generation everywhere must go through this table.
var StateCodes = map[string]string{
	"Andhra Pradesh":    "AP",
	"Arunachal Pradesh": "AR",
	"Assam":             "AS",
	"Bihar":             "BR",
	"Chhattisgarh":      "CG",
	"Goa":               "GA",
	"Gujarat":           "GJ",
	"Haryana":           "HR",
	"Himachal Pradesh":  "HP",
	"Jharkhand":         "JH",
	"Karnataka":         "KA",
	"Kerala":            "KL",
	"Madhya Pradesh":    "MP",
	"Maharashtra":       "MH",
	"Manipur":           "MN",
	"Meghalaya":         "ML",
	"Mizoram":           "MZ",
	"Nagaland":          "NL",
	"Odisha":            "OD",
	"Punjab":            "PB",
	"Rajasthan":         "RJ",
	"Sikkim":            "SK",
	"Tamil Nadu":        "TN",
	"Telangana":         "TS",
	"Tripura":           "TR",
	"Uttar Pradesh":     "UP",
	"Uttarakhand":       "UK",
	"West Bengal":       "WB",
	// Union Territories
	"Andaman and Nicobar Islands":              "AN",
	"Chandigarh":                               "CH",
	"Dadra and Nagar Haveli and Daman and Diu": "DD",
	"Delhi":        "DL",
	"Jammu and Kashmir": "JK",
	"Ladakh":       "LA",
	"Lakshadweep":  "LD",
	"Puducherry":   "PY",
}

// cityStates maps well-known city names (lowercased) to their state code.
// Used only for trial-local assigned-city codes where the operator enters a
// bare city name without a state.
var cityStates = map[string]string{
	"mumbai":     "MH",
	"pune":       "MH",
	"nagpur":     "MH",
	"thane":      "MH",
	"delhi":      "DL",
	"new delhi":  "DL",
	"gurgaon":    "HR",
	"noida":      "UP",
	"bangalore":  "KA",
	"bengaluru":  "KA",
	"mysore":     "KA",
	"chennai":    "TN",
	"coimbatore": "TN",
	"kolkata":    "WB",
	"hyderabad":  "TG",
	"ahmedabad":  "GJ",
	"jaipur":     "RJ",
	"lucknow":    "UP",
	"bhopal":     "MP",
	"indore":     "MP",
	"patna":      "BR",
	"chandigarh": "CH",
	"kochi":      "KL",
}

// StateCode returns the 2-letter code for a full state name, or "XX" when the
// state is unknown. Unknown states degrade the code instead of failing.
func StateCode(state string) string {
	if code, ok := StateCodes[state]; ok {
		return code
	}
	return "XX"
}

// IndianStates returns all known state/UT names, sorted (for dropdowns).
func IndianStates() []string {
	states := make([]string, 0, len(StateCodes))
	for name := range StateCodes {
		states = append(states, name)
	}
	sort.Strings(states)
	return states
}
