// Package region maps Australian state and territory names to their postal abbreviations
package region

import "golang.org/x/text/cases"

var abbreviations = map[string]string{
	"Victoria":                     "VIC",
	"New South Wales":              "NSW",
	"Queensland":                   "QLD",
	"South Australia":              "SA",
	"Western Australia":            "WA",
	"Tasmania":                     "TAS",
	"Northern Territory":           "NT",
	"Australian Capital Territory": "ACT",
}

var folded = func() map[string]string {
	m := make(map[string]string, len(abbreviations))
	for name, code := range abbreviations {
		m[fold(name)] = code
	}
	return m
}()

// Abbreviate returns the postal code for a full state or territory name, matched
// case-insensitively. Anything else, including values that are already
// abbreviated, is returned unchanged
func Abbreviate(name string) string {
	if code, ok := folded[fold(name)]; ok {
		return code
	}
	return name
}

// a cases.Caser is stateful, so one is built per call
func fold(s string) string {
	return cases.Fold().String(s)
}
