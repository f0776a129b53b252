package phrasing

import (
	"regexp"
	"strings"
)

// MaxAlternatives bounds how many labelled alternatives are kept.
const MaxAlternatives = 3

var (
	alternativeHeading = regexp.MustCompile(`(?i)Alternative|Option|Version`)
	alternativeMarker  = regexp.MustCompile(`^\s*\d+[:.]\s*`)
)

// ExtractAlternatives splits a rephrased block on "Alternative", "Option" or
// "Version" headings and returns the first line of up to three sections that
// follow the main rephrase, in source order.
func ExtractAlternatives(rephrased string) []string {
	sections := alternativeHeading.Split(rephrased, -1)
	alternatives := make([]string, 0, MaxAlternatives)
	if len(sections) < 2 {
		return alternatives
	}

	sections = sections[1:]
	if len(sections) > MaxAlternatives {
		sections = sections[:MaxAlternatives]
	}
	for _, section := range sections {
		section = strings.TrimSpace(alternativeMarker.ReplaceAllString(section, ""))
		line, _, _ := strings.Cut(section, "\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		alternatives = append(alternatives, line)
	}
	return alternatives
}
