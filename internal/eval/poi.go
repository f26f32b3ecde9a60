package eval

import (
	"regexp"
	"strings"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/itinerary"
)

const (
	landmarkSuffix = `museum|temple|palace|fort|park|market|restaurant|cafe|gallery|monument|building|church|mosque|square|garden`
	areaSuffix     = `area|district|neighborhood|quarter`
)

// placePatterns are applied in order to every activity description. The
// capture is lazy so the suffix word is never part of the name.
var placePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:visit|explore|tour|see|discover)\s+(?:the\s+)?([A-Z][a-zA-Z\s]+?)(?:\s+(?:` + landmarkSuffix + `))`),
	regexp.MustCompile(`(?i)\bat\s+(?:the\s+)?([A-Z][a-zA-Z\s]+?)(?:\s+(?:` + landmarkSuffix + `))`),
	regexp.MustCompile(`(?i)\bin\s+(?:the\s+)?([A-Z][a-zA-Z\s]+?)(?:\s+(?:` + areaSuffix + `))`),
}

var quotedNamePattern = regexp.MustCompile(`"([^"]+)"`)

// ExtractPOIs returns candidate place names mentioned in the activity lines
// of an itinerary, in line order and then template order. Duplicates are kept.
func ExtractPOIs(text string) []string {
	var pois []string
	for _, detail := range itinerary.ActivityDetails(text) {
		for _, pattern := range placePatterns {
			for _, m := range pattern.FindAllStringSubmatch(detail, -1) {
				name := strings.TrimSpace(m[1])
				if runeLen(name) > 2 {
					pois = append(pois, name)
				}
			}
		}
		for _, m := range quotedNamePattern.FindAllStringSubmatch(detail, -1) {
			pois = append(pois, m[1])
		}
	}
	return pois
}

// isGrounded reports whether poi and any search name contain one another,
// ignoring case. names must already be lower-cased.
func isGrounded(poi string, names map[string]struct{}) bool {
	lower := strings.ToLower(poi)
	for name := range names {
		if strings.Contains(name, lower) || strings.Contains(lower, name) {
			return true
		}
	}
	return false
}
