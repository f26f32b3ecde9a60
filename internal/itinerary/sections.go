package itinerary

import (
	"strings"
)

// TravelTipsSection is the section key of the travel tips block.
const TravelTipsSection = "travel_tips"

// DaySectionKey returns the section key for a day number as written, so
// "# Day 01:" keys as day_01.
func DaySectionKey(label string) string {
	return "day_" + label
}

// SectionSet maps section keys to their verbatim content. Order holds the keys
// in first-seen order.
type SectionSet struct {
	Order   []string
	Content map[string]string
}

// Len returns the number of distinct sections.
func (s SectionSet) Len() int {
	return len(s.Content)
}

// Get returns the content of a section, or "" when absent.
func (s SectionSet) Get(key string) string {
	return s.Content[key]
}

// Has reports whether the section is present.
func (s SectionSet) Has(key string) bool {
	_, ok := s.Content[key]
	return ok
}

// Sections segments an itinerary into day_<n> and travel_tips blocks.
//
// Any unindented "# Day <n>:" line opens a day section, theme or not, and an
// unindented "**Travel Tips:" line opens the tips section. Every following line
// belongs to the open section until the next marker. Text before the first
// marker belongs to no section. A repeated key replaces the earlier content.
func Sections(text string) SectionSet {
	return Tokenize(text).Sections()
}

// Sections is the section projection of the document.
func (d Document) Sections() SectionSet {
	set := SectionSet{Content: make(map[string]string)}
	current := ""
	var lines []string

	flush := func() {
		if current == "" {
			return
		}
		if _, seen := set.Content[current]; !seen {
			set.Order = append(set.Order, current)
		}
		set.Content[current] = strings.Join(lines, "\n")
	}

	for _, tok := range d.Tokens {
		switch {
		case tok.Kind == KindDayHeader && !tok.Indented:
			flush()
			current = DaySectionKey(tok.DayLabel)
			lines = []string{tok.Raw}
		case tok.Kind == KindTipsHeader && tok.SectionMarker:
			flush()
			current = TravelTipsSection
			lines = []string{tok.Raw}
		default:
			if current != "" {
				lines = append(lines, tok.Raw)
			}
		}
	}
	flush()

	return set
}
