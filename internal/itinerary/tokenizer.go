package itinerary

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Kind classifies a single itinerary line.
type Kind int

const (
	KindOther Kind = iota
	KindDayHeader
	KindActivity
	KindTipsHeader
)

// String returns a lower-case name for the kind.
func (k Kind) String() string {
	switch k {
	case KindDayHeader:
		return "day_header"
	case KindActivity:
		return "activity"
	case KindTipsHeader:
		return "tips_header"
	default:
		return "other"
	}
}

var (
	dayHeaderPattern       = regexp.MustCompile(`^#\s*Day\s+(\d+):`)
	titledDayHeaderPattern = regexp.MustCompile(`^#\s*Day\s+(\d+):\s*(.+?)\s*-\s*(.+)`)

	activityPattern           = regexp.MustCompile(`(?i)^\*\s*(Morning|Afternoon|Evening)`)
	structuredActivityPattern = regexp.MustCompile(`(?i)^\*\s*(Morning|Afternoon|Evening)(?:\s*\(([^)]+)\))?\s*:\s*(.+)`)
	looseActivityPattern      = regexp.MustCompile(`(?i)^\*\s*(?:Morning|Afternoon|Evening)[^:]*:\s*(.+)`)

	tipsHeadingPattern = regexp.MustCompile(`(?i)\*\*Travel Tips:?\*\*\s*$`)
)

const tipsSectionMarker = "**Travel Tips:"

// splitTitle separates the date label from the theme. The header pattern splits
// on the first dash, which cuts ISO dates apart, so a spaced " - " in the title
// wins when there is one.
func splitTitle(title, date, theme string) (string, string) {
	if i := strings.Index(title, " - "); i > 0 {
		return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
	}
	return strings.TrimSpace(date), strings.TrimSpace(theme)
}

// Token is one classified line of an itinerary.
type Token struct {
	Kind Kind
	// Line is the 1-based line number in the source text.
	Line    int
	Raw     string
	Trimmed string
	// Indented is set when the raw line starts with whitespace.
	Indented bool
	// Bullet is set when the trimmed line starts with "*" or "-".
	Bullet bool

	// Day header fields. DayLabel is the day number as written ("01" stays
	// "01"). Titled is set only for the full "# Day <n>: <date> - <theme>" form.
	Day      int
	DayLabel string
	Date     string
	Theme    string
	Titled   bool

	// Activity fields. Structured is set when the line has the
	// "<Period>[ (<range>)]: <description>" shape.
	Period      Period
	TimeRange   string
	Description string
	Structured  bool
	// Detail is the text after the first colon of an unindented activity line.
	Detail string

	// Tips header fields. Heading is the bold "**Travel Tips:**" form,
	// SectionMarker the unindented "**Travel Tips:" prefix.
	Heading       bool
	SectionMarker bool
}

// Document is the ordered token stream of one itinerary text.
type Document struct {
	Tokens []Token
}

// Tokenize classifies every line of text. Lines are split on "\n" only.
func Tokenize(text string) Document {
	lines := strings.Split(text, "\n")
	doc := Document{Tokens: make([]Token, 0, len(lines))}
	for i, raw := range lines {
		doc.Tokens = append(doc.Tokens, classify(i+1, raw))
	}
	return doc
}

func classify(lineNo int, raw string) Token {
	trimmed := strings.TrimSpace(raw)
	tok := Token{
		Kind:     KindOther,
		Line:     lineNo,
		Raw:      raw,
		Trimmed:  trimmed,
		Indented: raw != strings.TrimLeftFunc(raw, unicode.IsSpace),
		Bullet:   strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "-"),
	}

	if m := dayHeaderPattern.FindStringSubmatch(trimmed); m != nil {
		day, err := strconv.Atoi(m[1])
		if err != nil {
			// Out of int range; not a usable day header.
			return tok
		}
		tok.Kind = KindDayHeader
		tok.Day = day
		tok.DayLabel = m[1]
		if t := titledDayHeaderPattern.FindStringSubmatch(trimmed); t != nil {
			tok.Titled = true
			title := strings.TrimSpace(trimmed[len(m[0]):])
			tok.Date, tok.Theme = splitTitle(title, t[2], t[3])
		}
		return tok
	}

	if activityPattern.MatchString(trimmed) {
		tok.Kind = KindActivity
		if m := structuredActivityPattern.FindStringSubmatch(trimmed); m != nil {
			tok.Structured = true
			tok.Period = Period(strings.ToLower(m[1]))
			tok.TimeRange = m[2]
			tok.Description = strings.TrimSpace(m[3])
		}
		if !tok.Indented {
			if m := looseActivityPattern.FindStringSubmatch(raw); m != nil {
				tok.Detail = m[1]
			}
		}
		return tok
	}

	heading := tipsHeadingPattern.MatchString(raw)
	marker := strings.HasPrefix(raw, tipsSectionMarker)
	if heading || marker {
		tok.Kind = KindTipsHeader
		tok.Heading = heading
		tok.SectionMarker = marker
	}

	return tok
}
