package eval

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const reportWidth = 70

var checkTitle = cases.Title(language.English)

// GenerateReport renders a report as plain text. The output depends only on
// the report, so rendering the same report twice gives identical text.
func GenerateReport(report *Report) string {
	var b reportBuilder

	b.rule("=")
	b.line("ITINERARY EVALUATION REPORT")
	b.rule("=")
	timestamp := report.Timestamp
	if timestamp == "" {
		timestamp = "N/A"
	}
	b.line("Timestamp: %s", timestamp)
	b.blank()

	b.line("OVERALL RESULTS")
	b.rule("-")
	b.line("Status: %s", statusLabel(report.Overall.AllPassed))
	b.line("Pass Rate: %.1f%%", report.Overall.PassRate)
	b.line("Total Issues: %d", report.Overall.TotalIssues)
	b.blank()

	if f := report.Evaluations.Feasibility; f != nil {
		b.section("1. FEASIBILITY EVALUATION", f.Outcome)
		if f.Summary != nil {
			b.line("Total Days: %d", f.Summary.TotalDays)
			b.line("Checks Passed: %d/%d", f.Summary.PassedChecks, f.Summary.TotalChecks)
		}
		for _, day := range f.Results {
			issues := day.Issues()
			if len(issues) == 0 {
				continue
			}
			b.blank()
			b.line("Day %d Issues:", day.Day)
			b.items(issues)
		}
		b.blank()
	}

	if g := report.Evaluations.Grounding; g != nil {
		b.section("2. GROUNDING & HALLUCINATION EVALUATION", g.Outcome)
		if p := g.POIGrounding; p != nil {
			b.checkHeader(p.Check)
			var percent float64
			if p.GroundingPercentage != nil {
				percent = *p.GroundingPercentage
			}
			b.line("  - Grounded POIs: %d", p.GroundedCount)
			b.line("  - Ungrounded POIs: %d", p.UngroundedCount)
			b.line("  - Grounding Rate: %.1f%%", percent)
			b.items(p.Issues)
		}
		if t := g.TipCitations; t != nil {
			b.checkHeader(t.Check)
			b.line("  - Total Tips: %d", t.TotalTips)
			b.line("  - Tips with Citations: %d", t.TipsWithCitations)
			b.line("  - Citation Rate: %.1f%%", t.CitationPercentage)
			b.items(t.Issues)
		}
		if u := g.Uncertainty; u != nil {
			b.checkHeader(u.Check)
			b.line("  - Uncertainty Markers Found: %d", u.TotalUncertaintyMarkers)
			b.items(u.Issues)
		}
		b.blank()
	}

	if e := report.Evaluations.EditCorrectness; e != nil {
		b.section("3. EDIT CORRECTNESS EVALUATION", e.Outcome)
		if e.Summary != nil {
			b.line("Total Changes: %d", e.Summary.TotalChanges)
			b.line("Intended Changes: %d", e.Summary.IntendedChanges)
			b.line("Unintended Changes: %d", e.Summary.UnintendedChanges)
		}
		if len(e.Issues) > 0 {
			b.blank()
			b.line("Issues:")
			b.items(e.Issues)
		}
		b.blank()
	}

	b.rule("=")
	b.line("END OF REPORT")
	b.rule("=")

	return strings.Join(b.lines, "\n")
}

type reportBuilder struct {
	lines []string
}

func (b *reportBuilder) line(format string, args ...any) {
	if len(args) == 0 {
		b.lines = append(b.lines, format)
		return
	}
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

func (b *reportBuilder) blank() {
	b.lines = append(b.lines, "")
}

func (b *reportBuilder) rule(char string) {
	b.lines = append(b.lines, strings.Repeat(char, reportWidth))
}

func (b *reportBuilder) section(title string, o Outcome) {
	b.line(title)
	b.rule("-")
	b.line("Status: %s", statusLabel(o.Passed))
	if o.Error != "" {
		b.line("Error: %s", o.Error)
	}
}

func (b *reportBuilder) checkHeader(check string) {
	b.blank()
	b.line("%s:", checkTitle.String(strings.ReplaceAll(check, "_", " ")))
}

func (b *reportBuilder) items(issues []string) {
	for _, issue := range issues {
		b.line("  - %s", issue)
	}
}
