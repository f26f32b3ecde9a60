package eval

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/itinerary"
)

var citationPattern = regexp.MustCompile(`\[Source:\s*Wikivoyage[^\]]*\]`)

// uncertaintyMarkers is the hedging vocabulary, scanned in this order.
var uncertaintyMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmay\b`),
	regexp.MustCompile(`(?i)\bmight\b`),
	regexp.MustCompile(`(?i)\bcould\b`),
	regexp.MustCompile(`(?i)\bpossibly\b`),
	regexp.MustCompile(`(?i)\bperhaps\b`),
	regexp.MustCompile(`(?i)\buncertain\b`),
	regexp.MustCompile(`(?i)\bnot sure\b`),
	regexp.MustCompile(`(?i)\bno data\b`),
	regexp.MustCompile(`(?i)\bunavailable\b`),
	regexp.MustCompile(`(?i)\bcannot confirm\b`),
	regexp.MustCompile(`(?i)\blimited information\b`),
}

// GroundingChecker detects place names not backed by search results, tips
// without sources and unhedged claims.
type GroundingChecker struct {
	thresholds Thresholds
}

// NewGroundingChecker creates a checker using the given limits.
func NewGroundingChecker(thresholds Thresholds) *GroundingChecker {
	return &GroundingChecker{thresholds: thresholds}
}

// Evaluate runs the POI grounding, tip citation and uncertainty checks.
// The result passes only when all three pass.
func (c *GroundingChecker) Evaluate(text string, searchResults map[string][]SearchResult) *GroundingResult {
	res := &GroundingResult{
		POIGrounding: c.checkPOIGrounding(text, searchResults),
		TipCitations: c.checkTipCitations(text),
		Uncertainty:  c.checkUncertainty(text),
	}

	summary := &CheckSummary{}
	for _, check := range res.Checks() {
		summary.add(check)
	}
	res.Summary = summary
	res.Outcome = Outcome{EvalType: EvalGrounding, Passed: summary.FailedChecks == 0}
	return res
}

func (c *GroundingChecker) checkPOIGrounding(text string, searchResults map[string][]SearchResult) *POIGroundingCheck {
	pois := ExtractPOIs(text)
	if pois == nil {
		pois = []string{}
	}

	if len(searchResults) == 0 {
		return &POIGroundingCheck{
			CheckOutcome: CheckOutcome{
				Check:  CheckPOIGrounding,
				Passed: false,
				Issues: []string{"No search results provided. Cannot verify POI grounding."},
			},
			ItineraryPOIs:   pois,
			GroundedPOIs:    []string{},
			UngroundedPOIs:  []string{},
			UngroundedCount: len(pois),
		}
	}

	names := EvalContext{SearchResults: searchResults}.SearchNames()
	grounded := []string{}
	ungrounded := []string{}
	issues := []string{}
	for _, poi := range pois {
		if isGrounded(poi, names) {
			grounded = append(grounded, poi)
			continue
		}
		ungrounded = append(ungrounded, poi)
		issues = append(issues, fmt.Sprintf(
			"POI '%s' not found in search results. May be hallucinated or from general knowledge.", poi))
	}

	percent := 100.0
	if len(pois) > 0 {
		percent = float64(len(grounded)) / float64(len(pois)) * 100
	}

	// Ungrounded names are reported even when the share is high enough to pass.
	return &POIGroundingCheck{
		CheckOutcome: CheckOutcome{
			Check:  CheckPOIGrounding,
			Passed: percent >= c.thresholds.MinGroundingPercent,
			Issues: issues,
		},
		ItineraryPOIs:       pois,
		GroundedPOIs:        grounded,
		UngroundedPOIs:      ungrounded,
		GroundedCount:       len(grounded),
		UngroundedCount:     len(ungrounded),
		GroundingPercentage: &percent,
	}
}

func (c *GroundingChecker) checkTipCitations(text string) *TipCitationCheck {
	block, found := itinerary.TipsBlock(text)
	if !found {
		return &TipCitationCheck{
			CheckOutcome: CheckOutcome{
				Check:  CheckTipCitations,
				Passed: false,
				Issues: []string{"No 'Travel Tips' section found in itinerary."},
			},
			CitationsFound: []string{},
		}
	}

	total := len(itinerary.TipLines(block))
	citations := citationPattern.FindAllString(strings.Join(block, "\n"), -1)
	if citations == nil {
		citations = []string{}
	}

	issues := []string{}
	if total > 0 && len(citations) == 0 {
		issues = append(issues, fmt.Sprintf(
			"Found %d travel tips but no RAG source citations. Tips should cite sources like [Source: Wikivoyage - City - Section].",
			total))
	}

	var percent float64
	if total > 0 {
		percent = float64(len(citations)) / float64(total) * 100
	}

	return &TipCitationCheck{
		CheckOutcome: CheckOutcome{
			Check:  CheckTipCitations,
			Passed: total == 0 || percent >= c.thresholds.MinCitationPercent,
			Issues: issues,
		},
		HasTipsSection:     true,
		TotalTips:          total,
		TipsWithCitations:  len(citations),
		CitationPercentage: percent,
		CitationsFound:     citations,
	}
}

func (c *GroundingChecker) checkUncertainty(text string) *UncertaintyCheck {
	instances := []UncertaintyInstance{}
	runes := []rune(text)
	window := c.thresholds.ContextWindow

	for _, pattern := range uncertaintyMarkers {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			// Offsets are taken in code points so the window is character based.
			start := utf8.RuneCountInString(text[:loc[0]])
			end := start + utf8.RuneCountInString(text[loc[0]:loc[1]])
			from := max(0, start-window)
			to := min(len(runes), end+window)
			instances = append(instances, UncertaintyInstance{
				Marker:  text[loc[0]:loc[1]],
				Context: strings.TrimSpace(string(runes[from:to])),
			})
		}
	}

	lower := strings.ToLower(text)
	issues := []string{}

	if strings.Contains(lower, "weather") {
		hedged := false
		for _, inst := range instances {
			if strings.Contains(strings.ToLower(inst.Context), "weather") {
				hedged = true
				break
			}
		}
		if !hedged {
			issues = append(issues,
				"Weather mentioned but no uncertainty markers. Weather predictions should include uncertainty.")
		}
	}

	if (strings.Contains(lower, "could not") || strings.Contains(lower, "no results")) && len(instances) == 0 {
		issues = append(issues, "Search failures detected but no explicit uncertainty markers found.")
	}

	return &UncertaintyCheck{
		CheckOutcome:            newCheck(CheckUncertaintyMarkers, issues),
		Instances:               instances,
		TotalUncertaintyMarkers: len(instances),
	}
}
