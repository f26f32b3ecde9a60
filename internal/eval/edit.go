package eval

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/itinerary"
)

const unintendedReason = "Section changed but was not in intended edit scope"

// anyDayScope is the inferred scope when an instruction names nothing
// specific. It matches every day_<n> section by substring.
const anyDayScope = "day_"

var instructionDayPattern = regexp.MustCompile(`day\s+(\d+)`)

// EditChecker compares two versions of an itinerary and reports changes
// outside the requested edit scope.
type EditChecker struct {
	thresholds Thresholds
}

// NewEditChecker creates a checker using the given limits.
func NewEditChecker(thresholds Thresholds) *EditChecker {
	return &EditChecker{thresholds: thresholds}
}

// Evaluate diffs original against edited section by section.
//
// The edit scope is intended when non-empty, otherwise it is inferred from
// instruction. With neither, every change counts as intended.
func (c *EditChecker) Evaluate(original, edited, instruction string, intended []string) *EditResult {
	before := itinerary.Sections(original)
	after := itinerary.Sections(edited)

	differences := FindDifferences(before, after)

	scope := intended
	if len(scope) == 0 && instruction != "" {
		scope = InferIntendedSections(instruction)
	}

	unintended := []SectionDiff{}
	if len(scope) > 0 {
		unintended = unintendedChanges(differences, scope)
	}

	issues := make([]string, 0, len(unintended))
	for _, d := range unintended {
		issues = append(issues, fmt.Sprintf("Unintended change in section '%s': %s (similarity: %.2f%%)",
			d.Section, d.ChangeType, d.Similarity*100))
	}

	activities := c.CompareActivities(original, edited)

	return &EditResult{
		Outcome: Outcome{EvalType: EvalEditCorrectness, Passed: len(unintended) == 0},
		Summary: &EditSummary{
			TotalSectionsOriginal: before.Len(),
			TotalSectionsEdited:   after.Len(),
			TotalChanges:          len(differences),
			IntendedChanges:       len(differences) - len(unintended),
			UnintendedChanges:     len(unintended),
		},
		IntendedSections:  scope,
		Differences:       differences,
		UnintendedChanges: unintended,
		ActivityChanges:   &activities,
		Issues:            issues,
	}
}

// FindDifferences returns one entry per section whose content differs between
// the two versions. Sections are visited in original order, followed by
// sections only present in the edited version.
func FindDifferences(before, after itinerary.SectionSet) []SectionDiff {
	keys := append([]string(nil), before.Order...)
	for _, key := range after.Order {
		if !before.Has(key) {
			keys = append(keys, key)
		}
	}

	differences := []SectionDiff{}
	for _, key := range keys {
		a, b := before.Get(key), after.Get(key)
		similarity := Similarity(a, b)
		if similarity >= 1.0 {
			continue
		}
		differences = append(differences, SectionDiff{
			Section:        key,
			Similarity:     similarity,
			OriginalLength: runeLen(a),
			EditedLength:   runeLen(b),
			ChangeType:     ClassifyChange(a, b),
		})
	}
	return differences
}

// ClassifyChange labels the change from original to edited content.
func ClassifyChange(original, edited string) ChangeType {
	before, after := float64(runeLen(original)), float64(runeLen(edited))
	switch {
	case original == "" && edited != "":
		return ChangeAddition
	case original != "" && edited == "":
		return ChangeDeletion
	case after > before*1.5:
		return ChangeMajorAddition
	case after < before*0.5:
		return ChangeMajorDeletion
	default:
		return ChangeModification
	}
}

// InferIntendedSections derives scope tokens from a free-text edit request.
// Day mentions become day_<n>, period words are kept as-is, and tip or advice
// wording selects travel_tips. An instruction naming nothing yields "day_".
func InferIntendedSections(instruction string) []string {
	lower := strings.ToLower(instruction)
	var scope []string

	for _, m := range instructionDayPattern.FindAllStringSubmatch(lower, -1) {
		scope = append(scope, itinerary.DaySectionKey(m[1]))
	}
	for _, p := range itinerary.Periods {
		if strings.Contains(lower, string(p)) {
			scope = append(scope, string(p))
		}
	}
	if strings.Contains(lower, "tip") || strings.Contains(lower, "advice") {
		scope = append(scope, itinerary.TravelTipsSection)
	}

	if len(scope) == 0 {
		scope = []string{anyDayScope}
	}
	return scope
}

// inScope reports whether a section key and any scope token contain one another.
func inScope(section string, scope []string) bool {
	return slices.ContainsFunc(scope, func(token string) bool {
		return strings.Contains(section, token) || strings.Contains(token, section)
	})
}

func unintendedChanges(differences []SectionDiff, scope []string) []SectionDiff {
	var out []SectionDiff
	for _, d := range differences {
		if inScope(d.Section, scope) {
			continue
		}
		d.Reason = unintendedReason
		out = append(out, d)
	}
	if out == nil {
		out = []SectionDiff{}
	}
	return out
}

// CompareActivities matches activity lines between two versions.
//
// An original line missing from the edited version is paired with the first
// edited line whose similarity exceeds the modified threshold, otherwise it
// is removed. Edited lines missing from the original that were not paired
// are added.
func (c *EditChecker) CompareActivities(original, edited string) ActivityDiff {
	before := itinerary.ActivityLines(original)
	after := itinerary.ActivityLines(edited)

	diff := ActivityDiff{
		Added:    []string{},
		Removed:  []string{},
		Modified: []ActivityModification{},
	}

	for _, line := range before {
		if slices.Contains(after, line) {
			continue
		}
		paired := false
		for _, candidate := range after {
			similarity := Similarity(line, candidate)
			if similarity > c.thresholds.ModifiedSimilarity {
				diff.Modified = append(diff.Modified, ActivityModification{
					Original:   line,
					Edited:     candidate,
					Similarity: similarity,
				})
				paired = true
				break
			}
		}
		if !paired {
			diff.Removed = append(diff.Removed, line)
		}
	}

	for _, line := range after {
		if slices.Contains(before, line) {
			continue
		}
		if slices.ContainsFunc(diff.Modified, func(m ActivityModification) bool { return m.Edited == line }) {
			continue
		}
		diff.Added = append(diff.Added, line)
	}

	diff.TotalChanges = len(diff.Added) + len(diff.Removed) + len(diff.Modified)
	return diff
}
