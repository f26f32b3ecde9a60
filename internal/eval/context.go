package eval

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/types"
)

// SearchResult is one record returned by the place-search tool.
// Only Name takes part in grounding; the other fields are carried through.
type SearchResult struct {
	Name   string         `yaml:"name" json:"name"`
	Rating *float64       `yaml:"rating,omitempty" json:"rating,omitempty"`
	Source string         `yaml:"source,omitempty" json:"source,omitempty"`
	Extra  map[string]any `yaml:",inline" json:"-"`
}

// TravelTimes maps a 1-based day number to ordered travel samples in minutes.
type TravelTimes map[int][]float64

// UnmarshalYAML accepts both bare and quoted day keys, so JSON context files
// ({"1": [25.0]}) decode the same as YAML ones.
func (t *TravelTimes) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string][]float64
	if err := node.Decode(&raw); err != nil {
		return err
	}

	out := make(TravelTimes, len(raw))
	for key, samples := range raw {
		day, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return fmt.Errorf("travel_times: day %q is not an integer", key)
		}
		out[day] = samples
	}
	*t = out
	return nil
}

// EvalContext is the read-only snapshot of conversation state an evaluation
// run is given. All fields are optional.
type EvalContext struct {
	// SearchResults groups place-search records by category.
	SearchResults map[string][]SearchResult `yaml:"search_results,omitempty" json:"search_results,omitempty"`

	// TravelTimes maps a 1-based day number to travel samples in minutes.
	TravelTimes TravelTimes `yaml:"travel_times,omitempty" json:"travel_times,omitempty"`

	// OriginalItinerary is the pre-edit text. A non-empty value triggers
	// the edit-correctness check.
	OriginalItinerary string `yaml:"original_itinerary,omitempty" json:"original_itinerary,omitempty"`

	// EditInstruction is the user's edit request, used only to infer which
	// sections were meant to change.
	EditInstruction string `yaml:"edit_instruction,omitempty" json:"edit_instruction,omitempty"`

	// IntendedSections overrides inference with an explicit list of section
	// tokens such as "day_1" or "travel_tips".
	IntendedSections []string `yaml:"intended_sections,omitempty" json:"intended_sections,omitempty"`
}

// IsEdit reports whether the context describes an edit of an earlier itinerary.
func (c EvalContext) IsEdit() bool {
	return c.OriginalItinerary != ""
}

// SearchNames returns the lower-cased, non-empty names of every search result
// across all categories.
func (c EvalContext) SearchNames() map[string]struct{} {
	names := make(map[string]struct{})
	for _, results := range c.SearchResults {
		for _, r := range results {
			if r.Name != "" {
				names[strings.ToLower(r.Name)] = struct{}{}
			}
		}
	}
	return names
}

// LoadContext reads an evaluation context from a YAML or JSON file.
//
// Example YAML structure:
//
//	search_results:
//	  historical:
//	    - name: Eiffel Tower
//	      lat: 48.8584
//	      lon: 2.2945
//	      source: OpenStreetMap
//	travel_times:
//	  1: [25.0, 15.0]
//	  2: [20.0, 18.0]
//	original_itinerary: |
//	  # Day 1: 2024-02-15 - Classic Paris
//	  ...
//	edit_instruction: change day 1 morning
func LoadContext(path string) (*EvalContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewError(types.CONTEXT_LOAD_FAILED,
				fmt.Sprintf("evaluation context file not found: %s", path))
		}
		return nil, types.WrapError(types.CONTEXT_LOAD_FAILED,
			fmt.Sprintf("failed to read evaluation context file: %s", path), err)
	}

	var ctx EvalContext
	if err := yaml.Unmarshal(data, &ctx); err != nil {
		return nil, types.WrapError(types.CONTEXT_PARSE_FAILED,
			fmt.Sprintf("failed to parse evaluation context: %s", path), err)
	}

	return &ctx, nil
}
