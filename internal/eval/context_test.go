package eval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadContext_YAML(t *testing.T) {
	path := writeFile(t, "context.yaml", `
search_results:
  historical:
    - name: Eiffel Tower
      lat: 48.8584
      source: OpenStreetMap
    - name: Louvre Museum
      rating: 4.7
travel_times:
  1: [25.0, 15.0]
  2: [20]
edit_instruction: change day 1 morning
intended_sections: [day_1]
`)

	ctx, err := LoadContext(path)
	require.NoError(t, err)

	require.Len(t, ctx.SearchResults["historical"], 2)
	eiffel := ctx.SearchResults["historical"][0]
	assert.Equal(t, "Eiffel Tower", eiffel.Name)
	assert.Equal(t, "OpenStreetMap", eiffel.Source)
	assert.Equal(t, 48.8584, eiffel.Extra["lat"])
	require.NotNil(t, ctx.SearchResults["historical"][1].Rating)
	assert.Equal(t, 4.7, *ctx.SearchResults["historical"][1].Rating)

	assert.Equal(t, TravelTimes{1: {25, 15}, 2: {20}}, ctx.TravelTimes)
	assert.Equal(t, "change day 1 morning", ctx.EditInstruction)
	assert.Equal(t, []string{"day_1"}, ctx.IntendedSections)
	assert.False(t, ctx.IsEdit())
	assert.Equal(t, map[string]struct{}{"eiffel tower": {}, "louvre museum": {}}, ctx.SearchNames())
}

func TestLoadContext_JSON(t *testing.T) {
	path := writeFile(t, "context.json", `{
  "travel_times": {"3": [61.5]},
  "original_itinerary": "# Day 1: Mon - A\n* Morning: Walk"
}`)

	ctx, err := LoadContext(path)
	require.NoError(t, err)
	assert.Equal(t, TravelTimes{3: {61.5}}, ctx.TravelTimes)
	assert.True(t, ctx.IsEdit())
}

func TestLoadContext_Errors(t *testing.T) {
	_, err := LoadContext(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, types.CONTEXT_LOAD_FAILED, types.CodeOf(err))

	_, err = LoadContext(writeFile(t, "bad.yaml", "travel_times: [1, 2"))
	assert.Equal(t, types.CONTEXT_PARSE_FAILED, types.CodeOf(err))

	_, err = LoadContext(writeFile(t, "badkey.yaml", "travel_times:\n  first: [10]\n"))
	assert.Equal(t, types.CONTEXT_PARSE_FAILED, types.CodeOf(err))
}
