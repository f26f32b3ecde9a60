package eval

import "strings"

const parisItinerary = `# Day 1: 2024-02-15 - Classic Paris
* Morning (9 AM - 12 PM): Visit the Louvre Museum
* Afternoon (2 PM - 5 PM): Stroll in the Eiffel Tower area
* Evening (6 PM - 10 PM): Dinner at the Le Jules Verne restaurant

# Day 2: 2024-02-16 - Art and Culture
* Morning: Tour the Orsay museum
* Afternoon: Walk in the Montmartre district
* Evening: Seine river cruise

**Travel Tips:**
* Buy a museum pass [Source: Wikivoyage - Paris - Buy]
* Weather may be rainy in February [Source: Wikivoyage - Paris - Climate]
`

// parisEdited swaps the day 2 morning stop.
var parisEdited = strings.Replace(parisItinerary, "Tour the Orsay museum", "Tour the Rodin museum", 1)

// parisEditedWithTips also rewrites a travel tip.
var parisEditedWithTips = strings.Replace(parisEdited, "Buy a museum pass", "Buy a Paris Museum Pass online", 1)

func parisSearchResults() map[string][]SearchResult {
	return map[string][]SearchResult{
		"historical": {
			{Name: "Louvre Museum"},
			{Name: "Eiffel Tower"},
			{Name: "Musée d'Orsay"},
			{Name: "Montmartre"},
		},
	}
}

func parisContext() EvalContext {
	return EvalContext{
		SearchResults: parisSearchResults(),
		TravelTimes:   TravelTimes{1: {25, 15}},
	}
}

// busyDay has eleven morning activities and no location data.
func busyDay() string {
	lines := []string{"# Day 1: 2024-03-01 - Marathon"}
	for i := 0; i < 11; i++ {
		lines = append(lines, "* Morning: Stop "+string(rune('a'+i)))
	}
	return strings.Join(lines, "\n")
}
