// Package itinerary turns the semi-structured markdown itineraries produced by
// the travel agent into views the evaluators can work with.
//
// A single pass of Tokenize classifies every line of the text once (day header,
// activity line, tips header, other). Each evaluator then builds its own
// projection from the same token stream:
//
//   - ParseDays builds ordered DayPlans with time-slotted activities.
//   - Sections segments the text into day_<n> / travel_tips blocks for diffing.
//   - ActivityLines and ActivityDetails list activity bullets verbatim or by description.
//   - TipsBlock returns the lines under the Travel Tips heading.
//
// The projections keep their own tolerance for malformed input. A day header
// without a "- theme" suffix is a section for diffing but does not start a DayPlan,
// and indented lines count for ParseDays only.
//
// The expected grammar:
//
//	# Day 1: 2024-02-15 - Classic Paris
//	* Morning (9 AM - 12 PM): Visit the Eiffel Tower
//	* Afternoon: Explore the Louvre Museum
//
//	**Travel Tips:**
//	* The Metro is efficient. [Source: Wikivoyage - Paris - Get Around]
package itinerary
