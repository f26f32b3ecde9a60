// Package eval inspects generated travel itineraries and their edits.
//
// Three independent checkers each produce a structured verdict:
//
//   - FeasibilityChecker: daily workload, travel-time thresholds and pacing.
//   - GroundingChecker: place names backed by prior search results, cited
//     travel tips, and hedging where data is missing or uncertain.
//   - EditChecker: section-by-section diff of two itinerary versions, flagging
//     changes outside the sections the edit instruction targeted.
//
// The Runner invokes the checkers, isolates their failures, and aggregates
// their verdicts into a Report with an overall pass/fail, a pass rate and a
// flat issue list. Reports are persisted as a single JSON file and can be
// rendered as a plain-text summary with GenerateReport.
//
// # Usage Example
//
//	runner := eval.NewRunner(eval.WithLogger(logger))
//	report := runner.RunAll(ctx, itineraryText, eval.EvalContext{
//	    SearchResults: map[string][]eval.SearchResult{
//	        "historical": {{Name: "Eiffel Tower"}},
//	    },
//	    TravelTimes: map[int][]float64{1: {25, 15}},
//	})
//	runner.SaveResults(ctx, report, filepath.Join(outputDir, eval.DefaultResultsFile))
//	fmt.Println(eval.GenerateReport(report))
//
// Checkers are pure functions of their inputs and the Thresholds they were
// built with. They never call a language model and never mutate the
// EvalContext they are given.
package eval
