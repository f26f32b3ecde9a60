// Package tracking evaluates itineraries as they appear in a travel-planning
// conversation.
//
// A Tracker sits beside the conversation loop. Tool results are fed to
// TrackToolCall, user turns to ObserveUserMessage and assistant turns to
// ObserveAssistantMessage:
//
//	tracker := tracking.NewTracker(eval.NewRunner(), "out", logger)
//	tracker.TrackToolCall(tracking.ToolCall{Name: "search_places", Output: out, Arguments: args})
//	report, _ := tracker.ObserveAssistantMessage(ctx, reply)
//
// Recorded conversations can be fed through Replay as JSONL.
package tracking
