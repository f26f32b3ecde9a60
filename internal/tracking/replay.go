package tracking

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/eval"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/types"
)

// Transcript roles.
const (
	RoleUser      = "user"
	RoleTool      = "tool"
	RoleAssistant = "assistant"
)

const maxTranscriptLine = 4 * 1024 * 1024

// Message is one line of a JSONL conversation transcript.
//
//	{"role": "user", "content": "Plan 2 days in Paris"}
//	{"role": "tool", "name": "search_places", "arguments": {"category": "museums"}, "content": "[...]"}
//	{"role": "assistant", "content": "Here you go.\n---ITINERARY---\n# Day 1 ..."}
type Message struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Name      string         `json:"name,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Replay feeds a JSONL transcript through tracker in order and returns the
// reports produced by assistant messages. Blank lines are skipped.
func Replay(ctx context.Context, tracker *Tracker, r io.Reader) ([]*eval.Report, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTranscriptLine)

	var reports []*eval.Report
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var msg Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return reports, types.WrapError(types.TRANSCRIPT_PARSE_FAILED,
				fmt.Sprintf("line %d: invalid message", line), err)
		}

		switch msg.Role {
		case RoleUser:
			tracker.ObserveUserMessage(msg.Content)
		case RoleTool:
			tracker.TrackToolCall(ToolCall{Name: msg.Name, Output: msg.Content, Arguments: msg.Arguments})
		case RoleAssistant:
			report, err := tracker.ObserveAssistantMessage(ctx, msg.Content)
			if err != nil {
				return reports, err
			}
			if report != nil {
				reports = append(reports, report)
			}
		default:
			return reports, types.NewError(types.TRANSCRIPT_PARSE_FAILED,
				fmt.Sprintf("line %d: unknown role %q", line, msg.Role))
		}
	}

	if err := scanner.Err(); err != nil {
		return reports, types.WrapError(types.TRANSCRIPT_READ_FAILED, "failed to read transcript", err)
	}
	return reports, nil
}
