package itinerary

import "strings"

// Separator delimits the spoken summary from the structured itinerary body in
// agent responses.
const Separator = "---ITINERARY---"

// ExtractBody returns the structured itinerary from an agent message: the text
// between the first Separator and the next one (or the end), trimmed.
// ok is false when the message carries no separator or the body is empty.
func ExtractBody(message string) (body string, ok bool) {
	parts := strings.Split(message, Separator)
	if len(parts) < 2 {
		return "", false
	}
	body = strings.TrimSpace(parts[1])
	return body, body != ""
}
