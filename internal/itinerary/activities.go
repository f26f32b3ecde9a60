package itinerary

import "strings"

// ActivityLines returns every unindented activity bullet, trimmed, in source order.
func ActivityLines(text string) []string {
	return Tokenize(text).ActivityLines()
}

// ActivityLines is the verbatim activity projection of the document.
func (d Document) ActivityLines() []string {
	var lines []string
	for _, tok := range d.Tokens {
		if tok.Kind == KindActivity && !tok.Indented {
			lines = append(lines, tok.Trimmed)
		}
	}
	return lines
}

// ActivityDetails returns the text after the first colon of every unindented
// activity bullet. It is the input for place-name extraction.
func ActivityDetails(text string) []string {
	return Tokenize(text).ActivityDetails()
}

// ActivityDetails is the description projection of the document.
func (d Document) ActivityDetails() []string {
	var details []string
	for _, tok := range d.Tokens {
		if tok.Kind == KindActivity && tok.Detail != "" {
			details = append(details, tok.Detail)
		}
	}
	return details
}

// TipsBlock returns the lines following the first "**Travel Tips:**" heading up
// to the next line starting with "#" or the end of text. Leading and trailing
// blank lines are dropped. found is false when there is no heading.
func TipsBlock(text string) (lines []string, found bool) {
	return Tokenize(text).TipsBlock()
}

// TipsBlock is the tips projection of the document.
func (d Document) TipsBlock() ([]string, bool) {
	start := -1
	for i, tok := range d.Tokens {
		if tok.Kind == KindTipsHeader && tok.Heading {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	var block []string
	for _, tok := range d.Tokens[start:] {
		if strings.HasPrefix(tok.Trimmed, "#") {
			break
		}
		block = append(block, tok.Raw)
	}

	for len(block) > 0 && strings.TrimSpace(block[0]) == "" {
		block = block[1:]
	}
	for len(block) > 0 && strings.TrimSpace(block[len(block)-1]) == "" {
		block = block[:len(block)-1]
	}
	return block, true
}

// TipLines returns the bullet lines ("*" or "-") of a tips block.
func TipLines(block []string) []string {
	var tips []string
	for _, line := range block {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "-") {
			tips = append(tips, line)
		}
	}
	return tips
}
