package doctree

import "strings"

// Query delimits an excerpt of a unit's comment text by substring markers.
// StartBefore includes the matching line; StartAfter starts on the line
// following the match. EndBefore stops without the matching line; EndAfter
// stops after it. Empty fields are ignored; with no start marker capture
// begins at the first line.
type Query struct {
	StartBefore string
	StartAfter  string
	EndBefore   string
	EndAfter    string
}

// Excerpt returns the comment lines of unit selected by the query, scanning
// the unit's comment blocks in source order (header, then parameter
// comments, then the trailing block) and stopping at the end of the first
// block that matched anything. Hosts use this to splice a named section of
// an entity's documentation (for example a "Memory Map") into a page.
func Excerpt(unit *DesignUnit, q Query) []string {
	for _, block := range unitBlocks(unit) {
		if lines := excerptBlock(block.ProseLines(), q); len(lines) > 0 {
			return lines
		}
	}
	return nil
}

func unitBlocks(unit *DesignUnit) []CommentBlock {
	blocks := []CommentBlock{unit.Header}
	for _, p := range unit.Generics {
		blocks = append(blocks, p.Header, p.Trailing)
	}
	for _, p := range unit.Ports {
		blocks = append(blocks, p.Header, p.Trailing)
	}
	return append(blocks, unit.Trailing)
}

func excerptBlock(lines []string, q Query) []string {
	capture := q.StartBefore == "" && q.StartAfter == ""
	var out []string
	for _, line := range lines {
		if q.StartBefore != "" && strings.Contains(line, q.StartBefore) {
			capture = true
		}
		if q.EndBefore != "" && strings.Contains(line, q.EndBefore) {
			break
		}
		if capture {
			out = append(out, line)
		}
		if q.StartAfter != "" && strings.Contains(line, q.StartAfter) {
			capture = true
		}
		if q.EndAfter != "" && strings.Contains(line, q.EndAfter) {
			break
		}
	}
	return out
}
