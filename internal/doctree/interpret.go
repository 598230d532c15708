package doctree

import "strings"

// Interpret parses the raw text of an attached comment block into structured
// content. Runs of lines whose first non-whitespace character is a pipe
// become Table segments; the table's first row is a header row when the
// second row is a markdown-style separator of dashes/colons. Everything else
// is prose, dedented by the shortest common indentation so indented doc
// comments render without spurious leading space. Empty input yields an
// empty block, never a nil one.
func Interpret(raw string) CommentBlock {
	if raw == "" {
		return CommentBlock{}
	}
	return InterpretLines(strings.Split(raw, "\n"))
}

// InterpretLines is Interpret for callers that already hold the comment as
// individual lines (one per comment token).
func InterpretLines(rawLines []string) CommentBlock {
	lines := cleanLines(rawLines)
	lines = dedent(lines)

	var segs []Segment
	i := 0
	for i < len(lines) {
		if isTableLine(lines[i]) {
			j := i
			for j < len(lines) && isTableLine(lines[j]) {
				j++
			}
			segs = append(segs, parseTable(lines[i:j]))
			i = j
			continue
		}
		j := i
		for j < len(lines) && !isTableLine(lines[j]) {
			j++
		}
		if p, ok := proseSegment(lines[i:j]); ok {
			segs = append(segs, p)
		}
		i = j
	}
	return CommentBlock{Segments: segs}
}

// cleanLines strips comment decoration the way authors actually write VHDL
// headers: a leading ! (Doxygen --! comments), @brief/@details markers, and
// lines that are nothing but a repeated fence character.
func cleanLines(rawLines []string) []string {
	lines := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "!") {
			line = line[1:]
		}
		line = strings.ReplaceAll(line, "@brief", "")
		line = strings.ReplaceAll(line, "@details", "")
		if isFenceLine(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// isFenceLine reports whether the line is purely decorative: three or more
// repetitions of the same fence character and nothing else.
func isFenceLine(line string) bool {
	s := strings.TrimSpace(line)
	if len(s) < 3 || !strings.ContainsRune("-=*#%^~", rune(s[0])) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// dedent removes the shortest common leading whitespace of the non-blank
// lines. Blank lines do not influence the computed indentation.
func dedent(lines []string) []string {
	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || indent < common {
			common = indent
		}
	}
	if common <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= common {
			out[i] = line[common:]
		} else {
			out[i] = strings.TrimLeft(line, " \t")
		}
	}
	return out
}

func isTableLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

func parseTable(lines []string) Table {
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, splitTableRow(line))
	}
	if len(rows) >= 2 && isSeparatorRow(rows[1]) {
		return Table{Rows: append(rows[:1], rows[2:]...), HeaderRow: true}
	}
	return Table{Rows: rows}
}

// splitTableRow splits a pipe-delimited row into trimmed cells, dropping the
// outer delimiters.
func splitTableRow(line string) []string {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "|")
	cells := strings.Split(s, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// isSeparatorRow recognizes the markdown header separator: every cell is
// dashes with optional alignment colons.
func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !strings.Contains(c, "-") {
			return false
		}
		for _, r := range c {
			if r != '-' && r != ':' {
				return false
			}
		}
	}
	return true
}

// proseSegment trims blank edges off a prose run; a run that was only blank
// lines yields no segment.
func proseSegment(lines []string) (Prose, bool) {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return Prose{}, false
	}
	seg := make([]string, end-start)
	copy(seg, lines[start:end])
	return Prose{Lines: seg}, true
}
