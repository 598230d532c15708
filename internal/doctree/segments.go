package doctree

import "encoding/json"

// Segment is one piece of interpreted comment content: either free-form
// prose or an embedded table. The set is closed.
type Segment interface {
	isSegment()
}

// Prose is a run of plain text lines, dedented but otherwise verbatim.
type Prose struct {
	Lines []string `json:"lines"`
}

func (Prose) isSegment() {}

// Table is an embedded pipe-delimited table. Rows are in source order; when
// HeaderRow is set the first row is a column header (the separator row that
// marked it is not included in Rows).
type Table struct {
	Rows      [][]string `json:"rows"`
	HeaderRow bool       `json:"header_row"`
}

func (Table) isSegment() {}

// CommentBlock is the interpreted content of one attached comment. A block
// with no segments means "no comment"; callers branch on length, never on
// nil.
type CommentBlock struct {
	Segments []Segment
}

// IsEmpty reports whether the block carries any content.
func (b CommentBlock) IsEmpty() bool { return len(b.Segments) == 0 }

// ProseLines returns the block's prose content flattened to a line list,
// skipping table segments. Used by excerpt queries and brief/detail splits.
func (b CommentBlock) ProseLines() []string {
	var lines []string
	for _, seg := range b.Segments {
		if p, ok := seg.(Prose); ok {
			lines = append(lines, p.Lines...)
		}
	}
	return lines
}

// MarshalJSON renders the block as a list of tagged segments, so the output
// contract distinguishes prose from tables without Go type information. An
// empty block marshals as [], not null.
func (b CommentBlock) MarshalJSON() ([]byte, error) {
	type taggedSegment struct {
		Kind      string     `json:"kind"`
		Lines     []string   `json:"lines,omitempty"`
		Rows      [][]string `json:"rows,omitempty"`
		HeaderRow bool       `json:"header_row,omitempty"`
	}
	out := make([]taggedSegment, 0, len(b.Segments))
	for _, seg := range b.Segments {
		switch s := seg.(type) {
		case Prose:
			out = append(out, taggedSegment{Kind: "prose", Lines: s.Lines})
		case Table:
			out = append(out, taggedSegment{Kind: "table", Rows: s.Rows, HeaderRow: s.HeaderRow})
		}
	}
	return json.Marshal(out)
}
