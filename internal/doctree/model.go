// Package doctree defines the documentation model produced by the extraction
// pipeline: design units with their generic and port interfaces, and the
// structured comment content attached to them. The model is built once per
// source-file parse and is read-only afterwards; re-parsing a file replaces
// the whole tree.
package doctree

import "strings"

// UnitKind identifies what kind of design unit a record describes.
type UnitKind string

const (
	KindEntity    UnitKind = "entity"
	KindComponent UnitKind = "component"
	KindPackage   UnitKind = "package"
)

// Direction is a port mode. It is empty for generics: a parameter carries a
// direction exactly when it is a port.
type Direction string

const (
	DirNone    Direction = ""
	DirIn      Direction = "in"
	DirOut     Direction = "out"
	DirInout   Direction = "inout"
	DirBuffer  Direction = "buffer"
	DirLinkage Direction = "linkage"
)

// Parameter is one generic or port of a design unit. Type and Default hold
// the literal source text; the expression grammar is deliberately not parsed
// since documentation only needs the text.
type Parameter struct {
	Name     string       `json:"name"`
	Dir      Direction    `json:"direction,omitempty"`
	Type     string       `json:"type"`
	Default  string       `json:"default,omitempty"`
	Line     int          `json:"line"`
	Header   CommentBlock `json:"header_comment"`
	Trailing CommentBlock `json:"trailing_comment"`
}

// DesignUnit is one named VHDL declaration with a documented interface.
// Generics and Ports preserve declaration order; that order is meaningful
// for rendering. Incomplete marks a unit that was truncated by structural
// recovery.
type DesignUnit struct {
	Name       string       `json:"name"`
	Kind       UnitKind     `json:"kind"`
	Generics   []*Parameter `json:"generics"`
	Ports      []*Parameter `json:"ports"`
	StartLine  int          `json:"start_line"`
	EndLine    int          `json:"end_line"`
	Incomplete bool         `json:"incomplete,omitempty"`
	Header     CommentBlock `json:"header_comment"`
	Trailing   CommentBlock `json:"trailing_comment"`
}

// Brief returns the first paragraph of the unit's header comment, the short
// description used in summaries and tables.
func (u *DesignUnit) Brief() []string {
	for _, seg := range u.Header.Segments {
		p, ok := seg.(Prose)
		if !ok {
			continue
		}
		var brief []string
		for _, line := range p.Lines {
			if strings.TrimSpace(line) == "" {
				break
			}
			brief = append(brief, strings.TrimSpace(line))
		}
		return brief
	}
	return nil
}

// Details returns the header comment lines after the brief paragraph, with
// table segments skipped. Used for the long description under the interface
// table.
func (u *DesignUnit) Details() []string {
	var details []string
	pastBrief := false
	for _, seg := range u.Header.Segments {
		p, ok := seg.(Prose)
		if !ok {
			continue
		}
		lines := p.Lines
		if !pastBrief {
			// drop the brief paragraph and the blank line after it
			i := 0
			for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
				i++
			}
			for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
				i++
			}
			lines = lines[i:]
			pastBrief = true
		}
		details = append(details, lines...)
	}
	return details
}

// FileDocs is the documentation model for one source file: the design units
// in source order plus a case-insensitive name index. It exposes no mutation
// API; a new parse builds a new FileDocs.
type FileDocs struct {
	file  string
	units []*DesignUnit
	index map[string]*DesignUnit
}

// NewFileDocs builds the model for file. When a name is declared twice in
// the same file the first declaration wins the index entry; both stay in the
// ordered unit list.
func NewFileDocs(file string, units []*DesignUnit) *FileDocs {
	d := &FileDocs{
		file:  file,
		units: units,
		index: make(map[string]*DesignUnit, len(units)),
	}
	for _, u := range units {
		key := strings.ToLower(u.Name)
		if _, exists := d.index[key]; !exists {
			d.index[key] = u
		}
	}
	return d
}

// File returns the source file path the model was built from.
func (d *FileDocs) File() string { return d.file }

// Units returns the design units in source order. Callers must not modify
// the returned slice.
func (d *FileDocs) Units() []*DesignUnit { return d.units }

// Lookup finds a unit by name. VHDL identifiers are case-insensitive, so
// the lookup folds case.
func (d *FileDocs) Lookup(name string) (*DesignUnit, bool) {
	u, ok := d.index[strings.ToLower(name)]
	return u, ok
}
