// Package extractor turns a VHDL token sequence into design-unit records:
// entities and components with their generic/port interfaces, plus package
// declarations. It is not a grammar-complete parser; it anchors on the
// keywords that open and close a declaration and balances parentheses and
// separators in between, which is enough to enumerate interfaces for
// documentation while tolerating files the full grammar would reject.
package extractor

import (
	"strings"

	"github.com/jfcliche/vhdl-doc/internal/diag"
	"github.com/jfcliche/vhdl-doc/internal/doctree"
	"github.com/jfcliche/vhdl-doc/internal/token"
)

// maxRecoveries bounds how many structural recoveries a single file may
// trigger before extraction gives up, so adversarial input cannot degrade
// into a pathological scan.
const maxRecoveries = 100

// Decl pairs an extracted design unit with the token positions the comment
// associator needs. Unit fields other than comments are final after Extract.
type Decl struct {
	Unit *doctree.DesignUnit

	first int // index of the anchor token
	term  int // index of the terminating token, -1 when truncated
	items []interfaceItem
}

// interfaceItem is one generic/port list entry. A comma-joined declaration
// expands to several Parameters that share one source item and therefore one
// set of attached comments.
type interfaceItem struct {
	params []*doctree.Parameter
	first  int // index of the item's first code token
	term   int // index of the separator ';', or of the item's last code token
}

// Units unwraps the design units of a Decl list, preserving order.
func Units(decls []*Decl) []*doctree.DesignUnit {
	units := make([]*doctree.DesignUnit, len(decls))
	for i, d := range decls {
		units[i] = d.Unit
	}
	return units
}

// Extract scans the token sequence for design-unit declarations. Comments
// are not attached yet; Associate does that on the same token sequence.
// Malformed clauses degrade gracefully: the unit parsed so far is returned
// flagged Incomplete with a StructuralRecovery diagnostic, and scanning
// resumes at the next anchor after the failure point.
func Extract(toks []token.Token) ([]*Decl, []diag.Diagnostic) {
	p := &parser{toks: toks}
	var decls []*Decl
	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		if t.Kind == token.EOF {
			break
		}
		if p.recoveries > maxRecoveries {
			p.diags = append(p.diags, diag.Recoveryf(t.Line, "too many malformed clauses, giving up on the rest of the file"))
			break
		}
		if t.Kind == token.Keyword {
			switch strings.ToLower(t.Text) {
			case "entity":
				if d := p.parseUnit(doctree.KindEntity); d != nil {
					decls = append(decls, d)
				}
				continue
			case "component":
				if p.lineInitial(p.pos) {
					if d := p.parseUnit(doctree.KindComponent); d != nil {
						decls = append(decls, d)
					}
					continue
				}
			case "package":
				if d := p.parsePackage(); d != nil {
					decls = append(decls, d)
				}
				continue
			}
		}
		p.pos++
	}
	return decls, p.diags
}

type parser struct {
	toks       []token.Token
	pos        int
	diags      []diag.Diagnostic
	recoveries int
}

// nextCode returns the index of the next token that is not whitespace, a
// newline or a comment, or -1 at end of input. It does not move the cursor.
func (p *parser) nextCode(from int) int {
	for i := from; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.Whitespace, token.Newline, token.Comment:
			continue
		case token.EOF:
			return -1
		default:
			return i
		}
	}
	return -1
}

// lineInitial reports whether the token at idx is the first code token on
// its source line. Used to reject instantiation forms such as
// "u0 : component foo" as unit anchors.
func (p *parser) lineInitial(idx int) bool {
	return lineInitial(p.toks, idx)
}

func (p *parser) recover(line int, format string, args ...interface{}) {
	p.recoveries++
	p.diags = append(p.diags, diag.Recoveryf(line, format, args...))
}

// isAnchorKeyword reports whether the token opens another design unit, which
// inside a clause means the current unit never terminated.
func isAnchorKeyword(t token.Token) bool {
	if t.Kind != token.Keyword {
		return false
	}
	switch strings.ToLower(t.Text) {
	case "entity", "architecture", "package", "component", "configuration":
		return true
	}
	return false
}

// parseUnit parses an entity or component declaration starting at the
// anchor keyword. Returns nil on an anchor mismatch (for example the
// "entity" of a direct instantiation), leaving the cursor past the keyword.
func (p *parser) parseUnit(kind doctree.UnitKind) *Decl {
	anchor := p.pos
	nameIdx := p.nextCode(anchor + 1)
	if nameIdx < 0 || p.toks[nameIdx].Kind != token.Identifier {
		p.pos = anchor + 1
		return nil
	}
	afterName := p.nextCode(nameIdx + 1)
	if kind == doctree.KindEntity {
		// the entity anchor is the keyword pair "entity <name> is"
		if afterName < 0 || !isKeywordText(p.toks[afterName], "is") {
			p.pos = anchor + 1
			return nil
		}
		p.pos = afterName + 1
	} else {
		// component declarations may omit "is"
		if afterName >= 0 && isKeywordText(p.toks[afterName], "is") {
			p.pos = afterName + 1
		} else {
			p.pos = nameIdx + 1
		}
	}

	d := &Decl{
		Unit: &doctree.DesignUnit{
			Name:      p.toks[nameIdx].Text,
			Kind:      kind,
			StartLine: p.toks[anchor].Line,
			EndLine:   p.toks[anchor].Line,
		},
		first: anchor,
		term:  -1,
	}

	for {
		i := p.nextCode(p.pos)
		if i < 0 {
			p.recover(d.Unit.EndLine, "%s %s has no end clause", kind, d.Unit.Name)
			d.Unit.Incomplete = true
			p.pos = len(p.toks)
			return d
		}
		t := p.toks[i]
		d.Unit.EndLine = t.Line
		if t.Kind == token.Keyword {
			switch strings.ToLower(t.Text) {
			case "generic":
				p.pos = i + 1
				if !p.parseClause(d, false) {
					d.Unit.Incomplete = true
				}
				continue
			case "port":
				p.pos = i + 1
				if !p.parseClause(d, true) {
					d.Unit.Incomplete = true
				}
				continue
			case "end":
				d.term = p.consumeEnd(i)
				if d.term >= 0 {
					d.Unit.EndLine = p.toks[d.term].Line
				}
				return d
			}
			if isAnchorKeyword(t) {
				p.recover(t.Line, "%s %s is not terminated before the next declaration", strings.ToLower(string(kind)), d.Unit.Name)
				d.Unit.Incomplete = true
				p.pos = i
				return d
			}
		}
		p.pos = i + 1
	}
}

// parsePackage records a package declaration header. Package contents are
// not consumed: component declarations inside a package are found by the
// normal anchor scan, and "package body" is skipped entirely.
func (p *parser) parsePackage() *Decl {
	anchor := p.pos
	nameIdx := p.nextCode(anchor + 1)
	if nameIdx < 0 {
		p.pos = anchor + 1
		return nil
	}
	if isKeywordText(p.toks[nameIdx], "body") {
		p.pos = nameIdx + 1
		return nil
	}
	if p.toks[nameIdx].Kind != token.Identifier {
		p.pos = anchor + 1
		return nil
	}
	isIdx := p.nextCode(nameIdx + 1)
	if isIdx < 0 || !isKeywordText(p.toks[isIdx], "is") {
		p.pos = anchor + 1
		return nil
	}
	p.pos = isIdx + 1
	return &Decl{
		Unit: &doctree.DesignUnit{
			Name:      p.toks[nameIdx].Text,
			Kind:      doctree.KindPackage,
			StartLine: p.toks[anchor].Line,
			EndLine:   p.toks[anchor].Line,
		},
		first: anchor,
		term:  isIdx,
	}
}

// consumeEnd eats "end [entity|component|package] [name] ;" starting at the
// end keyword and returns the index of the closing semicolon, or -1 when the
// file stops first. The cursor ends past the semicolon.
func (p *parser) consumeEnd(endIdx int) int {
	i := endIdx + 1
	for {
		i = p.nextCode(i)
		if i < 0 {
			p.pos = len(p.toks)
			return -1
		}
		t := p.toks[i]
		if t.Kind == token.Punct && t.Text == ";" {
			p.pos = i + 1
			return i
		}
		if t.Kind != token.Keyword && t.Kind != token.Identifier {
			// tolerate junk, stop consuming at anything unexpected
			p.pos = i
			return i
		}
		i++
	}
}

// isKeywordText reports whether t is the given keyword, case folded.
func isKeywordText(t token.Token, word string) bool {
	return t.Kind == token.Keyword && strings.EqualFold(t.Text, word)
}
