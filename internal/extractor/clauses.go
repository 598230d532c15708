package extractor

import (
	"strings"

	"github.com/jfcliche/vhdl-doc/internal/doctree"
	"github.com/jfcliche/vhdl-doc/internal/token"
)

// interface object class keywords allowed before the name list
var classKeywords = map[string]bool{
	"signal": true, "variable": true, "constant": true, "file": true, "type": true,
}

// parseClause parses a generic or port clause starting just past the
// generic/port keyword: "( item ; item ; ... ) ;". Items are split on
// top-level semicolons only; nested parenthesised expressions (array bounds,
// default values) never cause a split. Returns false when the clause is
// unbalanced or unterminated, leaving the cursor at the failure point so the
// caller can resume there.
func (p *parser) parseClause(d *Decl, isPort bool) bool {
	clause := "generic"
	if isPort {
		clause = "port"
	}
	openIdx := p.nextCode(p.pos)
	if openIdx < 0 || !isPunctText(p.toks[openIdx], "(") {
		line := d.Unit.EndLine
		if openIdx >= 0 {
			line = p.toks[openIdx].Line
			p.pos = openIdx
		} else {
			p.pos = len(p.toks)
		}
		p.recover(line, "%s clause of %s has no opening parenthesis", clause, d.Unit.Name)
		return false
	}

	depth := 1
	itemStart, lastCode := -1, -1
	for i := openIdx + 1; i < len(p.toks); i++ {
		t := p.toks[i]
		switch t.Kind {
		case token.Whitespace, token.Newline, token.Comment:
			continue
		case token.EOF:
			p.recover(t.Line, "%s clause of %s is unterminated", clause, d.Unit.Name)
			p.finishItem(d, isPort, itemStart, lastCode, -1)
			p.pos = i
			return false
		case token.Keyword:
			// an end or a new declaration inside the parentheses means the
			// clause was never closed
			if isAnchorKeyword(t) || isKeywordText(t, "end") || isKeywordText(t, "begin") {
				p.recover(t.Line, "%s clause of %s is unterminated", clause, d.Unit.Name)
				p.finishItem(d, isPort, itemStart, lastCode, -1)
				p.pos = i
				return false
			}
		case token.Punct:
			switch t.Text {
			case "(":
				depth++
			case ")":
				depth--
				if depth == 0 {
					p.finishItem(d, isPort, itemStart, lastCode, -1)
					if j := p.nextCode(i + 1); j >= 0 && isPunctText(p.toks[j], ";") {
						p.pos = j + 1
					} else {
						p.pos = i + 1
					}
					return true
				}
			case ";":
				if depth == 1 {
					p.finishItem(d, isPort, itemStart, lastCode, i)
					itemStart, lastCode = -1, -1
					continue
				}
			}
		}
		if itemStart < 0 {
			itemStart = i
		}
		lastCode = i
	}
	p.recover(p.toks[openIdx].Line, "%s clause of %s is unterminated", clause, d.Unit.Name)
	p.finishItem(d, isPort, itemStart, lastCode, -1)
	p.pos = len(p.toks)
	return false
}

// finishItem parses one interface item, expands comma-joined names into one
// Parameter per name and records the item anchor for comment association.
// sep is the index of the separating semicolon, or -1 for the last item,
// whose anchor is then its own last code token.
func (p *parser) finishItem(d *Decl, isPort bool, first, last, sep int) {
	if first < 0 {
		return
	}
	params := p.parseItem(first, last, isPort)
	if len(params) == 0 {
		return
	}
	if isPort {
		d.Unit.Ports = append(d.Unit.Ports, params...)
	} else {
		d.Unit.Generics = append(d.Unit.Generics, params...)
	}
	term := sep
	if term < 0 {
		term = last
	}
	d.items = append(d.items, interfaceItem{params: params, first: first, term: term})
}

// parseItem splits one interface item into names, direction, type
// expression and default expression. Type and default are kept as literal
// source text; their grammar is not this package's business.
func (p *parser) parseItem(first, last int, isPort bool) []*doctree.Parameter {
	colon := -1
	depth := 0
	for i := first; i <= last; i++ {
		t := p.toks[i]
		if t.Kind != token.Punct {
			continue
		}
		switch t.Text {
		case "(":
			depth++
		case ")":
			depth--
		case ":":
			if depth == 0 {
				colon = i
			}
		}
		if colon >= 0 {
			break
		}
	}
	if colon < 0 {
		p.recover(p.toks[first].Line, "interface item has no ':' separator")
		return nil
	}

	var names []token.Token
	for i := first; i < colon; i++ {
		t := p.toks[i]
		switch {
		case t.IsBlank() || t.Kind == token.Comment:
		case t.Kind == token.Identifier:
			names = append(names, t)
		case isPunctText(t, ","):
		case t.Kind == token.Keyword && classKeywords[strings.ToLower(t.Text)]:
		default:
			p.recover(t.Line, "unexpected %q in interface item name list", t.Text)
			return nil
		}
	}
	if len(names) == 0 {
		p.recover(p.toks[first].Line, "interface item has no name")
		return nil
	}

	k := p.nextCode(colon + 1)
	dir := doctree.DirNone
	if isPort {
		// a bare port declaration with no direction keyword is an input,
		// VHDL's implicit default
		dir = doctree.DirIn
		if k >= 0 && k <= last && p.toks[k].Kind == token.Keyword && token.IsDirection(p.toks[k].Text) {
			dir = doctree.Direction(strings.ToLower(p.toks[k].Text))
			k = p.nextCode(k + 1)
		}
	}

	assign := -1
	depth = 0
	if k >= 0 {
		for i := k; i <= last; i++ {
			t := p.toks[i]
			if t.Kind != token.Punct {
				continue
			}
			switch t.Text {
			case "(":
				depth++
			case ")":
				depth--
			case ":=":
				if depth == 0 {
					assign = i
				}
			}
			if assign >= 0 {
				break
			}
		}
	}

	var typ, def string
	if k >= 0 && k <= last {
		typeEnd := last
		if assign >= 0 {
			typeEnd = assign - 1
		}
		typ = p.spanText(k, typeEnd)
	}
	if assign >= 0 {
		def = p.spanText(assign+1, last)
	}

	params := make([]*doctree.Parameter, len(names))
	for i, name := range names {
		params[i] = &doctree.Parameter{
			Name:    name.Text,
			Dir:     dir,
			Type:    typ,
			Default: def,
			Line:    name.Line,
		}
	}
	return params
}

// spanText reconstructs the source text of a token range with whitespace
// runs collapsed to single spaces and comments dropped.
func (p *parser) spanText(from, to int) string {
	var b strings.Builder
	for i := from; i <= to && i < len(p.toks); i++ {
		t := p.toks[i]
		switch t.Kind {
		case token.Comment, token.EOF:
		case token.Whitespace, token.Newline:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), " ") {
				b.WriteByte(' ')
			}
		default:
			b.WriteString(t.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

func isPunctText(t token.Token, text string) bool {
	return t.Kind == token.Punct && t.Text == text
}
