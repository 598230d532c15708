package extractor

import (
	"github.com/jfcliche/vhdl-doc/internal/diag"
	"github.com/jfcliche/vhdl-doc/internal/doctree"
	"github.com/jfcliche/vhdl-doc/internal/token"
)

// Comment association walks the same token sequence the extractor consumed
// and attaches comment blocks to the declarations found in it.
//
// Header rule: walking backward from a declaration's first line, collect the
// contiguous run of comment-only lines. A blank line breaks the run, so a
// comment block separated from its declaration by a blank line is not a
// header.
//
// Trailing rule: from a declaration's terminating token, look forward on the
// same source line only; whitespace may intervene, anything else ends the
// search.
//
// Tie-break: a comment block that directly follows a declaration's
// terminator line with no blank line in between belongs to that declaration
// as trailing content, never to the next declaration as a header. Proximity
// favors the declaration that is already open. The resolution is recorded as
// an AssociationAmbiguity diagnostic so source-quality tooling can surface
// it.

type lineClass int

const (
	lineBlank lineClass = iota
	lineComment
	lineCode
)

// node is one comment-attachment target: a design unit or one interface
// item (whose expanded parameters share the attachment).
type node struct {
	first, term   int
	headerLines   []string
	trailingLines []string
	apply         func(header, trailing doctree.CommentBlock)
}

// Associate attaches header and trailing comment blocks to every design
// unit and parameter in decls. It mutates the units in place and returns the
// ambiguity diagnostics produced by tie-break resolutions. The result is
// deterministic for a given token sequence.
func Associate(decls []*Decl, toks []token.Token) []diag.Diagnostic {
	if len(decls) == 0 || len(toks) == 0 {
		return nil
	}
	classes, comments := classifyLines(toks)

	var nodes []*node
	owner := make(map[int]*node) // terminator line -> rightmost node ending there
	for _, d := range decls {
		for _, it := range d.items {
			it := it
			n := &node{
				first: it.first,
				term:  it.term,
				apply: func(h, t doctree.CommentBlock) {
					for _, prm := range it.params {
						prm.Header = h
						prm.Trailing = t
					}
				},
			}
			nodes = append(nodes, n)
			if it.term >= 0 {
				owner[toks[it.term].Line] = n
			}
		}
		d := d
		n := &node{
			first: d.first,
			term:  d.term,
			apply: func(h, t doctree.CommentBlock) {
				d.Unit.Header = h
				d.Unit.Trailing = t
			},
		}
		nodes = append(nodes, n)
		if d.term >= 0 {
			owner[toks[d.term].Line] = n
		}
	}

	for _, n := range nodes {
		n.trailingLines = trailingSameLine(toks, n.term)
	}

	var diags []diag.Diagnostic
	for _, n := range nodes {
		if !lineInitial(toks, n.first) {
			// mid-line declarations cannot own the comment lines above them
			continue
		}
		block, startLine := headerBlock(classes, comments, toks[n.first].Line)
		if len(block) == 0 {
			continue
		}
		if prevLine := startLine - 1; prevLine >= 1 && classes[prevLine] == lineCode {
			if own, ok := owner[prevLine]; ok && own != n {
				own.trailingLines = append(own.trailingLines, block...)
				diags = append(diags, diag.Ambiguityf(startLine,
					"comment block touches the preceding declaration; attached as its trailing comment"))
				continue
			}
		}
		n.headerLines = block
	}

	for _, n := range nodes {
		n.apply(doctree.InterpretLines(n.headerLines), doctree.InterpretLines(n.trailingLines))
	}
	return diags
}

// classifyLines assigns each source line a class (blank, comment-only or
// code) and collects the comment text found on comment-only lines.
func classifyLines(toks []token.Token) ([]lineClass, map[int][]string) {
	maxLine := toks[len(toks)-1].Line
	classes := make([]lineClass, maxLine+2)
	comments := make(map[int][]string)
	for _, t := range toks {
		switch t.Kind {
		case token.Whitespace, token.Newline, token.EOF:
		case token.Comment:
			if classes[t.Line] == lineBlank {
				classes[t.Line] = lineComment
			}
			comments[t.Line] = append(comments[t.Line], t.Text)
		default:
			classes[t.Line] = lineCode
		}
	}
	return classes, comments
}

// headerBlock collects the contiguous comment-only lines directly above
// startLine, in source order, returning the block and its first line.
func headerBlock(classes []lineClass, comments map[int][]string, startLine int) ([]string, int) {
	a := startLine
	for a-1 >= 1 && classes[a-1] == lineComment {
		a--
	}
	if a == startLine {
		return nil, 0
	}
	var block []string
	for ln := a; ln < startLine; ln++ {
		block = append(block, comments[ln]...)
	}
	return block, a
}

// trailingSameLine returns the comment found after token term on the same
// source line, or nil. Only whitespace may sit between the terminator and
// the comment; any code token ends the search, so a comment after a later
// declaration's tokens is never claimed by an earlier one.
func trailingSameLine(toks []token.Token, term int) []string {
	if term < 0 {
		return nil
	}
	line := toks[term].Line
	var out []string
	for i := term + 1; i < len(toks); i++ {
		t := toks[i]
		if t.Line != line || t.Kind == token.Newline || t.Kind == token.EOF {
			break
		}
		switch t.Kind {
		case token.Whitespace:
		case token.Comment:
			out = append(out, t.Text)
		default:
			return out
		}
	}
	return out
}

// lineInitial reports whether the token at idx is the first code token on
// its source line.
func lineInitial(toks []token.Token, idx int) bool {
	line := toks[idx].Line
	for i := idx - 1; i >= 0; i-- {
		t := toks[i]
		if t.Line != line {
			return true
		}
		if !t.IsBlank() && t.Kind != token.Comment {
			return false
		}
	}
	return true
}
