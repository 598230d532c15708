// Package token turns raw VHDL source text into a flat, classified token
// sequence. The scanner is deliberately lossless: whitespace, newlines and
// comments are real tokens, so downstream passes can reconstruct verbatim
// source text and associate comments by position. It never fails on malformed
// input; unrecognized character runs are emitted as opaque punctuation tokens
// with a diagnostic.
package token

import "fmt"

// Kind classifies a token. The set is closed so category switches in the
// extractor and associator are exhaustive.
type Kind int

const (
	Keyword Kind = iota
	Identifier
	Literal
	Punct
	Comment
	Whitespace
	Newline
	EOF
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "keyword"
	case Identifier:
		return "identifier"
	case Literal:
		return "literal"
	case Punct:
		return "punctuation"
	case Comment:
		return "comment"
	case Whitespace:
		return "whitespace"
	case Newline:
		return "newline"
	case EOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Token is one classified lexeme. Line and Column are 1-based. For Comment
// tokens Text excludes the delimiter but preserves interior whitespace
// verbatim; for Newline tokens Text is the line terminator itself.
type Token struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Line, t.Column)
}

// IsBlank reports whether the token carries no code or comment content.
func (t Token) IsBlank() bool {
	return t.Kind == Whitespace || t.Kind == Newline
}
