package token

import (
	"strings"

	"github.com/jfcliche/vhdl-doc/internal/diag"
)

// compound operators, longest first so the scanner is greedy.
var compoundOps = []string{"**", ":=", "=>", "<=", ">=", "/=", "<>", "<<", ">>", ".."}

// singlePunct is the set of single characters emitted directly as
// punctuation tokens.
const singlePunct = "()[];:,.&'|+-*/<>=?@#"

// Tokenize scans VHDL source text into a classified token sequence. It is a
// pure function of its input and never fails: unrecognized character runs
// are emitted as a single punctuation token of unknown text, with a
// TokenizationWarning diagnostic, so documentation extraction tolerates
// files that are mid-edit or syntactically incomplete.
func Tokenize(source string, std Standard) ([]Token, []diag.Diagnostic) {
	s := &scanner{
		src:      source,
		line:     1,
		col:      1,
		keywords: keywordSet(std),
		std:      std,
	}
	s.run()
	return s.toks, s.diags
}

type scanner struct {
	src      string
	pos      int
	line     int
	col      int
	keywords map[string]bool
	std      Standard

	toks  []Token
	diags []diag.Diagnostic
}

func (s *scanner) run() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\n' || c == '\r':
			s.scanNewline()
		case c == ' ' || c == '\t' || c == '\v' || c == '\f':
			s.scanWhitespace()
		case c == '-' && s.peekAt(1) == '-':
			s.scanLineComment()
		case c == '/' && s.peekAt(1) == '*' && s.std != VHDL93:
			s.scanDelimitedComment()
		case isLetter(c):
			s.scanWord()
		case c >= '0' && c <= '9':
			s.scanNumber()
		case c == '"':
			s.scanString()
		case c == '\\':
			s.scanExtendedIdentifier()
		case c == '\'' && s.peekAt(2) == '\'' && s.peekAt(1) != 0:
			// character literal, exactly 'x'
			s.emit(Literal, s.src[s.pos:s.pos+3])
		default:
			s.scanPunct()
		}
	}
	s.toks = append(s.toks, Token{Kind: EOF, Line: s.line, Column: s.col})
}

// peekAt returns the byte at offset n from the current position, or 0 at
// end of input.
func (s *scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

// emit appends a token starting at the current position and advances past
// its text. Must not be used for text containing newlines.
func (s *scanner) emit(kind Kind, text string) {
	s.toks = append(s.toks, Token{Kind: kind, Text: text, Line: s.line, Column: s.col})
	s.pos += len(text)
	s.col += len(text)
}

func (s *scanner) scanNewline() {
	start := s.pos
	if s.src[s.pos] == '\r' && s.peekAt(1) == '\n' {
		s.pos += 2
	} else {
		s.pos++
	}
	s.toks = append(s.toks, Token{Kind: Newline, Text: s.src[start:s.pos], Line: s.line, Column: s.col})
	s.line++
	s.col = 1
}

func (s *scanner) scanWhitespace() {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c != ' ' && c != '\t' && c != '\v' && c != '\f' {
			break
		}
		s.pos++
	}
	text := s.src[start:s.pos]
	s.toks = append(s.toks, Token{Kind: Whitespace, Text: text, Line: s.line, Column: s.col})
	s.col += len(text)
}

// scanLineComment consumes a -- comment up to (not including) the line
// terminator. The token text excludes the delimiter but keeps interior
// whitespace verbatim, which table alignment in comment bodies relies on.
func (s *scanner) scanLineComment() {
	start := s.pos
	s.pos += 2 // skip --
	for s.pos < len(s.src) && s.src[s.pos] != '\n' && s.src[s.pos] != '\r' {
		s.pos++
	}
	text := s.src[start+2 : s.pos]
	s.toks = append(s.toks, Token{Kind: Comment, Text: text, Line: s.line, Column: s.col})
	s.col += s.pos - start
}

// scanDelimitedComment consumes a /* ... */ comment (VHDL-2008). The body is
// emitted as one Comment token per interior line, with Newline tokens in
// between, so comment association stays line-based.
func (s *scanner) scanDelimitedComment() {
	startLine := s.line
	s.pos += 2 // skip /*
	s.col += 2
	lineStart := s.pos
	terminated := false
	for s.pos < len(s.src) {
		if s.src[s.pos] == '*' && s.peekAt(1) == '/' {
			terminated = true
			break
		}
		if s.src[s.pos] == '\n' || s.src[s.pos] == '\r' {
			text := s.src[lineStart:s.pos]
			s.toks = append(s.toks, Token{Kind: Comment, Text: text, Line: s.line, Column: s.col})
			s.col += len(text)
			s.scanNewline()
			lineStart = s.pos
			continue
		}
		s.pos++
	}
	text := s.src[lineStart:s.pos]
	s.toks = append(s.toks, Token{Kind: Comment, Text: text, Line: s.line, Column: s.col})
	s.col += len(text)
	if terminated {
		s.pos += 2
		s.col += 2
	} else {
		s.diags = append(s.diags, diag.Warningf(startLine, 0, "unterminated delimited comment"))
	}
}

func (s *scanner) scanWord() {
	start := s.pos
	for s.pos < len(s.src) && isNameChar(s.src[s.pos]) {
		s.pos++
	}
	text := s.src[start:s.pos]
	s.pos = start // emit advances

	// Bit string literals: a base specifier immediately followed by a
	// quoted value, e.g. x"FF" or b"1010".
	if len(text) == 1 && strings.ContainsRune("bBoOxX", rune(text[0])) && s.peekAt(1) == '"' {
		s.pos = start + 1
		end := s.stringEnd(s.pos)
		s.pos = start
		s.emit(Literal, s.src[start:end])
		return
	}

	if s.keywords[strings.ToLower(text)] {
		s.emit(Keyword, text)
	} else {
		s.emit(Identifier, text)
	}
}

// scanNumber consumes an abstract literal: integers, reals, exponents and
// based literals such as 16#FF#.
func (s *scanner) scanNumber() {
	start := s.pos
	p := s.pos
	digits := func() {
		for p < len(s.src) && (isDigit(s.src[p]) || s.src[p] == '_') {
			p++
		}
	}
	digits()
	if p < len(s.src) && s.src[p] == '#' {
		// based literal: base # value # with optional exponent
		p++
		for p < len(s.src) && (isNameChar(s.src[p]) || s.src[p] == '.') {
			p++
		}
		if p < len(s.src) && s.src[p] == '#' {
			p++
		}
	} else if p < len(s.src) && s.src[p] == '.' && p+1 < len(s.src) && isDigit(s.src[p+1]) {
		p++
		digits()
	}
	if p < len(s.src) && (s.src[p] == 'e' || s.src[p] == 'E') {
		q := p + 1
		if q < len(s.src) && (s.src[q] == '+' || s.src[q] == '-') {
			q++
		}
		if q < len(s.src) && isDigit(s.src[q]) {
			p = q
			digits()
		}
	}
	s.emit(Literal, s.src[start:p])
}

// stringEnd returns the position just past the string literal starting at
// quote position p. Doubled quotes are the VHDL escape for a quote.
func (s *scanner) stringEnd(p int) int {
	p++ // opening quote
	for p < len(s.src) {
		if s.src[p] == '"' {
			if p+1 < len(s.src) && s.src[p+1] == '"' {
				p += 2
				continue
			}
			return p + 1
		}
		if s.src[p] == '\n' || s.src[p] == '\r' {
			break // unterminated, stop at end of line
		}
		p++
	}
	return p
}

func (s *scanner) scanString() {
	end := s.stringEnd(s.pos)
	s.emit(Literal, s.src[s.pos:end])
}

// scanExtendedIdentifier consumes a \...\ extended identifier.
func (s *scanner) scanExtendedIdentifier() {
	p := s.pos + 1
	for p < len(s.src) && s.src[p] != '\\' && s.src[p] != '\n' && s.src[p] != '\r' {
		p++
	}
	if p < len(s.src) && s.src[p] == '\\' {
		p++
	}
	s.emit(Identifier, s.src[s.pos:p])
}

func (s *scanner) scanPunct() {
	rest := s.src[s.pos:]
	for _, op := range compoundOps {
		if strings.HasPrefix(rest, op) {
			s.emit(Punct, op)
			return
		}
	}
	c := s.src[s.pos]
	if strings.IndexByte(singlePunct, c) >= 0 {
		s.emit(Punct, string(c))
		return
	}

	// Unrecognized character run: emit it as one opaque punctuation token
	// so extraction continues past it.
	start := s.pos
	p := s.pos
	for p < len(s.src) && !isKnownStart(s.src[p]) {
		p++
	}
	text := s.src[start:p]
	s.diags = append(s.diags, diag.Warningf(s.line, s.col, "unrecognized character run %q", text))
	s.emit(Punct, text)
}

// isKnownStart reports whether c can begin a recognized token, used to bound
// unknown character runs.
func isKnownStart(c byte) bool {
	if isLetter(c) || isDigit(c) {
		return true
	}
	switch c {
	case '\n', '\r', ' ', '\t', '\v', '\f', '"', '\\', '\'':
		return true
	}
	return strings.IndexByte(singlePunct, c) >= 0
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNameChar(c byte) bool { return isLetter(c) || isDigit(c) || c == '_' }
