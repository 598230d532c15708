package token

import "strings"

// Standard selects the VHDL language revision. It only affects which words
// are classified as keywords and whether delimited comments are recognized;
// the pipeline shape is the same for all revisions.
type Standard string

const (
	VHDL93   Standard = "1993"
	VHDL2008 Standard = "2008"
)

// vhdl93Keywords is the reserved word list of IEEE 1076-1993.
var vhdl93Keywords = []string{
	"abs", "access", "after", "alias", "all", "and", "architecture", "array",
	"assert", "attribute", "begin", "block", "body", "buffer", "bus", "case",
	"component", "configuration", "constant", "disconnect", "downto", "else",
	"elsif", "end", "entity", "exit", "file", "for", "function", "generate",
	"generic", "group", "guarded", "if", "impure", "in", "inertial", "inout",
	"is", "label", "library", "linkage", "literal", "loop", "map", "mod",
	"nand", "new", "next", "nor", "not", "null", "of", "on", "open", "or",
	"others", "out", "package", "port", "postponed", "procedure", "process",
	"pure", "range", "record", "register", "reject", "rem", "report",
	"return", "rol", "ror", "select", "severity", "shared", "signal", "sla",
	"sll", "sra", "srl", "subtype", "then", "to", "transport", "type",
	"unaffected", "units", "until", "use", "variable", "wait", "when",
	"while", "with", "xnor", "xor",
}

// vhdl2008Keywords are the words added by IEEE 1076-2008.
var vhdl2008Keywords = []string{
	"assume", "assume_guarantee", "context", "cover", "default", "fairness",
	"force", "parameter", "property", "protected", "release", "restrict",
	"restrict_guarantee", "sequence", "strong", "vmode", "vprop", "vunit",
}

func keywordSet(std Standard) map[string]bool {
	set := make(map[string]bool, len(vhdl93Keywords)+len(vhdl2008Keywords))
	for _, w := range vhdl93Keywords {
		set[w] = true
	}
	if std != VHDL93 {
		for _, w := range vhdl2008Keywords {
			set[w] = true
		}
	}
	return set
}

// IsDirection reports whether word is a port direction keyword. VHDL
// identifiers are case-insensitive, so the check folds case.
func IsDirection(word string) bool {
	switch strings.ToLower(word) {
	case "in", "out", "inout", "buffer", "linkage":
		return true
	}
	return false
}
