// Package diag defines the diagnostics accumulated by the documentation
// pipeline. No pipeline condition is fatal: every recoverable problem is
// recorded as a Diagnostic value and the best-effort model is still returned.
// Callers that want strict behavior treat a non-empty diagnostic list as
// failure.
package diag

import "fmt"

// Kind classifies a diagnostic.
type Kind int

const (
	// TokenizationWarning reports an unrecognized character run. The run is
	// emitted as an opaque punctuation token and scanning continues.
	TokenizationWarning Kind = iota

	// StructuralRecovery reports an unbalanced or unterminated clause. The
	// design unit parsed so far is kept, flagged incomplete, and scanning
	// resumes at the next anchor.
	StructuralRecovery

	// AssociationAmbiguity reports a comment block that sat between two
	// declarations with no blank-line separation. It is resolved
	// deterministically in favor of the earlier declaration; the diagnostic
	// exists for source-quality tooling, not as an error.
	AssociationAmbiguity
)

// String returns the stable name of the kind, used in JSON output.
func (k Kind) String() string {
	switch k {
	case TokenizationWarning:
		return "tokenization_warning"
	case StructuralRecovery:
		return "structural_recovery"
	case AssociationAmbiguity:
		return "association_ambiguity"
	default:
		return "unknown"
	}
}

// Diagnostic is one recoverable condition encountered while processing a
// source file. Line and Column are 1-based; Column may be zero when the
// condition spans a whole line.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
}

// MarshalText lets Kind serialize as its name inside JSON diagnostics.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (d Diagnostic) String() string {
	if d.File != "" {
		return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Kind, d.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Message)
}

// Warningf builds a TokenizationWarning at the given position.
func Warningf(line, col int, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Kind: TokenizationWarning, Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

// Recoveryf builds a StructuralRecovery at the given line.
func Recoveryf(line int, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Kind: StructuralRecovery, Line: line, Message: fmt.Sprintf(format, args...)}
}

// Ambiguityf builds an AssociationAmbiguity at the given line.
func Ambiguityf(line int, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Kind: AssociationAmbiguity, Line: line, Message: fmt.Sprintf(format, args...)}
}
