package extractor

import (
	"reflect"
	"testing"

	"github.com/jfcliche/vhdl-doc/internal/diag"
	"github.com/jfcliche/vhdl-doc/internal/doctree"
	"github.com/jfcliche/vhdl-doc/internal/token"
)

// parse runs the full extraction pipeline on src: tokenize, extract,
// associate comments.
func parse(t *testing.T, src string) ([]*doctree.DesignUnit, []diag.Diagnostic) {
	t.Helper()
	toks, diags := token.Tokenize(src, token.VHDL2008)
	decls, extractDiags := Extract(toks)
	diags = append(diags, extractDiags...)
	diags = append(diags, Associate(decls, toks)...)
	return Units(decls), diags
}

func proseOf(t *testing.T, block doctree.CommentBlock) []string {
	t.Helper()
	return block.ProseLines()
}

func findUnit(t *testing.T, units []*doctree.DesignUnit, name string) *doctree.DesignUnit {
	t.Helper()
	for _, u := range units {
		if u.Name == name {
			return u
		}
	}
	t.Fatalf("unit %q not found", name)
	return nil
}

func findParam(t *testing.T, params []*doctree.Parameter, name string) *doctree.Parameter {
	t.Helper()
	for _, p := range params {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("parameter %q not found", name)
	return nil
}

func TestAssociateHeaderAndTrailing(t *testing.T) {
	vhdl := `-- Adder with carry out.
--
-- Propagation is combinational.
entity adder is
  generic (
    -- Operand width in bits
    WIDTH : integer := 8
  );
  port (
    a, b : in  std_logic_vector(WIDTH-1 downto 0); -- operands
    s    : out std_logic_vector(WIDTH downto 0)
  );
end entity adder; -- see also adder_tb
`
	units, diags := parse(t, vhdl)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	u := findUnit(t, units, "adder")

	wantHeader := []string{"Adder with carry out.", "", "Propagation is combinational."}
	if got := proseOf(t, u.Header); !reflect.DeepEqual(got, wantHeader) {
		t.Errorf("unit header = %v, want %v", got, wantHeader)
	}
	if got := proseOf(t, u.Trailing); !reflect.DeepEqual(got, []string{"see also adder_tb"}) {
		t.Errorf("unit trailing = %v", got)
	}

	width := findParam(t, u.Generics, "WIDTH")
	if got := proseOf(t, width.Header); !reflect.DeepEqual(got, []string{"Operand width in bits"}) {
		t.Errorf("WIDTH header = %v", got)
	}
	if !width.Trailing.IsEmpty() {
		t.Errorf("WIDTH trailing = %v", width.Trailing)
	}

	// a trailing comment after the item separator belongs to every name the
	// item declared
	for _, name := range []string{"a", "b"} {
		p := findParam(t, u.Ports, name)
		if got := proseOf(t, p.Trailing); !reflect.DeepEqual(got, []string{"operands"}) {
			t.Errorf("%s trailing = %v", name, got)
		}
		if !p.Header.IsEmpty() {
			t.Errorf("%s header = %v", name, p.Header)
		}
	}

	s := findParam(t, u.Ports, "s")
	if !s.Header.IsEmpty() || !s.Trailing.IsEmpty() {
		t.Errorf("s comments = %v / %v", s.Header, s.Trailing)
	}
}

func TestAssociateBlankLineBreaksHeader(t *testing.T) {
	vhdl := `-- This comment is orphaned.

entity plain is
end entity;
`
	units, diags := parse(t, vhdl)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	u := findUnit(t, units, "plain")
	if !u.Header.IsEmpty() {
		t.Errorf("header = %v, want empty", u.Header)
	}
}

func TestAssociateTieBreakFavorsEarlierDeclaration(t *testing.T) {
	vhdl := `entity first is
end entity;
-- Which unit owns this?
entity second is
end entity;
`
	units, diags := parse(t, vhdl)

	first := findUnit(t, units, "first")
	second := findUnit(t, units, "second")
	if got := proseOf(t, first.Trailing); !reflect.DeepEqual(got, []string{"Which unit owns this?"}) {
		t.Errorf("first trailing = %v", got)
	}
	if !second.Header.IsEmpty() {
		t.Errorf("second header = %v, want empty", second.Header)
	}

	if len(diags) != 1 || diags[0].Kind != diag.AssociationAmbiguity {
		t.Fatalf("diagnostics = %v, want one association ambiguity", diags)
	}
}

func TestAssociateBlankLineMakesCleanHeader(t *testing.T) {
	vhdl := `entity first is
end entity;

-- Documentation for second.
entity second is
end entity;
`
	units, diags := parse(t, vhdl)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	first := findUnit(t, units, "first")
	second := findUnit(t, units, "second")
	if !first.Trailing.IsEmpty() {
		t.Errorf("first trailing = %v", first.Trailing)
	}
	if got := proseOf(t, second.Header); !reflect.DeepEqual(got, []string{"Documentation for second."}) {
		t.Errorf("second header = %v", got)
	}
}

func TestAssociateOneLinerDeclaration(t *testing.T) {
	vhdl := `-- Parameterized register.
-- Purely synchronous.
entity X is generic(W: integer := 8); port(d: in std_logic); end X; -- trailing
`
	units, diags := parse(t, vhdl)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	u := findUnit(t, units, "X")

	wantHeader := []string{"Parameterized register.", "Purely synchronous."}
	if got := proseOf(t, u.Header); !reflect.DeepEqual(got, wantHeader) {
		t.Errorf("header = %v, want %v", got, wantHeader)
	}
	// the end-of-line comment documents the unit, not port d: the search
	// from d stops at the closing parenthesis
	if got := proseOf(t, u.Trailing); !reflect.DeepEqual(got, []string{"trailing"}) {
		t.Errorf("trailing = %v", got)
	}

	w := findParam(t, u.Generics, "W")
	if w.Type != "integer" || w.Default != "8" {
		t.Errorf("W = type %q default %q", w.Type, w.Default)
	}
	if !w.Header.IsEmpty() || !w.Trailing.IsEmpty() {
		t.Errorf("W comments = %v / %v", w.Header, w.Trailing)
	}
	d := findParam(t, u.Ports, "d")
	if d.Dir != doctree.DirIn || d.Type != "std_logic" {
		t.Errorf("d = dir %q type %q", d.Dir, d.Type)
	}
	if !d.Header.IsEmpty() || !d.Trailing.IsEmpty() {
		t.Errorf("d comments = %v / %v", d.Header, d.Trailing)
	}
}

func TestAssociateTableInPortComment(t *testing.T) {
	vhdl := `entity ctrl is
  port (
    -- Encoded operation:
    -- | code | meaning |
    -- |------|---------|
    -- | 00   | idle    |
    -- | 01   | run     |
    op : in std_logic_vector(1 downto 0)
  );
end entity;
`
	units, diags := parse(t, vhdl)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	op := findParam(t, findUnit(t, units, "ctrl").Ports, "op")
	if len(op.Header.Segments) != 2 {
		t.Fatalf("header segments = %#v, want prose then table", op.Header.Segments)
	}
	table, ok := op.Header.Segments[1].(doctree.Table)
	if !ok {
		t.Fatalf("second segment is %T, want table", op.Header.Segments[1])
	}
	if !table.HeaderRow {
		t.Error("table header row not detected")
	}
	wantRows := [][]string{{"code", "meaning"}, {"00", "idle"}, {"01", "run"}}
	if !reflect.DeepEqual(table.Rows, wantRows) {
		t.Errorf("rows = %v, want %v", table.Rows, wantRows)
	}
}

func TestAssociateDeterministic(t *testing.T) {
	vhdl := `-- Top level.
entity top is
  port (
    clk : in std_logic; -- clock
    rst : in std_logic  -- reset
  );
end entity;
`
	first, diags1 := parse(t, vhdl)
	second, diags2 := parse(t, vhdl)
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same source differ")
	}
	if !reflect.DeepEqual(diags1, diags2) {
		t.Error("diagnostics differ between runs")
	}
}
