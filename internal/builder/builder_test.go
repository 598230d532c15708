package builder

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/jfcliche/vhdl-doc/internal/config"
	"github.com/jfcliche/vhdl-doc/internal/diag"
	"github.com/jfcliche/vhdl-doc/internal/token"
	"github.com/jfcliche/vhdl-doc/internal/validator"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func writeVHDL(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseSource(t *testing.T) {
	src := `-- Simple register.
entity reg is
  port (
    clk : in std_logic;
    d   : in std_logic;
    q   : out std_logic
  );
end entity;
`
	docs, diags := ParseSource("reg.vhd", src, token.VHDL2008)
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	if docs.File() != "reg.vhd" {
		t.Errorf("file = %q", docs.File())
	}
	u, ok := docs.Lookup("reg")
	if !ok {
		t.Fatal("reg not found")
	}
	if len(u.Ports) != 3 {
		t.Errorf("ports = %d, want 3", len(u.Ports))
	}
	if got := u.Header.ProseLines(); !reflect.DeepEqual(got, []string{"Simple register."}) {
		t.Errorf("header = %v", got)
	}
}

func TestParseSourceTagsDiagnosticsWithFile(t *testing.T) {
	_, diags := ParseSource("broken.vhd", "entity broken is\n", token.VHDL2008)
	if len(diags) == 0 {
		t.Fatal("no diagnostics for truncated unit")
	}
	for _, d := range diags {
		if d.File != "broken.vhd" {
			t.Errorf("diagnostic file = %q", d.File)
		}
		if d.Kind != diag.StructuralRecovery {
			t.Errorf("diagnostic kind = %v", d.Kind)
		}
	}
}

func TestBuildWalksAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeVHDL(t, dir, "z_top.vhd", "entity top is\nend entity;\n")
	writeVHDL(t, dir, filepath.Join("rtl", "alu.vhd"), "entity alu is\n  port (op : in std_logic);\nend entity;\n")
	writeVHDL(t, dir, "README.md", "not vhdl")

	b := New(config.DefaultConfig(), quietLogger())
	result, err := b.Build(dir)
	if err != nil {
		t.Fatal(err)
	}

	if result.Stats.Files != 2 || result.Stats.Units != 2 || result.Stats.Diagnostics != 0 {
		t.Errorf("stats = %+v", result.Stats)
	}
	// sorted by path, not completion order
	if len(result.Files) != 2 ||
		filepath.Base(result.Files[0].File) != "alu.vhd" ||
		filepath.Base(result.Files[1].File) != "z_top.vhd" {
		t.Errorf("files = %+v", result.Files)
	}
	if result.Files[0].Units[0].Name != "alu" {
		t.Errorf("first unit = %q", result.Files[0].Units[0].Name)
	}

	if u, ok := result.Lookup("TOP"); !ok || u.Name != "top" {
		t.Errorf("Lookup(TOP) = %v, %v", u, ok)
	}
	if _, ok := result.Lookup("missing"); ok {
		t.Error("Lookup(missing) reported a unit")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.vhd", "b.vhd", "c.vhd", "d.vhd"} {
		writeVHDL(t, dir, name, `-- Unit in `+name+`
entity u_`+name[:1]+` is
  port (x : in std_logic); -- the input
end entity;
`)
	}

	cfg := config.DefaultConfig()
	cfg.Analysis.MaxParallelFiles = 4
	b := New(cfg, quietLogger())

	first, err := b.Build(dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Build(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two builds of the same tree differ")
	}
}

func TestBuildCollectsDiagnosticsInFileOrder(t *testing.T) {
	dir := t.TempDir()
	writeVHDL(t, dir, "bad_a.vhd", "entity a is\n  port (\n")
	writeVHDL(t, dir, "bad_b.vhd", "entity b is\n  port (\n")

	b := New(config.DefaultConfig(), quietLogger())
	result, err := b.Build(dir)
	if err != nil {
		t.Fatal(err)
	}
	if result.Stats.Diagnostics == 0 {
		t.Fatal("no diagnostics collected")
	}
	lastFile := ""
	for _, d := range result.Diagnostics {
		if d.File < lastFile {
			t.Errorf("diagnostics out of file order: %v", result.Diagnostics)
			break
		}
		lastFile = d.File
	}
	for _, f := range result.Files {
		if len(f.Units) != 1 || !f.Units[0].Incomplete {
			t.Errorf("%s units = %+v, want one incomplete unit", f.File, f.Units)
		}
	}
}

func TestBuildFilesMissingFile(t *testing.T) {
	b := New(config.DefaultConfig(), quietLogger())
	if _, err := b.BuildFiles([]string{"/does/not/exist.vhd"}); err == nil {
		t.Error("missing file did not fail the build")
	}
}

func TestBuildOutputMatchesSchema(t *testing.T) {
	dir := t.TempDir()
	writeVHDL(t, dir, "uart.vhd", `-- UART transmitter.
--
-- | Field | Meaning |
-- |-------|---------|
-- | DATA  | payload |
entity uart_tx is
  generic (BAUD_DIV : positive := 868);
  port (
    clk : in std_logic;  -- bit clock
    txd : out std_logic
  );
end entity;
`)

	b := New(config.DefaultConfig(), quietLogger())
	result, err := b.Build(dir)
	if err != nil {
		t.Fatal(err)
	}

	val, err := validator.New()
	if err != nil {
		t.Fatal(err)
	}
	if errs := val.ValidationErrors(result); errs != nil {
		t.Errorf("output violates schema: %v", errs)
	}

	// the JSON form round-trips through generic decoding, which is what the
	// YAML output path relies on
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}
	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		t.Fatal(err)
	}
	if _, ok := tree["files"]; !ok {
		t.Error("serialized result has no files key")
	}
}
