package doctree

import (
	"reflect"
	"testing"
)

func excerptUnit() *DesignUnit {
	return &DesignUnit{
		Name: "regs",
		Kind: KindEntity,
		Header: InterpretLines([]string{
			" Register file.",
			"",
			" Memory Map:",
			" reg CTRL at 0x00",
			" reg STAT at 0x04",
			" End of map.",
			" Remaining notes.",
		}),
		Ports: []*Parameter{
			{Name: "clk", Header: InterpretLines([]string{" Clock notes."})},
		},
	}
}

func TestExcerpt(t *testing.T) {
	unit := excerptUnit()
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{
			name: "no markers returns the whole first block",
			q:    Query{},
			want: []string{
				"Register file.",
				"",
				"Memory Map:",
				"reg CTRL at 0x00",
				"reg STAT at 0x04",
				"End of map.",
				"Remaining notes.",
			},
		},
		{
			name: "start-after excludes the matching line",
			q:    Query{StartAfter: "Memory Map", EndBefore: "End of map"},
			want: []string{"reg CTRL at 0x00", "reg STAT at 0x04"},
		},
		{
			name: "start-before includes the matching line",
			q:    Query{StartBefore: "Memory Map", EndBefore: "End of map"},
			want: []string{"Memory Map:", "reg CTRL at 0x00", "reg STAT at 0x04"},
		},
		{
			name: "end-after includes the matching line",
			q:    Query{StartAfter: "Memory Map", EndAfter: "STAT"},
			want: []string{"reg CTRL at 0x00", "reg STAT at 0x04"},
		},
		{
			name: "no match yields nothing",
			q:    Query{StartAfter: "does not exist"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excerpt(unit, tt.q); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Excerpt(%+v) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}
}

func TestExcerptFallsThroughEmptyBlocks(t *testing.T) {
	unit := &DesignUnit{
		Name: "x",
		Kind: KindEntity,
		Ports: []*Parameter{
			{Name: "clk", Trailing: InterpretLines([]string{" System clock, 100 MHz."})},
		},
	}
	want := []string{"System clock, 100 MHz."}
	if got := Excerpt(unit, Query{}); !reflect.DeepEqual(got, want) {
		t.Errorf("Excerpt = %v, want %v", got, want)
	}
}
