package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLabels(t *testing.T) {
	tests := []struct {
		name   string
		source string
		max    int
		want   []string
	}{
		{
			name:   "simple labels",
			source: `<text>CPU</text><text>Memory</text>`,
			want:   []string{"CPU", "Memory"},
		},
		{
			name:   "whitespace-only label discarded",
			source: `<text>CPU</text><text>  </text><text>Memory</text>`,
			want:   []string{"CPU", "Memory"},
		},
		{
			name:   "nested markup stripped",
			source: `<text x="10"><tspan dy="4">Rocket</tspan> Tile</text>`,
			want:   []string{"Rocket Tile"},
		},
		{
			name:   "case-insensitive and multiline",
			source: "<TEXT>\n  L2 Cache\n</TEXT>",
			want:   []string{"L2 Cache"},
		},
		{
			name:   "attributes on the element",
			source: `<text x="5" y="7" font-size="12">SerDes</text>`,
			want:   []string{"SerDes"},
		},
		{
			name:   "no text elements",
			source: `<rect width="10" height="10"/>`,
			want:   nil,
		},
		{
			name:   "empty input",
			source: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Labels(tt.source, tt.max)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLabelsCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&sb, "<text>label%d</text>", i)
	}

	got := Labels(sb.String(), 0)
	if len(got) != DefaultMaxLabels {
		t.Errorf("len(Labels()) = %d, want %d", len(got), DefaultMaxLabels)
	}
	if got[0] != "label0" || got[len(got)-1] != fmt.Sprintf("label%d", DefaultMaxLabels-1) {
		t.Errorf("Labels() order not preserved: first=%q last=%q", got[0], got[len(got)-1])
	}

	if got := Labels(sb.String(), 5); len(got) != 5 {
		t.Errorf("len(Labels(max=5)) = %d, want 5", len(got))
	}
}

func TestLabelsNoTagsOrEmpties(t *testing.T) {
	source := `<text><tspan>a</tspan></text><text></text><text> b <b>c</b> </text>`
	for _, label := range Labels(source, 0) {
		if label == "" {
			t.Error("Labels() returned an empty label")
		}
		if strings.ContainsAny(label, "<>") {
			t.Errorf("Labels() returned markup remnant: %q", label)
		}
	}
}
