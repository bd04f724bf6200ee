// Package prompt assembles the natural-language generation prompt.
//
// The prompt is a fixed-layout text document: a constant purpose statement,
// a context section derived from extracted diagram signal, constant style and
// output-requirement sections, and a truncated copy of the diagram source as
// structural ground truth. Assembly is deterministic and side-effect free —
// identical inputs produce byte-identical documents, which keeps the prompt
// artifact diffable across runs.
package prompt

import (
	"fmt"
	"strings"
)

// MaxSourceExcerpt is the number of characters of diagram source embedded in
// the prompt trailer. The excerpt is always a prefix of the original source.
const MaxSourceExcerpt = 18000

// Input carries everything the prompt is built from.
//
// Config, Level, and Block are caller-supplied context scalars; empty means
// absent and the corresponding line is omitted. Counts of zero are likewise
// omitted — a diagram without layout statistics produces a prompt with no
// count lines rather than "0" lines.
type Input struct {
	Source    string   // raw diagram source text
	Labels    []string // extracted text labels, in extraction order
	NodeCount int      // approximate block count from the layout description
	EdgeCount int      // approximate edge count from the layout description
	Config    string   // configuration label (e.g. a Chipyard CONFIG)
	Level     string   // diagram level label (L1/L2/L3/L4)
	Block     string   // selected block name, for sub-diagrams
}

// Build assembles the prompt document.
//
// Section order is fixed: purpose statement, context, style constraints,
// output requirements, source excerpt. The context header is always emitted,
// even when every context line is omitted.
func Build(in Input) string {
	var lines []string

	lines = append(lines,
		"Create a polished hardware architecture block diagram image.",
		"Use the supplied SVG as structural ground truth.",
		"Preserve block names and connectivity intent.",
		"",
		"Context:",
	)

	if in.Config != "" {
		lines = append(lines, fmt.Sprintf("- CONFIG: %s", in.Config))
	}
	if in.Level != "" {
		lines = append(lines, fmt.Sprintf("- LEVEL: %s", in.Level))
	}
	if in.Block != "" {
		lines = append(lines, fmt.Sprintf("- BLOCK: %s", in.Block))
	}
	if in.NodeCount > 0 {
		lines = append(lines, fmt.Sprintf("- Approximate block count from layout JSON: %d", in.NodeCount))
	}
	if in.EdgeCount > 0 {
		lines = append(lines, fmt.Sprintf("- Approximate edge count from layout JSON: %d", in.EdgeCount))
	}
	if len(in.Labels) > 0 {
		lines = append(lines, "- Labels discovered in source SVG:")
		for _, label := range in.Labels {
			lines = append(lines, fmt.Sprintf("  - %s", label))
		}
	}

	lines = append(lines,
		"",
		"Style constraints:",
		"- clean professional engineering style",
		"- white background",
		"- crisp readable labels",
		"- clear directional arrows",
		"- balanced spacing",
		"- no cartoon style",
		"- no code snippets",
		"- no electrical schematic symbols",
		"",
		"Output requirements:",
		"- Keep exact visible module names where possible.",
		"- Preserve high-level topology from the source SVG.",
		"- Improve visual clarity and slide-readability.",
		"",
		"Source SVG (for structure reference):",
		truncate(in.Source, MaxSourceExcerpt),
	)

	return strings.Join(lines, "\n")
}

// truncate returns the first max characters of s. Truncation counts runes,
// not bytes, so a multi-byte character is never split.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
