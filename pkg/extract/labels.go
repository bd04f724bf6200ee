// Package extract pulls structural signal out of diagram sources.
//
// The extractor reads two things: the raw text of an SVG-like diagram
// document, and an optional layout description enumerating the diagram's
// nodes and edges. It produces a bounded list of visible text labels and a
// pair of node/edge counts that downstream prompt assembly folds into the
// generation prompt.
//
// The package deliberately does not build an SVG document model. Labels are
// captured with a text scan so that malformed or exotic markup degrades to
// "fewer labels" instead of a failure; layout parsing is fail-soft for the
// same reason (see [ReadLayoutStats]).
package extract

import (
	"regexp"
	"strings"
)

// DefaultMaxLabels bounds the number of labels collected from a single
// diagram so the assembled prompt stays a manageable size.
const DefaultMaxLabels = 80

var (
	textElementRE = regexp.MustCompile(`(?is)<text[^>]*>(.*?)</text>`)
	innerTagRE    = regexp.MustCompile(`<[^>]+>`)
)

// Labels scans source for markup <text> elements and returns their visible
// content in first-seen order.
//
// Matching is case-insensitive and spans newlines. Nested markup tags inside
// a text element (tspan and friends) are stripped, the remainder is
// whitespace-trimmed, and empty results are discarded. Collection stops once
// maxLabels labels have been gathered; maxLabels <= 0 means
// [DefaultMaxLabels].
//
// Labels never fails: input without text elements yields an empty slice.
func Labels(source string, maxLabels int) []string {
	if maxLabels <= 0 {
		maxLabels = DefaultMaxLabels
	}

	var labels []string
	for _, match := range textElementRE.FindAllStringSubmatch(source, -1) {
		label := strings.TrimSpace(innerTagRE.ReplaceAllString(match[1], ""))
		if label == "" {
			continue
		}
		labels = append(labels, label)
		if len(labels) >= maxLabels {
			break
		}
	}
	return labels
}
