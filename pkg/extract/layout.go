package extract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LayoutStatus classifies the outcome of reading a layout description.
type LayoutStatus string

// Layout read outcomes. Everything except LayoutValid collapses to zero
// counts; the distinction exists so callers and tests can see why.
const (
	LayoutAbsent     LayoutStatus = "absent"     // no path given, or not a regular file
	LayoutUnreadable LayoutStatus = "unreadable" // file exists but could not be read
	LayoutMalformed  LayoutStatus = "malformed"  // content is not a valid mapping
	LayoutValid      LayoutStatus = "valid"      // parsed successfully
)

// LayoutStats holds node and edge counts derived from a layout description.
//
// Counts are zero unless Status is LayoutValid, and even then a field that is
// missing or not sequence-typed contributes zero. Layout statistics are an
// enrichment, not a requirement: no Status value is an error.
type LayoutStats struct {
	Status LayoutStatus
	Nodes  int
	Edges  int
}

// Counts returns the node and edge counts as a pair.
func (s LayoutStats) Counts() (nodes, edges int) {
	return s.Nodes, s.Edges
}

// ReadLayoutStats reads a layout description file and counts its nodes and
// edges.
//
// The file is parsed as a mapping with sequence-valued "nodes" and "edges"
// fields. Files ending in .yaml or .yml are parsed as YAML, everything else
// as JSON. An empty path or a path that is not a regular file yields
// LayoutAbsent; read failures yield LayoutUnreadable; parse failures yield
// LayoutMalformed. None of these abort anything — the counts are simply zero.
func ReadLayoutStats(path string) LayoutStats {
	if path == "" {
		return LayoutStats{Status: LayoutAbsent}
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return LayoutStats{Status: LayoutAbsent}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return LayoutStats{Status: LayoutUnreadable}
	}
	return ParseLayoutStats(data, isYAMLPath(path))
}

// ParseLayoutStats counts nodes and edges in raw layout description content.
// This is the in-memory variant used by serve mode, where no file exists.
func ParseLayoutStats(data []byte, asYAML bool) LayoutStats {
	var payload map[string]any
	var err error
	if asYAML {
		err = yaml.Unmarshal(data, &payload)
	} else {
		err = json.Unmarshal(data, &payload)
	}
	if err != nil || payload == nil {
		return LayoutStats{Status: LayoutMalformed}
	}

	return LayoutStats{
		Status: LayoutValid,
		Nodes:  sequenceLen(payload["nodes"]),
		Edges:  sequenceLen(payload["edges"]),
	}
}

// sequenceLen returns the length of v if it is a sequence, else 0.
// A mapping or scalar under "nodes"/"edges" counts as zero rather than an
// error, matching the fail-soft contract.
func sequenceLen(v any) int {
	if seq, ok := v.([]any); ok {
		return len(seq)
	}
	return 0
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
