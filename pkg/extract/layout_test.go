package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadLayoutStats(t *testing.T) {
	tests := []struct {
		name       string
		path       func(t *testing.T) string
		wantStatus LayoutStatus
		wantNodes  int
		wantEdges  int
	}{
		{
			name:       "empty path",
			path:       func(t *testing.T) string { return "" },
			wantStatus: LayoutAbsent,
		},
		{
			name:       "missing file",
			path:       func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			wantStatus: LayoutAbsent,
		},
		{
			name:       "directory instead of file",
			path:       func(t *testing.T) string { return t.TempDir() },
			wantStatus: LayoutAbsent,
		},
		{
			name:       "invalid JSON",
			path:       func(t *testing.T) string { return writeFile(t, "bad.json", "{not json") },
			wantStatus: LayoutMalformed,
		},
		{
			name:       "JSON scalar instead of mapping",
			path:       func(t *testing.T) string { return writeFile(t, "scalar.json", `42`) },
			wantStatus: LayoutMalformed,
		},
		{
			name: "valid JSON counts",
			path: func(t *testing.T) string {
				return writeFile(t, "ok.json", `{"nodes": ["a","b","c"], "edges": ["x","y"]}`)
			},
			wantStatus: LayoutValid,
			wantNodes:  3,
			wantEdges:  2,
		},
		{
			name: "empty edges sequence",
			path: func(t *testing.T) string {
				return writeFile(t, "ok.json", `{"nodes": [1, 2], "edges": []}`)
			},
			wantStatus: LayoutValid,
			wantNodes:  2,
			wantEdges:  0,
		},
		{
			name: "non-sequence fields count zero",
			path: func(t *testing.T) string {
				return writeFile(t, "odd.json", `{"nodes": {"a": 1}, "edges": "none"}`)
			},
			wantStatus: LayoutValid,
		},
		{
			name: "missing fields count zero",
			path: func(t *testing.T) string {
				return writeFile(t, "bare.json", `{"title": "diagram"}`)
			},
			wantStatus: LayoutValid,
		},
		{
			name: "valid YAML counts",
			path: func(t *testing.T) string {
				return writeFile(t, "ok.yaml", "nodes:\n  - a\n  - b\nedges:\n  - x\n")
			},
			wantStatus: LayoutValid,
			wantNodes:  2,
			wantEdges:  1,
		},
		{
			name:       "malformed YAML",
			path:       func(t *testing.T) string { return writeFile(t, "bad.yml", "nodes: [a, b\n") },
			wantStatus: LayoutMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ReadLayoutStats(tt.path(t))
			if stats.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", stats.Status, tt.wantStatus)
			}
			nodes, edges := stats.Counts()
			if nodes != tt.wantNodes || edges != tt.wantEdges {
				t.Errorf("Counts() = (%d, %d), want (%d, %d)", nodes, edges, tt.wantNodes, tt.wantEdges)
			}
		})
	}
}

func TestReadLayoutStatsNeverErrors(t *testing.T) {
	// Degraded inputs zero the counts without any failure signal beyond Status.
	for _, path := range []string{"", "/definitely/not/here.json"} {
		stats := ReadLayoutStats(path)
		if stats.Nodes != 0 || stats.Edges != 0 {
			t.Errorf("ReadLayoutStats(%q) counts = (%d, %d), want (0, 0)", path, stats.Nodes, stats.Edges)
		}
	}
}
