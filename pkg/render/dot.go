// Package render converts Graphviz DOT diagram sources to SVG.
//
// The generation pipeline consumes SVG text, but diagram toolchains often
// hand over the upstream DOT instead. This package bridges the gap with an
// in-process Graphviz render, so a .dot input can feed the same extraction
// and prompt assembly path as a ready-made .svg.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// generation; no external graphviz binary is required.
package render

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
)

// IsDOTPath reports whether path names a Graphviz DOT file by extension.
func IsDOTPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return true
	}
	return false
}

// DOTToSVG renders a DOT graph to SVG text using Graphviz.
//
// The returned SVG is what the extractor and prompt assembler see: its
// <text> elements carry the node labels, and the full text is embedded as
// the prompt's structural excerpt.
func DOTToSVG(ctx context.Context, dot string) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return "", fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return buf.String(), nil
}
