// Package pkg provides the core libraries for Diagramforge image generation.
//
// # Overview
//
// Diagramforge turns a structural block diagram (SVG or Graphviz DOT, plus an
// optional node/edge layout description) into a generation prompt and requests
// a polished rendition from an external image-synthesis service. The pkg
// directory is organized into five main areas:
//
//  1. [extract] - Signal extraction (visible labels, layout node/edge counts)
//  2. [prompt] - Deterministic prompt assembly
//  3. [imagegen] - Image-synthesis service clients
//  4. [pipeline] - Orchestration (extract → assemble → generate → persist)
//  5. [render] - Graphviz DOT to SVG conversion for DOT inputs
//
// # Architecture
//
// The typical data flow through Diagramforge:
//
//	Diagram SVG / DOT (+ optional layout JSON/YAML)
//	         ↓
//	    [extract] package (labels + node/edge counts)
//	         ↓
//	    [prompt] package (assemble generation prompt)
//	         ↓
//	    [imagegen] package (call image service)
//	         ↓
//	    prompt.txt + image.png output
//
// # Quick Start
//
// Run the complete pipeline against a diagram on disk:
//
//	import (
//	    "context"
//	    "github.com/diagramforge/diagramforge/pkg/imagegen"
//	    "github.com/diagramforge/diagramforge/pkg/pipeline"
//	)
//
//	gen, _ := imagegen.New(imagegen.Config{Provider: "openai", APIKey: key})
//	runner := pipeline.NewRunner(gen, nil)
//	result, _ := runner.Run(context.Background(), pipeline.Options{
//	    InputPath:  "diagram.svg",
//	    LayoutPath: "layout.json",
//	    PromptOut:  "out/prompt.txt",
//	    ImageOut:   "out/diagram.png",
//	})
//
// # Main Packages
//
// [extract] - Pulls visible <text> labels out of SVG markup and reads
// node/edge counts from a layout description. Layout parsing is fail-soft:
// a missing or malformed file degrades to zero counts, never an error.
//
// [prompt] - Assembles the generation prompt from the extracted signal. The
// assembly is deterministic: identical inputs produce byte-identical prompts.
//
// [imagegen] - Clients for image-synthesis services. The OpenAI client posts
// to the images API and decodes the base64 payload. Credentials are checked
// before any network traffic.
//
// [pipeline] - The orchestrator shared by the CLI and serve mode. The prompt
// document is persisted before the service call and survives generation
// failures.
//
// [render] - In-process Graphviz rendering so .dot/.gv inputs can feed the
// same SVG-based extraction path.
//
// [config] - TOML config file plus environment overlay (OPENAI_API_KEY).
//
// [errors] - Structured errors with machine-readable codes used to derive
// process exit codes and HTTP statuses.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/extract/...  # Specific package
//
// [extract]: https://pkg.go.dev/github.com/diagramforge/diagramforge/pkg/extract
// [prompt]: https://pkg.go.dev/github.com/diagramforge/diagramforge/pkg/prompt
// [imagegen]: https://pkg.go.dev/github.com/diagramforge/diagramforge/pkg/imagegen
// [pipeline]: https://pkg.go.dev/github.com/diagramforge/diagramforge/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/diagramforge/diagramforge/pkg/render
// [config]: https://pkg.go.dev/github.com/diagramforge/diagramforge/pkg/config
// [errors]: https://pkg.go.dev/github.com/diagramforge/diagramforge/pkg/errors
package pkg
