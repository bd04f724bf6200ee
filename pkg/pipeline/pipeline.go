// Package pipeline provides the core diagram-to-image generation pipeline.
//
// This package implements the complete extract → assemble → generate flow
// that is shared by the CLI and serve mode. By centralizing this logic, we
// ensure consistent behavior across all entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Extract: Pull text labels and node/edge counts from the diagram
//     source and its optional layout description
//  2. Assemble: Combine the extracted signal with caller context into a
//     deterministic prompt document
//  3. Generate: Send the prompt to the external image service and decode
//     the returned image bytes
//
// Data flows strictly forward; stages share no mutable state, so concurrent
// pipeline runs need no coordination.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	gen, _ := imagegen.New(imagegen.Config{APIKey: key})
//	runner := pipeline.NewRunner(gen, logger)
//	result, err := runner.Run(ctx, pipeline.Options{
//	    InputPath: "diagram.svg",
//	    PromptOut: "out/prompt.txt",
//	    ImageOut:  "out/diagram.png",
//	})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/diagramforge/diagramforge/pkg/errors"
	"github.com/diagramforge/diagramforge/pkg/extract"
	"github.com/diagramforge/diagramforge/pkg/imagegen"
)

// Options contains all configuration for one pipeline invocation.
type Options struct {
	// Input options
	InputPath  string // diagram source file: .svg, or .dot/.gv (rendered first)
	LayoutPath string // optional layout description file (JSON or YAML)

	// Context scalars; empty means absent
	Config string // configuration label
	Level  string // diagram level label
	Block  string // selected block name

	// Generation parameters
	Model string // image model identifier
	Size  string // target size string

	// Output options
	PromptOut string // path for the prompt document
	ImageOut  string // path for the generated image

	// Extraction bound; 0 means extract.DefaultMaxLabels
	MaxLabels int

	// Runtime options
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a file-based pipeline run.
type Result struct {
	// Resolved absolute paths. LayoutPath is empty when no layout
	// description was used.
	InputPath  string
	LayoutPath string
	PromptPath string
	ImagePath  string

	// Artifact carries the in-memory outputs and extraction signal.
	Artifact Artifact

	// Stats contains timing and size information.
	Stats Stats
}

// Artifact is the in-memory output of a pipeline execution.
type Artifact struct {
	Prompt string              // assembled prompt document
	Image  []byte              // raw decoded image bytes
	Labels []string            // extracted labels, in extraction order
	Layout extract.LayoutStats // layout statistics, fail-soft
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LabelCount   int
	PromptBytes  int
	ImageBytes   int
	ExtractTime  time.Duration
	GenerateTime time.Duration
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.InputPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input diagram path is required")
	}
	if o.PromptOut == "" {
		return errors.New(errors.ErrCodeInvalidInput, "prompt output path is required")
	}
	if o.ImageOut == "" {
		return errors.New(errors.ErrCodeInvalidInput, "image output path is required")
	}

	o.SetDefaults()
	if err := imagegen.ValidateSize(o.Size); err != nil {
		return err
	}

	o.validated = true
	return nil
}

// SetDefaults fills generation parameters and the logger without validating
// paths. Serve mode uses this directly since it has no file paths.
func (o *Options) SetDefaults() {
	if o.Model == "" {
		o.Model = imagegen.DefaultModel
	}
	if o.Size == "" {
		o.Size = imagegen.DefaultSize
	}
	if o.MaxLabels == 0 {
		o.MaxLabels = extract.DefaultMaxLabels
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
