package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/diagramforge/diagramforge/pkg/errors"
	"github.com/diagramforge/diagramforge/pkg/extract"
	"github.com/diagramforge/diagramforge/pkg/imagegen"
	"github.com/diagramforge/diagramforge/pkg/prompt"
	"github.com/diagramforge/diagramforge/pkg/render"
)

// Runner executes the generation pipeline against a Generator.
//
// The Runner is stateless apart from its generator and logger; multiple
// goroutines can safely share one Runner with different options.
type Runner struct {
	Generator imagegen.Generator
	Logger    *log.Logger
}

// NewRunner creates a runner with the given generator.
// If logger is nil, log.Default() is used.
func NewRunner(gen imagegen.Generator, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Generator: gen, Logger: logger}
}

// Run executes the complete file-based pipeline: read inputs, extract,
// assemble, persist the prompt, generate, persist the image.
//
// A missing input diagram fails with INPUT_NOT_FOUND before anything is
// written. Once the prompt has been persisted it is never rolled back — a
// later generation failure leaves it in place for diagnosis and retry.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	inputPath, err := filepath.Abs(opts.InputPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve input path %s", opts.InputPath)
	}
	if info, err := os.Stat(inputPath); err != nil || !info.Mode().IsRegular() {
		return nil, errors.New(errors.ErrCodeInputNotFound, "input SVG not found: %s", inputPath)
	}

	source, err := r.readSource(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	layoutPath := ""
	if opts.LayoutPath != "" {
		if layoutPath, err = filepath.Abs(opts.LayoutPath); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve layout path %s", opts.LayoutPath)
		}
	}

	extractStart := time.Now()
	labels := extract.Labels(source, opts.MaxLabels)
	stats := extract.ReadLayoutStats(layoutPath)
	if stats.Status != extract.LayoutValid && layoutPath != "" {
		logger.Debug("layout description degraded to zero counts", "path", layoutPath, "status", stats.Status)
	}
	extractTime := time.Since(extractStart)

	logger.Info("extracted diagram signal",
		"labels", len(labels),
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"duration", extractTime.Round(time.Millisecond))

	doc := prompt.Build(prompt.Input{
		Source:    source,
		Labels:    labels,
		NodeCount: stats.Nodes,
		EdgeCount: stats.Edges,
		Config:    opts.Config,
		Level:     opts.Level,
		Block:     opts.Block,
	})

	promptPath, err := filepath.Abs(opts.PromptOut)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve prompt output path %s", opts.PromptOut)
	}
	imagePath, err := filepath.Abs(opts.ImageOut)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve image output path %s", opts.ImageOut)
	}

	if err := writeArtifact(promptPath, []byte(doc)); err != nil {
		return nil, err
	}
	logger.Info("persisted prompt document", "path", promptPath, "bytes", len(doc))

	generateStart := time.Now()
	image, err := r.Generator.Generate(ctx, imagegen.Request{
		Prompt: doc,
		Model:  opts.Model,
		Size:   opts.Size,
	})
	if err != nil {
		// The prompt artifact stays on disk by design.
		return nil, err
	}
	generateTime := time.Since(generateStart)

	if err := writeArtifact(imagePath, image); err != nil {
		return nil, err
	}
	logger.Info("persisted generated image",
		"path", imagePath,
		"bytes", len(image),
		"duration", generateTime.Round(time.Millisecond))

	result := &Result{
		InputPath:  inputPath,
		PromptPath: promptPath,
		ImagePath:  imagePath,
		Artifact: Artifact{
			Prompt: doc,
			Image:  image,
			Labels: labels,
			Layout: stats,
		},
		Stats: Stats{
			LabelCount:   len(labels),
			PromptBytes:  len(doc),
			ImageBytes:   len(image),
			ExtractTime:  extractTime,
			GenerateTime: generateTime,
		},
	}
	// Report the layout path only when it actually contributed a file.
	if layoutPath != "" && stats.Status != extract.LayoutAbsent {
		result.LayoutPath = layoutPath
	}
	return result, nil
}

// Source is the in-memory input for Execute, used by serve mode where no
// files are involved.
type Source struct {
	SVG        string // diagram source text
	Layout     []byte // optional raw layout description
	LayoutYAML bool   // parse Layout as YAML instead of JSON

	Config string
	Level  string
	Block  string

	Model     string
	Size      string
	MaxLabels int
}

// Execute runs extract → assemble → generate on in-memory inputs and returns
// the artifact without touching the filesystem.
func (r *Runner) Execute(ctx context.Context, src Source) (*Artifact, error) {
	opts := Options{Model: src.Model, Size: src.Size, MaxLabels: src.MaxLabels, Logger: r.Logger}
	opts.SetDefaults()
	if err := imagegen.ValidateSize(opts.Size); err != nil {
		return nil, err
	}

	labels := extract.Labels(src.SVG, opts.MaxLabels)
	stats := extract.LayoutStats{Status: extract.LayoutAbsent}
	if len(src.Layout) > 0 {
		stats = extract.ParseLayoutStats(src.Layout, src.LayoutYAML)
	}

	doc := prompt.Build(prompt.Input{
		Source:    src.SVG,
		Labels:    labels,
		NodeCount: stats.Nodes,
		EdgeCount: stats.Edges,
		Config:    src.Config,
		Level:     src.Level,
		Block:     src.Block,
	})

	image, err := r.Generator.Generate(ctx, imagegen.Request{
		Prompt: doc,
		Model:  opts.Model,
		Size:   opts.Size,
	})
	if err != nil {
		return nil, err
	}

	return &Artifact{Prompt: doc, Image: image, Labels: labels, Layout: stats}, nil
}

// readSource loads the diagram source as text, dropping any bytes that are
// not valid UTF-8 rather than failing. DOT inputs are rendered to SVG first
// so the rest of the pipeline always sees SVG text.
func (r *Runner) readSource(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInputNotFound, err, "read input diagram %s", path)
	}
	text := strings.ToValidUTF8(string(data), "")

	if render.IsDOTPath(path) {
		svg, err := render.DOTToSVG(ctx, text)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "render DOT input %s", path)
		}
		return svg, nil
	}
	return text, nil
}

// writeArtifact writes data to path, creating parent directories as needed.
func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create output directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
