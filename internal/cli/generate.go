package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/diagramforge/diagramforge/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	inputSVG   string // input diagram path (SVG, or DOT rendered in-process)
	layoutJSON string // optional layout description path (JSON or YAML)
	config     string // configuration label (e.g. Chipyard CONFIG)
	level      string // diagram level label (L1/L2/L3/L4)
	block      string // selected block name for L2/L3/L4
	promptOut  string // path to write the generated prompt text
	imageOut   string // path to write the generated image
	provider   string // image provider override
	model      string // image model override
	size       string // image size override
	maxLabels  int    // cap on extracted labels
}

// generateCommand creates the generate command, the main entry point of the
// tool: extract signal from the diagram, assemble the prompt, call the image
// service, and persist both artifacts.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an AI-rendered diagram from diagrammer SVG/layout outputs",
		Long: `Generate reads a block diagram (SVG, or Graphviz DOT rendered in-process),
extracts its visible labels and optional node/edge counts, assembles a
deterministic generation prompt, and requests a polished rendition from the
configured image-synthesis service.

The prompt document is persisted before the service call and kept even if
generation fails, so a failed run can be diagnosed and retried cheaply.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.inputSVG, "input-svg", "", "input diagram SVG path (required)")
	cmd.Flags().StringVar(&opts.layoutJSON, "layout-json", "", "optional input layout JSON/YAML path")
	cmd.Flags().StringVar(&opts.config, "config", "", "configuration label (e.g. Chipyard CONFIG)")
	cmd.Flags().StringVar(&opts.level, "level", "", "diagram level label (L1/L2/L3/L4)")
	cmd.Flags().StringVar(&opts.block, "block", "", "optional selected block name for L2/L3/L4")
	cmd.Flags().StringVar(&opts.promptOut, "prompt-out", "", "path to write generated prompt text (required)")
	cmd.Flags().StringVar(&opts.imageOut, "image-out", "", "path to write generated image (required)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "image provider (default from config, openai)")
	cmd.Flags().StringVar(&opts.model, "model", "", "image model name (default from config)")
	cmd.Flags().StringVar(&opts.size, "size", "", "image size for the generation API (default from config)")
	cmd.Flags().IntVar(&opts.maxLabels, "max-labels", 0, "maximum labels extracted from the diagram (default 80)")

	_ = cmd.MarkFlagRequired("input-svg")
	_ = cmd.MarkFlagRequired("prompt-out")
	_ = cmd.MarkFlagRequired("image-out")

	return cmd
}

// runGenerate executes the full pipeline and prints the resolved artifact
// paths on success.
func (c *CLI) runGenerate(ctx context.Context, opts *generateOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	// Flags override config file and environment.
	if opts.provider != "" {
		cfg.Provider = opts.provider
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.size != "" {
		cfg.Size = opts.size
	}

	runner, err := c.newRunner(cfg)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Generating image...")
	spinner.Start()

	result, err := runner.Run(ctx, pipeline.Options{
		InputPath:  opts.inputSVG,
		LayoutPath: opts.layoutJSON,
		Config:     opts.config,
		Level:      opts.level,
		Block:      opts.block,
		Model:      cfg.Model,
		Size:       cfg.Size,
		PromptOut:  opts.promptOut,
		ImageOut:   opts.imageOut,
		MaxLabels:  opts.maxLabels,
		Logger:     c.Logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Generated diagram image")

	printSuccess("Diagram rendered")
	printKeyValue("Input SVG", result.InputPath)
	if result.LayoutPath != "" {
		printKeyValue("Layout JSON", result.LayoutPath)
	}
	printKeyValue("Saved prompt", result.PromptPath)
	printKeyValue("Saved image", result.ImagePath)
	printStats(result.Artifact.Layout.Nodes, result.Artifact.Layout.Edges, result.Stats.LabelCount)

	return nil
}
