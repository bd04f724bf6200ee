// Package cli implements the diagramforge command-line interface.
//
// This package provides commands for generating AI-rendered architecture
// diagrams from diagrammer SVG/layout outputs and for serving the same
// pipeline over HTTP. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Turn a diagram SVG (plus optional layout description) into
//     a prompt document and an AI-rendered image
//   - serve: Expose the generation pipeline as an HTTP endpoint
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/diagramforge/diagramforge/pkg/buildinfo"
	"github.com/diagramforge/diagramforge/pkg/config"
	"github.com/diagramforge/diagramforge/pkg/imagegen"
	"github.com/diagramforge/diagramforge/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "diagramforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath overrides the default config file location (--config-file).
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Diagramforge renders schematic block diagrams as polished images",
		Long:         `Diagramforge converts a structural block diagram (SVG or Graphviz DOT, plus an optional node/edge layout description) into a generation prompt and requests a visually polished rendition from an external image-synthesis service.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config-file", "", "config file (default ~/.config/diagramforge/config.toml)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file (honoring --config-file) merged with
// environment values.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner builds a pipeline runner backed by the configured provider.
func (c *CLI) newRunner(cfg *config.Config) (*pipeline.Runner, error) {
	gen, err := imagegen.New(imagegen.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(gen, c.Logger), nil
}
