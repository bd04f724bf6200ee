package cli

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	forgeerrors "github.com/diagramforge/diagramforge/pkg/errors"
	"github.com/diagramforge/diagramforge/pkg/pipeline"
)

// serveCommand creates the serve command, exposing the generation pipeline
// over HTTP. The pipeline has no shared mutable state, so concurrent
// requests need no coordination beyond what net/http already provides.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation pipeline over HTTP",
		Long: `Serve exposes POST /api/v1/generate: the in-memory variant of the
generation pipeline. The request carries the diagram source text and optional
layout description inline; the response carries the assembled prompt and the
generated image as base64. Nothing is written to disk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

// generateRequest is the POST /api/v1/generate request body.
type generateRequest struct {
	SVG          string `json:"svg"`                     // diagram source text (required)
	Layout       string `json:"layout,omitempty"`        // optional layout description content
	LayoutFormat string `json:"layout_format,omitempty"` // "json" (default) or "yaml"
	Config       string `json:"config,omitempty"`
	Level        string `json:"level,omitempty"`
	Block        string `json:"block,omitempty"`
	Model        string `json:"model,omitempty"`
	Size         string `json:"size,omitempty"`
}

// generateResponse is the POST /api/v1/generate response body.
type generateResponse struct {
	Prompt    string   `json:"prompt"`
	ImageB64  string   `json:"image_b64"`
	Labels    []string `json:"labels,omitempty"`
	NodeCount int      `json:"node_count"`
	EdgeCount int      `json:"edge_count"`
}

// errorResponse is the JSON error body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// runServe starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cfg)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/api/v1/generate", c.handleGenerate(runner, cfg.Model, cfg.Size))
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{Addr: addr, Handler: r}

	c.Logger.Info("serving generation pipeline", "addr", addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// handleGenerate runs the in-memory pipeline for one request.
func (c *CLI) handleGenerate(runner *pipeline.Runner, defaultModel, defaultSize string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		requestID := uuid.NewString()
		logger := c.Logger.With("request_id", requestID)

		var body generateRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		if body.SVG == "" {
			writeError(w, http.StatusBadRequest, errorResponse{Error: "svg is required", Code: string(forgeerrors.ErrCodeInvalidInput)})
			return
		}

		model := body.Model
		if model == "" {
			model = defaultModel
		}
		size := body.Size
		if size == "" {
			size = defaultSize
		}

		var layout []byte
		if body.Layout != "" {
			layout = []byte(body.Layout)
		}

		logger.Info("generation request", "svg_bytes", len(body.SVG), "model", model, "size", size)

		artifact, err := runner.Execute(req.Context(), pipeline.Source{
			SVG:        body.SVG,
			Layout:     layout,
			LayoutYAML: body.LayoutFormat == "yaml",
			Config:     body.Config,
			Level:      body.Level,
			Block:      body.Block,
			Model:      model,
			Size:       size,
		})
		if err != nil {
			status := statusForError(err)
			logger.Error("generation failed", "status", status, "error", err)
			writeError(w, status, errorResponse{
				Error: forgeerrors.UserMessage(err),
				Code:  string(forgeerrors.GetCode(err)),
			})
			return
		}

		logger.Info("generation complete", "image_bytes", len(artifact.Image), "labels", len(artifact.Labels))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(generateResponse{
			Prompt:    artifact.Prompt,
			ImageB64:  base64.StdEncoding.EncodeToString(artifact.Image),
			Labels:    artifact.Labels,
			NodeCount: artifact.Layout.Nodes,
			EdgeCount: artifact.Layout.Edges,
		})
	}
}

// statusForError maps pipeline error codes onto HTTP statuses.
func statusForError(err error) int {
	switch forgeerrors.GetCode(err) {
	case forgeerrors.ErrCodeInvalidInput, forgeerrors.ErrCodeInvalidSize:
		return http.StatusBadRequest
	case forgeerrors.ErrCodeService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
