// Package imagegen talks to external generative image-synthesis services.
//
// The package exposes a narrow capability interface, [Generator], so that
// orchestration and prompt-building code can be exercised with a substitute
// implementation instead of network access. The only shipped implementation
// targets OpenAI-compatible image endpoints (see [NewClient]).
//
// A Generator performs exactly one synchronous request per call: no retry, no
// backoff, no streaming. Callers that want cancellation must cancel the
// context; no client-side timeout is imposed.
package imagegen

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/diagramforge/diagramforge/pkg/errors"
)

// Generation defaults. The model matches the external service's current
// image model naming; the size is landscape to suit slide-width diagrams.
const (
	DefaultModel = "gpt-image-1"
	DefaultSize  = "1536x1024"
)

// Request describes one image generation call.
type Request struct {
	Prompt string // assembled prompt document, sent verbatim
	Model  string // service model identifier
	Size   string // target size, e.g. "1536x1024"
}

// Generator issues a single image generation request and returns the raw
// decoded image bytes.
//
// Failures are reported through the structured error codes in pkg/errors:
// CONFIG_MISSING for an absent credential (detected before any network I/O),
// DEPENDENCY_UNAVAILABLE for an unusable provider integration, and
// SERVICE_ERROR for any failure of the remote call itself.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// Config configures a Generator built by [New].
type Config struct {
	// Provider selects the service integration. Empty means "openai".
	Provider string

	// APIKey is the service credential. It may be left empty at construction;
	// Generate reports CONFIG_MISSING before attempting any network call.
	APIKey string

	// BaseURL overrides the provider's API endpoint. Used by tests and by
	// OpenAI-compatible proxy deployments.
	BaseURL string
}

// providers maps provider names to their client constructors. A name missing
// from this table is a dependency failure, not a service failure: the
// integration the caller asked for does not exist in this build.
var providers = map[string]func(Config) Generator{
	"openai": func(cfg Config) Generator { return newOpenAIClient(cfg) },
}

// New builds a Generator for the configured provider.
//
// An unknown provider yields DEPENDENCY_UNAVAILABLE with a hint listing the
// supported providers. The credential is deliberately not validated here —
// see [Config.APIKey].
func New(cfg Config) (Generator, error) {
	name := strings.ToLower(cfg.Provider)
	if name == "" {
		name = "openai"
	}

	construct, ok := providers[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeDependency, "unknown image provider %q", cfg.Provider).
			WithHint("Supported providers: %s.", strings.Join(providerNames(), ", "))
	}
	return construct(cfg), nil
}

func providerNames() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateSize checks that a size string has the WIDTHxHEIGHT form the
// service expects. The service enforces its own supported set; this only
// catches obvious CLI typos before a paid API call.
func ValidateSize(size string) error {
	parts := strings.Split(size, "x")
	if len(parts) != 2 {
		return errors.New(errors.ErrCodeInvalidSize, "invalid size %q (expected WIDTHxHEIGHT, e.g. %s)", size, DefaultSize)
	}
	for _, p := range parts {
		if p == "" {
			return errors.New(errors.ErrCodeInvalidSize, "invalid size %q (expected WIDTHxHEIGHT, e.g. %s)", size, DefaultSize)
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return errors.New(errors.ErrCodeInvalidSize, "invalid size %q (expected WIDTHxHEIGHT, e.g. %s)", size, DefaultSize)
			}
		}
	}
	return nil
}

// String implements fmt.Stringer for debug logging without dumping the full
// prompt into log lines.
func (r Request) String() string {
	return fmt.Sprintf("model=%s size=%s prompt=%d chars", r.Model, r.Size, len(r.Prompt))
}
