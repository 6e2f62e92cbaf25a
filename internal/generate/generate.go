// Package generate orchestrates document production: field derivation,
// validation, template merge, stylesheet normalization, and the preview
// masking path for trial users.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/docforge/docforge/internal/derive"
	"github.com/docforge/docforge/internal/docx"
	"github.com/docforge/docforge/internal/preview"
	"github.com/docforge/docforge/internal/registry"
)

// ErrGenerationFailed wraps internal pipeline failures. The detailed cause is
// logged server-side; callers show users only this generic message.
var ErrGenerationFailed = errors.New("document generation failed")

// Artifact is a finished document.
type Artifact struct {
	ID      string `json:"id"`
	Action  string `json:"action"`
	Preview bool   `json:"preview"`
	MIME    string `json:"mime"`
	Data    []byte `json:"-"`
}

// Options control a single generation.
type Options struct {
	// Preview masks sensitive values before merge and injects the trial
	// banner after normalization.
	Preview bool
}

// Generator produces documents for registered actions.
type Generator struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// New creates a Generator backed by the given registry.
func New(reg *registry.Registry, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		registry: reg,
		logger:   logger.With("component", "generate"),
	}
}

// Generate runs the full pipeline for an action. Derivation and validation
// failures come back as-is: they carry messages fit for the submitter. Merge
// and banner failures are internal, logged in full and wrapped as
// ErrGenerationFailed.
func (g *Generator) Generate(ctx context.Context, slug string, input map[string]string, images map[string][]byte, opts Options) (*Artifact, error) {
	action, err := g.registry.Action(slug)
	if err != nil {
		return nil, err
	}

	imageData := make(map[string][]byte, len(images))
	for key, blob := range images {
		imageData[docx.CanonicalImageKey(key)] = blob
	}

	pipeline := derive.NewPipeline(g.registry.Countries(), g.logger)
	derived, err := pipeline.Run(input)
	if err != nil {
		return nil, err
	}

	fields, err := g.registry.ValidationFields(ctx, slug)
	if err != nil {
		return nil, g.internal(slug, "failed to resolve field schema", err)
	}
	data, err := registry.ValidateVariables(derived, fields)
	if err != nil {
		return nil, err
	}

	if opts.Preview {
		data = preview.MaskData(data)
	}

	template, err := g.registry.LoadTemplate(ctx, slug)
	if err != nil {
		return nil, g.internal(slug, "failed to load template", err)
	}

	merged, err := docx.Merge(template, data, imageData)
	if err != nil {
		return nil, g.internal(slug, "template merge failed", err)
	}

	normalized, err := docx.NormalizeStyles(merged)
	if err != nil {
		return nil, g.internal(slug, "stylesheet normalization failed", err)
	}

	if opts.Preview {
		normalized, err = preview.InjectBanner(normalized)
		if err != nil {
			return nil, g.internal(slug, "banner injection failed", err)
		}
	}

	return &Artifact{
		ID:      uuid.NewString(),
		Action:  action.Slug,
		Preview: opts.Preview,
		MIME:    docx.MIMEType,
		Data:    normalized,
	}, nil
}

// internal logs a pipeline failure with its full cause and returns the
// generic generation error for the caller.
func (g *Generator) internal(slug, msg string, err error) error {
	g.logger.Error(msg, "action", slug, "error", err)
	return fmt.Errorf("%w: %s", ErrGenerationFailed, msg)
}
