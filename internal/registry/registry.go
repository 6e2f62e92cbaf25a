// Package registry maps action slugs to their document template, derivation
// automation and form field schema, and owns the country table used by field
// derivation. Registered defaults cover the product's action catalogue;
// deployments can override or extend them with validated YAML files.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/docforge/docforge/internal/derive"
	"github.com/docforge/docforge/internal/docx"
)

// Sentinel errors for the registry package.
var (
	// ErrUnknownAction is returned for a slug with no registered config.
	ErrUnknownAction = errors.New("unknown action")

	// ErrMissingVariables is returned when required template variables
	// are absent from a data mapping.
	ErrMissingVariables = errors.New("missing required variables")
)

// Field types used by form schemas.
const (
	FieldTypeText   = "text"
	FieldTypeDate   = "date"
	FieldTypeTime   = "time"
	FieldTypeNumber = "number"
	FieldTypeSelect = "select"
	FieldTypeImage  = "image"
)

// Field describes one form input for an action. Names must match template
// placeholders exactly, casing included.
type Field struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Label       string   `json:"label" yaml:"label"`
	Section     string   `json:"section,omitempty" yaml:"section,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	Default     string   `json:"default,omitempty" yaml:"default,omitempty"`

	// Computed fields are filled by derivation, not shown on the form.
	Computed bool `json:"computed,omitempty" yaml:"computed,omitempty"`
	// BlankAllowed fields accept an intentionally empty value, e.g. a
	// meeting type of "None" canonicalized to "".
	BlankAllowed bool `json:"blank_allowed,omitempty" yaml:"blank_allowed,omitempty"`
	FullWidth    bool `json:"full_width,omitempty" yaml:"full_width,omitempty"`
}

// Action binds a slug to its template file, automation and field schema.
type Action struct {
	Slug       string  `json:"slug" yaml:"-"`
	Template   string  `json:"template" yaml:"template"`
	Automation string  `json:"automation" yaml:"automation"`
	Fields     []Field `json:"fields" yaml:"fields"`
}

// Registry is the shared action/country catalogue. Safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	actions      map[string]Action
	countries    map[string]derive.CountryInfo
	templatesDir string
	loadRetries  uint
	logger       *slog.Logger

	// metaCache holds placeholder scans of template files, keyed by
	// slug. Both the display schema and the validation schema derive
	// from a cached scan. Invalidated when the template file changes on
	// disk; see Watch.
	metaCache map[string][]docx.Placeholder
}

// Option configures a Registry.
type Option func(*Registry)

// WithTemplatesDir sets the directory template files are loaded from.
func WithTemplatesDir(dir string) Option {
	return func(r *Registry) { r.templatesDir = dir }
}

// WithLogger sets the registry logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithLoadRetries sets the attempt count for template reads.
func WithLoadRetries(n uint) Option {
	return func(r *Registry) {
		if n > 0 {
			r.loadRetries = n
		}
	}
}

// New creates a Registry seeded with the default action catalogue and
// country table.
func New(opts ...Option) *Registry {
	r := &Registry{
		actions:      defaultActions(),
		countries:    defaultCountries(),
		templatesDir: "templates",
		loadRetries:  3,
		logger:       slog.Default(),
		metaCache:    make(map[string][]docx.Placeholder),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Action returns the config for a slug.
func (r *Registry) Action(slug string) (Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.actions[slug]
	if !ok {
		return Action{}, fmt.Errorf("%w: %s", ErrUnknownAction, slug)
	}
	return a, nil
}

// Slugs returns all registered action slugs, sorted.
func (r *Registry) Slugs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slugs := make([]string, 0, len(r.actions))
	for slug := range r.actions {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Countries returns the country table for derivation.
func (r *Registry) Countries() map[string]derive.CountryInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]derive.CountryInfo, len(r.countries))
	for name, info := range r.countries {
		out[name] = info
	}
	return out
}

// TemplatePath resolves the template file path for a slug.
func (r *Registry) TemplatePath(slug string) (string, error) {
	a, err := r.Action(slug)
	if err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filepath.Join(r.templatesDir, a.Template), nil
}

// LoadTemplate reads the template bytes for a slug. Transient read failures
// are retried; a missing file is not.
func (r *Registry) LoadTemplate(ctx context.Context, slug string) ([]byte, error) {
	path, err := r.TemplatePath(slug)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = retry.Do(
		func() error {
			var readErr error
			data, readErr = os.ReadFile(path)
			return readErr
		},
		retry.Context(ctx),
		retry.Attempts(r.loadRetries),
		retry.Delay(100*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, fs.ErrNotExist)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load template for %s: %w", slug, err)
	}
	return data, nil
}
