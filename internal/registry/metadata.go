package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docforge/docforge/internal/docx"
)

// sectionOrder is the fixed form section precedence. Attachments (image
// fields) always render last.
var sectionOrder = []string{
	"Dates",
	"Claimant Details",
	"Times",
	"Venue Information",
	"Accommodation",
	"Notary",
	"ENT Test",
	"Distance & Options",
	"General",
	"Attachments",
}

// Metadata returns the form schema for an action: what the boundary shows a
// submitter. A registered field list wins, computed entries filtered out;
// otherwise the template's placeholders are introspected and field types and
// sections inferred from naming. Scans are cached until the template file
// changes (see Watch).
func (r *Registry) Metadata(ctx context.Context, slug string) ([]Field, error) {
	a, err := r.Action(slug)
	if err != nil {
		return nil, err
	}

	if input := inputFields(a.Fields); len(input) > 0 {
		return input, nil
	}

	placeholders, err := r.scanTemplate(ctx, slug)
	if err != nil {
		return nil, err
	}
	return InferFields(placeholders), nil
}

// ValidationFields returns the schema merged data is validated against: the
// full registered field list, computed entries included, or every placeholder
// the template carries when no list is registered. Computed names are
// required here so a failed derivation surfaces as missing variables rather
// than an unresolved placeholder deep in the merge.
func (r *Registry) ValidationFields(ctx context.Context, slug string) ([]Field, error) {
	a, err := r.Action(slug)
	if err != nil {
		return nil, err
	}

	if len(a.Fields) > 0 {
		return a.Fields, nil
	}

	placeholders, err := r.scanTemplate(ctx, slug)
	if err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(placeholders))
	for _, p := range placeholders {
		f := buildField(p)
		f.Computed = computedVariables[p.Name]
		fields = append(fields, f)
	}
	sortFields(fields)
	return fields, nil
}

// scanTemplate loads and introspects the template for a slug, serving
// repeated calls from the cache.
func (r *Registry) scanTemplate(ctx context.Context, slug string) ([]docx.Placeholder, error) {
	r.mu.RLock()
	cached, ok := r.metaCache[slug]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	template, err := r.LoadTemplate(ctx, slug)
	if err != nil {
		return nil, err
	}
	placeholders, err := docx.ScanPlaceholders(template)
	if err != nil {
		return nil, fmt.Errorf("failed to extract variables for %s: %w", slug, err)
	}

	r.mu.Lock()
	r.metaCache[slug] = placeholders
	r.mu.Unlock()
	return placeholders, nil
}

// inputFields filters a registered schema down to what the form shows.
func inputFields(fields []Field) []Field {
	var out []Field
	for _, f := range fields {
		if !f.Computed {
			out = append(out, f)
		}
	}
	return out
}

// InferFields derives a form schema from extracted placeholders: computed
// variables are dropped, types and sections are inferred from naming, and
// the result is ordered by section precedence then name.
func InferFields(placeholders []docx.Placeholder) []Field {
	var fields []Field
	for _, p := range placeholders {
		if computedVariables[p.Name] {
			continue
		}
		fields = append(fields, buildField(p))
	}
	sortFields(fields)
	return fields
}

func sortFields(fields []Field) {
	rank := func(section string) int {
		for i, s := range sectionOrder {
			if s == section {
				return i
			}
		}
		return len(sectionOrder)
	}
	sort.Slice(fields, func(i, j int) bool {
		ri, rj := rank(fields[i].Section), rank(fields[j].Section)
		if ri != rj {
			return ri < rj
		}
		return fields[i].Name < fields[j].Name
	})
}

func buildField(p docx.Placeholder) Field {
	f := Field{
		Name:    p.Name,
		Label:   formatLabel(p.Name),
		Section: inferSection(p.Name, p.Image),
	}
	if p.Image {
		f.Type = FieldTypeImage
		f.FullWidth = true
		return f
	}
	f.Type = inferFieldType(p.Name)
	if f.Type == FieldTypeSelect {
		options, ok := selectOptionsByVariable[p.Name]
		if !ok {
			options = []string{"None"}
		}
		f.Options = options
		f.BlankAllowed = true
	}
	return f
}

// inferFieldType guesses a display type from a variable name.
func inferFieldType(name string) string {
	lower := strings.ToLower(name)
	switch {
	case lower == "logo" || strings.Contains(lower, "image") ||
		strings.Contains(lower, "photo") || strings.Contains(lower, "picture"):
		return FieldTypeImage
	case strings.Contains(lower, "date"):
		return FieldTypeDate
	case strings.Contains(lower, "time"):
		return FieldTypeTime
	case strings.Contains(lower, "distance") || strings.Contains(lower, "kilometres") ||
		strings.Contains(lower, "miles") || strings.Contains(lower, "number"):
		return FieldTypeNumber
	case strings.Contains(name, "Type") && name != "Event_Type":
		return FieldTypeSelect
	default:
		return FieldTypeText
	}
}

// inferSection guesses the form section from a variable name.
func inferSection(name string, image bool) string {
	n := strings.ToLower(name)
	switch {
	case image || n == "logo" || strings.Contains(n, "image") ||
		strings.Contains(n, "photo") || strings.Contains(n, "picture"):
		return "Attachments"
	case strings.Contains(n, "date") || strings.Contains(n, "fr"):
		return "Dates"
	case strings.Contains(n, "claimant") || strings.Contains(n, "event_type"):
		return "Claimant Details"
	case strings.Contains(n, "time"):
		return "Times"
	case strings.Contains(n, "accommodation") || strings.Contains(n, "hotel") ||
		(strings.Contains(n, "booking") && strings.Contains(n, "room")):
		return "Accommodation"
	case strings.Contains(n, "notary"):
		return "Notary"
	case strings.Contains(n, "ent") && (strings.Contains(n, "test") || strings.Contains(n, "exam")):
		return "ENT Test"
	case strings.Contains(n, "venue") || strings.Contains(n, "reception"):
		return "Venue Information"
	case strings.Contains(n, "distance") || strings.Contains(n, "meeting") || strings.Contains(n, "type"):
		return "Distance & Options"
	default:
		return "General"
	}
}

// formatLabel turns a variable name into a display label.
func formatLabel(name string) string {
	name = strings.TrimPrefix(name, "%")
	name = strings.ReplaceAll(name, "_", " ")

	var sb strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(name[i-1])
			if prev >= 'a' && prev <= 'z' || prev >= '0' && prev <= '9' {
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune(r)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// InvalidateMetadata drops the cached extracted schema for a slug.
func (r *Registry) InvalidateMetadata(slug string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.metaCache, slug)
}
