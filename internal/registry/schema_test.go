package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadActionsFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("merges_and_defaults_automation", func(t *testing.T) {
		path := writeFile(t, dir, "actions.yaml", `
actions:
  site-visit:
    template: siteVisit.docx
    fields:
      - name: Visit_Date
        type: date
        label: Visit Date
  cancel-venue:
    template: cancelVenueV2.docx
    automation: cancelVenue
`)
		r := New()
		if err := r.LoadActionsFile(path); err != nil {
			t.Fatalf("LoadActionsFile() error = %v", err)
		}

		added, err := r.Action("site-visit")
		if err != nil {
			t.Fatalf("Action(site-visit) error = %v", err)
		}
		if added.Automation != "generic" {
			t.Errorf("Automation = %q, want generic default", added.Automation)
		}
		if added.Slug != "site-visit" {
			t.Errorf("Slug = %q, want site-visit", added.Slug)
		}

		replaced, err := r.Action("cancel-venue")
		if err != nil {
			t.Fatalf("Action(cancel-venue) error = %v", err)
		}
		if replaced.Template != "cancelVenueV2.docx" {
			t.Errorf("Template = %q, want cancelVenueV2.docx", replaced.Template)
		}
	})

	t.Run("rejects_bad_template_extension", func(t *testing.T) {
		path := writeFile(t, dir, "bad-ext.yaml", `
actions:
  site-visit:
    template: siteVisit.pdf
`)
		if err := New().LoadActionsFile(path); err == nil {
			t.Fatal("LoadActionsFile() accepted a non-docx template")
		}
	})

	t.Run("rejects_unknown_field_type", func(t *testing.T) {
		path := writeFile(t, dir, "bad-type.yaml", `
actions:
  site-visit:
    template: siteVisit.docx
    fields:
      - name: X
        type: checkbox
`)
		if err := New().LoadActionsFile(path); err == nil {
			t.Fatal("LoadActionsFile() accepted an unknown field type")
		}
	})

	t.Run("rejects_invalid_yaml", func(t *testing.T) {
		path := writeFile(t, dir, "broken.yaml", "actions: [unclosed")
		if err := New().LoadActionsFile(path); err == nil {
			t.Fatal("LoadActionsFile() accepted malformed YAML")
		}
	})
}

func TestLoadCountriesFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("merges", func(t *testing.T) {
		path := writeFile(t, dir, "countries.yaml", `
countries:
  Singapore:
    standard_time: Singapore Standard Time (SGT)
    dialing_code: "+65"
    standard_time_short: SGT
    currency: SGD
`)
		r := New()
		if err := r.LoadCountriesFile(path); err != nil {
			t.Fatalf("LoadCountriesFile() error = %v", err)
		}
		info, ok := r.Countries()["Singapore"]
		if !ok {
			t.Fatal("Singapore not merged into country table")
		}
		if info.Currency != "SGD" {
			t.Errorf("Currency = %q, want SGD", info.Currency)
		}
		if _, ok := r.Countries()["India"]; !ok {
			t.Error("merge dropped seeded countries")
		}
	})

	t.Run("rejects_missing_key", func(t *testing.T) {
		path := writeFile(t, dir, "incomplete.yaml", `
countries:
  Singapore:
    standard_time: Singapore Standard Time (SGT)
`)
		if err := New().LoadCountriesFile(path); err == nil {
			t.Fatal("LoadCountriesFile() accepted an incomplete country entry")
		}
	})
}
