package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/docforge/docforge/internal/docx"
	"github.com/docforge/docforge/internal/testutil"
)

func TestAction(t *testing.T) {
	r := New()

	t.Run("known_slug", func(t *testing.T) {
		a, err := r.Action("arrange-venue")
		if err != nil {
			t.Fatalf("Action() error = %v", err)
		}
		if a.Template != "arrangeVenue.docx" {
			t.Errorf("Template = %q, want arrangeVenue.docx", a.Template)
		}
		if a.Automation != "arrangeVenue" {
			t.Errorf("Automation = %q, want arrangeVenue", a.Automation)
		}
		if len(a.Fields) == 0 {
			t.Error("arrange-venue should carry a registered field schema")
		}
	})

	t.Run("unknown_slug", func(t *testing.T) {
		_, err := r.Action("summon-dragon")
		if !errors.Is(err, ErrUnknownAction) {
			t.Fatalf("Action() error = %v, want ErrUnknownAction", err)
		}
	})
}

func TestSlugsSortedAndComplete(t *testing.T) {
	r := New()
	slugs := r.Slugs()
	if len(slugs) != 17 {
		t.Fatalf("len(Slugs()) = %d, want 17", len(slugs))
	}
	for i := 1; i < len(slugs); i++ {
		if slugs[i-1] >= slugs[i] {
			t.Fatalf("slugs not sorted: %q before %q", slugs[i-1], slugs[i])
		}
	}
}

func TestCountriesCopy(t *testing.T) {
	r := New()
	countries := r.Countries()
	if _, ok := countries["India"]; !ok {
		t.Fatal("default country table missing India")
	}
	if got := countries["UAE"].DialingCode; got != "+971" {
		t.Errorf("UAE dialing code = %q, want +971", got)
	}

	// Mutating the returned map must not touch the registry.
	delete(countries, "India")
	if _, ok := r.Countries()["India"]; !ok {
		t.Error("Countries() returned shared internal map")
	}
}

func TestInvalidateByTemplateFile(t *testing.T) {
	r := New()
	r.metaCache["cancel-venue"] = []docx.Placeholder{{Name: "Venue_Name"}}
	r.metaCache["arrange-notary"] = []docx.Placeholder{{Name: "Notary_Type"}}

	r.invalidateByTemplateFile("cancelVenue.docx")
	if _, ok := r.metaCache["cancel-venue"]; ok {
		t.Error("cancel-venue schema still cached after its template changed")
	}
	if _, ok := r.metaCache["arrange-notary"]; !ok {
		t.Error("unrelated cached schema was dropped")
	}

	// Non-template files are ignored.
	r.invalidateByTemplateFile("arrangeNotary.docx.swp")
	if _, ok := r.metaCache["arrange-notary"]; !ok {
		t.Error("editor temp file invalidated a cached schema")
	}
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()
	doc := testutil.MinimalDocx(t, testutil.Paragraph("hello"))
	if err := os.WriteFile(filepath.Join(dir, "cancelVenue.docx"), doc, 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(WithTemplatesDir(dir), WithLoadRetries(1))

	t.Run("reads_bytes", func(t *testing.T) {
		got, err := r.LoadTemplate(context.Background(), "cancel-venue")
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if len(got) != len(doc) {
			t.Errorf("LoadTemplate() returned %d bytes, want %d", len(got), len(doc))
		}
	})

	t.Run("missing_file_fails_fast", func(t *testing.T) {
		_, err := r.LoadTemplate(context.Background(), "arrange-notary")
		if err == nil {
			t.Fatal("LoadTemplate() succeeded for a missing template file")
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("LoadTemplate() error = %v, want wrapped fs.ErrNotExist", err)
		}
	})

	t.Run("unknown_action", func(t *testing.T) {
		_, err := r.LoadTemplate(context.Background(), "nope")
		if !errors.Is(err, ErrUnknownAction) {
			t.Fatalf("LoadTemplate() error = %v, want ErrUnknownAction", err)
		}
	})
}
