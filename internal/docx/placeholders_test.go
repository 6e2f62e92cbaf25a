package docx

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/docforge/docforge/internal/testutil"
)

func TestCanonicalImageKey(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"%logo", "logo"},
		{"logo", "logo"},
		{" %logo ", "logo"},
		{"%", ""},
	} {
		if got := CanonicalImageKey(tc.in); got != tc.want {
			t.Errorf("CanonicalImageKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestScanPlaceholders(t *testing.T) {
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml": testutil.DocumentXML(
			testutil.Paragraph("{{Venue_Name}} on {{Event_Date}}") +
				testutil.Paragraph("{{%logo}}") +
				testutil.Paragraph("{{#each}}{{Venue_Name}}{{/each}}")),
		"word/header1.xml": `<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			testutil.Paragraph("{{Claimant_Name}} {%seal}") + `</w:hdr>`,
	}

	got, err := ScanPlaceholders(testutil.BuildDocx(t, parts))
	if err != nil {
		t.Fatalf("ScanPlaceholders() error = %v", err)
	}

	want := []Placeholder{
		{Name: "Claimant_Name"},
		{Name: "Event_Date"},
		{Name: "Venue_Name"},
		{Name: "logo", Image: true},
		{Name: "seal", Image: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("placeholders mismatch (-want +got):\n%s", diff)
	}
}

func TestScanPlaceholders_SplitAcrossRuns(t *testing.T) {
	body := `<w:p><w:r><w:t>{{Cla</w:t></w:r><w:r><w:t>imant_Name}}</w:t></w:r></w:p>`
	got, err := ScanPlaceholders(testutil.MinimalDocx(t, body))
	if err != nil {
		t.Fatalf("ScanPlaceholders() error = %v", err)
	}

	want := []Placeholder{{Name: "Claimant_Name"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("placeholders mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTag(t *testing.T) {
	for _, tc := range []struct {
		raw       string
		wantName  string
		wantImage bool
		wantOK    bool
	}{
		{"{{Venue_Name}}", "Venue_Name", false, true},
		{"{{%logo}}", "logo", true, true},
		{"{%logo}", "logo", true, true},
		{"{{#loop}}", "", false, false},
		{"{{/loop}}", "", false, false},
		{"{{bad name}}", "", false, false},
		{"{{}}", "", false, false},
	} {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := parseTag(tc.raw)
			if ok != tc.wantOK {
				t.Fatalf("parseTag(%q) ok = %v, want %v", tc.raw, ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if got.name != tc.wantName || got.image != tc.wantImage {
				t.Errorf("parseTag(%q) = (%q, image=%v), want (%q, image=%v)",
					tc.raw, got.name, got.image, tc.wantName, tc.wantImage)
			}
		})
	}
}
