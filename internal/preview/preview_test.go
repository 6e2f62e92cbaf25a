package preview

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/docforge/docforge/internal/docx"
	"github.com/docforge/docforge/internal/testutil"
)

func TestSensitiveVariables(t *testing.T) {
	want := []string{
		"Claimant_Name",
		"Reception_Person_Name",
		"Venue_Address",
		"Venue_Name",
		"Venue_Number",
	}
	got := SensitiveVariables()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SensitiveVariables() mismatch (-want +got):\n%s", diff)
	}

	// Callers get their own slice.
	got[0] = "tampered"
	if SensitiveVariables()[0] != "Claimant_Name" {
		t.Error("SensitiveVariables() returned shared internal slice")
	}
}

func TestMaskData(t *testing.T) {
	t.Run("masks_sensitive_values", func(t *testing.T) {
		data := map[string]string{
			"Claimant_Name": "Jane Doe",
			"Venue_Name":    "Grand Hall",
			"Event_Date":    "2025-03-15",
		}
		got := MaskData(data)
		want := map[string]string{
			"Claimant_Name": Mask,
			"Venue_Name":    Mask,
			"Event_Date":    "2025-03-15",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("MaskData() mismatch (-want +got):\n%s", diff)
		}
		if data["Claimant_Name"] != "Jane Doe" {
			t.Error("MaskData() mutated its input")
		}
	})

	t.Run("empty_values_stay_empty", func(t *testing.T) {
		got := MaskData(map[string]string{"Venue_Number": ""})
		if got["Venue_Number"] != "" {
			t.Errorf("Venue_Number = %q, want empty string left alone", got["Venue_Number"])
		}
	})

	t.Run("custom_key_set", func(t *testing.T) {
		got := MaskData(map[string]string{
			"Claimant_Name": "Jane Doe",
			"Secret":        "s3cret",
		}, "Secret")
		if got["Secret"] != Mask {
			t.Errorf("Secret = %q, want mask", got["Secret"])
		}
		if got["Claimant_Name"] != "Jane Doe" {
			t.Errorf("Claimant_Name = %q, default set should not apply when keys given", got["Claimant_Name"])
		}
	})
}

func TestInjectBanner(t *testing.T) {
	doc := testutil.MinimalDocx(t, testutil.Paragraph("Meeting at Grand Hall"))

	got, err := InjectBanner(doc)
	if err != nil {
		t.Fatalf("InjectBanner() error = %v", err)
	}

	text, err := docx.ExtractText(got)
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if !strings.HasPrefix(text, "Trial Preview – Limited View") {
		t.Errorf("banner is not the first content, got:\n%s", text)
	}
	for _, line := range []string{
		"Some details are hidden during the free trial.",
		"Download the DOCX to get the complete document.",
		"Meeting at Grand Hall",
	} {
		if !strings.Contains(text, line) {
			t.Errorf("output text missing %q", line)
		}
	}

	// The banner must come before the original body content.
	if strings.Index(text, "Trial Preview") > strings.Index(text, "Grand Hall") {
		t.Error("banner injected after document content")
	}

	// Input is untouched.
	if !bytes.Equal(doc, testutil.MinimalDocx(t, testutil.Paragraph("Meeting at Grand Hall"))) {
		t.Error("InjectBanner() mutated its input buffer")
	}
}

func TestInjectBannerInvalidStructure(t *testing.T) {
	t.Run("missing_document_part", func(t *testing.T) {
		doc := testutil.BuildDocx(t, map[string]string{
			"word/styles.xml": testutil.StylesXML("Calibri", "22"),
		})
		_, err := InjectBanner(doc)
		if !errors.Is(err, ErrInvalidDocumentStructure) {
			t.Fatalf("InjectBanner() error = %v, want ErrInvalidDocumentStructure", err)
		}
	})

	t.Run("no_body_element", func(t *testing.T) {
		doc := testutil.BuildDocx(t, map[string]string{
			"word/document.xml": `<?xml version="1.0"?><w:document></w:document>`,
		})
		_, err := InjectBanner(doc)
		if !errors.Is(err, ErrInvalidDocumentStructure) {
			t.Fatalf("InjectBanner() error = %v, want ErrInvalidDocumentStructure", err)
		}
	})

	t.Run("not_a_zip", func(t *testing.T) {
		_, err := InjectBanner([]byte("plain text"))
		if err == nil {
			t.Fatal("InjectBanner() accepted a non-archive buffer")
		}
	})
}
