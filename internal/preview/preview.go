// Package preview redacts generated documents for trial consumption. Two
// deliberately separate guarantees: sensitive values are masked in the data
// mapping before merge, and a banner paragraph is injected into the merged
// document afterwards. Both are mandatory for a preview artifact, so a
// document can never leave the pipeline with real data and no banner.
package preview

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/docforge/docforge/internal/docx"
)

// ErrInvalidDocumentStructure is returned when a merged document is missing
// the parts banner injection needs.
var ErrInvalidDocumentStructure = errors.New("invalid document structure")

// Mask replaces sensitive values in a preview data mapping.
const Mask = "•••••"

// sensitiveVariables is the personal data never shown in a trial preview.
var sensitiveVariables = []string{
	"Claimant_Name",
	"Reception_Person_Name",
	"Venue_Address",
	"Venue_Name",
	"Venue_Number",
}

const bannerText = "Trial Preview – Limited View\n" +
	"Some details are hidden during the free trial.\n" +
	"Download the DOCX to get the complete document."

var (
	bodyOpenRe = regexp.MustCompile(`<w:body[^>]*>`)

	xmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
)

// SensitiveVariables returns the variable names masked in trial previews.
func SensitiveVariables() []string {
	out := make([]string, len(sensitiveVariables))
	copy(out, sensitiveVariables)
	return out
}

// MaskData returns a copy of data with sensitive values replaced by the mask
// token. Empty values stay empty so masking never invents content. The input
// mapping is not modified. When no keys are given the default sensitive set
// applies.
func MaskData(data map[string]string, keys ...string) map[string]string {
	if len(keys) == 0 {
		keys = sensitiveVariables
	}
	sensitive := make(map[string]bool, len(keys))
	for _, k := range keys {
		sensitive[k] = true
	}

	masked := make(map[string]string, len(data))
	for k, v := range data {
		if sensitive[k] && v != "" {
			masked[k] = Mask
		} else {
			masked[k] = v
		}
	}
	return masked
}

// bannerParagraphXML renders the banner as a single paragraph with explicit
// line breaks, escaped for XML safety.
func bannerParagraphXML() string {
	lines := strings.Split(bannerText, "\n")

	var sb strings.Builder
	sb.WriteString(`<w:p xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:r>`)
	for i, line := range lines {
		sb.WriteString(`<w:t xml:space="preserve">`)
		sb.WriteString(xmlEscaper.Replace(line))
		sb.WriteString(`</w:t>`)
		if i < len(lines)-1 {
			sb.WriteString(`<w:br/>`)
		}
	}
	sb.WriteString(`</w:r></w:p>`)
	return sb.String()
}

// InjectBanner inserts the trial banner paragraph immediately after the body
// opening tag of a merged document and returns the rebuilt archive. The input
// buffer is left untouched.
func InjectBanner(document []byte) ([]byte, error) {
	pkg, err := docx.OpenPackage(document)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}

	const docPart = "word/document.xml"
	body, ok := pkg.Part(docPart)
	if !ok {
		return nil, fmt.Errorf("%w: %s not found", ErrInvalidDocumentStructure, docPart)
	}

	loc := bodyOpenRe.FindIndex(body)
	if loc == nil {
		return nil, fmt.Errorf("%w: no body element in %s", ErrInvalidDocumentStructure, docPart)
	}

	banner := bannerParagraphXML()
	patched := make([]byte, 0, len(body)+len(banner))
	patched = append(patched, body[:loc[1]]...)
	patched = append(patched, banner...)
	patched = append(patched, body[loc[1]:]...)

	pkg.SetPart(docPart, patched)
	return pkg.Bytes()
}
