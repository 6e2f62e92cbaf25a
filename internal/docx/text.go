package docx

import (
	"regexp"
	"strconv"
	"strings"
)

// escapeXML escapes special XML characters.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

var (
	lineBreakRe  = regexp.MustCompile(`(?i)<w:br\s*/?>`)
	paragraphRe  = regexp.MustCompile(`(?i)</w:p\s*>`)
	anyTagRe     = regexp.MustCompile(`<[^>]+>`)
	hexEntityRe  = regexp.MustCompile(`&#x([0-9a-fA-F]+);`)
	decEntityRe  = regexp.MustCompile(`&#(\d+);`)
	multiBlankRe = regexp.MustCompile(`\n{3,}`)
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
)

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

// ExtractText pulls readable plain text out of a merged document's main body.
// Paragraphs and explicit breaks become newlines, all other markup is
// dropped. Used by callers that need to inspect rendered content (preview
// assertions, boundary text previews) without a Word runtime.
func ExtractText(document []byte) (string, error) {
	pkg, err := OpenPackage(document)
	if err != nil {
		return "", err
	}

	content, ok := pkg.Part("word/document.xml")
	if !ok {
		return "", nil
	}

	text := lineBreakRe.ReplaceAllString(string(content), "\n")
	text = paragraphRe.ReplaceAllString(text, "\n")
	text = anyTagRe.ReplaceAllString(text, "")

	text = hexEntityRe.ReplaceAllStringFunc(text, func(m string) string {
		code, err := strconv.ParseInt(hexEntityRe.FindStringSubmatch(m)[1], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})
	text = decEntityRe.ReplaceAllStringFunc(text, func(m string) string {
		code, err := strconv.Atoi(decEntityRe.FindStringSubmatch(m)[1])
		if err != nil {
			return m
		}
		return string(rune(code))
	})
	text = entityReplacer.Replace(text)

	text = multiBlankRe.ReplaceAllString(text, "\n\n")
	text = spaceRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), nil
}
