package docx

import (
	"regexp"
	"sort"
	"strings"
)

// Placeholder syntax, bit-exact with the existing template corpus:
//
//	{{Name}}   text substitution
//	{{%Name}}  image slot (sigil inside the text delimiters)
//	{%Name}    image slot (single-brace form)
//
// Word frequently splits a literal placeholder across several runs, so the
// expressions tolerate XML tags between any two characters of a wrapped tag.
var (
	// placeholderRe matches a wrapped {{...}} tag (text or image) or a
	// single-brace {%...} image tag, allowing run-boundary XML inside.
	placeholderRe = regexp.MustCompile(`\{(?:<[^>]*>)*\{(?:<[^>]*>|[^{}<])*\}(?:<[^>]*>)*\}|\{%(?:<[^>]*>|[^{}<])*\}`)

	xmlTagRe = regexp.MustCompile(`<[^>]*>`)

	// variableNameRe is the set of names treated as template variables.
	// Anything else inside delimiters (loop markers, stray XML) is not a
	// variable.
	variableNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// CanonicalImageKey strips the image sigil from a placeholder name. Every
// boundary that reads or writes an image key goes through this one function
// so "%logo" and "logo" always address the same slot.
func CanonicalImageKey(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "%")
}

// tag is one parsed placeholder occurrence.
type tag struct {
	raw   string // the exact matched source text, XML splits included
	name  string // canonical variable name (sigil stripped for images)
	image bool
}

// parseTag interprets one placeholder match. ok is false when the delimiter
// content is not a usable variable name (control markers, garbage).
func parseTag(raw string) (tag, bool) {
	clean := xmlTagRe.ReplaceAllString(raw, "")
	t := tag{raw: raw}

	switch {
	case strings.HasPrefix(clean, "{{") && strings.HasSuffix(clean, "}}"):
		name := strings.TrimSpace(clean[2 : len(clean)-2])
		if strings.HasPrefix(name, "%") {
			t.image = true
			name = CanonicalImageKey(name)
		}
		t.name = name
	case strings.HasPrefix(clean, "{%") && strings.HasSuffix(clean, "}"):
		t.image = true
		t.name = CanonicalImageKey(clean[1 : len(clean)-1])
	default:
		return t, false
	}

	if t.name == "" || strings.HasPrefix(t.name, "#") || strings.HasPrefix(t.name, "/") {
		return t, false
	}
	if !variableNameRe.MatchString(t.name) {
		return t, false
	}
	return t, true
}

// Placeholder describes one variable discovered in a template.
type Placeholder struct {
	Name  string
	Image bool
}

// ScanPlaceholders introspects every XML part of a template archive and
// returns the deduplicated set of placeholder names, image names already
// canonicalized. Loop and conditional control markers are skipped. Result is
// sorted by name; an occurrence as an image anywhere wins over text.
func ScanPlaceholders(template []byte) ([]Placeholder, error) {
	pkg, err := OpenPackage(template)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool)
	for _, partName := range pkg.XMLPartNames() {
		content, _ := pkg.Part(partName)
		for _, raw := range placeholderRe.FindAllString(string(content), -1) {
			t, ok := parseTag(raw)
			if !ok {
				continue
			}
			found[t.name] = found[t.name] || t.image
		}
	}

	out := make([]Placeholder, 0, len(found))
	for name, image := range found {
		out = append(out, Placeholder{Name: name, Image: image})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
