package docx

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Sentinel errors for the merge engine. The typed errors below unwrap to
// these so callers can branch with errors.Is while logs keep full detail.
var (
	// ErrUnresolvedPlaceholder is returned when a text tag has no value.
	// Silent blank substitution is prohibited: a dropped value in
	// generated legal or medical paperwork is data corruption.
	ErrUnresolvedPlaceholder = errors.New("unresolved placeholder")

	// ErrUnresolvedImagePlaceholder is returned when an image tag has no
	// binary in the image map.
	ErrUnresolvedImagePlaceholder = errors.New("unresolved image placeholder")
)

// UnresolvedPlaceholderError names the offending tag.
type UnresolvedPlaceholderError struct {
	Tag string
}

func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("unresolved placeholder: {{%s}}", e.Tag)
}

func (e *UnresolvedPlaceholderError) Unwrap() error { return ErrUnresolvedPlaceholder }

// UnresolvedImagePlaceholderError names the offending tag and lists every
// available image key for diagnosability.
type UnresolvedImagePlaceholderError struct {
	Tag       string
	Available []string
}

func (e *UnresolvedImagePlaceholderError) Error() string {
	avail := "(none)"
	if len(e.Available) > 0 {
		avail = strings.Join(e.Available, ", ")
	}
	return fmt.Sprintf("unresolved image placeholder: {%%%s}. Available image keys: %s", e.Tag, avail)
}

func (e *UnresolvedImagePlaceholderError) Unwrap() error { return ErrUnresolvedImagePlaceholder }

// mergeablePartRe selects the parts whose placeholders are substituted:
// the main body plus headers, footers and notes.
var mergeablePartRe = regexp.MustCompile(`^word/(document|header[0-9]*|footer[0-9]*|footnotes|endnotes)\.xml$`)

// Merge substitutes a data mapping and an image map into a template archive
// and returns the merged document bytes.
//
// Every text placeholder must resolve from data and every image placeholder
// from images, or the whole merge fails. Merge is stateless across calls:
// concurrent merges over the same template bytes need no coordination.
func Merge(template []byte, data map[string]string, images map[string][]byte) ([]byte, error) {
	pkg, err := OpenPackage(template)
	if err != nil {
		return nil, err
	}

	m := &merger{
		pkg:    pkg,
		data:   data,
		images: make(map[string][]byte, len(images)),
		rels:   make(map[string]map[string]string),
		media:  make(map[string]mediaEntry),
	}
	for key, blob := range images {
		m.images[CanonicalImageKey(key)] = blob
	}

	for _, partName := range pkg.XMLPartNames() {
		if !mergeablePartRe.MatchString(partName) {
			continue
		}
		content, _ := pkg.Part(partName)
		rendered, err := m.renderPart(partName, string(content))
		if err != nil {
			return nil, err
		}
		pkg.SetPart(partName, []byte(rendered))
	}

	return pkg.Bytes()
}

type mediaEntry struct {
	partName string
	info     imageInfo
}

type merger struct {
	pkg    *Package
	data   map[string]string
	images map[string][]byte // canonical key -> binary

	rels  map[string]map[string]string // part -> image key -> rId
	media map[string]mediaEntry        // image key -> stored media part

	docPrSeq int
}

func (m *merger) renderPart(partName, content string) (string, error) {
	locs := placeholderRe.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return content, nil
	}

	var sb strings.Builder
	last := 0
	for _, loc := range locs {
		sb.WriteString(content[last:loc[0]])
		raw := content[loc[0]:loc[1]]

		t, ok := parseTag(raw)
		if !ok {
			return "", &UnresolvedPlaceholderError{Tag: strings.Trim(xmlTagRe.ReplaceAllString(raw, ""), "{}")}
		}

		if t.image {
			run, err := m.embedImage(partName, t.name)
			if err != nil {
				return "", err
			}
			sb.WriteString(run)
		} else {
			value, found := m.data[t.name]
			if !found {
				return "", &UnresolvedPlaceholderError{Tag: t.name}
			}
			sb.WriteString(encodeValue(value))
		}
		last = loc[1]
	}
	sb.WriteString(content[last:])
	return sb.String(), nil
}

// embedImage stores the binary for an image key once, registers a
// relationship on the part, and returns the replacement markup. The
// placeholder sits inside a text run, so the replacement closes that run and
// opens a fresh one around the drawing.
func (m *merger) embedImage(partName, key string) (string, error) {
	blob, found := m.images[key]
	if !found {
		return "", &UnresolvedImagePlaceholderError{Tag: key, Available: m.availableImageKeys()}
	}

	entry, stored := m.media[key]
	if !stored {
		info := inspectImage(blob)
		if err := ensureContentType(m.pkg, info.format); err != nil {
			return "", err
		}
		mediaName := mediaPartName(m.pkg, len(m.media)+1, info.format)
		m.pkg.SetPart(mediaName, blob)
		entry = mediaEntry{partName: mediaName, info: info}
		m.media[key] = entry
	}

	partRels := m.rels[partName]
	if partRels == nil {
		partRels = make(map[string]string)
		m.rels[partName] = partRels
	}
	rid, linked := partRels[key]
	if !linked {
		target := strings.TrimPrefix(entry.partName, "word/")
		var err error
		rid, err = addImageRelationship(m.pkg, partName, target)
		if err != nil {
			return "", err
		}
		partRels[key] = rid
	}

	m.docPrSeq++
	drawing := drawingXML(m.docPrSeq, key, rid, entry.info)
	return `</w:t></w:r><w:r>` + drawing + `</w:r><w:r><w:t xml:space="preserve">`, nil
}

func (m *merger) availableImageKeys() []string {
	keys := make([]string, 0, len(m.images))
	for key := range m.images {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// encodeValue escapes a substitution value for XML and turns newlines into
// explicit run breaks.
func encodeValue(v string) string {
	lines := strings.Split(v, "\n")
	for i := range lines {
		lines[i] = escapeXML(lines[i])
	}
	return strings.Join(lines, `</w:t><w:br/><w:t xml:space="preserve">`)
}
