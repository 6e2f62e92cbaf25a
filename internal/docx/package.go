// Package docx reads and writes OOXML word-processing packages and performs
// strict placeholder substitution into them. A .docx file is a zip archive of
// XML parts; this package treats the parts it does not understand as opaque
// pass-through bytes so template content outside the merge surface is never
// disturbed.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
)

// MIMEType is the content type of a generated word-processing document.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Package is an in-memory OOXML container. Parts keep their original archive
// order so repeated open/write cycles stay stable; parts added later are
// appended after the originals.
type Package struct {
	parts map[string][]byte
	order []string
}

// OpenPackage reads a .docx archive into memory.
func OpenPackage(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx archive: %w", err)
	}

	p := &Package{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", f.Name, err)
		}
		if _, exists := p.parts[f.Name]; !exists {
			p.order = append(p.order, f.Name)
		}
		p.parts[f.Name] = content
	}
	return p, nil
}

// Part returns the raw bytes of a named part.
func (p *Package) Part(name string) ([]byte, bool) {
	b, ok := p.parts[name]
	return b, ok
}

// SetPart replaces or adds a part.
func (p *Package) SetPart(name string, data []byte) {
	if _, exists := p.parts[name]; !exists {
		p.order = append(p.order, name)
	}
	p.parts[name] = data
}

// HasPart reports whether a part exists.
func (p *Package) HasPart(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// PartNames returns all part names in archive order.
func (p *Package) PartNames() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// XMLPartNames returns the names of all XML parts in sorted order. Placeholder
// scanning walks these so headers, footers and notes are covered, not just the
// main body.
func (p *Package) XMLPartNames() []string {
	var names []string
	for name := range p.parts {
		if len(name) > 4 && name[len(name)-4:] == ".xml" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Bytes serializes the package back to a .docx archive. Compression byte
// layout is not guaranteed to be reproducible; part content is.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, name := range p.order {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		})
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to create part %s: %w", name, err)
		}
		if _, err := w.Write(p.parts[name]); err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to write part %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize docx archive: %w", err)
	}
	return buf.Bytes(), nil
}
