package docx

import (
	"bytes"
	"fmt"
	"image"
	"path"
	"regexp"
	"strings"

	// Dimension inference decoders. The x/image formats cover scans and
	// exports that show up in uploaded attachments alongside the stdlib
	// trio.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// Fallback size when the binary cannot be decoded. Embedding still
	// proceeds; a corrupt preview image must not abort a merge.
	defaultImageWidth  = 300
	defaultImageHeight = 200

	// Recovered dimensions are clamped to this range to avoid degenerate
	// or absurdly oversized embeds.
	minImageDim = 1
	maxImageDim = 6000

	// OOXML measures extents in English Metric Units.
	emuPerPixel = 9525

	imageRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

var contentTypeByFormat = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",
}

// imageInfo holds everything needed to place one binary into the package.
type imageInfo struct {
	width  int // pixels, clamped
	height int
	format string // decode format name; "png" when unknown
}

// inspectImage recovers native dimensions and format from the binary. Any
// decode failure falls back to the default size instead of failing the merge.
func inspectImage(data []byte) imageInfo {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return imageInfo{width: defaultImageWidth, height: defaultImageHeight, format: "png"}
	}
	if _, known := contentTypeByFormat[format]; !known {
		format = "png"
	}
	return imageInfo{
		width:  clampDim(cfg.Width),
		height: clampDim(cfg.Height),
		format: format,
	}
}

func clampDim(v int) int {
	if v < minImageDim {
		return minImageDim
	}
	if v > maxImageDim {
		return maxImageDim
	}
	return v
}

var relIDRe = regexp.MustCompile(`Id="rId(\d+)"`)

// relsPartName maps a part to its relationships part, e.g.
// word/document.xml -> word/_rels/document.xml.rels.
func relsPartName(partName string) string {
	return path.Join(path.Dir(partName), "_rels", path.Base(partName)+".rels")
}

const emptyRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

// addImageRelationship registers an image relationship on a part and returns
// the assigned relationship ID.
func addImageRelationship(pkg *Package, partName, target string) (string, error) {
	relsName := relsPartName(partName)
	relsXML, ok := pkg.Part(relsName)
	if !ok {
		relsXML = []byte(emptyRelsXML)
	}

	content := string(relsXML)
	next := 1
	for _, m := range relIDRe.FindAllStringSubmatch(content, -1) {
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		if n >= next {
			next = n + 1
		}
	}

	rid := fmt.Sprintf("rId%d", next)
	rel := fmt.Sprintf(`<Relationship Id=%q Type=%q Target=%q/>`, rid, imageRelType, target)
	idx := strings.LastIndex(content, "</Relationships>")
	if idx < 0 {
		return "", fmt.Errorf("malformed relationships part %s", relsName)
	}
	pkg.SetPart(relsName, []byte(content[:idx]+rel+content[idx:]))
	return rid, nil
}

// ensureContentType adds a Default content-type entry for an image extension
// if the package does not declare it yet.
func ensureContentType(pkg *Package, format string) error {
	const ctPart = "[Content_Types].xml"
	raw, ok := pkg.Part(ctPart)
	if !ok {
		return fmt.Errorf("missing %s part", ctPart)
	}
	content := string(raw)
	if strings.Contains(content, fmt.Sprintf(`Extension=%q`, format)) {
		return nil
	}
	entry := fmt.Sprintf(`<Default Extension=%q ContentType=%q/>`, format, contentTypeByFormat[format])
	idx := strings.LastIndex(content, "</Types>")
	if idx < 0 {
		return fmt.Errorf("malformed %s part", ctPart)
	}
	pkg.SetPart(ctPart, []byte(content[:idx]+entry+content[idx:]))
	return nil
}

// mediaPartName picks an unused media part name for an embedded image.
func mediaPartName(pkg *Package, n int, format string) string {
	for {
		name := fmt.Sprintf("word/media/embed%d.%s", n, format)
		if !pkg.HasPart(name) {
			return name
		}
		n++
	}
}

// drawingXML renders the inline drawing run content referencing an embedded
// picture. Namespaces are declared inline so the markup is valid regardless
// of what the document root declares.
func drawingXML(docPrID int, name, rid string, info imageInfo) string {
	cx := info.width * emuPerPixel
	cy := info.height * emuPerPixel
	var sb strings.Builder
	sb.WriteString(`<w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">`)
	sb.WriteString(fmt.Sprintf(`<wp:extent cx="%d" cy="%d"/>`, cx, cy))
	sb.WriteString(fmt.Sprintf(`<wp:docPr id="%d" name="%s"/>`, docPrID, escapeXML(name)))
	sb.WriteString(`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`)
	sb.WriteString(`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	sb.WriteString(`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	sb.WriteString(fmt.Sprintf(`<pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`, docPrID, escapeXML(name)))
	sb.WriteString(fmt.Sprintf(`<pic:blipFill><a:blip r:embed="%s" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`, rid))
	sb.WriteString(fmt.Sprintf(`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`, cx, cy))
	sb.WriteString(`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`)
	return sb.String()
}
