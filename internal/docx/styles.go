package docx

import "regexp"

// Document-wide run formatting applied after every merge: Aptos 13pt black,
// en-US. Sizes are OOXML half-points.
const rPrDefaultXML = `<w:rPrDefault>
    <w:rPr>
      <w:rFonts w:ascii="Aptos" w:hAnsi="Aptos" w:cs="Aptos" w:eastAsia="Aptos"/>
      <w:sz w:val="26"/>
      <w:szCs w:val="26"/>
      <w:color w:val="000000"/>
      <w:lang w:val="en-US" w:eastAsia="en-US" w:bidi="ar-SA"/>
    </w:rPr>
  </w:rPrDefault>`

var rPrDefaultRe = regexp.MustCompile(`(?s)<w:rPrDefault>.*?</w:rPrDefault>`)

// stylePartNames are the parts that can carry a run-formatting defaults
// block. Older generators emit the WithEffects variant alongside styles.xml.
var stylePartNames = []string{"word/styles.xml", "word/stylesWithEffects.xml"}

// NormalizeStyles rewrites the run-formatting defaults block of every style
// part in a merged document to the fixed target. Parts without a defaults
// block pass through unchanged; the operation is idempotent.
func NormalizeStyles(document []byte) ([]byte, error) {
	pkg, err := OpenPackage(document)
	if err != nil {
		return nil, err
	}

	for _, partName := range stylePartNames {
		content, ok := pkg.Part(partName)
		if !ok {
			continue
		}
		pkg.SetPart(partName, rPrDefaultRe.ReplaceAll(content, []byte(rPrDefaultXML)))
	}

	return pkg.Bytes()
}
