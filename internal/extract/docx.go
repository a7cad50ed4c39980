package extract

import (
	"archive/zip"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// docxDocumentXMLPath is the default path to the main document body inside a .docx zip.
const docxDocumentXMLPath = "word/document.xml"

// contentTypesPath is the path to [Content_Types].xml in OOXML packages.
const contentTypesPath = "[Content_Types].xml"

const docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"

var (
	// wParagraph matches a whole <w:p> element; <w:pPr> and friends are excluded by the [ >].
	wParagraph = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	// wtTag matches <w:t>text</w:t> with any attributes.
	wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

	// PartName and ContentType may appear in either order.
	partNameRe  = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"`)
	partNameRe2 = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"[^>]+PartName="([^"]+)"`)
)

// findDocxMainDocumentPath finds the main document path from [Content_Types].xml.
// Returns the path without leading slash, or empty string if not found.
func findDocxMainDocumentPath(zr *zip.Reader) string {
	data, err := readZipFile(zr, contentTypesPath)
	if err != nil || data == nil {
		return ""
	}
	content := string(data)
	if m := partNameRe.FindStringSubmatch(content); len(m) > 1 {
		return strings.TrimPrefix(m[1], "/")
	}
	if m := partNameRe2.FindStringSubmatch(content); len(m) > 1 {
		return strings.TrimPrefix(m[1], "/")
	}
	return ""
}

// extractDOCX returns one segment per paragraph. Runs inside a paragraph are
// concatenated without separators since Word splits runs mid-word.
func extractDOCX(content []byte) ([]string, error) {
	zr, err := openZip(content, "DOCX")
	if err != nil {
		return nil, err
	}
	docPath := findDocxMainDocumentPath(zr)
	if docPath == "" {
		docPath = docxDocumentXMLPath
	}
	docXML, err := readZipFile(zr, docPath)
	if err != nil {
		return nil, fmt.Errorf("extract DOCX: %w", err)
	}
	if docXML == nil {
		return nil, fmt.Errorf("extract DOCX: %s not found", docPath)
	}

	var out []string
	for _, para := range wParagraph.FindAllString(string(docXML), -1) {
		var b strings.Builder
		for _, m := range wtTag.FindAllStringSubmatch(para, -1) {
			b.WriteString(html.UnescapeString(m[1]))
		}
		out = append(out, b.String())
	}
	return out, nil
}
