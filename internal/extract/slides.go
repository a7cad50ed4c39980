package extract

import (
	"archive/zip"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// odpContentPath is the path to the main content inside an .odp zip.
const odpContentPath = "content.xml"

var (
	pptxSlideName = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	// atTag matches <a:t>text</a:t> with any attributes.
	atTag = regexp.MustCompile(`<a:t[^>]*>([^<]*)</a:t>`)

	odpPage  = regexp.MustCompile(`(?s)<draw:page[ >].*?</draw:page>`)
	odpTextH = regexp.MustCompile(`(?s)<text:h[^>]*>(.*?)</text:h>`)
)

// extractPPTX returns one segment per slide, in slide number order.
func extractPPTX(content []byte) ([]string, error) {
	zr, err := openZip(content, "PPTX")
	if err != nil {
		return nil, err
	}

	type slide struct {
		n    int
		file *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		m := pptxSlideName.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, slide{n: n, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].n < slides[j].n })

	out := make([]string, 0, len(slides))
	for _, s := range slides {
		data, err := readZipEntry(s.file)
		if err != nil {
			return nil, fmt.Errorf("extract PPTX: %w", err)
		}
		var parts []string
		for _, m := range atTag.FindAllStringSubmatch(string(data), -1) {
			parts = append(parts, html.UnescapeString(m[1]))
		}
		out = append(out, strings.Join(parts, " "))
	}
	return out, nil
}

// extractODP returns one segment per draw:page, headings first.
func extractODP(content []byte) ([]string, error) {
	zr, err := openZip(content, "ODP")
	if err != nil {
		return nil, err
	}
	contentXML, err := readZipFile(zr, odpContentPath)
	if err != nil {
		return nil, fmt.Errorf("extract ODP: %w", err)
	}
	if contentXML == nil {
		return nil, fmt.Errorf("extract ODP: %s not found", odpContentPath)
	}

	var out []string
	for _, page := range odpPage.FindAllString(string(contentXML), -1) {
		var parts []string
		for _, m := range odpTextH.FindAllStringSubmatch(page, -1) {
			parts = append(parts, html.UnescapeString(xmlTag.ReplaceAllString(m[1], "")))
		}
		if body := odfText(page); body != "" {
			parts = append(parts, body)
		}
		out = append(out, strings.Join(parts, " "))
	}
	return out, nil
}
