package extract

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// odsContentPath is the path to the main content inside an .ods zip.
const odsContentPath = "content.xml"

var (
	odsRow   = regexp.MustCompile(`(?s)<table:table-row[ >].*?</table:table-row>`)
	odsCell  = regexp.MustCompile(`(?s)<table:table-cell[^>]*?(?:/>|>.*?</table:table-cell>)`)
	odsTextP = regexp.MustCompile(`(?s)<text:p[^>]*>(.*?)</text:p>`)
	xmlTag   = regexp.MustCompile(`<[^>]+>`)
)

// extractExcel returns the first non-empty cell of every row of every sheet.
func extractExcel(content []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var out []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			if cell := firstNonEmpty(row); cell != "" {
				out = append(out, cell)
			}
		}
	}
	return out, nil
}

// extractODS returns the first non-empty cell of every table row in content.xml.
func extractODS(content []byte) ([]string, error) {
	zr, err := openZip(content, "ODS")
	if err != nil {
		return nil, err
	}
	contentXML, err := readZipFile(zr, odsContentPath)
	if err != nil {
		return nil, fmt.Errorf("extract ODS: %w", err)
	}
	if contentXML == nil {
		return nil, fmt.Errorf("extract ODS: %s not found", odsContentPath)
	}

	var out []string
	for _, row := range odsRow.FindAllString(string(contentXML), -1) {
		var cells []string
		for _, cell := range odsCell.FindAllString(row, -1) {
			cells = append(cells, odfText(cell))
		}
		if first := firstNonEmpty(cells); first != "" {
			out = append(out, first)
		}
	}
	return out, nil
}

// odfText joins the text:p paragraphs of an OpenDocument fragment, dropping
// inline markup such as text:span.
func odfText(fragment string) string {
	var parts []string
	for _, m := range odsTextP.FindAllStringSubmatch(fragment, -1) {
		parts = append(parts, html.UnescapeString(xmlTag.ReplaceAllString(m[1], "")))
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
