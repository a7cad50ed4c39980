package extract

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/ledongthuc/pdf"
)

// pageNumber matches footer lines such as "3", "- 3 -" or "Page 3 of 9".
var pageNumber = regexp.MustCompile(`(?i)^(page\s+)?[-\s]*\d+[-\s]*(of\s+\d+)?$`)

// extractPDF returns the non-empty lines of every page, skipping lines that
// only hold a page number.
func extractPDF(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	var out []string
	for n := 1; n <= r.NumPage(); n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract PDF page %d: %w", n, err)
		}
		for _, line := range lines(text) {
			if !pageNumber.MatchString(line) {
				out = append(out, line)
			}
		}
	}
	return out, nil
}
