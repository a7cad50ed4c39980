package e2e

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SupportedFileExtensions are the formats generated here. PDF, ODT and RTF
// need real documents and are covered by the extractor's own tests.
var SupportedFileExtensions = []string{
	".txt", ".md", ".html", ".json",
	".docx", ".xlsx", ".pptx", ".odp", ".ods",
}

// MinimalFile returns file bytes of the given type holding each segment as
// a separate card-sized unit (list item, paragraph, row or slide).
func MinimalFile(ext string, segments []string) ([]byte, error) {
	switch ext {
	case ".txt":
		return []byte(strings.Join(segments, "\n\n")), nil
	case ".md":
		return []byte("# Board\n\n- " + strings.Join(segments, "\n- ") + "\n"), nil
	case ".html":
		return []byte("<html><body><ul><li>" + strings.Join(segments, "</li><li>") + "</li></ul></body></html>"), nil
	case ".json":
		var b strings.Builder
		b.WriteString("[")
		for i, s := range segments {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, `{"id":"j%d","content":%q}`, i+1, s)
		}
		b.WriteString("]")
		return []byte(b.String()), nil
	case ".docx":
		var body strings.Builder
		for _, s := range segments {
			body.WriteString(`<w:p><w:r><w:t>` + s + `</w:t></w:r></w:p>`)
		}
		return zipOf(map[string]string{
			"word/document.xml": `<w:document><w:body>` + body.String() + `</w:body></w:document>`,
		}), nil
	case ".pptx":
		files := make(map[string]string, len(segments))
		for i, s := range segments {
			files[fmt.Sprintf("ppt/slides/slide%d.xml", i+1)] = `<p:sld><p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>` + s + `</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`
		}
		return zipOf(files), nil
	case ".odp":
		var pages strings.Builder
		for _, s := range segments {
			pages.WriteString(`<draw:page><draw:frame><text:p>` + s + `</text:p></draw:frame></draw:page>`)
		}
		return zipOf(map[string]string{"content.xml": `<office:document><office:body>` + pages.String() + `</office:body></office:document>`}), nil
	case ".ods":
		var rows strings.Builder
		for _, s := range segments {
			rows.WriteString(`<table:table-row><table:table-cell><text:p>` + s + `</text:p></table:table-cell></table:table-row>`)
		}
		return zipOf(map[string]string{"content.xml": `<office:document><office:body><table:table>` + rows.String() + `</table:table></office:body></office:document>`}), nil
	case ".xlsx":
		return minimalXlsx(segments)
	}
	return nil, fmt.Errorf("no fixture for %s", ext)
}

func zipOf(files map[string]string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range files {
		fw, _ := w.Create(name)
		_, _ = fw.Write([]byte(body))
	}
	_ = w.Close()
	return buf.Bytes()
}

func minimalXlsx(segments []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	for i, s := range segments {
		if err := f.SetCellValue("Sheet1", fmt.Sprintf("A%d", i+1), s); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
