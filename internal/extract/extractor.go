// Package extract turns document files into board cards.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/pkg/utils"
)

// Extensions lists every extension with a dedicated segmenter.
var Extensions = []string{
	".txt", ".md", ".markdown", ".html", ".htm", ".pdf", ".docx",
	".xlsx", ".ods", ".pptx", ".odp", ".odt", ".rtf", ".json",
}

// Extractor splits files into card-sized segments.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor returns a new Extractor. A nil logger is replaced with a no-op.
func NewExtractor(logger *zap.Logger) *Extractor {
	logger = utils.OrNop(logger)
	return &Extractor{logger: logger}
}

// Cards reads the file at path and returns one card per segment. Card ids are
// derived from the absolute path and the segment index, so importing the same
// file twice yields the same ids.
func (e *Extractor) Cards(path string) ([]models.Card, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	source := path
	if abs, err := filepath.Abs(path); err == nil {
		source = abs
	}
	cards, err := e.CardsFromBytes(content, strings.ToLower(filepath.Ext(path)), source)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", filepath.Base(path), err)
	}
	e.logger.Debug("Imported cards", zap.String("path", source), zap.Int("cards", len(cards)))
	return cards, nil
}

// CardsFromBytes segments content according to ext (with leading dot) and
// assigns ids derived from source. JSON input keeps the ids it carries.
func (e *Extractor) CardsFromBytes(content []byte, ext, source string) ([]models.Card, error) {
	if ext == ".json" {
		return extractJSON(content)
	}
	segments, err := e.Segments(content, ext)
	if err != nil {
		return nil, err
	}
	cards := make([]models.Card, 0, len(segments))
	for i, seg := range segments {
		cards = append(cards, models.Card{ID: CardID(source, i), Content: seg})
	}
	return cards, nil
}

// Segments returns the non-empty text segments of content in document order.
func (e *Extractor) Segments(content []byte, ext string) ([]string, error) {
	var (
		segments []string
		err      error
	)
	switch ext {
	case ".pdf":
		segments, err = extractPDF(content)
	case ".docx":
		segments, err = extractDOCX(content)
	case ".odt", ".rtf":
		segments, err = extractDocument(content)
	case ".xlsx":
		segments, err = extractExcel(content)
	case ".ods":
		segments, err = extractODS(content)
	case ".pptx":
		segments, err = extractPPTX(content)
	case ".odp":
		segments, err = extractODP(content)
	case ".html", ".htm":
		segments, err = extractHTML(content)
	case ".json":
		cards, jerr := extractJSON(content)
		if jerr != nil {
			return nil, jerr
		}
		segments = models.Contents(cards)
	default:
		// .txt, .md and unknown extensions are read as markdown
		segments = extractMarkdown(content)
	}
	if err != nil {
		return nil, err
	}
	return compact(segments), nil
}

// compact normalizes whitespace and drops empty segments.
func compact(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = clean(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
