package extract

import (
	"fmt"

	"github.com/lu4p/cat"
)

// extractDocument handles .odt and .rtf through cat's plain-text conversion
// and returns one segment per non-empty line.
func extractDocument(content []byte) ([]string, error) {
	text, err := cat.FromBytes(content)
	if err != nil {
		return nil, fmt.Errorf("convert document: %w", err)
	}
	return lines(text), nil
}
