package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"
)

const idPrefix = "card:"

// idHexLen is the number of hex digits of the digest kept in an id.
const idHexLen = 16

// CardID returns a stable id for the index-th segment of the file at path.
// Paths are cleaned first so equivalent spellings share ids.
func CardID(path string, index int) string {
	sum := sha256.Sum256([]byte(filepath.Clean(path) + "#" + strconv.Itoa(index)))
	return idPrefix + hex.EncodeToString(sum[:])[:idHexLen]
}
