// assets/embed.go
//
// Embedded default word pool. Used whenever WORDS_FILE is not configured so the
// server always has something to play with.

package assets

import (
	"embed"
	"io"
)

//go:embed words.txt
var FS embed.FS

// DefaultWordsName is the embedded pool file.
const DefaultWordsName = "words.txt"

// DefaultWords opens the embedded word pool for reading.
func DefaultWords() (io.ReadCloser, error) {
	return FS.Open(DefaultWordsName)
}
