package assets

import (
	"embed"
	"io/fs"
)

//go:embed words/*.json
var embedded embed.FS

// Words is the built-in word lists, one "<n>letterwords.json" per length.
// Used when no WORDS_DIR or WORDS_URL is configured.
func Words() fs.FS {
	sub, err := fs.Sub(embedded, "words")
	if err != nil {
		panic(err)
	}
	return sub
}
