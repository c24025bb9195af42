package server

import (
	"embed"
	"io/fs"
)

//go:embed static/index.html
var embedFS embed.FS

const indexName = "index.html"

// staticFS returns the embedded page directory.
func staticFS() fs.FS {
	sub, err := fs.Sub(embedFS, "static")
	if err != nil {
		// The embed pattern above guarantees the directory exists.
		panic(err)
	}
	return sub
}
