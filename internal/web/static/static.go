package static

import (
	"embed"
	"io/fs"
)

//go:embed assets
var assets embed.FS

// FS returns the embedded static assets rooted at the assets directory.
func FS() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
