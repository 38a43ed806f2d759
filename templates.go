package simpleform

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-simpleform/pkg/tags/templated"
)

//go:embed assets/*.css
var embeddedAssets embed.FS

// EmbeddedTemplates exposes the built-in widget templates so callers can reuse
// or extend them without importing the templated package directly.
func EmbeddedTemplates() fs.FS {
	return templated.DefaultTemplates()
}

// AssetsFS exposes the default form stylesheet (forms.css).
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(simpleform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
