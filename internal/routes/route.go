package routes

import (
	"path"
	"path/filepath"
	"strings"
)

// RouteForFile computes the fixed route for a non-templated source
// file: the extension is stripped, an index basename collapses into
// its directory, and the result leads with "/".
//
//	about.js      -> /about
//	index.js      -> /
//	blog/index.js -> /blog
func RouteForFile(relPath string) string {
	clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(relPath), "/"))
	if ext := path.Ext(clean); ext != "" {
		clean = strings.TrimSuffix(clean, ext)
	}
	if path.Base(clean) == "index" {
		clean = path.Dir(clean)
		if clean == "." {
			return "/"
		}
	}
	return "/" + clean
}
