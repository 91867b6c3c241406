// Package config loads the optional site configuration file. Flags on
// the CLI override anything set here.
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Site is the session configuration.
type Site struct {
	// Root is the directory the page files live under.
	Root string `hcl:"root,optional"`
	// Pattern is the glob that selects page source files.
	Pattern string `hcl:"pattern,optional"`
	// Records points at the JSON records document for collections.
	Records string `hcl:"records,optional"`
	// PagesDB, when set, persists the page registry to SQLite.
	PagesDB string `hcl:"pages_db,optional"`
}

// Default returns the configuration used when no file is present.
func Default() Site {
	return Site{
		Root:    ".",
		Pattern: "**/*.js",
	}
}

// Load reads a site.hcl file and fills unset values with defaults.
func Load(path string) (Site, error) {
	cfg := Default()
	var fileCfg Site
	if err := hclsimple.DecodeFile(path, nil, &fileCfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.merge(fileCfg)
	return cfg, nil
}

func (s *Site) merge(o Site) {
	if o.Root != "" {
		s.Root = o.Root
	}
	if o.Pattern != "" {
		s.Pattern = o.Pattern
	}
	if o.Records != "" {
		s.Records = o.Records
	}
	if o.PagesDB != "" {
		s.PagesDB = o.PagesDB
	}
}
