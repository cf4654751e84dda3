package storage

import (
	"strings"
)

// Key prefixes and defaults.
const (
	PagePrefixRoot   = "@page"
	ModulePrefixRoot = "@module"
	SystemPrefix     = "@system/"
	RootModule       = "[root]"
	IndexPage        = "index"
)

// Location is the module and page derived from a URL path.
type Location struct {
	Module string
	Page   string
}

// ParseLocation takes the last path segment as the page, without its
// extension, and the segment before it as the module. A missing page is
// "index" and a missing module is "[root]".
func ParseLocation(path string) Location {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")

	page := strings.TrimSpace(segments[len(segments)-1])
	segments = segments[:len(segments)-1]
	if page == "" {
		page = IndexPage
	} else if dot := strings.LastIndex(page, "."); dot > 0 {
		page = page[:dot]
	}

	module := RootModule
	if len(segments) > 0 {
		if m := strings.TrimSpace(segments[len(segments)-1]); m != "" {
			module = m
		}
	}
	return Location{Module: module, Page: page}
}

// PagePrefix returns "@page/<module>/<page>/".
func (l Location) PagePrefix() string {
	return PagePrefixRoot + "/" + l.Module + "/" + l.Page + "/"
}

// ModulePrefix returns "@module/<module>/".
func (l Location) ModulePrefix() string {
	return ModulePrefixRoot + "/" + l.Module + "/"
}
