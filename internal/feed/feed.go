// Package feed loads the icon definitions that installed packages declare
// for the shared catalog.
//
// A package named "erp" declares its icons in one of <dir>/erp.yaml,
// <dir>/erp.yml or <dir>/erp.cue. A package without a feed file declares no
// icons; that is not an error.
//
// YAML feeds are either a list of definitions, each carrying module_name,
// or a mapping of module name to definition. CUE feeds put the same shape
// under a top-level `icons` field. Mapping order is document order and
// becomes the default display order.
package feed

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Definition is one declared catalog icon. Nil pointers leave the stored
// value untouched on re-sync.
type Definition struct {
	ModuleName string `yaml:"module_name" json:"module_name"`
	Label      string `yaml:"label,omitempty" json:"label,omitempty"`
	Link       string `yaml:"link,omitempty" json:"link,omitempty"`
	Route      string `yaml:"route,omitempty" json:"route,omitempty"`
	Type       string `yaml:"type,omitempty" json:"type,omitempty"`
	Icon       string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Color      string `yaml:"color,omitempty" json:"color,omitempty"`
	DocType    string `yaml:"doctype,omitempty" json:"doctype,omitempty"`
	Reverse    *bool  `yaml:"reverse,omitempty" json:"reverse,omitempty"`
	Hidden     *bool  `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	ForceShow  *bool  `yaml:"force_show,omitempty" json:"force_show,omitempty"`
	Idx        *int   `yaml:"idx,omitempty" json:"idx,omitempty"`
}

// Provider supplies the declared icons of an installed package.
type Provider interface {
	// Load returns the definitions of app. ok is false when app has no feed.
	Load(app string) (defs []Definition, ok bool, err error)
}

// Static is an in-memory Provider keyed by package name.
type Static map[string][]Definition

// Load implements Provider.
func (s Static) Load(app string) ([]Definition, bool, error) {
	defs, ok := s[app]
	if !ok {
		return nil, false, nil
	}
	out, err := Normalize(defs)
	if err != nil {
		return nil, false, fmt.Errorf("feed %s: %w", app, err)
	}
	return out, true, nil
}

// Normalize trims and NFC-normalizes every string field and rejects
// definitions without a module name or with a repeated one.
func Normalize(defs []Definition) ([]Definition, error) {
	out := make([]Definition, len(defs))
	seen := make(map[string]int, len(defs))
	for i, d := range defs {
		d.ModuleName = clean(d.ModuleName)
		if d.ModuleName == "" {
			return nil, fmt.Errorf("icon %d: module_name is required", i)
		}
		if prev, dup := seen[d.ModuleName]; dup {
			return nil, fmt.Errorf("icon %d: module %q already declared by icon %d", i, d.ModuleName, prev)
		}
		seen[d.ModuleName] = i

		d.Label = clean(d.Label)
		d.Link = clean(d.Link)
		d.Route = clean(d.Route)
		d.Type = clean(d.Type)
		d.Icon = clean(d.Icon)
		d.Color = clean(d.Color)
		d.DocType = clean(d.DocType)
		out[i] = d
	}
	return out, nil
}

func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
