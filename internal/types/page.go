// Package types provides the catalog data model shared by the catalog loader,
// the page renderer and the generation pipeline.
// This package contains shared types to avoid circular dependencies between packages.
package types

import "strings"

// PageModel describes one documentable unit of the catalog: a component, a
// guide or one of their nested sections. It is produced upstream by the
// catalog builder and is never mutated during generation.
//
// The JSON field names are part of the client contract: full documentation
// pages embed the serialized model for hydration.
type PageModel struct {
	// Reference is the dot-delimited identifier, unique within the catalog
	// (e.g. "components.button").
	Reference string `json:"reference" yaml:"reference" toml:"reference"`
	// ReferenceURI is set when the entry is addressable as a full doc page.
	ReferenceURI *string `json:"referenceURI,omitempty" yaml:"referenceURI,omitempty" toml:"referenceURI,omitempty"`
	// Header is the display title.
	Header string `json:"header" yaml:"header" toml:"header"`
	// Description is Markdown prose shown above the example.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	// Markup is the raw example markup template. May be empty.
	Markup string `json:"markup,omitempty" yaml:"markup,omitempty" toml:"markup,omitempty"`
	// Modifiers are the style variants of the example, in catalog order.
	Modifiers []Modifier `json:"modifiers,omitempty" yaml:"modifiers,omitempty" toml:"modifiers,omitempty"`
	// Sections are nested entries rooted at this page's reference.
	Sections []*PageModel `json:"sections,omitempty" yaml:"sections,omitempty" toml:"sections,omitempty"`
	// Depth is the nesting level of the entry.
	Depth int `json:"depth" yaml:"depth" toml:"depth"`
}

// HasURI reports whether the page can be rendered as a full documentation page.
func (p *PageModel) HasURI() bool {
	return p != nil && p.ReferenceURI != nil
}

// URI returns the page's reference URI, or "" when it has none.
func (p *PageModel) URI() string {
	if !p.HasURI() {
		return ""
	}
	return *p.ReferenceURI
}

// Modifier is a named style variant of an example.
type Modifier struct {
	// Name is appended to the page reference to build the example id
	// (e.g. "--primary" or ".ds-c-button--primary").
	Name string `json:"name" yaml:"name" toml:"name"`
	// ClassName is the CSS class applied to the example markup. When empty it
	// is derived from Name.
	ClassName string `json:"className,omitempty" yaml:"className,omitempty" toml:"className,omitempty"`
	// Description explains the variant.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// Class returns the CSS class for the modifier.
func (m Modifier) Class() string {
	if m.ClassName != "" {
		return m.ClassName
	}
	return strings.TrimPrefix(m.Name, ".")
}

// Route is one entry of the documentation navigation tree. The generator
// treats routes as opaque data and embeds them into full doc pages.
type Route struct {
	Label    string  `json:"label" yaml:"label" toml:"label"`
	URL      string  `json:"url" yaml:"url" toml:"url"`
	Children []Route `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Mode selects which kind of page is rendered for a catalog entry.
type Mode int

const (
	// ModeMarkupOnly renders isolated example pages, one for the base markup
	// and one per modifier.
	ModeMarkupOnly Mode = iota
	// ModeFullDoc renders the documentation page with its navigation UI.
	// Only entries with a ReferenceURI have one.
	ModeFullDoc
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeMarkupOnly:
		return "markup"
	case ModeFullDoc:
		return "doc"
	default:
		return "unknown"
	}
}

// RenderTarget is the rendered HTML for one output file.
type RenderTarget struct {
	// ID identifies the target: the page reference, optionally suffixed with
	// a modifier name.
	ID string
	// PageReference is the reference of the page the target was rendered from.
	PageReference string
	// URI is the logical output location relative to the docs root.
	URI string
	// HTML is the complete document text.
	HTML string
	// Mode is the mode the target was rendered in.
	Mode Mode
}
