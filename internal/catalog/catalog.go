// Package catalog loads the page catalog produced by the catalog builder.
//
// A catalog is a list of pages plus the navigation routes embedded into every
// documentation page. It can be stored as JSON, YAML or TOML; the format is
// chosen by file extension.
package catalog

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/docsite/internal/errors"
	"github.com/conneroisu/docsite/internal/types"
)

// Format is a catalog serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Catalog is the generation input.
type Catalog struct {
	Pages  []*types.PageModel `json:"pages" yaml:"pages" toml:"pages"`
	Routes []types.Route      `json:"routes" yaml:"routes" toml:"routes"`
}

// FormatFromPath returns the format implied by the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.NewCatalogError(fmt.Sprintf("unsupported catalog extension %q", filepath.Ext(path))).
			WithPath(path)
	}
}

// Load reads and validates the catalog at path from the OS filesystem.
func Load(path string) (*Catalog, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs reads and validates the catalog at path from fs.
func LoadFs(fs afero.Fs, path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	c, err := Parse(data, format)
	if err != nil {
		var de *errors.DocsError
		if stderrors.As(err, &de) {
			de.WithPath(path)
		}
		return nil, err
	}

	return c, nil
}

// Parse decodes and validates a catalog.
func Parse(data []byte, format Format) (*Catalog, error) {
	var c Catalog

	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &c)
	case FormatYAML:
		err = yaml.Unmarshal(data, &c)
	case FormatTOML:
		err = toml.Unmarshal(data, &c)
	default:
		return nil, errors.NewCatalogError(fmt.Sprintf("unsupported catalog format %q", format))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeCatalogInvalid,
			fmt.Sprintf("decoding %s catalog", format))
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks that every page, including nested sections, has a
// reference, that references are unique, and that sections are rooted at
// their parent's reference.
func (c *Catalog) Validate() error {
	var problems []string
	seen := make(map[string]bool)

	var visit func(page *types.PageModel, parent string)
	visit = func(page *types.PageModel, parent string) {
		if page == nil {
			problems = append(problems, "empty page entry")
			return
		}
		if page.Reference == "" {
			problems = append(problems, "page without reference")
		} else if seen[page.Reference] {
			problems = append(problems, fmt.Sprintf("duplicate reference %q", page.Reference))
		}
		seen[page.Reference] = true

		if parent != "" && !strings.HasPrefix(page.Reference, parent+".") {
			problems = append(problems, fmt.Sprintf("section %q is not nested under %q", page.Reference, parent))
		}

		for _, section := range page.Sections {
			visit(section, page.Reference)
		}
	}

	for _, page := range c.Pages {
		visit(page, "")
	}

	if len(problems) > 0 {
		return errors.NewCatalogError(strings.Join(problems, "; ")).
			WithContext("problems", len(problems))
	}
	return nil
}

// Flatten returns every page followed by its nested sections, depth first.
func (c *Catalog) Flatten() []*types.PageModel {
	var pages []*types.PageModel

	var visit func(page *types.PageModel)
	visit = func(page *types.PageModel) {
		pages = append(pages, page)
		for _, section := range page.Sections {
			visit(section)
		}
	}

	for _, page := range c.Pages {
		visit(page)
	}
	return pages
}

// Get returns the page or section with the given reference.
func (c *Catalog) Get(reference string) (*types.PageModel, bool) {
	for _, page := range c.Flatten() {
		if page.Reference == reference {
			return page, true
		}
	}
	return nil, false
}
