package build

import (
	"path/filepath"
	"strings"

	"github.com/conneroisu/docsite/internal/errors"
)

// ReservedName is the output segment that holds static assets. A page may
// not be written there.
const ReservedName = "public"

// IndexFile is the file name written for every page directory.
const IndexFile = "index.html"

// Location is the physical destination of a render target.
type Location struct {
	// Dir is the directory that must exist before writing.
	Dir string
	// Path is the file to write, always Dir/index.html.
	Path string
}

// Resolver maps logical page URIs to files under the docs root.
type Resolver struct {
	docsRoot string
}

// NewResolver creates a resolver rooted at docsRoot.
func NewResolver(docsRoot string) *Resolver {
	return &Resolver{docsRoot: filepath.Clean(docsRoot)}
}

// DocsRoot returns the directory all output is written under.
func (r *Resolver) DocsRoot() string {
	return r.docsRoot
}

// Resolve maps uri to <docsRoot>/<uri>/index.html. A bare reference with no
// "/" is split on ".", so "components.button" lands in components/button.
// A URI containing "/" keeps its segments intact, dots included. Empty and
// dot-only segments are dropped, which keeps ".." from escaping the docs root.
func (r *Resolver) Resolve(uri string) (Location, error) {
	if strings.Trim(uri, "/") == ReservedName {
		return Location{}, errors.NewReservedNameError(uri)
	}

	sep := func(c rune) bool { return c == '/' }
	if !strings.Contains(uri, "/") {
		sep = func(c rune) bool { return c == '.' }
	}

	var segments []string
	for _, segment := range strings.FieldsFunc(uri, sep) {
		if strings.Trim(segment, ".") == "" {
			continue
		}
		segments = append(segments, segment)
	}

	dir := filepath.Join(append([]string{r.docsRoot}, segments...)...)
	return Location{
		Dir:  dir,
		Path: filepath.Join(dir, IndexFile),
	}, nil
}
