// Package renderer turns catalog pages into complete HTML documents.
//
// A page is rendered in one of two modes. Markup-only mode produces minimal
// example documents, one for the base markup and one per style modifier, meant
// to be viewed directly or inside an iframe. Full-doc mode produces the
// documentation page with its navigation UI, the serialized page and routes
// for client-side hydration and, outside interactive development, the
// server-rendered component tree.
//
// Rendering is a pure function of the page, routes, root path, mode and
// Config; the development indicator is an explicit Config field.
package renderer

import (
	"context"
	"fmt"
	"strings"

	"github.com/conneroisu/docsite/internal/types"
)

// TreeRenderer renders the documentation UI of a page to an HTML fragment.
type TreeRenderer interface {
	RenderTree(ctx context.Context, page *types.PageModel) (string, error)
}

// MarkupProcessor turns raw example markup into the HTML fragment shown for
// one modifier. A nil modifier selects the base example.
type MarkupProcessor interface {
	ProcessExampleMarkup(raw string, modifier *types.Modifier) (string, error)
}

// Config holds the site-wide rendering settings.
type Config struct {
	// Interactive skips server rendering of doc pages and leaves an empty
	// hydration placeholder. Used while developing the docs themselves.
	Interactive bool
	// SiteName is appended to page titles.
	SiteName string
	// HomeTitle and HomeDescription are emitted for the site homepage.
	HomeTitle       string
	HomeDescription string
	// AnalyticsScript is the URL of the analytics loader. Empty disables
	// the analytics snippet.
	AnalyticsScript string
	// Environment is exposed to the analytics snippet ("prod" or "dev").
	Environment string
}

// DefaultConfig returns the rendering defaults.
func DefaultConfig() Config {
	return Config{
		SiteName:        "Design System",
		HomeTitle:       "Design System | An open source design and front-end toolkit",
		HomeDescription: "A set of open source design and front-end development resources for creating accessible, responsive and consistent websites.",
		Environment:     "dev",
	}
}

// PageRenderer renders catalog pages into render targets.
type PageRenderer struct {
	tree   TreeRenderer
	markup MarkupProcessor
	config Config
}

// NewPageRenderer creates a renderer. A nil markup processor falls back to
// the placeholder processor.
func NewPageRenderer(tree TreeRenderer, markup MarkupProcessor, config Config) *PageRenderer {
	if markup == nil {
		markup = NewPlaceholderProcessor()
	}
	return &PageRenderer{
		tree:   tree,
		markup: markup,
		config: config,
	}
}

// Config returns the renderer's configuration.
func (r *PageRenderer) Config() Config {
	return r.config
}

// Render produces the targets of page in the given mode. Full-doc mode on a
// page without a reference URI yields no targets.
func (r *PageRenderer) Render(
	ctx context.Context,
	page *types.PageModel,
	routes []types.Route,
	rootPath string,
	mode types.Mode,
) ([]types.RenderTarget, error) {
	if page == nil {
		return nil, fmt.Errorf("nil page")
	}

	root := NormalizeRootPath(rootPath)

	switch mode {
	case types.ModeMarkupOnly:
		return r.renderMarkupPages(page, root)
	case types.ModeFullDoc:
		if !page.HasURI() {
			return nil, nil
		}
		target, err := r.renderDocPage(ctx, page, routes, root)
		if err != nil {
			return nil, err
		}
		return []types.RenderTarget{target}, nil
	default:
		return nil, fmt.Errorf("unknown render mode %d", mode)
	}
}

func (r *PageRenderer) renderMarkupPages(page *types.PageModel, root string) ([]types.RenderTarget, error) {
	targets := make([]types.RenderTarget, 0, 1+len(page.Modifiers))

	base, err := r.renderMarkupPage(page, nil, root)
	if err != nil {
		return nil, err
	}
	targets = append(targets, base)

	for i := range page.Modifiers {
		target, err := r.renderMarkupPage(page, &page.Modifiers[i], root)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}

	return targets, nil
}

func (r *PageRenderer) renderMarkupPage(page *types.PageModel, modifier *types.Modifier, root string) (types.RenderTarget, error) {
	id := page.Reference
	if modifier != nil {
		id += modifier.Name
	}

	markup, err := r.markup.ProcessExampleMarkup(page.Markup, modifier)
	if err != nil {
		return types.RenderTarget{}, fmt.Errorf("processing markup for %s: %w", id, err)
	}

	return types.RenderTarget{
		ID:            id,
		PageReference: page.Reference,
		URI:           root + "example/" + id,
		HTML:          r.exampleDocument(page, markup, root),
		Mode:          types.ModeMarkupOnly,
	}, nil
}

func (r *PageRenderer) renderDocPage(
	ctx context.Context,
	page *types.PageModel,
	routes []types.Route,
	root string,
) (types.RenderTarget, error) {
	var body string
	if !r.config.Interactive {
		if r.tree == nil {
			return types.RenderTarget{}, fmt.Errorf("no tree renderer configured")
		}
		rendered, err := r.tree.RenderTree(ctx, page)
		if err != nil {
			return types.RenderTarget{}, fmt.Errorf("rendering component tree: %w", err)
		}
		body = rendered
	}

	html, err := r.docDocument(page, routes, body, root)
	if err != nil {
		return types.RenderTarget{}, err
	}

	return types.RenderTarget{
		ID:            page.Reference,
		PageReference: page.Reference,
		URI:           page.URI(),
		HTML:          html,
		Mode:          types.ModeFullDoc,
	}, nil
}

// NormalizeRootPath strips surrounding separators from rootPath and, when
// anything is left, appends exactly one. The result is safe to place between
// "/" and an asset path.
func NormalizeRootPath(rootPath string) string {
	trimmed := strings.Trim(rootPath, "/")
	if trimmed == "" {
		return ""
	}
	return trimmed + "/"
}

// assetURL returns the absolute URL of an asset under the public directory.
func assetURL(root, asset string) string {
	return "/" + root + "public/" + strings.TrimPrefix(asset, "/")
}
