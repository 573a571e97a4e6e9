package renderer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/docsite/internal/types"
)

const (
	tabUsage    = "usage"
	tabGuidance = "guidance"
)

// guidanceSection matches references of sections shown under the guidance tab.
var guidanceSection = regexp.MustCompile(`(?i)\.guidance([a-z_-]+)?$`)

// TemplTreeRenderer renders the documentation UI of a page with templ
// components. Descriptions are Markdown and are converted with goldmark.
type TemplTreeRenderer struct {
	markdown goldmark.Markdown
	markup   MarkupProcessor
}

// NewTreeRenderer creates the default tree renderer.
func NewTreeRenderer(markup MarkupProcessor) *TemplTreeRenderer {
	if markup == nil {
		markup = NewPlaceholderProcessor()
	}
	return &TemplTreeRenderer{
		markdown: goldmark.New(),
		markup:   markup,
	}
}

// RenderTree implements TreeRenderer.
func (t *TemplTreeRenderer) RenderTree(ctx context.Context, page *types.PageModel) (string, error) {
	var buf bytes.Buffer
	if err := t.Page(page).Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("rendering %s: %w", page.Reference, err)
	}
	return buf.String(), nil
}

// Page is the component of a complete documentation page. Pages with
// sections nested two or more levels deep are split into usage and guidance
// tabs; the usage tab is selected.
func (t *TemplTreeRenderer) Page(page *types.PageModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<div class=\"ds-l-container\">"); err != nil {
			return err
		}
		if err := t.header(page).Render(ctx, w); err != nil {
			return err
		}

		if hasTabs(page) {
			if err := t.tabs(page).Render(ctx, w); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, "<div class=\"ds-u-border-top--1 ds-u-padding-x--3 ds-u-sm-padding-x--6\">"); err != nil {
				return err
			}
			if err := t.block(page, true).Render(ctx, w); err != nil {
				return err
			}
			for _, section := range page.Sections {
				if err := t.block(section, false).Render(ctx, w); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</div>"); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</div>")
		return err
	})
}

func (t *TemplTreeRenderer) header(page *types.PageModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			"<header class=\"ds-u-padding--3 ds-u-sm-padding--6\"><h1 class=\"ds-display\">%s</h1></header>",
			templ.EscapeString(page.Header))
		return err
	})
}

func (t *TemplTreeRenderer) tabs(page *types.PageModel) templ.Component {
	usage, guidance := splitSections(page.Sections)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<div class=\"ds-c-tabs ds-u-padding-x--3 ds-u-sm-padding-x--6\" role=\"tablist\">"); err != nil {
			return err
		}
		if err := t.tab(tabUsage, true).Render(ctx, w); err != nil {
			return err
		}
		if len(guidance) > 0 {
			if err := t.tab(tabGuidance, false).Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</div>"); err != nil {
			return err
		}

		usagePanel := append([]templ.Component{t.block(page, true)}, t.blocks(usage)...)
		if err := t.panel(tabUsage, true, usagePanel).Render(ctx, w); err != nil {
			return err
		}
		if len(guidance) > 0 {
			if err := t.panel(tabGuidance, false, t.blocks(guidance)).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func (t *TemplTreeRenderer) tab(id string, selected bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			"<a class=\"ds-c-tabs__item\" role=\"tab\" href=\"#%s\" aria-controls=\"%s\" aria-selected=\"%t\">%s</a>",
			id, id, selected, tabLabel(id))
		return err
	})
}

func (t *TemplTreeRenderer) panel(id string, selected bool, children []templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			"<div class=\"ds-c-tabs__panel ds-u-padding-x--3 ds-u-sm-padding-x--6\" id=\"%s\" role=\"tabpanel\" aria-hidden=\"%t\">",
			id, !selected); err != nil {
			return err
		}
		for _, child := range children {
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})
}

func (t *TemplTreeRenderer) blocks(sections []*types.PageModel) []templ.Component {
	components := make([]templ.Component, 0, len(sections))
	for _, section := range sections {
		components = append(components, t.block(section, false))
	}
	return components
}

// block renders one entry: its header, description, live examples and
// source. The page's own block hides the header already shown above it.
func (t *TemplTreeRenderer) block(page *types.PageModel, hideHeader bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<section class=\"block\" id=\"%s\">", templ.EscapeString(page.Reference)); err != nil {
			return err
		}

		if !hideHeader && page.Header != "" {
			if _, err := fmt.Fprintf(w, "<h2 class=\"block__title\">%s</h2>", templ.EscapeString(page.Header)); err != nil {
				return err
			}
		}

		if page.Description != "" {
			if err := t.prose("block__description", page.Description).Render(ctx, w); err != nil {
				return err
			}
		}

		if page.Markup != "" {
			if err := t.example(page, nil).Render(ctx, w); err != nil {
				return err
			}
			for i := range page.Modifiers {
				if err := t.example(page, &page.Modifiers[i]).Render(ctx, w); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w,
				"<pre class=\"markup markup--code\"><code>%s</code></pre>",
				templ.EscapeString(page.Markup)); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</section>")
		return err
	})
}

func (t *TemplTreeRenderer) example(page *types.PageModel, modifier *types.Modifier) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		markup, err := t.markup.ProcessExampleMarkup(page.Markup, modifier)
		if err != nil {
			return err
		}

		if modifier == nil {
			_, err = fmt.Fprintf(w, "<div class=\"markup markup--preview\">%s</div>", markup)
			return err
		}

		if _, err := fmt.Fprintf(w,
			"<div class=\"markup__modifier\"><h3 class=\"ds-h5\">%s</h3>",
			templ.EscapeString(modifier.Name)); err != nil {
			return err
		}
		if modifier.Description != "" {
			if err := t.prose("markup__modifier-description", modifier.Description).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintf(w, "<div class=\"markup markup--preview\">%s</div></div>", markup)
		return err
	})
}

// prose converts Markdown source into a classed container.
func (t *TemplTreeRenderer) prose(class, source string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := t.markdown.Convert([]byte(source), &buf); err != nil {
			return fmt.Errorf("converting markdown: %w", err)
		}
		_, err := fmt.Fprintf(w, "<div class=\"%s\">%s</div>", class, buf.String())
		return err
	})
}

// tabLabel returns the display label of a tab. Casers are not safe for
// concurrent use, so one is created per call.
func tabLabel(id string) string {
	return cases.Title(language.English).String(id)
}

func hasTabs(page *types.PageModel) bool {
	return len(page.Sections) > 0 && page.Depth >= 2
}

func splitSections(sections []*types.PageModel) (usage, guidance []*types.PageModel) {
	for _, section := range sections {
		if guidanceSection.MatchString(section.Reference) {
			guidance = append(guidance, section)
			continue
		}
		usage = append(usage, section)
	}
	return usage, guidance
}
