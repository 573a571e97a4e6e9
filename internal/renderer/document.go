package renderer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/docsite/internal/types"
)

const fontsURL = "https://fonts.googleapis.com/css?family=Roboto+Mono:400,700"

// exampleDocument wraps processed example markup in a bare document.
func (r *PageRenderer) exampleDocument(page *types.PageModel, markup, root string) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n")
	b.WriteString("<head>\n")
	b.WriteString("  <meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "  <title>Example: %s</title>\n", templ.EscapeString(page.Reference))
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "  <link rel=\"stylesheet\" href=\"%s\" />\n", assetURL(root, "styles/example.css"))
	b.WriteString(r.analytics())
	b.WriteString("</head>\n")
	b.WriteString("<body class=\"ds-base\">\n")
	b.WriteString(markup)
	b.WriteString("\n")
	fmt.Fprintf(&b, "  <script type=\"text/javascript\" src=\"%s\"></script>\n", assetURL(root, "scripts/example.js"))
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")

	return b.String()
}

// docDocument renders the full documentation page around body.
func (r *PageRenderer) docDocument(page *types.PageModel, routes []types.Route, body, root string) (string, error) {
	pageJSON, err := marshalScript(page)
	if err != nil {
		return "", fmt.Errorf("serializing page %s: %w", page.Reference, err)
	}

	if routes == nil {
		routes = []types.Route{}
	}
	routesJSON, err := marshalScript(routes)
	if err != nil {
		return "", fmt.Errorf("serializing routes: %w", err)
	}

	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n")
	b.WriteString("<head>\n")
	b.WriteString("  <meta charset=\"utf-8\">\n")
	b.WriteString(r.seo(page, root))
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "  <link rel=\"shortcut icon\" type=\"image/x-icon\" href=\"%s\" />\n", assetURL(root, "images/favicon.ico"))
	fmt.Fprintf(&b, "  <link href=\"%s\" rel=\"stylesheet\" />\n", fontsURL)
	fmt.Fprintf(&b, "  <link rel=\"stylesheet\" href=\"%s\" />\n", assetURL(root, "styles/docs.css"))
	b.WriteString(r.analytics())
	b.WriteString("</head>\n")
	b.WriteString("<body class=\"ds-base\">\n")
	b.WriteString("  <div id=\"js-root\">\n")
	fmt.Fprintf(&b, "    <div>%s</div>\n", body)
	b.WriteString("  </div>\n")
	b.WriteString("  <script type=\"text/javascript\">\n")
	fmt.Fprintf(&b, "    var page = %s;\n", pageJSON)
	fmt.Fprintf(&b, "    var routes = %s;\n", routesJSON)
	b.WriteString("  </script>\n")
	fmt.Fprintf(&b, "  <script type=\"text/javascript\" src=\"%s\"></script>\n", assetURL(root, "scripts/index.js"))
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")

	return b.String(), nil
}

// seo returns the title and description tags of a doc page. The page whose
// URI is the root path itself is the homepage.
func (r *PageRenderer) seo(page *types.PageModel, root string) string {
	var b strings.Builder

	if isHomepage(page.URI(), root) {
		fmt.Fprintf(&b, "  <meta name=\"description\" content=\"%s\" />\n", templ.EscapeString(r.config.HomeDescription))
		fmt.Fprintf(&b, "  <title>%s</title>\n", templ.EscapeString(r.config.HomeTitle))
		return b.String()
	}

	title := page.Header
	if r.config.SiteName != "" {
		title += " - " + r.config.SiteName
	}
	fmt.Fprintf(&b, "  <title>%s</title>\n", templ.EscapeString(title))
	return b.String()
}

func isHomepage(uri, root string) bool {
	base := strings.TrimSuffix(root, "/")
	rest := strings.Replace(strings.Trim(uri, "/"), base, "", 1)
	return strings.Trim(rest, "/") == ""
}

// analytics returns the analytics loader snippet, or nothing when disabled.
func (r *PageRenderer) analytics() string {
	if r.config.AnalyticsScript == "" {
		return ""
	}

	env := r.config.Environment
	if env == "" {
		env = "dev"
	}

	var b strings.Builder
	b.WriteString("  <script type=\"text/javascript\">\n")
	fmt.Fprintf(&b, "    window.analyticsEnvironment = %q;\n", env)
	b.WriteString("  </script>\n")
	fmt.Fprintf(&b, "  <script type=\"text/javascript\" src=\"%s\"></script>\n", templ.EscapeString(r.config.AnalyticsScript))
	return b.String()
}

// marshalScript serializes v for embedding in an inline script. encoding/json
// escapes '<', '>' and '&', so the output cannot close the script element.
func marshalScript(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
