package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/docsite/internal/catalog"
	"github.com/conneroisu/docsite/internal/config"
	"github.com/conneroisu/docsite/internal/types"
)

var listCmd = &cobra.Command{
	Use:     "list [reference]",
	Aliases: []string{"l", "ls"},
	Short:   "List the pages in the catalog",
	Long: `List the pages of the catalog with their reference, header, URI,
modifiers and depth. Given a reference, only that page or section is shown.

Examples:
  docsite list                    # Top-level pages in table format
  docsite list --all              # Include nested sections
  docsite list components.button  # Show a single page or section
  docsite list -o json            # Output as JSON
  docsite list -c catalog.yaml -o yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var (
	listFlags   *OutputFlags
	listAll     bool
	listCatalog string
)

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddOutputFlags(listCmd, OutputFormats)
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include nested sections")
	listCmd.Flags().StringVarP(&listCatalog, "catalog", "c", "", "Catalog file (default from configuration)")
}

// pageSummary is the listing view of one catalog page.
type pageSummary struct {
	Reference string   `json:"reference" yaml:"reference"`
	Header    string   `json:"header" yaml:"header"`
	URI       string   `json:"uri,omitempty" yaml:"uri,omitempty"`
	Modifiers []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Depth     int      `json:"depth" yaml:"depth"`
}

func runList(cmd *cobra.Command, args []string) error {
	c, err := loadCatalog(listCatalog)
	if err != nil {
		return err
	}

	pages := pagesOf(c, listAll)
	if len(args) == 1 {
		page, ok := c.Get(args[0])
		if !ok {
			return fmt.Errorf("page %q not found in catalog", args[0])
		}
		pages = []*types.PageModel{page}
	}
	out := cmd.OutOrStdout()

	if len(pages) == 0 {
		fmt.Fprintln(out, "No pages found.")
		return nil
	}

	summaries := make([]pageSummary, len(pages))
	for i, page := range pages {
		summaries[i] = summarize(page)
	}

	switch strings.ToLower(listFlags.Format) {
	case "json":
		return outputListJSON(out, summaries)
	case "yaml":
		return outputListYAML(out, summaries)
	case "table":
		return outputListTable(out, summaries)
	default:
		return fmt.Errorf("unsupported format: %s", listFlags.Format)
	}
}

// loadCatalog loads the catalog at path, falling back to the configured one.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		cfg, err := config.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		path = cfg.Build.Catalog
	}

	c, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return c, nil
}

func summarize(page *types.PageModel) pageSummary {
	summary := pageSummary{
		Reference: page.Reference,
		Header:    page.Header,
		URI:       page.URI(),
		Depth:     page.Depth,
	}
	for _, modifier := range page.Modifiers {
		summary.Modifiers = append(summary.Modifiers, modifier.Name)
	}
	return summary
}

func outputListJSON(w io.Writer, pages []pageSummary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(pages)
}

func outputListYAML(w io.Writer, pages []pageSummary) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(pages)
}

func outputListTable(out io.Writer, pages []pageSummary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "REFERENCE\tHEADER\tURI\tMODIFIERS\tDEPTH")
	fmt.Fprintln(w, "---------\t------\t---\t---------\t-----")

	for _, page := range pages {
		uri := page.URI
		if uri == "" {
			uri = "-"
		}
		modifiers := "-"
		if len(page.Modifiers) > 0 {
			modifiers = strings.Join(page.Modifiers, ", ")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", page.Reference, page.Header, uri, modifiers, page.Depth)
	}

	return w.Flush()
}
