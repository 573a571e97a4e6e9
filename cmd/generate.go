package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/conneroisu/docsite/internal/build"
	"github.com/conneroisu/docsite/internal/catalog"
	"github.com/conneroisu/docsite/internal/config"
	"github.com/conneroisu/docsite/internal/logging"
	"github.com/conneroisu/docsite/internal/renderer"
	"github.com/conneroisu/docsite/internal/types"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen", "g"},
	Short:   "Generate the documentation site from the catalog",
	Long: `Generate renders every page of the catalog and writes it below the docs
root. Documents whose content is unchanged are left untouched.

By default each page with a reference URI becomes a documentation page at
<docs-root>/<uri>/index.html. With --without-ui every page, nested sections
included, instead becomes standalone example documents at
<docs-root>/<root-path>/example/<id>/index.html, one for the base markup and
one per style modifier.

Examples:
  docsite generate                           # Generate documentation pages
  docsite generate --without-ui              # Generate example documents only
  docsite generate --root-path design-system # Site served under /design-system/
  docsite generate -c catalog.yaml --metrics-file docsite.prom`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var generateWithoutUI bool

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		BoolVar(&generateWithoutUI, "without-ui", false, "Generate markup-only example documents instead of documentation pages")
	generateCmd.Flags().String("root-path", "", "URL sub-path the site is served from")
	generateCmd.Flags().String("docs-root", "", "Output directory (default \"docs\")")
	generateCmd.Flags().StringP("catalog", "c", "", "Catalog file, .json, .yaml or .toml (default \"catalog.json\")")
	generateCmd.Flags().Int("concurrency", 0, "Pages rendered in parallel (default number of CPUs)")
	generateCmd.Flags().Int("mkdir-retries", config.DefaultMkdirRetries, "Extra attempts when creating an output directory")
	generateCmd.Flags().Bool("interactive", false, "Leave documentation pages for client-side rendering")
	generateCmd.Flags().String("metrics-file", "", "Write run metrics to this file in the Prometheus text format")

	BindFlags(generateCmd.Flags(), map[string]string{
		"root-path":     "build.root_path",
		"docs-root":     "build.docs_root",
		"catalog":       "build.catalog",
		"concurrency":   "build.concurrency",
		"mkdir-retries": "build.mkdir_retries",
		"interactive":   "development.interactive",
		"metrics-file":  "build.metrics_file",
	})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logConfigWarnings(ctx, logger, cfg)

	c, err := catalog.Load(cfg.Build.Catalog)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	pages := pagesOf(c, generateWithoutUI)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	generator := build.NewGenerator(newPageRenderer(rendererConfig(cfg)), build.GeneratorOptions{
		Fs:           afero.NewOsFs(),
		DocsRoot:     cfg.Build.DocsRoot,
		MkdirRetries: cfg.Build.MkdirRetries,
		Concurrency:  cfg.Build.Concurrency,
		Metrics:      build.NewMetrics(registry),
		Logger:       logger,
	})

	report, genErr := generator.Generate(ctx, pages, c.Routes, cfg.Build.RootPath, generateWithoutUI)
	if report != nil {
		printReport(cmd.OutOrStdout(), report)
	}

	if cfg.Build.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.Build.MetricsFile, registry); err != nil {
			logger.Warn(ctx, err, "Failed to write metrics file", logging.KeyPath, cfg.Build.MetricsFile)
		}
	}

	if genErr != nil {
		return fmt.Errorf("generation aborted: %w", genErr)
	}
	if err := report.Err(); err != nil {
		return fmt.Errorf("%d page(s) failed: %w", len(report.Errors), err)
	}
	return nil
}

// rendererConfig maps the site and development settings onto the renderer.
func rendererConfig(cfg *config.Config) renderer.Config {
	rc := renderer.DefaultConfig()
	rc.Interactive = cfg.Development.Interactive
	rc.SiteName = cfg.Site.Name
	rc.HomeTitle = cfg.Site.HomeTitle
	if cfg.Site.HomeDescription != "" {
		rc.HomeDescription = cfg.Site.HomeDescription
	}
	rc.AnalyticsScript = cfg.Site.AnalyticsScript
	rc.Environment = cfg.Site.AnalyticsEnvironment()
	return rc
}

// newPageRenderer builds the default renderer: the templ component tree and
// the placeholder markup processor.
func newPageRenderer(rc renderer.Config) *renderer.PageRenderer {
	markup := renderer.NewPlaceholderProcessor()
	return renderer.NewPageRenderer(renderer.NewTreeRenderer(markup), markup, rc)
}

func logConfigWarnings(ctx context.Context, logger logging.Logger, cfg *config.Config) {
	validation := config.ValidateConfigWithDetails(cfg)
	for _, warning := range validation.Warnings {
		logger.Warn(ctx, &warning, "Configuration warning", "field", warning.Field)
	}
}

func printReport(w io.Writer, report *build.Report) {
	var written, unchanged, skipped int
	pages := make(map[string]bool)
	for _, outcome := range report.Outcomes {
		pages[outcome.Page] = true
		switch {
		case outcome.Skipped:
			skipped++
		case outcome.Written:
			written++
		case outcome.Err == nil:
			unchanged++
		}
	}

	fmt.Fprintf(w, "Generated %d page(s) in %s\n", len(pages), report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  written:   %d\n", written)
	fmt.Fprintf(w, "  unchanged: %d\n", unchanged)
	fmt.Fprintf(w, "  skipped:   %d\n", skipped)
	fmt.Fprintf(w, "  failed:    %d\n", len(report.Errors))

	for _, pageErr := range report.Errors {
		fmt.Fprintf(w, "  ✗ %s: %v\n", pageErr.Reference, pageErr.Err)
	}
}

// commandContext returns the command's context, or a background context when
// the command is run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// pagesOf returns the pages a generate run processes. Markup-only runs cover
// nested sections as well.
func pagesOf(c *catalog.Catalog, flattened bool) []*types.PageModel {
	if flattened {
		return c.Flatten()
	}
	return c.Pages
}
