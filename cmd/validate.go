package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/docsite/internal/build"
	"github.com/conneroisu/docsite/internal/catalog"
	"github.com/conneroisu/docsite/internal/config"
	"github.com/conneroisu/docsite/internal/errors"
	"github.com/conneroisu/docsite/internal/types"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and catalog without writing anything",
	Long: `Validate checks everything a generate run depends on:

- Configuration values and their ranges
- Catalog syntax, missing and duplicate references, section nesting
- Output locations of every page, in both modes, including reserved names

Examples:
  docsite validate                 # Validate configuration and catalog
  docsite validate --strict        # Treat warnings as errors
  docsite validate -o json         # Output results as JSON`,
	Args: cobra.NoArgs,
	RunE: runValidateCommand,
}

var (
	validateFlags  *OutputFlags
	validateStrict bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateFlags = AddOutputFlags(validateCmd, []string{"text", "json"})
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as errors")
}

// ValidationReport is the result of the validate command.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Pages    int      `json:"pages"`
	Targets  int      `json:"targets"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	report := &ValidationReport{Errors: []string{}, Warnings: []string{}}

	cfg, err := config.Decode()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	details := config.ValidateConfigWithDetails(cfg)
	for _, e := range details.Errors {
		report.Errors = append(report.Errors, e.Error())
	}
	for _, w := range details.Warnings {
		report.Warnings = append(report.Warnings, w.Error())
	}

	if c, err := catalog.Load(cfg.Build.Catalog); err != nil {
		report.Errors = append(report.Errors, err.Error())
	} else {
		validateTargets(cmd, c, cfg, report)
	}

	report.Valid = len(report.Errors) == 0 && (!validateStrict || len(report.Warnings) == 0)

	out := cmd.OutOrStdout()
	switch strings.ToLower(validateFlags.Format) {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return err
		}
	default:
		outputValidationText(out, report)
	}

	if !report.Valid {
		if len(report.Errors) == 0 {
			return fmt.Errorf("validation failed in strict mode with %d warnings", len(report.Warnings))
		}
		return fmt.Errorf("validation failed with %d errors", len(report.Errors))
	}
	return nil
}

// validateTargets renders the location of every target a generate run could
// produce and records the ones that cannot be written.
func validateTargets(cmd *cobra.Command, c *catalog.Catalog, cfg *config.Config, report *ValidationReport) {
	rc := rendererConfig(cfg)
	// Only target URIs matter here, so skip the component tree.
	rc.Interactive = true
	pageRenderer := newPageRenderer(rc)
	resolver := build.NewResolver(cfg.Build.DocsRoot)
	ctx := commandContext(cmd)

	topLevel := make(map[*types.PageModel]bool, len(c.Pages))
	for _, page := range c.Pages {
		topLevel[page] = true
	}

	pages := c.Flatten()
	report.Pages = len(pages)

	for _, page := range pages {
		modes := []types.Mode{types.ModeMarkupOnly}
		if page.HasURI() {
			modes = append(modes, types.ModeFullDoc)
		} else if topLevel[page] {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("page %s has no reference URI and gets no documentation page", page.Reference))
		}

		for _, mode := range modes {
			targets, err := pageRenderer.Render(ctx, page, c.Routes, cfg.Build.RootPath, mode)
			if err != nil {
				report.Errors = append(report.Errors, errors.NewRenderError(page.Reference, err).Error())
				continue
			}
			for _, target := range targets {
				report.Targets++
				if _, err := resolver.Resolve(target.URI); err != nil {
					report.Errors = append(report.Errors, fmt.Sprintf("page %s: %v", page.Reference, err))
				}
			}
		}
	}
}

func outputValidationText(w io.Writer, report *ValidationReport) {
	fmt.Fprintf(w, "Checked %d page(s), %d target(s)\n", report.Pages, report.Targets)

	for _, e := range report.Errors {
		fmt.Fprintf(w, "  ✗ %s\n", e)
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "  ! %s\n", warning)
	}

	if report.Valid {
		fmt.Fprintln(w, "✓ Valid")
	}
}
