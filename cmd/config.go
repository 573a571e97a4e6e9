package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/docsite/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect docsite configuration",
	Long: `Inspect the docsite configuration.

Examples:
  docsite config show                  # Show the resolved configuration
  docsite config show --format json    # Show it as JSON`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current docsite configuration including all resolved values.

This shows the final configuration after:
- Loading from the configuration file
- Applying environment variable overrides
- Setting default values
- Processing command-line flags`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configFormat string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format (yaml, json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	// Invalid values are shown too; docsite validate explains them.
	cfg, err := config.Decode()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out := cmd.OutOrStdout()

	switch configFormat {
	case "yaml", "yml":
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(out, "# Resolved from %s, environment and defaults\n", used)
		}
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(cfg)
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(cfg)
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", configFormat)
	}
}
