// Package cmd provides the command-line interface for docsite.
//
// Configuration System:
//
//	Settings are resolved with the following precedence:
//	1. Command-line flags (--docs-root, --root-path, etc.) - highest priority
//	2. Individual environment variables (DOCSITE_BUILD_DOCS_ROOT, etc.)
//	3. Configuration file (.docsite.yml, --config or DOCSITE_CONFIG_FILE)
//	4. Built-in defaults - lowest priority
//
// A .env file in the working directory is loaded into the environment before
// the configuration is read. Variables already set in the environment win.
package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/docsite/internal/config"
	"github.com/conneroisu/docsite/internal/logging"
	"github.com/conneroisu/docsite/internal/version"
)

// ConfigFileEnv names the environment variable holding a config file path.
const ConfigFileEnv = "DOCSITE_CONFIG_FILE"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docsite",
	Short: "Static documentation site generator for design-system catalogs",
	Long: `docsite turns a catalog of design-system pages into a static
documentation site: one HTML document per page, plus standalone example
documents for every style modifier.

Unchanged documents are never rewritten, so repeated runs over the same
catalog leave the output tree untouched.

Quick Start:
  docsite generate                 Generate the documentation site
  docsite generate --without-ui    Generate example documents only
  docsite list                     List the pages in the catalog
  docsite validate                 Check the catalog for problems`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .docsite.yml, can also use DOCSITE_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")

	BindFlags(rootCmd.PersistentFlags(), map[string]string{
		"log-level":  "log.level",
		"log-format": "log.format",
	})
}

// initConfig initializes the configuration system.
//
// Config file lookup (highest to lowest):
//  1. --config flag
//  2. DOCSITE_CONFIG_FILE environment variable
//  3. .docsite.yml in the current directory
func initConfig() {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Warning: failed to load .env:", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(ConfigFileEnv); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".docsite")
	}

	if err := config.BindEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	// A missing config file is fine; defaults and the environment still apply.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger from the log section of the configuration.
func newLogger(cfg *config.Config, out io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.Log.Format,
		Output:    out,
		Component: "docsite",
	})
	return logger.With(version.GetBuildInfo().LogFields()...), nil
}
