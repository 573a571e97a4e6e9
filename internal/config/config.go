// Package config provides configuration management for docsite using Viper
// for flexible configuration loading from files, environment variables, and
// command-line flags.
//
// Values are read from .docsite.yml, from DOCSITE_ prefixed environment
// variables (a .env file is loaded into the environment first) and from
// flags bound by the commands. Load applies defaults and validates the result.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/conneroisu/docsite/internal/errors"
)

// Defaults.
const (
	DefaultDocsRoot     = "docs"
	DefaultCatalog      = "catalog.json"
	DefaultMkdirRetries = 1
	MaxMkdirRetries     = 5
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultSiteName     = "Design System"
)

// EnvPrefix prefixes every environment variable read by docsite.
const EnvPrefix = "DOCSITE"

var envKeyReplacer = strings.NewReplacer(".", "_")

// Keys lists every configuration key.
var Keys = []string{
	"build.docs_root",
	"build.root_path",
	"build.catalog",
	"build.concurrency",
	"build.mkdir_retries",
	"build.metrics_file",
	"site.name",
	"site.home_title",
	"site.home_description",
	"site.analytics_script",
	"site.environment",
	"development.interactive",
	"log.level",
	"log.format",
}

type Config struct {
	Build       BuildConfig       `mapstructure:"build" yaml:"build" json:"build"`
	Site        SiteConfig        `mapstructure:"site" yaml:"site" json:"site"`
	Development DevelopmentConfig `mapstructure:"development" yaml:"development" json:"development"`
	Log         LogConfig         `mapstructure:"log" yaml:"log" json:"log"`
}

type BuildConfig struct {
	// DocsRoot is the output directory.
	DocsRoot string `mapstructure:"docs_root" yaml:"docs_root" json:"docs_root"`
	// RootPath is the URL sub-path the site is hosted under.
	RootPath string `mapstructure:"root_path" yaml:"root_path" json:"root_path"`
	// Catalog is the catalog file to generate from.
	Catalog      string `mapstructure:"catalog" yaml:"catalog" json:"catalog"`
	Concurrency  int    `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`
	MkdirRetries int    `mapstructure:"mkdir_retries" yaml:"mkdir_retries" json:"mkdir_retries"`
	// MetricsFile, when set, receives the run metrics in the Prometheus text
	// format.
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file" json:"metrics_file"`
}

type SiteConfig struct {
	Name            string `mapstructure:"name" yaml:"name" json:"name"`
	HomeTitle       string `mapstructure:"home_title" yaml:"home_title" json:"home_title"`
	HomeDescription string `mapstructure:"home_description" yaml:"home_description" json:"home_description"`
	AnalyticsScript string `mapstructure:"analytics_script" yaml:"analytics_script" json:"analytics_script"`
	Environment     string `mapstructure:"environment" yaml:"environment" json:"environment"`
}

type DevelopmentConfig struct {
	// Interactive leaves doc pages for client-side rendering.
	Interactive bool `mapstructure:"interactive" yaml:"interactive" json:"interactive"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// AnalyticsEnvironment maps the deployment environment onto the value
// exposed to the analytics snippet.
func (s SiteConfig) AnalyticsEnvironment() string {
	if strings.EqualFold(s.Environment, "production") || strings.EqualFold(s.Environment, "prod") {
		return "prod"
	}
	return "dev"
}

// BindEnv makes every configuration key readable from the environment, e.g.
// build.docs_root from DOCSITE_BUILD_DOCS_ROOT.
func BindEnv() error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	for _, key := range Keys {
		if err := viper.BindEnv(key); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// Load reads the configuration from viper, applies defaults and validates it.
func Load() (*Config, error) {
	config, err := Decode()
	if err != nil {
		return nil, err
	}

	// Validate configuration values
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Decode reads the configuration from viper and applies defaults without
// validating it.
func Decode() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Apply default values for BuildConfig if not set
	if config.Build.DocsRoot == "" {
		config.Build.DocsRoot = DefaultDocsRoot
	}
	if config.Build.Catalog == "" {
		config.Build.Catalog = DefaultCatalog
	}
	if !viper.IsSet("build.concurrency") {
		config.Build.Concurrency = runtime.NumCPU()
	}
	// Zero is a valid retry count, so only an unset value takes the default.
	if !viper.IsSet("build.mkdir_retries") {
		config.Build.MkdirRetries = DefaultMkdirRetries
	}

	// Handle development settings set via viper (workaround for viper bool handling)
	if viper.IsSet("development.interactive") {
		config.Development.Interactive = viper.GetBool("development.interactive")
	}

	if config.Site.Name == "" {
		config.Site.Name = DefaultSiteName
	}
	if config.Site.HomeTitle == "" {
		config.Site.HomeTitle = config.Site.Name + " | An open source design and front-end toolkit"
	}

	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}

	return &config, nil
}

// validateConfig returns the first validation error, if any.
func validateConfig(config *Config) error {
	result := ValidateConfigWithDetails(config)
	if !result.HasErrors() {
		return nil
	}
	first := result.Errors[0]
	return errors.Wrap(&first, errors.ErrorTypeConfig, errors.ErrCodeConfigInvalid, "validating configuration").
		WithContext("field", first.Field)
}
