package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/conneroisu/docsite/internal/logging"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	write := func(title string, issues []ValidationError) {
		if len(issues) == 0 {
			return
		}
		builder.WriteString(title + ":\n")
		for _, issue := range issues {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", issue.Field, issue.Message))
			for _, suggestion := range issue.Suggestions {
				builder.WriteString(fmt.Sprintf("    hint: %s\n", suggestion))
			}
		}
	}

	write("Validation errors", vr.Errors)
	write("Validation warnings", vr.Warnings)

	return builder.String()
}

// ValidateConfigWithDetails performs comprehensive validation with detailed feedback
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateBuildConfigDetails(&config.Build, result)
	validateSiteConfigDetails(&config.Site, result)
	validateLogConfigDetails(&config.Log, result)

	result.Valid = !result.HasErrors()

	return result
}

func validateBuildConfigDetails(config *BuildConfig, result *ValidationResult) {
	if err := validatePath(config.DocsRoot); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "build.docs_root",
			Value:   config.DocsRoot,
			Message: err.Error(),
			Suggestions: []string{
				"Use a directory inside the project, e.g. \"docs\"",
			},
		})
	}

	if config.RootPath != "" {
		if err := validateURLPath(config.RootPath); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "build.root_path",
				Value:   config.RootPath,
				Message: err.Error(),
				Suggestions: []string{
					"Use the sub-path the site is served from, e.g. \"design-system\"",
				},
			})
		}
	}

	if config.Catalog == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "build.catalog",
			Value:   config.Catalog,
			Message: "catalog path is required",
		})
	} else if !pathExists(config.Catalog) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "build.catalog",
			Value:   config.Catalog,
			Message: fmt.Sprintf("catalog %s does not exist", config.Catalog),
			Suggestions: []string{
				"Run the catalog builder before generating",
			},
		})
	}

	if config.Concurrency < 1 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "build.concurrency",
			Value:   config.Concurrency,
			Message: fmt.Sprintf("concurrency %d must be at least 1", config.Concurrency),
		})
	} else if config.Concurrency > 8*runtime.NumCPU() {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "build.concurrency",
			Value:   config.Concurrency,
			Message: fmt.Sprintf("concurrency %d is far above the %d available CPUs", config.Concurrency, runtime.NumCPU()),
		})
	}

	if config.MkdirRetries < 0 || config.MkdirRetries > MaxMkdirRetries {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "build.mkdir_retries",
			Value:   config.MkdirRetries,
			Message: fmt.Sprintf("mkdir_retries %d is not in valid range 0-%d", config.MkdirRetries, MaxMkdirRetries),
		})
	}

	if config.MetricsFile != "" {
		if err := validatePath(config.MetricsFile); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "build.metrics_file",
				Value:   config.MetricsFile,
				Message: err.Error(),
			})
		}
	}
}

func validateSiteConfigDetails(config *SiteConfig, result *ValidationResult) {
	if config.AnalyticsScript != "" && config.Environment == "" {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "site.environment",
			Value:   config.Environment,
			Message: "analytics is enabled without an environment; \"dev\" is reported",
			Suggestions: []string{
				"Set site.environment to \"production\" for the published site",
			},
		})
	}

	if strings.ContainsAny(config.AnalyticsScript, "\"<> ") {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "site.analytics_script",
			Value:   config.AnalyticsScript,
			Message: "analytics_script must be a plain URL",
		})
	}
}

func validateLogConfigDetails(config *LogConfig, result *ValidationResult) {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:       "log.level",
			Value:       config.Level,
			Message:     err.Error(),
			Suggestions: []string{"Use one of debug, info, warn, error"},
		})
	}

	switch config.Format {
	case "text", "json":
	default:
		result.Errors = append(result.Errors, ValidationError{
			Field:       "log.format",
			Value:       config.Format,
			Message:     fmt.Sprintf("unknown log format %q", config.Format),
			Suggestions: []string{"Use text or json"},
		})
	}
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	// Clean the path
	cleanPath := filepath.Clean(path)

	// Reject path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	// Reject dangerous characters
	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}

// validateURLPath validates the sub-path prefixed onto asset URLs.
func validateURLPath(path string) error {
	for _, segment := range strings.Split(path, "/") {
		if segment == ".." || segment == "." {
			return fmt.Errorf("path contains traversal: %s", path)
		}
	}
	if strings.ContainsAny(path, "\"'<> ?#\\") {
		return fmt.Errorf("path contains characters not allowed in a URL path: %s", path)
	}
	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
