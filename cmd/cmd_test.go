package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docsite/internal/config"
	"github.com/conneroisu/docsite/internal/version"
)

const testCatalog = `{
  "pages": [
    {
      "reference": "components",
      "header": "Components",
      "referenceURI": "components",
      "depth": 1,
      "sections": [
        {
          "reference": "components.button",
          "header": "Button",
          "referenceURI": "components/button",
          "markup": "<button class=\"ds-button {{modifier_class}}\">Go</button>",
          "modifiers": [{"name": ".ds-button--primary", "description": "Primary action"}],
          "depth": 2
        }
      ]
    },
    {"reference": "tokens", "header": "Tokens", "depth": 1}
  ],
  "routes": [{"label": "Components", "url": "/components/"}]
}`

// setupProject writes a catalog into a temp dir and points the configuration
// at it. It returns the temp dir and the docs root.
func setupProject(t *testing.T, catalogJSON string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogJSON), 0644))
	docsRoot := filepath.Join(dir, "docs")

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("build.catalog", catalogPath)
	viper.Set("build.docs_root", docsRoot)
	viper.Set("build.concurrency", 2)
	viper.Set("log.level", "error")

	return dir, docsRoot
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	return cmd, &out
}

func TestGenerateCommand(t *testing.T) {
	_, docsRoot := setupProject(t, testCatalog)
	generateWithoutUI = false

	cmd, out := newTestCommand()
	require.NoError(t, runGenerate(cmd, []string{}))

	index := filepath.Join(docsRoot, "components", "index.html")
	require.FileExists(t, index)
	assert.NoFileExists(t, filepath.Join(docsRoot, "tokens", "index.html"))
	assert.Contains(t, out.String(), "written:   1")
	assert.Contains(t, out.String(), "skipped:   1")

	content, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<title>Components - Design System</title>")
	assert.Contains(t, string(content), `"url":"/components/"`)

	info, err := os.Stat(index)
	require.NoError(t, err)

	// A second run over the same catalog writes nothing.
	cmd, out = newTestCommand()
	require.NoError(t, runGenerate(cmd, []string{}))
	assert.Contains(t, out.String(), "written:   0")
	assert.Contains(t, out.String(), "unchanged: 1")

	again, err := os.Stat(index)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), again.ModTime())
}

func TestGenerateCommandWithoutUI(t *testing.T) {
	_, docsRoot := setupProject(t, testCatalog)
	viper.Set("build.root_path", "/design-system/")
	generateWithoutUI = true
	defer func() { generateWithoutUI = false }()

	cmd, out := newTestCommand()
	require.NoError(t, runGenerate(cmd, []string{}))
	assert.Contains(t, out.String(), "written:   4")

	example := filepath.Join(docsRoot, "design-system", "example")
	for _, path := range []string{
		filepath.Join(example, "components", "index.html"),
		filepath.Join(example, "components.button", "index.html"),
		filepath.Join(example, "components.button.ds-button--primary", "index.html"),
		filepath.Join(example, "tokens", "index.html"),
	} {
		assert.FileExists(t, path)
	}

	content, err := os.ReadFile(filepath.Join(example, "components.button.ds-button--primary", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `class="ds-button ds-button--primary"`)
	assert.Contains(t, string(content), "/design-system/public/styles/example.css")
	assert.NoDirExists(t, filepath.Join(docsRoot, "components"))
}

func TestGenerateCommandMetricsFile(t *testing.T) {
	dir, _ := setupProject(t, testCatalog)
	metricsFile := filepath.Join(dir, "docsite.prom")
	viper.Set("build.metrics_file", metricsFile)
	generateWithoutUI = false

	cmd, _ := newTestCommand()
	require.NoError(t, runGenerate(cmd, []string{}))

	content, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "docsite_targets_written_total 1")
	assert.Contains(t, string(content), "docsite_pages_skipped_total 1")
}

func TestGenerateCommandReportsPageFailures(t *testing.T) {
	_, docsRoot := setupProject(t, `{"pages": [
  {"reference": "assets", "header": "Assets", "referenceURI": "public", "depth": 1},
  {"reference": "colors", "header": "Colors", "referenceURI": "colors", "depth": 1}
]}`)
	generateWithoutUI = false

	cmd, out := newTestCommand()
	err := runGenerate(cmd, []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 page(s) failed")
	assert.Contains(t, out.String(), "✗ assets")

	// The failing page does not stop the others.
	assert.FileExists(t, filepath.Join(docsRoot, "colors", "index.html"))
}

func TestGenerateCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(dir string)
	}{
		{
			name: "invalid configuration",
			setup: func(string) {
				viper.Set("build.concurrency", 0)
			},
		},
		{
			name: "missing catalog",
			setup: func(dir string) {
				viper.Set("build.catalog", filepath.Join(dir, "missing.json"))
			},
		},
		{
			name: "malformed catalog",
			setup: func(dir string) {
				path := filepath.Join(dir, "broken.json")
				require.NoError(t, os.WriteFile(path, []byte(`{"pages": [`), 0644))
				viper.Set("build.catalog", path)
			},
		},
		{
			name: "duplicate references",
			setup: func(dir string) {
				path := filepath.Join(dir, "dup.yaml")
				content := "pages:\n  - reference: a\n    header: A\n  - reference: a\n    header: B\n"
				require.NoError(t, os.WriteFile(path, []byte(content), 0644))
				viper.Set("build.catalog", path)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, docsRoot := setupProject(t, testCatalog)
			tt.setup(dir)

			cmd, _ := newTestCommand()
			assert.Error(t, runGenerate(cmd, []string{}))
			assert.NoDirExists(t, docsRoot)
		})
	}
}

func TestRendererConfig(t *testing.T) {
	cfg := &config.Config{
		Site: config.SiteConfig{
			Name:            "Acme",
			HomeTitle:       "Acme | Home",
			AnalyticsScript: "https://cdn.example.com/a.js",
			Environment:     "production",
		},
		Development: config.DevelopmentConfig{Interactive: true},
	}

	rc := rendererConfig(cfg)
	assert.True(t, rc.Interactive)
	assert.Equal(t, "Acme", rc.SiteName)
	assert.Equal(t, "Acme | Home", rc.HomeTitle)
	assert.NotEmpty(t, rc.HomeDescription)
	assert.Equal(t, "https://cdn.example.com/a.js", rc.AnalyticsScript)
	assert.Equal(t, "prod", rc.Environment)
}

func TestListCommand(t *testing.T) {
	setupProject(t, testCatalog)
	listAll, listCatalog = false, ""
	defer func() { listFlags.Format = "table"; listAll = false }()

	t.Run("table", func(t *testing.T) {
		listFlags.Format = "table"
		cmd, out := newTestCommand()
		require.NoError(t, runList(cmd, []string{}))

		assert.Contains(t, out.String(), "REFERENCE")
		assert.Contains(t, out.String(), "components")
		assert.Contains(t, out.String(), "tokens")
		assert.NotContains(t, out.String(), "components.button")
	})

	t.Run("json with sections", func(t *testing.T) {
		listFlags.Format = "json"
		listAll = true
		cmd, out := newTestCommand()
		require.NoError(t, runList(cmd, []string{}))

		var pages []pageSummary
		require.NoError(t, json.Unmarshal(out.Bytes(), &pages))
		require.Len(t, pages, 3)
		assert.Equal(t, "components.button", pages[1].Reference)
		assert.Equal(t, "components/button", pages[1].URI)
		assert.Equal(t, []string{".ds-button--primary"}, pages[1].Modifiers)
		assert.Equal(t, 2, pages[1].Depth)
		assert.Empty(t, pages[2].URI)
	})

	t.Run("yaml", func(t *testing.T) {
		listFlags.Format = "yaml"
		listAll = false
		cmd, out := newTestCommand()
		require.NoError(t, runList(cmd, []string{}))
		assert.Contains(t, out.String(), "reference: components")
		assert.Contains(t, out.String(), "header: Tokens")
	})

	t.Run("single section by reference", func(t *testing.T) {
		listFlags.Format = "json"
		listAll = false
		cmd, out := newTestCommand()
		require.NoError(t, runList(cmd, []string{"components.button"}))

		var pages []pageSummary
		require.NoError(t, json.Unmarshal(out.Bytes(), &pages))
		require.Len(t, pages, 1)
		assert.Equal(t, "components.button", pages[0].Reference)
		assert.Equal(t, "components/button", pages[0].URI)
	})

	t.Run("unknown reference", func(t *testing.T) {
		listFlags.Format = "table"
		cmd, _ := newTestCommand()
		err := runList(cmd, []string{"components.missing"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"components.missing" not found`)
	})
}

func TestListCommandEmptyCatalog(t *testing.T) {
	setupProject(t, `{"pages": []}`)
	listFlags.Format = "table"

	cmd, out := newTestCommand()
	require.NoError(t, runList(cmd, []string{}))
	assert.Equal(t, "No pages found.\n", out.String())
}

func TestValidateCommand(t *testing.T) {
	defer func() { validateFlags.Format = "text"; validateStrict = false }()

	t.Run("valid catalog", func(t *testing.T) {
		setupProject(t, testCatalog)
		validateFlags.Format = "text"
		validateStrict = false

		cmd, out := newTestCommand()
		require.NoError(t, runValidateCommand(cmd, []string{}))
		assert.Contains(t, out.String(), "Checked 3 page(s), 6 target(s)")
		assert.Contains(t, out.String(), "tokens has no reference URI")
		assert.Contains(t, out.String(), "✓ Valid")
	})

	t.Run("strict mode fails on warnings", func(t *testing.T) {
		setupProject(t, testCatalog)
		validateStrict = true

		cmd, _ := newTestCommand()
		err := runValidateCommand(cmd, []string{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "strict mode")
	})

	t.Run("reserved name as json", func(t *testing.T) {
		setupProject(t, `{"pages": [{"reference": "assets", "header": "Assets", "referenceURI": "/public/", "depth": 1}]}`)
		validateFlags.Format = "json"
		validateStrict = false

		cmd, out := newTestCommand()
		require.Error(t, runValidateCommand(cmd, []string{}))

		var report ValidationReport
		require.NoError(t, json.Unmarshal(out.Bytes(), &report))
		assert.False(t, report.Valid)
		require.Len(t, report.Errors, 1)
		assert.Contains(t, report.Errors[0], "assets")
	})

	t.Run("configuration errors are reported", func(t *testing.T) {
		setupProject(t, testCatalog)
		viper.Set("build.mkdir_retries", 9)
		validateFlags.Format = "text"
		validateStrict = false

		cmd, out := newTestCommand()
		require.Error(t, runValidateCommand(cmd, []string{}))
		assert.Contains(t, out.String(), "build.mkdir_retries")
	})
}

func TestConfigShowCommand(t *testing.T) {
	_, docsRoot := setupProject(t, testCatalog)
	defer func() { configFormat = "yaml" }()

	t.Run("json", func(t *testing.T) {
		configFormat = "json"
		cmd, out := newTestCommand()
		require.NoError(t, runConfigShow(cmd, []string{}))

		var cfg config.Config
		require.NoError(t, json.Unmarshal(out.Bytes(), &cfg))
		assert.Equal(t, docsRoot, cfg.Build.DocsRoot)
		assert.Equal(t, 2, cfg.Build.Concurrency)
		assert.Equal(t, config.DefaultSiteName, cfg.Site.Name)
	})

	t.Run("yaml", func(t *testing.T) {
		configFormat = "yaml"
		cmd, out := newTestCommand()
		require.NoError(t, runConfigShow(cmd, []string{}))
		assert.Contains(t, out.String(), "docs_root: "+docsRoot)
		assert.Contains(t, out.String(), "mkdir_retries: 1")
	})

	t.Run("unsupported", func(t *testing.T) {
		configFormat = "toml"
		cmd, _ := newTestCommand()
		assert.Error(t, runConfigShow(cmd, []string{}))
	})
}

func TestVersionCommand(t *testing.T) {
	oldVersion, oldCommit := version.Version, version.GitCommit
	defer func() {
		version.Version, version.GitCommit = oldVersion, oldCommit
		versionFormat, versionShort = "text", false
	}()
	version.Version = "v1.4.0"
	version.GitCommit = "89abcdef01234567"

	t.Run("text", func(t *testing.T) {
		versionFormat, versionShort = "text", false
		cmd, out := newTestCommand()
		require.NoError(t, runVersionCommand(cmd, []string{}))
		assert.Contains(t, out.String(), "docsite v1.4.0 (89abcde)")
		assert.Contains(t, out.String(), "Platform: ")
	})

	t.Run("short", func(t *testing.T) {
		versionFormat, versionShort = "text", true
		cmd, out := newTestCommand()
		require.NoError(t, runVersionCommand(cmd, []string{}))
		assert.Equal(t, "v1.4.0 (89abcde)\n", out.String())
	})

	t.Run("json", func(t *testing.T) {
		versionFormat, versionShort = "json", false
		cmd, out := newTestCommand()
		require.NoError(t, runVersionCommand(cmd, []string{}))

		var info version.BuildInfo
		require.NoError(t, json.Unmarshal(out.Bytes(), &info))
		assert.Equal(t, "v1.4.0", info.Version)
		assert.True(t, info.Release)
	})

	t.Run("yaml", func(t *testing.T) {
		versionFormat = "yaml"
		cmd, out := newTestCommand()
		require.NoError(t, runVersionCommand(cmd, []string{}))
		assert.Contains(t, out.String(), "version: v1.4.0")
	})

	t.Run("unsupported", func(t *testing.T) {
		versionFormat = "xml"
		cmd, _ := newTestCommand()
		assert.Error(t, runVersionCommand(cmd, []string{}))
	})
}

func TestOutputFlagValidation(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	flags := AddOutputFlags(cmd, OutputFormats)
	assert.Equal(t, "table", flags.Format)

	require.NoError(t, cmd.Flags().Set("output", "json"))
	assert.Equal(t, "json", flags.Format)

	err := cmd.Flags().Set("output", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of: table, json, yaml")
	assert.Equal(t, "json", flags.Format)
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, ValidateFormat("yaml", OutputFormats))
	assert.NoError(t, ValidateFormat("JSON", OutputFormats))
	assert.Error(t, ValidateFormat("xml", OutputFormats))
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"generate", "list", "validate", "config", "version"} {
		found, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, found.Name())
	}

	for _, flag := range []string{
		"without-ui", "root-path", "docs-root", "catalog",
		"concurrency", "mkdir-retries", "interactive", "metrics-file",
	} {
		assert.NotNil(t, generateCmd.Flags().Lookup(flag), flag)
	}
}
