package renderer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docsite/internal/types"
)

func tabbedPage() *types.PageModel {
	return &types.PageModel{
		Reference:    "components.button",
		ReferenceURI: strPtr("components/button"),
		Header:       "Button",
		Markup:       `<button class="ds-c-button">Go</button>`,
		Depth:        2,
		Sections: []*types.PageModel{
			{Reference: "components.button.accessibility", Header: "Accessibility", Depth: 3},
			{Reference: "components.button.guidance", Header: "When to use", Depth: 3},
			{Reference: "components.button.guidance-mobile", Header: "Mobile", Depth: 3},
		},
	}
}

func TestTreeRendererTabs(t *testing.T) {
	out, err := NewTreeRenderer(nil).RenderTree(context.Background(), tabbedPage())
	require.NoError(t, err)

	assert.Contains(t, out, `role="tablist"`)
	assert.Contains(t, out, `href="#usage" aria-controls="usage" aria-selected="true">Usage</a>`)
	assert.Contains(t, out, `href="#guidance" aria-controls="guidance" aria-selected="false">Guidance</a>`)

	doc := parseDoc(t, out)

	usage := findByID(doc, "usage")
	require.NotNil(t, usage)
	assert.NotNil(t, findByID(usage, "components.button"))
	assert.NotNil(t, findByID(usage, "components.button.accessibility"))
	assert.Nil(t, findByID(usage, "components.button.guidance"))

	guidance := findByID(doc, "guidance")
	require.NotNil(t, guidance)
	assert.NotNil(t, findByID(guidance, "components.button.guidance"))
	assert.NotNil(t, findByID(guidance, "components.button.guidance-mobile"))
	assert.Nil(t, findByID(guidance, "components.button.accessibility"))
}

func TestTreeRendererWithoutGuidance(t *testing.T) {
	page := tabbedPage()
	page.Sections = page.Sections[:1]

	out, err := NewTreeRenderer(nil).RenderTree(context.Background(), page)
	require.NoError(t, err)

	assert.Contains(t, out, ">Usage</a>")
	assert.NotContains(t, out, ">Guidance</a>")
	assert.Nil(t, findByID(parseDoc(t, out), "guidance"))
}

func TestTreeRendererShallowPageHasNoTabs(t *testing.T) {
	page := tabbedPage()
	page.Depth = 1

	out, err := NewTreeRenderer(nil).RenderTree(context.Background(), page)
	require.NoError(t, err)

	assert.NotContains(t, out, "tablist")
	assert.Contains(t, out, "ds-u-border-top--1")
	assert.Contains(t, out, `id="components.button.guidance"`)
}

func TestTreeRendererBlock(t *testing.T) {
	page := buttonPage()
	page.Header = "Button <primary>"
	page.Modifiers[0].Description = "Use for the *main* action."

	out, err := NewTreeRenderer(nil).RenderTree(context.Background(), page)
	require.NoError(t, err)

	assert.Contains(t, out, `<h1 class="ds-display">Button &lt;primary&gt;</h1>`)
	assert.Contains(t, out, "<strong>actions</strong>")
	assert.Contains(t, out, "<em>main</em>")
	assert.Contains(t, out, `<div class="markup markup--preview"><button class="ds-c-button ">Go</button></div>`)
	assert.Contains(t, out, `<button class="ds-c-button ds-c-button--primary">Go</button>`)
	assert.Contains(t, out, `<h3 class="ds-h5">--danger</h3>`)
	assert.Contains(t, out, "&lt;button class=")
}

func TestTreeRendererOmitsEmptyMarkup(t *testing.T) {
	page := &types.PageModel{Reference: "guides.intro", Header: "Intro", Description: "Hello"}

	out, err := NewTreeRenderer(nil).RenderTree(context.Background(), page)
	require.NoError(t, err)

	assert.NotContains(t, out, "markup--preview")
	assert.NotContains(t, out, "markup--code")
	assert.Contains(t, out, "<p>Hello</p>")
}

func TestGuidanceSectionPattern(t *testing.T) {
	tests := []struct {
		reference string
		expected  bool
	}{
		{"components.button.guidance", true},
		{"components.button.Guidance", true},
		{"components.button.guidance-mobile", true},
		{"components.button.guidance_dev", true},
		{"components.button.usage", false},
		{"components.guidance.button", false},
		{"guidance", false},
	}

	for _, tt := range tests {
		t.Run(tt.reference, func(t *testing.T) {
			assert.Equal(t, tt.expected, guidanceSection.MatchString(tt.reference))
		})
	}
}

func TestTabLabel(t *testing.T) {
	assert.Equal(t, "Usage", tabLabel(tabUsage))
	assert.Equal(t, "Guidance", tabLabel(tabGuidance))
}
