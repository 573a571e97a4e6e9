package renderer

import (
	"regexp"

	"github.com/conneroisu/docsite/internal/types"
)

var modifierPlaceholder = regexp.MustCompile(`\{\{\s*modifier(?:_class)?\s*\}\}`)

// PlaceholderProcessor substitutes the modifier class into example markup.
// Both {{modifier}} and {{modifier_class}} are recognised, with optional
// inner whitespace. The base example substitutes an empty string.
type PlaceholderProcessor struct{}

// NewPlaceholderProcessor returns the default markup processor.
func NewPlaceholderProcessor() PlaceholderProcessor {
	return PlaceholderProcessor{}
}

// ProcessExampleMarkup implements MarkupProcessor.
func (PlaceholderProcessor) ProcessExampleMarkup(raw string, modifier *types.Modifier) (string, error) {
	class := ""
	if modifier != nil {
		class = modifier.Class()
	}
	return modifierPlaceholder.ReplaceAllLiteralString(raw, class), nil
}
