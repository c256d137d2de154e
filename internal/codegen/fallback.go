package codegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ashureev/uiforge/internal/domain"
)

const promptExcerptLen = 50

// A comment body may not contain "--".
var hyphenRunPattern = regexp.MustCompile(`-{2,}`)

const reactFallback = `import React from 'react';

interface GeneratedComponentProps {
  // Add your props here
}

export const GeneratedComponent: React.FC<GeneratedComponentProps> = (props) => {
  return (
    <div className="p-4 rounded-lg border border-gray-200">
      <h2 className="text-xl font-semibold mb-2">Generated Component</h2>
      <p className="text-gray-600">
        Component for: %s...
      </p>
    </div>
  );
};`

// Fallback returns a deterministic placeholder component used when the model
// cannot be reached. Only the first 50 characters of the prompt are embedded.
func Fallback(fw domain.Framework, prompt string) string {
	excerpt := Excerpt(prompt, promptExcerptLen)
	if fw == domain.FrameworkReact || fw == "" {
		return fmt.Sprintf(reactFallback, excerpt)
	}

	// vue, svelte and html files are markup at the top level.
	excerpt = hyphenRunPattern.ReplaceAllString(strings.Join(strings.Fields(excerpt), " "), "-")
	return fmt.Sprintf("<!-- %s component -->\n<!-- %s -->", fw, excerpt)
}

// Excerpt returns at most n runes from the start of s.
func Excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
