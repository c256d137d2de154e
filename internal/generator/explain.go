package generator

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/ashureev/uiforge/internal/domain"
)

var jsonFencePattern = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n(.*?)\\n?```$")

// unparsedExplanation is returned when the model answered in prose.
func unparsedExplanation(content string) domain.DesignExplanation {
	return domain.DesignExplanation{
		Structure:       "Component uses modern patterns",
		Patterns:        "Follows React best practices",
		Styling:         "Uses Tailwind CSS utilities",
		Accessibility:   "Includes basic accessibility features",
		Performance:     "Optimized for performance",
		Improvements:    "Consider adding more features",
		FullExplanation: content,
	}
}

// unavailableExplanation is returned when the model could not be reached.
func unavailableExplanation() domain.DesignExplanation {
	return domain.DesignExplanation{
		Structure:     "Unable to analyze structure",
		Patterns:      "Analysis unavailable",
		Styling:       "Styling analysis unavailable",
		Accessibility: "Accessibility check unavailable",
		Performance:   "Performance analysis unavailable",
		Improvements:  "Suggestions unavailable",
	}
}

// parseExplanation decodes a JSON explanation, tolerating a ```json fence.
// Section values that are lists or objects are flattened to text.
func parseExplanation(content string) (domain.DesignExplanation, bool) {
	body := strings.TrimSpace(content)
	if m := jsonFencePattern.FindStringSubmatch(body); m != nil {
		body = m[1]
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(body), &obj); err != nil || obj == nil {
		return domain.DesignExplanation{}, false
	}

	return domain.DesignExplanation{
		Structure:       sectionText(obj["structure"]),
		Patterns:        sectionText(obj["patterns"]),
		Styling:         sectionText(obj["styling"]),
		Accessibility:   sectionText(obj["accessibility"]),
		Performance:     sectionText(obj["performance"]),
		Improvements:    sectionText(obj["improvements"]),
		FullExplanation: sectionText(obj["fullExplanation"]),
	}, true
}

func sectionText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := sectionText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

var frameworkDocs = map[domain.Framework]domain.Resource{
	domain.FrameworkReact:  {Title: "React Documentation", URL: "https://react.dev"},
	domain.FrameworkVue:    {Title: "Vue Documentation", URL: "https://vuejs.org/guide/"},
	domain.FrameworkSvelte: {Title: "Svelte Documentation", URL: "https://svelte.dev/docs"},
	domain.FrameworkHTML:   {Title: "HTML Documentation", URL: "https://developer.mozilla.org/en-US/docs/Web/HTML"},
}

// Insights returns static learning pointers for fw.
func Insights(fw domain.Framework) domain.LearningInsights {
	docs, ok := frameworkDocs[fw]
	if !ok {
		docs = frameworkDocs[domain.FrameworkReact]
	}
	return domain.LearningInsights{
		Concepts: []string{
			"Component composition",
			"Props and state management",
			"Event handling",
			"Styling with Tailwind",
		},
		BestPractices: []string{
			"Use TypeScript for type safety",
			"Follow naming conventions",
			"Keep components small and focused",
			"Implement proper error handling",
		},
		Resources: []domain.Resource{
			docs,
			{Title: "Tailwind CSS", URL: "https://tailwindcss.com"},
		},
	}
}
