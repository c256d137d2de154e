package domain

import "time"

// StyleLibrary is the styling approach a user prefers.
type StyleLibrary string

const (
	StyleTailwind         StyleLibrary = "tailwind"
	StyleCSS              StyleLibrary = "css"
	StyleStyledComponents StyleLibrary = "styled-components"
)

// Preferences carries optional user preferences for generation. Nil pointer
// fields mean "not specified".
type Preferences struct {
	Framework     Framework    `json:"framework,omitempty"`
	StyleLibrary  StyleLibrary `json:"styleLibrary,omitempty"`
	TypeScript    *bool        `json:"typescript,omitempty"`
	Accessibility *bool        `json:"accessibility,omitempty"`
	Responsive    *bool        `json:"responsive,omitempty"`
}

// GenerationResult is the normalized output of a fresh generation.
type GenerationResult struct {
	Code        string   `json:"code"`
	Explanation string   `json:"explanation"`
	Suggestions []string `json:"suggestions"`
	// Fallback is set when the upstream call failed and Code is a placeholder.
	Fallback bool `json:"-"`
}

// RefinementResult is the normalized output of a refinement.
type RefinementResult struct {
	Code        string   `json:"code"`
	Changes     []string `json:"changes"`
	Explanation string   `json:"explanation"`
	Fallback    bool     `json:"-"`
}

// GenerationRequest asks for a new component.
type GenerationRequest struct {
	Prompt      string       `json:"prompt"`
	Framework   Framework    `json:"framework"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// RefinementRequest asks for changes to an existing component.
type RefinementRequest struct {
	Code      string    `json:"code"`
	Feedback  string    `json:"feedback"`
	Framework Framework `json:"framework"`
}

// GeneratedComponent is what clients receive over the socket channel.
type GeneratedComponent struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Framework   Framework `json:"framework"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	Explanation string    `json:"explanation"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Changes     []string  `json:"changes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DesignExplanation is a learning-oriented breakdown of a component.
type DesignExplanation struct {
	Structure       string `json:"structure"`
	Patterns        string `json:"patterns"`
	Styling         string `json:"styling"`
	Accessibility   string `json:"accessibility"`
	Performance     string `json:"performance"`
	Improvements    string `json:"improvements"`
	FullExplanation string `json:"fullExplanation,omitempty"`
}

// Resource is an external learning link.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// LearningInsights are static study pointers for a framework.
type LearningInsights struct {
	Concepts      []string   `json:"concepts"`
	BestPractices []string   `json:"bestPractices"`
	Resources     []Resource `json:"resources"`
}
