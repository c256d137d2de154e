package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ashureev/uiforge/internal/domain"
)

const explainSystemPrompt = "You are an expert educator in web development and UI design. Provide clear, educational explanations."

func generateSystemPrompt(fw domain.Framework, prefs *domain.Preferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert UI/UX developer specializing in %s.\n", fw)
	b.WriteString(`Return STRICT JSON only. Do not include Markdown or code fences.
The JSON schema must be:
{
  "code": string, // complete, production-ready component code
  "explanation": string, // brief design decisions
  "suggestions": string[] // 2-5 improvement ideas
}
Requirements:
`)
	for _, r := range requirements(fw, prefs) {
		b.WriteString("- ")
		b.WriteString(r)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func requirements(fw domain.Framework, prefs *domain.Preferences) []string {
	style := "Use Tailwind CSS for styling."
	types := "Include proper TypeScript types."
	a11y := "Include accessibility best practices."

	if prefs != nil {
		switch prefs.StyleLibrary {
		case domain.StyleCSS:
			style = "Use plain CSS classes for styling."
		case domain.StyleStyledComponents:
			style = "Use styled-components for styling."
		}
		if prefs.TypeScript != nil && !*prefs.TypeScript {
			types = "Use plain JavaScript without type annotations."
		}
		if prefs.Accessibility != nil && !*prefs.Accessibility {
			a11y = "Keep markup semantic."
		}
	}

	out := []string{style, types, a11y}
	if prefs != nil && prefs.Responsive != nil && *prefs.Responsive {
		out = append(out, "Make the layout responsive across mobile and desktop widths.")
	}
	out = append(out, "Ensure the component is exported.")
	if fw == domain.FrameworkReact {
		out = append(out, "Use React and include the React import if needed.")
	}
	return out
}

func generateUserPrompt(fw domain.Framework, prompt string, prefs *domain.Preferences) string {
	out := fmt.Sprintf("Generate a %s component based on this requirement:\n\n%s", fw, prompt)
	if prefs != nil {
		if data, err := json.MarshalIndent(prefs, "", "  "); err == nil {
			out += "\n\nUser preferences: " + string(data)
		}
	}
	return out
}

func refineSystemPrompt(fw domain.Framework) string {
	return fmt.Sprintf(`You are an expert code reviewer and %s developer.
Return STRICT JSON only. Do not include Markdown or code fences.
The JSON schema must be:
{
  "code": string, // refined component code
  "explanation": string // brief summary of changes
}
Requirements:
- Maintain TypeScript types and accessibility best practices.
- Ensure the component is exported.
- Use Tailwind CSS for styling.`, fw)
}

func refineUserPrompt(code, feedback string) string {
	return fmt.Sprintf("Here's the current component code:\n\n%s\n\nUser feedback: %s", code, feedback)
}

func explainUserPrompt(code string, fw domain.Framework) string {
	return fmt.Sprintf("Analyze this %[1]s component and provide a detailed explanation for learning purposes:\n\n"+
		"```%[1]s\n%[2]s\n```\n\n"+
		`Explain:
1. Component structure and architecture
2. Design patterns used
3. Styling approach and best practices
4. Accessibility features
5. Performance considerations
6. Potential improvements

Format as JSON with these sections: structure, patterns, styling, accessibility, performance, improvements`, fw, code)
}
