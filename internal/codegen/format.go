package codegen

import (
	"regexp"
	"strings"
)

var (
	trailingSpace = regexp.MustCompile(`(?m)[ \t]+$`)

	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`export\s+(?:const|function)\s+(\w+)`),
		regexp.MustCompile(`function\s+(\w+)`),
		regexp.MustCompile(`class\s+(\w+)`),
		regexp.MustCompile(`const\s+(\w+)\s*=`),
	}
)

// DefaultComponentName is used when no declaration can be found.
const DefaultComponentName = "Component"

// Format normalizes line endings and strips trailing whitespace.
func Format(code string) string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	code = trailingSpace.ReplaceAllString(code, "")
	return strings.TrimRight(code, " \t\r\n")
}

// ComponentName guesses the component identifier declared in code.
func ComponentName(code string) string {
	for _, p := range namePatterns {
		if m := p.FindStringSubmatch(code); m != nil {
			return m[1]
		}
	}
	return DefaultComponentName
}
