package codegen

import (
	"regexp"
	"strings"

	"github.com/ashureev/uiforge/internal/domain"
)

const reactImport = "import React from 'react';\n\n"

var (
	reactImportPattern = regexp.MustCompile(`(?i)from\s+['"]react['"]`)
	exportPattern      = regexp.MustCompile(`(?m)export\s+(default|const|function|class)\s+`)
	constDeclPattern   = regexp.MustCompile(`\bconst\s+(\w+)\s*=\s*\(`)
	funcDeclPattern    = regexp.MustCompile(`\bfunction\s+(\w+)\s*\(`)
)

// Sanitize applies additive fix-ups to generated code. For React it ensures a
// React import and an exported component; other frameworks are only
// fence-stripped and trimmed. Applying it twice gives the same result.
func Sanitize(code string, fw domain.Framework) string {
	out := StripFences(code)

	if fw == domain.FrameworkReact {
		if !reactImportPattern.MatchString(out) {
			out = reactImport + out
		}
		if !exportPattern.MatchString(out) {
			out = promoteExport(out)
		}
	}

	return strings.TrimSpace(out)
}

// promoteExport exports the first arrow-function const, or failing that the
// first function declaration.
func promoteExport(code string) string {
	if loc := constDeclPattern.FindStringSubmatchIndex(code); loc != nil {
		name := code[loc[2]:loc[3]]
		return code[:loc[0]] + "export const " + name + " = (" + code[loc[1]:]
	}
	if loc := funcDeclPattern.FindStringSubmatchIndex(code); loc != nil {
		name := code[loc[2]:loc[3]]
		return code[:loc[0]] + "export function " + name + "(" + code[loc[1]:]
	}
	return code
}
