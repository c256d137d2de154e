// Package convert translates React components to other frameworks with
// best-effort text transforms and prepares code for export.
package convert

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ashureev/uiforge/internal/domain"
)

var (
	useStatePattern   = regexp.MustCompile(`const\s+\[(\w+),\s*set(\w+)\]\s*=\s*useState\((.*?)\)`)
	classNamePattern  = regexp.MustCompile(`className=`)
	eventBindPattern  = regexp.MustCompile(`\bon([A-Z]\w*)=`)
	eventValuePattern = regexp.MustCompile(`\bon([A-Z]\w*)=\{([^{}]*)\}`)
	identExprPattern  = regexp.MustCompile(`\{(\w+)\}`)

	htmlEventPattern = regexp.MustCompile(`\s+on\w+=\{[^}]+\}`)
	htmlExprPattern  = regexp.MustCompile(`\{.*?\}`)

	returnJSXPattern = regexp.MustCompile(`return\s*\(((?s:.*?))\);?\s*\}`)
	bareJSXPattern   = regexp.MustCompile(`<[^>]+>(?s:.*)</[^>]+>`)

	importLinePattern = regexp.MustCompile(`import\s+.*?from\s+['"].*?['"];?\n`)
	exportKwPattern   = regexp.MustCompile(`export\s+(default\s+)?`)
	declHeadPattern   = regexp.MustCompile(`(?s)^.*?(?:function|const)\s+\w+.*?\{`)
	returnTailPattern = regexp.MustCompile(`(?s)return\s*\((.*?)\);?\s*\}.*$`)
)

const vueTemplate = `<template>
  %s
</template>

<script setup lang="ts">
import { ref } from 'vue';

%s
</script>

<style scoped>
/* Add your styles here */
</style>`

const svelteTemplate = `<script lang="ts">
%s
</script>

%s

<style>
/* Add your styles here */
</style>`

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Generated Component</title>
  <script src="https://cdn.tailwindcss.com"></script>
</head>
<body>
  %s
</body>
</html>`

// Convert rewrites code written for from into the to framework. Only React
// sources are translated; other pairs are returned behind a notice comment.
// The output is not validated.
func Convert(code string, from, to domain.Framework) string {
	if from == to {
		return code
	}

	if from == domain.FrameworkReact {
		switch to {
		case domain.FrameworkVue:
			return toVue(code)
		case domain.FrameworkSvelte:
			return toSvelte(code)
		case domain.FrameworkHTML:
			return toHTML(code)
		default:
			return code
		}
	}

	return fmt.Sprintf("<!-- Conversion from %s to %s not yet implemented -->\n\n%s", from, to, code)
}

// Supported reports whether Convert performs a real translation for the pair.
func Supported(from, to domain.Framework) bool {
	return from == to || (from == domain.FrameworkReact && to.Valid())
}

func toVue(code string) string {
	out := useStatePattern.ReplaceAllString(code, "const ${1} = ref(${3})")

	// Template syntax applies to the markup only; the script keeps JS braces.
	tmpl := classNamePattern.ReplaceAllString(extractJSX(out), "class=")
	tmpl = eventValuePattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		sub := eventValuePattern.FindStringSubmatch(m)
		return "@" + strings.ToLower(sub[1]) + `="` + strings.TrimSpace(sub[2]) + `"`
	})
	tmpl = eventBindPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		return "@" + strings.ToLower(eventBindPattern.FindStringSubmatch(m)[1]) + "="
	})
	tmpl = identExprPattern.ReplaceAllString(tmpl, "{{ ${1} }}")

	return fmt.Sprintf(vueTemplate, tmpl, extractLogic(out))
}

func toSvelte(code string) string {
	out := useStatePattern.ReplaceAllString(code, "let ${1} = ${3}")
	out = classNamePattern.ReplaceAllString(out, "class=")
	out = eventBindPattern.ReplaceAllStringFunc(out, func(m string) string {
		return "on:" + strings.ToLower(eventBindPattern.FindStringSubmatch(m)[1]) + "="
	})

	return fmt.Sprintf(svelteTemplate, extractLogic(out), extractJSX(out))
}

func toHTML(code string) string {
	html := extractJSX(code)
	html = htmlEventPattern.ReplaceAllString(html, "")
	html = htmlExprPattern.ReplaceAllString(html, "")
	html = classNamePattern.ReplaceAllString(html, "class=")

	return fmt.Sprintf(htmlTemplate, html)
}

// extractJSX returns the markup returned by the component, the first span of
// markup found anywhere, or the whole input.
func extractJSX(code string) string {
	if m := returnJSXPattern.FindStringSubmatch(code); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := bareJSXPattern.FindString(code); m != "" {
		return m
	}
	return code
}

// extractLogic returns the component body without imports, export keywords,
// the declaration header and the returned markup.
func extractLogic(code string) string {
	out := importLinePattern.ReplaceAllString(code, "")
	out = exportKwPattern.ReplaceAllString(out, "")
	out = replaceFirst(declHeadPattern, out, "")
	out = replaceFirst(returnTailPattern, out, "")
	return strings.TrimSpace(out)
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}
