// Package domain defines the core types shared across the generator service.
package domain

import (
	"fmt"
	"strings"
)

// Framework identifies a UI framework a component is written for.
type Framework string

const (
	FrameworkReact  Framework = "react"
	FrameworkVue    Framework = "vue"
	FrameworkSvelte Framework = "svelte"
	FrameworkHTML   Framework = "html"
)

// DefaultFramework is used when a request does not name one.
const DefaultFramework = FrameworkReact

// Frameworks lists every supported framework in display order.
var Frameworks = []Framework{FrameworkReact, FrameworkVue, FrameworkSvelte, FrameworkHTML}

// Valid reports whether f is one of the supported frameworks.
func (f Framework) Valid() bool {
	switch f {
	case FrameworkReact, FrameworkVue, FrameworkSvelte, FrameworkHTML:
		return true
	}
	return false
}

func (f Framework) String() string { return string(f) }

// ParseFramework converts user input into a Framework. Empty input yields
// DefaultFramework.
func ParseFramework(s string) (Framework, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultFramework, nil
	}
	f := Framework(s)
	if !f.Valid() {
		return "", fmt.Errorf("unsupported framework %q", s)
	}
	return f, nil
}
