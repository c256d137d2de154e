package codegen

import (
	"strings"
	"testing"

	"github.com/ashureev/uiforge/internal/domain"
)

func TestFallback_React(t *testing.T) {
	t.Parallel()

	prompt := strings.Repeat("a", 50) + "TAIL"
	got := Fallback(domain.FrameworkReact, prompt)

	if got == "" {
		t.Fatal("expected non-empty fallback")
	}
	if !strings.Contains(got, "Component for: "+strings.Repeat("a", 50)+"...") {
		t.Errorf("missing excerpt:\n%s", got)
	}
	if strings.Contains(got, "TAIL") {
		t.Error("fallback embeds more than 50 characters of the prompt")
	}
	if !strings.Contains(got, "export const GeneratedComponent") {
		t.Error("fallback should export GeneratedComponent")
	}
	if Sanitize(got, domain.FrameworkReact) != got {
		t.Error("react fallback should already be sanitized")
	}
}

func TestFallback_OtherFrameworks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fw     domain.Framework
		prompt string
		want   string
	}{
		{"collapses whitespace", domain.FrameworkVue, "a card\nwith -- dashes", "<!-- vue component -->\n<!-- a card with - dashes -->"},
		{"hyphen run cannot close comment", domain.FrameworkVue, "x ---> <script>alert(1)</script>", "<!-- vue component -->\n<!-- x -> <script>alert(1)</script> -->"},
		{"long run", domain.FrameworkSvelte, "a ------ b", "<!-- svelte component -->\n<!-- a - b -->"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Fallback(tt.fw, tt.prompt)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			body := strings.TrimSuffix(strings.SplitN(got, "\n", 2)[1], " -->")
			if strings.Contains(body[len("<!--"):], "--") {
				t.Errorf("comment body contains --: %q", body)
			}
		})
	}
}

func TestExcerpt_CountsRunes(t *testing.T) {
	t.Parallel()

	s := strings.Repeat("é", 60)
	got := Excerpt(s, 50)
	if n := len([]rune(got)); n != 50 {
		t.Errorf("excerpt has %d runes, want 50", n)
	}
	if Excerpt("short", 50) != "short" {
		t.Error("short input should be unchanged")
	}
}
