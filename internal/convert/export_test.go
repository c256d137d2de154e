package convert

import (
	"strings"
	"testing"

	"github.com/ashureev/uiforge/internal/domain"
)

func TestFileExtension(t *testing.T) {
	t.Parallel()

	tests := map[domain.Framework]string{
		domain.FrameworkReact:  "tsx",
		domain.FrameworkVue:    "vue",
		domain.FrameworkSvelte: "svelte",
		domain.FrameworkHTML:   "html",
		"angular":              "txt",
	}
	for fw, want := range tests {
		if got := FileExtension(fw); got != want {
			t.Errorf("FileExtension(%q) = %q, want %q", fw, got, want)
		}
	}
}

func TestRemoveTypeAnnotations(t *testing.T) {
	t.Parallel()

	in := "interface Props {\n  label: string\n}\nfunction f(a: string, b: number[]) {}\nconst [v] = useState<string>('');"
	got := RemoveTypeAnnotations(in)

	if strings.Contains(got, "interface") {
		t.Errorf("interface not removed:\n%s", got)
	}
	if !strings.Contains(got, "function f(a, b) {}") {
		t.Errorf("annotations not removed:\n%s", got)
	}
	if !strings.Contains(got, "useState('')") {
		t.Errorf("type argument not removed:\n%s", got)
	}
}

func TestRemoveTypeAnnotations_KeepsMarkup(t *testing.T) {
	t.Parallel()

	in := "<div><p>hi</p></div>"
	if got := RemoveTypeAnnotations(in); got != in {
		t.Errorf("markup was modified: %q", got)
	}
}

func TestRemoveStyleClasses(t *testing.T) {
	t.Parallel()

	got := RemoveStyleClasses(`<div className="p-4 m-2">x</div>`)
	if got != "<div >x</div>" {
		t.Errorf("got %q", got)
	}
}

func TestExport_SingleFile(t *testing.T) {
	t.Parallel()

	files, err := Export("Counter", counter, domain.FrameworkReact, Options{IncludeTypes: true, IncludeStyles: true})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0].Path != "Counter.tsx" {
		t.Errorf("path = %q", files[0].Path)
	}
	if files[0].Content != counter {
		t.Error("content should be unchanged")
	}
}

func TestExport_FolderWithConversion(t *testing.T) {
	t.Parallel()

	files, err := Export("Counter", counter, domain.FrameworkReact, Options{
		Framework:     domain.FrameworkVue,
		IncludeTypes:  true,
		IncludeStyles: true,
		Format:        FormatComponentFolder,
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(files) != 1 || files[0].Path != "Counter/Counter.vue" {
		t.Fatalf("unexpected files: %+v", files)
	}
	if !strings.Contains(files[0].Content, "<template>") {
		t.Error("expected converted vue content")
	}
}

func TestExport_ReactFolderAddsIndex(t *testing.T) {
	t.Parallel()

	files, err := Export("Counter", counter, domain.FrameworkReact, Options{Format: FormatComponentFolder})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[1].Path != "Counter/index.ts" || files[1].Content != "export * from './Counter';\n" {
		t.Errorf("unexpected index file: %+v", files[1])
	}
	if strings.Contains(files[0].Content, `className="btn"`) {
		t.Error("style classes should be removed when IncludeStyles is false")
	}
}

func TestExport_UnsafeNameFallsBack(t *testing.T) {
	t.Parallel()

	code := "export const Banner = () => <div/>;"
	tests := []struct {
		name string
		in   string
		code string
		want string
	}{
		{"traversal", "../../x", code, "Banner/Banner.tsx"},
		{"separator", "a/b", code, "Banner/Banner.tsx"},
		{"empty", "", code, "Banner/Banner.tsx"},
		{"no declaration", "..", "<div/>", "Component/Component.tsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			files, err := Export(tt.in, tt.code, domain.FrameworkReact, Options{Format: FormatComponentFolder, IncludeTypes: true})
			if err != nil {
				t.Fatalf("Export: %v", err)
			}
			if files[0].Path != tt.want {
				t.Errorf("path = %q, want %q", files[0].Path, tt.want)
			}
			for _, f := range files {
				if strings.Contains(f.Path, "..") {
					t.Errorf("path %q escapes the export root", f.Path)
				}
			}
		})
	}
}

func TestExport_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Export("X", "", domain.FrameworkReact, Options{Framework: "angular"}); err == nil {
		t.Error("expected error for unknown framework")
	}
	if _, err := Export("X", "", domain.FrameworkReact, Options{Format: "zip"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
