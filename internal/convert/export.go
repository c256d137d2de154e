package convert

import (
	"fmt"
	"path"
	"regexp"

	"github.com/ashureev/uiforge/internal/codegen"
	"github.com/ashureev/uiforge/internal/domain"
)

// Format selects the export layout.
type Format string

const (
	FormatSingleFile      Format = "single-file"
	FormatComponentFolder Format = "component-folder"
)

// Options control how a component is exported.
type Options struct {
	Framework     domain.Framework `json:"framework"`
	IncludeTypes  bool             `json:"includeTypes"`
	IncludeStyles bool             `json:"includeStyles"`
	Format        Format           `json:"format"`
}

// File is one exported source file.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

var (
	typeAnnotationPattern = regexp.MustCompile(`:\s*\w+(\[\])?`)
	interfacePattern      = regexp.MustCompile(`interface\s+\w+\s*\{[^}]*\}`)
	typeArgPattern        = regexp.MustCompile(`(\w)<\w+>`)
	styleClassPattern     = regexp.MustCompile(`className="[^"]*"`)
	fileNamePattern       = regexp.MustCompile(`^\w+$`)
)

// FileExtension returns the source file extension used for fw.
func FileExtension(fw domain.Framework) string {
	switch fw {
	case domain.FrameworkReact:
		return "tsx"
	case domain.FrameworkVue:
		return "vue"
	case domain.FrameworkSvelte:
		return "svelte"
	case domain.FrameworkHTML:
		return "html"
	default:
		return "txt"
	}
}

// RemoveTypeAnnotations strips simple TypeScript annotations, interfaces and
// generic type arguments.
func RemoveTypeAnnotations(code string) string {
	code = typeAnnotationPattern.ReplaceAllString(code, "")
	code = interfacePattern.ReplaceAllString(code, "")
	return typeArgPattern.ReplaceAllString(code, "${1}")
}

// RemoveStyleClasses drops literal className attributes.
func RemoveStyleClasses(code string) string {
	return styleClassPattern.ReplaceAllString(code, "")
}

// Export converts code written for from according to opts and lays it out
// as files named after name.
func Export(name, code string, from domain.Framework, opts Options) ([]File, error) {
	if opts.Framework == "" {
		opts.Framework = from
	}
	if !opts.Framework.Valid() {
		return nil, fmt.Errorf("unsupported export framework %q", opts.Framework)
	}
	if opts.Format == "" {
		opts.Format = FormatSingleFile
	}
	if !fileNamePattern.MatchString(name) {
		name = codegen.ComponentName(code)
	}

	out := Convert(code, from, opts.Framework)
	if !opts.IncludeTypes {
		out = RemoveTypeAnnotations(out)
	}
	if !opts.IncludeStyles {
		out = RemoveStyleClasses(out)
	}

	file := name + "." + FileExtension(opts.Framework)

	switch opts.Format {
	case FormatSingleFile:
		return []File{{Path: file, Content: out}}, nil
	case FormatComponentFolder:
		files := []File{{Path: path.Join(name, file), Content: out}}
		if opts.Framework == domain.FrameworkReact {
			files = append(files, File{
				Path:    path.Join(name, "index.ts"),
				Content: fmt.Sprintf("export * from './%s';\n", name),
			})
		}
		return files, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", opts.Format)
	}
}
