package snippetcheck

import (
	"errors"
	"go/parser"
	"go/token"
	"strings"

	"github.com/docentkit/docent/internal/ports"
)

// GoChecker parses Go blocks with go/parser. Lesson snippets are rarely
// whole files, so fragments without a package clause are retried as
// top-level declarations and then as statements inside a function body.
type GoChecker struct{}

var _ ports.SnippetChecker = GoChecker{}

func (GoChecker) Lang() string { return "go" }

func (GoChecker) Check(src string) error {
	src = strings.TrimRight(src, "\n") + "\n"
	if strings.TrimSpace(src) == "" {
		return errors.New("empty go snippet")
	}

	if hasPackageClause(src) {
		return parseGo(src)
	}

	declErr := parseGo("package snippet\n\n" + src)
	if declErr == nil {
		return nil
	}
	if parseGo("package snippet\n\nfunc _() {\n"+src+"}\n") == nil {
		return nil
	}
	return declErr
}

func parseGo(src string) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "snippet.go", src, parser.SkipObjectResolution)
	return err
}

func hasPackageClause(src string) bool {
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		return strings.HasPrefix(line, "package ")
	}
	return false
}
