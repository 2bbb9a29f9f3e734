// Package snippetcheck validates the fenced code blocks of a lesson. Each
// supported language gets a checker; blocks in languages nobody registered
// are recorded as skipped rather than failed, and untagged blocks warn.
package snippetcheck

import (
	"fmt"
	"strings"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/ports"
)

// Registry maps normalized language tags to their checkers.
type Registry struct {
	checkers map[string]ports.SnippetChecker
}

// NewRegistry builds a registry from the given checkers.
func NewRegistry(checkers ...ports.SnippetChecker) *Registry {
	r := &Registry{checkers: make(map[string]ports.SnippetChecker, len(checkers))}
	for _, c := range checkers {
		r.Register(c)
	}
	return r
}

// Default returns a registry with every built-in checker registered.
func Default() *Registry {
	return NewRegistry(GoChecker{}, JSONChecker{}, YAMLChecker{})
}

// Register adds or replaces the checker for its language.
func (r *Registry) Register(c ports.SnippetChecker) {
	r.checkers[Normalize(c.Lang())] = c
}

// Lookup finds the checker for a (raw) language tag.
func (r *Registry) Lookup(lang string) (ports.SnippetChecker, bool) {
	c, ok := r.checkers[Normalize(lang)]
	return c, ok
}

// Normalize folds a fence language tag to its canonical form.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "golang":
		return "go"
	case "yml":
		return "yaml"
	}
	return lang
}

// Evaluate checks every fenced code block in the document against the
// registry.
func Evaluate(reg *Registry, ref domain.LessonRef, doc domain.Document) []domain.CheckResult {
	var out []domain.CheckResult

	for _, block := range doc.CodeBlocks() {
		at := fmt.Sprintf("%s:%d", ref.Path, block.Line)
		lang := Normalize(block.Lang)

		if lang == "" {
			out = append(out, domain.Warn("snippets.untagged", at, "code block has no language tag"))
			continue
		}

		checker, ok := reg.Lookup(lang)
		if !ok {
			out = append(out, domain.Skip("snippets."+lang, at, "no checker for language "+lang))
			continue
		}

		if err := checker.Check(block.Code); err != nil {
			out = append(out, domain.Fail("snippets."+lang, at, err.Error()))
			continue
		}
		out = append(out, domain.Pass("snippets."+lang, at, lang+" block parses"))
	}
	return out
}
