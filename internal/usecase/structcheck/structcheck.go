// Package structcheck verifies the heading and navigation structure of a
// lesson document: one top-level title, no skipped heading levels, and
// prev/next links that match the lesson's place in its unit.
package structcheck

import (
	"fmt"
	"path"
	"strings"

	"github.com/docentkit/docent/internal/domain"
)

// Evaluate runs all structural checks for one loaded lesson. prev/next are
// the lesson's neighbors in the unit (nil at the edges).
func Evaluate(lesson domain.Lesson, prev, next *domain.LessonRef) []domain.CheckResult {
	var out []domain.CheckResult

	out = append(out, checkBody(lesson))
	out = append(out, checkTitle(lesson)...)
	out = append(out, checkLevels(lesson)...)
	out = append(out, checkFrontTitle(lesson)...)
	out = append(out, checkNav(lesson, prev, next)...)

	return out
}

func checkBody(lesson domain.Lesson) domain.CheckResult {
	if len(strings.TrimSpace(string(lesson.Body))) == 0 {
		return domain.Fail("structure.body", lesson.Ref.Path, "lesson body is empty")
	}
	return domain.Pass("structure.body", lesson.Ref.Path, "lesson body is non-empty")
}

func checkTitle(lesson domain.Lesson) []domain.CheckResult {
	headings := lesson.Doc.Headings()
	target := lesson.Ref.Path

	if len(headings) == 0 {
		return []domain.CheckResult{domain.Fail("structure.title", target, "no headings found")}
	}

	var out []domain.CheckResult

	h1s := 0
	for _, h := range headings {
		if h.Level == 1 {
			h1s++
		}
	}
	switch {
	case h1s == 0:
		out = append(out, domain.Fail("structure.title", target, "no top-level title"))
	case h1s > 1:
		out = append(out, domain.Fail("structure.title", target,
			fmt.Sprintf("%d top-level titles, want exactly 1", h1s)))
	case headings[0].Level != 1:
		out = append(out, domain.Fail("structure.title", target,
			fmt.Sprintf("first heading is level %d, want the title first", headings[0].Level)))
	default:
		out = append(out, domain.Pass("structure.title", target,
			fmt.Sprintf("single title %q", headings[0].Text)))
	}

	return out
}

func checkLevels(lesson domain.Lesson) []domain.CheckResult {
	var out []domain.CheckResult

	last := 0
	for _, h := range lesson.Doc.Headings() {
		if last > 0 && h.Level > last+1 {
			out = append(out, domain.Fail("structure.levels",
				fmt.Sprintf("%s:%d", lesson.Ref.Path, h.Line),
				fmt.Sprintf("heading level jumps from %d to %d at %q", last, h.Level, h.Text)))
		}
		last = h.Level
	}

	if len(out) == 0 {
		out = append(out, domain.Pass("structure.levels", lesson.Ref.Path, "no skipped heading levels"))
	}
	return out
}

func checkFrontTitle(lesson domain.Lesson) []domain.CheckResult {
	if lesson.Front.Title == "" {
		return nil
	}
	for _, h := range lesson.Doc.Headings() {
		if h.Level != 1 {
			continue
		}
		if h.Text == lesson.Front.Title {
			return []domain.CheckResult{domain.Pass("structure.front-title", lesson.Ref.Path,
				"frontmatter title matches the document title")}
		}
		return []domain.CheckResult{domain.Warn("structure.front-title", lesson.Ref.Path,
			fmt.Sprintf("frontmatter title %q differs from document title %q", lesson.Front.Title, h.Text))}
	}
	return nil
}

func checkNav(lesson domain.Lesson, prev, next *domain.LessonRef) []domain.CheckResult {
	var out []domain.CheckResult

	if prev != nil {
		out = append(out, navResult(lesson, "structure.nav-prev", prev))
	}
	if next != nil {
		out = append(out, navResult(lesson, "structure.nav-next", next))
	}
	return out
}

func navResult(lesson domain.Lesson, check string, neighbor *domain.LessonRef) domain.CheckResult {
	want := "../" + neighbor.Slug() + "/README.md"
	if hasLinkTo(lesson.Doc, want) {
		return domain.Pass(check, lesson.Ref.Path, "links to "+want)
	}
	return domain.Warn(check, lesson.Ref.Path, "no link to "+want)
}

func hasLinkTo(doc domain.Document, want string) bool {
	for _, l := range doc.Links() {
		target := l.Target
		if i := strings.IndexByte(target, '#'); i >= 0 {
			target = target[:i]
		}
		if path.Clean(strings.TrimSpace(target)) == want {
			return true
		}
	}
	return false
}
