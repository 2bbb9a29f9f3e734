package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/docentkit/docent/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

// renderLessonChecks formats the verify results of one lesson for the reader
// overlay. Passing checks are summarized; failures, warnings, and skips each
// get a line.
func renderLessonChecks(lr domain.LessonResult) string {
	var b strings.Builder

	b.WriteString(lr.Ref.Slug())
	b.WriteString(" — ")
	b.WriteString(lr.Ref.Title)
	b.WriteString("\n\n")

	if lr.Error != nil {
		b.WriteString("Error:\n")
		b.WriteString("  - kind: ")
		b.WriteString(string(lr.Error.Kind))
		b.WriteString("\n  - msg: ")
		b.WriteString(lr.Error.Message)
		b.WriteString("\n")
		return b.String()
	}

	passed := 0
	for _, cr := range lr.Results {
		switch {
		case cr.Skipped:
			b.WriteString("  - ")
			b.WriteString(cr.Check)
			b.WriteString(" [SKIP] ")
			b.WriteString(cr.Message)
			b.WriteString("\n")
		case cr.Passed:
			passed++
		case cr.Level == domain.LevelWarning:
			b.WriteString("  ! ")
			b.WriteString(cr.Check)
			b.WriteString(" [WARN] ")
			b.WriteString(cr.Message)
			b.WriteString("\n")
		default:
			b.WriteString("  ✗ ")
			b.WriteString(cr.Check)
			b.WriteString(" [FAIL] ")
			b.WriteString(cr.Message)
			b.WriteString("\n")
		}
	}

	b.WriteString(fmt.Sprintf("\n%d of %d checks passed\n", passed, len(lr.Results)))
	return b.String()
}

// renderReportSummary formats a whole-course verify run for the verify
// screen.
func renderReportSummary(rep domain.Report, id string) string {
	var b strings.Builder

	b.WriteString("Course: ")
	b.WriteString(rep.CourseTitle)
	b.WriteString("\n")
	if id != "" {
		b.WriteString("Report: ")
		b.WriteString(id)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, lr := range rep.Lessons {
		mark := "✓"
		if lr.Failed() {
			mark = "✗"
		}
		b.WriteString(mark)
		b.WriteString(" ")
		b.WriteString(lr.Ref.Slug())
		b.WriteString(" — ")
		b.WriteString(lr.Ref.Title)
		b.WriteString("\n")

		if lr.Error != nil {
			b.WriteString("    error: ")
			b.WriteString(lr.Error.Message)
			b.WriteString("\n")
			continue
		}
		for _, cr := range lr.Results {
			if cr.Passed || cr.Skipped {
				continue
			}
			prefix := "    ✗ "
			if cr.Level == domain.LevelWarning {
				prefix = "    ! "
			}
			b.WriteString(prefix)
			b.WriteString(cr.Check)
			b.WriteString(": ")
			b.WriteString(clampString(cr.Message, 90))
			b.WriteString("\n")
		}
	}

	passed, failed, warned, skipped := rep.Counts()
	b.WriteString(fmt.Sprintf("\nchecks: %d passed, %d failed, %d warnings, %d skipped\n",
		passed, failed, warned, skipped))
	return b.String()
}
