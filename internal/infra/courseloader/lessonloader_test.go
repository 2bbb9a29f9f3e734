package courseloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/infra/markdown"
)

func lessonRef() domain.LessonRef {
	return domain.LessonRef{
		Number: 4,
		Title:  "Map-Reduce Indexes",
		Dir:    "units/unit2/lesson4",
		Path:   "units/unit2/lesson4/README.md",
	}
}

func writeLesson(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, "units", "unit2", "lesson4")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(content), 0o644); err != nil {
		t.Fatalf("write lesson: %v", err)
	}
}

func TestLoadLesson_FullLesson(t *testing.T) {
	tmp := t.TempDir()
	writeLesson(t, tmp, `---
title: Map-Reduce Indexes
minutes: 25
checks:
  - name: categories
    file: data/northwind/categories.json
    path: $[0].Name
    exists: true
---

# Map-Reduce Indexes

Some prose with a [link](../lesson3/README.md).

`+"```go\npackage main\n```\n")

	loader := NewLessonLoader(markdown.NewParser())
	lesson, err := loader.LoadLesson(tmp, lessonRef())
	if err != nil {
		t.Fatalf("LoadLesson error: %v", err)
	}

	if lesson.Front.Title != "Map-Reduce Indexes" {
		t.Fatalf("front title = %q", lesson.Front.Title)
	}
	if lesson.Front.Minutes != 25 {
		t.Fatalf("front minutes = %d", lesson.Front.Minutes)
	}
	if len(lesson.Front.Checks) != 1 || lesson.Front.Checks[0].File != "data/northwind/categories.json" {
		t.Fatalf("front checks = %+v", lesson.Front.Checks)
	}
	if !lesson.Front.Checks[0].Exists {
		t.Fatalf("expected exists check")
	}

	headings := lesson.Doc.Headings()
	if len(headings) != 1 || headings[0].Text != "Map-Reduce Indexes" {
		t.Fatalf("headings = %+v", headings)
	}
	// Frontmatter spans lines 1-9, so the H1 sits on line 11 of the file.
	if headings[0].Line != 11 {
		t.Fatalf("heading line = %d, want 11", headings[0].Line)
	}

	links := lesson.Doc.Links()
	if len(links) != 1 || links[0].Target != "../lesson3/README.md" {
		t.Fatalf("links = %+v", links)
	}

	code := lesson.Doc.CodeBlocks()
	if len(code) != 1 || code[0].Lang != "go" {
		t.Fatalf("code blocks = %+v", code)
	}
}

func TestLoadLesson_NoFrontmatter(t *testing.T) {
	tmp := t.TempDir()
	writeLesson(t, tmp, "# Title\n\nbody\n")

	loader := NewLessonLoader(markdown.NewParser())
	lesson, err := loader.LoadLesson(tmp, lessonRef())
	if err != nil {
		t.Fatalf("LoadLesson error: %v", err)
	}

	if lesson.Front.Title != "" {
		t.Fatalf("expected empty frontmatter, got %+v", lesson.Front)
	}
	if got := lesson.Doc.Headings(); len(got) != 1 || got[0].Line != 1 {
		t.Fatalf("headings = %+v", got)
	}
	if string(lesson.Body) != string(lesson.Raw) {
		t.Fatalf("body should equal raw without frontmatter")
	}
}

func TestLoadLesson_MissingFile(t *testing.T) {
	tmp := t.TempDir()

	loader := NewLessonLoader(markdown.NewParser())
	_, err := loader.LoadLesson(tmp, lessonRef())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestLoadLesson_BadFrontmatterYAML(t *testing.T) {
	tmp := t.TempDir()
	writeLesson(t, tmp, "---\ntitle: [unclosed\n---\n\n# T\n")

	loader := NewLessonLoader(markdown.NewParser())
	_, err := loader.LoadLesson(tmp, lessonRef())
	if !domain.IsKind(err, domain.KindInvalidContent) {
		t.Fatalf("expected KindInvalidContent, got: %v", err)
	}
}

func TestLoadLesson_FrontmatterCheckValidation(t *testing.T) {
	cases := []struct {
		name  string
		front string
	}{
		{"missing name", "checks:\n  - file: data/x.json\n    path: $.a\n"},
		{"missing file", "checks:\n  - name: c\n    path: $.a\n"},
		{"missing path", "checks:\n  - name: c\n    file: data/x.json\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tmp := t.TempDir()
			writeLesson(t, tmp, "---\n"+tc.front+"---\n\n# T\n")

			loader := NewLessonLoader(markdown.NewParser())
			_, err := loader.LoadLesson(tmp, lessonRef())
			if !domain.IsKind(err, domain.KindInvalidContent) {
				t.Fatalf("expected KindInvalidContent, got: %v", err)
			}
		})
	}
}

func TestLoadLesson_DisplayTitlePrefersFrontmatter(t *testing.T) {
	tmp := t.TempDir()
	writeLesson(t, tmp, "---\ntitle: From Front\n---\n\n# From Body\n")

	loader := NewLessonLoader(markdown.NewParser())
	lesson, err := loader.LoadLesson(tmp, lessonRef())
	if err != nil {
		t.Fatalf("LoadLesson error: %v", err)
	}
	if got := lesson.DisplayTitle(); got != "From Front" {
		t.Fatalf("DisplayTitle = %q", got)
	}
}
