package fsworkspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docentkit/docent/internal/domain"
)

func TestInitializer_Init_CreatesWorkspaceFiles(t *testing.T) {
	tmp := t.TempDir()

	i := NewInitializer()
	if err := i.Init(domain.WorkspaceSpec{Root: tmp, Title: "Database Fundamentals"}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	assertFileExists(t, filepath.Join(tmp, "course.yaml"))
	assertFileExists(t, filepath.Join(tmp, "README.md"))
	assertFileExists(t, filepath.Join(tmp, "units", "unit1", "lesson1", "README.md"))
	assertFileExists(t, filepath.Join(tmp, "data", "sample.json"))
	assertFileExists(t, filepath.Join(tmp, ".gitignore"))

	for _, d := range []string{"reports", filepath.Join(".docent", "logs")} {
		info, err := os.Stat(filepath.Join(tmp, d))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s, err=%v", d, err)
		}
	}

	b, err := os.ReadFile(filepath.Join(tmp, "course.yaml"))
	if err != nil {
		t.Fatalf("read course.yaml: %v", err)
	}
	if !strings.Contains(string(b), `title: "Database Fundamentals"`) {
		t.Fatalf("expected resolved title in course.yaml, got:\n%s", string(b))
	}
	if strings.Contains(string(b), "{{") {
		t.Fatalf("unresolved placeholder left in course.yaml:\n%s", string(b))
	}
}

func TestInitializer_Init_DefaultsTitle(t *testing.T) {
	tmp := t.TempDir()

	i := NewInitializer()
	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(tmp, "course.yaml"))
	if err != nil {
		t.Fatalf("read course.yaml: %v", err)
	}
	if !strings.Contains(string(b), `title: "New Course"`) {
		t.Fatalf("expected default title, got:\n%s", string(b))
	}
}

func TestInitializer_Init_SkipsExistingFilesUnlessForce(t *testing.T) {
	tmp := t.TempDir()

	manifest := filepath.Join(tmp, "course.yaml")
	if err := os.WriteFile(manifest, []byte("custom\n"), 0o644); err != nil {
		t.Fatalf("write existing course.yaml: %v", err)
	}

	i := NewInitializer()

	if err := i.Init(domain.WorkspaceSpec{Root: tmp, Title: "T"}, false); err != nil {
		t.Fatalf("Init (force=false) error: %v", err)
	}

	b, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("read course.yaml: %v", err)
	}
	if string(b) != "custom\n" {
		t.Fatalf("expected course.yaml preserved, got %q", string(b))
	}

	if err := i.Init(domain.WorkspaceSpec{Root: tmp, Title: "T"}, true); err != nil {
		t.Fatalf("Init (force=true) error: %v", err)
	}

	b, err = os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("read course.yaml after force: %v", err)
	}
	if !strings.Contains(string(b), "units:") {
		t.Fatalf("expected course.yaml overwritten with template, got %q", string(b))
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file %s, stat err=%v", path, err)
	}
}
