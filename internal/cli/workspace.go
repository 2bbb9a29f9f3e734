package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/infra/courseloader"
	"github.com/docentkit/docent/internal/infra/markdown"
	"github.com/docentkit/docent/internal/infra/reportstore"
	"github.com/docentkit/docent/internal/infra/workspacefinder"
	"github.com/docentkit/docent/internal/ports"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	courses ports.CourseLoader
	lessons ports.LessonLoader
	store   ports.ReportStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	return &workspaceCtx{
		root:    root,
		cfg:     cfg,
		courses: courseloader.NewLoader(),
		lessons: courseloader.NewLessonLoader(markdown.NewParser()),
		store:   reportstore.NewJSONStore(root, cfg, reportstore.WithIndex(true)),
	}, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `docent init`): %w", wd, err)
	}
	return root, nil
}

// resolveLessonArg maps a user-supplied lesson key (number, slug, dir, path,
// or title) onto a manifest lesson.
func resolveLessonArg(ws *workspaceCtx, arg string) (domain.LessonRef, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return domain.LessonRef{}, fmt.Errorf("lesson is required (number, slug, dir, or path)")
	}

	course, err := ws.courses.LoadCourse(ws.root)
	if err != nil {
		return domain.LessonRef{}, err
	}

	// Absolute or workspace-relative path arguments are normalized to the
	// manifest's slash-relative form first.
	key := in
	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		if rel, relErr := filepath.Rel(ws.root, filepath.Clean(p)); relErr == nil {
			key = filepath.ToSlash(rel)
		}
	}

	if ref, ok := course.FindLesson(key); ok {
		return ref, nil
	}
	if ref, ok := course.FindLesson(in); ok {
		return ref, nil
	}

	return domain.LessonRef{}, fmt.Errorf("lesson %q not found (try `docent lessons list`)", in)
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
