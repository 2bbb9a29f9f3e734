package tui

import "github.com/docentkit/docent/internal/domain"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type lessonsLoadedMsg struct {
	root string
	refs []domain.LessonRef
	err  error
}

type lessonRenderedMsg struct {
	ref     domain.LessonRef
	content string
	err     error
}

type verifyDoneMsg struct {
	// lessonKey is empty for a whole-course run.
	lessonKey string
	report    domain.Report
	id        string
	err       error
}
