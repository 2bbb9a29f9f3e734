package ports

import "github.com/docentkit/docent/internal/domain"

// LessonLoader reads and parses one lesson document.
type LessonLoader interface {
	LoadLesson(root string, ref domain.LessonRef) (domain.Lesson, error)
}
