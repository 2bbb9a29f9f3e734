package ports

import "github.com/docentkit/docent/internal/domain"

// CourseLoader loads the course manifest from a workspace root.
type CourseLoader interface {
	LoadCourse(root string) (domain.Course, error)
	ListLessons(root string) ([]domain.LessonRef, error)
}
