// Package courseloader reads the course.yaml manifest and the lesson files
// it points at.
package courseloader

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/ports"
)

// ManifestName is the file that marks a workspace root.
const ManifestName = "course.yaml"

type Loader struct {
	manifest string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{manifest: ManifestName}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

func WithManifestName(name string) Option {
	return func(l *Loader) { l.manifest = name }
}

var _ ports.CourseLoader = (*Loader)(nil)

// ListLessons returns every lesson of the manifest in course order. Whether
// a lesson's README actually exists is a verify-time concern, not a listing
// concern.
func (l *Loader) ListLessons(root string) ([]domain.LessonRef, error) {
	course, err := l.LoadCourse(root)
	if err != nil {
		return nil, err
	}
	return course.AllLessons(), nil
}

func (l *Loader) LoadCourse(root string) (domain.Course, error) {
	manifest := filepath.Join(root, l.manifest)

	b, err := os.ReadFile(manifest)
	if err != nil {
		return domain.Course{}, &domain.OpError{
			Op:   "courseloader.load",
			Kind: domain.KindNotFound,
			Path: manifest,
			Err:  err,
		}
	}

	var yc yamlCourseFile
	if err := yaml.Unmarshal(b, &yc); err != nil {
		return domain.Course{}, &domain.OpError{
			Op:   "courseloader.load",
			Kind: domain.KindInvalidConfig,
			Path: manifest,
			Err:  err,
		}
	}

	return mapAndValidate(manifest, yc)
}

type yamlCourseFile struct {
	Course yamlCourseMeta    `yaml:"course"`
	Vars   map[string]string `yaml:"vars"`
	Units  []yamlUnit        `yaml:"units"`
}

type yamlCourseMeta struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

type yamlUnit struct {
	Name    string       `yaml:"name"`
	Dir     string       `yaml:"dir"`
	Lessons []yamlLesson `yaml:"lessons"`
}

type yamlLesson struct {
	Number int    `yaml:"number"`
	Title  string `yaml:"title"`
	Dir    string `yaml:"dir"`
}

func mapAndValidate(manifest string, yc yamlCourseFile) (domain.Course, error) {
	if strings.TrimSpace(yc.Course.Title) == "" {
		return domain.Course{}, invalidField(manifest, "course.title", "course title is required")
	}
	if len(yc.Units) == 0 {
		return domain.Course{}, invalidField(manifest, "units", "at least one unit is required")
	}

	course := domain.Course{
		Title:       yc.Course.Title,
		Slug:        strings.TrimSpace(yc.Course.Slug),
		Description: strings.TrimSpace(yc.Course.Description),
		Vars:        domain.Vars(yc.Vars),
		Units:       make([]domain.Unit, 0, len(yc.Units)),
	}
	if course.Slug == "" {
		course.Slug = slugify(course.Title)
	}
	if course.Vars == nil {
		course.Vars = domain.Vars{}
	}

	for i, u := range yc.Units {
		fieldPrefix := fmt.Sprintf("units[%d]", i)

		if strings.TrimSpace(u.Name) == "" {
			return domain.Course{}, invalidField(manifest, fieldPrefix+".name", "unit name is required")
		}
		if strings.TrimSpace(u.Dir) == "" {
			return domain.Course{}, invalidField(manifest, fieldPrefix+".dir", "unit dir is required")
		}
		if len(u.Lessons) == 0 {
			return domain.Course{}, invalidField(manifest, fieldPrefix+".lessons", "at least one lesson is required")
		}

		unit := domain.Unit{
			Name:    u.Name,
			Dir:     path.Clean(u.Dir),
			Lessons: make([]domain.LessonRef, 0, len(u.Lessons)),
		}

		seen := map[int]bool{}
		for j, les := range u.Lessons {
			lessonPrefix := fmt.Sprintf("%s.lessons[%d]", fieldPrefix, j)

			if les.Number <= 0 {
				return domain.Course{}, invalidField(manifest, lessonPrefix+".number", "lesson number must be positive")
			}
			if seen[les.Number] {
				return domain.Course{}, invalidField(manifest, lessonPrefix+".number",
					fmt.Sprintf("lesson number %d repeats within the unit", les.Number))
			}
			seen[les.Number] = true

			if strings.TrimSpace(les.Title) == "" {
				return domain.Course{}, invalidField(manifest, lessonPrefix+".title", "lesson title is required")
			}
			if strings.TrimSpace(les.Dir) == "" {
				return domain.Course{}, invalidField(manifest, lessonPrefix+".dir", "lesson dir is required")
			}

			dir := path.Clean(les.Dir)
			if dir != unit.Dir && !strings.HasPrefix(dir, unit.Dir+"/") {
				return domain.Course{}, invalidField(manifest, lessonPrefix+".dir",
					fmt.Sprintf("lesson dir %q is outside unit dir %q", dir, unit.Dir))
			}

			unit.Lessons = append(unit.Lessons, domain.LessonRef{
				Number: les.Number,
				Title:  les.Title,
				Dir:    dir,
				Path:   dir + "/README.md",
			})
		}

		course.Units = append(course.Units, unit)
	}

	return course, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "courseloader.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
