package courseloader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/ports"
)

// LessonLoader reads a lesson file, splits its optional YAML frontmatter and
// parses the body through the injected document parser.
type LessonLoader struct {
	parser ports.DocumentParser
}

func NewLessonLoader(parser ports.DocumentParser) *LessonLoader {
	return &LessonLoader{parser: parser}
}

var _ ports.LessonLoader = (*LessonLoader)(nil)

func (l *LessonLoader) LoadLesson(root string, ref domain.LessonRef) (domain.Lesson, error) {
	full := filepath.Join(root, filepath.FromSlash(ref.Path))

	raw, err := os.ReadFile(full)
	if err != nil {
		return domain.Lesson{}, &domain.OpError{
			Op:   "lessonloader.load",
			Kind: domain.KindNotFound,
			Path: ref.Path,
			Err:  err,
		}
	}

	var fm yamlFrontmatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return domain.Lesson{}, &domain.OpError{
			Op:   "lessonloader.load",
			Kind: domain.KindInvalidContent,
			Path: ref.Path,
			Err:  fmt.Errorf("frontmatter: %w", err),
		}
	}

	front, err := mapFrontmatter(ref.Path, fm)
	if err != nil {
		return domain.Lesson{}, err
	}

	doc, err := l.parser.Parse(body)
	if err != nil {
		return domain.Lesson{}, err
	}

	// Block lines are relative to the body; shift them so they point at the
	// file as saved on disk, frontmatter included.
	if shift := lineCount(raw) - lineCount(body); shift > 0 {
		for i := range doc.Blocks {
			if doc.Blocks[i].Line > 0 {
				doc.Blocks[i].Line += shift
			}
		}
	}

	return domain.Lesson{
		Ref:   ref,
		Front: front,
		Raw:   raw,
		Body:  body,
		Doc:   doc,
	}, nil
}

type yamlFrontmatter struct {
	Title   string          `yaml:"title"`
	Minutes int             `yaml:"minutes"`
	Checks  []yamlDataCheck `yaml:"checks"`
}

type yamlDataCheck struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	Path   string  `yaml:"path"`
	Exists bool    `yaml:"exists"`
	Equals *string `yaml:"equals"`
}

func mapFrontmatter(lessonPath string, fm yamlFrontmatter) (domain.Frontmatter, error) {
	front := domain.Frontmatter{
		Title:   strings.TrimSpace(fm.Title),
		Minutes: fm.Minutes,
	}

	for i, c := range fm.Checks {
		fieldPrefix := fmt.Sprintf("checks[%d]", i)

		if strings.TrimSpace(c.Name) == "" {
			return domain.Frontmatter{}, invalidFrontmatterField(lessonPath, fieldPrefix+".name", "check name is required")
		}
		if strings.TrimSpace(c.File) == "" {
			return domain.Frontmatter{}, invalidFrontmatterField(lessonPath, fieldPrefix+".file", "check file is required")
		}
		if strings.TrimSpace(c.Path) == "" {
			return domain.Frontmatter{}, invalidFrontmatterField(lessonPath, fieldPrefix+".path", "check path is required")
		}

		front.Checks = append(front.Checks, domain.DataCheck{
			Name:   strings.TrimSpace(c.Name),
			File:   strings.TrimSpace(c.File),
			Path:   strings.TrimSpace(c.Path),
			Exists: c.Exists,
			Equals: c.Equals,
		})
	}

	return front, nil
}

func invalidFrontmatterField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "lessonloader.validate",
		Kind: domain.KindInvalidContent,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}

func lineCount(b []byte) int {
	return bytes.Count(b, []byte("\n"))
}
