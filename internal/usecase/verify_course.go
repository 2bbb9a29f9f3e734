package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/ports"
	ucdata "github.com/docentkit/docent/internal/usecase/datacheck"
	uclink "github.com/docentkit/docent/internal/usecase/linkcheck"
	ucsnippet "github.com/docentkit/docent/internal/usecase/snippetcheck"
	ucstruct "github.com/docentkit/docent/internal/usecase/structcheck"
)

type VerifyCourse struct {
	courses  ports.CourseLoader
	lessons  ports.LessonLoader
	registry *ucsnippet.Registry
	resolver *domain.PlaceholderResolver
	prober   ports.LinkProber // nil disables live link probing
}

type VerifyOption func(*VerifyCourse)

// WithProber enables live probing of external links.
func WithProber(p ports.LinkProber) VerifyOption {
	return func(uc *VerifyCourse) { uc.prober = p }
}

// WithRegistry overrides the snippet checker registry.
func WithRegistry(r *ucsnippet.Registry) VerifyOption {
	return func(uc *VerifyCourse) {
		if r != nil {
			uc.registry = r
		}
	}
}

// WithPlaceholderResolver overrides the placeholder resolver.
func WithPlaceholderResolver(pr *domain.PlaceholderResolver) VerifyOption {
	return func(uc *VerifyCourse) {
		if pr != nil {
			uc.resolver = pr
		}
	}
}

func NewVerifyCourse(cl ports.CourseLoader, ll ports.LessonLoader, opts ...VerifyOption) *VerifyCourse {
	uc := &VerifyCourse{
		courses:  cl,
		lessons:  ll,
		registry: ucsnippet.Default(),
		resolver: domain.NewPlaceholderResolver(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute checks every lesson of the course under root, or a single lesson
// when lessonKey is non-empty. A lesson that cannot be loaded is reported in
// the result and does not stop the run; only course-level failures (or a
// canceled context) abort.
func (uc *VerifyCourse) Execute(ctx context.Context, root string, lessonKey string) (domain.Report, error) {
	course, err := uc.courses.LoadCourse(root)
	if err != nil {
		return domain.Report{}, err
	}

	var refs []domain.LessonRef
	if lessonKey != "" {
		ref, ok := course.FindLesson(lessonKey)
		if !ok {
			return domain.Report{}, &domain.OpError{
				Op:   "verify",
				Kind: domain.KindNotFound,
				Err:  fmt.Errorf("no lesson matches %q", lessonKey),
			}
		}
		refs = []domain.LessonRef{ref}
	} else {
		refs = course.AllLessons()
	}

	report := domain.Report{
		CourseTitle: course.Title,
		Root:        root,
		Probe:       uc.prober != nil,
		StartedAt:   time.Now(),
		Lessons:     make([]domain.LessonResult, 0, len(refs)),
	}

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			report.EndedAt = time.Now()
			return report, err
		}

		lesson, err := uc.lessons.LoadLesson(root, ref)
		if err != nil {
			report.Lessons = append(report.Lessons, domain.LessonResult{
				Ref:   ref,
				Error: domain.NewLessonError(err),
			})
			continue
		}

		var prev, next *domain.LessonRef
		if unit, ok := course.UnitOf(ref); ok {
			prev, next = unit.Neighbors(ref)
		}

		results := ucstruct.Evaluate(lesson, prev, next)
		results = append(results, uclink.Evaluate(root, ref, lesson.Doc)...)
		results = append(results, ucsnippet.Evaluate(uc.registry, ref, lesson.Doc)...)
		results = append(results, ucdata.Evaluate(root, ref, lesson.Front.Checks)...)
		results = append(results, uc.checkPlaceholders(course, lesson)...)

		if uc.prober != nil {
			results = append(results, uclink.ProbeExternal(ctx, uc.prober, ref, lesson.Doc)...)
		}

		report.Lessons = append(report.Lessons, domain.LessonResult{Ref: ref, Results: results})
	}

	report.EndedAt = time.Now()
	return report, nil
}

// checkPlaceholders flags {{tokens}} the course cannot resolve. Published
// lessons must read cleanly without template expansion, so any leftover
// token is a failure.
func (uc *VerifyCourse) checkPlaceholders(course domain.Course, lesson domain.Lesson) []domain.CheckResult {
	names, err := uc.resolver.Scan(string(lesson.Body))
	if err != nil {
		return []domain.CheckResult{domain.Fail("placeholders", lesson.Ref.Path, err.Error())}
	}
	if len(names) == 0 {
		return nil
	}

	builtins := uc.resolver.Builtins()
	var out []domain.CheckResult
	for _, name := range names {
		if _, ok := course.Vars[name]; ok {
			continue
		}
		if _, ok := builtins[name]; ok {
			continue
		}
		out = append(out, domain.Fail("placeholders", lesson.Ref.Path,
			fmt.Sprintf("unresolvable placeholder {{%s}}", name)))
	}
	if len(out) == 0 {
		out = append(out, domain.Pass("placeholders", lesson.Ref.Path,
			fmt.Sprintf("%d placeholder(s) resolvable", len(names))))
	}
	return out
}
