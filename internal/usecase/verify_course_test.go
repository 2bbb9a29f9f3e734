package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/ports"
)

// --- fakes shared by the tests in this package ---

type fakeCourseLoader struct {
	course domain.Course
}

func (f fakeCourseLoader) LoadCourse(_ string) (domain.Course, error) {
	return f.course, nil
}

func (f fakeCourseLoader) ListLessons(_ string) ([]domain.LessonRef, error) {
	return f.course.AllLessons(), nil
}

type errCourseLoader struct{ err error }

func (e errCourseLoader) LoadCourse(_ string) (domain.Course, error) {
	return domain.Course{}, e.err
}

func (e errCourseLoader) ListLessons(_ string) ([]domain.LessonRef, error) {
	return nil, e.err
}

// fakeLessonLoader serves pre-built lessons keyed by ref path.
type fakeLessonLoader struct {
	lessons map[string]domain.Lesson
	errs    map[string]error
	cancel  context.CancelFunc // when set, fired after the first successful load
	calls   int
}

func (f *fakeLessonLoader) LoadLesson(_ string, ref domain.LessonRef) (domain.Lesson, error) {
	f.calls++
	if err, ok := f.errs[ref.Path]; ok {
		return domain.Lesson{}, err
	}
	if f.cancel != nil && f.calls == 1 {
		f.cancel()
	}
	lesson, ok := f.lessons[ref.Path]
	if !ok {
		return domain.Lesson{}, fmt.Errorf("no fixture for %s", ref.Path)
	}
	return lesson, nil
}

type fakeProber struct {
	calls []string
}

func (f *fakeProber) Probe(_ context.Context, rawURL string) domain.ProbeResult {
	f.calls = append(f.calls, rawURL)
	return domain.ProbeResult{URL: rawURL, StatusCode: 200, LatencyMS: 7}
}

// --- fixtures ---

func courseFixture() domain.Course {
	return domain.Course{
		Title: "Database Fundamentals",
		Slug:  "database-fundamentals",
		Vars:  domain.Vars{"company": "Northwind Traders"},
		Units: []domain.Unit{
			{
				Name: "Unit 2",
				Dir:  "units/unit2",
				Lessons: []domain.LessonRef{
					{Number: 1, Title: "Getting Started", Dir: "units/unit2/lesson1", Path: "units/unit2/lesson1/README.md"},
					{Number: 2, Title: "Documents", Dir: "units/unit2/lesson2", Path: "units/unit2/lesson2/README.md"},
				},
			},
		},
	}
}

func lessonFixture(ref domain.LessonRef, body string) domain.Lesson {
	return domain.Lesson{
		Ref:   ref,
		Front: domain.Frontmatter{Title: ref.Title},
		Raw:   []byte(body),
		Body:  []byte(body),
		Doc: domain.Document{Blocks: []domain.Block{
			{Kind: domain.BlockHeading, Level: 1, Text: ref.Title, Line: 1},
		}},
	}
}

func loaderFixture(course domain.Course) *fakeLessonLoader {
	lessons := map[string]domain.Lesson{}
	for _, ref := range course.AllLessons() {
		lessons[ref.Path] = lessonFixture(ref, "# "+ref.Title+"\n\nprose\n")
	}
	return &fakeLessonLoader{lessons: lessons}
}

// --- VerifyCourse.Execute ---

func TestVerifyCourse_Execute_AllLessons(t *testing.T) {
	course := courseFixture()
	uc := NewVerifyCourse(fakeCourseLoader{course: course}, loaderFixture(course))

	report, err := uc.Execute(context.Background(), t.TempDir(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.CourseTitle != "Database Fundamentals" {
		t.Errorf("CourseTitle = %q", report.CourseTitle)
	}
	if report.Probe {
		t.Errorf("Probe = true without a prober")
	}
	if len(report.Lessons) != 2 {
		t.Fatalf("got %d lesson results, want 2", len(report.Lessons))
	}
	if n := report.FailureCount(); n != 0 {
		t.Errorf("FailureCount = %d, want 0: %+v", n, report.Lessons)
	}
	// The two lessons are unit neighbors without nav links, so each warns.
	if _, _, warned, _ := report.Counts(); warned < 2 {
		t.Errorf("warned = %d, want at least 2", warned)
	}
	if report.EndedAt.Before(report.StartedAt) {
		t.Errorf("EndedAt before StartedAt")
	}
}

func TestVerifyCourse_Execute_SingleLesson(t *testing.T) {
	course := courseFixture()
	uc := NewVerifyCourse(fakeCourseLoader{course: course}, loaderFixture(course))

	report, err := uc.Execute(context.Background(), t.TempDir(), "lesson2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Lessons) != 1 {
		t.Fatalf("got %d lesson results, want 1", len(report.Lessons))
	}
	if report.Lessons[0].Ref.Number != 2 {
		t.Errorf("verified lesson %d, want 2", report.Lessons[0].Ref.Number)
	}
}

func TestVerifyCourse_Execute_UnknownLesson(t *testing.T) {
	course := courseFixture()
	uc := NewVerifyCourse(fakeCourseLoader{course: course}, loaderFixture(course))

	_, err := uc.Execute(context.Background(), t.TempDir(), "lesson99")
	if err == nil {
		t.Fatal("expected an error for an unknown lesson")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Errorf("error kind = %v, want not_found", err)
	}
}

func TestVerifyCourse_Execute_CourseLoadError(t *testing.T) {
	loadErr := errors.New("no course here")
	uc := NewVerifyCourse(errCourseLoader{err: loadErr}, &fakeLessonLoader{})

	_, err := uc.Execute(context.Background(), t.TempDir(), "")
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
}

func TestVerifyCourse_Execute_LessonLoadErrorContinues(t *testing.T) {
	course := courseFixture()
	loader := loaderFixture(course)
	loader.errs = map[string]error{
		"units/unit2/lesson1/README.md": &domain.OpError{
			Op: "lessonloader.load", Kind: domain.KindInvalidContent, Err: errors.New("bad frontmatter"),
		},
	}
	uc := NewVerifyCourse(fakeCourseLoader{course: course}, loader)

	report, err := uc.Execute(context.Background(), t.TempDir(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Lessons) != 2 {
		t.Fatalf("got %d lesson results, want 2", len(report.Lessons))
	}
	first := report.Lessons[0]
	if first.Error == nil || first.Error.Kind != domain.KindInvalidContent {
		t.Errorf("first lesson error = %+v, want invalid_content", first.Error)
	}
	if report.Lessons[1].Error != nil {
		t.Errorf("second lesson unexpectedly failed to load: %+v", report.Lessons[1].Error)
	}
	if n := report.FailureCount(); n != 1 {
		t.Errorf("FailureCount = %d, want 1", n)
	}
}

func TestVerifyCourse_Execute_ContextCancelledBeforeStart(t *testing.T) {
	course := courseFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := NewVerifyCourse(fakeCourseLoader{course: course}, loaderFixture(course))
	report, err := uc.Execute(ctx, t.TempDir(), "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(report.Lessons) != 0 {
		t.Errorf("expected no lessons checked, got %d", len(report.Lessons))
	}
}

func TestVerifyCourse_Execute_ContextCancelledDuringIteration(t *testing.T) {
	course := courseFixture()
	ctx, cancel := context.WithCancel(context.Background())
	loader := loaderFixture(course)
	loader.cancel = cancel

	uc := NewVerifyCourse(fakeCourseLoader{course: course}, loader)
	report, err := uc.Execute(ctx, t.TempDir(), "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(report.Lessons) != 1 {
		t.Errorf("got %d lesson results, want 1 (second lesson skipped)", len(report.Lessons))
	}
}

func TestVerifyCourse_Execute_ProbesExternalLinks(t *testing.T) {
	course := courseFixture()
	loader := loaderFixture(course)
	lesson := loader.lessons["units/unit2/lesson1/README.md"]
	lesson.Doc.Blocks = append(lesson.Doc.Blocks,
		domain.Block{Kind: domain.BlockLink, Target: "https://ayende.com/blog/4435", Line: 5},
	)
	loader.lessons["units/unit2/lesson1/README.md"] = lesson

	prober := &fakeProber{}
	uc := NewVerifyCourse(fakeCourseLoader{course: course}, loader, WithProber(prober))

	report, err := uc.Execute(context.Background(), t.TempDir(), "lesson1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Probe {
		t.Errorf("Probe flag not set")
	}
	if len(prober.calls) != 1 || prober.calls[0] != "https://ayende.com/blog/4435" {
		t.Fatalf("prober calls = %v", prober.calls)
	}
	found := false
	for _, r := range report.Lessons[0].Results {
		if r.Check == "links.probe" && r.Passed {
			found = true
		}
	}
	if !found {
		t.Errorf("no passing links.probe result in %+v", report.Lessons[0].Results)
	}
}

func TestVerifyCourse_Execute_RunsDataChecks(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "data", "northwind")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	err := os.WriteFile(filepath.Join(dir, "categories.json"),
		[]byte(`[{"Name": "Beverages"}]`), 0o644)
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	course := courseFixture()
	loader := loaderFixture(course)
	lesson := loader.lessons["units/unit2/lesson1/README.md"]
	lesson.Front.Checks = []domain.DataCheck{
		{Name: "first-category", File: "data/northwind/categories.json", Path: "$[0].Name", Exists: true},
	}
	loader.lessons["units/unit2/lesson1/README.md"] = lesson

	uc := NewVerifyCourse(fakeCourseLoader{course: course}, loader)
	report, err := uc.Execute(context.Background(), root, "lesson1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, r := range report.Lessons[0].Results {
		if r.Check == "data.first-category" {
			found = true
			if !r.Passed {
				t.Errorf("data check failed: %s", r.Message)
			}
		}
	}
	if !found {
		t.Errorf("data check result missing from %+v", report.Lessons[0].Results)
	}
}

func TestVerifyCourse_Execute_Placeholders(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		wantPass bool
		wantAny  bool
	}{
		{name: "course var resolves", body: "# L\n\nWelcome to {{company}}.\n", wantPass: true, wantAny: true},
		{name: "builtin resolves", body: "# L\n\nCopyright {{$year}}.\n", wantPass: true, wantAny: true},
		{name: "unknown fails", body: "# L\n\nHello {{nobody}}.\n", wantPass: false, wantAny: true},
		{name: "unclosed fails", body: "# L\n\nBroken {{token here.\n", wantPass: false, wantAny: true},
		{name: "no tokens is silent", body: "# L\n\nplain prose\n", wantAny: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			course := courseFixture()
			loader := loaderFixture(course)
			lesson := loader.lessons["units/unit2/lesson1/README.md"]
			lesson.Body = []byte(tc.body)
			loader.lessons["units/unit2/lesson1/README.md"] = lesson

			uc := NewVerifyCourse(fakeCourseLoader{course: course}, loader)
			report, err := uc.Execute(context.Background(), t.TempDir(), "lesson1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var got *domain.CheckResult
			for i, r := range report.Lessons[0].Results {
				if r.Check == "placeholders" {
					got = &report.Lessons[0].Results[i]
				}
			}
			if !tc.wantAny {
				if got != nil {
					t.Fatalf("unexpected placeholders result: %+v", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("no placeholders result in %+v", report.Lessons[0].Results)
			}
			if got.Passed != tc.wantPass {
				t.Errorf("passed = %v, want %v (%s)", got.Passed, tc.wantPass, got.Message)
			}
		})
	}
}

// --- InitWorkspace ---

type fakeInitializer struct {
	spec  domain.WorkspaceSpec
	force bool
	err   error
}

func (f *fakeInitializer) Init(spec domain.WorkspaceSpec, force bool) error {
	f.spec = spec
	f.force = force
	return f.err
}

func TestInitWorkspace_Execute(t *testing.T) {
	init := &fakeInitializer{}
	uc := NewInitWorkspace(init)

	if err := uc.Execute("/tmp/course", "My Course", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if init.spec.Root != "/tmp/course" || init.spec.Title != "My Course" || !init.force {
		t.Errorf("initializer got %+v force=%v", init.spec, init.force)
	}

	init.err = errors.New("exists")
	if err := uc.Execute("/tmp/course", "", false); err == nil || !strings.Contains(err.Error(), "exists") {
		t.Errorf("expected passthrough error, got %v", err)
	}
}

// compile-time checks
var _ ports.CourseLoader = (*fakeCourseLoader)(nil)
var _ ports.LessonLoader = (*fakeLessonLoader)(nil)
var _ ports.LinkProber = (*fakeProber)(nil)
var _ ports.WorkspaceInitializer = (*fakeInitializer)(nil)
