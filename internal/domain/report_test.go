package domain

import (
	"context"
	"errors"
	"net"
	"testing"
)

func TestReportCounts(t *testing.T) {
	r := Report{
		Lessons: []LessonResult{
			{
				Results: []CheckResult{
					Pass("structure.title", "a", "ok"),
					Fail("links.internal", "b", "missing"),
					Warn("structure.nav", "c", "no next link"),
					Skip("snippets.rql", "d", "no checker"),
				},
			},
			{
				Results: []CheckResult{
					Pass("links.external", "e", "ok"),
				},
			},
		},
	}

	passed, failed, warned, skipped := r.Counts()
	if passed != 2 || failed != 1 || warned != 1 || skipped != 1 {
		t.Fatalf("Counts() = %d/%d/%d/%d, want 2/1/1/1", passed, failed, warned, skipped)
	}
	if r.FailureCount() != 1 {
		t.Fatalf("FailureCount() = %d, want 1", r.FailureCount())
	}
}

func TestFailureCount_IncludesLoadErrors(t *testing.T) {
	r := Report{
		Lessons: []LessonResult{
			{Error: &LessonError{Kind: KindNotFound, Message: "gone"}},
		},
	}
	if r.FailureCount() != 1 {
		t.Fatalf("FailureCount() = %d, want 1", r.FailureCount())
	}
	if !r.Lessons[0].Failed() {
		t.Fatalf("expected Failed()=true for lesson with load error")
	}
}

func TestLessonResultFailed_WarningsDoNotFail(t *testing.T) {
	lr := LessonResult{
		Results: []CheckResult{
			Warn("structure.nav", "x", "no prev link"),
			Skip("snippets.rql", "y", "no checker"),
		},
	}
	if lr.Failed() {
		t.Fatalf("warnings and skips must not fail a lesson")
	}
}

func TestNewProbeError_Classification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ProbeErrorKind
	}{
		{"nil", nil, ""},
		{"deadline", context.DeadlineExceeded, ProbeErrorTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "nope.example"}, ProbeErrorDNS},
		{"conn", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, ProbeErrorConn},
		{"other", errors.New("weird"), ProbeErrorUnknown},
	}

	for _, tc := range cases {
		got := NewProbeError(tc.err)
		if tc.err == nil {
			if got != nil {
				t.Errorf("%s: expected nil", tc.name)
			}
			continue
		}
		if got == nil || got.Kind != tc.want {
			t.Errorf("%s: NewProbeError kind = %+v, want %s", tc.name, got, tc.want)
		}
	}
}

func TestNewLessonError(t *testing.T) {
	if NewLessonError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}

	le := NewLessonError(&OpError{Op: "courseloader.lesson", Kind: KindNotFound, Err: errors.New("gone")})
	if le.Kind != KindNotFound {
		t.Fatalf("expected KindNotFound, got %s", le.Kind)
	}

	le = NewLessonError(errors.New("plain"))
	if le.Kind != KindExecution {
		t.Fatalf("expected KindExecution fallback, got %s", le.Kind)
	}
}
