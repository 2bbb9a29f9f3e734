package domain

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// CheckLevel grades a finding. Errors fail a verification run; warnings are
// reported but do not.
type CheckLevel string

const (
	LevelError   CheckLevel = "error"
	LevelWarning CheckLevel = "warning"
)

// CheckResult is the outcome of a single check against a single target.
type CheckResult struct {
	Check   string     // stable check id, e.g. "links.internal"
	Target  string     // what was checked: a path, URL, or block location
	Passed  bool
	Skipped bool // recorded but not evaluated (e.g. no checker for a language)
	Level   CheckLevel
	Message string
}

// Pass/Fail/Warn/Skip build results with consistent fields.

func Pass(check, target, msg string) CheckResult {
	return CheckResult{Check: check, Target: target, Passed: true, Level: LevelError, Message: msg}
}

func Fail(check, target, msg string) CheckResult {
	return CheckResult{Check: check, Target: target, Passed: false, Level: LevelError, Message: msg}
}

func Warn(check, target, msg string) CheckResult {
	return CheckResult{Check: check, Target: target, Passed: false, Level: LevelWarning, Message: msg}
}

func Skip(check, target, msg string) CheckResult {
	return CheckResult{Check: check, Target: target, Skipped: true, Message: msg}
}

// LessonError is a structured error for a lesson that could not be checked
// at all (unreadable file, undecodable frontmatter, ...).
type LessonError struct {
	Kind    ErrorKind
	Message string
}

// NewLessonError classifies err for reporting.
func NewLessonError(err error) *LessonError {
	if err == nil {
		return nil
	}
	kind := KindExecution
	var oe *OpError
	if errors.As(err, &oe) {
		kind = oe.Kind
	}
	return &LessonError{Kind: kind, Message: err.Error()}
}

// LessonResult collects every check outcome for one lesson.
type LessonResult struct {
	Ref     LessonRef
	Results []CheckResult
	Error   *LessonError
}

// Failed reports whether the lesson has at least one error-level failure.
func (lr LessonResult) Failed() bool {
	if lr.Error != nil {
		return true
	}
	for _, r := range lr.Results {
		if !r.Passed && !r.Skipped && r.Level == LevelError {
			return true
		}
	}
	return false
}

// Report is one verification run over a course.
type Report struct {
	CourseTitle string
	Root        string
	Probe       bool

	StartedAt time.Time
	EndedAt   time.Time

	Lessons []LessonResult
}

// Counts tallies check outcomes across all lessons.
func (r Report) Counts() (passed, failed, warned, skipped int) {
	for _, lr := range r.Lessons {
		for _, cr := range lr.Results {
			switch {
			case cr.Skipped:
				skipped++
			case cr.Passed:
				passed++
			case cr.Level == LevelWarning:
				warned++
			default:
				failed++
			}
		}
	}
	return passed, failed, warned, skipped
}

// FailureCount counts error-level failures, including lessons that failed to
// load.
func (r Report) FailureCount() int {
	n := 0
	for _, lr := range r.Lessons {
		if lr.Error != nil {
			n++
		}
		for _, cr := range lr.Results {
			if !cr.Passed && !cr.Skipped && cr.Level == LevelError {
				n++
			}
		}
	}
	return n
}

// ProbeErrorKind is a high-level classification of external link probe
// failures.
type ProbeErrorKind string

const (
	ProbeErrorUnknown ProbeErrorKind = "unknown"
	ProbeErrorTimeout ProbeErrorKind = "timeout"
	ProbeErrorDNS     ProbeErrorKind = "dns"
	ProbeErrorConn    ProbeErrorKind = "connection"
)

// ProbeError represents a structured transport-level probe failure.
type ProbeError struct {
	Kind    ProbeErrorKind
	Message string
}

// NewProbeError classifies a transport error from a link probe.
func NewProbeError(err error) *ProbeError {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ProbeError{Kind: ProbeErrorTimeout, Message: err.Error()}
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &ProbeError{Kind: ProbeErrorTimeout, Message: err.Error()}
	}

	var de *net.DNSError
	if errors.As(err, &de) {
		return &ProbeError{Kind: ProbeErrorDNS, Message: err.Error()}
	}

	var oe *net.OpError
	if errors.As(err, &oe) {
		return &ProbeError{Kind: ProbeErrorConn, Message: err.Error()}
	}

	if strings.Contains(strings.ToLower(err.Error()), "connection refused") {
		return &ProbeError{Kind: ProbeErrorConn, Message: err.Error()}
	}

	return &ProbeError{Kind: ProbeErrorUnknown, Message: err.Error()}
}

// ProbeResult is the observed outcome of probing one external URL.
type ProbeResult struct {
	URL        string
	StatusCode int
	LatencyMS  int64
	Error      *ProbeError
}
