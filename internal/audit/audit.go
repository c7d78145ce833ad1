// Package audit implements the course quality audit engine: a rule-based
// static analyzer that walks a course tree and reports issues that should
// gate publishing. The engine is pure computation: it never mutates its
// inputs and never persists anything. A single Auditor must not be shared
// across goroutines, but independent Auditors over distinct course snapshots
// are safe to run concurrently.
package audit

import (
	"errors"
	"fmt"

	"github.com/abhisek/coursecheck/internal/course"
	"github.com/abhisek/coursecheck/internal/taxonomy"
)

// ErrUnknownCheck is returned by RunCheck for a check type the engine does
// not implement. Passing a bad check type is programmer misuse, not a
// data-quality finding.
var ErrUnknownCheck = errors.New("unknown check type")

// Auditor runs quality checks against one course snapshot.
type Auditor struct {
	course *course.Course
	tax    *taxonomy.Taxonomy
	cfg    Config
	issues []Issue
}

// New prepares an auditor for the given course. A nil taxonomy selects
// Bloom's: the default is a real taxonomy instance, so every check follows
// one code path with no parallel fallback constants.
func New(c *course.Course, t *taxonomy.Taxonomy, cfg Config) (*Auditor, error) {
	if c == nil {
		return nil, errors.New("audit: course must not be nil")
	}
	if t == nil {
		t = taxonomy.Default()
	}
	return &Auditor{course: c, tax: t, cfg: cfg.normalized()}, nil
}

// RunAllChecks executes every check in the fixed order and returns one
// Result. A panic inside one check is converted into a synthetic ERROR issue
// naming that check; the remaining checks still run.
func (a *Auditor) RunAllChecks() *Result {
	a.issues = a.issues[:0]
	checks := AllCheckTypes()
	for _, ct := range checks {
		a.runIsolated(ct)
	}
	return a.buildResult(checks)
}

// RunCheck executes exactly one named check. An unrecognized check type is an
// explicit error, never a silently empty result.
func (a *Auditor) RunCheck(ct CheckType) (*Result, error) {
	fn, ok := a.checkFunc(ct)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, ct)
	}
	a.issues = a.issues[:0]
	fn()
	return a.buildResult([]CheckType{ct}), nil
}

// checkFunc maps a check type to its implementation.
func (a *Auditor) checkFunc(ct CheckType) (func(), bool) {
	switch ct {
	case CheckFlow:
		return a.checkFlow, true
	case CheckRepetition:
		return a.checkRepetition, true
	case CheckAlignment:
		return a.checkAlignment, true
	case CheckGaps:
		return a.checkGaps, true
	case CheckDuration:
		return a.checkDuration, true
	case CheckProgression:
		return a.checkProgression, true
	case CheckSequential:
		return a.checkSequential, true
	case CheckWWHAA:
		return a.checkWWHAA, true
	case CheckDistribution:
		return a.checkDistribution, true
	default:
		return nil, false
	}
}

// runIsolated runs one check, converting a panic into a synthetic issue so
// the other checks still execute.
func (a *Auditor) runIsolated(ct CheckType) {
	defer func() {
		if r := recover(); r != nil {
			a.report(Issue{
				CheckType:   ct,
				Severity:    SeverityError,
				Title:       fmt.Sprintf("Check %q failed", ct),
				Description: fmt.Sprintf("The %s check hit an internal failure and its findings are incomplete: %v", ct, r),
			})
		}
	}()
	fn, _ := a.checkFunc(ct)
	fn()
}

// report appends an issue, defaulting its status to open.
func (a *Auditor) report(is Issue) {
	if is.Status == "" {
		is.Status = StatusOpen
	}
	a.issues = append(a.issues, is)
}

func (a *Auditor) buildResult(checks []CheckType) *Result {
	r := &Result{
		CourseID:   a.course.ID,
		TaxonomyID: a.tax.ID,
		ChecksRun:  append([]CheckType(nil), checks...),
		Issues:     append([]Issue(nil), a.issues...),
	}
	for _, is := range r.Issues {
		switch is.Severity {
		case SeverityError:
			r.ErrorCount++
		case SeverityWarning:
			r.WarningCount++
		case SeverityInfo:
			r.InfoCount++
		}
	}
	r.Score = scoreFor(r.ErrorCount, r.WarningCount, r.InfoCount)
	return r
}

// activityCtx pairs an activity with its enclosing lesson and module, in
// tree order. Checks walk these instead of re-nesting three loops each.
type activityCtx struct {
	act    *course.Activity
	lesson *course.Lesson
	module *course.Module
}

// activities flattens the course tree in declaration order. Recomputed per
// check: the engine holds no cross-call caches.
func (a *Auditor) activities() []activityCtx {
	var out []activityCtx
	for mi := range a.course.Modules {
		m := &a.course.Modules[mi]
		for li := range m.Lessons {
			l := &m.Lessons[li]
			for ai := range l.Activities {
				out = append(out, activityCtx{act: &l.Activities[ai], lesson: l, module: m})
			}
		}
	}
	return out
}

// activityIndex maps activity ID to its context.
func (a *Auditor) activityIndex() map[string]activityCtx {
	idx := make(map[string]activityCtx)
	for _, ac := range a.activities() {
		idx[ac.act.ID] = ac
	}
	return idx
}

func refCourse(c *course.Course) ElementRef {
	return ElementRef{Type: ElementCourse, ID: c.ID, Title: c.Title}
}

func refModule(m *course.Module) ElementRef {
	return ElementRef{Type: ElementModule, ID: m.ID, Title: m.Title}
}

func refLesson(l *course.Lesson) ElementRef {
	return ElementRef{Type: ElementLesson, ID: l.ID, Title: l.Title}
}

func refActivity(a *course.Activity) ElementRef {
	return ElementRef{Type: ElementActivity, ID: a.ID, Title: a.Title}
}

func refOutcome(o *course.Outcome) ElementRef {
	return ElementRef{Type: ElementOutcome, ID: o.ID, Title: o.Behavior}
}
