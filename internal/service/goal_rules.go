package service

import (
	"time"

	"github.com/studiplan/degree-progress-api/internal/models"
)

// daysPerYear uses the leap-year average so elapsed study time does not
// jump around February 29th.
const daysPerYear = 365.25

// Goal is a stateless pass/fail predicate over a program snapshot. Rules
// are constructed once from configuration and reused across evaluations;
// no rule mutates the program.
type Goal interface {
	Kind() string
	Evaluate(p *models.Program) bool
}

// StudyDurationGoal passes while the elapsed time since the program start
// stays within the configured number of years.
type StudyDurationGoal struct {
	MaxYears float64
	now      func() time.Time
}

// NewStudyDurationGoal constructs the rule with a real clock.
func NewStudyDurationGoal(maxYears float64) *StudyDurationGoal {
	return &StudyDurationGoal{MaxYears: maxYears, now: time.Now}
}

func (g *StudyDurationGoal) Kind() string { return models.GoalKeyStudyDuration }

func (g *StudyDurationGoal) Evaluate(p *models.Program) bool {
	elapsed := g.now().Sub(p.StartDate.Time).Hours() / 24 / daysPerYear
	return elapsed <= g.MaxYears
}

// GradeAverageGoal passes when the program's weighted average is at or
// below the configured maximum. No graded courses means the goal is not
// yet met, so it fails. Both sides are rounded to one decimal place before
// comparing to avoid floating-point boundary flapping.
type GradeAverageGoal struct {
	MaxAverage float64
}

// NewGradeAverageGoal constructs the rule.
func NewGradeAverageGoal(maxAverage float64) *GradeAverageGoal {
	return &GradeAverageGoal{MaxAverage: maxAverage}
}

func (g *GradeAverageGoal) Kind() string { return models.GoalKeyGradeAverage }

func (g *GradeAverageGoal) Evaluate(p *models.Program) bool {
	avg := p.WeightedAverage()
	if avg == nil {
		return false
	}
	return models.Round1(*avg) <= models.Round1(g.MaxAverage)
}

// ExcellenceGoal passes when at least one graded course exists and the
// share of courses graded exactly 1.0 reaches the minimum ratio.
type ExcellenceGoal struct {
	MinRatio float64
}

// NewExcellenceGoal constructs the rule.
func NewExcellenceGoal(minRatio float64) *ExcellenceGoal {
	return &ExcellenceGoal{MinRatio: minRatio}
}

func (g *ExcellenceGoal) Kind() string { return models.GoalKeyExcellence }

func (g *ExcellenceGoal) Evaluate(p *models.Program) bool {
	var excellent, graded int
	p.EachCourse(func(_ *models.Semester, _ *models.StudyModule, course *models.Course) {
		if course.Record.Grade == nil {
			return
		}
		graded++
		if *course.Record.Grade == 1.0 {
			excellent++
		}
	})
	return graded > 0 && float64(excellent)/float64(graded) >= g.MinRatio
}

// CourseDurationGoal checks that every completed course matching its
// assessment-type predicate stayed within the day limit. Courses missing
// either date are skipped silently; the rule fails on the first violation
// and passes vacuously when nothing matches. The two specialized duration
// rules are the same type with different predicates, not separate types.
type CourseDurationGoal struct {
	MaxDays int

	kind    string
	matches func(normalizedType string) bool
}

// NewExamDurationGoal builds the duration rule covering exam-type courses.
func NewExamDurationGoal(maxDays int) *CourseDurationGoal {
	return &CourseDurationGoal{
		MaxDays: maxDays,
		kind:    models.GoalKeyExamDuration,
		matches: func(art string) bool { return art == models.AssessmentExam },
	}
}

// NewOtherDurationGoal builds the duration rule covering every non-exam
// assessment type.
func NewOtherDurationGoal(maxDays int) *CourseDurationGoal {
	return &CourseDurationGoal{
		MaxDays: maxDays,
		kind:    models.GoalKeyOtherDuration,
		matches: func(art string) bool { return art != models.AssessmentExam },
	}
}

func (g *CourseDurationGoal) Kind() string { return g.kind }

func (g *CourseDurationGoal) Evaluate(p *models.Program) bool {
	withinLimit := true
	p.EachCourse(func(_ *models.Semester, _ *models.StudyModule, course *models.Course) {
		if !withinLimit {
			return
		}
		days, ok := course.DurationDays()
		if !ok {
			return
		}
		if !g.matches(models.NormalizeAssessmentType(course.Record.AssessmentType)) {
			return
		}
		if days > g.MaxDays {
			withinLimit = false
		}
	})
	return withinLimit
}

// CombinedCourseDurationGoal adapts the legacy configuration shape that
// bundled both duration limits into one key. It passes only when both
// embedded rules pass. New configurations should use the two specialized
// rules directly.
type CombinedCourseDurationGoal struct {
	exam  *CourseDurationGoal
	other *CourseDurationGoal
}

// NewCombinedCourseDurationGoal constructs the legacy adapter.
func NewCombinedCourseDurationGoal(maxExamDays, maxOtherDays int) *CombinedCourseDurationGoal {
	return &CombinedCourseDurationGoal{
		exam:  NewExamDurationGoal(maxExamDays),
		other: NewOtherDurationGoal(maxOtherDays),
	}
}

func (g *CombinedCourseDurationGoal) Kind() string { return models.GoalKeyCombinedDuration }

func (g *CombinedCourseDurationGoal) Evaluate(p *models.Program) bool {
	return g.exam.Evaluate(p) && g.other.Evaluate(p)
}
