package models

import (
	"math"
	"strings"
)

// AssessmentExam is the normalized assessment type treated as an exam.
// Every other type (Hausarbeit, Projekt, Mündlich, ...) falls into the
// "other" bucket.
const AssessmentExam = "klausur"

// PassingGrade is the worst grade that still passes. The scale runs from
// 1.0 (best) upward.
const PassingGrade = 4.0

// NormalizeAssessmentType lowers and trims an assessment type label for
// case-insensitive comparison.
func NormalizeAssessmentType(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// PerformanceRecord is a course's outcome: assessment type, optional grade,
// optional completion date and the optional passed-without-grade flag.
// The JSON tags carry the persisted snapshot contract.
type PerformanceRecord struct {
	AssessmentType string   `json:"art"`
	Grade          *float64 `json:"note"`
	Date           *Date    `json:"datum"`
	Passed         *bool    `json:"bestanden"`
}

// IsExam reports whether the record's assessment type counts as an exam.
func (r PerformanceRecord) IsExam() bool {
	return NormalizeAssessmentType(r.AssessmentType) == AssessmentExam
}

// Course is a gradable unit with an ECTS credit weight and exactly one
// embedded performance record.
type Course struct {
	Name      string            `json:"name"`
	ECTS      float64           `json:"ects"`
	StartDate *Date             `json:"startdatum"`
	Record    PerformanceRecord `json:"leistung"`
}

// Grade returns the recorded grade, or nil when the course is ungraded.
func (c *Course) Grade() *float64 {
	return c.Record.Grade
}

// IsPassed reports whether the course is passed: graded at or below the
// passing grade, or explicitly marked as passed without a grade.
func (c *Course) IsPassed() bool {
	if c.Record.Grade != nil {
		return *c.Record.Grade <= PassingGrade
	}
	return c.Record.Passed != nil && *c.Record.Passed
}

// IsCompleted reports whether the course is closed: graded, or marked as
// passed/failed without a grade.
func (c *Course) IsCompleted() bool {
	return c.Record.Grade != nil || c.Record.Passed != nil
}

// DurationDays returns the span between the course start date and the
// record date in whole days. It is only defined for completed courses that
// carry both dates; callers skip courses for which ok is false.
func (c *Course) DurationDays() (days int, ok bool) {
	if c.StartDate == nil || c.Record.Date == nil || !c.IsCompleted() {
		return 0, false
	}
	return c.StartDate.DaysUntil(*c.Record.Date), true
}

// StudyModule is a named group of courses within a semester.
type StudyModule struct {
	Name    string    `json:"name"`
	Courses []*Course `json:"kurse"`
}

// TotalECTS sums the credit weights of all courses in the module.
func (m *StudyModule) TotalECTS() float64 {
	var total float64
	for _, course := range m.Courses {
		total += course.ECTS
	}
	return total
}

// WeightedAverage computes the ECTS-weighted grade average over the
// module's graded courses. It returns nil when no course is graded so that
// callers can distinguish "no data" from an average of zero.
func (m *StudyModule) WeightedAverage() *float64 {
	var weighted, ects float64
	for _, course := range m.Courses {
		if course.Record.Grade == nil {
			continue
		}
		weighted += *course.Record.Grade * course.ECTS
		ects += course.ECTS
	}
	if ects == 0 {
		return nil
	}
	avg := weighted / ects
	return &avg
}

// Semester is a numbered study period grouping modules. Numbers are unique
// within a program but not necessarily contiguous or sorted.
type Semester struct {
	Number  int            `json:"nummer"`
	Modules []*StudyModule `json:"module"`
}

// Program is the full degree being tracked, the root of the entity tree.
type Program struct {
	Name      string      `json:"name"`
	StartDate Date        `json:"startdatum"`
	Semesters []*Semester `json:"semester"`
}

// EachCourse walks every course in the tree in semester/module/course order.
func (p *Program) EachCourse(fn func(sem *Semester, mod *StudyModule, course *Course)) {
	for _, sem := range p.Semesters {
		for _, mod := range sem.Modules {
			for _, course := range mod.Courses {
				fn(sem, mod, course)
			}
		}
	}
}

// WeightedAverage computes the ECTS-weighted grade average over every
// graded course in the program, rounded to two decimal places. It returns
// nil when no course is graded.
func (p *Program) WeightedAverage() *float64 {
	var weighted, ects float64
	p.EachCourse(func(_ *Semester, _ *StudyModule, course *Course) {
		if course.Record.Grade == nil {
			return
		}
		weighted += *course.Record.Grade * course.ECTS
		ects += course.ECTS
	})
	if ects == 0 {
		return nil
	}
	avg := Round2(weighted / ects)
	return &avg
}

// Round1 rounds to one decimal place.
func Round1(value float64) float64 {
	return math.Round(value*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
