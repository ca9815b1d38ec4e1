package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/studiplan/degree-progress-api/internal/models"
)

func programWithCourses(courses ...*models.Course) *models.Program {
	return &models.Program{
		Name:      "B.Sc. Softwareentwicklung",
		StartDate: models.NewDate(2023, time.December, 5),
		Semesters: []*models.Semester{{
			Number:  1,
			Modules: []*models.StudyModule{{Name: "Grundlagen", Courses: courses}},
		}},
	}
}

func gradedCourse(name string, ects, grade float64) *models.Course {
	return &models.Course{Name: name, ECTS: ects, Record: models.PerformanceRecord{Grade: &grade}}
}

func timedCourse(name, assessmentType, start, end string, grade float64) *models.Course {
	return &models.Course{
		Name:      name,
		ECTS:      5,
		StartDate: models.ParseDate(start),
		Record: models.PerformanceRecord{
			AssessmentType: assessmentType,
			Grade:          &grade,
			Date:           models.ParseDate(end),
		},
	}
}

func TestStudyDurationGoal(t *testing.T) {
	program := programWithCourses()
	goal := NewStudyDurationGoal(3)

	goal.now = func() time.Time { return time.Date(2026, time.December, 4, 0, 0, 0, 0, time.UTC) }
	assert.True(t, goal.Evaluate(program))

	goal.now = func() time.Time { return time.Date(2027, time.January, 5, 0, 0, 0, 0, time.UTC) }
	assert.False(t, goal.Evaluate(program))
}

func TestGradeAverageGoalRoundsBothSides(t *testing.T) {
	goal := NewGradeAverageGoal(1.9)

	// 1.94 rounds down to the target, 1.96 rounds past it.
	assert.True(t, goal.Evaluate(programWithCourses(gradedCourse("Mathe", 5, 1.94))))
	assert.False(t, goal.Evaluate(programWithCourses(gradedCourse("Mathe", 5, 1.96))))
}

func TestGradeAverageGoalFailsWithoutGrades(t *testing.T) {
	goal := NewGradeAverageGoal(4.0)
	assert.False(t, goal.Evaluate(programWithCourses(&models.Course{Name: "Offen", ECTS: 5})))
}

func TestExcellenceGoal(t *testing.T) {
	goal := NewExcellenceGoal(0.10)

	assert.False(t, goal.Evaluate(programWithCourses()))
	assert.False(t, goal.Evaluate(programWithCourses(
		gradedCourse("A", 5, 1.3),
		gradedCourse("B", 5, 2.0),
	)))
	assert.True(t, goal.Evaluate(programWithCourses(
		gradedCourse("A", 5, 1.0),
		gradedCourse("B", 5, 2.0),
	)))
}

func TestExcellenceGoalBoundaryRatio(t *testing.T) {
	goal := NewExcellenceGoal(0.10)

	courses := make([]*models.Course, 0, 10)
	courses = append(courses, gradedCourse("Beste", 5, 1.0))
	for i := 0; i < 9; i++ {
		courses = append(courses, gradedCourse("Kurs", 5, 2.0))
	}

	// 1 of 10 is exactly the minimum ratio.
	assert.True(t, goal.Evaluate(programWithCourses(courses...)))
}

func TestExcellenceGoalIgnoresUngraded(t *testing.T) {
	goal := NewExcellenceGoal(0.5)

	// One excellent of two graded; the open course does not dilute.
	assert.True(t, goal.Evaluate(programWithCourses(
		gradedCourse("A", 5, 1.0),
		gradedCourse("B", 5, 3.0),
		&models.Course{Name: "Offen", ECTS: 5},
	)))
}

func TestExamDurationGoal(t *testing.T) {
	goal := NewExamDurationGoal(21)

	assert.True(t, goal.Evaluate(programWithCourses(
		timedCourse("Mathe", "Klausur", "2024-01-01", "2024-01-20", 2.0),
	)))
	assert.False(t, goal.Evaluate(programWithCourses(
		timedCourse("Mathe", "Klausur", "2024-01-01", "2024-02-01", 2.0),
	)))
}

func TestExamDurationGoalSingleOffenderFailsRule(t *testing.T) {
	goal := NewExamDurationGoal(21)

	// 22 days among many compliant courses still fails the whole rule.
	assert.False(t, goal.Evaluate(programWithCourses(
		timedCourse("Mathe", "Klausur", "2024-01-01", "2024-01-10", 2.0),
		timedCourse("Physik", "Klausur", "2024-02-01", "2024-02-23", 2.0),
		timedCourse("Chemie", "Klausur", "2024-03-01", "2024-03-15", 2.0),
	)))
}

func TestExamDurationGoalIgnoresOtherAssessments(t *testing.T) {
	goal := NewExamDurationGoal(21)

	// A slow Hausarbeit is outside the exam rule's scope.
	assert.True(t, goal.Evaluate(programWithCourses(
		timedCourse("Thesis", "Hausarbeit", "2024-01-01", "2024-06-01", 1.7),
	)))
}

func TestOtherDurationGoal(t *testing.T) {
	goal := NewOtherDurationGoal(42)

	assert.True(t, goal.Evaluate(programWithCourses(
		timedCourse("Projekt", "Projekt", "2024-01-01", "2024-02-01", 2.0),
	)))
	assert.False(t, goal.Evaluate(programWithCourses(
		timedCourse("Projekt", "Projekt", "2024-01-01", "2024-03-01", 2.0),
	)))
}

func TestDurationGoalSkipsIncompleteCourses(t *testing.T) {
	goal := NewExamDurationGoal(1)

	// Missing dates or open outcome: the course never counts against the limit.
	noDates := &models.Course{Name: "Mathe", ECTS: 5, Record: models.PerformanceRecord{AssessmentType: "Klausur", Grade: floatPtr(2.0)}}
	open := &models.Course{
		Name: "Physik", ECTS: 5,
		StartDate: models.ParseDate("2024-01-01"),
		Record:    models.PerformanceRecord{AssessmentType: "Klausur", Date: models.ParseDate("2024-06-01")},
	}
	assert.True(t, goal.Evaluate(programWithCourses(noDates, open)))
}

func TestDurationGoalPassesVacuously(t *testing.T) {
	assert.True(t, NewExamDurationGoal(1).Evaluate(programWithCourses()))
	assert.True(t, NewOtherDurationGoal(1).Evaluate(programWithCourses()))
}

func TestCombinedCourseDurationGoal(t *testing.T) {
	fastExam := timedCourse("Mathe", "Klausur", "2024-01-01", "2024-01-15", 2.0)
	slowOther := timedCourse("Projekt", "Projekt", "2024-01-01", "2024-06-01", 2.0)

	goal := NewCombinedCourseDurationGoal(21, 42)
	assert.True(t, goal.Evaluate(programWithCourses(fastExam)))
	assert.False(t, goal.Evaluate(programWithCourses(fastExam, slowOther)))
	assert.Equal(t, models.GoalKeyCombinedDuration, goal.Kind())
}

func TestGoalEvaluatorKeysByKind(t *testing.T) {
	program := programWithCourses(gradedCourse("Mathe", 5, 1.0))
	evaluator := NewGoalEvaluator([]Goal{
		NewGradeAverageGoal(1.9),
		NewExcellenceGoal(0.10),
	})

	status := evaluator.Evaluate(program)
	assert.Equal(t, map[string]bool{
		models.GoalKeyGradeAverage: true,
		models.GoalKeyExcellence:   true,
	}, status)
}
