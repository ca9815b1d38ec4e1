package dto

// CourseRef addresses a course by its identity triple.
type CourseRef struct {
	Semester int    `json:"semester" binding:"required"`
	Module   string `json:"module" binding:"required"`
	Course   string `json:"course" binding:"required"`
}

// AddModuleRequest creates (or finds) a module within a semester.
type AddModuleRequest struct {
	Semester int    `json:"semester" binding:"required"`
	Module   string `json:"module" binding:"required"`
}

// AddCourseRequest creates a course inside a module, creating the
// semester and module on demand. Dates travel as "YYYY-MM-DD" strings.
type AddCourseRequest struct {
	Semester       int     `json:"semester" binding:"required"`
	Module         string  `json:"module" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	ECTS           float64 `json:"ects" binding:"gte=0"`
	AssessmentType string  `json:"assessment_type"`
	StartDate      string  `json:"start_date"`
}

// RecordOutcomeRequest records a grade or a passed-without-grade flag,
// optionally with the completion date. Grade and flag are mutually
// exclusive; the flag wins when both are sent, matching the form
// behaviour this API replaced.
type RecordOutcomeRequest struct {
	Semester int      `json:"semester" binding:"required"`
	Module   string   `json:"module" binding:"required"`
	Course   string   `json:"course" binding:"required"`
	Grade    *float64 `json:"grade"`
	Passed   *bool    `json:"passed"`
	Date     string   `json:"date"`
}

// EditCourseRequest rewrites a course's attributes and, when the semester
// or module changed, relocates it.
type EditCourseRequest struct {
	Original       CourseRef `json:"original" binding:"required"`
	Semester       int       `json:"semester" binding:"required"`
	Module         string    `json:"module" binding:"required"`
	Name           string    `json:"name" binding:"required"`
	ECTS           float64   `json:"ects" binding:"gte=0"`
	AssessmentType string    `json:"assessment_type"`
	StartDate      string    `json:"start_date"`
	Date           string    `json:"date"`
	Grade          *float64  `json:"grade"`
}

// DeleteCourseRequest removes a course by its identity triple.
type DeleteCourseRequest struct {
	Semester int    `json:"semester" binding:"required"`
	Module   string `json:"module" binding:"required"`
	Course   string `json:"course" binding:"required"`
}
