package service

import (
	"go.uber.org/zap"

	"github.com/studiplan/degree-progress-api/internal/models"
)

// CourseRef identifies a course by its (semester number, module name,
// course name) triple, the only lookup key the tree has.
type CourseRef struct {
	Semester int
	Module   string
	Course   string
}

// CourseEdit carries the full set of editable course attributes. A changed
// Semester/Module relocates the course before the attributes are applied.
type CourseEdit struct {
	Semester       int
	Module         string
	Name           string
	ECTS           float64
	AssessmentType string
	StartDate      *models.Date
	RecordDate     *models.Date
	Grade          *float64
}

// CourseService implements the structural operations over the program
// tree. Lookup misses are reported as nil/false results, never as errors:
// callers are request handlers that must degrade gracefully.
type CourseService struct {
	logger *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{logger: logger}
}

func findSemester(p *models.Program, number int) *models.Semester {
	for _, sem := range p.Semesters {
		if sem.Number == number {
			return sem
		}
	}
	return nil
}

func findModule(sem *models.Semester, name string) *models.StudyModule {
	for _, mod := range sem.Modules {
		if mod.Name == name {
			return mod
		}
	}
	return nil
}

func findCourse(mod *models.StudyModule, name string) *models.Course {
	for _, course := range mod.Courses {
		if course.Name == name {
			return course
		}
	}
	return nil
}

// AddModule finds or creates the semester, then finds or creates the named
// module inside it. The call is idempotent by name.
func (s *CourseService) AddModule(p *models.Program, semNumber int, name string) *models.StudyModule {
	sem := findSemester(p, semNumber)
	if sem == nil {
		sem = &models.Semester{Number: semNumber}
		p.Semesters = append(p.Semesters, sem)
	}
	if existing := findModule(sem, name); existing != nil {
		return existing
	}
	mod := &models.StudyModule{Name: name}
	sem.Modules = append(sem.Modules, mod)
	s.logger.Debug("module added", zap.Int("semester", semNumber), zap.String("module", name))
	return mod
}

// AddCourse adds a course to the module, idempotent by name. When the name
// already exists the existing course is returned and the new parameters
// are discarded; there is no merge.
func (s *CourseService) AddCourse(mod *models.StudyModule, name string, ects float64, assessmentType string, start *models.Date) *models.Course {
	if existing := findCourse(mod, name); existing != nil {
		return existing
	}
	if assessmentType == "" {
		assessmentType = "Klausur"
	}
	course := &models.Course{
		Name:      name,
		ECTS:      ects,
		StartDate: start,
		Record:    models.PerformanceRecord{AssessmentType: assessmentType},
	}
	mod.Courses = append(mod.Courses, course)
	s.logger.Debug("course added", zap.String("module", mod.Name), zap.String("course", name))
	return course
}

// FindCourse resolves the identity triple, returning nil when any level of
// the tree is missing.
func (s *CourseService) FindCourse(p *models.Program, ref CourseRef) *models.Course {
	sem := findSemester(p, ref.Semester)
	if sem == nil {
		return nil
	}
	mod := findModule(sem, ref.Module)
	if mod == nil {
		return nil
	}
	return findCourse(mod, ref.Course)
}

// MoveCourse relocates a course between module containers, creating the
// destination semester and module on demand. Emptied source containers are
// removed so no orphaned nodes accumulate. Returns nil when the source
// course does not exist.
func (s *CourseService) MoveCourse(p *models.Program, from CourseRef, toSemester int, toModule string) *models.Course {
	course := s.FindCourse(p, from)
	if course == nil {
		return nil
	}

	s.removeAndCleanup(p, from)

	destSem := findSemester(p, toSemester)
	if destSem == nil {
		destSem = &models.Semester{Number: toSemester}
		p.Semesters = append(p.Semesters, destSem)
	}
	destMod := findModule(destSem, toModule)
	if destMod == nil {
		destMod = &models.StudyModule{Name: toModule}
		destSem.Modules = append(destSem.Modules, destMod)
	}
	destMod.Courses = append(destMod.Courses, course)

	s.logger.Debug("course moved",
		zap.String("course", from.Course),
		zap.Int("from_semester", from.Semester),
		zap.Int("to_semester", toSemester),
		zap.String("to_module", toModule))
	return course
}

// RecordGrade sets the grade and clears the passed-without-grade flag.
// Grade and flag are mutually exclusive outcome channels.
func (s *CourseService) RecordGrade(course *models.Course, grade float64) {
	course.Record.Grade = &grade
	course.Record.Passed = nil
}

// RecordPassed marks the course as passed or failed without a grade. An
// existing grade is left untouched.
func (s *CourseService) RecordPassed(course *models.Course, passed bool) {
	course.Record.Passed = &passed
}

// RecordOutcome sets the grade and/or the record date, skipping absent
// values.
func (s *CourseService) RecordOutcome(course *models.Course, grade *float64, date *models.Date) {
	if grade != nil {
		course.Record.Grade = grade
		course.Record.Passed = nil
	}
	if date != nil {
		course.Record.Date = date
	}
}

// DeleteCourse removes the course identified by the triple, cascading the
// same empty-container cleanup as MoveCourse. It reports whether a removal
// occurred.
func (s *CourseService) DeleteCourse(p *models.Program, ref CourseRef) bool {
	if s.FindCourse(p, ref) == nil {
		return false
	}
	s.removeAndCleanup(p, ref)
	s.logger.Debug("course deleted",
		zap.Int("semester", ref.Semester),
		zap.String("module", ref.Module),
		zap.String("course", ref.Course))
	return true
}

// EditCourse applies the full attribute set to the referenced course,
// relocating it first when the semester or module changed. Returns nil
// when the original course does not exist.
func (s *CourseService) EditCourse(p *models.Program, original CourseRef, edit CourseEdit) *models.Course {
	course := s.FindCourse(p, original)
	if course == nil {
		return nil
	}

	if original.Semester != edit.Semester || original.Module != edit.Module {
		course = s.MoveCourse(p, original, edit.Semester, edit.Module)
		if course == nil {
			return nil
		}
	}

	course.Name = edit.Name
	course.ECTS = edit.ECTS
	course.StartDate = edit.StartDate
	course.Record.AssessmentType = edit.AssessmentType
	course.Record.Date = edit.RecordDate
	course.Record.Grade = edit.Grade
	return course
}

// removeAndCleanup filters the course out of its module and prunes the
// module and semester when they become empty.
func (s *CourseService) removeAndCleanup(p *models.Program, ref CourseRef) {
	sem := findSemester(p, ref.Semester)
	if sem == nil {
		return
	}
	mod := findModule(sem, ref.Module)
	if mod == nil {
		return
	}

	kept := mod.Courses[:0]
	for _, course := range mod.Courses {
		if course.Name != ref.Course {
			kept = append(kept, course)
		}
	}
	mod.Courses = kept

	if len(mod.Courses) == 0 {
		keptMods := sem.Modules[:0]
		for _, m := range sem.Modules {
			if m.Name != ref.Module {
				keptMods = append(keptMods, m)
			}
		}
		sem.Modules = keptMods

		if len(sem.Modules) == 0 {
			keptSems := p.Semesters[:0]
			for _, se := range p.Semesters {
				if se.Number != ref.Semester {
					keptSems = append(keptSems, se)
				}
			}
			p.Semesters = keptSems
		}
	}
}
