package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studiplan/degree-progress-api/internal/dto"
	"github.com/studiplan/degree-progress-api/internal/models"
	"github.com/studiplan/degree-progress-api/internal/service"
	appErrors "github.com/studiplan/degree-progress-api/pkg/errors"
	"github.com/studiplan/degree-progress-api/pkg/response"
)

// CourseHandler exposes the structural mutations over the program tree.
// Every mutation loads the snapshot, applies the change, saves and
// invalidates the cached dashboard.
type CourseHandler struct {
	programs   programSource
	courses    *service.CourseService
	dashboards dashboardInvalidator
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(programs programSource, courses *service.CourseService, dashboards dashboardInvalidator) *CourseHandler {
	return &CourseHandler{programs: programs, courses: courses, dashboards: dashboards}
}

// AddModule finds or creates a module within a semester.
func (h *CourseHandler) AddModule(c *gin.Context) {
	var req dto.AddModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	req.Module = strings.TrimSpace(req.Module)
	if req.Module == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "module name is required"))
		return
	}

	program, err := h.programs.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	mod := h.courses.AddModule(program, req.Semester, req.Module)
	if err := h.saveAndInvalidate(c, program); err != nil {
		return
	}
	response.Created(c, mod)
}

// AddCourse creates a course, creating the semester and module on demand.
// The call is idempotent by course name within the module.
func (h *CourseHandler) AddCourse(c *gin.Context) {
	var req dto.AddCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	req.Module = strings.TrimSpace(req.Module)
	req.Name = strings.TrimSpace(req.Name)
	if req.Module == "" || req.Name == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "module and course names are required"))
		return
	}

	program, err := h.programs.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	mod := h.courses.AddModule(program, req.Semester, req.Module)
	course := h.courses.AddCourse(mod, req.Name, req.ECTS, req.AssessmentType, models.ParseDate(req.StartDate))
	if err := h.saveAndInvalidate(c, program); err != nil {
		return
	}
	response.Created(c, course)
}

// RecordOutcome records a grade or a passed-without-grade flag, plus the
// optional completion date. The flag takes precedence when both are sent.
func (h *CourseHandler) RecordOutcome(c *gin.Context) {
	var req dto.RecordOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	program, err := h.programs.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	ref := service.CourseRef{Semester: req.Semester, Module: req.Module, Course: req.Course}
	course := h.courses.FindCourse(program, ref)
	if course == nil {
		response.Error(c, appErrors.ErrCourseNotFound)
		return
	}

	date := models.ParseDate(req.Date)
	switch {
	case req.Passed != nil:
		h.courses.RecordPassed(course, *req.Passed)
		if date != nil {
			course.Record.Date = date
		}
	case req.Grade != nil:
		h.courses.RecordGrade(course, *req.Grade)
		if date != nil {
			course.Record.Date = date
		}
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "either grade or passed is required"))
		return
	}

	if err := h.saveAndInvalidate(c, program); err != nil {
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Edit rewrites a course's attributes, relocating it when the semester or
// module changed.
func (h *CourseHandler) Edit(c *gin.Context) {
	var req dto.EditCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	program, err := h.programs.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	original := service.CourseRef{
		Semester: req.Original.Semester,
		Module:   req.Original.Module,
		Course:   req.Original.Course,
	}
	course := h.courses.EditCourse(program, original, service.CourseEdit{
		Semester:       req.Semester,
		Module:         strings.TrimSpace(req.Module),
		Name:           strings.TrimSpace(req.Name),
		ECTS:           req.ECTS,
		AssessmentType: req.AssessmentType,
		StartDate:      models.ParseDate(req.StartDate),
		RecordDate:     models.ParseDate(req.Date),
		Grade:          req.Grade,
	})
	if course == nil {
		response.Error(c, appErrors.ErrCourseNotFound)
		return
	}

	if err := h.saveAndInvalidate(c, program); err != nil {
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Delete removes a course identified by the semester/module/course query
// parameters.
func (h *CourseHandler) Delete(c *gin.Context) {
	semester, err := strconv.Atoi(c.Query("semester"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester must be an integer"))
		return
	}
	module := strings.TrimSpace(c.Query("module"))
	course := strings.TrimSpace(c.Query("course"))
	if module == "" || course == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "module and course are required"))
		return
	}

	program, err := h.programs.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.courses.DeleteCourse(program, service.CourseRef{Semester: semester, Module: module, Course: course}) {
		response.Error(c, appErrors.ErrCourseNotFound)
		return
	}

	if err := h.saveAndInvalidate(c, program); err != nil {
		return
	}
	response.NoContent(c)
}

func (h *CourseHandler) saveAndInvalidate(c *gin.Context, program *models.Program) error {
	if err := h.programs.Save(c.Request.Context(), program); err != nil {
		response.Error(c, err)
		return err
	}
	if h.dashboards != nil {
		h.dashboards.Invalidate(c.Request.Context(), program.Name)
	}
	return nil
}
