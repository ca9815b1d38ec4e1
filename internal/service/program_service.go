package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studiplan/degree-progress-api/internal/models"
)

// ProgramStore abstracts persistence of the program snapshot document.
// Load returns (nil, nil) when no snapshot has been saved yet.
type ProgramStore interface {
	Load(ctx context.Context) (*models.Program, error)
	Save(ctx context.Context, program *models.Program) error
}

// GoalConfigStore abstracts persistence of the goal configuration.
type GoalConfigStore interface {
	Load(ctx context.Context) (*models.GoalConfigDocument, error)
	Save(ctx context.Context, doc *models.GoalConfigDocument) error
}

// ProgramService wraps the snapshot store and supplies the configured
// default program while no snapshot exists.
type ProgramService struct {
	store            ProgramStore
	configs          GoalConfigStore
	courses          *CourseService
	defaultName      string
	defaultStartDate string
	logger           *zap.Logger
}

// ProgramServiceParams groups constructor dependencies.
type ProgramServiceParams struct {
	Store            ProgramStore
	Configs          GoalConfigStore
	Courses          *CourseService
	DefaultName      string
	DefaultStartDate string
	Logger           *zap.Logger
}

// NewProgramService constructs the service.
func NewProgramService(params ProgramServiceParams) *ProgramService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	courses := params.Courses
	if courses == nil {
		courses = NewCourseService(logger)
	}
	return &ProgramService{
		store:            params.Store,
		configs:          params.Configs,
		courses:          courses,
		defaultName:      params.DefaultName,
		defaultStartDate: params.DefaultStartDate,
		logger:           logger,
	}
}

// Load returns the persisted program, or the configured default program
// when none has been saved yet.
func (s *ProgramService) Load(ctx context.Context) (*models.Program, error) {
	program, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return s.defaultProgram(), nil
	}
	return program, nil
}

// Save persists the program snapshot.
func (s *ProgramService) Save(ctx context.Context, program *models.Program) error {
	return s.store.Save(ctx, program)
}

// Config returns the persisted goal configuration, falling back to the
// defaults when none exists yet.
func (s *ProgramService) Config(ctx context.Context) (*models.GoalConfigDocument, error) {
	doc, err := s.configs.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return models.DefaultGoalConfig(s.defaultName, s.defaultStartDate), nil
	}
	return doc, nil
}

// SaveConfig persists the goal configuration.
func (s *ProgramService) SaveConfig(ctx context.Context, doc *models.GoalConfigDocument) error {
	return s.configs.Save(ctx, doc)
}

// Seed replaces the snapshot and configuration with the demo data set,
// returning the seeded program.
func (s *ProgramService) Seed(ctx context.Context) (*models.Program, error) {
	program := &models.Program{
		Name:      "Softwareentwicklung",
		StartDate: models.NewDate(2023, time.December, 5),
	}

	mod := s.courses.AddModule(program, 1, "Bachelormodul")
	thesis := s.courses.AddCourse(mod, "Thesis", 9, "Hausarbeit", nil)
	colloquium := s.courses.AddCourse(mod, "Kolloquium", 1, "Mündlich", nil)

	s.courses.RecordGrade(thesis, 1.7)
	s.courses.RecordGrade(colloquium, 1.3)
	thesisStart := models.NewDate(2025, time.April, 1)
	thesisDone := models.NewDate(2025, time.July, 20)
	colloquiumStart := models.NewDate(2025, time.July, 1)
	colloquiumDone := models.NewDate(2025, time.July, 25)
	thesis.StartDate = &thesisStart
	thesis.Record.Date = &thesisDone
	colloquium.StartDate = &colloquiumStart
	colloquium.Record.Date = &colloquiumDone

	if err := s.store.Save(ctx, program); err != nil {
		return nil, err
	}

	cfg := models.DefaultGoalConfig(s.defaultName, s.defaultStartDate)
	cfg.Goals = models.SeedGoalParams()
	if err := s.configs.Save(ctx, cfg); err != nil {
		return nil, err
	}

	s.logger.Info("demo data seeded", zap.String("program", program.Name))
	return program, nil
}

func (s *ProgramService) defaultProgram() *models.Program {
	start := models.ParseDate(s.defaultStartDate)
	if start == nil {
		fallback := models.NewDate(2023, time.December, 5)
		start = &fallback
	}
	name := s.defaultName
	if name == "" {
		name = "Softwareentwicklung"
	}
	return &models.Program{Name: name, StartDate: *start}
}
