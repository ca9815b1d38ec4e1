package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/studiplan/degree-progress-api/internal/dto"
	"github.com/studiplan/degree-progress-api/internal/models"
)

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService aggregates the program tree into the dashboard payload
// and runs the active goals against it. The computation itself is a pure
// pass over one snapshot; only the optional cache adds state.
type DashboardService struct {
	factory *GoalFactory
	metrics *MetricsService
	cache   *CacheService
	logger  *zap.Logger
	cfg     DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Factory *GoalFactory
	Metrics *MetricsService
	Cache   *CacheService
	Logger  *zap.Logger
	Config  DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := params.Factory
	if factory == nil {
		factory = NewGoalFactory(logger)
	}
	return &DashboardService{
		factory: factory,
		metrics: params.Metrics,
		cache:   params.Cache,
		logger:  logger,
		cfg:     cfg,
	}
}

// Summary returns the dashboard payload for the program, serving it from
// cache when possible. The second result reports a cache hit.
func (s *DashboardService) Summary(ctx context.Context, program *models.Program, config *models.GoalConfigDocument) (*dto.DashboardResponse, bool, error) {
	cacheKey := fmt.Sprintf("dash:%s", program.Name)
	if s.cache != nil {
		var cached dto.DashboardResponse
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed, recomputing", zap.String("key", cacheKey), zap.Error(err))
		} else if hit {
			return &cached, true, nil
		}
	}

	summary := &dto.DashboardResponse{
		Program: program.Name,
		Metrics: s.Compute(program, config.Targets),
		Goals:   s.EvaluateGoals(program, config),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, summary, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return summary, false, nil
}

// Invalidate drops the cached dashboard for the program. Mutating
// handlers call this after every successful write.
func (s *DashboardService) Invalidate(ctx context.Context, programName string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("dash:%s", programName)); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.String("program", programName), zap.Error(err))
	}
}

// EvaluateGoals builds the configured rules and judges the snapshot.
func (s *DashboardService) EvaluateGoals(program *models.Program, config *models.GoalConfigDocument) map[string]bool {
	evaluator := NewGoalEvaluator(s.factory.FromConfig(config))
	status := evaluator.Evaluate(program)
	if s.metrics != nil {
		for kind, passed := range status {
			s.metrics.RecordGoalEvaluation(kind, passed)
		}
	}
	return status
}

// Compute aggregates the program tree into dashboard metrics in a single
// deterministic pass.
//
// Empty-set policies differ per metric and are deliberate: the weighted
// average stays nil without graded courses, the excellence ratio defaults
// to 0.0 for the same condition, and the ECTS progress percentage
// defaults to 0 when the target is non-positive. Do not unify them.
func (s *DashboardService) Compute(program *models.Program, targets models.ProgramTargets) dto.DashboardMetrics {
	start := time.Now()

	metrics := dto.DashboardMetrics{
		ECTSTarget:  targets.TotalECTS,
		ExamsTarget: targets.TotalExams,
	}
	var examDurations, otherDurations []int

	program.EachCourse(func(_ *models.Semester, _ *models.StudyModule, course *models.Course) {
		metrics.TotalCourses++

		if grade := course.Record.Grade; grade != nil {
			metrics.GradedCourses++
			if *grade == 1.0 {
				metrics.ExcellentCount++
			}
		}

		if course.IsCompleted() {
			metrics.CompletedCourses++
		}
		if course.IsPassed() {
			metrics.ECTSEarned += course.ECTS
		}

		if days, ok := course.DurationDays(); ok {
			if course.Record.IsExam() {
				examDurations = append(examDurations, days)
			} else {
				otherDurations = append(otherDurations, days)
			}
		}
	})

	metrics.AvgExamDays = averageDays(examDurations)
	metrics.AvgOtherDays = averageDays(otherDurations)

	if metrics.GradedCourses > 0 {
		metrics.ExcellenceRatio = float64(metrics.ExcellentCount) / float64(metrics.GradedCourses)
	}
	if targets.TotalECTS > 0 {
		metrics.ECTSProgress = int(math.Round(metrics.ECTSEarned / float64(targets.TotalECTS) * 100))
	}
	metrics.WeightedAverage = program.WeightedAverage()

	if s.metrics != nil {
		s.metrics.ObserveDashboardCompute(time.Since(start))
	}
	return metrics
}

// averageDays returns the arithmetic mean rounded to the nearest whole
// day, or nil for an empty bucket.
func averageDays(durations []int) *int {
	if len(durations) == 0 {
		return nil
	}
	var sum int
	for _, d := range durations {
		sum += d
	}
	avg := int(math.Round(float64(sum) / float64(len(durations))))
	return &avg
}
