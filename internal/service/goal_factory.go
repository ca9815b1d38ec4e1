package service

import (
	"encoding/json"
	"sort"

	"go.uber.org/zap"

	"github.com/studiplan/degree-progress-api/internal/models"
)

type durationParams struct {
	MaxDays *int `json:"max_tage"`
}

type combinedDurationParams struct {
	MaxExamDays  *int `json:"max_tage_klausur"`
	MaxOtherDays *int `json:"max_tage_sonstige"`
}

type studyDurationParams struct {
	MaxYears *float64 `json:"max_jahre"`
}

type gradeAverageParams struct {
	MaxAverage *float64 `json:"max_durchschnitt"`
}

type excellenceParams struct {
	MinRatio *float64 `json:"mindestanteil"`
}

// GoalFactory builds the active rule list from the goal configuration
// document. Unrecognized keys are ignored so future configuration
// additions do not break older deployments; malformed parameter objects
// are logged and skipped, never fatal.
type GoalFactory struct {
	logger *zap.Logger
}

// NewGoalFactory constructs the factory.
func NewGoalFactory(logger *zap.Logger) *GoalFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoalFactory{logger: logger}
}

// FromConfig resolves the configured goals into rule instances.
//
// Duration rules resolve with all-or-nothing precedence: the explicit
// specialized keys win only when both are present; otherwise a present
// legacy combined key fans out into both specialized rules (explicit keys
// that do exist are still instantiated first). This mirrors the historical
// behaviour and is not overridable per field.
func (f *GoalFactory) FromConfig(doc *models.GoalConfigDocument) []Goal {
	var goals []Goal
	if doc == nil || doc.Goals == nil {
		return goals
	}
	cfg := doc.Goals

	rawExam, hasExplicitExam := cfg[models.GoalKeyExamDuration]
	rawOther, hasExplicitOther := cfg[models.GoalKeyOtherDuration]

	if hasExplicitExam {
		params := durationParams{}
		if f.parse(models.GoalKeyExamDuration, rawExam, &params) {
			goals = append(goals, NewExamDurationGoal(intOr(params.MaxDays, models.DefaultMaxExamDays)))
		}
	}
	if hasExplicitOther {
		params := durationParams{}
		if f.parse(models.GoalKeyOtherDuration, rawOther, &params) {
			goals = append(goals, NewOtherDurationGoal(intOr(params.MaxDays, models.DefaultMaxOtherDays)))
		}
	}

	if rawLegacy, ok := cfg[models.GoalKeyCombinedDuration]; ok && !(hasExplicitExam && hasExplicitOther) {
		params := combinedDurationParams{}
		if f.parse(models.GoalKeyCombinedDuration, rawLegacy, &params) {
			goals = append(goals,
				NewExamDurationGoal(intOr(params.MaxExamDays, models.DefaultMaxExamDays)),
				NewOtherDurationGoal(intOr(params.MaxOtherDays, models.DefaultMaxOtherDays)))
		}
	}

	remaining := make([]string, 0, len(cfg))
	for key := range cfg {
		switch key {
		case models.GoalKeyExamDuration, models.GoalKeyOtherDuration, models.GoalKeyCombinedDuration:
			continue
		}
		remaining = append(remaining, key)
	}
	sort.Strings(remaining)

	for _, key := range remaining {
		raw := cfg[key]
		switch key {
		case models.GoalKeyStudyDuration:
			params := studyDurationParams{}
			if f.parse(key, raw, &params) {
				goals = append(goals, NewStudyDurationGoal(floatOr(params.MaxYears, models.DefaultMaxStudyYears)))
			}
		case models.GoalKeyGradeAverage:
			params := gradeAverageParams{}
			if f.parse(key, raw, &params) {
				goals = append(goals, NewGradeAverageGoal(floatOr(params.MaxAverage, models.DefaultMaxGradeAverage)))
			}
		case models.GoalKeyExcellence:
			params := excellenceParams{}
			if f.parse(key, raw, &params) {
				goals = append(goals, NewExcellenceGoal(floatOr(params.MinRatio, models.DefaultExcellenceRatio)))
			}
		default:
			f.logger.Debug("ignoring unrecognized goal key", zap.String("key", key))
		}
	}

	return goals
}

func (f *GoalFactory) parse(key string, raw json.RawMessage, dest interface{}) bool {
	if len(raw) == 0 {
		return true
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		f.logger.Warn("skipping goal with malformed parameters", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func intOr(value *int, fallback int) int {
	if value != nil {
		return *value
	}
	return fallback
}

func floatOr(value *float64, fallback float64) float64 {
	if value != nil {
		return *value
	}
	return fallback
}
