package models

import "encoding/json"

// Goal configuration keys recognised by the factory. The German names are
// part of the persisted configuration contract.
const (
	GoalKeyStudyDuration    = "studienzeitziel"
	GoalKeyGradeAverage     = "notenziel"
	GoalKeyExcellence       = "exzellenzziel"
	GoalKeyExamDuration     = "kursdauer_klausur_ziel"
	GoalKeyOtherDuration    = "kursdauer_sonstige_ziel"
	GoalKeyCombinedDuration = "kursdauerziel"
)

// ProgramTargets carries the program-level targets consumed by the
// dashboard metrics computation.
type ProgramTargets struct {
	Name       string `json:"name"`
	StartDate  string `json:"startdatum"`
	TotalECTS  int    `json:"total_ects" validate:"gte=0"`
	TotalExams int    `json:"total_exams" validate:"gte=0"`
}

// GoalConfigDocument is the persisted goal configuration: a map of goal
// keys to their raw parameter objects, plus the program target section.
// Goal parameters stay raw so that unrecognized keys survive a round-trip.
type GoalConfigDocument struct {
	Goals   map[string]json.RawMessage `json:"ziele"`
	Targets ProgramTargets             `json:"studiengang"`
}

// Default parameter values applied when a configuration omits them.
const (
	DefaultMaxStudyYears   = 3.0
	DefaultMaxGradeAverage = 1.9
	DefaultMaxExamDays     = 21
	DefaultMaxOtherDays    = 42
	DefaultExcellenceRatio = 0.10
	DefaultTotalECTS       = 180
	DefaultTotalExams      = 36
)

// SeedGoalParams returns the demo goal set written by the seed endpoint.
func SeedGoalParams() map[string]json.RawMessage {
	return map[string]json.RawMessage{
		GoalKeyStudyDuration:    json.RawMessage(`{"max_jahre": 3}`),
		GoalKeyGradeAverage:     json.RawMessage(`{"max_durchschnitt": 1.9}`),
		GoalKeyCombinedDuration: json.RawMessage(`{"max_tage_klausur": 21, "max_tage_sonstige": 42}`),
		GoalKeyExcellence:       json.RawMessage(`{"mindestanteil": 0.10}`),
	}
}

// DefaultGoalConfig returns the configuration used before one has been
// saved: no active goals, default program targets.
func DefaultGoalConfig(programName, startDate string) *GoalConfigDocument {
	return &GoalConfigDocument{
		Goals: map[string]json.RawMessage{},
		Targets: ProgramTargets{
			Name:       programName,
			StartDate:  startDate,
			TotalECTS:  DefaultTotalECTS,
			TotalExams: DefaultTotalExams,
		},
	}
}
