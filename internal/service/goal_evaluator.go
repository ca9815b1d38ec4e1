package service

import "github.com/studiplan/degree-progress-api/internal/models"

// GoalEvaluator holds the active rule list and judges a program snapshot
// against it. Rules run in insertion order; they are independent and
// side-effect free, so order only affects iteration sequence.
type GoalEvaluator struct {
	goals []Goal
}

// NewGoalEvaluator constructs the evaluator over the given rules.
func NewGoalEvaluator(goals []Goal) *GoalEvaluator {
	return &GoalEvaluator{goals: goals}
}

// Goals returns the active rule list.
func (e *GoalEvaluator) Goals() []Goal {
	return e.goals
}

// Evaluate runs every rule against the same snapshot and reports one
// pass/fail per rule kind. Presentation decides how to combine them.
func (e *GoalEvaluator) Evaluate(p *models.Program) map[string]bool {
	status := make(map[string]bool, len(e.goals))
	for _, goal := range e.goals {
		status[goal.Kind()] = goal.Evaluate(p)
	}
	return status
}
