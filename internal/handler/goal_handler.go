package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/studiplan/degree-progress-api/internal/dto"
	"github.com/studiplan/degree-progress-api/internal/models"
	appErrors "github.com/studiplan/degree-progress-api/pkg/errors"
	"github.com/studiplan/degree-progress-api/pkg/response"
)

type configStore interface {
	configSource
	SaveConfig(ctx context.Context, doc *models.GoalConfigDocument) error
}

type goalEvaluator interface {
	EvaluateGoals(program *models.Program, config *models.GoalConfigDocument) map[string]bool
}

// GoalHandler exposes goal evaluation and goal configuration.
type GoalHandler struct {
	programs   programSource
	configs    configStore
	goals      goalEvaluator
	dashboards dashboardInvalidator
	validate   *validator.Validate
}

// NewGoalHandler constructs the handler.
func NewGoalHandler(programs programSource, configs configStore, goals goalEvaluator, dashboards dashboardInvalidator) *GoalHandler {
	return &GoalHandler{
		programs:   programs,
		configs:    configs,
		goals:      goals,
		dashboards: dashboards,
		validate:   validator.New(),
	}
}

// Status evaluates the active goals against the current snapshot.
func (h *GoalHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()
	program, err := h.programs.Load(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	config, err := h.configs.Config(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.GoalStatusResponse{
		Program: program.Name,
		Goals:   h.goals.EvaluateGoals(program, config),
	})
}

// GetConfig returns the goal configuration document.
func (h *GoalHandler) GetConfig(c *gin.Context) {
	config, err := h.configs.Config(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, config)
}

// UpdateConfig replaces the goal configuration document.
func (h *GoalHandler) UpdateConfig(c *gin.Context) {
	var doc models.GoalConfigDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	if err := h.validate.Struct(doc.Targets); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	if doc.Goals == nil {
		doc.Goals = map[string]json.RawMessage{}
	}

	ctx := c.Request.Context()
	if err := h.configs.SaveConfig(ctx, &doc); err != nil {
		response.Error(c, err)
		return
	}
	if h.dashboards != nil {
		// The cached dashboard is keyed by the snapshot's program name,
		// which may differ from the configured target name.
		if program, err := h.programs.Load(ctx); err == nil {
			h.dashboards.Invalidate(ctx, program.Name)
		}
	}
	response.JSON(c, http.StatusOK, &doc)
}
