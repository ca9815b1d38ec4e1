package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studiplan/degree-progress-api/internal/dto"
	"github.com/studiplan/degree-progress-api/internal/middleware"
	"github.com/studiplan/degree-progress-api/internal/models"
	appErrors "github.com/studiplan/degree-progress-api/pkg/errors"
	"github.com/studiplan/degree-progress-api/pkg/response"
)

type configSource interface {
	Config(ctx context.Context) (*models.GoalConfigDocument, error)
}

type dashboardService interface {
	Summary(ctx context.Context, program *models.Program, config *models.GoalConfigDocument) (*dto.DashboardResponse, bool, error)
}

// DashboardHandler wires the dashboard service to HTTP.
type DashboardHandler struct {
	programs programSource
	configs  configSource
	service  dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(programs programSource, configs configSource, service dashboardService) *DashboardHandler {
	return &DashboardHandler{programs: programs, configs: configs, service: service}
}

// Get returns the dashboard metrics and goal status for the tracked
// program.
func (h *DashboardHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
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

	start := time.Now()
	summary, cacheHit, err := h.service.Summary(ctx, program, config)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, summary, meta)
}
