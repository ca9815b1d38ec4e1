package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studiplan/degree-progress-api/internal/models"
	appErrors "github.com/studiplan/degree-progress-api/pkg/errors"
	"github.com/studiplan/degree-progress-api/pkg/response"
)

type programSource interface {
	Load(ctx context.Context) (*models.Program, error)
	Save(ctx context.Context, program *models.Program) error
}

type programSeeder interface {
	Seed(ctx context.Context) (*models.Program, error)
}

type dashboardInvalidator interface {
	Invalidate(ctx context.Context, programName string)
}

// ProgramHandler exposes the program tree.
type ProgramHandler struct {
	programs   programSource
	seeder     programSeeder
	dashboards dashboardInvalidator
}

// NewProgramHandler constructs the handler.
func NewProgramHandler(programs programSource, seeder programSeeder, dashboards dashboardInvalidator) *ProgramHandler {
	return &ProgramHandler{programs: programs, seeder: seeder, dashboards: dashboards}
}

// Get returns the full program tree.
func (h *ProgramHandler) Get(c *gin.Context) {
	program, err := h.programs.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program)
}

// Seed replaces the snapshot with the demo data set.
func (h *ProgramHandler) Seed(c *gin.Context) {
	if h.seeder == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	program, err := h.seeder.Seed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.dashboards != nil {
		h.dashboards.Invalidate(c.Request.Context(), program.Name)
	}
	response.Created(c, program)
}
