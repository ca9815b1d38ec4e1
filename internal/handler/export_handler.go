package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studiplan/degree-progress-api/internal/models"
	"github.com/studiplan/degree-progress-api/internal/service"
	appErrors "github.com/studiplan/degree-progress-api/pkg/errors"
	"github.com/studiplan/degree-progress-api/pkg/response"
)

type reportRenderer interface {
	Render(program *models.Program, format string) (*service.Artifact, error)
}

// ExportHandler serves the progress report as a downloadable artifact.
type ExportHandler struct {
	programs programSource
	exports  reportRenderer
}

// NewExportHandler constructs the handler.
func NewExportHandler(programs programSource, exports reportRenderer) *ExportHandler {
	return &ExportHandler{programs: programs, exports: exports}
}

// Get renders the progress report in the requested format (csv by
// default, pdf on request).
func (h *ExportHandler) Get(c *gin.Context) {
	program, err := h.programs.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	artifact, err := h.exports.Render(program, c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}
