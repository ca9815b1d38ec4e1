package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studiplan/degree-progress-api/internal/models"
	"github.com/studiplan/degree-progress-api/pkg/export"
)

// Export formats supported by the progress report.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// Artifact is a rendered progress report.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ArtifactStorage persists rendered artifacts.
type ArtifactStorage interface {
	Save(filename string, data []byte) (string, error)
}

// ExportService renders the program tree into a tabular progress report.
type ExportService struct {
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	storage ArtifactStorage
	logger  *zap.Logger
}

// NewExportService constructs the service. Storage may be nil, in which
// case artifacts are only returned inline.
func NewExportService(storage ArtifactStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		storage: storage,
		logger:  logger,
	}
}

// BuildReport flattens the program tree into one row per course.
func (s *ExportService) BuildReport(program *models.Program) export.Report {
	report := export.Report{
		Title:   program.Name,
		Columns: []string{"Semester", "Module", "Course", "ECTS", "Type", "Start", "Grade", "Completed", "Status"},
	}
	program.EachCourse(func(sem *models.Semester, mod *models.StudyModule, course *models.Course) {
		report.Rows = append(report.Rows, []string{
			strconv.Itoa(sem.Number),
			mod.Name,
			course.Name,
			strconv.FormatFloat(course.ECTS, 'f', -1, 64),
			course.Record.AssessmentType,
			formatDate(course.StartDate),
			formatGrade(course.Record.Grade),
			formatDate(course.Record.Date),
			courseStatus(course),
		})
	})
	return report
}

// Render produces the report in the requested format and stores a copy of
// the artifact when storage is configured.
func (s *ExportService) Render(program *models.Program, format string) (*Artifact, error) {
	report := s.BuildReport(program)

	var (
		data        []byte
		contentType string
		err         error
	)
	switch strings.ToLower(format) {
	case ExportFormatCSV, "":
		data, err = s.csv.Render(report)
		contentType = "text/csv"
		format = ExportFormatCSV
	case ExportFormatPDF:
		data, err = s.pdf.Render(report)
		contentType = "application/pdf"
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", format, err)
	}

	artifact := &Artifact{
		Filename:    fmt.Sprintf("progress-%s.%s", uuid.NewString(), format),
		ContentType: contentType,
		Data:        data,
	}

	if s.storage != nil {
		if _, err := s.storage.Save(artifact.Filename, data); err != nil {
			s.logger.Warn("export artifact not persisted", zap.String("filename", artifact.Filename), zap.Error(err))
		}
	}
	return artifact, nil
}

func formatDate(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func formatGrade(grade *float64) string {
	if grade == nil {
		return ""
	}
	return strconv.FormatFloat(*grade, 'f', 1, 64)
}

func courseStatus(course *models.Course) string {
	switch {
	case course.IsPassed():
		return "passed"
	case course.IsCompleted():
		return "failed"
	default:
		return "open"
	}
}
