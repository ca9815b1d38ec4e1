package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiplan/degree-progress-api/internal/models"
)

type recordingStorage struct {
	filename string
	data     []byte
	saveErr  error
}

func (r *recordingStorage) Save(filename string, data []byte) (string, error) {
	if r.saveErr != nil {
		return "", r.saveErr
	}
	r.filename = filename
	r.data = data
	return filename, nil
}

func TestBuildReportFlattensTree(t *testing.T) {
	svc := NewExportService(nil, nil)

	report := svc.BuildReport(seedLikeProgram())

	assert.Equal(t, "Softwareentwicklung", report.Title)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, []string{"6", "Bachelormodul", "Thesis", "9", "Hausarbeit", "2025-04-01", "1.7", "2025-07-20", "passed"}, report.Rows[0])
	assert.Equal(t, []string{"6", "Bachelormodul", "Kolloquium", "1", "Mündlich", "2025-07-01", "1.3", "2025-07-25", "passed"}, report.Rows[1])
}

func TestBuildReportStatusColumn(t *testing.T) {
	svc := NewExportService(nil, nil)
	program := programWithCourses(
		gradedCourse("Mathe", 5, 5.0),
		&models.Course{Name: "Offen", ECTS: 5},
	)

	report := svc.BuildReport(program)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "failed", report.Rows[0][8])
	assert.Equal(t, "open", report.Rows[1][8])
}

func TestRenderCSV(t *testing.T) {
	storage := &recordingStorage{}
	svc := NewExportService(storage, nil)

	artifact, err := svc.Render(seedLikeProgram(), "csv")
	require.NoError(t, err)

	assert.Equal(t, "text/csv", artifact.ContentType)
	assert.True(t, strings.HasPrefix(artifact.Filename, "progress-"))
	assert.True(t, strings.HasSuffix(artifact.Filename, ".csv"))

	body := string(artifact.Data)
	assert.Contains(t, body, "Semester,Module,Course,ECTS,Type,Start,Grade,Completed,Status")
	assert.Contains(t, body, "Thesis")
	assert.Contains(t, body, "passed")

	assert.Equal(t, artifact.Filename, storage.filename)
	assert.Equal(t, artifact.Data, storage.data)
}

func TestRenderDefaultsToCSV(t *testing.T) {
	svc := NewExportService(nil, nil)

	artifact, err := svc.Render(seedLikeProgram(), "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", artifact.ContentType)
	assert.True(t, strings.HasSuffix(artifact.Filename, ".csv"))
}

func TestRenderPDF(t *testing.T) {
	svc := NewExportService(nil, nil)

	artifact, err := svc.Render(seedLikeProgram(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", artifact.ContentType)
	assert.True(t, strings.HasSuffix(artifact.Filename, ".pdf"))
	assert.True(t, len(artifact.Data) > 0)
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(nil, nil)

	_, err := svc.Render(seedLikeProgram(), "xlsx")
	assert.Error(t, err)
}

func TestRenderToleratesStorageFailure(t *testing.T) {
	svc := NewExportService(&recordingStorage{saveErr: assert.AnError}, nil)

	artifact, err := svc.Render(seedLikeProgram(), "csv")
	require.NoError(t, err)
	assert.NotEmpty(t, artifact.Data)
}
