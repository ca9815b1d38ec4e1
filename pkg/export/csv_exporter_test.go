package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	report := Report{
		Title:   "Fortschritt",
		Columns: []string{"Semester", "Course", "Grade"},
		Rows: [][]string{
			{"1", "Mathe", "1.7"},
			{"1", "Physik, Teil 2", ""},
		},
	}

	data, err := exporter.Render(report)
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, "Semester,Course,Grade\n")
	assert.Contains(t, body, `"Physik, Teil 2"`)
}

func TestCSVExporterRejectsEmptyColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Report{})
	assert.Error(t, err)
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	report := Report{
		Columns: []string{"A", "B"},
		Rows:    [][]string{{"only one"}},
	}
	_, err := NewCSVExporter().Render(report)
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	report := Report{
		Title:   "Fortschritt",
		Columns: []string{"Semester", "Course"},
		Rows:    [][]string{{"1", "Mathe"}},
	}

	data, err := NewPDFExporter().Render(report)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}
