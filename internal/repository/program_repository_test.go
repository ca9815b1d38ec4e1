package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiplan/degree-progress-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestProgramRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	document := `{
		"name": "Softwareentwicklung",
		"startdatum": "2023-12-05",
		"semester": [{
			"nummer": 6,
			"module": [{
				"name": "Bachelormodul",
				"kurse": [{
					"name": "Thesis",
					"ects": 9,
					"startdatum": "2025-04-01",
					"leistung": {"art": "Hausarbeit", "note": 1.7, "datum": "2025-07-20", "bestanden": null}
				}]
			}]
		}]
	}`
	rows := sqlmock.NewRows([]string{"document"}).AddRow([]byte(document))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT document FROM program_snapshots WHERE id = $1")).
		WithArgs("default").
		WillReturnRows(rows)

	program, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, program)
	assert.Equal(t, "Softwareentwicklung", program.Name)
	require.Len(t, program.Semesters, 1)
	course := program.Semesters[0].Modules[0].Courses[0]
	assert.Equal(t, "Thesis", course.Name)
	require.NotNil(t, course.Record.Grade)
	assert.InDelta(t, 1.7, *course.Record.Grade, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryLoadMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT document FROM program_snapshots WHERE id = $1")).
		WithArgs("default").
		WillReturnRows(sqlmock.NewRows([]string{"document"}))

	program, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, program)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryLoadCorruptDocument(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	rows := sqlmock.NewRows([]string{"document"}).AddRow([]byte(`{broken`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT document FROM program_snapshots WHERE id = $1")).
		WithArgs("default").
		WillReturnRows(rows)

	_, err := repo.Load(context.Background())
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositorySave(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO program_snapshots")).
		WithArgs("default", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	program := &models.Program{Name: "Softwareentwicklung", StartDate: *models.ParseDate("2023-12-05")}
	require.NoError(t, repo.Save(context.Background(), program))
	require.NoError(t, mock.ExpectationsWereMet())
}
