package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiplan/degree-progress-api/internal/models"
)

type fakeGoalEvaluator struct {
	status map[string]bool
}

func (f *fakeGoalEvaluator) EvaluateGoals(*models.Program, *models.GoalConfigDocument) map[string]bool {
	return f.status
}

func TestGoalHandlerStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGoalHandler(seededSource(),
		&fakeConfigSource{config: models.DefaultGoalConfig("Softwareentwicklung", "2023-12-05")},
		&fakeGoalEvaluator{status: map[string]bool{models.GoalKeyGradeAverage: true, models.GoalKeyExcellence: false}},
		nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/goals", nil)

	handler.Status(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Softwareentwicklung", envelope.Data["program"])
	goals := envelope.Data["goals"].(map[string]interface{})
	assert.Equal(t, true, goals[models.GoalKeyGradeAverage])
	assert.Equal(t, false, goals[models.GoalKeyExcellence])
}

func TestGoalHandlerGetConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config := models.DefaultGoalConfig("Softwareentwicklung", "2023-12-05")
	config.Goals = models.SeedGoalParams()
	handler := NewGoalHandler(seededSource(), &fakeConfigSource{config: config}, &fakeGoalEvaluator{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/goals/config", nil)

	handler.GetConfig(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	ziele := envelope.Data["ziele"].(map[string]interface{})
	assert.Contains(t, ziele, models.GoalKeyCombinedDuration)
}

func TestGoalHandlerUpdateConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	configs := &fakeConfigSource{}
	invalidator := &fakeInvalidator{}
	handler := NewGoalHandler(seededSource(), configs, &fakeGoalEvaluator{}, invalidator)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPut, "/goals/config", `{
		"ziele": {"notenziel": {"max_durchschnitt": 2.0}},
		"studiengang": {"name": "Softwareentwicklung", "startdatum": "2023-12-05", "total_ects": 180, "total_exams": 36}
	}`)

	handler.UpdateConfig(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, configs.saved)
	assert.Contains(t, configs.saved.Goals, models.GoalKeyGradeAverage)
	// The cache key follows the snapshot's program name, not the target name.
	assert.Equal(t, []string{"Softwareentwicklung"}, invalidator.names)
}

func TestGoalHandlerUpdateConfigNilGoals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	configs := &fakeConfigSource{}
	handler := NewGoalHandler(seededSource(), configs, &fakeGoalEvaluator{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPut, "/goals/config",
		`{"studiengang": {"name": "Softwareentwicklung", "total_ects": 180, "total_exams": 36}}`)

	handler.UpdateConfig(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, configs.saved)
	assert.NotNil(t, configs.saved.Goals)
	assert.Empty(t, configs.saved.Goals)
}

func TestGoalHandlerUpdateConfigRejectsNegativeTargets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	configs := &fakeConfigSource{}
	handler := NewGoalHandler(seededSource(), configs, &fakeGoalEvaluator{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = jsonRequest(http.MethodPut, "/goals/config",
		`{"studiengang": {"name": "Softwareentwicklung", "total_ects": -1, "total_exams": 36}}`)

	handler.UpdateConfig(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, configs.saved)
}
