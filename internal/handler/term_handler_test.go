package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-calendar-api/internal/models"
	"github.com/noah-isme/academic-calendar-api/internal/service"
	appErrors "github.com/noah-isme/academic-calendar-api/pkg/errors"
)

type termServiceMock struct {
	addErr      error
	lastName    string
	lastPatch   service.UpdateTermRequest
	deleted     bool
	bulkNames   []string
	presetCount int
}

func (m *termServiceMock) List(ctx context.Context, calendarID string) ([]models.Term, error) {
	return []models.Term{{ID: "term-1", CalendarID: calendarID, Name: "前期"}}, nil
}

func (m *termServiceMock) Add(ctx context.Context, calendarID, rawName string) (*models.Term, error) {
	m.lastName = rawName
	if m.addErr != nil {
		return nil, m.addErr
	}
	return &models.Term{ID: "term-1", CalendarID: calendarID, Name: rawName}, nil
}

func (m *termServiceMock) Remove(ctx context.Context, calendarID, termID string) (bool, error) {
	return m.deleted, nil
}

func (m *termServiceMock) BulkUpsertByName(ctx context.Context, calendarID string, names []string) (int, error) {
	m.bulkNames = names
	return len(names), nil
}

func (m *termServiceMock) UpdateTerm(ctx context.Context, calendarID, termID string, req service.UpdateTermRequest) (*service.TermUpdateResult, error) {
	m.lastPatch = req
	return &service.TermUpdateResult{Term: &models.Term{ID: termID}, Updated: true}, nil
}

func (m *termServiceMock) UpsertPresetTerms(ctx context.Context, calendarID string, presets []models.TermPreset) (*models.PresetResult, error) {
	m.presetCount = len(presets)
	return &models.PresetResult{Added: len(presets)}, nil
}

func newJSONContext(method, path, body string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func TestTermHandlerAdd(t *testing.T) {
	svc := &termServiceMock{}
	handler := NewTermHandler(svc)
	c, w := newJSONContext(http.MethodPost, "/calendars/cal-1/terms", `{"name":"前期"}`, gin.Params{{Key: "calendarId", Value: "cal-1"}})

	handler.Add(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "前期", svc.lastName)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "term-1", data["id"])
}

func TestTermHandlerAddMapsErrors(t *testing.T) {
	handler := NewTermHandler(&termServiceMock{addErr: appErrors.Clone(appErrors.ErrEmptyName, "")})
	c, w := newJSONContext(http.MethodPost, "/calendars/cal-1/terms", `{"name":" "}`, gin.Params{{Key: "calendarId", Value: "cal-1"}})

	handler.Add(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, appErrors.ErrEmptyName.Code, errBody["code"])
}

func TestTermHandlerUpdateKeepsNullSemantics(t *testing.T) {
	svc := &termServiceMock{}
	handler := NewTermHandler(svc)
	c, w := newJSONContext(http.MethodPatch, "/calendars/cal-1/terms/term-1", `{"order": null, "short_name": "前"}`,
		gin.Params{{Key: "calendarId", Value: "cal-1"}, {Key: "termId", Value: "term-1"}})

	handler.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.lastPatch.Order.Set)
	assert.True(t, svc.lastPatch.Order.Null)
	assert.Equal(t, "前", svc.lastPatch.ShortName.Value)
	assert.False(t, svc.lastPatch.Name.Set)
}

func TestTermHandlerUpdateAcceptsNumericHolidayFlag(t *testing.T) {
	svc := &termServiceMock{}
	handler := NewTermHandler(svc)
	c, w := newJSONContext(http.MethodPatch, "/calendars/cal-1/terms/term-1", `{"holiday_flag": 1}`,
		gin.Params{{Key: "calendarId", Value: "cal-1"}, {Key: "termId", Value: "term-1"}})

	handler.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.lastPatch.HolidayFlag.Set)
	assert.Equal(t, models.HolidayFlagInput("1"), svc.lastPatch.HolidayFlag.Value)
}

func TestTermHandlerInvalidBody(t *testing.T) {
	handler := NewTermHandler(&termServiceMock{})
	c, w := newJSONContext(http.MethodPost, "/calendars/cal-1/terms/bulk", `invalid`, gin.Params{{Key: "calendarId", Value: "cal-1"}})

	handler.BulkUpsert(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTermHandlerBulkAndPresets(t *testing.T) {
	svc := &termServiceMock{}
	handler := NewTermHandler(svc)

	c, w := newJSONContext(http.MethodPost, "/calendars/cal-1/terms/bulk", `{"names":["前期","後期"]}`, gin.Params{{Key: "calendarId", Value: "cal-1"}})
	handler.BulkUpsert(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"前期", "後期"}, svc.bulkNames)
	assert.Equal(t, float64(2), decodeEnvelope(t, w)["data"].(map[string]interface{})["inserted"])

	c, w = newJSONContext(http.MethodPost, "/calendars/cal-1/terms/presets", `{"presets":[{"name":"夏休み","holiday_flag":"VACATION"}]}`, gin.Params{{Key: "calendarId", Value: "cal-1"}})
	handler.UpsertPresets(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.presetCount)
}

func TestTermHandlerDeleteReportsOutcome(t *testing.T) {
	handler := NewTermHandler(&termServiceMock{deleted: false})
	c, w := newJSONContext(http.MethodDelete, "/calendars/cal-1/terms/term-9", "", gin.Params{{Key: "calendarId", Value: "cal-1"}, {Key: "termId", Value: "term-9"}})

	handler.Delete(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeEnvelope(t, w)["data"].(map[string]interface{})["deleted"])
}
