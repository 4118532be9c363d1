package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func buildCalendarRouter(terms *termServiceMock, days *dayServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), Handlers{
		Calendars:    NewCalendarHandler(&calendarServiceMock{}),
		Terms:        NewTermHandler(terms),
		Days:         NewDayHandler(days),
		Aggregations: NewAggregationHandler(&aggregationServiceMock{}, &exportServiceMock{}),
	})
	return router
}

func performRequest(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCalendarRoutes(t *testing.T) {
	terms := &termServiceMock{deleted: true}
	days := &dayServiceMock{}
	router := buildCalendarRouter(terms, days)

	t.Run("calendar get", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/calendars/cal-1", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"fiscal_year":2025`)
	})

	t.Run("term bulk does not collide with term id", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/calendars/cal-1/terms/bulk", bytes.NewBufferString(`{"names":["前期"]}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Equal(t, []string{"前期"}, terms.bulkNames)
	})

	t.Run("term delete", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, "/api/v1/calendars/cal-1/terms/term-1", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"deleted":true`)
	})

	t.Run("day upsert by date", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, "/api/v1/calendars/cal-1/days/2025-04-07", bytes.NewBufferString(`{"type":"CLASS"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Equal(t, "2025-04-07", days.lastDate)
	})

	t.Run("summary export", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/calendars/cal-1/summary/export?format=csv", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Header().Get("Content-Disposition"), "term-summary.csv")
	})

	t.Run("unknown route", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/calendars/cal-1/unknown", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusNotFound, resp.Code)
	})
}
