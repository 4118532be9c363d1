package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-calendar-api/internal/models"
	"github.com/noah-isme/academic-calendar-api/internal/service"
	appErrors "github.com/noah-isme/academic-calendar-api/pkg/errors"
	"github.com/noah-isme/academic-calendar-api/pkg/response"
)

type aggregationService interface {
	TermSummary(ctx context.Context, calendarID string) (*models.TermSummaryResult, error)
	UniqueTerms(ctx context.Context, calendarID string) ([]models.UniqueTerm, error)
	TermWeekdayDates(ctx context.Context, calendarID string, termID *string, weekdayLabel string) ([]models.TermWeekdayDate, error)
	Days(ctx context.Context, calendarID, from, to string) ([]models.Day, error)
}

type exportService interface {
	ExportTermSummary(ctx context.Context, calendarID, format string) (*service.ExportFile, error)
}

// AggregationHandler exposes the read-only derivations of a calendar.
type AggregationHandler struct {
	aggregations aggregationService
	exports      exportService
}

// NewAggregationHandler constructs an aggregation handler.
func NewAggregationHandler(aggregations aggregationService, exports exportService) *AggregationHandler {
	return &AggregationHandler{aggregations: aggregations, exports: exports}
}

// TermSummary godoc
// @Summary Term and vacation summary
// @Tags Aggregations
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId}/summary [get]
func (h *AggregationHandler) TermSummary(c *gin.Context) {
	result, err := h.aggregations.TermSummary(c.Request.Context(), c.Param("calendarId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ExportSummary godoc
// @Summary Export term summary
// @Tags Aggregations
// @Produce text/csv
// @Produce application/pdf
// @Param calendarId path string true "Calendar ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /calendars/{calendarId}/summary/export [get]
func (h *AggregationHandler) ExportSummary(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export not configured"))
		return
	}
	file, err := h.exports.ExportTermSummary(c.Request.Context(), c.Param("calendarId"), c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// UniqueTerms godoc
// @Summary Distinct terms referenced by days
// @Tags Aggregations
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId}/unique-terms [get]
func (h *AggregationHandler) UniqueTerms(c *gin.Context) {
	terms, err := h.aggregations.UniqueTerms(c.Request.Context(), c.Param("calendarId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms, nil)
}

// WeekdayDates godoc
// @Summary Class dates of a term on a weekday
// @Description Omitting term_id selects days without a term. weekday is one of 日月火水木金土.
// @Tags Aggregations
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Param term_id query string false "Term ID"
// @Param weekday query string true "Weekday label"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId}/weekday-dates [get]
func (h *AggregationHandler) WeekdayDates(c *gin.Context) {
	var termID *string
	if raw := strings.TrimSpace(c.Query("term_id")); raw != "" {
		termID = &raw
	}
	rows, err := h.aggregations.TermWeekdayDates(c.Request.Context(), c.Param("calendarId"), termID, c.Query("weekday"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Days godoc
// @Summary List classified days
// @Tags Days
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Param from query string false "Inclusive start date"
// @Param to query string false "Inclusive end date"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId}/days [get]
func (h *AggregationHandler) Days(c *gin.Context) {
	days, err := h.aggregations.Days(c.Request.Context(), c.Param("calendarId"), c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 {
		response.JSON(c, http.StatusOK, days, nil)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start > len(days) {
		start = len(days)
	}
	end := start + limit
	if end > len(days) {
		end = len(days)
	}
	response.JSON(c, http.StatusOK, days[start:end], &response.Pagination{Page: page, PageSize: limit, TotalCount: len(days)})
}
