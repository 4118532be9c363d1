package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-calendar-api/internal/models"
	"github.com/noah-isme/academic-calendar-api/internal/service"
	appErrors "github.com/noah-isme/academic-calendar-api/pkg/errors"
	"github.com/noah-isme/academic-calendar-api/pkg/response"
)

type dayService interface {
	Upsert(ctx context.Context, calendarID, date string, req service.UpsertDayRequest) (*models.Day, error)
	UpsertRange(ctx context.Context, calendarID string, req service.UpsertRangeRequest) (int, error)
}

// DayHandler exposes day classification writes.
type DayHandler struct {
	service dayService
}

// NewDayHandler constructs a day handler.
func NewDayHandler(svc dayService) *DayHandler {
	return &DayHandler{service: svc}
}

// Upsert godoc
// @Summary Classify a date
// @Tags Days
// @Accept json
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param payload body service.UpsertDayRequest true "Classification"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId}/days/{date} [put]
func (h *DayHandler) Upsert(c *gin.Context) {
	var req service.UpsertDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid day payload"))
		return
	}
	day, err := h.service.Upsert(c.Request.Context(), c.Param("calendarId"), c.Param("date"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, day, nil)
}

// UpsertRange godoc
// @Summary Classify a date range
// @Description Overwrites every date of the inclusive span in one transaction
// @Tags Days
// @Accept json
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Param payload body service.UpsertRangeRequest true "Range classification"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId}/days [put]
func (h *DayHandler) UpsertRange(c *gin.Context) {
	var req service.UpsertRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid day range payload"))
		return
	}
	written, err := h.service.UpsertRange(c.Request.Context(), c.Param("calendarId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"written": written}, nil)
}
