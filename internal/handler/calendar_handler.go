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

type calendarService interface {
	Get(ctx context.Context, id string) (*models.Calendar, error)
	Create(ctx context.Context, req service.CreateCalendarRequest) (*models.Calendar, error)
	Update(ctx context.Context, id string, req service.UpdateCalendarRequest) (*models.Calendar, error)
}

// CalendarHandler exposes calendar header endpoints.
type CalendarHandler struct {
	service calendarService
}

// NewCalendarHandler constructs a calendar handler.
func NewCalendarHandler(svc calendarService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

// Create godoc
// @Summary Create calendar
// @Tags Calendars
// @Accept json
// @Produce json
// @Param payload body service.CreateCalendarRequest true "Calendar payload"
// @Success 201 {object} response.Envelope
// @Router /calendars [post]
func (h *CalendarHandler) Create(c *gin.Context) {
	var req service.CreateCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid calendar payload"))
		return
	}
	calendar, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, calendar)
}

// Get godoc
// @Summary Get calendar
// @Tags Calendars
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId} [get]
func (h *CalendarHandler) Get(c *gin.Context) {
	calendar, err := h.service.Get(c.Request.Context(), c.Param("calendarId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}

// Update godoc
// @Summary Patch calendar
// @Tags Calendars
// @Accept json
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Param payload body service.UpdateCalendarRequest true "Calendar patch"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId} [patch]
func (h *CalendarHandler) Update(c *gin.Context) {
	var req service.UpdateCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid calendar payload"))
		return
	}
	calendar, err := h.service.Update(c.Request.Context(), c.Param("calendarId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendar, nil)
}
