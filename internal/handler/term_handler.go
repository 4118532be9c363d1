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

type termService interface {
	List(ctx context.Context, calendarID string) ([]models.Term, error)
	Add(ctx context.Context, calendarID, rawName string) (*models.Term, error)
	Remove(ctx context.Context, calendarID, termID string) (bool, error)
	BulkUpsertByName(ctx context.Context, calendarID string, names []string) (int, error)
	UpdateTerm(ctx context.Context, calendarID, termID string, req service.UpdateTermRequest) (*service.TermUpdateResult, error)
	UpsertPresetTerms(ctx context.Context, calendarID string, presets []models.TermPreset) (*models.PresetResult, error)
}

// TermHandler exposes the term registry of a calendar.
type TermHandler struct {
	service termService
}

// NewTermHandler constructs a term handler.
func NewTermHandler(svc termService) *TermHandler {
	return &TermHandler{service: svc}
}

// List godoc
// @Summary List terms
// @Description Terms sorted by order, then name in Japanese collation
// @Tags Terms
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId}/terms [get]
func (h *TermHandler) List(c *gin.Context) {
	terms, err := h.service.List(c.Request.Context(), c.Param("calendarId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms, nil)
}

// Add godoc
// @Summary Add term
// @Description Inserts a term, or renames the existing term with the same normalized name
// @Tags Terms
// @Accept json
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Param payload body service.AddTermRequest true "Term name"
// @Success 201 {object} response.Envelope
// @Router /calendars/{calendarId}/terms [post]
func (h *TermHandler) Add(c *gin.Context) {
	var req service.AddTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid term payload"))
		return
	}
	term, err := h.service.Add(c.Request.Context(), c.Param("calendarId"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, term)
}

// BulkUpsert godoc
// @Summary Bulk upsert terms by name
// @Tags Terms
// @Accept json
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Param payload body service.BulkUpsertTermsRequest true "Term names"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId}/terms/bulk [post]
func (h *TermHandler) BulkUpsert(c *gin.Context) {
	var req service.BulkUpsertTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid term payload"))
		return
	}
	inserted, err := h.service.BulkUpsertByName(c.Request.Context(), c.Param("calendarId"), req.Names)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"inserted": inserted}, nil)
}

// UpsertPresets godoc
// @Summary Seed preset terms
// @Tags Terms
// @Accept json
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Param payload body service.UpsertPresetTermsRequest true "Presets"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId}/terms/presets [post]
func (h *TermHandler) UpsertPresets(c *gin.Context) {
	var req service.UpsertPresetTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preset payload"))
		return
	}
	result, err := h.service.UpsertPresetTerms(c.Request.Context(), c.Param("calendarId"), req.Presets)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Update godoc
// @Summary Patch term
// @Description Absent fields are untouched, null clears a field
// @Tags Terms
// @Accept json
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Param termId path string true "Term ID"
// @Param payload body service.UpdateTermRequest true "Term patch"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId}/terms/{termId} [patch]
func (h *TermHandler) Update(c *gin.Context) {
	var req service.UpdateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid term payload"))
		return
	}
	result, err := h.service.UpdateTerm(c.Request.Context(), c.Param("calendarId"), c.Param("termId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete term
// @Tags Terms
// @Produce json
// @Param calendarId path string true "Calendar ID"
// @Param termId path string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /calendars/{calendarId}/terms/{termId} [delete]
func (h *TermHandler) Delete(c *gin.Context) {
	deleted, err := h.service.Remove(c.Request.Context(), c.Param("calendarId"), c.Param("termId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": deleted}, nil)
}
