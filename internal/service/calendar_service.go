package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-calendar-api/internal/models"
	appErrors "github.com/noah-isme/academic-calendar-api/pkg/errors"
)

type calendarRepository interface {
	FindByID(ctx context.Context, id string) (*models.Calendar, error)
	Create(ctx context.Context, calendar *models.Calendar) error
	Update(ctx context.Context, calendar *models.Calendar) error
}

// calendarLookup is the read side other services need.
type calendarLookup interface {
	FindByID(ctx context.Context, id string) (*models.Calendar, error)
}

// summaryRefresher is notified after every committed write to a calendar.
type summaryRefresher interface {
	Refresh(ctx context.Context, calendarID string)
}

// CreateCalendarRequest describes payload for creating a calendar.
type CreateCalendarRequest struct {
	FiscalYear             int    `json:"fiscal_year" validate:"required,gt=0"`
	Name                   string `json:"name" validate:"required"`
	DisableSaturdayClasses bool   `json:"disable_saturday_classes"`
}

// UpdateCalendarRequest patches calendar metadata. Absent fields are left untouched.
type UpdateCalendarRequest struct {
	FiscalYear             models.Optional[int]    `json:"fiscal_year"`
	Name                   models.Optional[string] `json:"name"`
	DisableSaturdayClasses models.Optional[bool]   `json:"disable_saturday_classes"`
}

// CalendarService manages calendar headers.
type CalendarService struct {
	repo      calendarRepository
	refresher summaryRefresher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs the service.
func NewCalendarService(repo calendarRepository, refresher summaryRefresher, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{repo: repo, refresher: refresher, validator: validate, logger: logger}
}

// Get returns a calendar by id.
func (s *CalendarService) Get(ctx context.Context, id string) (*models.Calendar, error) {
	return loadCalendar(ctx, s.repo, id)
}

// Create registers a calendar.
func (s *CalendarService) Create(ctx context.Context, req CreateCalendarRequest) (*models.Calendar, error) {
	name := models.NormalizeTermName(req.Name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrEmptyName, "calendar name must not be blank")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar payload")
	}
	calendar := &models.Calendar{
		FiscalYear:             req.FiscalYear,
		Name:                   name,
		DisableSaturdayClasses: req.DisableSaturdayClasses,
	}
	if err := s.repo.Create(ctx, calendar); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create calendar")
	}
	s.logger.Info("calendar created", zap.String("calendar_id", calendar.ID), zap.Int("fiscal_year", calendar.FiscalYear))
	return calendar, nil
}

// Update patches calendar metadata and invalidates cached aggregations.
func (s *CalendarService) Update(ctx context.Context, id string, req UpdateCalendarRequest) (*models.Calendar, error) {
	calendar, err := loadCalendar(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if req.Name.Set {
		name := ""
		if !req.Name.Null {
			name = models.NormalizeTermName(req.Name.Value)
		}
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrEmptyName, "calendar name must not be blank")
		}
		calendar.Name = name
	}
	if req.FiscalYear.Set {
		if req.FiscalYear.Null || req.FiscalYear.Value <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "fiscal_year must be a positive year")
		}
		calendar.FiscalYear = req.FiscalYear.Value
	}
	if req.DisableSaturdayClasses.Set {
		calendar.DisableSaturdayClasses = !req.DisableSaturdayClasses.Null && req.DisableSaturdayClasses.Value
	}

	if err := s.repo.Update(ctx, calendar); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update calendar")
	}
	if s.refresher != nil {
		s.refresher.Refresh(ctx, calendar.ID)
	}
	return calendar, nil
}

func loadCalendar(ctx context.Context, repo calendarLookup, id string) (*models.Calendar, error) {
	calendar, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrCalendarNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}
	return calendar, nil
}
