package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-calendar-api/internal/models"
	"github.com/noah-isme/academic-calendar-api/pkg/database"
	appErrors "github.com/noah-isme/academic-calendar-api/pkg/errors"
	"github.com/noah-isme/academic-calendar-api/pkg/logger"
)

// MaxRangeDays bounds a single range write.
const MaxRangeDays = 400

type dayRepository interface {
	FindByDate(ctx context.Context, exec sqlx.ExtContext, calendarID, date string) (*models.Day, error)
	Create(ctx context.Context, exec sqlx.ExtContext, day *models.Day) error
	Update(ctx context.Context, exec sqlx.ExtContext, day *models.Day) error
}

type termLookup interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Term, error)
}

// UpsertDayRequest classifies a single date.
type UpsertDayRequest struct {
	Type                string   `json:"type" validate:"required,daytype"`
	TermID              *string  `json:"term_id"`
	Description         *string  `json:"description"`
	ClassWeekday        *float64 `json:"class_weekday"`
	ClassOrder          *int     `json:"class_order" validate:"omitempty,gte=1"`
	NotificationReasons []string `json:"notification_reasons"`
}

// UpsertRangeRequest classifies every date of an inclusive span.
type UpsertRangeRequest struct {
	StartDate   string  `json:"start_date" validate:"required"`
	EndDate     string  `json:"end_date" validate:"required"`
	Type        string  `json:"type" validate:"required,daytype"`
	TermID      *string `json:"term_id"`
	Description *string `json:"description"`
}

// DayService writes per-date classifications.
type DayService struct {
	repo      dayRepository
	terms     termLookup
	calendars calendarLookup
	tx        txProvider
	refresher summaryRefresher
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDayService constructs the day classifier.
func NewDayService(repo dayRepository, terms termLookup, calendars calendarLookup, tx txProvider, refresher summaryRefresher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *DayService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	_ = validate.RegisterValidation("daytype", validateDayType)
	return &DayService{
		repo:      repo,
		terms:     terms,
		calendars: calendars,
		tx:        tx,
		refresher: refresher,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

func validateDayType(fl validator.FieldLevel) bool {
	_, ok := models.ParseDayType(fl.Field().String())
	return ok
}

// dayWrite is a validated, store-ready classification.
type dayWrite struct {
	dayType      models.DayType
	termID       *string
	description  *string
	classWeekday *int
	classOrder   *int
	reasons      []string
}

// Upsert creates or replaces the classification of date.
func (s *DayService) Upsert(ctx context.Context, calendarID, date string, req UpsertDayRequest) (*models.Day, error) {
	day, err := models.ParseDate(date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidDate, "")
	}
	dayType, ok := models.ParseDayType(req.Type)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidDayType, "")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day payload")
	}
	if err := s.ensureCalendar(ctx, calendarID); err != nil {
		return nil, err
	}

	write := dayWrite{
		dayType:      dayType,
		termID:       normalizeTermRef(req.TermID),
		description:  req.Description,
		classWeekday: explicitClassWeekday(req.ClassWeekday),
		classOrder:   req.ClassOrder,
		reasons:      req.NotificationReasons,
	}

	var result *models.Day
	err = runInTx(ctx, s.tx, func(exec sqlx.ExtContext) error {
		if err := s.checkTermOwnership(ctx, exec, calendarID, write.termID); err != nil {
			return err
		}
		saved, err := s.write(ctx, exec, calendarID, day, write)
		result = saved
		return err
	})
	if err != nil {
		return nil, s.mapWriteError(err)
	}

	s.afterWrite(ctx, calendarID, dayType, 1)
	return result, nil
}

// UpsertRange applies one classification to every date from start to end
// inclusive in a single transaction and returns the number of days written.
func (s *DayService) UpsertRange(ctx context.Context, calendarID string, req UpsertRangeRequest) (int, error) {
	start, err := models.ParseDate(req.StartDate)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrInvalidDate, "start_date must be formatted as YYYY-MM-DD")
	}
	end, err := models.ParseDate(req.EndDate)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrInvalidDate, "end_date must be formatted as YYYY-MM-DD")
	}
	if end.Before(start) {
		return 0, appErrors.Clone(appErrors.ErrInvalidDateRange, "end_date must not be before start_date")
	}
	span := int(end.Sub(start).Hours()/24) + 1
	if span > MaxRangeDays {
		return 0, appErrors.Clone(appErrors.ErrInvalidDateRange, "date range must not exceed 400 days")
	}
	dayType, ok := models.ParseDayType(req.Type)
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrInvalidDayType, "")
	}
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day range payload")
	}
	if err := s.ensureCalendar(ctx, calendarID); err != nil {
		return 0, err
	}

	write := dayWrite{
		dayType:     dayType,
		termID:      normalizeTermRef(req.TermID),
		description: req.Description,
	}

	written := 0
	err = runInTx(ctx, s.tx, func(exec sqlx.ExtContext) error {
		if err := s.checkTermOwnership(ctx, exec, calendarID, write.termID); err != nil {
			return err
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if _, err := s.write(ctx, exec, calendarID, d, write); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, s.mapWriteError(err)
	}

	s.afterWrite(ctx, calendarID, dayType, written)
	logger.With(ctx, s.logger, calendarID).Info("day range classified",
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.String("type", string(dayType)),
		zap.Int("written", written),
	)
	return written, nil
}

// write replaces the day stored on date or inserts a new one.
func (s *DayService) write(ctx context.Context, exec sqlx.ExtContext, calendarID string, date time.Time, w dayWrite) (*models.Day, error) {
	key := models.FormatDate(date)
	existing, err := s.repo.FindByDate(ctx, exec, calendarID, key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if existing != nil {
		existing.Type = w.dayType
		existing.TermID = w.termID
		existing.Description = w.description
		existing.ClassWeekday = resolveClassWeekday(w.classWeekday, existing.ClassWeekday, date)
		if w.classOrder != nil {
			existing.ClassOrder = w.classOrder
		}
		if w.reasons != nil {
			existing.NotificationReasons = w.reasons
		}
		if err := s.repo.Update(ctx, exec, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	day := &models.Day{
		CalendarID:          calendarID,
		Date:                key,
		Type:                w.dayType,
		TermID:              w.termID,
		Description:         w.description,
		ClassWeekday:        resolveClassWeekday(w.classWeekday, nil, date),
		ClassOrder:          w.classOrder,
		NotificationReasons: w.reasons,
	}
	if err := s.repo.Create(ctx, exec, day); err != nil {
		return nil, err
	}
	return day, nil
}

func (s *DayService) checkTermOwnership(ctx context.Context, exec sqlx.ExtContext, calendarID string, termID *string) error {
	if termID == nil || s.terms == nil {
		return nil
	}
	term, err := s.terms.FindByID(ctx, exec, *termID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrTermNotFound, "")
		}
		return err
	}
	if term.CalendarID != calendarID {
		return appErrors.Clone(appErrors.ErrCrossCalendar, "")
	}
	return nil
}

func (s *DayService) ensureCalendar(ctx context.Context, calendarID string) error {
	if s.calendars == nil {
		return nil
	}
	_, err := loadCalendar(ctx, s.calendars, calendarID)
	return err
}

func (s *DayService) mapWriteError(err error) error {
	if database.IsUniqueViolation(err) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "day was written concurrently, retry the request")
	}
	return asAppError(err, "failed to write calendar day")
}

func (s *DayService) afterWrite(ctx context.Context, calendarID string, dayType models.DayType, n int) {
	s.metrics.RecordDayWrites(dayType, n)
	if s.refresher != nil {
		s.refresher.Refresh(ctx, calendarID)
	}
}

// resolveClassWeekday picks the explicit value, else a valid previously
// stored value, else the date's own Monday-based weekday.
func resolveClassWeekday(explicit, previous *int, date time.Time) *int {
	if explicit != nil {
		return explicit
	}
	if previous != nil && models.ValidClassWeekday(*previous) {
		w := *previous
		return &w
	}
	w := models.ClassWeekdayOf(date)
	return &w
}

// explicitClassWeekday accepts only finite integers in 1..7.
func explicitClassWeekday(raw *float64) *int {
	if raw == nil {
		return nil
	}
	v := *raw
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return nil
	}
	w := int(v)
	if !models.ValidClassWeekday(w) {
		return nil
	}
	return &w
}

func normalizeTermRef(termID *string) *string {
	if termID == nil {
		return nil
	}
	id := strings.TrimSpace(*termID)
	if id == "" {
		return nil
	}
	return &id
}
