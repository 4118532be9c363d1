package service

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-calendar-api/internal/models"
	"github.com/noah-isme/academic-calendar-api/pkg/collation"
	"github.com/noah-isme/academic-calendar-api/pkg/database"
	appErrors "github.com/noah-isme/academic-calendar-api/pkg/errors"
	"github.com/noah-isme/academic-calendar-api/pkg/logger"
)

type termRepository interface {
	ListByCalendar(ctx context.Context, exec sqlx.ExtContext, calendarID string) ([]models.Term, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Term, error)
	Create(ctx context.Context, exec sqlx.ExtContext, term *models.Term) error
	Update(ctx context.Context, exec sqlx.ExtContext, term *models.Term) error
	Delete(ctx context.Context, calendarID, id string) (bool, error)
}

// AddTermRequest adds a single term by name.
type AddTermRequest struct {
	Name string `json:"name"`
}

// BulkUpsertTermsRequest inserts or renames terms by name.
type BulkUpsertTermsRequest struct {
	Names []string `json:"names" validate:"required"`
}

// UpsertPresetTermsRequest seeds canonical terms.
type UpsertPresetTermsRequest struct {
	Presets []models.TermPreset `json:"presets" validate:"required,min=1,dive"`
}

// UpdateTermRequest patches a term. Absent fields are left untouched and
// explicit nulls clear the field.
type UpdateTermRequest struct {
	Name        models.Optional[string]                  `json:"name"`
	ShortName   models.Optional[string]                  `json:"short_name"`
	Order       models.Optional[float64]                 `json:"order"`
	ClassCount  models.Optional[float64]                 `json:"class_count"`
	HolidayFlag models.Optional[models.HolidayFlagInput] `json:"holiday_flag"`
}

// TermUpdateResult reports the term after a patch and whether anything changed.
type TermUpdateResult struct {
	Term    *models.Term `json:"term"`
	Updated bool         `json:"updated"`
}

// TermService is the term registry of a calendar.
type TermService struct {
	repo      termRepository
	calendars calendarLookup
	tx        txProvider
	refresher summaryRefresher
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	collator  *collation.Collator
}

// NewTermService creates a new term service instance.
func NewTermService(repo termRepository, calendars calendarLookup, tx txProvider, refresher summaryRefresher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TermService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{
		repo:      repo,
		calendars: calendars,
		tx:        tx,
		refresher: refresher,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		collator:  collation.Japanese(),
	}
}

// List returns the calendar's terms with names trimmed, blank-named terms
// dropped, sorted by order then Japanese collation.
func (s *TermService) List(ctx context.Context, calendarID string) ([]models.Term, error) {
	terms, err := s.repo.ListByCalendar(ctx, nil, calendarID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list terms")
	}
	result := make([]models.Term, 0, len(terms))
	for _, term := range terms {
		term.Name = models.NormalizeTermName(term.Name)
		if term.Name == "" {
			continue
		}
		result = append(result, term)
	}
	sortTerms(result, s.collator)
	return result, nil
}

// Add inserts a term or, when one with the same normalized name exists,
// renames it in place and returns it.
func (s *TermService) Add(ctx context.Context, calendarID, rawName string) (*models.Term, error) {
	name := models.NormalizeTermName(rawName)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrEmptyName, "term name must not be blank")
	}
	if err := s.ensureCalendar(ctx, calendarID); err != nil {
		return nil, err
	}

	var result *models.Term
	err := runInTx(ctx, s.tx, func(exec sqlx.ExtContext) error {
		terms, err := s.repo.ListByCalendar(ctx, exec, calendarID)
		if err != nil {
			return err
		}
		term, _, err := s.upsertByName(ctx, exec, calendarID, &terms, name)
		result = term
		return err
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return s.recoverConcurrentAdd(ctx, calendarID, name, err)
		}
		return nil, asAppError(err, "failed to add term")
	}

	s.afterWrite(ctx, calendarID, "add")
	return result, nil
}

// recoverConcurrentAdd resolves the race where another caller inserted the
// same name between our read and write: the winner is returned.
func (s *TermService) recoverConcurrentAdd(ctx context.Context, calendarID, name string, cause error) (*models.Term, error) {
	terms, err := s.repo.ListByCalendar(ctx, nil, calendarID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add term")
	}
	if idx := findTermByName(terms, name, ""); idx >= 0 {
		logger.With(ctx, s.logger, calendarID).Info("term add raced, returning existing term", zap.String("term_id", terms[idx].ID))
		return &terms[idx], nil
	}
	return nil, appErrors.Wrap(cause, appErrors.ErrDuplicateName.Code, appErrors.ErrDuplicateName.Status, appErrors.ErrDuplicateName.Message)
}

// Remove deletes a term owned by the calendar. Absent or foreign terms
// report false without an error so retried deletes stay quiet.
func (s *TermService) Remove(ctx context.Context, calendarID, termID string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, calendarID, termID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete term")
	}
	if deleted {
		s.afterWrite(ctx, calendarID, "remove")
	}
	return deleted, nil
}

// BulkUpsertByName inserts or renames each name in order and returns the
// number of real insertions. It never deletes.
func (s *TermService) BulkUpsertByName(ctx context.Context, calendarID string, names []string) (int, error) {
	if err := s.ensureCalendar(ctx, calendarID); err != nil {
		return 0, err
	}

	inserted := 0
	err := runInTx(ctx, s.tx, func(exec sqlx.ExtContext) error {
		terms, err := s.repo.ListByCalendar(ctx, exec, calendarID)
		if err != nil {
			return err
		}
		for _, raw := range names {
			name := models.NormalizeTermName(raw)
			if name == "" {
				continue
			}
			_, created, err := s.upsertByName(ctx, exec, calendarID, &terms, name)
			if err != nil {
				return err
			}
			if created {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, asAppError(err, "failed to upsert terms")
	}

	s.afterWrite(ctx, calendarID, "bulk_upsert")
	logger.With(ctx, s.logger, calendarID).Info("terms bulk upserted", zap.Int("requested", len(names)), zap.Int("inserted", inserted))
	return inserted, nil
}

// upsertByName renames a matching term in place or inserts a new teaching
// term with the next sequential order. terms is kept in sync with the store.
func (s *TermService) upsertByName(ctx context.Context, exec sqlx.ExtContext, calendarID string, terms *[]models.Term, name string) (*models.Term, bool, error) {
	if idx := findTermByName(*terms, name, ""); idx >= 0 {
		match := &(*terms)[idx]
		if match.Name != name {
			match.Name = name
			if err := s.repo.Update(ctx, exec, match); err != nil {
				return nil, false, err
			}
		}
		found := *match
		return &found, false, nil
	}

	term := models.Term{
		CalendarID:  calendarID,
		Name:        name,
		Order:       float64Ptr(maxOrder(*terms) + 1),
		HolidayFlag: models.HolidayFlagTeaching,
	}
	if err := s.repo.Create(ctx, exec, &term); err != nil {
		return nil, false, err
	}
	*terms = append(*terms, term)
	return &term, true, nil
}

// UpdateTerm applies a field-level patch to a term of the calendar.
func (s *TermService) UpdateTerm(ctx context.Context, calendarID, termID string, req UpdateTermRequest) (*TermUpdateResult, error) {
	patch, err := parseTermPatch(req)
	if err != nil {
		return nil, err
	}

	result := &TermUpdateResult{}
	err = runInTx(ctx, s.tx, func(exec sqlx.ExtContext) error {
		term, err := s.loadOwnedTerm(ctx, exec, calendarID, termID)
		if err != nil {
			return err
		}

		changed := false
		if patch.name != nil && *patch.name != term.Name {
			terms, err := s.repo.ListByCalendar(ctx, exec, calendarID)
			if err != nil {
				return err
			}
			if findTermByName(terms, *patch.name, term.ID) >= 0 {
				return appErrors.Clone(appErrors.ErrDuplicateName, "")
			}
			term.Name = *patch.name
			changed = true
		}
		if req.ShortName.Set && !equalStringPtr(term.ShortName, patch.shortName) {
			term.ShortName = patch.shortName
			changed = true
		}
		if req.Order.Set && !equalFloatPtr(term.Order, patch.order) {
			term.Order = patch.order
			changed = true
		}
		if req.ClassCount.Set && !equalFloatPtr(term.ClassCount, patch.classCount) {
			term.ClassCount = patch.classCount
			changed = true
		}
		if req.HolidayFlag.Set && term.HolidayFlag != patch.holidayFlag {
			term.HolidayFlag = patch.holidayFlag
			changed = true
		}

		result.Term = term
		if !changed {
			return nil
		}
		if err := s.repo.Update(ctx, exec, term); err != nil {
			return err
		}
		result.Updated = true
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrDuplicateName.Code, appErrors.ErrDuplicateName.Status, appErrors.ErrDuplicateName.Message)
		}
		return nil, asAppError(err, "failed to update term")
	}

	if result.Updated {
		s.afterWrite(ctx, calendarID, "update")
	}
	return result, nil
}

// UpsertPresetTerms seeds canonical terms, patching only fields that differ.
func (s *TermService) UpsertPresetTerms(ctx context.Context, calendarID string, presets []models.TermPreset) (*models.PresetResult, error) {
	if err := s.validator.Struct(UpsertPresetTermsRequest{Presets: presets}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preset payload")
	}
	names := make([]string, len(presets))
	flags := make([]*models.HolidayFlag, len(presets))
	for i, preset := range presets {
		names[i] = models.NormalizeTermName(preset.Name)
		if names[i] == "" {
			return nil, appErrors.Clone(appErrors.ErrEmptyName, "preset name must not be blank")
		}
		if preset.HolidayFlag == nil {
			continue
		}
		flag, ok := models.ParseHolidayFlag(string(*preset.HolidayFlag))
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrInvalidHolidayFlag, "")
		}
		flags[i] = &flag
	}
	if err := s.ensureCalendar(ctx, calendarID); err != nil {
		return nil, err
	}

	result := &models.PresetResult{}
	err := runInTx(ctx, s.tx, func(exec sqlx.ExtContext) error {
		terms, err := s.repo.ListByCalendar(ctx, exec, calendarID)
		if err != nil {
			return err
		}
		for i, preset := range presets {
			name := names[i]
			if idx := findTermByName(terms, name, ""); idx >= 0 {
				match := &terms[idx]
				changed := false
				if match.Name != name {
					match.Name = name
					changed = true
				}
				if preset.ShortName != nil && !equalStringPtr(match.ShortName, preset.ShortName) {
					match.ShortName = stringPtr(*preset.ShortName)
					changed = true
				}
				if flags[i] != nil && match.HolidayFlag != *flags[i] {
					match.HolidayFlag = *flags[i]
					changed = true
				}
				if changed {
					if err := s.repo.Update(ctx, exec, match); err != nil {
						return err
					}
					result.Updated++
				}
				continue
			}

			term := models.Term{
				CalendarID:  calendarID,
				Name:        name,
				ShortName:   preset.ShortName,
				Order:       float64Ptr(maxOrder(terms) + 1),
				HolidayFlag: models.HolidayFlagTeaching,
			}
			if flags[i] != nil {
				term.HolidayFlag = *flags[i]
			}
			if err := s.repo.Create(ctx, exec, &term); err != nil {
				return err
			}
			terms = append(terms, term)
			result.Added++
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to upsert preset terms")
	}

	if result.Added > 0 || result.Updated > 0 {
		s.afterWrite(ctx, calendarID, "presets")
	}
	return result, nil
}

func (s *TermService) loadOwnedTerm(ctx context.Context, exec sqlx.ExtContext, calendarID, termID string) (*models.Term, error) {
	term, err := s.repo.FindByID(ctx, exec, termID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrTermNotFound, "")
		}
		return nil, err
	}
	if term.CalendarID != calendarID {
		return nil, appErrors.Clone(appErrors.ErrCrossCalendar, "")
	}
	return term, nil
}

func (s *TermService) ensureCalendar(ctx context.Context, calendarID string) error {
	if s.calendars == nil {
		return nil
	}
	_, err := loadCalendar(ctx, s.calendars, calendarID)
	return err
}

func (s *TermService) afterWrite(ctx context.Context, calendarID, operation string) {
	s.metrics.RecordTermMutation(operation)
	if s.refresher != nil {
		s.refresher.Refresh(ctx, calendarID)
	}
}

type termPatch struct {
	name        *string
	shortName   *string
	order       *float64
	classCount  *float64
	holidayFlag models.HolidayFlag
}

// parseTermPatch validates every field before anything is read or written.
func parseTermPatch(req UpdateTermRequest) (*termPatch, error) {
	patch := &termPatch{holidayFlag: models.HolidayFlagTeaching}

	if req.Name.Set {
		name := ""
		if !req.Name.Null {
			name = models.NormalizeTermName(req.Name.Value)
		}
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrEmptyName, "term name must not be blank")
		}
		patch.name = &name
	}
	if req.ShortName.Set && !req.ShortName.Null {
		if short := models.NormalizeTermName(req.ShortName.Value); short != "" {
			patch.shortName = &short
		}
	}
	if req.Order.Set && !req.Order.Null {
		order, ok := nonNegativeInteger(req.Order.Value)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrInvalidOrder, "")
		}
		patch.order = &order
	}
	if req.ClassCount.Set && !req.ClassCount.Null {
		count, ok := nonNegativeInteger(req.ClassCount.Value)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrInvalidClassCount, "")
		}
		patch.classCount = &count
	}
	if req.HolidayFlag.Set && !req.HolidayFlag.Null {
		flag, ok := models.ParseHolidayFlag(string(req.HolidayFlag.Value))
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrInvalidHolidayFlag, "")
		}
		patch.holidayFlag = flag
	}
	return patch, nil
}

// nonNegativeInteger truncates a finite value toward zero and rejects negatives.
func nonNegativeInteger(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	t := math.Trunc(v)
	if t < 0 {
		return 0, false
	}
	// Collapse -0 produced by truncating values in (-1, 0).
	return t + 0, true
}
