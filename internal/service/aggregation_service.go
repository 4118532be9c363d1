package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-calendar-api/internal/models"
	"github.com/noah-isme/academic-calendar-api/pkg/collation"
	appErrors "github.com/noah-isme/academic-calendar-api/pkg/errors"
	"github.com/noah-isme/academic-calendar-api/pkg/logger"
)

type dayReader interface {
	ListByTypes(ctx context.Context, calendarID string, types []models.DayType) ([]models.Day, error)
	List(ctx context.Context, calendarID string, filter models.DayFilter) ([]models.Day, error)
}

type termReader interface {
	ListByCalendar(ctx context.Context, exec sqlx.ExtContext, calendarID string) ([]models.Term, error)
}

// vacationBuckets is the fixed label to bucket mapping, in output order.
var vacationBuckets = []models.VacationSummaryRow{
	{BucketKey: models.VacationSpring, Label: "春休み"},
	{BucketKey: models.VacationSummer, Label: "夏休み"},
	{BucketKey: models.VacationWinter, Label: "冬休み"},
}

// AggregationService derives read-only statistics from terms and days.
type AggregationService struct {
	days      dayReader
	terms     termReader
	calendars calendarLookup
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	collator  *collation.Collator
}

// NewAggregationService constructs the aggregation engine.
func NewAggregationService(days dayReader, terms termReader, calendars calendarLookup, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AggregationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AggregationService{
		days:      days,
		terms:     terms,
		calendars: calendars,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		collator:  collation.Japanese(),
	}
}

type termMeta struct {
	displayName string
	order       *float64
}

// TermSummary counts class days per term and weekday and cancelled days per
// long vacation.
func (s *AggregationService) TermSummary(ctx context.Context, calendarID string) (*models.TermSummaryResult, error) {
	result, err := loadCached(ctx, s.cache, calendarID, []string{"summary"}, func() (models.TermSummaryResult, error) {
		start := time.Now()
		defer func() { s.metrics.ObserveAggregation("term_summary", time.Since(start)) }()
		return s.computeTermSummary(ctx, calendarID)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *AggregationService) computeTermSummary(ctx context.Context, calendarID string) (models.TermSummaryResult, error) {
	disableSaturday, err := s.saturdayDisabled(ctx, calendarID)
	if err != nil {
		return models.TermSummaryResult{}, err
	}
	days, err := s.days.ListByTypes(ctx, calendarID, []models.DayType{models.DayTypeClass, models.DayTypeCancelled})
	if err != nil {
		return models.TermSummaryResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar days")
	}
	terms, meta, err := s.termMetadata(ctx, calendarID)
	if err != nil {
		return models.TermSummaryResult{}, err
	}

	type bucket struct {
		row   models.TermSummaryRow
		order *float64
	}
	buckets := make(map[string]*bucket)
	var unassigned *bucket

	vacations := make([]models.VacationSummaryRow, len(vacationBuckets))
	copy(vacations, vacationBuckets)

	for _, day := range days {
		switch day.Type {
		case models.DayTypeClass:
			var b *bucket
			if day.TermID == nil {
				if unassigned == nil {
					unassigned = &bucket{row: models.TermSummaryRow{DisplayName: models.DisplayNameUnclassified}}
				}
				b = unassigned
			} else {
				id := *day.TermID
				b = buckets[id]
				if b == nil {
					m := lookupMeta(meta, id)
					b = &bucket{row: models.TermSummaryRow{TermID: stringPtr(id), DisplayName: m.displayName}, order: m.order}
					buckets[id] = b
				}
			}
			weekday, ok := day.AssignedWeekday()
			if !ok || weekday < 1 || weekday > models.WeekdaySlots {
				continue
			}
			if weekday == int(time.Saturday) && disableSaturday {
				continue
			}
			b.row.WeekdayCounts[weekday-1]++
		case models.DayTypeCancelled:
			if day.TermID == nil {
				continue
			}
			term, ok := terms[*day.TermID]
			if !ok {
				continue
			}
			for i := range vacations {
				if vacations[i].Label == term.Name {
					vacations[i].Count++
				}
			}
		}
	}

	all := make([]*bucket, 0, len(buckets)+1)
	for _, b := range buckets {
		all = append(all, b)
	}
	if unassigned != nil {
		all = append(all, unassigned)
	}
	// The unassigned bucket has no order and competes by name with unordered terms.
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if c := compareOrder(a.order, b.order); c != 0 {
			return c < 0
		}
		if c := s.collator.Compare(a.row.DisplayName, b.row.DisplayName); c != 0 {
			return c < 0
		}
		return termIDKey(a.row.TermID) < termIDKey(b.row.TermID)
	})

	rows := make([]models.TermSummaryRow, 0, len(all))
	for _, b := range all {
		rows = append(rows, b.row)
	}
	return models.TermSummaryResult{TermSummaries: rows, VacationSummaries: vacations}, nil
}

// UniqueTerms lists the distinct terms referenced by the calendar's days.
func (s *AggregationService) UniqueTerms(ctx context.Context, calendarID string) ([]models.UniqueTerm, error) {
	return loadCached(ctx, s.cache, calendarID, []string{"unique-terms"}, func() ([]models.UniqueTerm, error) {
		start := time.Now()
		defer func() { s.metrics.ObserveAggregation("unique_terms", time.Since(start)) }()
		return s.computeUniqueTerms(ctx, calendarID)
	})
}

func (s *AggregationService) computeUniqueTerms(ctx context.Context, calendarID string) ([]models.UniqueTerm, error) {
	days, err := s.days.List(ctx, calendarID, models.DayFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar days")
	}
	_, meta, err := s.termMetadata(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	type entry struct {
		term  models.UniqueTerm
		order *float64
	}
	seen := make(map[string]bool)
	entries := make([]entry, 0)
	hasUnlinked := false
	for _, day := range days {
		if day.TermID == nil {
			hasUnlinked = true
			continue
		}
		id := *day.TermID
		if seen[id] {
			continue
		}
		seen[id] = true
		m := lookupMeta(meta, id)
		entries = append(entries, entry{term: models.UniqueTerm{TermID: stringPtr(id), DisplayName: m.displayName}, order: m.order})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if c := compareOrder(entries[i].order, entries[j].order); c != 0 {
			return c < 0
		}
		if c := s.collator.Compare(entries[i].term.DisplayName, entries[j].term.DisplayName); c != 0 {
			return c < 0
		}
		return termIDKey(entries[i].term.TermID) < termIDKey(entries[j].term.TermID)
	})

	result := make([]models.UniqueTerm, 0, len(entries)+1)
	for _, e := range entries {
		result = append(result, e.term)
	}
	if hasUnlinked {
		result = append(result, models.UniqueTerm{DisplayName: models.DisplayNameUnclassified})
	}
	return result, nil
}

// TermWeekdayDates lists the class days of a term (or of no term when
// termID is nil) whose assigned weekday carries weekdayLabel. Unknown
// labels produce an empty result.
func (s *AggregationService) TermWeekdayDates(ctx context.Context, calendarID string, termID *string, weekdayLabel string) ([]models.TermWeekdayDate, error) {
	weekday, ok := models.ParseWeekdayLabel(weekdayLabel)
	if !ok {
		logger.With(ctx, s.logger, calendarID).Debug("unknown weekday label", zap.String("label", weekdayLabel))
		return []models.TermWeekdayDate{}, nil
	}
	termKey := "none"
	if termID != nil {
		termKey = "term-" + *termID
	}
	parts := []string{"weekday-dates", termKey, strconv.Itoa(weekday)}
	return loadCached(ctx, s.cache, calendarID, parts, func() ([]models.TermWeekdayDate, error) {
		start := time.Now()
		defer func() { s.metrics.ObserveAggregation("term_weekday_dates", time.Since(start)) }()
		return s.computeTermWeekdayDates(ctx, calendarID, termID, weekday)
	})
}

func (s *AggregationService) computeTermWeekdayDates(ctx context.Context, calendarID string, termID *string, weekday int) ([]models.TermWeekdayDate, error) {
	days, err := s.days.ListByTypes(ctx, calendarID, []models.DayType{models.DayTypeClass})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar days")
	}
	_, meta, err := s.termMetadata(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	rows := make([]models.TermWeekdayDate, 0)
	for _, day := range days {
		if !equalStringPtr(day.TermID, termID) {
			continue
		}
		assigned, ok := day.AssignedWeekday()
		if !ok || assigned != weekday {
			continue
		}
		actual, _ := day.ActualWeekday()
		row := models.TermWeekdayDate{
			Date:                 day.Date,
			Type:                 day.Type,
			TermID:               day.TermID,
			ActualWeekdayLabel:   models.WeekdayLabel(actual),
			AssignedWeekdayLabel: models.WeekdayLabel(assigned),
			ClassWeekday:         day.ClassWeekday,
			ClassOrder:           day.ClassOrder,
			NotificationReasons:  day.NotificationReasons,
		}
		if day.TermID != nil {
			row.DisplayName = stringPtr(lookupMeta(meta, *day.TermID).displayName)
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows, nil
}

// Days lists the calendar's day records, optionally within [from, to].
func (s *AggregationService) Days(ctx context.Context, calendarID, from, to string) ([]models.Day, error) {
	filter := models.DayFilter{}
	var fromDate, toDate time.Time
	var err error
	if from != "" {
		if fromDate, err = models.ParseDate(from); err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidDate, "from must be formatted as YYYY-MM-DD")
		}
		filter.From = models.FormatDate(fromDate)
	}
	if to != "" {
		if toDate, err = models.ParseDate(to); err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidDate, "to must be formatted as YYYY-MM-DD")
		}
		filter.To = models.FormatDate(toDate)
	}
	if from != "" && to != "" && toDate.Before(fromDate) {
		return nil, appErrors.Clone(appErrors.ErrInvalidDateRange, "to must not be before from")
	}

	days, err := s.days.List(ctx, calendarID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calendar days")
	}
	return days, nil
}

// saturdayDisabled reads the calendar flag. A missing calendar counts as
// not disabling Saturdays.
func (s *AggregationService) saturdayDisabled(ctx context.Context, calendarID string) (bool, error) {
	if s.calendars == nil {
		return false, nil
	}
	calendar, err := loadCalendar(ctx, s.calendars, calendarID)
	if err != nil {
		if errors.Is(err, appErrors.ErrCalendarNotFound) {
			return false, nil
		}
		return false, err
	}
	return calendar.DisableSaturdayClasses, nil
}

// termMetadata indexes the calendar's raw terms and their display metadata by id.
func (s *AggregationService) termMetadata(ctx context.Context, calendarID string) (map[string]models.Term, map[string]termMeta, error) {
	terms, err := s.terms.ListByCalendar(ctx, nil, calendarID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load terms")
	}
	byID := make(map[string]models.Term, len(terms))
	meta := make(map[string]termMeta, len(terms))
	for _, term := range terms {
		byID[term.ID] = term
		name := models.NormalizeTermName(term.Name)
		if name == "" {
			name = models.DisplayNameUnnamed
		}
		meta[term.ID] = termMeta{displayName: name, order: term.Order}
	}
	return byID, meta, nil
}

// lookupMeta resolves a referenced term; dangling references become Unnamed.
func lookupMeta(meta map[string]termMeta, id string) termMeta {
	if m, ok := meta[id]; ok {
		return m
	}
	return termMeta{displayName: models.DisplayNameUnnamed}
}

func termIDKey(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}
