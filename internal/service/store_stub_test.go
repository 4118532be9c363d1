package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-calendar-api/internal/models"
)

// memoryStore backs the repository stubs of the calendar services.
type memoryStore struct {
	mu        sync.Mutex
	seq       int
	calendars map[string]models.Calendar
	terms     []models.Term
	days      []models.Day
}

func newMemoryStore() *memoryStore {
	return &memoryStore{calendars: map[string]models.Calendar{}}
}

func (m *memoryStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memoryStore) addCalendar(id string, disableSaturday bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calendars[id] = models.Calendar{ID: id, FiscalYear: 2025, Name: "2025年度", DisableSaturdayClasses: disableSaturday}
}

// seedTerm stores a term verbatim, bypassing normalization.
func (m *memoryStore) seedTerm(term models.Term) models.Term {
	m.mu.Lock()
	defer m.mu.Unlock()
	if term.ID == "" {
		term.ID = m.nextID("term")
	}
	if term.HolidayFlag == "" {
		term.HolidayFlag = models.HolidayFlagTeaching
	}
	m.terms = append(m.terms, term)
	return term
}

func (m *memoryStore) seedDay(day models.Day) models.Day {
	m.mu.Lock()
	defer m.mu.Unlock()
	if day.ID == "" {
		day.ID = m.nextID("day")
	}
	m.days = append(m.days, day)
	return day
}

func (m *memoryStore) termCount(calendarID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, term := range m.terms {
		if term.CalendarID == calendarID {
			n++
		}
	}
	return n
}

type calendarRepoStub struct{ store *memoryStore }

func (r calendarRepoStub) FindByID(ctx context.Context, id string) (*models.Calendar, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	calendar, ok := r.store.calendars[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &calendar, nil
}

func (r calendarRepoStub) Create(ctx context.Context, calendar *models.Calendar) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	calendar.ID = r.store.nextID("cal")
	r.store.calendars[calendar.ID] = *calendar
	return nil
}

func (r calendarRepoStub) Update(ctx context.Context, calendar *models.Calendar) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.calendars[calendar.ID] = *calendar
	return nil
}

type termRepoStub struct {
	store        *memoryStore
	createErr    error
	beforeCreate func()
}

func (r *termRepoStub) ListByCalendar(ctx context.Context, exec sqlx.ExtContext, calendarID string) ([]models.Term, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var terms []models.Term
	for _, term := range r.store.terms {
		if term.CalendarID == calendarID {
			terms = append(terms, term)
		}
	}
	return terms, nil
}

func (r *termRepoStub) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Term, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, term := range r.store.terms {
		if term.ID == id {
			found := term
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *termRepoStub) Create(ctx context.Context, exec sqlx.ExtContext, term *models.Term) error {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}
	if r.createErr != nil {
		return r.createErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	term.ID = r.store.nextID("term")
	r.store.terms = append(r.store.terms, *term)
	return nil
}

func (r *termRepoStub) Update(ctx context.Context, exec sqlx.ExtContext, term *models.Term) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.terms {
		if r.store.terms[i].ID == term.ID && r.store.terms[i].CalendarID == term.CalendarID {
			r.store.terms[i] = *term
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *termRepoStub) Delete(ctx context.Context, calendarID, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.terms {
		if r.store.terms[i].ID == id && r.store.terms[i].CalendarID == calendarID {
			r.store.terms = append(r.store.terms[:i], r.store.terms[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type dayRepoStub struct{ store *memoryStore }

func (r *dayRepoStub) FindByDate(ctx context.Context, exec sqlx.ExtContext, calendarID, date string) (*models.Day, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, day := range r.store.days {
		if day.CalendarID == calendarID && day.Date == date {
			found := day
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *dayRepoStub) Create(ctx context.Context, exec sqlx.ExtContext, day *models.Day) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	day.ID = r.store.nextID("day")
	r.store.days = append(r.store.days, *day)
	return nil
}

func (r *dayRepoStub) Update(ctx context.Context, exec sqlx.ExtContext, day *models.Day) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.days {
		if r.store.days[i].ID == day.ID {
			r.store.days[i] = *day
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *dayRepoStub) ListByTypes(ctx context.Context, calendarID string, types []models.DayType) ([]models.Day, error) {
	wanted := map[models.DayType]bool{}
	for _, t := range types {
		wanted[t] = true
	}
	return r.filter(calendarID, func(day models.Day) bool { return wanted[day.Type] }), nil
}

func (r *dayRepoStub) List(ctx context.Context, calendarID string, filter models.DayFilter) ([]models.Day, error) {
	return r.filter(calendarID, func(day models.Day) bool {
		if filter.From != "" && day.Date < filter.From {
			return false
		}
		if filter.To != "" && day.Date > filter.To {
			return false
		}
		return true
	}), nil
}

func (r *dayRepoStub) filter(calendarID string, keep func(models.Day) bool) []models.Day {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var days []models.Day
	for _, day := range r.store.days {
		if day.CalendarID == calendarID && keep(day) {
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

type refresherStub struct {
	mu    sync.Mutex
	calls []string
}

func (r *refresherStub) Refresh(ctx context.Context, calendarID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, calendarID)
}

func (r *refresherStub) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func intPtr(v int) *int {
	return &v
}
