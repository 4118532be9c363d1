package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/academic-calendar-api/internal/models"
)

const dayColumns = `id, calendar_id, to_char(date, 'YYYY-MM-DD') AS date, type, term_id, description, class_weekday, class_order, notification_reasons, created_at, updated_at`

type dayRow struct {
	ID                  string         `db:"id"`
	CalendarID          string         `db:"calendar_id"`
	Date                string         `db:"date"`
	Type                string         `db:"type"`
	TermID              sql.NullString `db:"term_id"`
	Description         sql.NullString `db:"description"`
	ClassWeekday        sql.NullInt64  `db:"class_weekday"`
	ClassOrder          sql.NullInt64  `db:"class_order"`
	NotificationReasons pq.StringArray `db:"notification_reasons"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (r dayRow) toModel() models.Day {
	day := models.Day{
		ID:          r.ID,
		CalendarID:  r.CalendarID,
		Date:        r.Date,
		Type:        models.DayType(r.Type),
		TermID:      nullStringPtr(r.TermID),
		Description: nullStringPtr(r.Description),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.ClassWeekday.Valid {
		w := int(r.ClassWeekday.Int64)
		day.ClassWeekday = &w
	}
	if r.ClassOrder.Valid {
		o := int(r.ClassOrder.Int64)
		day.ClassOrder = &o
	}
	if len(r.NotificationReasons) > 0 {
		day.NotificationReasons = []string(r.NotificationReasons)
	}
	return day
}

func dayRowFromModel(day *models.Day) dayRow {
	row := dayRow{
		ID:                  day.ID,
		CalendarID:          day.CalendarID,
		Date:                day.Date,
		Type:                string(day.Type),
		NotificationReasons: pq.StringArray(day.NotificationReasons),
		CreatedAt:           day.CreatedAt,
		UpdatedAt:           day.UpdatedAt,
	}
	if row.NotificationReasons == nil {
		row.NotificationReasons = pq.StringArray{}
	}
	if day.TermID != nil {
		row.TermID = sql.NullString{String: *day.TermID, Valid: true}
	}
	if day.Description != nil {
		row.Description = sql.NullString{String: *day.Description, Valid: true}
	}
	if day.ClassWeekday != nil {
		row.ClassWeekday = sql.NullInt64{Int64: int64(*day.ClassWeekday), Valid: true}
	}
	if day.ClassOrder != nil {
		row.ClassOrder = sql.NullInt64{Int64: int64(*day.ClassOrder), Valid: true}
	}
	return row
}

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// DayRepository persists per-date classifications.
type DayRepository struct {
	db *sqlx.DB
}

// NewDayRepository constructs a day repository.
func NewDayRepository(db *sqlx.DB) *DayRepository {
	return &DayRepository{db: db}
}

func (r *DayRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByDate loads the day of calendarID on date (YYYY-MM-DD).
func (r *DayRepository) FindByDate(ctx context.Context, exec sqlx.ExtContext, calendarID, date string) (*models.Day, error) {
	query := fmt.Sprintf(`SELECT %s FROM calendar_days WHERE calendar_id = $1 AND date = $2::date`, dayColumns)
	var row dayRow
	if err := sqlx.GetContext(ctx, r.exec(exec), &row, query, calendarID, date); err != nil {
		return nil, err
	}
	day := row.toModel()
	return &day, nil
}

// Create inserts a day record.
func (r *DayRepository) Create(ctx context.Context, exec sqlx.ExtContext, day *models.Day) error {
	if day.ID == "" {
		day.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if day.CreatedAt.IsZero() {
		day.CreatedAt = now
	}
	day.UpdatedAt = now

	const query = `INSERT INTO calendar_days (id, calendar_id, date, type, term_id, description, class_weekday, class_order, notification_reasons, created_at, updated_at)
VALUES (:id, :calendar_id, CAST(:date AS date), :type, :term_id, :description, :class_weekday, :class_order, :notification_reasons, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, dayRowFromModel(day)); err != nil {
		return fmt.Errorf("create calendar day: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a day record.
func (r *DayRepository) Update(ctx context.Context, exec sqlx.ExtContext, day *models.Day) error {
	day.UpdatedAt = time.Now().UTC()
	const query = `UPDATE calendar_days SET type = :type, term_id = :term_id, description = :description, class_weekday = :class_weekday,
class_order = :class_order, notification_reasons = :notification_reasons, updated_at = :updated_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, dayRowFromModel(day)); err != nil {
		return fmt.Errorf("update calendar day: %w", err)
	}
	return nil
}

// ListByTypes returns the calendar's days having one of the given types, date ascending.
func (r *DayRepository) ListByTypes(ctx context.Context, calendarID string, types []models.DayType) ([]models.Day, error) {
	values := make([]string, len(types))
	for i, t := range types {
		values[i] = string(t)
	}
	query := fmt.Sprintf(`SELECT %s FROM calendar_days WHERE calendar_id = $1 AND type = ANY($2) ORDER BY date ASC`, dayColumns)
	return r.selectDays(ctx, query, calendarID, pq.Array(values))
}

// List returns the calendar's days within the optional inclusive window, date ascending.
func (r *DayRepository) List(ctx context.Context, calendarID string, filter models.DayFilter) ([]models.Day, error) {
	where := []string{"calendar_id = $1"}
	args := []interface{}{calendarID}
	if filter.From != "" {
		where = append(where, fmt.Sprintf("date >= $%d::date", len(args)+1))
		args = append(args, filter.From)
	}
	if filter.To != "" {
		where = append(where, fmt.Sprintf("date <= $%d::date", len(args)+1))
		args = append(args, filter.To)
	}
	query := fmt.Sprintf(`SELECT %s FROM calendar_days WHERE %s ORDER BY date ASC`, dayColumns, strings.Join(where, " AND "))
	return r.selectDays(ctx, query, args...)
}

func (r *DayRepository) selectDays(ctx context.Context, query string, args ...interface{}) ([]models.Day, error) {
	var rows []dayRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list calendar days: %w", err)
	}
	days := make([]models.Day, 0, len(rows))
	for _, row := range rows {
		days = append(days, row.toModel())
	}
	return days, nil
}
