package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-calendar-api/internal/models"
)

const termColumns = `id, calendar_id, name, short_name, sort_order, class_count, holiday_flag, created_at, updated_at`

// termRow mirrors the calendar_terms table. Numeric columns are DOUBLE
// PRECISION and may hold non-finite values written by older clients.
type termRow struct {
	ID          string          `db:"id"`
	CalendarID  string          `db:"calendar_id"`
	Name        string          `db:"name"`
	ShortName   sql.NullString  `db:"short_name"`
	SortOrder   sql.NullFloat64 `db:"sort_order"`
	ClassCount  sql.NullFloat64 `db:"class_count"`
	HolidayFlag sql.NullInt64   `db:"holiday_flag"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r termRow) toModel() models.Term {
	term := models.Term{
		ID:          r.ID,
		CalendarID:  r.CalendarID,
		Name:        r.Name,
		Order:       finiteOrNil(r.SortOrder),
		ClassCount:  finiteOrNil(r.ClassCount),
		HolidayFlag: models.HolidayFlagFromCode(r.HolidayFlag.Int64, r.HolidayFlag.Valid),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.ShortName.Valid {
		short := r.ShortName.String
		term.ShortName = &short
	}
	return term
}

func termRowFromModel(term *models.Term) termRow {
	row := termRow{
		ID:          term.ID,
		CalendarID:  term.CalendarID,
		Name:        term.Name,
		HolidayFlag: sql.NullInt64{Int64: int64(term.HolidayFlag.Code()), Valid: true},
		CreatedAt:   term.CreatedAt,
		UpdatedAt:   term.UpdatedAt,
	}
	if term.ShortName != nil {
		row.ShortName = sql.NullString{String: *term.ShortName, Valid: true}
	}
	if term.Order != nil {
		row.SortOrder = sql.NullFloat64{Float64: *term.Order, Valid: true}
	}
	if term.ClassCount != nil {
		row.ClassCount = sql.NullFloat64{Float64: *term.ClassCount, Valid: true}
	}
	return row
}

func finiteOrNil(v sql.NullFloat64) *float64 {
	if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
		return nil
	}
	f := v.Float64
	return &f
}

// TermRepository handles persistence for calendar terms.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository instantiates a term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

func (r *TermRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByCalendar returns every term of a calendar in insertion order. Names
// are returned as stored; sanitising is left to the caller.
func (r *TermRepository) ListByCalendar(ctx context.Context, exec sqlx.ExtContext, calendarID string) ([]models.Term, error) {
	query := fmt.Sprintf(`SELECT %s FROM calendar_terms WHERE calendar_id = $1 ORDER BY created_at ASC, id ASC`, termColumns)
	var rows []termRow
	if err := sqlx.SelectContext(ctx, r.exec(exec), &rows, query, calendarID); err != nil {
		return nil, fmt.Errorf("list calendar terms: %w", err)
	}
	terms := make([]models.Term, 0, len(rows))
	for _, row := range rows {
		terms = append(terms, row.toModel())
	}
	return terms, nil
}

// FindByID loads a term regardless of owning calendar.
func (r *TermRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Term, error) {
	query := fmt.Sprintf(`SELECT %s FROM calendar_terms WHERE id = $1`, termColumns)
	var row termRow
	if err := sqlx.GetContext(ctx, r.exec(exec), &row, query, id); err != nil {
		return nil, err
	}
	term := row.toModel()
	return &term, nil
}

// Create inserts a new term record.
func (r *TermRepository) Create(ctx context.Context, exec sqlx.ExtContext, term *models.Term) error {
	if term.ID == "" {
		term.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if term.CreatedAt.IsZero() {
		term.CreatedAt = now
	}
	term.UpdatedAt = now

	const query = `INSERT INTO calendar_terms (id, calendar_id, name, short_name, sort_order, class_count, holiday_flag, created_at, updated_at)
VALUES (:id, :calendar_id, :name, :short_name, :sort_order, :class_count, :holiday_flag, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, termRowFromModel(term)); err != nil {
		return fmt.Errorf("create term: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a term.
func (r *TermRepository) Update(ctx context.Context, exec sqlx.ExtContext, term *models.Term) error {
	term.UpdatedAt = time.Now().UTC()
	const query = `UPDATE calendar_terms SET name = :name, short_name = :short_name, sort_order = :sort_order, class_count = :class_count,
holiday_flag = :holiday_flag, updated_at = :updated_at WHERE id = :id AND calendar_id = :calendar_id`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, termRowFromModel(term)); err != nil {
		return fmt.Errorf("update term: %w", err)
	}
	return nil
}

// Delete removes a term owned by calendarID. It reports whether a row was removed.
func (r *TermRepository) Delete(ctx context.Context, calendarID, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_terms WHERE id = $1 AND calendar_id = $2`, id, calendarID)
	if err != nil {
		return false, fmt.Errorf("delete term: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete term rows affected: %w", err)
	}
	return affected > 0, nil
}
