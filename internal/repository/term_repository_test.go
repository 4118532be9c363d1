package repository

import (
	"context"
	"database/sql"
	"math"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-calendar-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var termRowColumns = []string{"id", "calendar_id", "name", "short_name", "sort_order", "class_count", "holiday_flag", "created_at", "updated_at"}

func TestTermRepositoryListByCalendarSanitisesNumbersAndFlags(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(termRowColumns).
		AddRow("term-1", "cal-1", "前期", "前", 1.0, 30.0, 2, now, now).
		AddRow("term-2", "cal-1", "夏休み", nil, math.NaN(), math.Inf(1), 1, now, now).
		AddRow("term-3", "cal-1", "後期", nil, nil, nil, 3, now, now).
		AddRow("term-4", "cal-1", "冬休み", nil, 4.0, nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_terms WHERE calendar_id = $1")).
		WithArgs("cal-1").
		WillReturnRows(rows)

	terms, err := repo.ListByCalendar(context.Background(), nil, "cal-1")
	require.NoError(t, err)
	require.Len(t, terms, 4)

	require.NotNil(t, terms[0].Order)
	assert.Equal(t, 1.0, *terms[0].Order)
	require.NotNil(t, terms[0].ShortName)
	assert.Equal(t, "前", *terms[0].ShortName)
	assert.Equal(t, models.HolidayFlagTeaching, terms[0].HolidayFlag)

	assert.Nil(t, terms[1].Order)
	assert.Nil(t, terms[1].ClassCount)
	assert.Equal(t, models.HolidayFlagVacation, terms[1].HolidayFlag)

	assert.Equal(t, models.HolidayFlagTeaching, terms[2].HolidayFlag, "legacy code reads as teaching")
	assert.Equal(t, models.HolidayFlagTeaching, terms[3].HolidayFlag)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepositoryCreateWritesStoreCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	order := 3.0
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO calendar_terms")).
		WithArgs(sqlmock.AnyArg(), "cal-1", "夏休み", nil, order, nil, 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	term := &models.Term{CalendarID: "cal-1", Name: "夏休み", Order: &order, HolidayFlag: models.HolidayFlagVacation}
	require.NoError(t, repo.Create(context.Background(), nil, term))
	assert.NotEmpty(t, term.ID)
	assert.False(t, term.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_terms WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), nil, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepositoryDeleteReportsOwnership(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM calendar_terms WHERE id = $1 AND calendar_id = $2")).
		WithArgs("term-1", "cal-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM calendar_terms WHERE id = $1 AND calendar_id = $2")).
		WithArgs("term-1", "cal-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "cal-1", "term-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), "cal-2", "term-1")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
