package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-calendar-api/internal/models"
)

var dayRowColumns = []string{"id", "calendar_id", "date", "type", "term_id", "description", "class_weekday", "class_order", "notification_reasons", "created_at", "updated_at"}

func TestDayRepositoryFindByDateMapsNullableColumns(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDayRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(dayRowColumns).
		AddRow("day-1", "cal-1", "2025-06-07", "CLASS", "term-1", nil, 3, 12, "{振替,時間割変更}", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_days WHERE calendar_id = $1 AND date = $2::date")).
		WithArgs("cal-1", "2025-06-07").
		WillReturnRows(rows)

	day, err := repo.FindByDate(context.Background(), nil, "cal-1", "2025-06-07")
	require.NoError(t, err)
	assert.Equal(t, models.DayTypeClass, day.Type)
	require.NotNil(t, day.TermID)
	assert.Equal(t, "term-1", *day.TermID)
	assert.Nil(t, day.Description)
	require.NotNil(t, day.ClassWeekday)
	assert.Equal(t, 3, *day.ClassWeekday)
	require.NotNil(t, day.ClassOrder)
	assert.Equal(t, 12, *day.ClassOrder)
	assert.Equal(t, []string{"振替", "時間割変更"}, day.NotificationReasons)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDayRepositoryListByTypes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDayRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(dayRowColumns).
		AddRow("day-1", "cal-1", "2025-06-02", "CLASS", nil, nil, nil, nil, "{}", now, now).
		AddRow("day-2", "cal-1", "2025-07-20", "CANCELLED", "term-2", "海の日", nil, nil, "{}", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_days WHERE calendar_id = $1 AND type = ANY($2) ORDER BY date ASC")).
		WithArgs("cal-1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	days, err := repo.ListByTypes(context.Background(), "cal-1", []models.DayType{models.DayTypeClass, models.DayTypeCancelled})
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Nil(t, days[0].TermID)
	assert.Nil(t, days[0].NotificationReasons)
	require.NotNil(t, days[1].Description)
	assert.Equal(t, "海の日", *days[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDayRepositoryListAppliesWindow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDayRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE calendar_id = $1 AND date >= $2::date AND date <= $3::date ORDER BY date ASC")).
		WithArgs("cal-1", "2025-04-01", "2025-04-30").
		WillReturnRows(sqlmock.NewRows(dayRowColumns))

	days, err := repo.List(context.Background(), "cal-1", models.DayFilter{From: "2025-04-01", To: "2025-04-30"})
	require.NoError(t, err)
	assert.Empty(t, days)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDayRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDayRepository(db)

	weekday := 3
	mock.ExpectExec(regexp.QuoteMeta("UPDATE calendar_days SET type = ")).
		WithArgs("CANCELLED", nil, nil, 3, nil, sqlmock.AnyArg(), sqlmock.AnyArg(), "day-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	day := &models.Day{ID: "day-1", CalendarID: "cal-1", Date: "2025-06-07", Type: models.DayTypeCancelled, ClassWeekday: &weekday}
	require.NoError(t, repo.Update(context.Background(), nil, day))
	assert.NoError(t, mock.ExpectationsWereMet())
}
