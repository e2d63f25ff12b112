package postgres

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aevon-lab/rainfall-explorer/internal/core/rainfall"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAdapter_SaveRecordsUpsertsInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewAdapterFromDB(db)
	now := time.Date(2026, 2, 7, 10, 0, 0, 0, time.UTC)
	adapter.nowFn = func() time.Time { return now }

	records := []rainfall.Record{
		{Date: rainfall.Day(2020, 6, 10), RainfallMM: decimal.RequireFromString("12.5")},
		{Date: rainfall.Day(2020, 6, 11), RainfallMM: decimal.Zero},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(queryUpsertRecord))
	prep.ExpectExec().
		WithArgs("station-1", records[0].Date, records[0].RainfallMM, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs("station-1", records[1].Date, records[1].RainfallMM, now).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, adapter.SaveRecords(context.Background(), "station-1", records))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_SaveRecordsRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewAdapterFromDB(db)

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta(queryUpsertRecord)).
		ExpectExec().
		WithArgs("station-1", rainfall.Day(2020, 6, 10), decimal.NewFromInt(3), sqlmock.AnyArg()).
		WillReturnError(fmt.Errorf("constraint violation"))
	mock.ExpectRollback()

	err = adapter.SaveRecords(context.Background(), "station-1", []rainfall.Record{
		{Date: rainfall.Day(2020, 6, 10), RainfallMM: decimal.NewFromInt(3)},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "2020-06-10")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_SaveRecordsRequiresStation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewAdapterFromDB(db).SaveRecords(context.Background(), "", nil)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_LoadRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"obs_date", "rainfall_mm"}).
		AddRow(time.Date(2020, 6, 10, 0, 0, 0, 0, time.UTC), "12.5").
		AddRow(time.Date(2020, 6, 11, 0, 0, 0, 0, time.UTC), "0")

	mock.ExpectQuery(regexp.QuoteMeta(queryLoadRecords)).
		WithArgs("station-1").
		WillReturnRows(rows)

	records, err := NewAdapterFromDB(db).LoadRecords(context.Background(), "station-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, rainfall.Day(2020, 6, 10), records[0].Date)
	require.True(t, decimal.RequireFromString("12.5").Equal(records[0].RainfallMM))
	require.True(t, records[1].RainfallMM.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_LoadRecordsQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryLoadRecords)).
		WithArgs("station-1").
		WillReturnError(fmt.Errorf("connection reset"))

	_, err = NewAdapterFromDB(db).LoadRecords(context.Background(), "station-1")
	require.ErrorContains(t, err, "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ValidateSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewAdapterFromDB(db)

	mock.ExpectQuery(regexp.QuoteMeta(queryTableExists)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	require.NoError(t, adapter.ValidateSchema(context.Background()))

	mock.ExpectQuery(regexp.QuoteMeta(queryTableExists)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	require.ErrorContains(t, adapter.ValidateSchema(context.Background()), "does not exist")

	require.NoError(t, mock.ExpectationsWereMet())
}
