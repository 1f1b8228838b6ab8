package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/simp-lee/fleetbase/internal/domain"
)

func newMockStore(t *testing.T) (*Store[widget], sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return New[widget](db, widgetHooks{}, WithName("widget")), mock
}

// Count and window must run inside one transaction so they observe the same
// snapshot.
func TestList_CountAndWindowShareTransaction(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "widgets"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT \* FROM "widgets" ORDER BY "widgets"\."id" LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color", "code", "shelf_id"}).
			AddRow(6, "f", nil, "W006", nil).
			AddRow(7, "g", "red", "W007", nil))
	mock.ExpectCommit()

	page, err := s.List(context.Background(), domain.QueryParams{PageNumber: 2, PageSize: 5})
	require.NoError(t, err)

	assert.Equal(t, int64(12), page.TotalItems())
	assert.Equal(t, 3, page.TotalPages())
	assert.Equal(t, []uint{6, 7}, ids(page.Items()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_PastLastPageSkipsWindowQuery(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "widgets"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectCommit()

	page, err := s.List(context.Background(), domain.QueryParams{PageNumber: 4, PageSize: 5})
	require.NoError(t, err)

	assert.Equal(t, 0, page.Len())
	assert.Equal(t, int64(3), page.TotalItems())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_WindowFailureRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "widgets"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT \* FROM "widgets"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := s.List(context.Background(), domain.QueryParams{})
	require.Error(t, err)

	assert.True(t, domain.IsInternal(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
