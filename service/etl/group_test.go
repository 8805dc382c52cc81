package etl

import (
	"dialog-faq-backend/dao"
	"dialog-faq-backend/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB 用sqlmock同时替换源库与业务库连接
func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	prevDB, prevSource := dao.DB, dao.SourceDB
	dao.DB, dao.SourceDB = gdb, gdb
	t.Cleanup(func() {
		dao.DB, dao.SourceDB = prevDB, prevSource
		conn.Close()
	})
	return mock
}

func TestProcessGroupSkipsExistingAndInsertsNew(t *testing.T) {
	mock := newMockDB(t)
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	first := start.Add(9 * time.Hour)

	mock.ExpectQuery("SELECT \\* FROM `people_customer_dialog` WHERE group_code = .* ORDER BY call_id, create_time, seq").
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_code", "call_id", "text", "source", "seq", "create_time"}).
			AddRow(1, "SW", "c-1", "水费太高", model.SourceCitizen, 1, first).
			AddRow(2, "SW", "c-1", "请提供户号", model.SourceAgent, 2, first.Add(time.Minute)).
			AddRow(3, "SW", "c-2", "水压不足", model.SourceCitizen, 1, first.Add(time.Hour)))

	mock.ExpectBegin()
	// c-1 已落库，预检查命中后跳过；c-2 新增
	mock.ExpectQuery("SELECT `id` FROM `prepared_conversations` WHERE call_id = .*").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("SELECT `id` FROM `prepared_conversations` WHERE call_id = .*").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `prepared_conversations`.*").
		WithArgs("SW", "c-2", "市民：水压不足", string(model.StatusUnprocessed), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	result, err := (&Service{}).processGroup("SW", start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, result.ConversationsTotal)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.SkippedExisting)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessGroupRerunInsertsNothing(t *testing.T) {
	mock := newMockDB(t)
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	first := start.Add(8 * time.Hour)

	mock.ExpectQuery("SELECT \\* FROM `people_customer_dialog` WHERE group_code = .* ORDER BY call_id, create_time, seq").
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_code", "call_id", "text", "source", "seq", "create_time"}).
			AddRow(1, "SW", "c-1", "水费太高", model.SourceCitizen, 1, first).
			AddRow(2, "SW", "c-2", "水压不足", model.SourceCitizen, 1, first.Add(time.Hour)))

	// 同一窗口重跑：两个call_id都已存在，只计数不写入
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `prepared_conversations` WHERE call_id = .*").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("SELECT `id` FROM `prepared_conversations` WHERE call_id = .*").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	result, err := (&Service{}).processGroup("SW", start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, result.ConversationsTotal)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 2, result.SkippedExisting)
	assert.NoError(t, mock.ExpectationsWereMet())
}
