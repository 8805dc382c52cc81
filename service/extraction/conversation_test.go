package extraction

import (
	"dialog-faq-backend/dao"
	"dialog-faq-backend/model"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB 用sqlmock替换业务库连接
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

func expectConversationRow(mock sqlmock.Sqlmock, id int64, fullText string) {
	mock.ExpectQuery("SELECT \\* FROM `prepared_conversations` WHERE id = .*").
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_code", "call_id", "full_text", "status"}).
			AddRow(id, "SW", "c-1", fullText, string(model.StatusUnprocessed)))
}

func expectStatusUpdate(mock sqlmock.Sqlmock, id int64, status model.ConversationStatus) {
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `prepared_conversations` SET .*status.*").
		WithArgs(string(status), id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestProcessConversationEmptyTextMarksNoFAQ(t *testing.T) {
	mock := newMockDB(t)
	expectConversationRow(mock, 7, "  \n ")
	expectStatusUpdate(mock, 7, model.StatusProcessing)
	expectStatusUpdate(mock, 7, model.StatusProcessedNoFAQ)

	calls := 0
	s := &Service{callAico: func(query, url string) (string, error) {
		calls++
		return "", nil
	}}

	created, err := s.processConversation(7)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Zero(t, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessConversationNegativeReplyMarksNoFAQ(t *testing.T) {
	mock := newMockDB(t)
	expectConversationRow(mock, 7, "市民：水费太高\n客服：请提供户号")
	expectStatusUpdate(mock, 7, model.StatusProcessing)
	expectStatusUpdate(mock, 7, model.StatusProcessedNoFAQ)

	s := &Service{callAico: func(query, url string) (string, error) {
		return " 否 \n", nil
	}}

	created, err := s.processConversation(7)
	require.NoError(t, err)
	assert.False(t, created)

	// 不落库待审核FAQ，也没有第二次终态写入
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessConversationChatbotErrorMarksFailed(t *testing.T) {
	mock := newMockDB(t)
	expectConversationRow(mock, 7, "市民：水费太高")
	expectStatusUpdate(mock, 7, model.StatusProcessing)
	expectStatusUpdate(mock, 7, model.StatusFailed)

	s := &Service{callAico: func(query, url string) (string, error) {
		return "", errors.New("connection refused")
	}}

	created, err := s.processConversation(7)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessConversationSkipsAlreadyClaimed(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `prepared_conversations` WHERE id = .*").
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_code", "call_id", "full_text", "status"}).
			AddRow(7, "SW", "c-1", "市民：水费太高", string(model.StatusProcessing)))

	calls := 0
	s := &Service{callAico: func(query, url string) (string, error) {
		calls++
		return "", nil
	}}

	created, err := s.processConversation(7)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Zero(t, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessConversationCreatesPendingFAQ(t *testing.T) {
	setupReviewConfig(t)
	mock := newMockDB(t)
	expectConversationRow(mock, 9, "市民：如何办理过户？\n客服：携带双方身份证到营业厅。")
	expectStatusUpdate(mock, 9, model.StatusProcessing)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `pending_faqs`.*").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	expectStatusUpdate(mock, 9, model.StatusCompleted)

	s := &Service{reviewRetryAttempts: 1, reviewRetryDelay: 0}
	s.callAico = func(query, url string) (string, error) {
		if url == "" {
			return "问题：如何办理过户？\n答案：携带双方身份证到营业厅办理。", nil
		}
		return "approved", nil
	}

	created, err := s.processConversation(9)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}
