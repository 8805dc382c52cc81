package controller

import (
	"dialog-faq-backend/config"
	"dialog-faq-backend/dao"
	"dialog-faq-backend/service/jobs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
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

func setupAdminConfig(t *testing.T) {
	t.Helper()
	prev := config.Cfg
	config.Cfg = &config.Config{
		Scheduler: config.SchedulerConfig{
			Timezone:      "UTC",
			FAQMaxWorkers: 2,
		},
	}
	t.Cleanup(func() { config.Cfg = prev })
}

// waitForJobDone 后台任务结束后同类任务即可重新登记
func waitForJobDone(t *testing.T, kind string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if handle, err := jobs.Default.Begin(kind); err == nil {
			handle.Done()
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("background job did not finish in time")
}

func TestTriggerExtractionRunsCompareSyncAfterwards(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupAdminConfig(t)
	mock := newMockDB(t)

	// 无待提取对话、无启用场景：两个阶段都只发起查询即返回，
	// 顺序期望保证提取之后串联了对比同步
	mock.ExpectQuery("SELECT `id` FROM `prepared_conversations` WHERE status = .*").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT \\* FROM `scenarios` WHERE is_active = .*").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	router := gin.New()
	router.POST("/admin/extraction", TriggerExtraction)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/extraction", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	waitForJobDone(t, jobs.KindExtraction)
	assert.NoError(t, mock.ExpectationsWereMet())
}
