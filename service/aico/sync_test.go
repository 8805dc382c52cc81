package aico

import (
	"dialog-faq-backend/config"
	"dialog-faq-backend/model"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVendor 可编程的AICO客户端stub，记录调用序列
type fakeVendor struct {
	calls []string

	listResults [][]FileInfo
	listErrs    []error
	listCount   int

	deletedIDs   []int
	uploadedName string
	uploadedBody []byte
	uploadErr    error
	onlineErr    error
}

func (f *fakeVendor) GenerateToken(username string, userID int) (string, error) {
	f.calls = append(f.calls, "token")
	return "tok", nil
}

func (f *fakeVendor) SearchProject(token, projectName string) (int, error) {
	f.calls = append(f.calls, "project")
	return 11, nil
}

func (f *fakeVendor) SearchKB(token string, pid int, kbName string) (int, error) {
	f.calls = append(f.calls, "kb")
	return 22, nil
}

func (f *fakeVendor) ListFiles(token string, pid, kbID int, title string) ([]FileInfo, error) {
	f.calls = append(f.calls, "list")
	i := f.listCount
	f.listCount++
	if i < len(f.listErrs) && f.listErrs[i] != nil {
		return nil, f.listErrs[i]
	}
	if i < len(f.listResults) {
		return f.listResults[i], nil
	}
	return nil, nil
}

func (f *fakeVendor) DeleteFiles(token string, pid, kbID, userID int, fileIDs []int) error {
	f.calls = append(f.calls, "delete")
	f.deletedIDs = fileIDs
	return nil
}

func (f *fakeVendor) UploadFile(token string, pid, kbID int, fileName string, content []byte) error {
	f.calls = append(f.calls, "upload")
	f.uploadedName = fileName
	f.uploadedBody = content
	return f.uploadErr
}

func (f *fakeVendor) Online(token string, pid, kbID int) error {
	f.calls = append(f.calls, "online")
	return f.onlineErr
}

// setupSyncConfig 当前主机与场景主机不一致，禁用缓存写入以免触碰数据库
func setupSyncConfig(t *testing.T) {
	t.Helper()
	prev := config.Cfg
	config.Cfg = &config.Config{
		Aico: config.AicoConfig{Host: "10.0.0.20"},
	}
	t.Cleanup(func() { config.Cfg = prev })
}

func newTestOrchestrator(vendor *fakeVendor) *Orchestrator {
	return &Orchestrator{
		client:       vendor,
		pollInterval: time.Millisecond,
		now:          func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
}

func testScenario() *model.Scenario {
	return &model.Scenario{
		ID:           1,
		ScenarioCode: "SW",
		IsActive:     true,
		AicoUsername: "sync_user",
		AicoUserID:   42,
		AicoHost:     "10.0.9.9",
	}
}

func fileWithStatus(id int, name string, status int) FileInfo {
	s := FlexInt(status)
	return FileInfo{ID: FlexInt(id), FileName: name, SliceStatus: &s}
}

func TestRunForItemsSkipsWhenEmptyAndNotAllowed(t *testing.T) {
	setupSyncConfig(t)
	vendor := &fakeVendor{}
	s := testScenario()

	result, err := newTestOrchestrator(vendor).RunForItems(s, s, nil, "run-1", RunOptions{
		AllowEmpty:  false,
		SkipMessage: "No active knowledge items to sync.",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, result.Status)
	assert.Empty(t, vendor.calls)
}

func TestRunForItemsEmptyAllowedCleansUpOnly(t *testing.T) {
	setupSyncConfig(t)
	vendor := &fakeVendor{
		listResults: [][]FileInfo{{
			fileWithStatus(10, "SW_knowledge_20250101000000.csv", 3),
			fileWithStatus(11, "other_file.csv", 3),
		}},
	}
	s := testScenario()

	result, err := newTestOrchestrator(vendor).RunForItems(s, s, nil, "run-2", RunOptions{
		AllowEmpty:  true,
		SkipMessage: "No pending FAQs to sync.",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Contains(t, result.Message, "Cleared previous sync files.")

	// 只删除本系统前缀的文件，不上传也不上线
	assert.Equal(t, []int{10}, vendor.deletedIDs)
	assert.Equal(t, []string{"token", "project", "kb", "list", "delete"}, vendor.calls)
}

func TestRunForItemsFullFlow(t *testing.T) {
	setupSyncConfig(t)
	uploaded := "SW_knowledge_20250310120000.csv"
	vendor := &fakeVendor{
		listResults: [][]FileInfo{
			{}, // cleanup：无历史文件
			{fileWithStatus(30, uploaded, 1)}, // appearance
			{fileWithStatus(30, uploaded, 1)}, // split轮询：处理中
			{fileWithStatus(30, uploaded, 3)}, // split轮询：就绪
		},
	}
	s := testScenario()

	items := []QAPair{
		{Question: "如何查询水费？", Answer: "登录掌上营业厅查询。"},
		{Question: "水压不足怎么办", Answer: "联系辖区供水所"},
	}
	result, err := newTestOrchestrator(vendor).RunForItems(s, s, items, "run-3", RunOptions{SourceLabel: "knowledge items"})

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 2, result.Items)

	assert.Equal(t, uploaded, vendor.uploadedName)
	body := string(vendor.uploadedBody)
	assert.True(t, strings.HasPrefix(body, "question,answer\n"))
	assert.Contains(t, body, "如何查询水费？,登录掌上营业厅查询。")

	assert.Equal(t, []string{"token", "project", "kb", "list", "upload", "list", "list", "list", "online"}, vendor.calls)
}

func TestRunForItemsSplitFailure(t *testing.T) {
	setupSyncConfig(t)
	uploaded := "SW_knowledge_20250310120000.csv"
	vendor := &fakeVendor{
		listResults: [][]FileInfo{
			{},
			{fileWithStatus(30, uploaded, 1)},
			{fileWithStatus(30, uploaded, 4)},
		},
	}
	s := testScenario()

	_, err := newTestOrchestrator(vendor).RunForItems(s, s, []QAPair{{Question: "q", Answer: "a"}}, "run-4", RunOptions{})

	require.Error(t, err)
	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, "run-4", syncErr.RunID)
	assert.Contains(t, syncErr.Message, "split failed")
}

func TestRunForItemsCleanupFallsBackToPrefixListing(t *testing.T) {
	setupSyncConfig(t)
	vendor := &fakeVendor{
		listErrs: []error{errors.New("unfiltered listing rejected")},
		listResults: [][]FileInfo{
			nil,
			{fileWithStatus(10, "SW_knowledge_20250101000000.csv", 3)},
		},
	}
	s := testScenario()

	result, err := newTestOrchestrator(vendor).RunForItems(s, s, nil, "run-5", RunOptions{AllowEmpty: true})

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, []int{10}, vendor.deletedIDs)
}

func TestEnsureTokenUsesFreshCache(t *testing.T) {
	setupSyncConfig(t)

	// 场景主机与当前主机一致，缓存可信
	expires := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	s := testScenario()
	s.AicoHost = "10.0.0.20"
	s.AicoCache.Token = "cached-tok"
	s.AicoCache.TokenExpiresAt = &expires

	vendor := &fakeVendor{}
	token, err := newTestOrchestrator(vendor).ensureToken(s, "run-6")

	require.NoError(t, err)
	assert.Equal(t, "cached-tok", token)
	assert.Empty(t, vendor.calls)
}

func TestEnsureTokenIgnoresCacheFromOtherHost(t *testing.T) {
	setupSyncConfig(t)

	expires := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	s := testScenario()
	s.AicoCache.Token = "stale-tok"
	s.AicoCache.TokenExpiresAt = &expires

	vendor := &fakeVendor{}
	token, err := newTestOrchestrator(vendor).ensureToken(s, "run-7")

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, []string{"token"}, vendor.calls)
}

func TestBuildCSVFile(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	fileName, content := buildCSVFile("SW", []QAPair{
		{Question: "含,逗号的问题", Answer: "答案"},
	}, now)

	assert.Equal(t, "SW_knowledge_20250310120000.csv", fileName)
	assert.Equal(t, "question,answer\n\"含,逗号的问题\",答案\n", string(content))
}
