package aico

import (
	"bytes"
	"dialog-faq-backend/config"
	"dialog-faq-backend/dao"
	"dialog-faq-backend/model"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	// token签发后按2小时有效估算，留5分钟余量避免临界过期
	tokenValidity         = 2 * time.Hour
	tokenFreshnessMargin  = 5 * time.Minute
	appearancePollRetries = 30
	splitPollRetries      = 60
	defaultPollInterval   = 2 * time.Second

	// 切分状态码：3完成、4失败，其余继续轮询
	splitStatusReady  = 3
	splitStatusFailed = 4
)

const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// QAPair 待同步的一条问答
type QAPair struct {
	Question string
	Answer   string
}

// RunResult 一次同步运行的结果，不落库
type RunResult struct {
	ScenarioID int64  `json:"scenario_id"`
	Items      int    `json:"items"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// RunOptions 控制空数据集的处理方式与结果文案
type RunOptions struct {
	AllowEmpty  bool
	SourceLabel string
	SkipMessage string
}

type vendorClient interface {
	GenerateToken(username string, userID int) (string, error)
	SearchProject(token, projectName string) (int, error)
	SearchKB(token string, pid int, kbName string) (int, error)
	ListFiles(token string, pid, kbID int, title string) ([]FileInfo, error)
	DeleteFiles(token string, pid, kbID, userID int, fileIDs []int) error
	UploadFile(token string, pid, kbID int, fileName string, content []byte) error
	Online(token string, pid, kbID int) error
}

// Orchestrator AICO同步编排器：token/项目/知识库解析、清理、上传、
// 切分轮询、上线，全流程可幂等重跑
type Orchestrator struct {
	client       vendorClient
	pollInterval time.Duration
	now          func() time.Time
}

func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		client:       NewClient(),
		pollInterval: defaultPollInterval,
		now:          time.Now,
	}
}

// RunForScenario 单场景同步：同步该场景下全部启用的知识条目
func (o *Orchestrator) RunForScenario(scenarioID int64, runID string) (*RunResult, error) {
	slog.Info("Sync start", "run_id", runID, "scenario_id", scenarioID)

	scenario, err := dao.GetScenarioByID(scenarioID)
	if err != nil {
		return nil, wrapSyncError(runID, err, "failed to load scenario %d", scenarioID)
	}
	if scenario == nil {
		return nil, syncErrorf(runID, "scenario %d not found", scenarioID)
	}
	if !scenario.IsActive {
		return nil, syncErrorf(runID, "scenario %d is inactive", scenarioID)
	}

	items, err := dao.GetActiveKnowledgeItems(scenarioID)
	if err != nil {
		return nil, wrapSyncError(runID, err, "failed to load knowledge items")
	}
	pairs := make([]QAPair, 0, len(items))
	for _, item := range items {
		pairs = append(pairs, QAPair{Question: item.Question, Answer: item.Answer})
	}

	aicoScenario, err := SelectAicoScenario(scenario)
	if err != nil {
		return nil, wrapSyncError(runID, err, "failed to resolve aico scenario")
	}

	return o.RunForItems(scenario, aicoScenario, pairs, runID, RunOptions{
		AllowEmpty:  false,
		SourceLabel: "knowledge items",
		SkipMessage: "No active knowledge items to sync.",
	})
}

// RunForItems 同步执行核心，单场景同步与对比同步共用。
// 失败前已写入的缓存字段（token/pid/kb_id）不回滚，它们独立于本次运行结果。
func (o *Orchestrator) RunForItems(scenario, aicoScenario *model.Scenario, items []QAPair, runID string, opts RunOptions) (*RunResult, error) {
	startedAt := time.Now()

	if len(items) == 0 && !opts.AllowEmpty {
		slog.Info("Sync skipped: no items", "run_id", runID, "elapsed_ms", elapsedMS(startedAt))
		return &RunResult{
			ScenarioID: scenario.ID,
			Status:     StatusSkipped,
			Message:    opts.SkipMessage,
		}, nil
	}

	slog.Info("Loaded sync items",
		"run_id", runID,
		"count", len(items),
		"source", opts.SourceLabel,
		"scenario_code", scenario.ScenarioCode,
	)
	if aicoScenario.ID != scenario.ID {
		slog.Info("Using AICO config from delegate scenario",
			"run_id", runID,
			"aico_scenario_id", aicoScenario.ID,
			"aico_scenario_code", aicoScenario.ScenarioCode,
			"aico_host", aicoScenario.AicoHost,
		)
	}

	token, err := o.ensureToken(aicoScenario, runID)
	if err != nil {
		return nil, err
	}
	pid, err := o.ensurePID(aicoScenario, token, runID)
	if err != nil {
		return nil, err
	}
	kbID, err := o.ensureKBID(aicoScenario, token, pid, runID)
	if err != nil {
		return nil, err
	}
	slog.Info("Resolved AICO context", "run_id", runID, "pid", pid, "kb_id", kbID)

	// 先删后增：上传前清理历史同步文件，即使本次无新数据也要清理
	stepStarted := time.Now()
	if err := o.cleanupOldFiles(token, pid, kbID, scenario.ScenarioCode, aicoScenario.AicoUserID, runID); err != nil {
		return nil, err
	}
	slog.Info("Step: cleanup old files done", "run_id", runID, "elapsed_ms", elapsedMS(stepStarted))

	if len(items) == 0 {
		slog.Info("Sync complete: no items to upload", "run_id", runID, "elapsed_ms", elapsedMS(startedAt))
		return &RunResult{
			ScenarioID: scenario.ID,
			Status:     StatusSuccess,
			Message:    opts.SkipMessage + " Cleared previous sync files.",
		}, nil
	}

	fileName, content := buildCSVFile(scenario.ScenarioCode, items, o.now())
	slog.Info("Built CSV export", "run_id", runID, "file_name", fileName, "bytes", len(content))

	stepStarted = time.Now()
	if err := o.client.UploadFile(token, pid, kbID, fileName, content); err != nil {
		return nil, wrapSyncError(runID, err, "upload failed")
	}
	slog.Info("Step: upload file done", "run_id", runID, "elapsed_ms", elapsedMS(stepStarted))

	stepStarted = time.Now()
	fileID, err := o.waitForFileAppearance(token, pid, kbID, fileName, runID)
	if err != nil {
		return nil, err
	}
	slog.Info("Step: wait file appearance done", "run_id", runID, "file_id", fileID, "elapsed_ms", elapsedMS(stepStarted))

	stepStarted = time.Now()
	if err := o.waitForSplitComplete(token, pid, kbID, fileName, runID); err != nil {
		return nil, err
	}
	slog.Info("Step: wait split complete done", "run_id", runID, "elapsed_ms", elapsedMS(stepStarted))

	stepStarted = time.Now()
	if err := o.client.Online(token, pid, kbID); err != nil {
		return nil, wrapSyncError(runID, err, "online failed")
	}
	slog.Info("Step: online all done", "run_id", runID, "elapsed_ms", elapsedMS(stepStarted))

	slog.Info("Sync success", "run_id", runID, "items", len(items), "elapsed_ms", elapsedMS(startedAt))
	return &RunResult{
		ScenarioID: scenario.ID,
		Items:      len(items),
		Status:     StatusSuccess,
		Message:    fmt.Sprintf("Synced %d items to AICO.", len(items)),
	}, nil
}

// cacheEnabled 仅当场景绑定的主机与当前配置的AICO主机一致时，
// 缓存字段才可信且可写
func cacheEnabled(scenario *model.Scenario) bool {
	scenarioHost := strings.TrimSpace(scenario.AicoHost)
	currentHost := strings.TrimSpace(config.Cfg.Aico.Host)
	return scenarioHost != "" && scenarioHost == currentHost
}

func (o *Orchestrator) ensureToken(scenario *model.Scenario, runID string) (string, error) {
	enabled := cacheEnabled(scenario)
	if enabled && scenario.AicoCache.Token != "" && scenario.AicoCache.TokenExpiresAt != nil {
		if scenario.AicoCache.TokenExpiresAt.Sub(o.now()) > tokenFreshnessMargin {
			return scenario.AicoCache.Token, nil
		}
	}

	slog.Info("Step: generate token", "run_id", runID, "host", config.Cfg.Aico.Host)
	token, err := o.client.GenerateToken(scenario.AicoUsername, scenario.AicoUserID)
	if err != nil {
		return "", wrapSyncError(runID, err, "token generation failed")
	}
	expiresAt := o.now().Add(tokenValidity)

	if enabled {
		if err := dao.UpdateScenarioAicoToken(scenario.ID, token, expiresAt); err != nil {
			return "", wrapSyncError(runID, err, "failed to persist token cache")
		}
		scenario.AicoCache.Token = token
		scenario.AicoCache.TokenExpiresAt = &expiresAt
	}
	return token, nil
}

func (o *Orchestrator) ensurePID(scenario *model.Scenario, token, runID string) (int, error) {
	enabled := cacheEnabled(scenario)
	if enabled && scenario.AicoCache.PID != 0 {
		return scenario.AicoCache.PID, nil
	}

	slog.Info("Step: resolve pid", "run_id", runID, "project_name", scenario.AicoProjectName)
	pid, err := o.client.SearchProject(token, scenario.AicoProjectName)
	if err != nil {
		return 0, wrapSyncError(runID, err, "project resolution failed")
	}

	if enabled {
		if err := dao.UpdateScenarioAicoPID(scenario.ID, pid); err != nil {
			return 0, wrapSyncError(runID, err, "failed to persist pid cache")
		}
		scenario.AicoCache.PID = pid
	}
	return pid, nil
}

func (o *Orchestrator) ensureKBID(scenario *model.Scenario, token string, pid int, runID string) (int, error) {
	enabled := cacheEnabled(scenario)
	if enabled && scenario.AicoCache.KBID != 0 {
		return scenario.AicoCache.KBID, nil
	}

	slog.Info("Step: resolve kb_id", "run_id", runID, "kb_name", scenario.AicoKBName, "pid", pid)
	kbID, err := o.client.SearchKB(token, pid, scenario.AicoKBName)
	if err != nil {
		return 0, wrapSyncError(runID, err, "kb resolution failed")
	}

	if enabled {
		if err := dao.UpdateScenarioAicoKBID(scenario.ID, kbID); err != nil {
			return 0, wrapSyncError(runID, err, "failed to persist kb_id cache")
		}
		scenario.AicoCache.KBID = kbID
	}
	return kbID, nil
}

// cleanupOldFiles 删除符合本系统命名规则的历史同步文件。
// 全量列表被拒绝时退化为按前缀过滤查询。只删除本系统前缀的文件。
func (o *Orchestrator) cleanupOldFiles(token string, pid, kbID int, scenarioCode string, userID int, runID string) error {
	prefix := scenarioCode + "_knowledge_"

	candidates, err := o.client.ListFiles(token, pid, kbID, "")
	if err != nil {
		candidates, err = o.client.ListFiles(token, pid, kbID, prefix)
		if err != nil {
			return wrapSyncError(runID, err, "file listing failed during cleanup")
		}
	}

	var fileIDs []int
	for _, f := range candidates {
		if strings.HasPrefix(f.FileName, prefix) {
			fileIDs = append(fileIDs, int(f.ID))
		}
	}
	if len(fileIDs) == 0 {
		slog.Info("No previous sync files to delete", "run_id", runID, "scenario_code", scenarioCode, "kb_id", kbID)
		return nil
	}

	slog.Info("Deleting previous sync files", "run_id", runID, "count", len(fileIDs), "scenario_code", scenarioCode, "kb_id", kbID)
	if err := o.client.DeleteFiles(token, pid, kbID, userID, fileIDs); err != nil {
		return wrapSyncError(runID, err, "file deletion failed during cleanup")
	}
	return nil
}

func (o *Orchestrator) waitForFileAppearance(token string, pid, kbID int, fileName, runID string) (int, error) {
	started := time.Now()
	for i := 0; i < appearancePollRetries; i++ {
		files, err := o.client.ListFiles(token, pid, kbID, fileName)
		if err != nil {
			return 0, wrapSyncError(runID, err, "file listing failed while waiting for appearance")
		}
		if len(files) > 0 {
			fileID := int(files[0].ID)
			slog.Info("File appeared in AICO list", "run_id", runID, "file_id", fileID)
			return fileID, nil
		}
		if i%10 == 0 {
			slog.Info("Waiting for file to appear", "run_id", runID, "elapsed_s", int(time.Since(started).Seconds()))
		}
		time.Sleep(o.pollInterval)
	}
	return 0, syncErrorf(runID, "uploaded file did not appear in file list within timeout")
}

func (o *Orchestrator) waitForSplitComplete(token string, pid, kbID int, fileName, runID string) error {
	started := time.Now()
	lastStatus := -1
	for i := 0; i < splitPollRetries; i++ {
		files, err := o.client.ListFiles(token, pid, kbID, fileName)
		if err != nil {
			return wrapSyncError(runID, err, "file listing failed while polling split status")
		}
		if len(files) == 0 {
			if i%10 == 0 {
				slog.Info("Split status polling: no file yet", "run_id", runID, "elapsed_s", int(time.Since(started).Seconds()))
			}
			time.Sleep(o.pollInterval)
			continue
		}

		status, ok := files[0].SplitStatus()
		if ok && (i == 0 || i%10 == 0 || status != lastStatus) {
			slog.Info("Split status polling", "run_id", runID, "status", status, "elapsed_s", int(time.Since(started).Seconds()))
			lastStatus = status
		}
		if ok && status == splitStatusReady {
			return nil
		}
		if ok && status == splitStatusFailed {
			return syncErrorf(runID, "file split failed in AICO")
		}
		time.Sleep(o.pollInterval)
	}
	return syncErrorf(runID, "file split did not complete within timeout")
}

// buildCSVFile 生成两列（question, answer）的导出文件
func buildCSVFile(scenarioCode string, items []QAPair, now time.Time) (string, []byte) {
	fileName := fmt.Sprintf("%s_knowledge_%s.csv", scenarioCode, now.Format("20060102150405"))

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write([]string{"question", "answer"})
	for _, item := range items {
		writer.Write([]string{item.Question, item.Answer})
	}
	writer.Flush()

	return fileName, buf.Bytes()
}

func elapsedMS(since time.Time) int64 {
	return time.Since(since).Milliseconds()
}
