package etl

import (
	"dialog-faq-backend/config"
	"dialog-faq-backend/dao"
	"dialog-faq-backend/model"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

// GroupResult 单个分组的聚合结果
type GroupResult struct {
	GroupCode          string
	ConversationsTotal int
	Inserted           int
	SkippedExisting    int
}

// RunResult 一次ETL运行的汇总结果
type RunResult struct {
	TargetDate         time.Time
	GroupsProcessed    int
	ConversationsTotal int
	Inserted           int
	SkippedExisting    int
}

// Service 对话聚合服务：将原始逐轮对话记录按call_id聚合为完整对话
type Service struct {
	maxWorkers int
	location   *time.Location
}

func NewService() *Service {
	return &Service{
		maxWorkers: config.Cfg.Scheduler.ETLMaxWorkers,
		location:   config.Cfg.Scheduler.Location(),
	}
}

// DefaultTargetDate 定时任务默认处理前一天的数据
func (s *Service) DefaultTargetDate() time.Time {
	now := time.Now().In(s.location)
	yesterday := now.AddDate(0, 0, -1)
	return time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, s.location)
}

// RunForDate 聚合目标日期 [00:00, 次日00:00) 内的全部原始对话。
// 各分组并发处理，任一分组失败则整次运行失败（已提交的分组不回滚）。
func (s *Service) RunForDate(targetDate time.Time) (*RunResult, error) {
	start, end := dateRange(targetDate, s.location)

	groupCodes, err := dao.GetActiveGroupCodes(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group codes: %v", err)
	}
	if len(groupCodes) == 0 {
		slog.Info("No dialogs found for target date", "target_date", targetDate.Format(time.DateOnly))
		return &RunResult{TargetDate: targetDate}, nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		results  []*GroupResult
		firstErr error
	)
	sem := make(chan struct{}, s.maxWorkers)

	for _, code := range groupCodes {
		wg.Add(1)
		sem <- struct{}{}
		go func(groupCode string) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := s.processGroup(groupCode, start, end)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Error("ETL failed for group", "group_code", groupCode, "err", err)
				if firstErr == nil {
					firstErr = fmt.Errorf("etl failed for group %s: %v", groupCode, err)
				}
				return
			}

			results = append(results, result)
			slog.Info("Group processed",
				"group_code", groupCode,
				"total", result.ConversationsTotal,
				"inserted", result.Inserted,
				"skipped", result.SkippedExisting,
			)
		}(code)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	run := &RunResult{
		TargetDate:      targetDate,
		GroupsProcessed: len(results),
	}
	for _, r := range results {
		run.ConversationsTotal += r.ConversationsTotal
		run.Inserted += r.Inserted
		run.SkippedExisting += r.SkippedExisting
	}

	slog.Info("ETL complete",
		"target_date", targetDate.Format(time.DateOnly),
		"groups", run.GroupsProcessed,
		"total", run.ConversationsTotal,
		"inserted", run.Inserted,
		"skipped", run.SkippedExisting,
	)
	return run, nil
}

// processGroup 聚合单个分组的对话并落库。
// 整个分组在一个事务内提交；唯一约束冲突说明存在并发的相同运行，
// 视为完整性错误回滚并上抛，存在性预检查才是正常的跳过路径。
func (s *Service) processGroup(groupCode string, start, end time.Time) (*GroupResult, error) {
	records, err := dao.GetDialogRecords(groupCode, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dialog records: %v", err)
	}

	result := &GroupResult{GroupCode: groupCode}

	err = dao.DB.Transaction(func(tx *gorm.DB) error {
		flush := func(turns []model.DialogRecord) error {
			if len(turns) == 0 {
				return nil
			}
			callID := turns[0].CallID
			result.ConversationsTotal++

			exists, err := dao.ConversationExists(tx, callID)
			if err != nil {
				return err
			}
			if exists {
				result.SkippedExisting++
				return nil
			}

			fullText, conversationTime := buildConversationText(turns)
			conversation := model.PreparedConversation{
				GroupCode:        groupCode,
				CallID:           callID,
				FullText:         fullText,
				Status:           model.StatusUnprocessed,
				ConversationTime: conversationTime,
			}
			if err := tx.Create(&conversation).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("duplicate conversation %s committed concurrently: %v", callID, err)
				}
				return err
			}
			result.Inserted++
			return nil
		}

		var buffer []model.DialogRecord
		currentCallID := ""
		for _, record := range records {
			if record.CallID != currentCallID {
				if err := flush(buffer); err != nil {
					return err
				}
				buffer = buffer[:0]
				currentCallID = record.CallID
			}
			buffer = append(buffer, record)
		}
		return flush(buffer)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// buildConversationText 将同一通对话的轮次拼接为带角色前缀的全文，
// 对话时间取最早一条轮次的create_time，缺失时退回当前时间
func buildConversationText(turns []model.DialogRecord) (string, time.Time) {
	lines := make([]string, 0, len(turns))
	var conversationTime time.Time

	for _, turn := range turns {
		prefix := "客服"
		if turn.Source == model.SourceCitizen {
			prefix = "市民"
		}
		lines = append(lines, prefix+"："+strings.TrimSpace(turn.Text))

		if conversationTime.IsZero() && !turn.CreateTime.IsZero() {
			conversationTime = turn.CreateTime
		}
	}

	if conversationTime.IsZero() {
		conversationTime = time.Now()
	}
	return strings.Join(lines, "\n"), conversationTime
}

func dateRange(targetDate time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
