package extraction

import (
	"dialog-faq-backend/config"
	"dialog-faq-backend/dao"
	"dialog-faq-backend/model"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// 模型明确表示对话中无可提取FAQ的应答
const negativeMarker = "否"

const (
	questionMarker = "问题："
	answerMarker   = "答案："
)

// RunResult 一次FAQ提取运行的汇总结果
type RunResult struct {
	TargetDate         *time.Time
	ConversationsTotal int
	FAQsCreated        int
}

// Service FAQ提取服务：将聚合后的对话交给chatbot提取候选问答对
type Service struct {
	maxWorkers int
	location   *time.Location

	// 可注入的chatbot调用，测试时替换
	callAico func(query, url string) (string, error)

	reviewRetryAttempts uint
	reviewRetryDelay    time.Duration
}

func NewService() *Service {
	return &Service{
		maxWorkers:          config.Cfg.Scheduler.FAQMaxWorkers,
		location:            config.Cfg.Scheduler.Location(),
		callAico:            callChatbot,
		reviewRetryAttempts: autoReviewAttempts,
		reviewRetryDelay:    autoReviewRetryDelay,
	}
}

// Run 提取全部unprocessed状态的对话，可按日期过滤或限制数量。
// 单个对话的失败不影响其他对话。
func (s *Service) Run(targetDate *time.Time, limit int) (*RunResult, error) {
	var start, end *time.Time
	if targetDate != nil {
		st := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, s.location)
		en := st.AddDate(0, 0, 1)
		start, end = &st, &en
	}

	ids, err := dao.GetUnprocessedConversationIDs(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unprocessed conversations: %v", err)
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	if len(ids) == 0 {
		slog.Info("No conversations to extract FAQs from")
		return &RunResult{TargetDate: targetDate}, nil
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	sem := make(chan struct{}, s.maxWorkers)

	for _, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(convID int64) {
			defer wg.Done()
			defer func() { <-sem }()

			ok, err := s.processConversation(convID)
			if err != nil {
				slog.Error("FAQ extraction task failed", "conversation_id", convID, "err", err)
				return
			}
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	slog.Info("FAQ extraction complete", "conversations", len(ids), "faqs_created", created)
	return &RunResult{
		TargetDate:         targetDate,
		ConversationsTotal: len(ids),
		FAQsCreated:        created,
	}, nil
}

// processConversation 处理单个对话：认领、调用提取、解析、落库。
// 返回是否生成了待审核FAQ。
func (s *Service) processConversation(convID int64) (bool, error) {
	conv, err := dao.GetConversationByID(convID)
	if err != nil {
		return false, err
	}
	// 对话不存在或已被并发运行认领，直接跳过
	if conv == nil || conv.Status != model.StatusUnprocessed {
		return false, nil
	}

	// 先认领再工作，立即提交processing状态，降低并发重复处理的概率
	if err := dao.UpdateConversationStatus(convID, model.StatusProcessing); err != nil {
		return false, err
	}

	fullText := strings.TrimSpace(conv.FullText)
	if fullText == "" {
		return false, dao.UpdateConversationStatus(convID, model.StatusProcessedNoFAQ)
	}

	reply, err := s.callAico(fullText, "")
	if err != nil {
		slog.Error("Chatbot call failed", "call_id", conv.CallID, "err", err)
		return false, dao.UpdateConversationStatus(convID, model.StatusFailed)
	}

	reply = strings.TrimSpace(reply)
	if reply == negativeMarker {
		return false, dao.UpdateConversationStatus(convID, model.StatusProcessedNoFAQ)
	}

	question, answer := parseQuestionAnswer(reply)
	if question == "" || answer == "" {
		return false, dao.UpdateConversationStatus(convID, model.StatusProcessedNoFAQ)
	}

	status := s.determinePendingStatus(question, answer, conv.CallID)

	faq := model.PendingFAQ{
		Question:               question,
		Answer:                 answer,
		Status:                 status,
		SourceGroupCode:        conv.GroupCode,
		SourceCallID:           conv.CallID,
		SourceConversationText: conv.FullText,
	}
	if err := dao.CreatePendingFAQ(&faq); err != nil {
		return false, err
	}
	if err := dao.UpdateConversationStatus(convID, model.StatusCompleted); err != nil {
		return false, err
	}

	slog.Info("Created pending FAQ from conversation",
		"conversation_id", convID,
		"call_id", conv.CallID,
		"status", status,
	)
	return true, nil
}

// parseQuestionAnswer 解析 "问题：xxx\n答案：yyy" 格式的应答。
// 标记缺失时整段应答同时作为问题与答案（存量行为，见 wholeReplyFallback）。
func parseQuestionAnswer(raw string) (string, string) {
	text := strings.TrimSpace(raw)
	if strings.Contains(text, questionMarker) && strings.Contains(text, answerMarker) {
		_, rest, _ := strings.Cut(text, questionMarker)
		qPart, aPart, found := strings.Cut(rest, answerMarker)
		if found {
			return strings.TrimSpace(qPart), strings.TrimSpace(aPart)
		}
	}
	return wholeReplyFallback(text)
}

// wholeReplyFallback 退化路径：无法切分时整段应答兼作问答两个字段。
// 单独成名便于后续一处替换该策略。
func wholeReplyFallback(text string) (string, string) {
	return text, text
}
