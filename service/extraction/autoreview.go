package extraction

import (
	"dialog-faq-backend/config"
	"dialog-faq-backend/model"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	decisionApproved = "approved"
	decisionRejected = "rejected"

	autoReviewAttempts   = 3
	autoReviewRetryDelay = 2 * time.Second
)

// 结构化应答中可能携带审核结论的字段名
var decisionFields = []string{"result", "decision", "status", "review_result"}

// determinePendingStatus 自动审核子协议，决定候选FAQ的初始状态。
// 自动审核通过后还需对比审核同样通过才进入pending；
// 任一调用重试耗尽后仍失败则保守回退到pending，交由人工审核。
func (s *Service) determinePendingStatus(question, answer, callID string) model.FAQStatus {
	decision, err := s.runReview(question, answer, s.autoReviewURL())
	if err != nil {
		slog.Warn("Auto review call failed, falling back to manual review",
			"call_id", callID, "err", err)
		return model.FAQStatusPending
	}
	if decision != decisionApproved {
		return model.FAQStatusAutoRejected
	}

	decision, err = s.runReview(question, answer, s.compareReviewURL())
	if err != nil {
		slog.Warn("Compare review call failed, falling back to manual review",
			"call_id", callID, "err", err)
		return model.FAQStatusPending
	}
	if decision != decisionApproved {
		return model.FAQStatusAutoRejected
	}

	return model.FAQStatusPending
}

// runReview 调用审核端点并解释结论，仅对传输错误重试
func (s *Service) runReview(question, answer, url string) (string, error) {
	query := questionMarker + question + "\n" + answerMarker + answer

	reply, err := retry.DoWithData(
		func() (string, error) {
			reply, err := s.callAico(query, url)
			if err != nil && errors.Is(err, errMalformedReply) {
				return "", retry.Unrecoverable(err)
			}
			return reply, err
		},
		retry.Attempts(s.reviewRetryAttempts),
		retry.Delay(s.reviewRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Retrying review call", "attempt", n+1, "url", url, "err", err)
		}),
	)
	if err != nil {
		return "", err
	}

	return parseReviewDecision(reply), nil
}

// parseReviewDecision 解释审核应答：
// 精确匹配 approved/rejected，否则尝试按JSON解析并查找结论字段，
// 最后兜底为rejected并记录异常应答。
func parseReviewDecision(reply string) string {
	normalized := strings.ToLower(strings.TrimSpace(reply))
	if normalized == decisionApproved || normalized == decisionRejected {
		return normalized
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(reply), &parsed); err == nil {
		for _, field := range decisionFields {
			if d, ok := decisionValue(parsed[field]); ok {
				return d
			}
		}
		for _, value := range parsed {
			if d, ok := decisionValue(value); ok {
				return d
			}
		}
	}

	slog.Warn("Unrecognized review reply, treating as rejected", "reply", reply)
	return decisionRejected
}

func decisionValue(v any) (string, bool) {
	str, ok := v.(string)
	if !ok {
		return "", false
	}
	normalized := strings.ToLower(strings.TrimSpace(str))
	if normalized == decisionApproved || normalized == decisionRejected {
		return normalized, true
	}
	return "", false
}

// 审核端点缺省时逐级回退：对比审核 → 自动审核 → 提取端点
func (s *Service) autoReviewURL() string {
	if url := config.Cfg.Aico.AutoReviewURL; url != "" {
		return url
	}
	return config.Cfg.Aico.ChatbotURL
}

func (s *Service) compareReviewURL() string {
	if url := config.Cfg.Aico.CompareReviewURL; url != "" {
		return url
	}
	return s.autoReviewURL()
}
