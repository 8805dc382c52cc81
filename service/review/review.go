package review

import (
	"dialog-faq-backend/dao"
	"dialog-faq-backend/model"
	"log/slog"

	"gorm.io/gorm"
)

// 批量操作单次上限
const maxBulkOperationSize = 100

// BulkAcceptItem 批量采纳时单条FAQ的入参
type BulkAcceptItem struct {
	PendingFAQID int64
	ScenarioID   int64
	Question     string
	Answer       string
}

// Accept 采纳一条待审核FAQ：生成知识条目并将其标记为processed
func Accept(pendingFAQID, scenarioID int64, question, answer, allowedGroupCode string) (*model.KnowledgeItem, error) {
	var item *model.KnowledgeItem

	err := dao.DB.Transaction(func(tx *gorm.DB) error {
		pending, err := dao.GetPendingFAQByID(tx, pendingFAQID)
		if err != nil {
			return err
		}
		if pending == nil {
			return notFoundf("pending FAQ %d not found", pendingFAQID)
		}
		if pending.Status != model.FAQStatusPending {
			return validationf("pending FAQ %d is already %s", pendingFAQID, pending.Status)
		}
		if allowedGroupCode != "" && pending.SourceGroupCode != allowedGroupCode {
			return permissionf("pending FAQ %d does not belong to the allowed group %s", pendingFAQID, allowedGroupCode)
		}

		item = &model.KnowledgeItem{
			ScenarioID: scenarioID,
			Question:   question,
			Answer:     answer,
			Status:     model.KnowledgeStatusActive,
		}
		if err := dao.CreateKnowledgeItem(tx, item); err != nil {
			return err
		}
		return tx.Model(pending).Update("status", model.FAQStatusProcessed).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Accepted pending FAQ", "pending_faq_id", pendingFAQID, "knowledge_item_id", item.ID)
	return item, nil
}

// Discard 丢弃一条待审核FAQ
func Discard(pendingFAQID int64, allowedGroupCode string) error {
	err := dao.DB.Transaction(func(tx *gorm.DB) error {
		pending, err := dao.GetPendingFAQByID(tx, pendingFAQID)
		if err != nil {
			return err
		}
		if pending == nil {
			return notFoundf("pending FAQ %d not found", pendingFAQID)
		}
		if allowedGroupCode != "" && pending.SourceGroupCode != allowedGroupCode {
			return permissionf("pending FAQ %d does not belong to the allowed group %s", pendingFAQID, allowedGroupCode)
		}
		return tx.Model(pending).Update("status", model.FAQStatusDiscarded).Error
	})
	if err != nil {
		return err
	}

	slog.Info("Discarded pending FAQ", "pending_faq_id", pendingFAQID)
	return nil
}

// BulkAccept 批量采纳，加行锁保证并发请求下每条FAQ至多被处理一次
func BulkAccept(payloads []BulkAcceptItem, scenarioID int64, allowedGroupCode string) (int, error) {
	if err := validateBulkSize(len(payloads)); err != nil {
		return 0, err
	}

	ids := make([]int64, 0, len(payloads))
	for _, p := range payloads {
		ids = append(ids, p.PendingFAQID)
	}
	if hasDuplicates(ids) {
		return 0, validationf("包含重复的待审核 FAQ 编号")
	}

	err := dao.DB.Transaction(func(tx *gorm.DB) error {
		rows, err := dao.GetPendingFAQsForUpdate(tx, ids)
		if err != nil {
			return err
		}
		byID := make(map[int64]*model.PendingFAQ, len(rows))
		for i := range rows {
			byID[rows[i].ID] = &rows[i]
		}

		for _, payload := range payloads {
			pending, ok := byID[payload.PendingFAQID]
			if !ok {
				return notFoundf("pending FAQ %d not found", payload.PendingFAQID)
			}
			if pending.Status != model.FAQStatusPending {
				return validationf("pending FAQ %d is already %s", pending.ID, pending.Status)
			}
			if allowedGroupCode != "" && pending.SourceGroupCode != allowedGroupCode {
				return permissionf("pending FAQ %d does not belong to the allowed group %s", pending.ID, allowedGroupCode)
			}
			if payload.ScenarioID != scenarioID {
				return permissionf("pending FAQ %d does not belong to scenario %d", pending.ID, scenarioID)
			}

			item := &model.KnowledgeItem{
				ScenarioID: scenarioID,
				Question:   payload.Question,
				Answer:     payload.Answer,
				Status:     model.KnowledgeStatusActive,
			}
			if err := dao.CreateKnowledgeItem(tx, item); err != nil {
				return err
			}
			if err := tx.Model(pending).Update("status", model.FAQStatusProcessed).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Bulk accepted pending FAQs", "count", len(payloads))
	return len(payloads), nil
}

// BulkDiscard 批量丢弃
func BulkDiscard(pendingFAQIDs []int64, allowedGroupCode string) (int, error) {
	if err := validateBulkSize(len(pendingFAQIDs)); err != nil {
		return 0, err
	}
	if hasDuplicates(pendingFAQIDs) {
		return 0, validationf("包含重复的待审核 FAQ 编号")
	}

	err := dao.DB.Transaction(func(tx *gorm.DB) error {
		rows, err := dao.GetPendingFAQsForUpdate(tx, pendingFAQIDs)
		if err != nil {
			return err
		}
		byID := make(map[int64]*model.PendingFAQ, len(rows))
		for i := range rows {
			byID[rows[i].ID] = &rows[i]
		}

		for _, id := range pendingFAQIDs {
			pending, ok := byID[id]
			if !ok {
				return notFoundf("pending FAQ %d not found", id)
			}
			if pending.Status != model.FAQStatusPending {
				return validationf("pending FAQ %d is already %s", pending.ID, pending.Status)
			}
			if allowedGroupCode != "" && pending.SourceGroupCode != allowedGroupCode {
				return permissionf("pending FAQ %d does not belong to the allowed group %s", pending.ID, allowedGroupCode)
			}
			if err := tx.Model(pending).Update("status", model.FAQStatusDiscarded).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Bulk discarded pending FAQs", "count", len(pendingFAQIDs))
	return len(pendingFAQIDs), nil
}

func validateBulkSize(count int) error {
	if count < 1 {
		return validationf("至少需要选择一条数据进行操作")
	}
	if count > maxBulkOperationSize {
		return validationf("单次最多只能处理 %d 条数据", maxBulkOperationSize)
	}
	return nil
}

func hasDuplicates(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
