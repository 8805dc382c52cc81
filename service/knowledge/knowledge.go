package knowledge

import (
	"dialog-faq-backend/dao"
	"dialog-faq-backend/model"
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrItemNotFound     = errors.New("knowledge item not found")
	ErrScenarioMismatch = errors.New("knowledge item belongs to another scenario")
	ErrInvalidStatus    = errors.New("invalid knowledge status")
)

// List 分页查询场景下的知识条目
func List(scenarioID int64, status model.KnowledgeStatus, page, pageSize int, keyword string) ([]model.KnowledgeItem, int64, error) {
	if status != "" && status != model.KnowledgeStatusActive && status != model.KnowledgeStatusDisabled {
		return nil, 0, ErrInvalidStatus
	}
	items, total, err := dao.ListKnowledgeItems(scenarioID, status, page, pageSize, keyword)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list knowledge items: %v", err)
	}
	return items, total, nil
}

func Get(id, scenarioID int64) (*model.KnowledgeItem, error) {
	item, err := dao.GetKnowledgeItemByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge item: %v", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.ScenarioID != scenarioID {
		return nil, ErrScenarioMismatch
	}
	return item, nil
}

// Update 修改知识条目的问答内容或启用状态，只允许操作本场景的条目
func Update(id, scenarioID int64, question, answer string, status model.KnowledgeStatus) (*model.KnowledgeItem, error) {
	if status != model.KnowledgeStatusActive && status != model.KnowledgeStatusDisabled {
		return nil, ErrInvalidStatus
	}

	item, err := Get(id, scenarioID)
	if err != nil {
		return nil, err
	}

	item.Question = question
	item.Answer = answer
	item.Status = status
	if err := dao.UpdateKnowledgeItem(item); err != nil {
		return nil, fmt.Errorf("failed to update knowledge item: %v", err)
	}

	slog.Info("Updated knowledge item", "knowledge_item_id", id, "status", status)
	return item, nil
}
