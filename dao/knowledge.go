package dao

import (
	"dialog-faq-backend/model"
	"errors"

	"gorm.io/gorm"
)

func CreateKnowledgeItem(tx *gorm.DB, item *model.KnowledgeItem) error {
	return tx.Create(item).Error
}

// GetActiveKnowledgeItems 查询场景下全部启用的知识条目
func GetActiveKnowledgeItems(scenarioID int64) ([]model.KnowledgeItem, error) {
	var items []model.KnowledgeItem
	if err := DB.
		Where("scenario_id = ? AND status = ?", scenarioID, model.KnowledgeStatusActive).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListKnowledgeItems 分页查询场景下的知识条目，可按状态与关键字过滤
func ListKnowledgeItems(scenarioID int64, status model.KnowledgeStatus, page, pageSize int, keyword string) ([]model.KnowledgeItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	query := DB.Model(&model.KnowledgeItem{}).Where("scenario_id = ?", scenarioID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("question LIKE ? OR answer LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.KnowledgeItem
	if err := query.
		Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func GetKnowledgeItemByID(id int64) (*model.KnowledgeItem, error) {
	var item model.KnowledgeItem
	if err := DB.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func UpdateKnowledgeItem(item *model.KnowledgeItem) error {
	return DB.Model(&model.KnowledgeItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"question": item.Question,
			"answer":   item.Answer,
			"status":   item.Status,
		}).Error
}
