package dao

import (
	"dialog-faq-backend/model"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ConversationExists 按call_id判断对话是否已经落库
func ConversationExists(tx *gorm.DB, callID string) (bool, error) {
	var id int64
	err := tx.Model(&model.PreparedConversation{}).
		Select("id").
		Where("call_id = ?", callID).
		Take(&id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetUnprocessedConversationIDs 查询待提取的对话ID，可按日期窗口过滤
func GetUnprocessedConversationIDs(start, end *time.Time) ([]int64, error) {
	query := DB.Model(&model.PreparedConversation{}).
		Where("status = ?", model.StatusUnprocessed)
	if start != nil && end != nil {
		query = query.Where("conversation_time >= ? AND conversation_time < ?", *start, *end)
	}

	var ids []int64
	if err := query.Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func GetConversationByID(id int64) (*model.PreparedConversation, error) {
	var conv model.PreparedConversation
	if err := DB.Where("id = ?", id).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

func UpdateConversationStatus(id int64, status model.ConversationStatus) error {
	return DB.Model(&model.PreparedConversation{}).
		Where("id = ?", id).
		Update("status", status).Error
}
